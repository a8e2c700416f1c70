// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth describes who is calling the poll service and what they may do.

# Caller Context

Every service operation receives an auth.Context instead of consulting a
global "authenticated" flag:

	ac := auth.Public(identity, r.Header.Get("X-Admin-Key"))
	err := svc.CastVote(ctx, ac, pollID, itemID)

Public grants vote, create and end. System is for the CLI and skips admin
key checks. Tests can build a Context by hand or use AllowAll.

# Policy

Policy enforces the permission set. When Salt is configured, ending a poll
also requires that poll's admin key:

	adminKey := auth.GenerateAdminKey(pollID, salt)
	err := auth.ValidateAdminKey(pollID, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same poll ID and salt always produce the same key. This allows validation
without storing the key in the database.

# Identity

Voters are identified by client address. With an identity salt the address
is hashed before it is stored:

	identity := auth.Identity(ip, salt)

HashIP returns the first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
