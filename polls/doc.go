// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package polls implements the poll lifecycle and one-vote-per-identity rules.

# Components

  - Resolver maps identity strings to users, creating them on first sight.
  - Registry stores catalog items by name; the first write wins.
  - Manager opens, ends and reads polls. At most one poll is open.
  - Ledger records votes and answers tally and eligibility queries.

Service wires them over one store.Store and adds Summary views:

	svc := polls.New(st, catalogClient, auth.Policy{Salt: salt})
	p, err := svc.CreatePoll(ctx, auth.Public(ip, ""), "Pikachu", "Charizard")
	err = svc.CastVote(ctx, auth.Public(ip, ""), p.ID, p.ItemAID)

# Races

Application checks (is a poll open, has this user voted) only produce early,
friendly errors. The store's unique constraints decide: a losing poll insert
returns ErrConflict, a losing vote insert returns ErrAlreadyVoted, and a
losing user or item insert is retried as a lookup.

# Errors

Every error returned is a *models.Error. Store failures become
models.ErrUnavailable with a generic message; the cause is logged.
*/
package polls
