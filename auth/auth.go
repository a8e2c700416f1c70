// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/danielhkuo/pokepoll/models"
)

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
)

// Permission is one operation a caller may perform.
type Permission string

const (
	PermCreatePoll Permission = "poll:create"
	PermEndPoll    Permission = "poll:end"
	PermVote       Permission = "poll:vote"
)

// Context is the caller as seen by the poll service: a resolved identity,
// the permissions granted to it, and an optional admin key.
type Context struct {
	Identity    string
	Permissions map[Permission]bool
	AdminKey    string
	// System callers (CLI, maintenance) skip admin key checks.
	System bool
}

// Has reports whether perm was granted.
func (c Context) Has(perm Permission) bool {
	return c.Permissions[perm]
}

// Public is a web visitor identified by identity. It may vote, create polls,
// and end polls; ending is further gated by the Policy when admin keys are on.
func Public(identity, adminKey string) Context {
	return Context{
		Identity: identity,
		AdminKey: adminKey,
		Permissions: map[Permission]bool{
			PermCreatePoll: true,
			PermEndPoll:    true,
			PermVote:       true,
		},
	}
}

// System is a trusted local operator.
func System(identity string) Context {
	c := Public(identity, "")
	c.System = true
	return c
}

// Authorizer decides whether a caller may perform perm on a poll.
// pollID is empty for operations not bound to a poll.
type Authorizer interface {
	Authorize(c Context, perm Permission, pollID string) error
}

// AllowAll grants everything. Useful in tests.
type AllowAll struct{}

func (AllowAll) Authorize(Context, Permission, string) error { return nil }

// Policy checks the permission set and, when Salt is set, requires the
// poll's admin key to end it. An empty Salt leaves ending open to anyone
// holding PermEndPoll.
type Policy struct {
	Salt string
}

func (p Policy) Authorize(c Context, perm Permission, pollID string) error {
	if !c.Has(perm) {
		return models.Errorf(models.ErrForbidden, "not allowed to %s", perm)
	}
	if perm != PermEndPoll || p.Salt == "" || c.System {
		return nil
	}
	if err := ValidateAdminKey(pollID, c.AdminKey, p.Salt); err != nil {
		return &models.Error{Kind: models.ErrForbidden, Message: "invalid admin key", Err: err}
	}
	return nil
}

// GenerateAdminKey creates an HMAC-based admin key for a poll
// This is deterministic and verifiable
func GenerateAdminKey(pollID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(pollID))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAdminKey checks if the provided admin key is valid for the poll
func ValidateAdminKey(pollID, adminKey, salt string) error {
	expected := GenerateAdminKey(pollID, salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}

// Identity turns a raw client address into the identity stored for voters.
// With a salt the address is hashed so raw IPs never reach the database.
func Identity(ip, salt string) string {
	if salt == "" {
		return ip
	}
	return HashIP(ip, salt)
}
