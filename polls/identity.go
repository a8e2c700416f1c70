// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/pokepoll/models"
	"github.com/danielhkuo/pokepoll/store"
)

// Resolver maps identity strings to user ids.
type Resolver struct {
	store store.Store
	now   func() time.Time
}

// Resolve returns the user id for identity, creating the user on first
// sight. Two concurrent first-time calls end up with the same id: the loser
// of the insert race hits the unique index and reads the winner's row.
func (r *Resolver) Resolve(ctx context.Context, identity string) (string, error) {
	if strings.TrimSpace(identity) == "" {
		return "", models.Errorf(models.ErrInvalidArgument, "identity is required")
	}

	id, found, err := r.Lookup(ctx, identity)
	if err != nil || found {
		return id, err
	}

	u := models.User{ID: uuid.NewString(), Identity: identity, CreatedAt: r.now()}
	err = r.store.InsertUser(ctx, &u)
	if err == nil {
		slog.Info("user created", "user_id", u.ID)
		return u.ID, nil
	}
	if !errors.Is(err, store.ErrUniqueViolation) {
		return "", unavailable("insert user", err)
	}

	id, found, err = r.Lookup(ctx, identity)
	if err != nil {
		return "", err
	}
	if !found {
		return "", unavailable("resolve identity", fmt.Errorf("user missing after unique violation"))
	}
	return id, nil
}

// Lookup is the read-only half of Resolve.
func (r *Resolver) Lookup(ctx context.Context, identity string) (string, bool, error) {
	u, err := r.store.UserByIdentity(ctx, identity)
	if errors.Is(err, store.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable("lookup user", err)
	}
	return u.ID, true, nil
}
