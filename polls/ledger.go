// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/pokepoll/auth"
	"github.com/danielhkuo/pokepoll/metrics"
	"github.com/danielhkuo/pokepoll/models"
	"github.com/danielhkuo/pokepoll/store"
)

// Ledger records votes. One vote per user per poll, enforced by the
// store's unique (poll_id, user_id) constraint.
type Ledger struct {
	store store.Store
	users *Resolver
	authz auth.Authorizer
	now   func() time.Time
}

// CastVote records the caller's vote for itemID in pollID.
func (l *Ledger) CastVote(ctx context.Context, ac auth.Context, pollID, itemID string) error {
	if err := l.authz.Authorize(ac, auth.PermVote, pollID); err != nil {
		return err
	}
	if pollID == "" || itemID == "" {
		return models.Errorf(models.ErrInvalidArgument, "poll id and item id are required")
	}

	p, err := l.store.PollByID(ctx, pollID)
	if errors.Is(err, store.ErrNotFound) {
		return reject("poll_not_found", models.Errorf(models.ErrNotFound, "poll %s not found", pollID))
	}
	if err != nil {
		return unavailable("get poll", err)
	}
	if p.Finished {
		return reject("finished", models.Errorf(models.ErrConflict, "poll %s is finished", pollID))
	}
	if !p.HasItem(itemID) {
		return reject("wrong_item", models.Errorf(models.ErrInvalidArgument, "item %s is not part of poll %s", itemID, pollID))
	}

	userID, err := l.users.Resolve(ctx, ac.Identity)
	if err != nil {
		return err
	}

	voted, err := l.store.HasVoted(ctx, pollID, userID)
	if err != nil {
		return unavailable("check vote", err)
	}
	if voted {
		return reject("already_voted", errAlreadyVoted())
	}

	v := models.Vote{
		ID:        uuid.NewString(),
		PollID:    pollID,
		ItemID:    itemID,
		UserID:    userID,
		CreatedAt: l.now(),
	}
	if err := l.store.InsertVote(ctx, &v); err != nil {
		if errors.Is(err, store.ErrUniqueViolation) {
			return reject("already_voted", errAlreadyVoted())
		}
		return unavailable("insert vote", err)
	}

	metrics.VotesCast.Inc()
	slog.Info("vote cast", "poll_id", pollID, "item_id", itemID, "user_id", userID)
	return nil
}

// Tally counts the votes for itemID in pollID. Unknown polls or items
// count zero.
func (l *Ledger) Tally(ctx context.Context, pollID, itemID string) (int, error) {
	n, err := l.store.CountVotes(ctx, pollID, itemID)
	if err != nil {
		return 0, unavailable("count votes", err)
	}
	return n, nil
}

// CanVote reports whether identity has yet to vote in pollID. It never
// creates a user.
func (l *Ledger) CanVote(ctx context.Context, pollID, identity string) (bool, error) {
	if identity == "" {
		return false, models.Errorf(models.ErrInvalidArgument, "identity is required")
	}
	userID, found, err := l.users.Lookup(ctx, identity)
	if err != nil {
		return false, err
	}
	if !found {
		return true, nil
	}
	voted, err := l.store.HasVoted(ctx, pollID, userID)
	if err != nil {
		return false, unavailable("check vote", err)
	}
	return !voted, nil
}

func errAlreadyVoted() error {
	return models.Errorf(models.ErrAlreadyVoted, "this identity has already voted in this poll")
}

func reject(reason string, err error) error {
	metrics.VotesRejected.WithLabelValues(reason).Inc()
	return err
}
