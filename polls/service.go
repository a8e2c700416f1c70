// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/pokepoll/auth"
	"github.com/danielhkuo/pokepoll/models"
	"github.com/danielhkuo/pokepoll/store"
)

// Catalog resolves an item name to its attributes. Implementations return
// errors of kind models.ErrNotFound for unknown names.
type Catalog interface {
	FetchItem(ctx context.Context, name string) (models.ItemAttrs, error)
}

// Service wires the four components over one store.
type Service struct {
	Users *Resolver
	Items *Registry
	Polls *Manager
	Votes *Ledger
}

// New builds a Service. A nil authorizer allows everything.
func New(st store.Store, cat Catalog, authz auth.Authorizer) *Service {
	if authz == nil {
		authz = auth.AllowAll{}
	}
	now := func() time.Time { return time.Now().UTC() }

	users := &Resolver{store: st, now: now}
	items := &Registry{store: st, now: now}
	return &Service{
		Users: users,
		Items: items,
		Polls: &Manager{store: st, catalog: cat, items: items, authz: authz, now: now},
		Votes: &Ledger{store: st, users: users, authz: authz, now: now},
	}
}

func (s *Service) CreatePoll(ctx context.Context, ac auth.Context, nameA, nameB string) (models.Poll, error) {
	return s.Polls.CreatePoll(ctx, ac, nameA, nameB)
}

func (s *Service) EndPoll(ctx context.Context, ac auth.Context, pollID string) error {
	return s.Polls.EndPoll(ctx, ac, pollID)
}

func (s *Service) OpenPoll(ctx context.Context) (*models.Poll, error) {
	return s.Polls.OpenPoll(ctx)
}

func (s *Service) Poll(ctx context.Context, pollID string) (models.Poll, error) {
	return s.Polls.Poll(ctx, pollID)
}

func (s *Service) ListPolls(ctx context.Context, status string, limit int) ([]models.Poll, error) {
	return s.Polls.ListPolls(ctx, status, limit)
}

func (s *Service) CastVote(ctx context.Context, ac auth.Context, pollID, itemID string) error {
	return s.Votes.CastVote(ctx, ac, pollID, itemID)
}

func (s *Service) Tally(ctx context.Context, pollID, itemID string) (int, error) {
	return s.Votes.Tally(ctx, pollID, itemID)
}

func (s *Service) CanVote(ctx context.Context, pollID, identity string) (bool, error) {
	return s.Votes.CanVote(ctx, pollID, identity)
}

func (s *Service) Item(ctx context.Context, itemID string) (models.Item, error) {
	return s.Items.Get(ctx, itemID)
}

// Summary returns a poll with both items, their tallies and the leader.
func (s *Service) Summary(ctx context.Context, pollID string) (models.PollSummary, error) {
	p, err := s.Polls.Poll(ctx, pollID)
	if err != nil {
		return models.PollSummary{}, err
	}
	return s.summarize(ctx, p)
}

// OpenSummary is Summary for the open poll; nil when no poll is open.
func (s *Service) OpenSummary(ctx context.Context) (*models.PollSummary, error) {
	p, err := s.Polls.OpenPoll(ctx)
	if err != nil || p == nil {
		return nil, err
	}
	sum, err := s.summarize(ctx, *p)
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

func (s *Service) summarize(ctx context.Context, p models.Poll) (models.PollSummary, error) {
	a, err := s.contender(ctx, p.ID, p.ItemAID)
	if err != nil {
		return models.PollSummary{}, err
	}
	b, err := s.contender(ctx, p.ID, p.ItemBID)
	if err != nil {
		return models.PollSummary{}, err
	}

	sum := models.PollSummary{Poll: p, ItemA: a, ItemB: b, Total: a.Votes + b.Votes}
	switch {
	case a.Votes > b.Votes:
		sum.ItemA.Winning = true
		sum.Leader = a.Item.ID
	case b.Votes > a.Votes:
		sum.ItemB.Winning = true
		sum.Leader = b.Item.ID
	}
	return sum, nil
}

func (s *Service) contender(ctx context.Context, pollID, itemID string) (models.Contender, error) {
	item, err := s.Items.Get(ctx, itemID)
	if err != nil {
		return models.Contender{}, err
	}
	votes, err := s.Votes.Tally(ctx, pollID, itemID)
	if err != nil {
		return models.Contender{}, err
	}
	return models.Contender{Item: item, Votes: votes}, nil
}

// unavailable logs a store failure and hides it behind a generic message.
func unavailable(op string, err error) error {
	slog.Error(op+" failed", "error", err)
	return models.Unavailable("storage is unavailable", fmt.Errorf("%s: %w", op, err))
}
