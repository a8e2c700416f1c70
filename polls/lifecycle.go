// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/pokepoll/auth"
	"github.com/danielhkuo/pokepoll/metrics"
	"github.com/danielhkuo/pokepoll/models"
	"github.com/danielhkuo/pokepoll/store"
)

// Poll list filters accepted by ListPolls.
const (
	FilterAll      = ""
	FilterOpen     = models.StatusOpen
	FilterFinished = models.StatusFinished
)

// Manager creates, ends and reads polls. At most one poll is open at a time;
// the store's partial unique index is the final word on that.
type Manager struct {
	store   store.Store
	catalog Catalog
	items   *Registry
	authz   auth.Authorizer
	now     func() time.Time
}

// CreatePoll opens a poll between two catalog items looked up by name.
func (m *Manager) CreatePoll(ctx context.Context, ac auth.Context, nameA, nameB string) (models.Poll, error) {
	if err := m.authz.Authorize(ac, auth.PermCreatePoll, ""); err != nil {
		return models.Poll{}, err
	}

	nameA, nameB = strings.TrimSpace(nameA), strings.TrimSpace(nameB)
	if nameA == "" || nameB == "" {
		return models.Poll{}, models.Errorf(models.ErrInvalidArgument, "names for both items are required")
	}
	if strings.EqualFold(nameA, nameB) {
		return models.Poll{}, models.Errorf(models.ErrInvalidArgument, "two different items are required")
	}

	// Cheap early exit; the insert below still guards the race.
	open, err := m.OpenPoll(ctx)
	if err != nil {
		return models.Poll{}, err
	}
	if open != nil {
		return models.Poll{}, errPollOpen()
	}

	attrsA, attrsB, err := m.fetchPair(ctx, nameA, nameB)
	if err != nil {
		return models.Poll{}, err
	}

	idA, err := m.items.GetOrCreate(ctx, attrsA)
	if err != nil {
		return models.Poll{}, err
	}
	idB, err := m.items.GetOrCreate(ctx, attrsB)
	if err != nil {
		return models.Poll{}, err
	}
	// Different spellings can normalize to the same catalog entry.
	if idA == idB {
		return models.Poll{}, models.Errorf(models.ErrInvalidArgument, "two different items are required")
	}

	p := models.Poll{
		ID:        uuid.NewString(),
		ItemAID:   idA,
		ItemBID:   idB,
		CreatedAt: m.now(),
	}
	if err := m.store.InsertPoll(ctx, &p); err != nil {
		if errors.Is(err, store.ErrUniqueViolation) {
			return models.Poll{}, errPollOpen()
		}
		return models.Poll{}, unavailable("insert poll", err)
	}

	metrics.PollsCreated.Inc()
	slog.Info("poll created", "poll_id", p.ID, "item_a", attrsA.Name, "item_b", attrsB.Name)
	return p, nil
}

// fetchPair looks both names up concurrently. Errors are reported in
// argument order so a bad first name always wins.
func (m *Manager) fetchPair(ctx context.Context, nameA, nameB string) (models.ItemAttrs, models.ItemAttrs, error) {
	var (
		g          errgroup.Group
		a, b       models.ItemAttrs
		errA, errB error
	)
	g.Go(func() error {
		a, errA = m.catalog.FetchItem(ctx, nameA)
		return nil
	})
	g.Go(func() error {
		b, errB = m.catalog.FetchItem(ctx, nameB)
		return nil
	})
	_ = g.Wait()

	if errA != nil {
		return a, b, catalogError(nameA, errA)
	}
	if errB != nil {
		return a, b, catalogError(nameB, errB)
	}
	return a, b, nil
}

func catalogError(name string, err error) error {
	switch models.KindOf(err) {
	case models.ErrNotFound:
		return &models.Error{Kind: models.ErrNotFound, Message: "could not find item " + name, Err: err}
	case models.ErrUnavailable, models.ErrInvalidArgument:
		return err
	}
	return models.Unavailable("item catalog is unavailable", err)
}

func errPollOpen() error {
	return models.Errorf(models.ErrConflict, "a poll is already open")
}

// EndPoll marks a poll finished. Ending a finished poll succeeds and keeps
// the original finish time.
func (m *Manager) EndPoll(ctx context.Context, ac auth.Context, pollID string) error {
	if pollID == "" {
		return models.Errorf(models.ErrInvalidArgument, "poll id is required")
	}
	if err := m.authz.Authorize(ac, auth.PermEndPoll, pollID); err != nil {
		return err
	}

	err := m.store.FinishPoll(ctx, pollID, m.now())
	if errors.Is(err, store.ErrNotFound) {
		return models.Errorf(models.ErrNotFound, "poll %s not found", pollID)
	}
	if err != nil {
		return unavailable("finish poll", err)
	}

	metrics.PollsEnded.Inc()
	slog.Info("poll ended", "poll_id", pollID)
	return nil
}

// OpenPoll returns the open poll, or nil when there is none.
func (m *Manager) OpenPoll(ctx context.Context) (*models.Poll, error) {
	p, err := m.store.OpenPoll(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("get open poll", err)
	}
	return &p, nil
}

func (m *Manager) Poll(ctx context.Context, pollID string) (models.Poll, error) {
	p, err := m.store.PollByID(ctx, pollID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Poll{}, models.Errorf(models.ErrNotFound, "poll %s not found", pollID)
	}
	if err != nil {
		return models.Poll{}, unavailable("get poll", err)
	}
	return p, nil
}

// ListPolls returns polls newest first. status is one of the Filter
// constants; limit <= 0 means no limit.
func (m *Manager) ListPolls(ctx context.Context, status string, limit int) ([]models.Poll, error) {
	opts := store.ListPollsOpts{Limit: limit}
	switch status {
	case FilterAll:
	case FilterOpen:
		opts.Finished = new(bool)
	case FilterFinished:
		finished := true
		opts.Finished = &finished
	default:
		return nil, models.Errorf(models.ErrInvalidArgument, "invalid status filter %q", status)
	}

	polls, err := m.store.ListPolls(ctx, opts)
	if err != nil {
		return nil, unavailable("list polls", err)
	}
	return polls, nil
}
