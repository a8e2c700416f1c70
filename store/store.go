// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/pokepoll/db"
	"github.com/danielhkuo/pokepoll/models"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ListPollsOpts controls poll listing.
type ListPollsOpts struct {
	Finished *bool
	Limit    int
}

// Store is the persistence interface. Lookups return ErrNotFound when no row
// matches; inserts return ErrUniqueViolation when a uniqueness constraint
// rejects the row.
type Store interface {
	UserByIdentity(ctx context.Context, identity string) (models.User, error)
	InsertUser(ctx context.Context, u *models.User) error

	ItemByName(ctx context.Context, name string) (models.Item, error)
	ItemByID(ctx context.Context, id string) (models.Item, error)
	InsertItem(ctx context.Context, item *models.Item) error

	PollByID(ctx context.Context, id string) (models.Poll, error)
	OpenPoll(ctx context.Context) (models.Poll, error)
	ListPolls(ctx context.Context, opts ListPollsOpts) ([]models.Poll, error)
	InsertPoll(ctx context.Context, p *models.Poll) error
	FinishPoll(ctx context.Context, id string, at time.Time) error

	HasVoted(ctx context.Context, pollID, userID string) (bool, error)
	InsertVote(ctx context.Context, v *models.Vote) error
	CountVotes(ctx context.Context, pollID, itemID string) (int, error)

	Ping(ctx context.Context) error
	Close() error
}

// SQLStore implements Store on PostgreSQL or SQLite.
type SQLStore struct {
	db     *sqlx.DB
	driver string
}

// Open connects to the database and creates the schema.
func Open(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported database type %q", driver)
	}

	conn, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	// SQLite allows a single writer; serialize at the pool instead of
	// surfacing SQLITE_BUSY to callers.
	if driver == DriverSQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	if err := db.CreateSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}

	return &SQLStore{db: conn, driver: driver}, nil
}

// Driver returns the database driver name.
func (s *SQLStore) Driver() string {
	return s.driver
}

// DB exposes the underlying handle for schema tooling and tests.
func (s *SQLStore) DB() *sqlx.DB {
	return s.db
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

const (
	userColumns = "id, identity, created_at"
	itemColumns = "id, name, base_exp, height, weight, sprite_img_url, created_at"
	pollColumns = "id, item_a_id, item_b_id, finished, created_at, finished_at"
)

func (s *SQLStore) get(ctx context.Context, dest any, query string, args ...any) error {
	return classify(s.db.GetContext(ctx, dest, s.db.Rebind(query), args...))
}

func (s *SQLStore) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return 0, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Users

func (s *SQLStore) UserByIdentity(ctx context.Context, identity string) (models.User, error) {
	var u models.User
	if err := s.get(ctx, &u, "SELECT "+userColumns+" FROM app_user WHERE identity = ?", identity); err != nil {
		return models.User{}, fmt.Errorf("get user by identity: %w", err)
	}
	return u, nil
}

func (s *SQLStore) InsertUser(ctx context.Context, u *models.User) error {
	_, err := s.exec(ctx, `
		INSERT INTO app_user (id, identity, created_at)
		VALUES (?, ?, ?)
	`, u.ID, u.Identity, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Items

func (s *SQLStore) ItemByName(ctx context.Context, name string) (models.Item, error) {
	var item models.Item
	if err := s.get(ctx, &item, "SELECT "+itemColumns+" FROM item WHERE name = ?", name); err != nil {
		return models.Item{}, fmt.Errorf("get item %s: %w", name, err)
	}
	return item, nil
}

func (s *SQLStore) ItemByID(ctx context.Context, id string) (models.Item, error) {
	var item models.Item
	if err := s.get(ctx, &item, "SELECT "+itemColumns+" FROM item WHERE id = ?", id); err != nil {
		return models.Item{}, fmt.Errorf("get item %s: %w", id, err)
	}
	return item, nil
}

func (s *SQLStore) InsertItem(ctx context.Context, item *models.Item) error {
	_, err := s.exec(ctx, `
		INSERT INTO item (id, name, base_exp, height, weight, sprite_img_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, item.ID, item.Name, item.BaseExp, item.Height, item.Weight, item.SpriteImgURL, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert item %s: %w", item.Name, err)
	}
	return nil
}

// Polls

func (s *SQLStore) PollByID(ctx context.Context, id string) (models.Poll, error) {
	var p models.Poll
	if err := s.get(ctx, &p, "SELECT "+pollColumns+" FROM poll WHERE id = ?", id); err != nil {
		return models.Poll{}, fmt.Errorf("get poll %s: %w", id, err)
	}
	return p, nil
}

func (s *SQLStore) OpenPoll(ctx context.Context) (models.Poll, error) {
	var p models.Poll
	err := s.get(ctx, &p, "SELECT "+pollColumns+" FROM poll WHERE finished = FALSE ORDER BY created_at LIMIT 1")
	if err != nil {
		return models.Poll{}, fmt.Errorf("get open poll: %w", err)
	}
	return p, nil
}

func (s *SQLStore) ListPolls(ctx context.Context, opts ListPollsOpts) ([]models.Poll, error) {
	query := "SELECT " + pollColumns + " FROM poll WHERE 1=1"
	var args []any

	if opts.Finished != nil {
		query += " AND finished = ?"
		args = append(args, *opts.Finished)
	}

	query += " ORDER BY created_at DESC"

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " LIMIT ?"
	args = append(args, limit)

	polls := []models.Poll{}
	if err := s.db.SelectContext(ctx, &polls, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list polls: %w", err)
	}
	return polls, nil
}

func (s *SQLStore) InsertPoll(ctx context.Context, p *models.Poll) error {
	_, err := s.exec(ctx, `
		INSERT INTO poll (id, item_a_id, item_b_id, finished, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, p.ID, p.ItemAID, p.ItemBID, p.Finished, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert poll: %w", err)
	}
	return nil
}

// FinishPoll marks a poll finished. finished_at keeps its first value so a
// repeated call only re-writes the flag.
func (s *SQLStore) FinishPoll(ctx context.Context, id string, at time.Time) error {
	n, err := s.exec(ctx, `
		UPDATE poll
		SET finished = TRUE, finished_at = COALESCE(finished_at, ?)
		WHERE id = ?
	`, at, id)
	if err != nil {
		return fmt.Errorf("finish poll %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("finish poll %s: %w", id, ErrNotFound)
	}
	return nil
}

// Votes

func (s *SQLStore) HasVoted(ctx context.Context, pollID, userID string) (bool, error) {
	var n int
	err := s.get(ctx, &n, "SELECT COUNT(*) FROM vote WHERE poll_id = ? AND user_id = ?", pollID, userID)
	if err != nil {
		return false, fmt.Errorf("check vote: %w", err)
	}
	return n > 0, nil
}

func (s *SQLStore) InsertVote(ctx context.Context, v *models.Vote) error {
	_, err := s.exec(ctx, `
		INSERT INTO vote (id, poll_id, item_id, user_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, v.ID, v.PollID, v.ItemID, v.UserID, v.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}

func (s *SQLStore) CountVotes(ctx context.Context, pollID, itemID string) (int, error) {
	var n int
	err := s.get(ctx, &n, "SELECT COUNT(*) FROM vote WHERE poll_id = ? AND item_id = ?", pollID, itemID)
	if err != nil {
		return 0, fmt.Errorf("count votes: %w", err)
	}
	return n, nil
}
