// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Execer is satisfied by *sql.DB, *sql.Tx and *sqlx.DB.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The statements are valid for both PostgreSQL and SQLite.
func CreateSchema(ctx context.Context, db Execer) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// DropSchema removes every table. Used by tests and `migrate --reset`.
func DropSchema(ctx context.Context, db Execer) error {
	for _, table := range []string{"vote", "poll", "item", "app_user"} {
		if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return fmt.Errorf("failed to drop %s: %w", table, err)
		}
	}
	return nil
}

// One statement per entry so both drivers run them the same way.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS app_user (
    id TEXT PRIMARY KEY,
    identity TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS item (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    base_exp DOUBLE PRECISION NOT NULL DEFAULT 0,
    height DOUBLE PRECISION NOT NULL DEFAULT 0,
    weight DOUBLE PRECISION NOT NULL DEFAULT 0,
    sprite_img_url TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS poll (
    id TEXT PRIMARY KEY,
    item_a_id TEXT NOT NULL REFERENCES item(id),
    item_b_id TEXT NOT NULL REFERENCES item(id),
    finished BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP,
    CHECK (item_a_id <> item_b_id)
)`,

	// At most one open poll.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_poll_one_open ON poll(finished) WHERE finished = FALSE`,

	`CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id),
    item_id TEXT NOT NULL REFERENCES item(id),
    user_id TEXT NOT NULL REFERENCES app_user(id),
    created_at TIMESTAMP NOT NULL,
    UNIQUE (poll_id, user_id)
)`,

	`CREATE INDEX IF NOT EXISTS idx_vote_poll_id ON vote(poll_id)`,
	`CREATE INDEX IF NOT EXISTS idx_vote_item_id ON vote(item_id)`,
	`CREATE INDEX IF NOT EXISTS idx_vote_poll_item ON vote(poll_id, item_id)`,
}
