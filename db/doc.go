// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same statements run on PostgreSQL and SQLite.

# Tables

  - app_user: voters, keyed by identity (unique)
  - item: catalog entries, keyed by name (unique)
  - poll: two items and a finished flag
  - vote: one row per (poll, user)

# Relationships

	item 1──* poll (as item_a or item_b)
	poll 1──* vote
	app_user 1──* vote
	item 1──* vote

# Constraints

The invariants the service relies on live here, not in application code:

  - app_user.identity UNIQUE (get-or-create of voters)
  - item.name UNIQUE (get-or-create of items)
  - poll: CHECK item_a_id <> item_b_id
  - idx_poll_one_open: UNIQUE over rows WHERE finished = FALSE
  - vote: UNIQUE (poll_id, user_id)
*/
package db
