// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists users, items, polls and votes.

Open connects with sqlx, creates the schema and returns a *SQLStore:

	s, err := store.Open(ctx, store.DriverSQLite, "file:pokepoll.db")

Queries are written with ? placeholders and rebound for the driver, so the
same code runs on PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite).

Driver errors are mapped onto two sentinels:

  - ErrNotFound: no row matched
  - ErrUniqueViolation: a uniqueness constraint rejected an insert

Callers treat ErrUniqueViolation as the authoritative answer to a lost race.
*/
package store
