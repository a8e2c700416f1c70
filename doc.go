// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the pokepoll command.

pokepoll runs head-to-head polls between two Pokemon. Visitors vote once per
poll, identified by their network address, and read live tallies. At most
one poll is open at a time.

# Commands

	pokepoll serve                       # HTTP API on --port (default 3318)
	pokepoll migrate [--reset]           # create (or recreate) the schema
	pokepoll poll create Pikachu Charizard
	pokepoll poll show [poll-id]
	pokepoll poll end <poll-id>
	pokepoll poll list [--status open|finished] [--limit N]

# Configuration

Settings come from defaults, then ./pokepoll.yaml (or --config), then the
environment and a .env file, then flags. See package cliparse for every key.
The default store is a local SQLite file; set --database-type postgres and
DATABASE_URL for PostgreSQL.

# Architecture

  - polls: identity resolver, item registry, poll lifecycle, vote ledger
  - store, db: SQL persistence and schema
  - catalog: PokeAPI client with memory or Redis caching
  - auth: caller context, permissions, admin keys
  - handlers, router, middleware: JSON API over net/http
  - cliparse, logging, metrics: configuration, slog setup, Prometheus

See package documentation for each component.
*/
package main
