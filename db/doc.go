// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db implements the durable voter store behind the ballot register.

# Opening a Store

Open picks a backend by type and checks the connection:

	store, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

Supported types:

  - sqlite: a local file (default voting_system.db), created if absent
  - postgres: a PostgreSQL connection string
  - redis: a redis:// URL

# Schema Creation

CreateSchema initializes the SQL tables:

	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS, so existing voter
records are never touched.

# Tables

  - voter: one row per reference ID that has voted (primary key)
  - candidate_tally: running vote count per candidate

The two tables are not linked: nothing records which candidate a
reference ID chose.

# Recording Votes

RecordVote inserts the voter row and bumps the candidate counter in one
transaction. A reference ID that is already present yields
ballot.ErrAlreadyVoted, whether it is caught by the existence check or by
the primary key.

The Redis store uses a set for voters and a hash for counts, and guards
the check-then-insert with WATCH.
*/
package db
