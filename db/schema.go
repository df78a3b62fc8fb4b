// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the voter register.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The schema is valid for both SQLite and PostgreSQL.
const schema = `
-- Reference IDs that have voted. No candidate is stored here.
CREATE TABLE IF NOT EXISTS voter (
    reference_id TEXT PRIMARY KEY,
    receipt_id TEXT NOT NULL UNIQUE,
    voted_at TIMESTAMP NOT NULL
);

-- Running vote count per candidate, updated with each voter insert
CREATE TABLE IF NOT EXISTS candidate_tally (
    candidate TEXT PRIMARY KEY,
    votes INTEGER NOT NULL DEFAULT 0 CHECK (votes >= 0)
);
`
