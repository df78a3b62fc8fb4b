// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/ballot-station/ballot"
)

var _ ballot.Store = (*SQLStore)(nil)

// SQLStore keeps voter records in a SQLite or PostgreSQL database.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	return CreateSchema(ctx, s.db)
}

func (s *SQLStore) HasVoted(ctx context.Context, referenceID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM voter WHERE reference_id = $1)
	`, referenceID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to query voter: %w", err)
	}
	return exists, nil
}

func (s *SQLStore) RecordVote(ctx context.Context, rec ballot.VoterRecord, candidate string, beforeCommit func() error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM voter WHERE reference_id = $1)
	`, rec.ReferenceID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to query voter: %w", err)
	}
	if exists {
		return ballot.ErrAlreadyVoted
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO voter (reference_id, receipt_id, voted_at)
		VALUES ($1, $2, $3)
	`, rec.ReferenceID, rec.ReceiptID, rec.VotedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ballot.ErrAlreadyVoted
		}
		return fmt.Errorf("failed to insert voter: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO candidate_tally (candidate, votes)
		VALUES ($1, 1)
		ON CONFLICT (candidate) DO UPDATE SET votes = candidate_tally.votes + 1
	`, candidate)
	if err != nil {
		return fmt.Errorf("failed to update candidate tally: %w", err)
	}

	if beforeCommit != nil {
		if err := beforeCommit(); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return ballot.ErrAlreadyVoted
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *SQLStore) CandidateCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT candidate, votes FROM candidate_tally
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidate tally: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var candidate string
		var votes int
		if err := rows.Scan(&candidate, &votes); err != nil {
			return nil, fmt.Errorf("failed to scan candidate tally: %w", err)
		}
		counts[candidate] = votes
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candidate tally: %w", err)
	}

	return counts, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// isUniqueViolation reports whether err is a primary key or unique
// constraint failure from either supported driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			// without extended result codes only the message tells them apart
			return strings.Contains(liteErr.Error(), "UNIQUE constraint failed")
		}
	}

	return false
}
