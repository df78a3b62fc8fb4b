// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrAlreadyVoted is returned by a Store when the reference ID is
	// already recorded.
	ErrAlreadyVoted = errors.New("reference ID has already voted")

	// ErrStorage wraps every failure of the durable store or audit sink
	// surfaced by CastVote.
	ErrStorage = errors.New("storage failure")

	ErrNoCandidates       = errors.New("at least one candidate is required")
	ErrBlankCandidate     = errors.New("candidate label cannot be blank")
	ErrDuplicateCandidate = errors.New("duplicate candidate")
)

// VoterRecord is the durable fact that a reference ID has voted.
// It deliberately carries no candidate.
type VoterRecord struct {
	ReferenceID string
	ReceiptID   string
	VotedAt     time.Time
}

// Store is the durable set of reference IDs that have voted, plus
// per-candidate counters used to rebuild the tally on startup.
type Store interface {
	// EnsureSchema creates the store's tables or keys if absent.
	// Existing data is left untouched.
	EnsureSchema(ctx context.Context) error

	HasVoted(ctx context.Context, referenceID string) (bool, error)

	// RecordVote inserts rec and increments the counter for candidate as
	// one unit. beforeCommit runs after both writes are staged and before
	// they become durable; if it fails nothing is written. Returns
	// ErrAlreadyVoted if rec.ReferenceID is already present.
	RecordVote(ctx context.Context, rec VoterRecord, candidate string, beforeCommit func() error) error

	CandidateCounts(ctx context.Context) (map[string]int, error)

	Close() error
}

// AuditRecord is one accepted vote as written to the audit log.
type AuditRecord struct {
	Name        string    `json:"name"`
	ReferenceID string    `json:"reference_id"`
	Candidate   string    `json:"candidate"`
	ReceiptID   string    `json:"receipt_id"`
	CastAt      time.Time `json:"cast_at"`
}

// AuditSink is an append-only record of accepted votes.
type AuditSink interface {
	Append(ctx context.Context, rec AuditRecord) error
	Close() error
}
