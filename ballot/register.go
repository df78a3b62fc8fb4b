// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Submission is one voter's form input, passed untrimmed.
type Submission struct {
	Candidate   string
	Name        string
	ReferenceID string
}

// CandidateCount is one row of a tally snapshot.
type CandidateCount struct {
	Candidate string `json:"candidate"`
	Votes     int    `json:"votes"`
}

// Tally is an ordered snapshot of the vote counts.
type Tally []CandidateCount

// Total returns the sum of all counts.
func (t Tally) Total() int {
	total := 0
	for _, c := range t {
		total += c.Votes
	}
	return total
}

// Count returns the votes for candidate, or 0 if it is not in the tally.
func (t Tally) Count(candidate string) int {
	for _, c := range t {
		if c.Candidate == candidate {
			return c.Votes
		}
	}
	return 0
}

// NewTally lays out recorded counts in candidate order. Counts for labels
// not in candidates are dropped.
func NewTally(candidates []string, counts map[string]int) Tally {
	out := make(Tally, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, CandidateCount{Candidate: c, Votes: counts[c]})
	}
	return out
}

type options struct {
	reconcile bool
	now       func() time.Time
	newID     func() string
}

type Option func(*options)

// WithReconcile seeds the in-memory tally from the store's durable
// candidate counters. Off by default.
func WithReconcile(enabled bool) Option {
	return func(o *options) { o.reconcile = enabled }
}

// WithClock overrides the time source used for receipts.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Register owns the candidate list, the in-memory tally and the durable
// record of who has voted.
type Register struct {
	candidates []string
	known      map[string]bool
	store      Store
	audit      AuditSink
	opts       options

	mu    sync.Mutex
	tally map[string]int
}

// NewRegister validates the candidate list, prepares the store's schema and
// returns a ready register. The register takes ownership of store and sink.
func NewRegister(ctx context.Context, store Store, sink AuditSink, candidates []string, opts ...Option) (*Register, error) {
	o := options{
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(&o)
	}

	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	r := &Register{
		candidates: make([]string, 0, len(candidates)),
		known:      make(map[string]bool, len(candidates)),
		tally:      make(map[string]int, len(candidates)),
		store:      store,
		audit:      sink,
		opts:       o,
	}
	for _, c := range candidates {
		if strings.TrimSpace(c) == "" {
			return nil, ErrBlankCandidate
		}
		if r.known[c] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCandidate, c)
		}
		r.known[c] = true
		r.candidates = append(r.candidates, c)
		r.tally[c] = 0
	}

	if err := store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to prepare voter store: %w", err)
	}

	if o.reconcile {
		counts, err := store.CandidateCounts(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load candidate counts: %w", err)
		}
		for candidate, votes := range counts {
			if !r.known[candidate] {
				slog.Warn("ignoring recorded votes for unconfigured candidate", "candidate", candidate, "votes", votes)
				continue
			}
			r.tally[candidate] = votes
		}
	}

	return r, nil
}

// Candidates returns a copy of the configured candidates in order.
func (r *Register) Candidates() []string {
	out := make([]string, len(r.candidates))
	copy(out, r.candidates)
	return out
}

// HasVoted reports whether referenceID (trimmed) is in the durable store.
func (r *Register) HasVoted(ctx context.Context, referenceID string) (bool, error) {
	return r.store.HasVoted(ctx, strings.TrimSpace(referenceID))
}

// CastVote validates and records one submission. Rejections are reported
// through the returned Decision with a nil error. A storage or audit
// failure yields a StorageFailure decision and an error wrapping
// ErrStorage; in that case the tally is unchanged.
//
// The trimmed name and reference ID are what get recorded.
func (r *Register) CastVote(ctx context.Context, sub Submission) (Decision, error) {
	name := strings.TrimSpace(sub.Name)
	referenceID := strings.TrimSpace(sub.ReferenceID)

	if name == "" {
		return Decision{Outcome: InvalidInput, Reason: "name"}, nil
	}
	if referenceID == "" {
		return Decision{Outcome: InvalidInput, Reason: "reference ID"}, nil
	}
	if !r.known[sub.Candidate] {
		return Decision{Outcome: UnknownCandidate, Reason: "candidate " + sub.Candidate}, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	voted, err := r.store.HasVoted(ctx, referenceID)
	if err != nil {
		return Decision{Outcome: StorageFailure}, fmt.Errorf("%w: checking voter: %w", ErrStorage, err)
	}
	if voted {
		return Decision{Outcome: DuplicateVote, Reason: "reference ID " + referenceID}, nil
	}

	rec := VoterRecord{
		ReferenceID: referenceID,
		ReceiptID:   r.opts.newID(),
		VotedAt:     r.opts.now().UTC(),
	}
	audit := AuditRecord{
		Name:        name,
		ReferenceID: referenceID,
		Candidate:   sub.Candidate,
		ReceiptID:   rec.ReceiptID,
		CastAt:      rec.VotedAt,
	}

	err = r.store.RecordVote(ctx, rec, sub.Candidate, func() error {
		return r.audit.Append(ctx, audit)
	})
	if errors.Is(err, ErrAlreadyVoted) {
		return Decision{Outcome: DuplicateVote, Reason: "reference ID " + referenceID}, nil
	}
	if err != nil {
		return Decision{Outcome: StorageFailure}, fmt.Errorf("%w: recording vote: %w", ErrStorage, err)
	}

	r.tally[sub.Candidate]++

	return Decision{
		Outcome:   Accepted,
		ReceiptID: rec.ReceiptID,
		CastAt:    rec.VotedAt,
	}, nil
}

// Results returns a snapshot of the tally in configured candidate order.
func (r *Register) Results() Tally {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(Tally, 0, len(r.candidates))
	for _, c := range r.candidates {
		out = append(out, CandidateCount{Candidate: c, Votes: r.tally[c]})
	}
	return out
}

// Close releases the store and the audit sink.
func (r *Register) Close() error {
	return errors.Join(r.store.Close(), r.audit.Close())
}
