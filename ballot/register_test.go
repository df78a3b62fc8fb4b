// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store with injectable failures.
type memStore struct {
	voters   map[string]VoterRecord
	counts   map[string]int
	schemas  int
	closed   bool
	failHas  error
	failSave error
}

func newMemStore() *memStore {
	return &memStore{voters: map[string]VoterRecord{}, counts: map[string]int{}}
}

func (s *memStore) EnsureSchema(context.Context) error {
	s.schemas++
	return nil
}

func (s *memStore) HasVoted(_ context.Context, ref string) (bool, error) {
	if s.failHas != nil {
		return false, s.failHas
	}
	_, ok := s.voters[ref]
	return ok, nil
}

func (s *memStore) RecordVote(_ context.Context, rec VoterRecord, candidate string, beforeCommit func() error) error {
	if s.failSave != nil {
		return s.failSave
	}
	if _, ok := s.voters[rec.ReferenceID]; ok {
		return ErrAlreadyVoted
	}
	if err := beforeCommit(); err != nil {
		return err
	}
	s.voters[rec.ReferenceID] = rec
	s.counts[candidate]++
	return nil
}

func (s *memStore) CandidateCounts(context.Context) (map[string]int, error) {
	out := make(map[string]int, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out, nil
}

func (s *memStore) Close() error {
	s.closed = true
	return nil
}

func (s *memStore) refs() []string {
	out := make([]string, 0, len(s.voters))
	for ref := range s.voters {
		out = append(out, ref)
	}
	sort.Strings(out)
	return out
}

type memSink struct {
	records []AuditRecord
	fail    error
	closed  bool
}

func (s *memSink) Append(_ context.Context, rec AuditRecord) error {
	if s.fail != nil {
		return s.fail
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *memSink) Close() error {
	s.closed = true
	return nil
}

var abc = []string{"A", "B", "C"}

func newTestRegister(t *testing.T, opts ...Option) (*Register, *memStore, *memSink) {
	t.Helper()
	store := newMemStore()
	sink := &memSink{}
	reg, err := NewRegister(context.Background(), store, sink, abc, opts...)
	require.NoError(t, err)
	return reg, store, sink
}

func cast(t *testing.T, reg *Register, candidate, name, ref string) Decision {
	t.Helper()
	d, err := reg.CastVote(context.Background(), Submission{Candidate: candidate, Name: name, ReferenceID: ref})
	require.NoError(t, err)
	return d
}

func TestNewRegisterValidatesCandidates(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		wantErr    error
	}{
		{name: "empty", candidates: nil, wantErr: ErrNoCandidates},
		{name: "blank", candidates: []string{"A", "  "}, wantErr: ErrBlankCandidate},
		{name: "duplicate", candidates: []string{"A", "B", "A"}, wantErr: ErrDuplicateCandidate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			_, err := NewRegister(context.Background(), store, &memSink{}, tt.candidates)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, store.schemas, "schema must not be touched for an invalid candidate list")
		})
	}
}

func TestNewRegisterStartsAtZero(t *testing.T) {
	reg, store, _ := newTestRegister(t)

	assert.Equal(t, 1, store.schemas)
	assert.Equal(t, Tally{{"A", 0}, {"B", 0}, {"C", 0}}, reg.Results())
	assert.Equal(t, abc, reg.Candidates())
}

func TestScenarios(t *testing.T) {
	reg, store, sink := newTestRegister(t)

	// A: first vote is accepted
	d := cast(t, reg, "A", "Alice", "REF1")
	require.Equal(t, Accepted, d.Outcome)
	assert.NotEmpty(t, d.ReceiptID)
	assert.Equal(t, Tally{{"A", 1}, {"B", 0}, {"C", 0}}, reg.Results())

	// B: same reference ID again
	d = cast(t, reg, "B", "Bob", "REF1")
	assert.Equal(t, DuplicateVote, d.Outcome)
	assert.Equal(t, Tally{{"A", 1}, {"B", 0}, {"C", 0}}, reg.Results())

	// C: candidate not configured
	d = cast(t, reg, "Z", "Carol", "REF2")
	assert.Equal(t, UnknownCandidate, d.Outcome)
	assert.Equal(t, Tally{{"A", 1}, {"B", 0}, {"C", 0}}, reg.Results())

	// D: blank name
	d = cast(t, reg, "A", "", "REF3")
	assert.Equal(t, InvalidInput, d.Outcome)
	assert.Equal(t, Tally{{"A", 1}, {"B", 0}, {"C", 0}}, reg.Results())

	voted, err := reg.HasVoted(context.Background(), "REF3")
	require.NoError(t, err)
	assert.False(t, voted)

	assert.Equal(t, []string{"REF1"}, store.refs())
	require.Len(t, sink.records, 1)
	assert.Equal(t, AuditRecord{
		Name:        "Alice",
		ReferenceID: "REF1",
		Candidate:   "A",
		ReceiptID:   d0(t, store, "REF1").ReceiptID,
		CastAt:      d0(t, store, "REF1").VotedAt,
	}, sink.records[0])
}

func d0(t *testing.T, s *memStore, ref string) VoterRecord {
	t.Helper()
	rec, ok := s.voters[ref]
	require.True(t, ok, "no voter record for %s", ref)
	return rec
}

func TestValidationOrder(t *testing.T) {
	reg, _, _ := newTestRegister(t)
	cast(t, reg, "A", "Alice", "TAKEN")

	tests := []struct {
		name string
		sub  Submission
		want Outcome
	}{
		{"blank name wins over everything", Submission{"Z", " ", " "}, InvalidInput},
		{"blank reference wins over candidate", Submission{"Z", "Bob", "\t"}, InvalidInput},
		{"unknown candidate wins over duplicate", Submission{"Z", "Bob", "TAKEN"}, UnknownCandidate},
		{"duplicate", Submission{"B", "Bob", "TAKEN"}, DuplicateVote},
		{"candidate match is exact", Submission{"a", "Bob", "NEW"}, UnknownCandidate},
		{"candidate is not trimmed", Submission{" A", "Bob", "NEW"}, UnknownCandidate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := reg.CastVote(context.Background(), tt.sub)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Outcome)
			assert.Empty(t, d.ReceiptID)
		})
	}
}

func TestWhitespaceHandling(t *testing.T) {
	reg, store, sink := newTestRegister(t)

	assert.Equal(t, InvalidInput, cast(t, reg, "A", "  ", "r1").Outcome)
	assert.Equal(t, InvalidInput, cast(t, reg, "A", "", "r1").Outcome)

	d := cast(t, reg, "A", "  Alice  ", "  r1  ")
	require.Equal(t, Accepted, d.Outcome)

	// trimmed values are recorded
	assert.Equal(t, []string{"r1"}, store.refs())
	require.Len(t, sink.records, 1)
	assert.Equal(t, "Alice", sink.records[0].Name)
	assert.Equal(t, "r1", sink.records[0].ReferenceID)

	// padding does not dodge duplicate detection
	assert.Equal(t, DuplicateVote, cast(t, reg, "B", "Alice", "r1 ").Outcome)

	voted, err := reg.HasVoted(context.Background(), " r1")
	require.NoError(t, err)
	assert.True(t, voted)
}

func TestUniquenessAndTallyProperties(t *testing.T) {
	reg, _, _ := newTestRegister(t)

	accepted := map[string]int{}
	acceptedRefs := map[string]int{}
	for i := 0; i < 60; i++ {
		candidate := []string{"A", "B", "C", "Z"}[i%4]
		ref := fmt.Sprintf("REF%d", i%17)
		name := []string{"Alice", "", "Bob"}[i%3]

		d := cast(t, reg, candidate, name, ref)
		if d.Outcome == Accepted {
			accepted[candidate]++
			acceptedRefs[ref]++
		}
	}

	for ref, n := range acceptedRefs {
		assert.Equal(t, 1, n, "reference %s accepted more than once", ref)
	}
	results := reg.Results()
	for _, c := range abc {
		assert.Equal(t, accepted[c], results.Count(c), "tally for %s", c)
	}
	assert.Zero(t, results.Count("Z"))
}

func TestStorageFailureLeavesTallyUnchanged(t *testing.T) {
	boom := errors.New("disk on fire")

	t.Run("has voted fails", func(t *testing.T) {
		reg, store, sink := newTestRegister(t)
		store.failHas = boom

		d, err := reg.CastVote(context.Background(), Submission{"A", "Alice", "REF1"})
		assert.Equal(t, StorageFailure, d.Outcome)
		assert.ErrorIs(t, err, ErrStorage)
		assert.ErrorIs(t, err, boom)
		assert.Zero(t, reg.Results().Total())
		assert.Empty(t, sink.records)
	})

	t.Run("insert fails", func(t *testing.T) {
		reg, store, sink := newTestRegister(t)
		store.failSave = boom

		d, err := reg.CastVote(context.Background(), Submission{"A", "Alice", "REF1"})
		assert.Equal(t, StorageFailure, d.Outcome)
		assert.ErrorIs(t, err, ErrStorage)
		assert.Zero(t, reg.Results().Total())
		assert.Empty(t, store.refs())
		assert.Empty(t, sink.records)
	})

	t.Run("audit append fails", func(t *testing.T) {
		reg, store, sink := newTestRegister(t)
		sink.fail = boom

		d, err := reg.CastVote(context.Background(), Submission{"A", "Alice", "REF1"})
		assert.Equal(t, StorageFailure, d.Outcome)
		assert.ErrorIs(t, err, boom)
		assert.Zero(t, reg.Results().Total())
		assert.Empty(t, store.refs(), "voter must not be recorded when audit fails")
	})
}

// raceStore reports "not voted" but rejects the insert, as a second
// writer would cause.
type raceStore struct{ *memStore }

func (s raceStore) HasVoted(context.Context, string) (bool, error) { return false, nil }

func (s raceStore) RecordVote(context.Context, VoterRecord, string, func() error) error {
	return fmt.Errorf("insert voter: %w", ErrAlreadyVoted)
}

func TestDuplicateDetectedAtInsert(t *testing.T) {
	reg, err := NewRegister(context.Background(), raceStore{newMemStore()}, &memSink{}, abc)
	require.NoError(t, err)

	d, err := reg.CastVote(context.Background(), Submission{"A", "Alice", "REF1"})
	require.NoError(t, err)
	assert.Equal(t, DuplicateVote, d.Outcome)
	assert.Zero(t, reg.Results().Total())
}

func TestReconcile(t *testing.T) {
	store := newMemStore()
	store.counts = map[string]int{"A": 3, "C": 1, "Retired": 7}

	t.Run("enabled", func(t *testing.T) {
		reg, err := NewRegister(context.Background(), store, &memSink{}, abc, WithReconcile(true))
		require.NoError(t, err)
		assert.Equal(t, Tally{{"A", 3}, {"B", 0}, {"C", 1}}, reg.Results())
	})

	t.Run("disabled", func(t *testing.T) {
		reg, err := NewRegister(context.Background(), store, &memSink{}, abc)
		require.NoError(t, err)
		assert.Zero(t, reg.Results().Total())
	})
}

func TestReinitializeKeepsVoters(t *testing.T) {
	store := newMemStore()
	reg, err := NewRegister(context.Background(), store, &memSink{}, abc)
	require.NoError(t, err)
	cast(t, reg, "A", "Alice", "REF1")
	before := store.voters["REF1"]

	reg, err = NewRegister(context.Background(), store, &memSink{}, abc)
	require.NoError(t, err)

	assert.Equal(t, 2, store.schemas)
	assert.Equal(t, before, store.voters["REF1"])
	assert.Equal(t, DuplicateVote, cast(t, reg, "B", "Alice", "REF1").Outcome)
}

func TestResultsIsACopy(t *testing.T) {
	reg, _, _ := newTestRegister(t)
	snap := reg.Results()
	snap[0].Votes = 99

	assert.Zero(t, reg.Results().Count("A"))
}

func TestReceiptUsesClock(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	reg, _, sink := newTestRegister(t, WithClock(func() time.Time { return at }))

	d := cast(t, reg, "B", "Bob", "REF9")
	assert.Equal(t, at, d.CastAt)
	assert.Equal(t, at, sink.records[0].CastAt)
}

func TestClose(t *testing.T) {
	reg, store, sink := newTestRegister(t)
	require.NoError(t, reg.Close())
	assert.True(t, store.closed)
	assert.True(t, sink.closed)
}

func TestDecisionMessage(t *testing.T) {
	assert.Equal(t, "Thank you for voting!", Decision{Outcome: Accepted}.Message())
	assert.Equal(t, "Please enter your name.", Decision{Outcome: InvalidInput, Reason: "name"}.Message())
	assert.Equal(t, "duplicate_vote", DuplicateVote.String())
	assert.Len(t, Outcomes(), 5)
}

func TestNewTally(t *testing.T) {
	got := NewTally(abc, map[string]int{"C": 4, "A": 1, "Retired": 9})

	assert.Equal(t, Tally{{"A", 1}, {"B", 0}, {"C", 4}}, got)
	assert.Equal(t, 5, got.Total())
	assert.Equal(t, Tally{{"A", 0}, {"B", 0}, {"C", 0}}, NewTally(abc, nil))
}
