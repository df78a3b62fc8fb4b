// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package audit

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/ballot-station/ballot"
)

var sample = ballot.AuditRecord{
	Name:        "Alice",
	ReferenceID: "REF1",
	Candidate:   "Candidate A",
	ReceiptID:   "3f1c",
	CastAt:      time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC),
}

func TestFileLogAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voting_information.txt")
	require.NoError(t, os.WriteFile(path, []byte("earlier\n\n"), 0600))

	log, err := OpenFile(path)
	require.NoError(t, err)

	require.NoError(t, log.Append(context.Background(), sample))
	second := sample
	second.Name, second.ReferenceID = "Bob", "REF2"
	require.NoError(t, log.Append(context.Background(), second))
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "earlier\n\n"+
		"Name: Alice\nReference ID: REF1\nCandidate: Candidate A\nReceipt: 3f1c\nCast At: 2025-05-06T07:08:09Z\n\n"+
		"Name: Bob\nReference ID: REF2\nCandidate: Candidate A\nReceipt: 3f1c\nCast At: 2025-05-06T07:08:09Z\n\n",
		string(data))
}

func TestFileLogClosed(t *testing.T) {
	log, err := OpenFile(filepath.Join(t.TempDir(), "audit.txt"))
	require.NoError(t, err)
	require.NoError(t, log.Close())
	require.NoError(t, log.Close())

	assert.ErrorContains(t, log.Append(context.Background(), sample), "closed")
}

func TestOpenFileMissingDir(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing", "audit.txt"))
	assert.Error(t, err)
}

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaLogAppend(t *testing.T) {
	w := &fakeWriter{}
	log := &KafkaLog{writer: w, topic: "votes"}

	require.NoError(t, log.Append(context.Background(), sample))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "REF1", string(w.msgs[0].Key))
	assert.Equal(t, sample.CastAt, w.msgs[0].Time)

	var got ballot.AuditRecord
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, sample, got)

	require.NoError(t, log.Close())
	assert.True(t, w.closed)
}

func TestKafkaLogWriteError(t *testing.T) {
	boom := errors.New("broker down")
	log := &KafkaLog{writer: &fakeWriter{err: boom}, topic: "votes"}

	err := log.Append(context.Background(), sample)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, `"votes"`)
}

func TestOpen(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		sink, err := Open(filepath.Join(t.TempDir(), "audit.txt"))
		require.NoError(t, err)
		defer sink.Close()
		assert.IsType(t, &FileLog{}, sink)
	})

	t.Run("kafka", func(t *testing.T) {
		sink, err := Open("kafka://k1:9092,k2:9092/station-votes")
		require.NoError(t, err)
		kl, ok := sink.(*KafkaLog)
		require.True(t, ok)
		assert.Equal(t, "station-votes", kl.topic)
		w := kl.writer.(*kafka.Writer)
		assert.Equal(t, "station-votes", w.Topic)
		assert.NotNil(t, w.Addr)
	})

	tests := []struct {
		name   string
		target string
	}{
		{"empty path", "  "},
		{"kafka without topic", "kafka://k1:9092"},
		{"kafka without broker", "kafka:///votes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.target)
			assert.ErrorIs(t, err, ErrInvalidTarget)
		})
	}
}
