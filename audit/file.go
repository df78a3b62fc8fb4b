// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package audit

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/danielhkuo/ballot-station/ballot"
)

var _ ballot.AuditSink = (*FileLog)(nil)

// FileLog appends one human readable block per accepted vote to a text
// file.
type FileLog struct {
	path string

	mu   sync.Mutex
	file *os.File
}

// OpenFile opens path for appending, creating it if needed.
func OpenFile(path string) (*FileLog, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("cannot open audit log %q: %w", path, err)
	}
	return &FileLog{path: path, file: file}, nil
}

// FormatRecord renders rec as a block terminated by a blank line.
func FormatRecord(rec ballot.AuditRecord) string {
	return fmt.Sprintf("Name: %s\nReference ID: %s\nCandidate: %s\nReceipt: %s\nCast At: %s\n\n",
		rec.Name, rec.ReferenceID, rec.Candidate, rec.ReceiptID, rec.CastAt.UTC().Format("2006-01-02T15:04:05Z"))
}

func (l *FileLog) Append(ctx context.Context, rec ballot.AuditRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return fmt.Errorf("audit log %q is closed", l.path)
	}
	if _, err := l.file.WriteString(FormatRecord(rec)); err != nil {
		return fmt.Errorf("cannot write audit log %q: %w", l.path, err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("cannot sync audit log %q: %w", l.path, err)
	}
	return nil
}

func (l *FileLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
