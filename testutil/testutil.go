// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/ballot-station/audit"
	"github.com/danielhkuo/ballot-station/ballot"
	"github.com/danielhkuo/ballot-station/cliparse"
	"github.com/danielhkuo/ballot-station/db"
)

// TestCandidates is the candidate list used across tests
var TestCandidates = []string{"A", "B", "C"}

// GetTestConfig returns a configuration whose files live in a fresh
// temporary directory
func GetTestConfig(t *testing.T) cliparse.Config {
	t.Helper()
	dir := t.TempDir()

	return cliparse.Config{
		Port:         3318,
		DatabaseType: db.TypeSQLite,
		DatabaseURL:  filepath.Join(dir, "voting_system.db"),
		AuditLog:     filepath.Join(dir, "voting_information.txt"),
		Candidates:   TestCandidates,
		Reconcile:    true,
	}
}

// SetupTestRegister opens a register backed by SQLite and a file audit log
// as described by cfg. It is closed when the test ends.
func SetupTestRegister(t *testing.T, cfg cliparse.Config) *ballot.Register {
	t.Helper()
	ctx := context.Background()

	store, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}

	sink, err := audit.Open(cfg.AuditLog)
	if err != nil {
		store.Close()
		t.Fatalf("Failed to open test audit log: %v", err)
	}

	reg, err := ballot.NewRegister(ctx, store, sink, cfg.Candidates, ballot.WithReconcile(cfg.Reconcile))
	if err != nil {
		store.Close()
		sink.Close()
		t.Fatalf("Failed to create register: %v", err)
	}
	t.Cleanup(func() { reg.Close() })

	return reg
}

// CastTestVote casts a vote and fails the test unless it is accepted
func CastTestVote(t *testing.T, reg *ballot.Register, candidate, name, ref string) ballot.Decision {
	t.Helper()

	d, err := reg.CastVote(context.Background(), ballot.Submission{
		Candidate:   candidate,
		Name:        name,
		ReferenceID: ref,
	})
	if err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}
	if d.Outcome != ballot.Accepted {
		t.Fatalf("Expected test vote to be accepted, got %s", d.Outcome)
	}

	return d
}

// ReadAuditLog returns the contents of the audit file in cfg
func ReadAuditLog(t *testing.T, cfg cliparse.Config) string {
	t.Helper()

	data, err := os.ReadFile(cfg.AuditLog)
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("Failed to read audit log: %v", err)
	}
	return string(data)
}

// MakeRequest creates an HTTP test request from the loopback interface
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.RemoteAddr = "127.0.0.1:40000"

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
