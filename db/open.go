// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/ballot-station/ballot"
)

// Supported store types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
	TypeRedis    = "redis"
)

// ErrNoStore is returned by OpenExisting when the SQLite file is missing.
var ErrNoStore = errors.New("no voter store")

// Open connects to the voter store of the given type and verifies the
// connection. The SQLite file is created if it does not exist.
func Open(ctx context.Context, storeType, url string) (ballot.Store, error) {
	switch storeType {
	case TypeSQLite, TypePostgres:
		conn, err := OpenSQL(ctx, storeType, url)
		if err != nil {
			return nil, err
		}
		return NewSQLStore(conn), nil
	case TypeRedis:
		store, err := NewRedisStore(ctx, url)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", storeType)
	}
}

// OpenSQL opens and pings a database/sql connection for sqlite or postgres.
func OpenSQL(ctx context.Context, driver, url string) (*sql.DB, error) {
	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// SQLite allows a single writer; one connection avoids SQLITE_BUSY.
	if driver == TypeSQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return conn, nil
}

// OpenExisting is Open for read-only callers: a missing SQLite file is
// reported as ErrNoStore instead of being created.
func OpenExisting(ctx context.Context, storeType, url string) (ballot.Store, error) {
	if storeType == TypeSQLite {
		if path := sqlitePath(url); path != ":memory:" {
			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w at %s", ErrNoStore, path)
			}
		}
	}
	return Open(ctx, storeType, url)
}

// sqlitePath strips the URI form ("file:x.db?mode=rw") down to the path.
func sqlitePath(url string) string {
	path := strings.TrimPrefix(url, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return path
}
