// Package db provides SQLite connectivity and migration support for the
// lakegate metastore.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const (
	busyTimeoutMS = "5000"
	journalMode   = "WAL"
	synchronous   = "NORMAL"
)

// Open opens a *sql.DB pool for the given SQLite file.
//
// mode controls write safety and pool sizing:
//   - "write": MaxOpenConns=1 and _txlock=immediate, so writes serialize on
//     a single connection and transactions take the write lock up front
//   - "read": a pool of maxOpen connections (0 defaults to 4), no _txlock
//
// Both modes enable WAL, a 5s busy timeout, and foreign keys.
func Open(path string, mode string, maxOpen int) (*sql.DB, error) {
	if mode != "read" && mode != "write" {
		return nil, fmt.Errorf("invalid SQLite mode %q: must be \"read\" or \"write\"", mode)
	}

	q := url.Values{}
	q.Set("_busy_timeout", busyTimeoutMS)
	q.Set("_journal_mode", journalMode)
	q.Set("_synchronous", synchronous)
	q.Set("_foreign_keys", "on")
	if mode == "write" {
		q.Set("_txlock", "immediate")
	}
	dsn := "file:" + path + "?" + q.Encode()

	pool, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite (%s): %w", mode, err)
	}

	if mode == "write" {
		pool.SetMaxOpenConns(1)
		pool.SetMaxIdleConns(1)
	} else {
		if maxOpen <= 0 {
			maxOpen = 4
		}
		pool.SetMaxOpenConns(maxOpen)
		pool.SetMaxIdleConns(maxOpen)
	}
	pool.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping sqlite (%s): %w", mode, err)
	}

	return pool, nil
}

// OpenPair opens a write pool (single connection) and a read pool for the
// same SQLite file. This is how lakegate serves concurrent HTTP traffic:
// writes to any one securable serialize through the write pool while reads
// proceed in parallel.
func OpenPair(path string, readMaxOpen int) (writeDB, readDB *sql.DB, err error) {
	writeDB, err = Open(path, "write", 0)
	if err != nil {
		return nil, nil, err
	}
	readDB, err = Open(path, "read", readMaxOpen)
	if err != nil {
		_ = writeDB.Close()
		return nil, nil, err
	}
	return writeDB, readDB, nil
}
