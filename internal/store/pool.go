// Package store owns the SQLite database: connection lifecycle, schema
// bootstrap, import locks, and the bulk appender the inserters write
// through.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Store wraps a single-writer SQLite handle. SQLite serializes writers
// anyway; capping the pool at one connection keeps the WAL view
// consistent between schema bootstrap and imports.
type Store struct {
	db         *sqlx.DB
	log        *zap.Logger
	staleAfter time.Duration
}

// DefaultLockStaleAfter is how old a lock row must be before another
// process may take it over. Crashed importers leave their lock behind;
// ten minutes comfortably exceeds any real import.
const DefaultLockStaleAfter = 10 * time.Minute

// Open opens (creating if needed) the database at path.
func Open(path string, staleAfter time.Duration, log *zap.Logger) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = OFF",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if staleAfter <= 0 {
		staleAfter = DefaultLockStaleAfter
	}

	return &Store{db: db, log: log.Named("store"), staleAfter: staleAfter}, nil
}

// DB exposes the underlying handle for transactions and queries.
func (s *Store) DB() *sqlx.DB { return s.db }

// Close checkpoints the WAL into the main database file and closes the
// handle. The checkpoint is not optional: without it a reader opening
// the file standalone would miss everything still sitting in the WAL.
func (s *Store) Close() error {
	if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		s.log.Warn("wal checkpoint failed", zap.Error(err))
	}
	return s.db.Close()
}

// Begin starts a write transaction.
func (s *Store) Begin(ctx context.Context) (*sqlx.Tx, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return tx, nil
}
