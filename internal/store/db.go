// Package store persists provisioning history: runs, per-step outcomes,
// configuration backups, and service enablement results.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// ErrNotInitialized is returned by queries against a database that has no
// schema yet (no run has ever been recorded).
var ErrNotInitialized = errors.New("database not initialized: run 'hyprforge install' first")

// Store provides SQLite operations for hyprforge.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath. Use ":memory:" in tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; keep the pool at one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB returns the underlying connection for advanced queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// wrapNotInitialized maps sqlite's "no such table" onto the
// ErrNotInitialized sentinel so callers can give actionable advice.
func wrapNotInitialized(err error) error {
	if err != nil && strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("%w: %v", ErrNotInitialized, err)
	}
	return err
}
