// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrClosed        = errors.New("history store closed")
	ErrDatabaseError = errors.New("database error")
)

// =============================================================================
// SCHEMA
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session    TEXT NOT NULL,
	line       TEXT NOT NULL,
	command    TEXT NOT NULL,
	error      TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_created ON entries(created_at);
`

// =============================================================================
// STORE
// =============================================================================

// Entry is one recorded invocation.
type Entry struct {
	ID        int64
	Session   string
	Line      string
	Command   string
	Error     string
	CreatedAt time.Time
}

// Store records executed lines in a SQLite database. One store serves one
// shell process; each Open gets a fresh session id so entries can be
// grouped per run.
type Store struct {
	db      *sql.DB
	session string
	closed  bool
}

// Open opens (creating if necessary) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to create schema: %v", ErrDatabaseError, err)
	}

	return &Store{
		db:      db,
		session: uuid.New().String(),
	}, nil
}

// Session returns the id entries of this store are recorded under.
func (s *Store) Session() string {
	return s.session
}

// Append records one executed line. execErr may be nil for a successful
// invocation.
func (s *Store) Append(line, command string, execErr error) error {
	if s.closed {
		return ErrClosed
	}
	errText := ""
	if execErr != nil {
		errText = execErr.Error()
	}
	_, err := s.db.Exec(
		"INSERT INTO entries (session, line, command, error, created_at) VALUES (?, ?, ?, ?, ?)",
		s.session, line, command, errText, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to append entry: %v", ErrDatabaseError, err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns nothing.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.Query(
		"SELECT id, session, line, command, error, created_at FROM entries ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query entries: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.ID, &e.Session, &e.Line, &e.Command, &e.Error, &created); err != nil {
			return nil, fmt.Errorf("%w: failed to scan entry: %v", ErrDatabaseError, err)
		}
		e.CreatedAt = time.Unix(created, 0)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return entries, nil
}

// Close releases the database. The store cannot be reused afterwards.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
