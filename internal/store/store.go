// Package store persists notes, tags and settings in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a note id does not exist.
var ErrNotFound = errors.New("note not found")

type Store struct {
	db *sql.DB
}

// Note is a dated text entry with its aggregated tag names.
type Note struct {
	ID   int64
	Date string // ISO, YYYY-MM-DD
	Text string
	Tags []string
}

func Open(path string) (*Store, error) {
	// Link deletes on note removal are issued explicitly, but the
	// constraints still guard against dangling notetags rows.
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Init creates the schema. Safe to run on an existing database.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schemaSQL)
	return err
}
