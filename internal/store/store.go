// Package store provides the SQLite data access layer for digest.
//
// The store receives an already-opened *sql.DB (see the dbopen package)
// with Schema applied. All reads and writes that must stay consistent
// with the FTS5 indexes run inside transactions; the sync triggers
// guarantee the index rides along.
package store

import (
	"database/sql"
	"errors"
)

// ErrNotFound is returned when a URL or summary does not exist.
var ErrNotFound = errors.New("store: not found")

// ErrInvalidQuery is returned when a search query is empty or reduces
// to nothing after sanitization.
var ErrInvalidQuery = errors.New("store: invalid search query")

// Store wraps the digest database.
type Store struct {
	DB *sql.DB
}

// NewStore creates a Store from an already-opened database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}
