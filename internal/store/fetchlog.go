// CLAUDE:SUMMARY Fetch log: records metadata fetch attempts per URL for observability.
package store

import (
	"context"
	"fmt"

	"github.com/hazyhaar/digest/idgen"
)

// newLogID produces type-scoped fetch log IDs.
var newLogID = idgen.Prefixed("fetch_", idgen.Default)

// InsertFetchLog records a fetch attempt. A zero-value ID gets a fresh
// generated one.
func (s *Store) InsertFetchLog(ctx context.Context, entry *FetchLogEntry) error {
	if entry.ID == "" {
		entry.ID = newLogID()
	}
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO fetch_log (id, url, status, status_code, error_message, duration_ms, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.URL, entry.Status, entry.StatusCode,
		entry.ErrorMessage, entry.DurationMs, entry.FetchedAt)
	if err != nil {
		return fmt.Errorf("insert fetch log: %w", err)
	}
	return nil
}

// FetchHistory returns fetch log entries for a URL, newest first.
func (s *Store) FetchHistory(ctx context.Context, url string, limit int) ([]*FetchLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, url, status, status_code, error_message, duration_ms, fetched_at
		FROM fetch_log WHERE url = ?
		ORDER BY fetched_at DESC, id DESC LIMIT ?`, url, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*FetchLogEntry
	for rows.Next() {
		var e FetchLogEntry
		if err := rows.Scan(&e.ID, &e.URL, &e.Status, &e.StatusCode,
			&e.ErrorMessage, &e.DurationMs, &e.FetchedAt); err != nil {
			return nil, fmt.Errorf("scan fetch log: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
