// CLAUDE:SUMMARY Summary row operations: append-only insert and per-URL listing.
package store

import (
	"context"
	"fmt"
	"time"
)

// AppendSummary inserts a new summary row for an existing URL. Existing
// summaries are never modified. Returns the stored row with its id and
// timestamp filled in, or ErrNotFound if the URL does not exist.
func (s *Store) AppendSummary(ctx context.Context, rec *SummaryRecord) (*SummaryRecord, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM urls WHERE id = ?`, rec.URLID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check url: %w", err)
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	now := time.Now().UnixMilli()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO summaries (url_id, content, model_used, format_type, fragment_used, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.URLID, rec.Content, rec.ModelUsed, rec.FormatType, rec.FragmentUsed, now)
	if err != nil {
		return nil, fmt.Errorf("insert summary: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit append: %w", err)
	}

	stored := *rec
	stored.ID = id
	stored.CreatedAt = now
	return &stored, nil
}

// ListSummaries returns a URL's summaries, newest first (ties break by
// id descending). ErrNotFound if the URL does not exist; a URL with no
// summaries returns an empty list.
func (s *Store) ListSummaries(ctx context.Context, urlID int64, limit int) ([]*SummaryRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	var exists int
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM urls WHERE id = ?`, urlID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check url: %w", err)
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, url_id, content, model_used, format_type, fragment_used, created_at
		FROM summaries WHERE url_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, urlID, limit)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	defer rows.Close()

	summaries := []*SummaryRecord{}
	for rows.Next() {
		var r SummaryRecord
		if err := rows.Scan(&r.ID, &r.URLID, &r.Content, &r.ModelUsed,
			&r.FormatType, &r.FragmentUsed, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries = append(summaries, &r)
	}
	return summaries, rows.Err()
}
