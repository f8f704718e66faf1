// CLAUDE:SUMMARY URL row operations: idempotent upsert, lookup, cascading delete, recent listing.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertURL inserts a URL or refreshes the metadata of an existing row.
// The row's id and created_at never change on re-ingestion, and a nil
// metadata field does not clobber a previously stored value. Returns
// the stored row.
func (s *Store) UpsertURL(ctx context.Context, rec *URLRecord) (*URLRecord, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UnixMilli()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO urls (url, title, description, image, site_name, og_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title       = COALESCE(excluded.title, title),
			description = COALESCE(excluded.description, description),
			image       = COALESCE(excluded.image, image),
			site_name   = COALESCE(excluded.site_name, site_name),
			og_type     = COALESCE(excluded.og_type, og_type)`,
		rec.URL, rec.Title, rec.Description, rec.Image, rec.SiteName, rec.OGType, now)
	if err != nil {
		return nil, fmt.Errorf("upsert url: %w", err)
	}

	stored, err := scanURL(tx.QueryRowContext(ctx,
		`SELECT id, url, title, description, image, site_name, og_type, created_at
		FROM urls WHERE url = ?`, rec.URL))
	if err != nil {
		return nil, fmt.Errorf("read back url: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit upsert: %w", err)
	}
	return stored, nil
}

// GetURL returns the URL row by id, or ErrNotFound.
func (s *Store) GetURL(ctx context.Context, id int64) (*URLRecord, error) {
	rec, err := scanURL(s.DB.QueryRowContext(ctx,
		`SELECT id, url, title, description, image, site_name, og_type, created_at
		FROM urls WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

// GetURLByAddress returns the URL row by its address, or ErrNotFound.
func (s *Store) GetURLByAddress(ctx context.Context, url string) (*URLRecord, error) {
	rec, err := scanURL(s.DB.QueryRowContext(ctx,
		`SELECT id, url, title, description, image, site_name, og_type, created_at
		FROM urls WHERE url = ?`, url))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

// DeleteURL removes a URL and all its summaries. Summaries are deleted
// explicitly inside the transaction so the FTS5 delete triggers see the
// old rows; FK cascade alone would bypass summaries_fts.
func (s *Store) DeleteURL(ctx context.Context, id int64) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM summaries WHERE url_id = ?`, id); err != nil {
		return fmt.Errorf("delete summaries: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM urls WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete url: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// RecentURLs lists URLs newest first with summary aggregates and each
// URL's newest summary. Ties on created_at break by id descending.
func (s *Store) RecentURLs(ctx context.Context, limit int) ([]*RecentEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT u.id, u.url, u.title, u.description, u.image, u.site_name, u.og_type, u.created_at,
			COUNT(s.id), MAX(s.created_at),
			ls.id, ls.content, ls.model_used, ls.format_type, ls.fragment_used, ls.created_at
		FROM urls u
		LEFT JOIN summaries s ON s.url_id = u.id
		LEFT JOIN summaries ls ON ls.id =
			(SELECT MAX(id) FROM summaries WHERE url_id = u.id)
		GROUP BY u.id
		ORDER BY u.created_at DESC, u.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent urls: %w", err)
	}
	defer rows.Close()

	var entries []*RecentEntry
	for rows.Next() {
		var e RecentEntry
		var (
			lsID      sql.NullInt64
			lsContent sql.NullString
			lsModel   sql.NullString
			lsFormat  sql.NullString
			lsFrag    sql.NullString
			lsCreated sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.URL, &e.Title, &e.Description, &e.Image,
			&e.SiteName, &e.OGType, &e.CreatedAt, &e.SummaryCount, &e.LastSummaryAt,
			&lsID, &lsContent, &lsModel, &lsFormat, &lsFrag, &lsCreated); err != nil {
			return nil, fmt.Errorf("scan recent entry: %w", err)
		}
		if lsID.Valid {
			e.LatestSummary = &SummaryRecord{
				ID:         lsID.Int64,
				URLID:      e.ID,
				Content:    lsContent.String,
				ModelUsed:  lsModel.String,
				FormatType: lsFormat.String,
				CreatedAt:  lsCreated.Int64,
			}
			if lsFrag.Valid {
				e.LatestSummary.FragmentUsed = &lsFrag.String
			}
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanURL(row rowScanner) (*URLRecord, error) {
	var r URLRecord
	err := row.Scan(&r.ID, &r.URL, &r.Title, &r.Description, &r.Image,
		&r.SiteName, &r.OGType, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
