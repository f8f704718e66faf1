// CLAUDE:SUMMARY FTS5 search over urls and summaries with sanitized MATCH queries and recency ordering.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hazyhaar/digest/idgen"
)

// buildMatchQuery compiles user input into a safe FTS5 MATCH
// expression. Double-quoted phrases are kept as phrases; every other
// token is quoted so FTS5 operator syntax (AND, OR, NEAR, column
// filters) cannot be injected. Terms combine with implicit AND.
func buildMatchQuery(input string) (string, error) {
	var terms []string
	rest := strings.TrimSpace(input)
	for rest != "" {
		if rest[0] == '"' {
			end := strings.IndexByte(rest[1:], '"')
			if end >= 0 {
				if phrase := sanitizeTerm(rest[1 : 1+end]); phrase != "" {
					terms = append(terms, `"`+phrase+`"`)
				}
				rest = strings.TrimSpace(rest[end+2:])
				continue
			}
			// Unbalanced quote: treat the rest as plain terms.
			rest = strings.TrimSpace(rest[1:])
			continue
		}
		word := rest
		if i := strings.IndexByte(rest, ' '); i >= 0 {
			word, rest = rest[:i], strings.TrimSpace(rest[i+1:])
		} else {
			rest = ""
		}
		if t := sanitizeTerm(word); t != "" {
			terms = append(terms, `"`+t+`"`)
		}
	}
	if len(terms) == 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidQuery, input)
	}
	return strings.Join(terms, " "), nil
}

// sanitizeTerm strips embedded double quotes, which are the only
// characters that could break out of a quoted FTS5 string.
func sanitizeTerm(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
}

// Search runs a full-text query against the selected scope. Results are
// ordered by record recency (created_at, then id, both descending), not
// relevance. Empty or unsanitizable queries return ErrInvalidQuery.
func (s *Store) Search(ctx context.Context, query string, scope SearchScope, limit int) (*SearchResults, error) {
	if scope == "" {
		scope = ScopeAll
	}
	if !ValidScope(scope) {
		return nil, fmt.Errorf("%w: unknown scope %q", ErrInvalidQuery, scope)
	}
	if limit <= 0 {
		limit = 20
	}
	match, err := buildMatchQuery(query)
	if err != nil {
		return nil, err
	}

	results := &SearchResults{Query: query, URLs: []*URLRecord{}, Summaries: []*SummaryHit{}}

	if scope == ScopeAll || scope == ScopeURLs {
		results.URLs, err = s.searchURLs(ctx, match, limit)
		if err != nil {
			return nil, err
		}
	}
	if scope == ScopeAll || scope == ScopeSummaries {
		results.Summaries, err = s.searchSummaries(ctx, match, limit)
		if err != nil {
			return nil, err
		}
	}

	// Log the search (fire-and-forget).
	s.DB.ExecContext(ctx,
		`INSERT INTO search_log (id, query, result_count, searched_at) VALUES (?, ?, ?, ?)`,
		idgen.New(), query, len(results.URLs)+len(results.Summaries), time.Now().UnixMilli())

	return results, nil
}

func (s *Store) searchURLs(ctx context.Context, match string, limit int) ([]*URLRecord, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT u.id, u.url, u.title, u.description, u.image, u.site_name, u.og_type, u.created_at
		FROM urls_fts f
		JOIN urls u ON u.id = f.rowid
		WHERE urls_fts MATCH ?
		ORDER BY u.created_at DESC, u.id DESC
		LIMIT ?`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("search urls: %w", err)
	}
	defer rows.Close()

	urls := []*URLRecord{}
	for rows.Next() {
		var r URLRecord
		if err := rows.Scan(&r.ID, &r.URL, &r.Title, &r.Description, &r.Image,
			&r.SiteName, &r.OGType, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan url hit: %w", err)
		}
		urls = append(urls, &r)
	}
	return urls, rows.Err()
}

func (s *Store) searchSummaries(ctx context.Context, match string, limit int) ([]*SummaryHit, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT s.id, s.url_id, s.content, s.model_used, s.format_type, s.fragment_used, s.created_at, u.url, u.title
		FROM summaries_fts f
		JOIN summaries s ON s.id = f.rowid
		JOIN urls u ON u.id = s.url_id
		WHERE summaries_fts MATCH ?
		ORDER BY s.created_at DESC, s.id DESC
		LIMIT ?`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("search summaries: %w", err)
	}
	defer rows.Close()

	hits := []*SummaryHit{}
	for rows.Next() {
		var h SummaryHit
		if err := rows.Scan(&h.ID, &h.URLID, &h.Content, &h.ModelUsed,
			&h.FormatType, &h.FragmentUsed, &h.CreatedAt, &h.URL, &h.Title); err != nil {
			return nil, fmt.Errorf("scan summary hit: %w", err)
		}
		hits = append(hits, &h)
	}
	return hits, rows.Err()
}

// ListSearchLog returns recent search log entries, newest first.
func (s *Store) ListSearchLog(ctx context.Context, limit int) ([]SearchLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, query, result_count, searched_at FROM search_log
		ORDER BY searched_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []SearchLogEntry
	for rows.Next() {
		var e SearchLogEntry
		if err := rows.Scan(&e.ID, &e.Query, &e.ResultCount, &e.SearchedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
