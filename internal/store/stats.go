// CLAUDE:SUMMARY Aggregate counters: urls, summaries, fetch log, search log.
package store

import "context"

// GetStats returns aggregate counters for the database.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	for _, c := range []struct {
		query string
		dst   *int64
	}{
		{`SELECT COUNT(*) FROM urls`, &stats.URLs},
		{`SELECT COUNT(*) FROM summaries`, &stats.Summaries},
		{`SELECT COUNT(*) FROM fetch_log`, &stats.FetchLogs},
		{`SELECT COUNT(*) FROM search_log`, &stats.Searches},
	} {
		if err := s.DB.QueryRowContext(ctx, c.query).Scan(c.dst); err != nil {
			return nil, err
		}
	}
	return &stats, nil
}
