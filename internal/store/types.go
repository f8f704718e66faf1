// CLAUDE:SUMMARY Store record types: URLRecord, SummaryRecord, search and log entries.
package store

// URLRecord is one ingested URL with its page metadata. Pointer fields
// are NULL when the page did not provide them.
type URLRecord struct {
	ID          int64   `json:"id"`
	URL         string  `json:"url"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	SiteName    *string `json:"site_name"`
	OGType      *string `json:"og_type"`
	CreatedAt   int64   `json:"created_at"`
}

// SummaryRecord is one generated summary. Summaries are append-only;
// re-summarizing a URL adds a row.
type SummaryRecord struct {
	ID           int64   `json:"id"`
	URLID        int64   `json:"url_id"`
	Content      string  `json:"content"`
	ModelUsed    string  `json:"model_used"`
	FormatType   string  `json:"format_type"`
	FragmentUsed *string `json:"fragment_used"`
	CreatedAt    int64   `json:"created_at"`
}

// RecentEntry is a URL row with summary aggregates and the newest
// summary, for listings. LatestSummary is nil for a URL with no
// summaries yet.
type RecentEntry struct {
	URLRecord
	SummaryCount  int64          `json:"summary_count"`
	LastSummaryAt *int64         `json:"last_summary_at"`
	LatestSummary *SummaryRecord `json:"latest_summary"`
}

// SearchScope selects which index a search runs against.
type SearchScope string

const (
	ScopeAll       SearchScope = "all"
	ScopeURLs      SearchScope = "urls"
	ScopeSummaries SearchScope = "summaries"
)

// ValidScope reports whether s names a known search scope.
func ValidScope(s SearchScope) bool {
	switch s {
	case ScopeAll, ScopeURLs, ScopeSummaries:
		return true
	}
	return false
}

// SummaryHit is a summary search match joined with its URL and the
// page title.
type SummaryHit struct {
	SummaryRecord
	URL   string  `json:"url"`
	Title *string `json:"title"`
}

// SearchResults partitions matches by index. A scope of "urls" leaves
// Summaries empty and vice versa.
type SearchResults struct {
	Query     string        `json:"query"`
	URLs      []*URLRecord  `json:"urls"`
	Summaries []*SummaryHit `json:"summaries"`
}

// FetchLogEntry records one metadata fetch attempt.
type FetchLogEntry struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	Status       string `json:"status"` // "ok" or "error"
	StatusCode   int    `json:"status_code"`
	ErrorMessage string `json:"error_message"`
	DurationMs   int64  `json:"duration_ms"`
	FetchedAt    int64  `json:"fetched_at"`
}

// SearchLogEntry records one executed search.
type SearchLogEntry struct {
	ID          string `json:"id"`
	Query       string `json:"query"`
	ResultCount int64  `json:"result_count"`
	SearchedAt  int64  `json:"searched_at"`
}

// Stats holds aggregate counters for the database.
type Stats struct {
	URLs      int64 `json:"urls"`
	Summaries int64 `json:"summaries"`
	FetchLogs int64 `json:"fetch_logs"`
	Searches  int64 `json:"searches"`
}
