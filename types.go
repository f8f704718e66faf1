// CLAUDE:SUMMARY Public type aliases for store records so API consumers import one package.
package digest

import "github.com/hazyhaar/digest/internal/store"

// Store record types, re-exported for API consumers.
type (
	URLRecord      = store.URLRecord
	SummaryRecord  = store.SummaryRecord
	RecentEntry    = store.RecentEntry
	SummaryHit     = store.SummaryHit
	SearchResults  = store.SearchResults
	SearchScope    = store.SearchScope
	FetchLogEntry  = store.FetchLogEntry
	SearchLogEntry = store.SearchLogEntry
	Stats          = store.Stats
)

// Search scopes.
const (
	ScopeAll       = store.ScopeAll
	ScopeURLs      = store.ScopeURLs
	ScopeSummaries = store.ScopeSummaries
)
