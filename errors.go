// CLAUDE:SUMMARY Sentinel errors for the digest service; internal sentinels re-exported for errors.Is matching.
package digest

import (
	"errors"

	"github.com/hazyhaar/digest/internal/fragment"
	"github.com/hazyhaar/digest/internal/meta"
	"github.com/hazyhaar/digest/internal/store"
)

// ErrInvalidURL is returned when a submitted URL fails validation.
var ErrInvalidURL = errors.New("digest: invalid URL")

// ErrStorage is returned when a database operation fails.
var ErrStorage = errors.New("digest: storage failure")

// Re-exported sentinels so callers match on one package.
var (
	ErrNotFound      = store.ErrNotFound
	ErrInvalidQuery  = store.ErrInvalidQuery
	ErrInvalidFormat = fragment.ErrInvalidFormat
	ErrSummarization = fragment.ErrSummarization
	ErrFetch         = meta.ErrFetch
	ErrParse         = meta.ErrParse
)
