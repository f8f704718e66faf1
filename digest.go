// CLAUDE:SUMMARY Main Service orchestrator: ingest pipeline (validate, classify, extract, upsert, summarize) and all business methods.
// Package digest ingests URLs, extracts page metadata, generates LLM
// summaries, and serves full-text search over everything it stored.
package digest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/digest/internal/fetch"
	"github.com/hazyhaar/digest/internal/fragment"
	"github.com/hazyhaar/digest/internal/llm"
	"github.com/hazyhaar/digest/internal/meta"
	"github.com/hazyhaar/digest/internal/resolve"
	"github.com/hazyhaar/digest/internal/store"
	"github.com/hazyhaar/digest/urlsafe"
)

// Service is the main digest orchestrator.
type Service struct {
	store        *store.Store
	fetcher      *fetch.Fetcher
	extractor    *meta.Extractor
	dispatcher   *fragment.Dispatcher
	llm          llm.Client
	logger       *slog.Logger
	config       *Config
	urlValidator func(string) error // URL validation (default: urlsafe.ValidateURL)
}

// ServiceOption configures a Service during creation.
type ServiceOption func(*Service)

// WithURLValidator replaces the SSRF URL validator. Tests use this to
// allow loopback addresses.
func WithURLValidator(v func(string) error) ServiceOption {
	return func(s *Service) {
		s.urlValidator = v
		s.fetcher = fetch.New(fetch.Config{
			Timeout:      time.Duration(s.config.Fetch.TimeoutSec) * time.Second,
			MaxBytes:     s.config.Fetch.MaxBytes,
			UserAgent:    s.config.Fetch.UserAgent,
			URLValidator: v,
		})
		s.extractor = meta.New(s.fetcher)
		s.dispatcher = fragment.NewDispatcher(s.fetcher, s.llm)
	}
}

// WithLLMClient replaces the chat-completion client.
func WithLLMClient(c llm.Client) ServiceOption {
	return func(s *Service) {
		s.llm = c
		s.dispatcher = fragment.NewDispatcher(s.fetcher, c)
	}
}

// New creates a digest Service over an already-opened database with the
// schema applied (see dbopen.WithSchema and store.Schema).
func New(db *sql.DB, cfg *Config, logger *slog.Logger, opts ...ServiceOption) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}

	var client llm.Client
	if cfg.LLM.Endpoint != "" {
		var err error
		client, err = llm.New(cfg.llmConfig())
		if err != nil {
			return nil, fmt.Errorf("llm client: %w", err)
		}
	}

	f := fetch.New(cfg.fetchConfig())
	svc := &Service{
		store:        store.NewStore(db),
		fetcher:      f,
		extractor:    meta.New(f),
		dispatcher:   fragment.NewDispatcher(f, client),
		llm:          client,
		logger:       logger,
		config:       cfg,
		urlValidator: urlsafe.ValidateURL,
	}
	for _, opt := range opts {
		opt(svc)
	}

	if svc.llm == nil {
		return nil, errors.New("digest: LLM endpoint or client is required")
	}
	return svc, nil
}

// IngestRequest submits a URL for ingestion and summarization.
type IngestRequest struct {
	URL    string `json:"url"`
	Format string `json:"format"` // bullet | paragraph | detailed; empty = bullet
	Model  string `json:"model"`  // override; empty = configured model
}

// IngestResult is the outcome of one ingestion.
type IngestResult struct {
	URL      *URLRecord     `json:"url"`
	Summary  *SummaryRecord `json:"summary"`
	Category string         `json:"category"`
	// MetadataDegraded is set when the page could not be fetched or
	// parsed and the URL was stored with empty metadata.
	MetadataDegraded bool `json:"metadata_degraded,omitempty"`
}

// Ingest runs the full pipeline: validate, normalize, classify, extract
// metadata, persist the URL, summarize, persist the summary.
//
// Metadata failures degrade (the URL row is still written, with a fetch
// log entry recording the failure). Summarization failures abort after
// the URL row is persisted: the URL survives, no summary row is written.
func (s *Service) Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	if req.Format != "" && !fragment.ValidFormat(req.Format) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, req.Format)
	}
	if err := urlsafe.WellFormed(req.URL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if err := s.urlValidator(req.URL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	normalized, err := NormalizeURL(req.URL)
	if err != nil {
		return nil, err
	}

	category, identifier, err := resolve.Classify(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	md, degraded := s.extractMetadata(ctx, normalized)

	urlRec, err := s.store.UpsertURL(ctx, &store.URLRecord{
		URL:         normalized,
		Title:       md.Title,
		Description: md.Description,
		Image:       md.Image,
		SiteName:    md.SiteName,
		OGType:      md.OGType,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	sum, err := s.dispatcher.Summarize(ctx, fragment.Request{
		URL:        normalized,
		Category:   category,
		Identifier: identifier,
		Format:     req.Format,
		Model:      req.Model,
	})
	if err != nil {
		s.logger.Warn("summarization failed",
			"url", normalized, "category", category.String(), "error", err)
		return nil, err
	}

	sumRec, err := s.store.AppendSummary(ctx, &store.SummaryRecord{
		URLID:        urlRec.ID,
		Content:      sum.Content,
		ModelUsed:    sum.Model,
		FormatType:   sum.Format,
		FragmentUsed: nilIfEmpty(sum.Fragment),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	s.logger.Info("ingested url",
		"url", normalized, "url_id", urlRec.ID, "category", category.String(),
		"summary_id", sumRec.ID, "format", sumRec.FormatType, "degraded", degraded)

	return &IngestResult{
		URL:              urlRec,
		Summary:          sumRec,
		Category:         category.String(),
		MetadataDegraded: degraded,
	}, nil
}

// extractMetadata fetches page metadata, logging the attempt. Failures
// degrade to empty metadata.
func (s *Service) extractMetadata(ctx context.Context, url string) (*meta.Metadata, bool) {
	start := time.Now()
	md, status, err := s.extractor.Extract(ctx, url)
	entry := &store.FetchLogEntry{
		URL:        url,
		Status:     "ok",
		StatusCode: status,
		DurationMs: time.Since(start).Milliseconds(),
		FetchedAt:  time.Now().UnixMilli(),
	}
	if err != nil {
		entry.Status = "error"
		entry.ErrorMessage = err.Error()
		s.logger.Warn("metadata extraction failed", "url", url, "error", err)
		md = &meta.Metadata{}
	}
	if logErr := s.store.InsertFetchLog(ctx, entry); logErr != nil {
		s.logger.Warn("fetch log write failed", "url", url, "error", logErr)
	}
	return md, err != nil
}

// Resummarize generates an additional summary for an already-ingested
// URL. Earlier summaries are untouched.
func (s *Service) Resummarize(ctx context.Context, urlID int64, format, model string) (*SummaryRecord, error) {
	if format != "" && !fragment.ValidFormat(format) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
	urlRec, err := s.store.GetURL(ctx, urlID)
	if err != nil {
		return nil, err
	}
	category, identifier, err := resolve.Classify(urlRec.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	sum, err := s.dispatcher.Summarize(ctx, fragment.Request{
		URL:        urlRec.URL,
		Category:   category,
		Identifier: identifier,
		Format:     format,
		Model:      model,
	})
	if err != nil {
		return nil, err
	}
	rec, err := s.store.AppendSummary(ctx, &store.SummaryRecord{
		URLID:        urlRec.ID,
		Content:      sum.Content,
		ModelUsed:    sum.Model,
		FormatType:   sum.Format,
		FragmentUsed: nilIfEmpty(sum.Fragment),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return rec, nil
}

// GetURL returns one ingested URL by id.
func (s *Service) GetURL(ctx context.Context, id int64) (*URLRecord, error) {
	return s.store.GetURL(ctx, id)
}

// ListSummaries returns a URL's summaries, newest first.
func (s *Service) ListSummaries(ctx context.Context, urlID int64, limit int) ([]*SummaryRecord, error) {
	return s.store.ListSummaries(ctx, urlID, limit)
}

// DeleteURL removes a URL and all its summaries.
func (s *Service) DeleteURL(ctx context.Context, id int64) error {
	if err := s.store.DeleteURL(ctx, id); err != nil {
		return err
	}
	s.logger.Info("deleted url", "url_id", id)
	return nil
}

// RecentURLs lists ingested URLs newest first.
func (s *Service) RecentURLs(ctx context.Context, limit int) ([]*RecentEntry, error) {
	if limit <= 0 {
		limit = s.config.RecentLimit
	}
	return s.store.RecentURLs(ctx, limit)
}

// Search runs a full-text query over the given scope.
func (s *Service) Search(ctx context.Context, query string, scope SearchScope, limit int) (*SearchResults, error) {
	if limit <= 0 {
		limit = s.config.SearchLimit
	}
	return s.store.Search(ctx, query, scope, limit)
}

// FetchHistory returns the metadata fetch log for a URL.
func (s *Service) FetchHistory(ctx context.Context, url string, limit int) ([]*FetchLogEntry, error) {
	return s.store.FetchHistory(ctx, url, limit)
}

// SearchHistory returns recent search log entries, newest first.
func (s *Service) SearchHistory(ctx context.Context, limit int) ([]SearchLogEntry, error) {
	return s.store.ListSearchLog(ctx, limit)
}

// GetStats returns aggregate counters.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	return s.store.GetStats(ctx)
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
