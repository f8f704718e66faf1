// CLAUDE:SUMMARY Bounded HTTP GET fetcher with SSRF-checked redirects and pluggable URL validation.
// Package fetch implements bounded HTTP content fetching.
//
// Every request validates its URL (including redirect targets) and caps
// the response body size. Callers decide whether a fetch failure is
// fatal; the fetcher just reports it.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hazyhaar/digest/urlsafe"
)

// Result contains the outcome of a fetch.
type Result struct {
	Body       []byte
	StatusCode int
}

// Config configures the fetcher.
type Config struct {
	Timeout  time.Duration // HTTP timeout. Default: 30s.
	MaxBytes int64         // Max response body size. Default: 1MB.
	// UserAgent sent with requests.
	UserAgent string
	// URLValidator validates URLs before fetch (SSRF prevention).
	// Default: urlsafe.ValidateURL.
	URLValidator func(string) error
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = urlsafe.MaxResponseBody
	}
	if c.UserAgent == "" {
		c.UserAgent = "digest/1.0"
	}
	if c.URLValidator == nil {
		c.URLValidator = urlsafe.ValidateURL
	}
}

// Fetcher performs HTTP GET requests with SSRF protection on redirects.
type Fetcher struct {
	client *http.Client
	config Config
}

// New creates a Fetcher.
func New(cfg Config) *Fetcher {
	cfg.defaults()
	validate := cfg.URLValidator
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects (%d)", len(via))
				}
				if err := validate(req.URL.String()); err != nil {
					return fmt.Errorf("redirect blocked (SSRF): %w", err)
				}
				return nil
			},
		},
		config: cfg,
	}
}

// Fetch retrieves a URL, returning at most MaxBytes of body.
// Non-2xx/3xx statuses return both the Result (for the status code) and
// an error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	// SSRF: validate URL before request.
	if err := f.config.URLValidator(url); err != nil {
		return nil, fmt.Errorf("URL blocked (SSRF): %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/json;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return &Result{StatusCode: resp.StatusCode}, fmt.Errorf("http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Result{Body: body, StatusCode: resp.StatusCode}, nil
}
