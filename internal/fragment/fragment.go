// CLAUDE:SUMMARY Summary dispatcher: per-category fragment handlers feed an LLM client; format validation and prompts.
// Package fragment turns a classified URL into an LLM summary.
//
// Each site category has a Handler that retrieves the content fragment
// to summarize (Reddit thread JSON, Hacker News item tree, YouTube
// oEmbed metadata, or the sanitized page itself for generic URLs). The
// Dispatcher picks the handler, builds the format-specific system
// prompt, and calls the LLM.
package fragment

import (
	"context"
	"errors"
	"fmt"

	"github.com/hazyhaar/digest/internal/fetch"
	"github.com/hazyhaar/digest/internal/llm"
	"github.com/hazyhaar/digest/internal/resolve"
)

// ErrInvalidFormat is returned for an unknown summary format.
var ErrInvalidFormat = errors.New("fragment: invalid summary format")

// ErrSummarization is returned when fragment retrieval or the LLM call
// fails.
var ErrSummarization = errors.New("fragment: summarization failed")

// Summary formats.
const (
	FormatBullet    = "bullet"
	FormatParagraph = "paragraph"
	FormatDetailed  = "detailed"
)

// DefaultFormat is used when the caller does not specify one.
const DefaultFormat = FormatBullet

// systemPrompts maps each format to its LLM system prompt.
var systemPrompts = map[string]string{
	FormatBullet:    "Summarize this content concisely in 3-5 bullet points.",
	FormatParagraph: "Provide a concise paragraph summary of this content.",
	FormatDetailed:  "Provide a detailed summary including key points, context, and implications.",
}

// ValidFormat reports whether format names a known summary format.
func ValidFormat(format string) bool {
	_, ok := systemPrompts[format]
	return ok
}

// maxFragmentRunes caps the text sent to the LLM.
const maxFragmentRunes = 16384

// Handler retrieves the content fragment for one site category.
type Handler interface {
	// Name is the fragment name recorded with the summary; empty means
	// no named fragment (generic pages).
	Name() string
	// Fragment returns the text to summarize for the given URL and
	// site identifier.
	Fragment(ctx context.Context, url, id string) (string, error)
}

// Request describes one summarization.
type Request struct {
	URL        string
	Category   resolve.Category
	Identifier string
	Format     string // empty means DefaultFormat
	Model      string // empty means the client default
}

// Result is a generated summary, ready to persist.
type Result struct {
	Content  string
	Model    string
	Format   string
	Fragment string // handler name, "" for generic
}

// Dispatcher routes summarization requests to category handlers.
type Dispatcher struct {
	client   llm.Client
	generic  Handler
	handlers map[resolve.Category]Handler
}

// NewDispatcher wires the default handlers over the given fetcher and
// LLM client.
func NewDispatcher(f *fetch.Fetcher, client llm.Client) *Dispatcher {
	generic := &genericHandler{fetcher: f}
	return &Dispatcher{
		client:  client,
		generic: generic,
		handlers: map[resolve.Category]Handler{
			resolve.Reddit:     &redditHandler{fetcher: f},
			resolve.HackerNews: &hackerNewsHandler{fetcher: f},
			resolve.YouTube:    &youtubeHandler{fetcher: f},
			resolve.Generic:    generic,
		},
	}
}

// Summarize validates the format, retrieves the fragment, and calls the
// LLM. A categorized URL whose identifier could not be extracted falls
// back to the generic page handler.
func (d *Dispatcher) Summarize(ctx context.Context, req Request) (*Result, error) {
	format := req.Format
	if format == "" {
		format = DefaultFormat
	}
	prompt, ok := systemPrompts[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, req.Format)
	}

	h := d.handlers[req.Category]
	if h == nil || (req.Identifier == "" && req.Category != resolve.Generic) {
		h = d.generic
	}

	text, err := h.Fragment(ctx, req.URL, req.Identifier)
	if err != nil {
		return nil, fmt.Errorf("%w: %s fragment: %v", ErrSummarization, req.Category, err)
	}
	text = truncateRunes(text, maxFragmentRunes)

	content, err := d.client.Complete(ctx, req.Model, prompt, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSummarization, err)
	}

	model := req.Model
	if model == "" {
		model = d.client.Model()
	}
	return &Result{
		Content:  content,
		Model:    model,
		Format:   format,
		Fragment: h.Name(),
	}, nil
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
