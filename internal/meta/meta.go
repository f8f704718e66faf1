// CLAUDE:SUMMARY OpenGraph/HTML metadata extraction via goquery with tag fallbacks and absolute image URLs.
// Package meta extracts page metadata (OpenGraph tags with plain-HTML
// fallbacks) from fetched documents.
//
// Extraction is best-effort: a page with no usable tags yields a
// Metadata with all-nil fields, not an error. Fetch and parse failures
// are reported with sentinel errors so callers can degrade gracefully.
package meta

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hazyhaar/digest/internal/fetch"
)

// ErrFetch indicates the page could not be retrieved.
var ErrFetch = errors.New("meta: fetch failed")

// ErrParse indicates the page body could not be parsed as HTML.
var ErrParse = errors.New("meta: parse failed")

// maxDescriptionRunes bounds stored descriptions; longer text is
// truncated at a rune boundary.
const maxDescriptionRunes = 500

// Metadata holds the extracted page fields. Nil means the page did not
// provide the field.
type Metadata struct {
	Title       *string
	Description *string
	Image       *string
	SiteName    *string
	OGType      *string
}

// Extractor fetches pages and pulls their metadata.
type Extractor struct {
	fetcher *fetch.Fetcher
}

// New creates an Extractor using the given fetcher.
func New(f *fetch.Fetcher) *Extractor {
	return &Extractor{fetcher: f}
}

// Extract fetches pageURL and returns its metadata plus the HTTP status
// code of the fetch (0 when no response arrived). OpenGraph tags take
// precedence; <title> and <meta name="description"> are fallbacks.
// og:image values are resolved to absolute URLs against the page URL.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (*Metadata, int, error) {
	res, err := e.fetcher.Fetch(ctx, pageURL)
	var status int
	if res != nil {
		status = res.StatusCode
	}
	if err != nil {
		return nil, status, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	md, err := Parse(res.Body, pageURL)
	return md, status, err
}

// Parse extracts metadata from an already-fetched HTML body. baseURL is
// used to absolutize relative image references.
func Parse(body []byte, baseURL string) (*Metadata, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	m := &Metadata{}

	title := ogProperty(doc, "og:title")
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	m.Title = nonEmpty(title)

	desc := ogProperty(doc, "og:description")
	if desc == "" {
		desc, _ = doc.Find(`meta[name="description"]`).First().Attr("content")
		desc = strings.TrimSpace(desc)
	}
	m.Description = nonEmpty(truncateRunes(desc, maxDescriptionRunes))

	if img := ogProperty(doc, "og:image"); img != "" {
		m.Image = nonEmpty(absolutize(baseURL, img))
	}
	m.SiteName = nonEmpty(ogProperty(doc, "og:site_name"))
	m.OGType = nonEmpty(ogProperty(doc, "og:type"))

	return m, nil
}

func ogProperty(doc *goquery.Document, prop string) string {
	content, _ := doc.Find(fmt.Sprintf(`meta[property=%q]`, prop)).First().Attr("content")
	return strings.TrimSpace(content)
}

// absolutize resolves ref against base; on any parse failure it returns
// ref unchanged.
func absolutize(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
