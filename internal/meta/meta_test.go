package meta

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hazyhaar/digest/internal/fetch"
)

func noopValidator(_ string) error { return nil }

func newExtractor() *Extractor {
	return New(fetch.New(fetch.Config{URLValidator: noopValidator}))
}

func TestParse_OpenGraph(t *testing.T) {
	// WHAT: All five OG fields are extracted when present.
	body := []byte(`<html><head>
		<meta property="og:title" content="A Title">
		<meta property="og:description" content="A description.">
		<meta property="og:image" content="https://cdn.example.com/pic.png">
		<meta property="og:site_name" content="Example">
		<meta property="og:type" content="article">
		<title>Fallback Title</title>
	</head><body></body></html>`)

	m, err := Parse(body, "https://example.com/post")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := map[string]*string{
		"title":       m.Title,
		"description": m.Description,
		"image":       m.Image,
		"site_name":   m.SiteName,
		"og_type":     m.OGType,
	}
	for field, got := range want {
		if got == nil {
			t.Errorf("%s is nil", field)
		}
	}
	if m.Title != nil && *m.Title != "A Title" {
		t.Errorf("title = %q, og:title should win over <title>", *m.Title)
	}
	if m.OGType != nil && *m.OGType != "article" {
		t.Errorf("og_type = %q", *m.OGType)
	}
}

func TestParse_Fallbacks(t *testing.T) {
	// WHAT: Without OG tags, <title> and meta description are used.
	body := []byte(`<html><head>
		<title>Plain Title</title>
		<meta name="description" content="plain description">
	</head></html>`)

	m, err := Parse(body, "https://example.com/")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m.Title == nil || *m.Title != "Plain Title" {
		t.Errorf("title = %v", m.Title)
	}
	if m.Description == nil || *m.Description != "plain description" {
		t.Errorf("description = %v", m.Description)
	}
	if m.Image != nil || m.SiteName != nil || m.OGType != nil {
		t.Error("absent fields should be nil")
	}
}

func TestParse_EmptyPage(t *testing.T) {
	// WHAT: A page with no metadata yields all-nil fields, no error.
	// WHY: Missing metadata degrades, it does not abort ingestion.
	m, err := Parse([]byte(`<html><body>hi</body></html>`), "https://example.com/")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m.Title != nil || m.Description != nil || m.Image != nil || m.SiteName != nil || m.OGType != nil {
		t.Errorf("expected empty metadata, got %+v", m)
	}
}

func TestParse_RelativeImage(t *testing.T) {
	// WHAT: Relative og:image resolves against the page URL.
	body := []byte(`<html><head><meta property="og:image" content="/img/cover.jpg"></head></html>`)
	m, err := Parse(body, "https://example.com/articles/go")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m.Image == nil || *m.Image != "https://example.com/img/cover.jpg" {
		t.Errorf("image = %v", m.Image)
	}
}

func TestParse_DescriptionTruncated(t *testing.T) {
	// WHAT: Descriptions are capped at 500 runes on a rune boundary.
	long := strings.Repeat("é", 600)
	body := []byte(`<html><head><meta property="og:description" content="` + long + `"></head></html>`)
	m, err := Parse(body, "https://example.com/")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m.Description == nil {
		t.Fatal("description is nil")
	}
	if got := len([]rune(*m.Description)); got != 500 {
		t.Errorf("description runes = %d, want 500", got)
	}
}

func TestExtract_FetchError(t *testing.T) {
	// WHAT: A failing fetch surfaces ErrFetch.
	// WHY: The ingestion pipeline matches on the sentinel to degrade.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, status, err := newExtractor().Extract(context.Background(), srv.URL)
	if !errors.Is(err, ErrFetch) {
		t.Errorf("err = %v, want ErrFetch", err)
	}
	if status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", status)
	}
}

func TestExtract_Success(t *testing.T) {
	// WHAT: End-to-end fetch + parse over HTTP.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><meta property="og:title" content="Served"></head></html>`))
	}))
	defer srv.Close()

	m, status, err := newExtractor().Extract(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if status != http.StatusOK {
		t.Errorf("status = %d, want 200", status)
	}
	if m.Title == nil || *m.Title != "Served" {
		t.Errorf("title = %v", m.Title)
	}
}
