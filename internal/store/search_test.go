package store

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func seedSearchData(t *testing.T) *Store {
	t.Helper()
	s := newTestStore(t)
	ctx := context.Background()

	// Direct inserts to control created_at ordering.
	rows := []struct {
		url, title string
		ts         int64
	}{
		{"https://blog.example.com/error-handling", "Error handling in Go", 1000},
		{"https://blog.example.com/generics", "Go generics deep dive", 2000},
		{"https://other.example.com/rust", "Handling error cases the Rust way", 3000},
	}
	for _, r := range rows {
		if _, err := s.DB.Exec(
			`INSERT INTO urls (url, title, created_at) VALUES (?, ?, ?)`, r.url, r.title, r.ts); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	u, _ := s.GetURLByAddress(ctx, "https://blog.example.com/generics")
	if _, err := s.DB.Exec(
		`INSERT INTO summaries (url_id, content, model_used, format_type, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		u.ID, "Generics reduce error prone duplication", "m", "bullet", 1500); err != nil {
		t.Fatalf("seed summary: %v", err)
	}
	return s
}

func TestSearch_Scopes(t *testing.T) {
	// WHAT: Scope restricts which index is queried; "all" hits both.
	// WHY: URL matches and summary matches must stay partitioned.
	s := seedSearchData(t)
	ctx := context.Background()

	all, err := s.Search(ctx, "error", ScopeAll, 10)
	if err != nil {
		t.Fatalf("search all: %v", err)
	}
	if len(all.URLs) != 2 || len(all.Summaries) != 1 {
		t.Errorf("all: urls=%d summaries=%d", len(all.URLs), len(all.Summaries))
	}

	urls, _ := s.Search(ctx, "error", ScopeURLs, 10)
	if len(urls.URLs) != 2 || len(urls.Summaries) != 0 {
		t.Errorf("urls scope: urls=%d summaries=%d", len(urls.URLs), len(urls.Summaries))
	}

	sums, _ := s.Search(ctx, "error", ScopeSummaries, 10)
	if len(sums.URLs) != 0 || len(sums.Summaries) != 1 {
		t.Errorf("summaries scope: urls=%d summaries=%d", len(sums.URLs), len(sums.Summaries))
	}
	if len(sums.Summaries) == 1 {
		hit := sums.Summaries[0]
		if hit.URL != "https://blog.example.com/generics" {
			t.Errorf("summary hit url = %s", hit.URL)
		}
		if hit.Title == nil || *hit.Title != "Go generics deep dive" {
			t.Errorf("summary hit title = %v, want the page title", hit.Title)
		}
	}
}

func TestSearch_RecencyOrder(t *testing.T) {
	// WHAT: Matches order by created_at descending, not relevance.
	s := seedSearchData(t)
	res, err := s.Search(context.Background(), "error", ScopeURLs, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.URLs) != 2 {
		t.Fatalf("count = %d", len(res.URLs))
	}
	if res.URLs[0].CreatedAt < res.URLs[1].CreatedAt {
		t.Errorf("not newest first: %d before %d", res.URLs[0].CreatedAt, res.URLs[1].CreatedAt)
	}
}

func TestSearch_ExactPhrase(t *testing.T) {
	// WHAT: Double-quoted input matches as a phrase, not as bag of words.
	s := seedSearchData(t)
	res, err := s.Search(context.Background(), `"error handling"`, ScopeURLs, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.URLs) != 1 {
		t.Fatalf("count = %d, want 1", len(res.URLs))
	}
	if !strings.Contains(*res.URLs[0].Title, "Error handling") {
		t.Errorf("hit = %q", *res.URLs[0].Title)
	}
}

func TestSearch_OperatorsNeutralized(t *testing.T) {
	// WHAT: FTS5 operator words and column syntax are treated as
	// literal terms instead of being interpreted.
	// WHY: User input must not be able to inject query syntax.
	s := seedSearchData(t)
	ctx := context.Background()

	// "OR" as a literal term: no document contains "or", so this must
	// not behave like (generics OR rust).
	res, err := s.Search(ctx, "generics OR rust", ScopeURLs, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.URLs) != 0 {
		t.Errorf("operator interpreted: %d hits", len(res.URLs))
	}

	// Column-filter syntax must not error or match.
	res, err = s.Search(ctx, "title:generics", ScopeURLs, 10)
	if err != nil {
		t.Fatalf("column filter query errored: %v", err)
	}
	if len(res.URLs) != 0 {
		t.Errorf("column filter interpreted: %d hits", len(res.URLs))
	}
}

func TestSearch_InvalidQuery(t *testing.T) {
	s := seedSearchData(t)
	for _, q := range []string{"", "   ", `""`, `"`} {
		if _, err := s.Search(context.Background(), q, ScopeAll, 10); !errors.Is(err, ErrInvalidQuery) {
			t.Errorf("Search(%q) err = %v, want ErrInvalidQuery", q, err)
		}
	}
	if _, err := s.Search(context.Background(), "ok", SearchScope("bogus"), 10); !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("bogus scope err = %v, want ErrInvalidQuery", err)
	}
}

func TestSearch_LogsQueries(t *testing.T) {
	// WHAT: Every executed search lands in search_log.
	s := seedSearchData(t)
	ctx := context.Background()
	s.Search(ctx, "generics", ScopeAll, 10)
	s.Search(ctx, "rust", ScopeAll, 10)

	log, err := s.ListSearchLog(ctx, 10)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if len(log) != 2 {
		t.Errorf("log entries = %d, want 2", len(log))
	}
}

func TestBuildMatchQuery(t *testing.T) {
	// WHAT: Query compilation quotes terms and preserves phrases.
	tests := []struct {
		in   string
		want string
	}{
		{"hello", `"hello"`},
		{"hello world", `"hello" "world"`},
		{`"exact phrase" extra`, `"exact phrase" "extra"`},
		{`a"b`, `"ab"`},
		{"  spaced   out  ", `"spaced" "out"`},
	}
	for _, tt := range tests {
		got, err := buildMatchQuery(tt.in)
		if err != nil {
			t.Errorf("buildMatchQuery(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("buildMatchQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
