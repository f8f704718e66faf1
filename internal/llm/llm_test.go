package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestComplete_Success(t *testing.T) {
	// WHAT: Request shape and response extraction against a fake server.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("auth = %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("messages = %+v", req.Messages)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "  a summary  "}},
			},
		})
	}))
	defer srv.Close()

	c, err := New(Config{Endpoint: srv.URL, APIKey: "sk-test"})
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.Complete(context.Background(), "", "be brief", "summarize this")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got != "a summary" {
		t.Errorf("content = %q (whitespace should be trimmed)", got)
	}
}

func TestComplete_EmptyContent(t *testing.T) {
	// WHAT: A 200 with no usable content is still an error.
	// WHY: Persisting an empty summary would corrupt search results.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": "   "}}},
		})
	}))
	defer srv.Close()

	c, _ := New(Config{Endpoint: srv.URL})
	if _, err := c.Complete(context.Background(), "", "s", "u"); !errors.Is(err, ErrEmptyCompletion) {
		t.Errorf("err = %v, want ErrEmptyCompletion", err)
	}
}

func TestComplete_ModelOverride(t *testing.T) {
	// WHAT: A per-request model replaces the configured default.
	var sent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		sent = req.Model
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": "ok"}}},
		})
	}))
	defer srv.Close()

	c, _ := New(Config{Endpoint: srv.URL, Model: "default-model"})
	if _, err := c.Complete(context.Background(), "special-model", "s", "u"); err != nil {
		t.Fatal(err)
	}
	if sent != "special-model" {
		t.Errorf("model = %q, want override", sent)
	}
	if _, err := c.Complete(context.Background(), "", "s", "u"); err != nil {
		t.Fatal(err)
	}
	if sent != "default-model" {
		t.Errorf("model = %q, want default", sent)
	}
}

func TestComplete_HTTPError(t *testing.T) {
	// WHAT: Non-200 statuses fail with the status and body excerpt.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, _ := New(Config{Endpoint: srv.URL})
	if _, err := c.Complete(context.Background(), "", "s", "u"); err == nil {
		t.Fatal("expected error for 429")
	}
}

func TestNew_RequiresEndpoint(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for missing endpoint")
	}
}

func TestNew_Defaults(t *testing.T) {
	c, err := New(Config{Endpoint: "http://localhost:11434"})
	if err != nil {
		t.Fatal(err)
	}
	if c.Model() != "gpt-4o-mini" {
		t.Errorf("model = %q", c.Model())
	}
}
