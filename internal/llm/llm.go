// CLAUDE:SUMMARY Chat-completion client for OpenAI-compatible endpoints; Client interface for test doubles.
// Package llm talks to an OpenAI-compatible /v1/chat/completions
// endpoint. The API format covers OpenAI itself plus vLLM, Ollama, and
// most local inference servers.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrEmptyCompletion is returned when the model responds with no usable
// content.
var ErrEmptyCompletion = errors.New("llm: empty completion")

// Client produces a completion for a system/user prompt pair.
type Client interface {
	// Complete returns the model's text for the given prompts. An empty
	// model uses the client default.
	Complete(ctx context.Context, model, systemPrompt, userPrompt string) (string, error)
	// Model reports the default model identifier.
	Model() string
}

// Config configures the HTTP client.
type Config struct {
	Endpoint string        // Base URL, e.g. "https://api.openai.com". Required.
	APIKey   string        // Bearer token. Optional for local servers.
	Model    string        // Default: "gpt-4o-mini".
	Timeout  time.Duration // Per-request timeout. Default: 60s.
}

func (c *Config) defaults() {
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
}

type httpClient struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

// New creates a Client for the configured endpoint.
func New(cfg Config) (Client, error) {
	cfg.defaults()
	if cfg.Endpoint == "" {
		return nil, errors.New("llm: endpoint is required")
	}
	return &httpClient{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		client:   &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the JSON body sent to /v1/chat/completions.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// chatResponse is the JSON response (OpenAI format).
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Model string `json:"model"`
}

func (c *httpClient) Complete(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	if model == "" {
		model = c.model
	}
	body, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := c.endpoint + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP POST %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("HTTP %d from %s: %s", resp.StatusCode, url, string(respBody))
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}

func (c *httpClient) Model() string { return c.model }
