// CLAUDE:SUMMARY YAML configuration for the digest service with defaults and validation.
package digest

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/digest/internal/fetch"
	"github.com/hazyhaar/digest/internal/llm"
)

// Config holds the full digest configuration.
type Config struct {
	Listen string `yaml:"listen"`
	DBPath string `yaml:"db_path"`

	// Fetch settings for metadata extraction and fragment retrieval.
	Fetch FetchConfig `yaml:"fetch"`

	// LLM is the summarization backend.
	LLM LLMConfig `yaml:"llm"`

	// RecentLimit is the default page size for recent listings.
	RecentLimit int `yaml:"recent_limit"`
	// SearchLimit is the default result cap per search scope.
	SearchLimit int `yaml:"search_limit"`
}

// FetchConfig configures outbound HTTP.
type FetchConfig struct {
	TimeoutSec int    `yaml:"timeout_sec"`
	MaxBytes   int64  `yaml:"max_bytes"`
	UserAgent  string `yaml:"user_agent"`
}

// LLMConfig configures the chat-completion backend.
type LLMConfig struct {
	Endpoint   string `yaml:"endpoint"`
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// DefaultConfig returns sane defaults. The LLM endpoint has no default;
// summarization requires one.
func DefaultConfig() *Config {
	return &Config{
		Listen: ":8080",
		DBPath: "digest.db",
		Fetch: FetchConfig{
			TimeoutSec: 30,
			MaxBytes:   1 << 20,
			UserAgent:  "digest/1.0",
		},
		LLM: LLMConfig{
			Model:      "gpt-4o-mini",
			TimeoutSec: 60,
		},
		RecentLimit: 20,
		SearchLimit: 20,
	}
}

// LoadConfig reads and parses a YAML config file, merged over defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.Fetch.TimeoutSec <= 0 {
		return fmt.Errorf("fetch.timeout_sec must be > 0")
	}
	if c.Fetch.MaxBytes <= 0 {
		return fmt.Errorf("fetch.max_bytes must be > 0")
	}
	return nil
}

func (c *Config) defaults() {
	d := DefaultConfig()
	if c.Listen == "" {
		c.Listen = d.Listen
	}
	if c.DBPath == "" {
		c.DBPath = d.DBPath
	}
	if c.Fetch.TimeoutSec <= 0 {
		c.Fetch.TimeoutSec = d.Fetch.TimeoutSec
	}
	if c.Fetch.MaxBytes <= 0 {
		c.Fetch.MaxBytes = d.Fetch.MaxBytes
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = d.Fetch.UserAgent
	}
	if c.LLM.Model == "" {
		c.LLM.Model = d.LLM.Model
	}
	if c.LLM.TimeoutSec <= 0 {
		c.LLM.TimeoutSec = d.LLM.TimeoutSec
	}
	if c.RecentLimit <= 0 {
		c.RecentLimit = d.RecentLimit
	}
	if c.SearchLimit <= 0 {
		c.SearchLimit = d.SearchLimit
	}
}

func (c *Config) fetchConfig() fetch.Config {
	return fetch.Config{
		Timeout:   time.Duration(c.Fetch.TimeoutSec) * time.Second,
		MaxBytes:  c.Fetch.MaxBytes,
		UserAgent: c.Fetch.UserAgent,
	}
}

func (c *Config) llmConfig() llm.Config {
	return llm.Config{
		Endpoint: c.LLM.Endpoint,
		APIKey:   c.LLM.APIKey,
		Model:    c.LLM.Model,
		Timeout:  time.Duration(c.LLM.TimeoutSec) * time.Second,
	}
}
