package digest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	// WHAT: YAML values merge over defaults.
	dir := t.TempDir()
	path := filepath.Join(dir, "digest.yaml")
	yaml := `
listen: ":9090"
db_path: "/tmp/test.db"
llm:
  endpoint: "http://localhost:11434"
  model: "llama3"
fetch:
  timeout_sec: 10
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Listen != ":9090" || cfg.DBPath != "/tmp/test.db" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.LLM.Endpoint != "http://localhost:11434" || cfg.LLM.Model != "llama3" {
		t.Errorf("llm = %+v", cfg.LLM)
	}
	if cfg.Fetch.TimeoutSec != 10 {
		t.Errorf("fetch timeout = %d", cfg.Fetch.TimeoutSec)
	}
	// Untouched fields keep defaults.
	if cfg.Fetch.MaxBytes != 1<<20 || cfg.SearchLimit != 20 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	os.WriteFile(path, []byte(`db_path: ""`), 0o644)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected validation error for empty db_path")
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestConfigDefaults(t *testing.T) {
	var c Config
	c.defaults()
	if c.Listen != ":8080" || c.DBPath != "digest.db" || c.LLM.Model != "gpt-4o-mini" {
		t.Errorf("defaults = %+v", c)
	}
}
