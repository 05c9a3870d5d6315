package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Requirement: a missing config file yields the defaults, not an error.
func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "relay.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Listen != "127.0.0.1:8787" {
		t.Errorf("Listen = %q, want default", cfg.Listen)
	}
	if cfg.Cache.TTL() != time.Minute || cfg.Rate.Limit != 5 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

// Requirement: file settings merge over the defaults; untouched keys keep
// their default values.
func TestLoad_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.toml")
	contents := `
listen = "0.0.0.0:9000"

[neynar]
api_key = "from-file"

[rate]
limit = 20
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Listen != "0.0.0.0:9000" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.Neynar.APIKey != "from-file" {
		t.Errorf("APIKey = %q", cfg.Neynar.APIKey)
	}
	if cfg.Rate.Limit != 20 {
		t.Errorf("Rate.Limit = %d", cfg.Rate.Limit)
	}
	if cfg.Cache.TTL() != time.Minute {
		t.Errorf("Cache.TTL() = %v, want default", cfg.Cache.TTL())
	}
}

// Requirement: a present but malformed file is an error.
func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.toml")
	if err := os.WriteFile(path, []byte("listen = [broken"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load() error = nil, want parse error")
	}
}

// Requirement: the environment overrides the file for the API key, with the
// farfully-prefixed variable taking precedence.
func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.toml")
	contents := `
[neynar]
api_key = "from-file"
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("NEYNAR_API_KEY", "from-env")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Neynar.APIKey != "from-env" {
		t.Errorf("APIKey = %q, want from-env", cfg.Neynar.APIKey)
	}

	t.Setenv("FARFULLY_NEYNAR_API_KEY", "from-prefixed-env")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Neynar.APIKey != "from-prefixed-env" {
		t.Errorf("APIKey = %q, want from-prefixed-env", cfg.Neynar.APIKey)
	}
}
