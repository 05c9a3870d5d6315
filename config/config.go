// Package config loads the relay service configuration from a TOML file
// with environment overrides for secrets.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is where the relay looks for its config unless told otherwise.
const DefaultPath = "~/.config/farfully/relay.toml"

// Config holds the relay service settings.
type Config struct {
	// Listen is the address the relay binds to.
	Listen string `toml:"listen"`

	Neynar Neynar `toml:"neynar"`
	Cache  Cache  `toml:"cache"`
	Rate   Rate   `toml:"rate"`
}

// Neynar holds upstream API settings. APIKey may be left empty in the file
// and provided via NEYNAR_API_KEY or FARFULLY_NEYNAR_API_KEY instead.
type Neynar struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
}

// Cache tunes the relay's per-fid response cache.
type Cache struct {
	TTLSeconds int `toml:"ttl_seconds"`
	MaxSize    int `toml:"max_size"`
}

// TTL returns the configured lifetime as a duration.
func (c Cache) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Rate tunes the per ip+fid sliding-window limiter.
type Rate struct {
	WindowSeconds int `toml:"window_seconds"`
	Limit         int `toml:"limit"`
}

// Window returns the configured window as a duration.
func (r Rate) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

// Default returns the built-in settings: localhost bind, public Neynar API,
// one minute cache, 5 requests per minute.
func Default() Config {
	return Config{
		Listen: "127.0.0.1:8787",
		Cache: Cache{
			TTLSeconds: 60,
			MaxSize:    500,
		},
		Rate: Rate{
			WindowSeconds: 60,
			Limit:         5,
		},
	}
}

// Load reads the config at path, merging file settings over the defaults. A
// missing file is fine; the defaults plus environment overrides apply. A
// present but malformed file is an error, not a silent fallback.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath
	}
	path = expandPath(path)

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// fall through to env overrides
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if key := os.Getenv("FARFULLY_NEYNAR_API_KEY"); key != "" {
		cfg.Neynar.APIKey = key
	} else if key := os.Getenv("NEYNAR_API_KEY"); key != "" {
		cfg.Neynar.APIKey = key
	}
	if listen := os.Getenv("FARFULLY_LISTEN"); listen != "" {
		cfg.Listen = listen
	}
}

func expandPath(path string) string {
	if len(path) > 1 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return home + path[1:]
		}
	}
	return path
}
