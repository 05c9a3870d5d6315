// Package fsstore persists the identity record in a TOML file under the
// user's config directory. It is the default session store for desktop and
// CLI clients; server deployments use the Postgres adapter.
package fsstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/farfully/farfully/core"
)

const (
	// DefaultPath is where the session record lives unless overridden.
	DefaultPath = "~/.config/farfully/session.toml"

	// retention matches the browser client's cookie lifetime.
	retention = 7 * 24 * time.Hour
)

// Store reads and writes one session record at a fixed path.
type Store struct {
	path string
}

var _ core.SessionStore = (*Store)(nil)

// New builds a Store at path. An empty path selects DefaultPath. A leading
// ~/ expands to the user's home directory.
func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: expandPath(path)}
}

// sessionFile is the on-disk shape.
type sessionFile struct {
	Authenticated bool          `toml:"authenticated"`
	SavedAt       time.Time     `toml:"saved_at"`
	Profile       profileRecord `toml:"profile"`
}

type profileRecord struct {
	FID         int64  `toml:"fid"`
	Username    string `toml:"username"`
	DisplayName string `toml:"display_name"`
	PfpURL      string `toml:"pfp_url"`
}

// Load returns the persisted record, or (nil, nil) when the file is missing,
// malformed, expired, or marked signed out. The file is a cache; any state
// it cannot vouch for reads as absence, never as an error.
func (s *Store) Load() (*core.Profile, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, nil
	}

	var file sessionFile
	if err := toml.Unmarshal(raw, &file); err != nil {
		return nil, nil
	}

	if !file.Authenticated {
		return nil, nil
	}
	if file.SavedAt.IsZero() || time.Since(file.SavedAt) > retention {
		return nil, nil
	}

	profile := &core.Profile{
		FID:         file.Profile.FID,
		Username:    file.Profile.Username,
		DisplayName: file.Profile.DisplayName,
		PfpURL:      file.Profile.PfpURL,
	}
	if !profile.Valid() {
		return nil, nil
	}
	return profile, nil
}

// Save writes the record, creating parent directories as needed.
func (s *Store) Save(p *core.Profile) error {
	file := sessionFile{
		Authenticated: true,
		SavedAt:       time.Now(),
		Profile: profileRecord{
			FID:         p.FID,
			Username:    p.Username,
			DisplayName: p.DisplayName,
			PfpURL:      p.PfpURL,
		},
	}

	raw, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear removes the file. A missing file is already clear.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
