package fsstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/farfully/farfully/core"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "session.toml"))
}

// Requirement: a saved record round-trips through the file.
func TestStore_SaveLoad(t *testing.T) {
	store := tempStore(t)

	saved := &core.Profile{FID: 42, Username: "abhir", DisplayName: "Abhi Raheja"}
	if err := store.Save(saved); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded == nil || !loaded.Equal(saved) {
		t.Errorf("Load() = %#v, want %#v", loaded, saved)
	}
}

// Requirement: absence, corruption and expiry all read as signed out, never
// as an error.
func TestStore_LoadDegradesToAbsence(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, store *Store)
	}{
		{
			name:  "no file",
			setup: func(t *testing.T, store *Store) {},
		},
		{
			name: "not toml",
			setup: func(t *testing.T, store *Store) {
				if err := os.WriteFile(store.path, []byte("{not toml"), 0o600); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "expired record",
			setup: func(t *testing.T, store *Store) {
				file := sessionFile{
					Authenticated: true,
					SavedAt:       time.Now().Add(-8 * 24 * time.Hour),
					Profile:       profileRecord{FID: 42, Username: "abhir"},
				}
				writeSessionFile(t, store.path, file)
			},
		},
		{
			name: "marked signed out",
			setup: func(t *testing.T, store *Store) {
				file := sessionFile{
					Authenticated: false,
					SavedAt:       time.Now(),
					Profile:       profileRecord{FID: 42, Username: "abhir"},
				}
				writeSessionFile(t, store.path, file)
			},
		},
		{
			name: "record without fid",
			setup: func(t *testing.T, store *Store) {
				file := sessionFile{
					Authenticated: true,
					SavedAt:       time.Now(),
					Profile:       profileRecord{Username: "abhir"},
				}
				writeSessionFile(t, store.path, file)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			store := tempStore(t)
			test.setup(t, store)

			profile, err := store.Load()
			if err != nil {
				t.Fatalf("Load() error = %v, want nil", err)
			}
			if profile != nil {
				t.Errorf("Load() = %#v, want nil", profile)
			}
		})
	}
}

func writeSessionFile(t *testing.T, path string, file sessionFile) {
	t.Helper()
	raw, err := toml.Marshal(file)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}
}

// Requirement: Clear removes the record and is a no-op when nothing is
// stored.
func TestStore_Clear(t *testing.T) {
	store := tempStore(t)

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() with no file error = %v", err)
	}

	if err := store.Save(&core.Profile{FID: 42, Username: "abhir"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	if profile, _ := store.Load(); profile != nil {
		t.Errorf("Load() after Clear() = %#v, want nil", profile)
	}
}

// Requirement: clearing the credential file removes it and tolerates
// absence.
func TestCredentialFile_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signin-state.json")
	creds := NewCredentialFile(path)

	if err := creds.Clear(); err != nil {
		t.Fatalf("Clear() with no file error = %v", err)
	}

	if err := os.WriteFile(path, []byte(`{"token":"x"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := creds.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("credential file still exists after Clear()")
	}
}
