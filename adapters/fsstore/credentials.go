package fsstore

import (
	"errors"
	"fmt"
	"os"

	"github.com/farfully/farfully/core"
)

// DefaultCredentialPath is where the sign-in provider drops its cached
// auth state.
const DefaultCredentialPath = "~/.config/farfully/signin-state.json"

// CredentialFile clears the sign-in provider's cached credential file on
// sign-out. The provider owns the file's contents; farfully only ever
// removes it.
type CredentialFile struct {
	path string
}

var _ core.CredentialCache = (*CredentialFile)(nil)

func NewCredentialFile(path string) *CredentialFile {
	if path == "" {
		path = DefaultCredentialPath
	}
	return &CredentialFile{path: expandPath(path)}
}

func (c *CredentialFile) Clear() error {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear credential cache: %w", err)
	}
	return nil
}
