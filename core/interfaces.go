package core

import (
	"context"
	"time"
)

// Ports define interfaces for external dependencies

// ============================================
// SESSION STORE PORT (durable identity mirror)
// ============================================

// SessionStore persists the minimal identity record so a session survives
// restarts. The stored copy is a cache, never authoritative.
//
// Load returns (nil, nil) when no record is present. Malformed or expired
// data counts as absence; implementations must not propagate parse errors.
type SessionStore interface {
	Load() (*Profile, error)
	Save(p *Profile) error
	Clear() error
}

// ============================================
// SIGN-IN PORT (live session, consumed only)
// ============================================

// SignInSource reports the state of the external Farcaster sign-in provider.
// Farfully consumes it and never writes to it.
//
// Session returns whether a live session exists and the profile it carries,
// which may be partial. Subscribe registers a change listener and returns an
// unsubscribe function; listeners must not call back into the engine
// synchronously.
type SignInSource interface {
	Session() (authenticated bool, profile *Profile)
	Subscribe(fn func()) (cancel func())
}

// CredentialCache is the sign-in provider's locally cached credential state,
// cleared on sign-out. The provider owns the contents.
type CredentialCache interface {
	Clear() error
}

// ============================================
// PROFILE SOURCE PORT (enrichment endpoints)
// ============================================

// ProfileSource fetches a rich profile for a fid from one backing endpoint.
// Fetch must honor ctx cancellation and return an error for any non-2xx
// status, malformed payload or missing credential.
type ProfileSource interface {
	Name() string
	Fetch(ctx context.Context, fid int64) (*RichProfile, error)
}

// ============================================
// CACHE PORT
// ============================================

// ProfileCache defines profile caching operations, keyed by fid.
type ProfileCache interface {
	Get(fid int64) (*RichProfile, error)
	Set(fid int64, profile *RichProfile) error
	Delete(fid int64) error
	Clear() error
}

// CacheWithStats extends ProfileCache with statistics tracking
type CacheWithStats interface {
	ProfileCache
	Stats() CacheStats
}

// CacheConfig configures cache behavior
type CacheConfig struct {
	TTL     time.Duration
	MaxSize int
}

// CacheStats tracks cache performance metrics
type CacheStats struct {
	Hits      int64         `json:"hits"`
	Misses    int64         `json:"misses"`
	Sets      int64         `json:"sets"`
	Deletes   int64         `json:"deletes"`
	Evictions int64         `json:"evictions"`
	Size      int           `json:"size"`
	TTL       time.Duration `json:"ttl"`
}
