package farfully

import (
	"time"

	"go.uber.org/zap"

	"github.com/farfully/farfully/adapters/fsstore"
	"github.com/farfully/farfully/core"
	"github.com/farfully/farfully/services"
)

// interfaces
type (
	SessionStore    = core.SessionStore
	SignInSource    = core.SignInSource
	CredentialCache = core.CredentialCache

	ProfileSource = core.ProfileSource

	ProfileCache   = core.ProfileCache
	CacheWithStats = core.CacheWithStats
)

// structs
type (
	Profile     = core.Profile
	RichProfile = core.RichProfile
	Location    = core.Location

	Snapshot      = core.Snapshot
	IdentityState = core.IdentityState

	CacheConfig = core.CacheConfig
	CacheStats  = core.CacheStats
)

type Phase = core.Phase

const (
	PhaseSignedOut = core.PhaseSignedOut
	PhaseBasic     = core.PhaseBasic
	PhaseEnriching = core.PhaseEnriching
	PhaseResolved  = core.PhaseResolved
)

// Constructors & helpers (convenience re-exports)
var (
	NewIdentityState = core.NewIdentityState
	NewInMemoryCache = core.NewInMemoryCache
)

var (
	ErrUserNotFound  = core.ErrUserNotFound
	ErrMissingFID    = core.ErrMissingFID
	ErrCacheNotFound = core.ErrCacheNotFound
)

var (
	ErrSignInRequired   = core.ErrSignInRequired
	ErrNoProfileSources = core.ErrNoProfileSources
)

// Config assembles a Farfully engine. SignIn and at least one profile
// source are required; everything else has a sensible default.
type Config struct {
	// SignIn is the external Farcaster sign-in provider to observe.
	SignIn core.SignInSource

	// Sources is the ordered enrichment fallback chain.
	Sources []core.ProfileSource

	// Store persists the identity record across restarts. Defaults to the
	// TOML file under the user's config directory.
	Store core.SessionStore

	// ProviderCache is the sign-in provider's cached credential state,
	// cleared on sign-out. Defaults to the provider state file.
	ProviderCache core.CredentialCache

	Logger         *zap.Logger
	AttemptTimeout time.Duration
}

// Farfully wires the identity state and the reconciler behind one handle.
type Farfully struct {
	State      *core.IdentityState
	Reconciler *services.Reconciler
}

func New(config Config) (*Farfully, error) {
	if config.SignIn == nil {
		return nil, ErrSignInRequired
	}
	if len(config.Sources) == 0 {
		return nil, ErrNoProfileSources
	}

	// Set Defaults

	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}

	store := config.Store
	if store == nil {
		store = fsstore.New("")
	}

	providerCache := config.ProviderCache
	if providerCache == nil {
		providerCache = fsstore.NewCredentialFile("")
	}

	state := core.NewIdentityState()
	resolver := services.NewResolver(config.Sources, config.AttemptTimeout, log)
	reconciler := services.NewReconciler(config.SignIn, store, state, resolver, providerCache, log)

	return &Farfully{
		State:      state,
		Reconciler: reconciler,
	}, nil
}

// Start reconciles once and begins following sign-in changes.
func (f *Farfully) Start() {
	f.Reconciler.Start()
}

// Stop detaches from the sign-in provider. The state keeps its last value.
func (f *Farfully) Stop() {
	f.Reconciler.Stop()
}

// SignOut clears the persisted session, the provider's credential cache and
// the identity state.
func (f *Farfully) SignOut() {
	f.Reconciler.SignOut()
}

// CurrentUser returns the richest record held for the signed-in user, or
// nil when signed out.
func (f *Farfully) CurrentUser() *RichProfile {
	return f.State.Snapshot().User()
}

// IsAuthenticated reports whether a user record is held.
func (f *Farfully) IsAuthenticated() bool {
	return f.State.Snapshot().Authenticated()
}

// Subscribe registers fn to run after every state change and returns an
// unsubscribe function.
func (f *Farfully) Subscribe(fn func(Snapshot)) (cancel func()) {
	return f.State.Subscribe(fn)
}
