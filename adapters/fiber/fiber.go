// Package fiber serves the farfully relay route: a small HTTP surface that
// holds the Neynar key server-side so browser clients never see it. Responses
// are cached per fid and callers are rate limited per ip+fid.
package fiber

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/farfully/farfully/core"
	"github.com/farfully/farfully/pkg/crypto"
)

const (
	// DefaultBasePath is where the relay route is mounted.
	DefaultBasePath = "/api/neynar"

	defaultCacheTTL   = time.Minute
	defaultRateWindow = time.Minute
	defaultRateLimit  = 5
)

var ErrLookupRequired = errors.New("a profile lookup source is required")

// Adapter mounts the relay endpoints on a fiber application.
type Adapter struct {
	lookup   core.ProfileSource
	cache    core.ProfileCache
	limiter  *RateLimiter
	log      *zap.Logger
	ids      *crypto.NanoIDGenerator
	basePath string
}

// Config tunes the relay surface. Zero values pick the defaults: a one
// minute response cache and 5 requests per minute per ip+fid.
type Config struct {
	Lookup     core.ProfileSource
	Cache      core.ProfileCache
	Logger     *zap.Logger
	BasePath   string
	CacheTTL   time.Duration
	RateWindow time.Duration
	RateLimit  int
}

func New(cfg Config) (*Adapter, error) {
	if cfg.Lookup == nil {
		return nil, ErrLookupRequired
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.BasePath == "" {
		cfg.BasePath = DefaultBasePath
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.RateWindow <= 0 {
		cfg.RateWindow = defaultRateWindow
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.Cache == nil {
		cfg.Cache = core.NewInMemoryCache(core.CacheConfig{TTL: cfg.CacheTTL})
	}

	ids, err := crypto.NewNanoID()
	if err != nil {
		return nil, err
	}

	return &Adapter{
		lookup:   cfg.Lookup,
		cache:    cfg.Cache,
		limiter:  NewRateLimiter(cfg.RateWindow, cfg.RateLimit),
		log:      cfg.Logger,
		ids:      ids,
		basePath: cfg.BasePath,
	}, nil
}

// Register mounts the relay routes on the application.
func (a *Adapter) Register(app *fiber.App) {
	group := app.Group(a.basePath)
	group.Get("/profile", a.handleProfile)
}
