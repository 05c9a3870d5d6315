// farfully-relay serves the profile relay route. It holds the Neynar API key
// server-side so browser and desktop clients can enrich profiles without
// ever seeing the key.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	fiberadapter "github.com/farfully/farfully/adapters/fiber"
	"github.com/farfully/farfully/adapters/neynar"
	"github.com/farfully/farfully/config"
	"github.com/farfully/farfully/core"
)

func main() {
	configPath := flag.String("config", "", "path to relay.toml (default ~/.config/farfully/relay.toml)")
	flag.Parse()

	log, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(*configPath, log); err != nil {
		log.Fatal("relay exited", zap.Error(err))
	}
}

func run(configPath string, log *zap.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Neynar.APIKey == "" {
		log.Warn("no Neynar API key configured; lookups will fail until NEYNAR_API_KEY is set")
	}

	client, err := neynar.NewClient(cfg.Neynar.BaseURL, cfg.Neynar.APIKey)
	if err != nil {
		return err
	}

	adapter, err := fiberadapter.New(fiberadapter.Config{
		Lookup: neynar.NewDirectSource(client),
		Cache: core.NewInMemoryCache(core.CacheConfig{
			TTL:     cfg.Cache.TTL(),
			MaxSize: cfg.Cache.MaxSize,
		}),
		Logger:     log,
		RateWindow: cfg.Rate.Window(),
		RateLimit:  cfg.Rate.Limit,
	})
	if err != nil {
		return err
	}

	app := fiber.New()
	adapter.Register(app)

	log.Info("relay listening", zap.String("addr", cfg.Listen))
	return app.Listen(cfg.Listen)
}

func newLogger() (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	if os.Getenv("FARFULLY_DEBUG") != "" {
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zapConfig.Build()
}
