package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/farfully/farfully/core"
)

const defaultAttemptTimeout = 5 * time.Second

// Resolver obtains a rich profile for a fid by trying an ordered list of
// data sources, stopping at the first structurally valid record.
//
// Sources are best-effort: a failing source is logged and skipped, and only
// exhausting the whole list is an error. The first success short-circuits
// the remaining sources, so no further network calls are made.
type Resolver struct {
	sources []core.ProfileSource
	timeout time.Duration
	log     *zap.Logger
}

func NewResolver(sources []core.ProfileSource, attemptTimeout time.Duration, log *zap.Logger) *Resolver {
	if attemptTimeout <= 0 {
		attemptTimeout = defaultAttemptTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{sources: sources, timeout: attemptTimeout, log: log}
}

// Resolve returns the first valid profile any source yields. The returned
// error is a *core.ResolutionError carrying every per-source failure, and is
// only non-nil when all sources failed.
func (r *Resolver) Resolve(ctx context.Context, fid int64) (*core.RichProfile, error) {
	attempts := make([]*core.SourceError, 0, len(r.sources))

	for _, source := range r.sources {
		profile, err := r.attempt(ctx, source, fid)
		if err != nil {
			r.log.Warn("profile source failed",
				zap.String("source", source.Name()),
				zap.Int64("fid", fid),
				zap.Error(err))
			attempts = append(attempts, &core.SourceError{Source: source.Name(), Err: err})
			continue
		}

		r.log.Debug("profile resolved",
			zap.String("source", source.Name()),
			zap.Int64("fid", fid))
		return profile, nil
	}

	return nil, &core.ResolutionError{FID: fid, Attempts: attempts}
}

func (r *Resolver) attempt(ctx context.Context, source core.ProfileSource, fid int64) (*core.RichProfile, error) {
	// Each attempt gets its own deadline so a hung source cannot delay the
	// fallback to the next one.
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	profile, err := source.Fetch(ctx, fid)
	if err != nil {
		return nil, err
	}
	if profile == nil || profile.FID <= 0 {
		return nil, core.ErrMissingFID
	}
	return profile, nil
}
