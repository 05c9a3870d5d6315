package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/farfully/farfully/core"
)

// Reconciler merges the live sign-in session, the persisted session and the
// enrichment resolver into the single current-user record held by the
// identity state. It is the only writer to the state and the session store.
//
// The transition rules, per identity change event:
//
//  1. Pick a candidate record: the live session when it carries a fid,
//     otherwise the persisted record, otherwise none.
//  2. No candidate: clear the state.
//  3. Candidate: install the plain record synchronously, so readers never
//     wait on enrichment, then resolve the rich profile.
//  4. A rich profile already held for the candidate fid stays; it is never
//     replaced by a plainer record and the resolver is not re-invoked.
//  5. Resolution failure keeps the plain record; nothing surfaces to readers.
type Reconciler struct {
	signIn   core.SignInSource
	store    core.SessionStore
	state    *core.IdentityState
	resolver *Resolver
	creds    core.CredentialCache // optional
	log      *zap.Logger

	mu         sync.Mutex
	current    int64 // fid the state currently describes, 0 when signed out
	inflight   int64 // fid with an enrichment call in flight, 0 when idle
	lastFailed int64 // fid whose last resolution exhausted all sources
	cancelSub  func()
}

func NewReconciler(signIn core.SignInSource, store core.SessionStore, state *core.IdentityState, resolver *Resolver, creds core.CredentialCache, log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{
		signIn:   signIn,
		store:    store,
		state:    state,
		resolver: resolver,
		creds:    creds,
		log:      log,
	}
}

// State exposes the identity state for read-only subscription.
func (r *Reconciler) State() *core.IdentityState {
	return r.state
}

// Start runs an initial reconciliation and subscribes to sign-in changes.
// Subsequent notifications reconcile on their own goroutine because
// Reconcile blocks while an enrichment call is in flight.
func (r *Reconciler) Start() {
	r.mu.Lock()
	if r.cancelSub == nil {
		r.cancelSub = r.signIn.Subscribe(func() {
			go r.Reconcile(context.Background())
		})
	}
	r.mu.Unlock()

	r.Reconcile(context.Background())
}

// Stop cancels the sign-in subscription. The state keeps its last value.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	cancel := r.cancelSub
	r.cancelSub = nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Reconcile runs one pass of the transition rules. It is safe to call from
// any goroutine: state transitions serialize on an internal mutex and at
// most one enrichment call is in flight per fid. Calling it again with no
// new events is a no-op.
func (r *Reconciler) Reconcile(ctx context.Context) {
	candidate := r.candidate()

	r.mu.Lock()
	if !candidate.Valid() {
		r.current = 0
		r.lastFailed = 0
		r.mu.Unlock()
		r.state.Clear()
		return
	}

	fid := candidate.FID
	snap := r.state.Snapshot()

	// Already enriched for this fid: nothing to do. In particular the rich
	// record must not be replaced by the plainer candidate.
	if snap.Rich != nil && snap.Rich.FID == fid {
		r.current = fid
		r.mu.Unlock()
		return
	}

	changed := r.current != fid || !candidate.Equal(snap.Basic)
	if changed {
		r.state.SetBasic(candidate)
		r.lastFailed = 0
		r.log.Debug("identity updated", zap.Int64("fid", fid))
	}
	r.current = fid

	if r.inflight == fid {
		// A resolver call for this fid is already running; its result will
		// land when it returns.
		r.mu.Unlock()
		return
	}
	if r.lastFailed == fid {
		// All sources were exhausted for this exact record. Do not retry
		// until an actual identity change arrives.
		r.mu.Unlock()
		return
	}
	r.inflight = fid
	r.state.MarkEnriching()
	r.mu.Unlock()

	r.enrich(ctx, fid)
}

// SignOut clears every trace of the current identity: the durable mirror,
// the provider's cached credential and the global state. A fresh sign-in
// starts a new session from scratch; any in-flight enrichment result for the
// old identity is discarded when it lands.
func (r *Reconciler) SignOut() {
	r.mu.Lock()
	r.current = 0
	r.lastFailed = 0
	r.mu.Unlock()

	if err := r.store.Clear(); err != nil {
		r.log.Warn("session store clear failed", zap.Error(err))
	}
	if r.creds != nil {
		if err := r.creds.Clear(); err != nil {
			r.log.Warn("credential cache clear failed", zap.Error(err))
		}
	}
	r.state.Clear()
	r.log.Info("signed out")
}

// candidate computes the identity record to hold. The live session wins
// whenever it carries a usable fid; the persisted record is only a fallback
// for reload survival.
func (r *Reconciler) candidate() *core.Profile {
	if authenticated, profile := r.signIn.Session(); authenticated && profile.Valid() {
		r.writeThrough(profile)
		return profile
	}

	persisted, err := r.store.Load()
	if err != nil {
		// A broken mirror is treated as no session; it must never block
		// sign-in or surface to readers.
		r.log.Debug("session store read failed", zap.Error(err))
		return nil
	}
	if persisted.Valid() {
		return persisted
	}
	return nil
}

// writeThrough mirrors a live session record to the durable store when it
// differs from what the store already holds.
func (r *Reconciler) writeThrough(p *core.Profile) {
	persisted, err := r.store.Load()
	if err == nil && p.Equal(persisted) {
		return
	}
	if err := r.store.Save(p); err != nil {
		r.log.Warn("session write-through failed", zap.Error(err))
	}
}

// enrich performs the blocking resolver call and commits the result only if
// the identity has not moved on in the meantime.
func (r *Reconciler) enrich(ctx context.Context, fid int64) {
	profile, err := r.resolver.Resolve(ctx, fid)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.inflight == fid {
		r.inflight = 0
	}

	if r.current != fid {
		// The session changed away while the call was in flight. The stale
		// result must not overwrite the newer identity.
		r.log.Debug("discarding stale enrichment result",
			zap.Int64("fid", fid),
			zap.Int64("current", r.current))
		return
	}

	if err != nil {
		// Best-effort enrichment: keep the plain record and retry only on
		// the next identity change event.
		r.log.Warn("profile enrichment failed", zap.Int64("fid", fid), zap.Error(err))
		r.lastFailed = fid
		r.state.MarkBasic()
		return
	}

	r.state.SetRich(profile)
	r.log.Debug("profile enriched", zap.Int64("fid", fid))
}
