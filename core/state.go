package core

import (
	"sync"
	"time"
)

// Phase tracks where the reconciler is for the current identity session.
type Phase int

const (
	PhaseSignedOut Phase = iota
	PhaseBasic
	PhaseEnriching
	PhaseResolved
)

func (p Phase) String() string {
	switch p {
	case PhaseSignedOut:
		return "signed-out"
	case PhaseBasic:
		return "basic"
	case PhaseEnriching:
		return "enriching"
	case PhaseResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of the current identity at a point in time.
// Returned by value with defensive copies; safe to retain.
type Snapshot struct {
	Phase     Phase
	Basic     *Profile
	Rich      *RichProfile
	UpdatedAt time.Time
}

// Authenticated reports whether any identity record is held.
func (s Snapshot) Authenticated() bool {
	return s.Rich != nil || s.Basic != nil
}

// User returns the best record currently held: the rich profile when
// resolved, otherwise the plain record promoted into an otherwise-empty
// RichProfile, otherwise nil. Authenticated() is true exactly when User()
// is non-nil.
func (s Snapshot) User() *RichProfile {
	if s.Rich != nil {
		return s.Rich.Clone()
	}
	if s.Basic != nil {
		return &RichProfile{Profile: *s.Basic}
	}
	return nil
}

// IdentityState is the single source of truth for the current user.
//
// Only the reconciler writes to it; everything else reads snapshots or
// subscribes. Subscribers are notified outside the lock and must treat the
// snapshot as read-only.
type IdentityState struct {
	mu   sync.RWMutex
	snap Snapshot
	subs map[int]func(Snapshot)
	next int
}

func NewIdentityState() *IdentityState {
	return &IdentityState{
		snap: Snapshot{Phase: PhaseSignedOut},
		subs: make(map[int]func(Snapshot)),
	}
}

// Snapshot returns a copy of the current state.
func (s *IdentityState) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// Subscribe registers a listener invoked on every state change. The returned
// function cancels the subscription and is safe to call more than once.
func (s *IdentityState) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// SetBasic installs a plain identity record and drops any rich profile it
// held before. Callers must not use it to downgrade a resolved fid; the
// reconciler checks that before calling.
func (s *IdentityState) SetBasic(p *Profile) {
	s.apply(func(snap *Snapshot) {
		record := *p
		snap.Basic = &record
		snap.Rich = nil
		snap.Phase = PhaseBasic
	})
}

// SetRich installs a resolved profile for the current identity.
func (s *IdentityState) SetRich(r *RichProfile) {
	s.apply(func(snap *Snapshot) {
		snap.Rich = r.Clone()
		record := r.Profile
		snap.Basic = &record
		snap.Phase = PhaseResolved
	})
}

// MarkEnriching flags that a resolver call is in flight for the held record.
func (s *IdentityState) MarkEnriching() {
	s.apply(func(snap *Snapshot) {
		snap.Phase = PhaseEnriching
	})
}

// MarkBasic returns the phase to basic after a failed enrichment, keeping
// whatever records are held.
func (s *IdentityState) MarkBasic() {
	s.apply(func(snap *Snapshot) {
		snap.Phase = PhaseBasic
	})
}

// Clear drops the identity entirely. Used on sign-out and when no session
// source holds a usable record.
func (s *IdentityState) Clear() {
	s.apply(func(snap *Snapshot) {
		*snap = Snapshot{Phase: PhaseSignedOut}
	})
}

func (s *IdentityState) apply(mutate func(*Snapshot)) {
	s.mu.Lock()
	mutate(&s.snap)
	s.snap.UpdatedAt = time.Now()
	snap := s.copyLocked()
	listeners := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

func (s *IdentityState) copyLocked() Snapshot {
	snap := s.snap
	if snap.Basic != nil {
		record := *snap.Basic
		snap.Basic = &record
	}
	snap.Rich = snap.Rich.Clone()
	return snap
}
