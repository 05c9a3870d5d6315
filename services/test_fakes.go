package services

import (
	"context"
	"sync"

	"github.com/farfully/farfully/core"
)

// FakeSignInSource is a test-only fake implementing core.SignInSource.
// SetSession updates the reported session and notifies subscribers.
type FakeSignInSource struct {
	mu            sync.Mutex
	authenticated bool
	profile       *core.Profile
	listeners     map[int]func()
	next          int
}

func NewFakeSignInSource() *FakeSignInSource {
	return &FakeSignInSource{listeners: make(map[int]func())}
}

func (f *FakeSignInSource) Session() (bool, *core.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authenticated, f.profile
}

func (f *FakeSignInSource) Subscribe(fn func()) func() {
	f.mu.Lock()
	id := f.next
	f.next++
	f.listeners[id] = fn
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}
}

func (f *FakeSignInSource) SetSession(authenticated bool, profile *core.Profile) {
	f.mu.Lock()
	f.authenticated = authenticated
	f.profile = profile
	listeners := make([]func(), 0, len(f.listeners))
	for _, fn := range f.listeners {
		listeners = append(listeners, fn)
	}
	f.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// FakeSessionStore is a test-only fake implementing core.SessionStore.
// It keeps the record in memory and exposes error fields plus call counters
// for behavior injection.
type FakeSessionStore struct {
	mu       sync.Mutex
	record   *core.Profile
	loadErr  error
	saveErr  error
	clearErr error
	saves    int
	clears   int
}

func NewFakeSessionStore() *FakeSessionStore {
	return &FakeSessionStore{}
}

func (f *FakeSessionStore) Load() (*core.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.record == nil {
		return nil, nil
	}
	record := *f.record
	return &record, nil
}

func (f *FakeSessionStore) Save(p *core.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	record := *p
	f.record = &record
	return nil
}

func (f *FakeSessionStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	if f.clearErr != nil {
		return f.clearErr
	}
	f.record = nil
	return nil
}

func (f *FakeSessionStore) Seed(p *core.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record = p
}

func (f *FakeSessionStore) Saves() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

// CallRecorder tracks the order of fetches across several fake sources so
// tests can assert the fallback sequence.
type CallRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (c *CallRecorder) record(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, name)
}

func (c *CallRecorder) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	dup := make([]string, len(c.calls))
	copy(dup, c.calls)
	return dup
}

// FakeProfileSource is a test-only fake implementing core.ProfileSource.
// Configure either a profile or an error; Stall, when set, blocks Fetch
// until the channel is closed.
type FakeProfileSource struct {
	name     string
	profile  *core.RichProfile
	err      error
	recorder *CallRecorder

	Stall chan struct{}

	mu    sync.Mutex
	calls int
}

func NewFakeProfileSource(name string, profile *core.RichProfile, err error, recorder *CallRecorder) *FakeProfileSource {
	return &FakeProfileSource{name: name, profile: profile, err: err, recorder: recorder}
}

func (f *FakeProfileSource) Name() string { return f.name }

func (f *FakeProfileSource) Fetch(ctx context.Context, fid int64) (*core.RichProfile, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.recorder != nil {
		f.recorder.record(f.name)
	}

	if f.Stall != nil {
		select {
		case <-f.Stall:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if f.err != nil {
		return nil, f.err
	}
	return f.profile.Clone(), nil
}

func (f *FakeProfileSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// FakeCredentialCache is a test-only fake implementing core.CredentialCache.
type FakeCredentialCache struct {
	mu     sync.Mutex
	clears int
}

func (f *FakeCredentialCache) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	return nil
}

func (f *FakeCredentialCache) Clears() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clears
}
