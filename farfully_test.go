package farfully

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/farfully/farfully/core"
	"github.com/farfully/farfully/services"
)

func testSource(fid int64) *services.FakeProfileSource {
	return services.NewFakeProfileSource("neynar", &core.RichProfile{
		Profile: core.Profile{
			FID:      fid,
			Username: "abhir",
		},
		FollowerCount: 410,
	}, nil, nil)
}

// Requirement: New validates its required dependencies.
func TestNew_Validation(t *testing.T) {
	signIn := services.NewFakeSignInSource()
	sources := []core.ProfileSource{testSource(42)}

	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "missing sign-in source",
			config:  Config{Sources: sources},
			wantErr: ErrSignInRequired,
		},
		{
			name:    "missing profile sources",
			config:  Config{SignIn: signIn},
			wantErr: ErrNoProfileSources,
		},
		{
			name: "sign-in and sources are enough",
			config: Config{
				SignIn:  signIn,
				Sources: sources,
				Store:   services.NewFakeSessionStore(),
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			engine, err := New(test.config)
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Errorf("New() error = %v, want %v", err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if engine == nil || engine.State == nil || engine.Reconciler == nil {
				t.Fatalf("New() = %#v, want wired engine", engine)
			}
		})
	}
}

// Requirement: the full flow works through the facade: start, sign-in event,
// enrichment, snapshot access, sign-out.
func TestFarfully_EndToEnd(t *testing.T) {
	signIn := services.NewFakeSignInSource()
	store := services.NewFakeSessionStore()
	creds := &services.FakeCredentialCache{}

	engine, err := New(Config{
		SignIn:        signIn,
		Sources:       []core.ProfileSource{testSource(42)},
		Store:         store,
		ProviderCache: creds,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var notifications atomic.Int64
	cancel := engine.Subscribe(func(Snapshot) { notifications.Add(1) })
	defer cancel()

	engine.Start()
	defer engine.Stop()

	if engine.IsAuthenticated() {
		t.Fatal("IsAuthenticated() = true before sign-in")
	}

	signIn.SetSession(true, &core.Profile{FID: 42, Username: "abhir"})

	// The subscription handler reconciles on its own goroutine.
	deadline := time.Now().Add(2 * time.Second)
	for engine.State.Snapshot().Phase != PhaseResolved {
		if time.Now().After(deadline) {
			t.Fatalf("Phase = %v, never reached %v", engine.State.Snapshot().Phase, PhaseResolved)
		}
		time.Sleep(5 * time.Millisecond)
	}

	user := engine.CurrentUser()
	if user == nil || user.FID != 42 || user.FollowerCount != 410 {
		t.Fatalf("CurrentUser() = %#v, want enriched fid 42", user)
	}
	if !engine.IsAuthenticated() {
		t.Error("IsAuthenticated() = false with a held user")
	}
	if stored, _ := store.Load(); stored == nil || stored.FID != 42 {
		t.Errorf("store record = %#v, want fid 42", stored)
	}
	if notifications.Load() == 0 {
		t.Error("subscriber was never notified")
	}

	engine.SignOut()
	if engine.CurrentUser() != nil || engine.IsAuthenticated() {
		t.Error("identity still held after SignOut()")
	}
	if record, _ := store.Load(); record != nil {
		t.Errorf("store record = %#v after SignOut(), want nil", record)
	}
	if creds.Clears() != 1 {
		t.Errorf("credential cache cleared %d times, want 1", creds.Clears())
	}
}
