package fiber

import (
	"sync"
	"time"
)

// RateLimiter is a sliding-window counter keyed by an opaque string. The
// relay keys on ip+fid so one noisy client cannot exhaust the Neynar quota
// for everyone.
type RateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	limit  int
	seen   map[string][]time.Time

	now func() time.Time // test seam
}

func NewRateLimiter(window time.Duration, limit int) *RateLimiter {
	return &RateLimiter{
		window: window,
		limit:  limit,
		seen:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow reports whether another request under key fits in the window, and
// records it if so.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.seen[key][:0]
	for _, at := range l.seen[key] {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}

	if len(kept) >= l.limit {
		l.seen[key] = kept
		return false
	}

	l.seen[key] = append(kept, now)
	return true
}
