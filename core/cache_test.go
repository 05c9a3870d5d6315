package core

import (
	"errors"
	"testing"
	"time"
)

// Requirement: Get returns what Set stored, as an independent copy.
func TestInMemoryCache_SetGet(t *testing.T) {
	cache := NewInMemoryCache(CacheConfig{TTL: time.Minute, MaxSize: 10})

	if err := cache.Set(42, richProfile(42)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := cache.Get(42)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.FID != 42 || got.FollowerCount != 410 {
		t.Errorf("Get() = %#v", got)
	}

	got.Username = "mallory"
	again, _ := cache.Get(42)
	if again.Username != "abhir" {
		t.Error("cache handed out shared state")
	}
}

// Requirement: a missing fid is ErrCacheNotFound, never a nil profile.
func TestInMemoryCache_Miss(t *testing.T) {
	cache := NewInMemoryCache(CacheConfig{})

	if _, err := cache.Get(404); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("Get() error = %v, want ErrCacheNotFound", err)
	}
}

// Requirement: entries older than the TTL count as misses.
func TestInMemoryCache_Expiry(t *testing.T) {
	cache := NewInMemoryCache(CacheConfig{TTL: 10 * time.Millisecond, MaxSize: 10})
	if err := cache.Set(42, richProfile(42)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if _, err := cache.Get(42); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("Get() after TTL error = %v, want ErrCacheNotFound", err)
	}
	if cache.Len() != 0 {
		t.Errorf("Len() = %d after expiry eviction, want 0", cache.Len())
	}
}

// Requirement: the cache never grows beyond MaxSize.
func TestInMemoryCache_Eviction(t *testing.T) {
	cache := NewInMemoryCache(CacheConfig{TTL: time.Minute, MaxSize: 3})

	for fid := int64(1); fid <= 5; fid++ {
		if err := cache.Set(fid, richProfile(fid)); err != nil {
			t.Fatalf("Set(%d) error = %v", fid, err)
		}
	}

	if cache.Len() > 3 {
		t.Errorf("Len() = %d, want <= 3", cache.Len())
	}
	if evictions := cache.Stats().Evictions; evictions != 2 {
		t.Errorf("Stats().Evictions = %d, want 2", evictions)
	}
}

// Requirement: Delete and Clear are idempotent and tracked in stats.
func TestInMemoryCache_DeleteClear(t *testing.T) {
	cache := NewInMemoryCache(CacheConfig{TTL: time.Minute, MaxSize: 10})
	_ = cache.Set(42, richProfile(42))
	_ = cache.Set(7, richProfile(7))

	if err := cache.Delete(42); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := cache.Delete(42); err != nil {
		t.Fatalf("second Delete() error = %v", err)
	}
	if cache.Stats().Deletes != 1 {
		t.Errorf("Stats().Deletes = %d, want 1 (second delete was a no-op)", cache.Stats().Deletes)
	}

	if err := cache.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if cache.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", cache.Len())
	}
}

// Requirement: hits and misses are counted.
func TestInMemoryCache_Stats(t *testing.T) {
	cache := NewInMemoryCache(CacheConfig{TTL: time.Minute, MaxSize: 10})
	_ = cache.Set(42, richProfile(42))

	_, _ = cache.Get(42)
	_, _ = cache.Get(42)
	_, _ = cache.Get(404)

	stats := cache.Stats()
	if stats.Hits != 2 {
		t.Errorf("Hits = %d, want 2", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
	if stats.Sets != 1 {
		t.Errorf("Sets = %d, want 1", stats.Sets)
	}
	if stats.TTL != time.Minute {
		t.Errorf("TTL = %v, want 1m", stats.TTL)
	}
}
