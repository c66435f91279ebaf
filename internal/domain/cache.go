package domain

import (
	"context"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
	"narrow.dev/pkg/narrow/internal/adapter"
	m "narrow.dev/pkg/narrow/internal/model"
)

// DefaultCacheTTL bounds how long a cached result is trusted.
const DefaultCacheTTL = 24 * time.Hour

var cacheEncMode = mustEncMode()

func mustEncMode() cbor.EncMode {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("cache: CBOR encoder initialization failed: " + err.Error())
	}

	return mode
}

// CacheOption configures a ResultCache.
type CacheOption func(*cacheConfig)

type cacheConfig struct {
	now func() time.Time
}

// WithCacheClock replaces the clock used for TTL checks.
func WithCacheClock(now func() time.Time) CacheOption {
	return func(c *cacheConfig) {
		c.now = now
	}
}

// ResultCache stores serialized copies of results keyed by an opaque lookup
// key. It never fails its caller: store and codec errors are logged and
// degrade to a miss or a dropped write. A nil cache is a valid, disabled cache.
type ResultCache[T any] struct {
	store adapter.CacheStore
	ttl   time.Duration
	now   func() time.Time
}

// NewResultCache wraps store with TTL handling. A non-positive ttl disables expiry.
func NewResultCache[T any](store adapter.CacheStore, ttl time.Duration, options ...CacheOption) *ResultCache[T] {
	cfg := cacheConfig{now: time.Now}
	for _, option := range options {
		option(&cfg)
	}

	return &ResultCache[T]{store: store, ttl: ttl, now: cfg.now}
}

// CacheKey digests a lookup key into a fixed-length hex string.
func CacheKey(lookup string) string {
	sum := blake3.Sum256([]byte(lookup))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached value for key. Expired entries are deleted and reported as misses.
func (c *ResultCache[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T
	if c == nil || c.store == nil {
		return zero, false
	}

	digest := CacheKey(key)

	raw, ok, err := c.store.Get(ctx, digest)
	if err != nil {
		slog.Warn("Cache read failed", "error", err)
		return zero, false
	}

	if !ok {
		return zero, false
	}

	var entry m.CacheEntry[T]
	if err := cbor.Unmarshal(raw, &entry); err != nil {
		slog.Warn("Discarding undecodable cache entry", "error", err)
		c.evict(ctx, digest)

		return zero, false
	}

	if c.ttl > 0 && c.now().Sub(time.Unix(0, entry.CreatedAt)) > c.ttl {
		slog.Debug("Cache entry expired", "key", digest)
		c.evict(ctx, digest)

		return zero, false
	}

	return entry.Payload, true
}

// Set stores an independent serialized copy of value under key.
func (c *ResultCache[T]) Set(ctx context.Context, key string, value T) {
	if c == nil || c.store == nil {
		return
	}

	raw, err := cacheEncMode.Marshal(m.CacheEntry[T]{CreatedAt: c.now().UnixNano(), Payload: value})
	if err != nil {
		slog.Warn("Cache encode failed", "error", err)
		return
	}

	if err := c.store.Set(ctx, CacheKey(key), raw); err != nil {
		slog.Warn("Cache write failed", "error", err)
	}
}

// Clear drops every entry.
func (c *ResultCache[T]) Clear(ctx context.Context) error {
	if c == nil || c.store == nil {
		return nil
	}

	return c.store.Clear(ctx)
}

func (c *ResultCache[T]) evict(ctx context.Context, digest string) {
	if err := c.store.Delete(ctx, digest); err != nil {
		slog.Debug("Cache eviction failed", "key", digest, "error", err)
	}
}
