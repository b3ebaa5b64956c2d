// Package cache implements the read-through cache fronting the upstream quiz
// API. The cache is purely a latency and cost optimization: correctness of
// the user-facing response never depends on cache availability. Backend
// errors are logged and degrade to a direct fetch, never propagated.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"
)

// DefaultTTL is applied when no valid override is configured.
const DefaultTTL = time.Hour

// ErrCacheMiss is returned by KeyValue implementations when a key is absent
// or expired. To callers a miss is indistinguishable from a backend failure;
// both resolve to a fetch from origin.
var ErrCacheMiss = errors.New("cache miss")

// Config holds cache configuration with environment variable support.
type Config struct {
	// TTLSeconds overrides the entry TTL. Non-positive values fall back to
	// DefaultTTL.
	TTLSeconds int `env:"QZ_CACHE_TTL_SECONDS"`
}

// KeyValue is the capability interface over the external key-value cache.
type KeyValue interface {
	// Get returns the value stored at key, or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value at key with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Client wraps a KeyValue backend with the read-through policy. The TTL is
// resolved once at construction, not read from ambient state per call.
// A nil backend disables caching; every fetch goes to origin.
type Client struct {
	kv  KeyValue
	ttl time.Duration
	log *slog.Logger
}

// New creates a cache client. kv may be nil to run without a cache backend.
func New(kv KeyValue, cfg Config, log *slog.Logger) *Client {
	ttl := DefaultTTL
	if cfg.TTLSeconds > 0 {
		ttl = time.Duration(cfg.TTLSeconds) * time.Second
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{kv: kv, ttl: ttl, log: log}
}

// TTL returns the entry time-to-live resolved at construction.
func (c *Client) TTL() time.Duration {
	return c.ttl
}

// FetchFunc loads a value from the origin on cache miss.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Fetch returns the cached value at key, or invokes fn and populates the
// cache with its result. Cache read errors are treated as a miss; write
// errors are swallowed after logging, and the freshly fetched value is still
// returned. Concurrent misses for the same key each call fn independently
// and last write wins; no coalescing is attempted.
func Fetch[T any](ctx context.Context, c *Client, key string, fn FetchFunc[T]) (T, error) {
	if c.kv != nil {
		raw, err := c.kv.Get(ctx, key)
		switch {
		case err == nil:
			var cached T
			if err := json.Unmarshal(raw, &cached); err != nil {
				c.log.WarnContext(ctx, "discarding undecodable cache entry",
					slog.String("key", key), slog.Any("error", err))
			} else {
				return cached, nil
			}
		case !errors.Is(err, ErrCacheMiss):
			c.log.WarnContext(ctx, "cache read failed, falling back to origin",
				slog.String("key", key), slog.Any("error", err))
		}
	}

	value, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if c.kv != nil {
		raw, err := json.Marshal(value)
		if err != nil {
			c.log.WarnContext(ctx, "cache value not serializable",
				slog.String("key", key), slog.Any("error", err))
			return value, nil
		}
		if err := c.kv.Set(ctx, key, raw, c.ttl); err != nil {
			c.log.WarnContext(ctx, "cache write failed",
				slog.String("key", key), slog.Any("error", err))
		}
	}

	return value, nil
}
