// Package cache stores rendered chart artifacts keyed by a content hash of
// the schedule they were drawn from. Because keys change whenever any date,
// name or dependency changes, entries never need explicit invalidation.
//
// Backends:
//   - NullCache: caching disabled
//   - FileCache: JSON entries under a directory, for the CLI
//   - RedisCache: shared cache for the HTTP server
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	// Backend is "none", "file" or "redis".
	Backend string
	Dir     string
	URL     string
	TTL     time.Duration
}

// Open builds the cache described by cfg.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "none", "off":
		return NewNullCache(), nil
	case "file":
		if cfg.Dir == "" {
			return nil, fmt.Errorf("file cache requires a directory")
		}
		return NewFileCache(cfg.Dir)
	case "redis":
		return NewRedisCache(ctx, cfg.URL)
	default:
		return nil, fmt.Errorf("unknown cache backend %q (expected none, file or redis)", cfg.Backend)
	}
}
