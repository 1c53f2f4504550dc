// Package cache stores rendered sheet bytes keyed by a hash of the request
// that produced them.
//
// Only deterministic output is cached: proof sheets built from a fixed code
// or the exhaustive sequence render identically every time, while sheets of
// freshly generated codes never repeat and bypass the cache.
//
// Implementations:
//   - [NullCache]: stores nothing
//   - [MemoryCache]: in-process map with TTLs, used by the HTTP server
//   - [FileCache]: one file per entry, used by the CLI
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was present and live.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
