// Package cache stores routing results keyed by their inputs.
//
// Routing is deterministic for a given circuit, coupling graph, starting
// layout and router options, so results can be content-addressed: [Keyer]
// derives a key from hashes of those inputs and any [Cache] backend stores
// the serialized result under it.
//
// Three backends are provided:
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry, for CLI use
//   - [RedisCache]: shared cache for the HTTP server
package cache

import (
	"context"
	"time"
)

// Default time-to-live values per entry kind.
const (
	// TTLRoute is how long routed circuits are kept.
	TTLRoute = 7 * 24 * time.Hour

	// TTLRender is how long rendered coupling graphs are kept.
	TTLRender = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
//
// Get reports a miss with hit=false and a nil error. Backend failures are
// returned as errors; callers treat them as misses.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
