// Package cache provides the memoization layer behind the query façade.
//
// Keys embed a content fingerprint of the loaded frame, so reloading data
// invalidates every cached result structurally — callers never bust caches
// by hand. Population is idempotent: concurrent misses computing the same
// key all produce the same value and the last write wins.
package cache

import "context"

// Cache stores serialized query results.
type Cache interface {
	// Get returns the cached value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value. Overwriting an existing key is allowed and safe.
	Set(ctx context.Context, key string, value []byte) error
}
