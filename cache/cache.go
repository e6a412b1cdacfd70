package cache

import (
	"context"
	"errors"
)

// ErrNilLoader is returned by GetOrLoad when the loader is nil.
var ErrNilLoader = errors.New("cache: loader is nil")

// LoadFunc computes the value for a missing key.
type LoadFunc[V any] func(ctx context.Context) (V, error)

// Cache is a keyed store of computed values.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: methods should honor cancellation/deadlines where applicable.
// - Errors: Get never errors; it returns (zero, false) on miss. GetOrLoad
//   returns the loader's error and caches nothing in that case.
// - Eviction: an evicted or expired entry is recomputed by the next
//   GetOrLoad, never reported as missing.
type Cache[K comparable, V any] interface {
	// Get retrieves a cached value. Returns (zero, false) on miss.
	Get(ctx context.Context, key K) (V, bool)

	// Set stores a value under key, replacing any previous value.
	Set(ctx context.Context, key K, value V)

	// Delete removes a cached value. Idempotent.
	Delete(ctx context.Context, key K)

	// GetOrLoad returns the cached value or stores the result of load.
	GetOrLoad(ctx context.Context, key K, load LoadFunc[V]) (V, error)

	// Len reports the number of live entries.
	Len() int
}
