// Package cache provides a bounded in-memory cache for per-signature lookups.
//
// Entries expire after a TTL and the least recently used entry is evicted
// once MaxEntries is reached. GetOrLoad collapses concurrent misses for the
// same key into a single load.
package cache
