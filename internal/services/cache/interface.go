// Package cache holds derived data that is expensive to recompute, such as
// waveform peaks, for the lifetime of the process.
package cache

import (
	"context"
	"time"
)

// Cache defines the interface for cache implementations
type Cache interface {
	// Get retrieves a value from the cache
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a value in the cache with a TTL; ttl <= 0 uses the cache default
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache
	Delete(ctx context.Context, key string) error
}

// Stats provides statistics about cache usage
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Entries   int
	Size      int64
	MaxSize   int64
}
