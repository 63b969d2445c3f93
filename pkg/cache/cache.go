// Package cache stores rendered graph artifacts so unchanged graphs are not
// sent through Graphviz again on the next run.
//
// Keys are derived from the DOT source and output format with
// [ArtifactKey]; any change to a graph or its styling produces a new key.
// [FileCache] persists entries under the user cache directory and
// [NullCache] disables caching.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long a rendered artifact stays valid.
const TTLArtifact = 30 * 24 * time.Hour

// Cache is a byte-oriented key-value store with expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Clear removes every entry.
	Clear(ctx context.Context) error
	// Close releases resources.
	Close() error
}
