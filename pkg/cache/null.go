package cache

import (
	"context"
	"time"
)

// NullCache stores nothing, so every graph is rendered again. Reason tells
// why caching is off (--no-cache, cache = false, no cache directory).
type NullCache struct {
	Reason string
}

// Disabled returns a NullCache recording reason.
func Disabled(reason string) NullCache {
	return NullCache{Reason: reason}
}

// Get always misses.
func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Clear(context.Context) error { return nil }

func (NullCache) Close() error { return nil }

var _ Cache = NullCache{}
