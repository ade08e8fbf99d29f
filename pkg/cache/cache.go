// Package cache stores computed layouts and rendered artifacts.
//
// Backends implement [Cache]:
//   - [FileCache]: files under the user cache directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the API server
//   - [NullCache]: never stores anything (caching disabled, tests)
//
// Keys come from a [Keyer] so every backend agrees on the layout of the
// key space:
//
//	layout:<sha256(listing hash, layout options)>
//	artifact:<sha256(layout hash, render options)>
//
// # Usage
//
//	c, err := cache.NewFileCache(dir)
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	key := cache.NewDefaultKeyer().LayoutKey(cache.Hash(listingJSON), opts)
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    // use data
//	}
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for
// backend failures. Callers treat a failing cache as a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default expiries per entry type.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
