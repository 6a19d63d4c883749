// Package cache stores computed kinship and layout results.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for `kintree serve`
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// Keys are built by a [Keyer] from a document hash plus the options that
// influence the result, so changing the reference person or the spacing never
// returns a stale entry. [ScopedKeyer] prefixes every key for tenant
// isolation.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// Get reports a miss with ok == false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Entry lifetimes. Results are pure functions of their key, so they only
// expire to bound disk and memory use.
const (
	TTLResult        = 7 * 24 * time.Hour
	TTLLayout        = 7 * 24 * time.Hour
	TTLRelationships = 7 * 24 * time.Hour
)
