// Package cache provides the user lookup cache: an in-process layer, an
// optional Redis layer, and a composition of the two.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache miss")
	ErrCacheDown = errors.New("cache unavailable")
)

// Cache stores JSON-encodable values by key. Implementations are safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// InvalidateAll drops every entry owned by this cache.
	InvalidateAll(ctx context.Context) error
	Health(ctx context.Context) error
	Stats() map[string]interface{}
	Close() error
}
