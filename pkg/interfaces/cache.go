package interfaces

import (
	"context"
	"time"
)

// CacheProvider stores arbitrary values by key. Remote providers may hand back
// the serialized form ([]byte or string) of what was stored.
type CacheProvider interface {
	Get(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// CacheTagChecksum tracks invalidation counters for cache tags. A cached item
// records the checksum of its tags when written and is stale once the
// checksum moves.
type CacheTagChecksum interface {
	InvalidateTags(ctx context.Context, tags ...string) error
	Checksum(ctx context.Context, tags []string) (int64, error)
}
