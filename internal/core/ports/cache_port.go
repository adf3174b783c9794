package ports

import (
	"context"
	"time"
)

// CachePort stores serialized read models. Get returns domain.ErrCacheMiss
// for absent or expired keys.
type CachePort interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Invalidate removes every key matching a glob pattern such as "dashboard:*".
	Invalidate(ctx context.Context, pattern string) error
}
