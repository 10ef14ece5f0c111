package cache

import (
	"context"
	"time"
)

// Cache is the common interface implemented by the in-memory and Redis
// backends. Values round-trip as interface{}; use UnmarshalCacheValue to
// recover typed values regardless of backend.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)
	Delete(ctx context.Context, key string)
	DeleteByPrefix(ctx context.Context, prefix string)
}
