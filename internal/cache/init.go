package cache

import (
	"context"
	"time"

	"github.com/servicehq/servicehub/internal/config"
	"github.com/servicehq/servicehub/internal/logger"
	redisClient "github.com/servicehq/servicehub/internal/redis"
)

// CacheType represents the type of cache to use
type CacheType string

const (
	// CacheTypeInMemory represents an in-memory cache
	CacheTypeInMemory CacheType = "inmemory"

	// CacheTypeRedis represents a Redis-backed cache
	CacheTypeRedis CacheType = "redis"
)

// noopCache is used when caching is disabled.
type noopCache struct{}

func (noopCache) Get(_ context.Context, _ string) (interface{}, bool)              { return nil, false }
func (noopCache) Set(_ context.Context, _ string, _ interface{}, _ time.Duration)  {}
func (noopCache) Delete(_ context.Context, _ string)                               {}
func (noopCache) DeleteByPrefix(_ context.Context, _ string)                       {}

// Initialize initializes the cache system based on the configured type.
// Redis is only used when a client could be constructed; otherwise the
// in-memory backend is the fallback.
func Initialize(cfg *config.Configuration, log *logger.Logger, redis *redisClient.Client) Cache {
	if !cfg.Cache.Enabled {
		log.Info("caching disabled")
		return noopCache{}
	}

	var cache Cache
	switch CacheType(cfg.Cache.Type) {
	case CacheTypeRedis:
		if redis == nil {
			log.Warn("redis cache configured but no redis client available, falling back to in-memory")
			InitializeInMemoryCache()
			cache = GetInMemoryCache()
			break
		}
		InitializeRedisCache(redis, log)
		cache = GetRedisCache()
	case CacheTypeInMemory:
		fallthrough
	default:
		InitializeInMemoryCache()
		cache = GetInMemoryCache()
	}

	log.Infow("cache system initialized", "type", cfg.Cache.Type)
	return cache
}
