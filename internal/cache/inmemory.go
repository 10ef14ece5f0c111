package cache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// InMemoryCache implements the Cache interface using patrickmn/go-cache
type InMemoryCache struct {
	store *gocache.Cache
}

// In-memory cache instance
var inMemoryCache *InMemoryCache

// NewInMemoryCache creates a new in-memory cache
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		store: gocache.New(ExpiryDefaultInMemory, CleanupIntervalInMemory),
	}
}

// InitializeInMemoryCache initializes the global in-memory cache instance
func InitializeInMemoryCache() {
	if inMemoryCache == nil {
		inMemoryCache = NewInMemoryCache()
	}
}

// GetInMemoryCache returns the global in-memory cache instance
func GetInMemoryCache() *InMemoryCache {
	if inMemoryCache == nil {
		InitializeInMemoryCache()
	}
	return inMemoryCache
}

// Get retrieves a value from the cache
func (c *InMemoryCache) Get(_ context.Context, key string) (interface{}, bool) {
	return c.store.Get(key)
}

// Set adds a value to the cache with the specified expiration
func (c *InMemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) {
	if expiration == 0 {
		expiration = ExpiryDefaultInMemory
	}
	c.store.Set(key, value, expiration)
}

// Delete removes a key from the cache
func (c *InMemoryCache) Delete(_ context.Context, key string) {
	c.store.Delete(key)
}

// DeleteByPrefix removes all keys with the given prefix
func (c *InMemoryCache) DeleteByPrefix(_ context.Context, prefix string) {
	for key := range c.store.Items() {
		if strings.HasPrefix(key, prefix) {
			c.store.Delete(key)
		}
	}
}
