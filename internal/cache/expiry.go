package cache

import "time"

const (
	ExpiryDefaultInMemory = 30 * time.Minute
	ExpiryDefaultRedis    = 5 * time.Minute

	// CleanupIntervalInMemory controls how often expired in-memory entries
	// are purged.
	CleanupIntervalInMemory = 10 * time.Minute
)
