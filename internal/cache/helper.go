package cache

import (
	"encoding/json"
)

// UnmarshalCacheValue attempts to convert a cache value to the specified type.
// It handles both the in-memory cache (which stores actual objects) and the
// Redis cache (which stores JSON strings).
// Returns the typed value and true if successful, nil and false otherwise.
func UnmarshalCacheValue[T any](value interface{}) (*T, bool) {
	if value == nil {
		return nil, false
	}

	// Try direct type assertion first (for in-memory cache)
	if typed, ok := value.(*T); ok {
		return typed, true
	}

	// Fall back to JSON decoding (for Redis cache)
	if str, ok := value.(string); ok {
		var result T
		if err := json.Unmarshal([]byte(str), &result); err == nil {
			return &result, true
		}
	}

	return nil, false
}
