package common

import "time"

// CacheInterface defines the contract for cache implementations
type CacheInterface interface {
	// Set stores a value in cache with the given key and duration
	Set(key string, value interface{}, duration time.Duration)

	// Get retrieves a value from cache by key
	// Returns the value and true if found, nil and false otherwise
	Get(key string) (interface{}, bool)

	// GetInto retrieves a value from cache and unmarshals it into dest,
	// which must be a pointer. Returns true only when the key exists and
	// the stored payload fits dest. Callers that need a concrete type back
	// must use this instead of Get: Redis stores JSON, so Get can only
	// hand back generic maps.
	GetInto(key string, dest interface{}) bool

	// Delete removes a value from cache by key
	Delete(key string)

	// GetOrSet retrieves a value from cache, or loads it using the loader function if not found
	GetOrSet(key string, duration time.Duration, loader func() (any, error)) (interface{}, error)

	// Close closes any underlying connections (for Redis, etc.)
	Close() error
}
