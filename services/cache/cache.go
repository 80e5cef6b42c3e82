// Package cache holds fetched listing pages between runs so closely spaced
// invocations reuse the same response instead of hitting the site again.
package cache

import (
	"time"
)

// CacheService represents a generic byte cache
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}
