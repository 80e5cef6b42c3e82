package cache

import (
	"testing"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/stretchr/testify/assert"
)

// This test requires a running memcached instance
// If memcached is not available, the test will be skipped
func TestMemcacheService(t *testing.T) {
	mc := NewMemcacheService("localhost:11211")

	// Test if memcached is available
	_, err := mc.client.Get("probe")
	if err != nil && err != memcache.ErrCacheMiss {
		t.Skip("Memcached is not available, skipping test")
	}

	// Cache a fetched page body
	err = mc.Set("sweclockers_body", []byte("<html>fynd</html>"), 1*time.Second)
	assert.NoError(t, err)

	value, err := mc.Get("sweclockers_body")
	assert.NoError(t, err)
	assert.Equal(t, "<html>fynd</html>", string(value))

	err = mc.Delete("sweclockers_body")
	assert.NoError(t, err)

	_, err = mc.Get("sweclockers_body")
	assert.Error(t, err)
}
