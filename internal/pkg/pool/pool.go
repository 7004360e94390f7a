package pool

import (
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"
)

// BigCache bigcache wrapper for the L1 layer.
// The cache stores raw []byte; encoding happens in the service layer so
// this layer allocates nothing beyond what bigcache itself does.
type BigCache struct {
	cache *bigcache.BigCache
}

// NewBigCache Create a bigcache instance.
// capacityMB is the hard cache size, expiration the entry lifetime.
func NewBigCache(capacityMB int, expiration time.Duration) (*BigCache, error) {
	config := bigcache.DefaultConfig(expiration)
	config.HardMaxCacheSize = capacityMB
	config.MaxEntrySize = 512 * 1024

	cache, err := bigcache.NewBigCache(config)
	if err != nil {
		return nil, err
	}
	return &BigCache{cache: cache}, nil
}

// Get Return the stored bytes for key, false on miss
func (c *BigCache) Get(key string) ([]byte, bool) {
	data, err := c.cache.Get(key)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set Store bytes under key
func (c *BigCache) Set(key string, value []byte) error {
	return c.cache.Set(key, value)
}

// Remove Delete key
func (c *BigCache) Remove(key string) error {
	return c.cache.Delete(key)
}

// Flush Drop every entry
func (c *BigCache) Flush() error {
	return c.cache.Reset()
}

// Close Close the cache
func (c *BigCache) Close() error {
	return c.cache.Close()
}

// SimpleCache map-backed cache guarded by a RWMutex.
// Has GC pressure; fine for small key spaces like board lists.
type SimpleCache[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]V
}

// NewSimpleCache Create a SimpleCache
func NewSimpleCache[K comparable, V any]() *SimpleCache[K, V] {
	return &SimpleCache[K, V]{
		data: make(map[K]V),
	}
}

func (c *SimpleCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *SimpleCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

func (c *SimpleCache[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

func (c *SimpleCache[K, V]) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[K]V)
}
