package cache

import (
	"sync"
	"time"
)

// Cache is a process-wide TTL map sitting in front of catalog read
// queries. There is no eviction beyond expiry and explicit deletion;
// keys come from a small enumerable set of query shapes, so growth
// between invalidations stays bounded in practice.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry

	defaultTTL time.Duration
}

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Key is implemented by the structured query descriptors in keys.go.
type Key interface {
	// CacheKey returns a deterministic string for the full set of query
	// parameters, so distinct queries never collide.
	CacheKey() string
	// Cacheable reports whether results for this query may be stored at
	// all (false for non-deterministic orderings).
	Cacheable() bool
}

func New(defaultTTL time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	return &Cache{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
	}
}

// Get returns the cached value for key, or misses if the entry is absent
// or past its expiry. Expired entries are dropped on read.
func (c *Cache) Get(key Key) (interface{}, bool) {
	if !key.Cacheable() {
		return nil, false
	}

	k := key.CacheKey()

	c.mu.RLock()
	e, ok := c.entries[k]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a Set may have raced us.
		if cur, ok := c.entries[k]; ok && time.Now().After(cur.expiresAt) {
			delete(c.entries, k)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the default TTL. Queries flagged
// non-cacheable are silently skipped.
func (c *Cache) Set(key Key, value interface{}) {
	c.SetTTL(key, value, c.defaultTTL)
}

func (c *Cache) SetTTL(key Key, value interface{}, ttl time.Duration) {
	if !key.Cacheable() {
		return
	}
	c.mu.Lock()
	c.entries[key.CacheKey()] = entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *Cache) Delete(key Key) {
	c.mu.Lock()
	delete(c.entries, key.CacheKey())
	c.mu.Unlock()
}

func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Len reports live entries, counting expired-but-unread ones too.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
