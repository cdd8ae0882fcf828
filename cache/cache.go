package cache

import (
	"strings"
	"sync"
	"time"
)

// entry is one cached GET response.
type entry struct {
	body        []byte
	status      int
	contentType string
	expiresAt   time.Time
}

// Cache is a process-wide TTL response cache. It is constructed once in main
// and handed to the routing layer, so tests can scope or disable it. Keys are
// the verbatim request path+query; no parameter-order normalization is done,
// so equivalent queries with reordered parameters occupy separate entries.
type Cache struct {
	mu             sync.RWMutex
	entries        map[string]entry
	defaultTTL     time.Duration
	bypassPrefixes []string
	stop           chan struct{}
	stopOnce       sync.Once
}

const sweepInterval = 10 * time.Minute

// New builds a cache and starts its background sweeper.
func New(defaultTTL time.Duration, bypassPrefixes ...string) *Cache {
	c := &Cache{
		entries:        make(map[string]entry),
		defaultTTL:     defaultTTL,
		bypassPrefixes: bypassPrefixes,
		stop:           make(chan struct{}),
	}
	go c.sweeper(sweepInterval)
	return c
}

// Get returns the cached response for key if it has not expired. An expired
// entry is evicted on access.
func (c *Cache) Get(key string) ([]byte, int, string, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, 0, "", false
	}
	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; another writer may have replaced it.
		if cur, ok := c.entries[key]; ok && time.Now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, 0, "", false
	}
	return e.body, e.status, e.contentType, true
}

// Set stores a response unconditionally. A zero ttl uses the default.
func (c *Cache) Set(key string, body []byte, status int, contentType string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.mu.Lock()
	c.entries[key] = entry{
		body:        body,
		status:      status,
		contentType: contentType,
		expiresAt:   time.Now().Add(ttl),
	}
	c.mu.Unlock()
}

// Invalidate removes every key containing the given substring and returns
// how many entries were dropped. Write handlers call this with a resource
// family prefix such as "/api/listings".
func (c *Cache) Invalidate(substring string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.entries {
		if strings.Contains(k, substring) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Len reports the live entry count (expired entries included until swept).
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stop halts the background sweeper.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache) sweeper(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.evictExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *Cache) evictExpired() {
	now := time.Now()
	c.mu.Lock()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}

func (c *Cache) bypassed(path string) bool {
	for _, p := range c.bypassPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
