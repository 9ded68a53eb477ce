package cache

import (
	"sync"
	"time"
)

type memoryEntry struct {
	value    string
	storedAt time.Time
}

// MemoryCache is a thread-safe in-memory cache, append-only for the
// process lifetime unless a TTL is set. Concurrent callers that miss
// the same key may both populate it; last write wins, which is safe
// because values for the same key are identical.
type MemoryCache struct {
	entries map[string]memoryEntry
	mu      sync.RWMutex
	ttl     time.Duration
}

// NewMemoryCache creates an in-memory cache. If ttlSeconds is 0 or
// negative, entries never expire.
func NewMemoryCache(ttlSeconds int) *MemoryCache {
	ttl := time.Duration(ttlSeconds) * time.Second
	if ttlSeconds <= 0 {
		ttl = 0
	}
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

// Get retrieves a value from the cache. Returns the value and true if
// found and not expired.
func (c *MemoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}

	if c.ttl > 0 && time.Since(entry.storedAt) > c.ttl {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", false
	}

	return entry.value, true
}

// Set stores a value in the cache.
func (c *MemoryCache) Set(key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{
		value:    value,
		storedAt: time.Now(),
	}
	return nil
}

// Len returns the number of entries in the cache (including expired
// ones).
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries from the cache.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
}

// Verify MemoryCache implements TranslationCache
var _ TranslationCache = (*MemoryCache)(nil)
