package snippet

import (
	"strings"
	"time"

	"github.com/verte-zerg/codetype/internal/model"
)

// DefaultCacheTTL is how long a cached snippet listing stays fresh.
const DefaultCacheTTL = 5 * time.Minute

type cacheEntry struct {
	snippets []model.Snippet
	storedAt time.Time
}

// Cache keeps snippet listings per key for a fixed TTL.
// It is not safe for concurrent use.
type Cache struct {
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

// NewCache returns a cache with the given TTL and clock. A non-positive ttl
// uses DefaultCacheTTL; a nil clock uses time.Now.
func NewCache(ttl time.Duration, now func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{ttl: ttl, now: now, entries: make(map[string]cacheEntry)}
}

// Get returns the entry for key when it is younger than the TTL.
// Expired entries are evicted.
func (c *Cache) Get(key string) ([]model.Snippet, bool) {
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.snippets, true
}

// Put stores snippets under key.
func (c *Cache) Put(key string, snippets []model.Snippet) {
	c.entries[key] = cacheEntry{snippets: snippets, storedAt: c.now()}
}

// Invalidate drops every entry for language, whatever its difficulty.
func (c *Cache) Invalidate(language string) {
	prefix := language + "/"
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.entries = make(map[string]cacheEntry)
}

// Len reports the number of entries, fresh or not.
func (c *Cache) Len() int {
	return len(c.entries)
}

func cacheKey(language, difficulty string) string {
	return language + "/" + difficulty
}
