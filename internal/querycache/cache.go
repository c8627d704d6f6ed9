// Package querycache is an in-memory cache for API query results with
// typed invalidation tags. A mutation invalidates the tags it affects and
// every cached query carrying one of those tags is dropped, so the next
// read refetches.
package querycache

import "sync"

// Tag identifies a bucket of cached queries that go stale together.
type Tag string

// Tags for the platform's query buckets.
const (
	TagSites         Tag = "wordpress-sites"
	TagFeatures      Tag = "features"
	TagNotifications Tag = "notifications"
	TagDiscover      Tag = "discover"
	TagConnections   Tag = "connections"
)

type entry struct {
	value []byte
	tags  []Tag
}

// Cache stores query results keyed by request key. Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

// Get returns the cached value for key and whether it was present.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key, tagged with the given invalidation tags.
func (c *Cache) Set(key string, value []byte, tags ...Tag) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, tags: tags}
}

// Invalidate drops every entry carrying any of the given tags.
func (c *Cache) Invalidate(tags ...Tag) {
	if len(tags) == 0 {
		return
	}
	stale := make(map[Tag]bool, len(tags))
	for _, t := range tags {
		stale[t] = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		for _, t := range e.tags {
			if stale[t] {
				delete(c.entries, key)
				break
			}
		}
	}
}

// Clear drops all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
