package cache

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// DefaultMaxEntries bounds a cache created with a non-positive size
const DefaultMaxEntries = 64

// Cache is a concurrency-safe LRU cache of query results
type Cache[V any] struct {
	mu         sync.Mutex
	storage    map[string]V
	lru        *lruList
	maxEntries int
	logger     *slog.Logger

	hits   int64
	misses int64
}

// Stats are the hit counters of a cache
type Stats struct {
	Entries int
	Hits    int64
	Misses  int64
}

// New creates a cache holding at most maxEntries values
func New[V any](maxEntries int, logger *slog.Logger) *Cache[V] {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache[V]{
		storage:    make(map[string]V),
		lru:        newLRUList(),
		maxEntries: maxEntries,
		logger:     logger,
	}
}

// Get returns the value stored under key and marks it as recently used
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.storage[key]
	if !ok {
		atomic.AddInt64(&c.misses, 1)
		return v, false
	}
	atomic.AddInt64(&c.hits, 1)
	c.lru.touch(key)
	return v, true
}

// Put stores value under key, evicting the least recently used entries when full
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.storage[key] = value
	c.lru.touch(key)

	for c.lru.size() > c.maxEntries {
		oldest, ok := c.lru.removeOldest()
		if !ok {
			break
		}
		delete(c.storage, oldest)
		c.logger.Debug("cache evict", "key", oldest)
	}
}

// Remove drops a single entry
func (c *Cache[V]) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.storage, key)
	c.lru.remove(key)
}

// Invalidate drops every entry
func (c *Cache[V]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n := len(c.storage); n > 0 {
		c.logger.Debug("cache invalidated", "entries", n)
	}
	c.storage = make(map[string]V)
	c.lru = newLRUList()
}

// Len returns the number of entries
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.storage)
}

// Stats returns the entry count and hit counters
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Entries: len(c.storage),
		Hits:    atomic.LoadInt64(&c.hits),
		Misses:  atomic.LoadInt64(&c.misses),
	}
}
