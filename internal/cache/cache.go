package cache

import "sync"

// Cache is a generic thread-safe LRU cache with a soft limit.
// When an insertion pushes the cache over its limit, the least recently
// used entries are evicted and reported to the eviction callback.
//
// Cache must not be copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu        sync.Mutex
	entries   map[K]*node[K, V]
	order     list[K, V]
	softLimit int
	onEvict   func(K, V)

	hits      uint64
	misses    uint64
	evictions uint64
}

// New creates a new cache with the given soft limit.
// A softLimit of 0 means unlimited.
func New[K comparable, V any](softLimit int) *Cache[K, V] {
	return NewWithEvict[K, V](softLimit, nil)
}

// NewWithEvict creates a cache that calls onEvict for every entry dropped
// to honor the soft limit. onEvict runs after the cache lock is released,
// so it may call back into the cache.
func NewWithEvict[K comparable, V any](softLimit int, onEvict func(K, V)) *Cache[K, V] {
	if softLimit < 0 {
		softLimit = 0
	}
	return &Cache[K, V]{
		entries:   make(map[K]*node[K, V]),
		softLimit: softLimit,
		onEvict:   onEvict,
	}
}

// Get retrieves a value and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.order.moveToFront(n)
	return n.value, true
}

// Peek retrieves a value without touching its recency.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.entries[key]; ok {
		return n.value, true
	}
	var zero V
	return zero, false
}

// Set stores a value, evicting the least recently used entries if the
// cache grows past its soft limit.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	if n, ok := c.entries[key]; ok {
		n.value = value
		c.order.moveToFront(n)
		c.mu.Unlock()
		return
	}
	c.entries[key] = c.order.pushFront(key, value)
	evicted := c.evictLocked()
	c.mu.Unlock()

	c.notify(evicted)
}

// GetOrCreate returns the cached value or creates and stores it.
// create is called under the lock to prevent duplicate creation.
func (c *Cache[K, V]) GetOrCreate(key K, create func() V) V {
	c.mu.Lock()
	if n, ok := c.entries[key]; ok {
		c.hits++
		c.order.moveToFront(n)
		c.mu.Unlock()
		return n.value
	}
	c.misses++
	value := create()
	c.entries[key] = c.order.pushFront(key, value)
	evicted := c.evictLocked()
	c.mu.Unlock()

	c.notify(evicted)
	return value
}

// Delete removes an entry without calling the eviction callback.
// Returns true if the entry was found.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		return false
	}
	c.order.remove(n)
	delete(c.entries, key)
	return true
}

// Clear removes all entries without calling the eviction callback.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*node[K, V])
	c.order = list[K, V]{}
}

// Len returns the number of entries in the cache.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Capacity returns the soft limit of the cache.
func (c *Cache[K, V]) Capacity() int {
	return c.softLimit
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Len:       len(c.entries),
		Capacity:  c.softLimit,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

type evicted[K comparable, V any] struct {
	key   K
	value V
}

// evictLocked drops least recently used entries until the cache is within
// its soft limit. Caller must hold c.mu.
func (c *Cache[K, V]) evictLocked() []evicted[K, V] {
	if c.softLimit == 0 || len(c.entries) <= c.softLimit {
		return nil
	}
	out := make([]evicted[K, V], 0, len(c.entries)-c.softLimit)
	for len(c.entries) > c.softLimit {
		n := c.order.back()
		if n == nil {
			break
		}
		c.order.remove(n)
		delete(c.entries, n.key)
		c.evictions++
		out = append(out, evicted[K, V]{key: n.key, value: n.value})
	}
	return out
}

func (c *Cache[K, V]) notify(ev []evicted[K, V]) {
	if c.onEvict == nil {
		return
	}
	for _, e := range ev {
		c.onEvict(e.key, e.value)
	}
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Capacity is the soft limit.
	Capacity int
	// Hits is the number of successful Get and GetOrCreate lookups.
	Hits uint64
	// Misses is the number of failed lookups.
	Misses uint64
	// HitRate is the cache hit rate 0.0 to 1.0.
	HitRate float64
	// Evictions is the number of entries dropped for the soft limit.
	Evictions uint64
}
