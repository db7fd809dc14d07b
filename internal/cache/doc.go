// Package cache provides a generic LRU cache with a soft limit and an
// eviction callback.
//
//	c := cache.NewWithEvict[atlas.Key, struct{}](4096, func(k atlas.Key, _ struct{}) {
//		provider.Remove(k)
//	})
//	c.Set(key, struct{}{})
//
// The atlas tile cache uses the callback to hand evicted tiles back to
// their texture page.
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
