// Package cache implements the per-satellite bounded content cache:
// the CacheEngine (spec.md §4.2) and its pluggable EvictionPolicy (§4.1).
package cache

// CacheEngine is a bounded key-presence store with LRU-ordered recency
// tracking. It stores no payload — only whether a ContentID currently has
// a replica on this satellite (spec.md §3's CacheEntry: "No payload is
// stored; the simulator models presence only").
type CacheEngine struct {
	capacity int
	order    *RecencyList
	policy   EvictionPolicy
}

// NewCacheEngine creates a CacheEngine with the given capacity and
// eviction policy name (resolved via NewEvictionPolicy). Panics if
// capacity <= 0: a zero-or-negative-capacity cache is a config bug,
// caught by config.Validate before a satellite is constructed.
func NewCacheEngine(capacity int, evictionStrategy string) *CacheEngine {
	if capacity <= 0 {
		panic("cache: capacity must be > 0")
	}
	return &CacheEngine{
		capacity: capacity,
		order:    NewRecencyList(),
		policy:   NewEvictionPolicy(evictionStrategy),
	}
}

// Touch reports whether id is present; if so it moves id to the
// most-recent position (spec.md §4.2). No-op on a miss.
func (c *CacheEngine) Touch(id string) bool {
	return c.order.Touch(id)
}

// Contains reports whether id is currently cached, without affecting
// recency order.
func (c *CacheEngine) Contains(id string) bool {
	return c.order.Contains(id)
}

// Admit inserts id as most-recent. If the cache was at capacity, exactly
// one victim is evicted first via the configured EvictionPolicy and its
// id is returned as evicted (ok=true). Callers must only call Admit after
// a failed Touch — re-admitting an already-present id is not supported
// (spec.md §4.2).
func (c *CacheEngine) Admit(id string) (evicted string, ok bool) {
	if c.order.Len() >= c.capacity {
		evicted = c.policy.Evict(c.order)
		ok = true
	}
	c.order.PushMostRecent(id)
	return evicted, ok
}

// Snapshot returns the cached ids in recency order, oldest first, for
// telemetry (spec.md §4.2, §6's "[Cache content]" line).
func (c *CacheEngine) Snapshot() []string {
	return c.order.Snapshot()
}

// Size returns the current number of cached entries.
func (c *CacheEngine) Size() int {
	return c.order.Len()
}

// Capacity returns the configured maximum number of entries.
func (c *CacheEngine) Capacity() int {
	return c.capacity
}
