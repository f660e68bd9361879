package cache

import "fmt"

// EvictionPolicy chooses a victim ContentID from a cache's recency order.
// Implementations are stateless across calls; all ordering state lives in
// the CacheEngine's own recency list (spec.md §4.1).
type EvictionPolicy interface {
	// Evict removes and returns the one entry the policy selects as victim,
	// given a view of the cache ordered oldest-first.
	Evict(order *RecencyList) string
}

// lruPolicy evicts the least-recently-touched entry: the oldest element
// of the recency list.
type lruPolicy struct{}

// Evict removes the oldest entry (recency list head) and returns its key.
func (lruPolicy) Evict(order *RecencyList) string {
	return order.PopOldest()
}

// NewEvictionPolicy resolves an eviction policy by name. Valid names: "LRU".
// Unknown names are a ConfigError caught at scenario-parse time (spec.md §9),
// so this constructor panics rather than returning an error: by the time a
// CacheEngine is built, the name has already passed config.Validate.
func NewEvictionPolicy(name string) EvictionPolicy {
	switch name {
	case "LRU":
		return lruPolicy{}
	default:
		panic(fmt.Sprintf("unknown cache eviction strategy %q; valid strategies: [LRU]", name))
	}
}
