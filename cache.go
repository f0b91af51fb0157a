package murmur

import "sync"

// CacheLimit is the default number of synthesized replies kept in memory.
const CacheLimit = 20

// EvictionPolicy picks the key to evict from keys, which are listed in
// insertion order, oldest first.
type EvictionPolicy func(keys []string) string

// EvictOldest evicts the entry inserted earliest. Reads do not count as use,
// so this is FIFO rather than LRU.
func EvictOldest(keys []string) string {
	return keys[0]
}

// SpeechCache is a bounded key to audio cache. Insertion order alone decides
// eviction; a hit never moves an entry.
type SpeechCache struct {
	limit  int
	policy EvictionPolicy

	mu      sync.Mutex
	order   []string
	entries map[string]Audio
}

// NewSpeechCache creates a cache holding at most limit entries. A limit below
// one is treated as one.
func NewSpeechCache(limit int) *SpeechCache {
	if limit < 1 {
		limit = 1
	}
	return &SpeechCache{
		limit:   limit,
		policy:  EvictOldest,
		entries: make(map[string]Audio, limit),
	}
}

// Get returns the cached audio for key.
func (c *SpeechCache) Get(key string) (Audio, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.entries[key]
	return a, ok
}

// Put stores audio under key. Replacing an existing key keeps its original
// position in the eviction order. When the cache is over its limit the entry
// chosen by the eviction policy is removed, so Len never exceeds the limit
// on return.
func (c *SpeechCache) Put(key string, audio Audio) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		c.entries[key] = audio
		return
	}
	c.entries[key] = audio
	c.order = append(c.order, key)
	for len(c.order) > c.limit {
		c.evictLocked(c.policy(c.order))
	}
}

func (c *SpeechCache) evictLocked(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// Len returns the number of cached entries.
func (c *SpeechCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// Keys returns the cached keys in insertion order.
func (c *SpeechCache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.order...)
}
