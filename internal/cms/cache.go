package cms

import (
	"sync"
	"time"
)

type cacheEntry struct {
	body    []byte
	expires time.Time
}

// recordCache keeps response bodies keyed by request URL. A nil cache is
// disabled and every lookup misses.
type recordCache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]cacheEntry
}

func newRecordCache(ttl time.Duration) *recordCache {
	return &recordCache{
		ttl:   ttl,
		now:   time.Now,
		items: map[string]cacheEntry{},
	}
}

func (c *recordCache) get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.expires) {
		return nil, false
	}
	return cloneBytes(entry.body), true
}

func (c *recordCache) put(key string, body []byte) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, e := range c.items {
		if now.After(e.expires) {
			delete(c.items, k)
		}
	}
	c.items[key] = cacheEntry{
		body:    cloneBytes(body),
		expires: now.Add(c.ttl),
	}
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
