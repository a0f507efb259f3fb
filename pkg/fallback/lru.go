package fallback

import (
	"container/list"
	"encoding/json"
	"sync"
	"time"
)

// resultCache is a strict LRU cache for parsed snapshot payloads. Capacity is
// a hard bound on entry count; inserting into a full cache evicts exactly the
// least recently used entry. Entries expire lazily after ttl and count as
// misses once stale. Payloads are treated as immutable after insertion.
type resultCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	order    *list.List // front is most recently used
	entries  map[string]*list.Element
	onEvict  func()

	now func() time.Time // test hook
}

type resultEntry struct {
	key      string
	payload  json.RawMessage
	storedAt time.Time
}

func newResultCache(capacity int, ttl time.Duration, onEvict func()) *resultCache {
	return &resultCache{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		entries:  make(map[string]*list.Element, capacity),
		onEvict:  onEvict,
		now:      time.Now,
	}
}

// get returns the cached payload and refreshes the entry's recency. Expired
// entries are removed and reported as misses.
func (c *resultCache) get(key string) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	entry := elem.Value.(*resultEntry)
	if c.ttl > 0 && c.now().Sub(entry.storedAt) >= c.ttl {
		c.removeLocked(elem)
		return nil, false
	}
	c.order.MoveToFront(elem)
	return entry.payload, true
}

// put inserts or replaces an entry, evicting the least recently used entry
// when the cache is at capacity.
func (c *resultCache) put(key string, payload json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*resultEntry)
		entry.payload = payload
		entry.storedAt = c.now()
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.removeLocked(oldest)
			if c.onEvict != nil {
				c.onEvict()
			}
		}
	}

	elem := c.order.PushFront(&resultEntry{key: key, payload: payload, storedAt: c.now()})
	c.entries[key] = elem
}

func (c *resultCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *resultCache) removeLocked(elem *list.Element) {
	entry := elem.Value.(*resultEntry)
	c.order.Remove(elem)
	delete(c.entries, entry.key)
}
