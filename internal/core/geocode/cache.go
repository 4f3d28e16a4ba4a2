package geocode

import (
	"container/list"
	"sync"
	"time"
)

// cache is a tiny TTL-bound LRU for resolved addresses.
// Venue strings repeat heavily across ingest runs so even a small cache
// cuts most provider traffic
type cache struct {
	mu    sync.Mutex
	cap   int
	ttl   time.Duration
	ll    *list.List               // most-recent at front
	items map[string]*list.Element // folded address -> element
}

type cacheEntry struct {
	key string
	val Point
	hit bool
	exp time.Time
}

func newCache(maxKeys int, ttl time.Duration) *cache {
	if maxKeys <= 0 {
		maxKeys = 4096
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &cache{cap: maxKeys, ttl: ttl, ll: list.New(), items: make(map[string]*list.Element, maxKeys)}
}

func (c *cache) get(key string) (Point, bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		en := el.Value.(cacheEntry)
		if time.Now().Before(en.exp) {
			c.ll.MoveToFront(el)
			return en.val, en.hit, true
		}
		c.ll.Remove(el)
		delete(c.items, key)
	}
	return Point{}, false, false
}

func (c *cache) put(key string, val Point, hit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		en := el.Value.(cacheEntry)
		en.val = val
		en.hit = hit
		en.exp = time.Now().Add(c.ttl)
		el.Value = en
		c.ll.MoveToFront(el)
		return
	}
	el := c.ll.PushFront(cacheEntry{key: key, val: val, hit: hit, exp: time.Now().Add(c.ttl)})
	c.items[key] = el
	for c.ll.Len() > c.cap {
		t := c.ll.Back()
		if t == nil {
			break
		}
		old := t.Value.(cacheEntry)
		c.ll.Remove(t)
		delete(c.items, old.key)
	}
	// soft cleanup of expired at tail
	for {
		t := c.ll.Back()
		if t == nil {
			break
		}
		if time.Now().Before(t.Value.(cacheEntry).exp) {
			break
		}
		c.ll.Remove(t)
		delete(c.items, t.Value.(cacheEntry).key)
	}
}
