package cache

import (
	"sync"
	"time"
)

// Map is an unbounded-between-resets cache: when an insert would exceed
// maxEntries the whole map is cleared first.
type Map struct {
	mu         sync.Mutex
	records    map[string]Record
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

// NewMap returns a Map cache. A positive ttl is checked on read.
func NewMap(maxEntries int, ttl time.Duration) *Map {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Map{
		records:    make(map[string]Record),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

func (c *Map) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.records[key]
	if !ok {
		return "", false
	}
	if c.ttl > 0 && c.now().Sub(rec.InsertedAt) >= c.ttl {
		delete(c.records, key)
		return "", false
	}
	return rec.Value, true
}

func (c *Map) Put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.records[key]; !exists && len(c.records) >= c.maxEntries {
		clear(c.records)
	}
	c.records[key] = Record{Key: key, Value: value, InsertedAt: c.now()}
}

func (c *Map) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

func (c *Map) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.records)
}
