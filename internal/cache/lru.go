package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// LRU is a bounded cache that evicts the least recently used entry when
// full. Reads refresh recency.
type LRU struct {
	lru *expirable.LRU[string, string]
}

// NewLRU returns an LRU holding at most capacity entries. A positive ttl
// also expires entries by age.
func NewLRU(capacity int, ttl time.Duration) *LRU {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &LRU{lru: expirable.NewLRU[string, string](capacity, nil, ttl)}
}

func (c *LRU) Get(key string) (string, bool) { return c.lru.Get(key) }

func (c *LRU) Put(key, value string) { c.lru.Add(key, value) }

func (c *LRU) Len() int { return c.lru.Len() }

func (c *LRU) Purge() { c.lru.Purge() }
