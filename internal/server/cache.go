package server

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/deskauto/deskauto/internal/element"
)

// cacheEntry pairs a query's result with when it was captured, so a hit
// past ttl is treated as a miss rather than served stale.
type cacheEntry struct {
	result element.SearchResult
	at     time.Time
}

// queryCache memoizes find/read queries for a short window: an agent
// commonly issues a read tool call immediately followed by several
// element-targeted actions against the same tree, and re-walking the
// accessibility tree for each one adds latency without changing the
// answer. size <= 0 is treated as 1; ttl <= 0 disables caching (Get
// always misses and Put stores nothing).
type queryCache struct {
	mu   sync.Mutex
	lru  *lru.Cache[string, cacheEntry]
	ttl  time.Duration
}

func newQueryCache(size int, ttl time.Duration) *queryCache {
	if size <= 0 {
		size = 1
	}
	c, _ := lru.New[string, cacheEntry](size)
	return &queryCache{lru: c, ttl: ttl}
}

func (c *queryCache) key(query element.ElementQuery) string {
	return fmt.Sprintf("%s|%s|%s|%s|%d|%d|%t", query.Application, query.Role, query.Text, query.Identifier, query.Limit, query.MaxDepth, query.FuzzyMatch)
}

// Get returns a cached result for query if one exists and hasn't expired.
func (c *queryCache) Get(query element.ElementQuery) (element.SearchResult, bool) {
	if c.ttl <= 0 {
		return element.SearchResult{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.lru.Get(c.key(query))
	if !ok || time.Since(entry.at) > c.ttl {
		return element.SearchResult{}, false
	}
	return entry.result, true
}

// Put stores result for query, evicting the least recently used entry if
// the cache is at capacity.
func (c *queryCache) Put(query element.ElementQuery, result element.SearchResult, now time.Time) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(c.key(query), cacheEntry{result: result, at: now})
}

// InvalidateApp drops every cached entry scoped to app, called after a
// write action (click, type, set-value) that may have changed its tree.
func (c *queryCache) InvalidateApp(app string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range c.lru.Keys() {
		if len(k) >= len(app) && k[:len(app)] == app {
			c.lru.Remove(k)
		}
	}
}

// InvalidateAll drops every cached entry, used after a batched or
// unscoped write.
func (c *queryCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}
