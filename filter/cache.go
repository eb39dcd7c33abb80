package filter

import (
	"container/list"
	"sync"
)

// defaultCacheSize bounds the number of compiled expressions kept around
const defaultCacheSize = 64

// compiled holds recently compiled filters keyed by expression
var compiled = newFilterCache(defaultCacheSize)

// filterCache is a thread-safe LRU cache of compiled filters
type filterCache struct {
	size      int
	evictList *list.List
	items     map[string]*list.Element
	mu        sync.Mutex
}

type cacheEntry struct {
	expression string
	filter     *Filter
}

func newFilterCache(size int) *filterCache {
	if size < 1 {
		size = 1
	}
	return &filterCache{
		size:      size,
		evictList: list.New(),
		items:     make(map[string]*list.Element),
	}
}

// Get returns the filter compiled from expression, marking it recently used
func (c *filterCache) Get(expression string) (*Filter, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.items[expression]
	if !ok {
		return nil, false
	}
	c.evictList.MoveToFront(node)
	return node.Value.(*cacheEntry).filter, true
}

// Put stores f, evicting the least recently used entry when full
func (c *filterCache) Put(f *Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, ok := c.items[f.expression]; ok {
		c.evictList.MoveToFront(node)
		node.Value.(*cacheEntry).filter = f
		return
	}

	node := c.evictList.PushFront(&cacheEntry{expression: f.expression, filter: f})
	c.items[f.expression] = node

	if c.evictList.Len() > c.size {
		oldest := c.evictList.Back()
		c.evictList.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).expression)
	}
}

// Len returns the number of cached filters
func (c *filterCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}
