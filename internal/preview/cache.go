// Package preview maintains the frame-preview pipeline: a bounded LRU cache
// of extracted frames and the transcoder-backed extractor that fills it.
package preview

import (
	"container/list"
	"os"
	"sync"

	"grabarr/internal/utils/logging"
)

type cacheEntry struct {
	timestamp int
	path      string
}

// Cache maps a timestamp to an extracted frame file with least-recently-used
// eviction. The cache owns the backing temp files: eviction deletes them.
// Guarded by its own lock, distinct from job-state locks, so preview
// extraction can run concurrently with an unrelated download.
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front = most recently used
	index    map[int]*list.Element
}

// NewCache returns an empty cache holding at most capacity entries.
func NewCache(capacity int) *Cache {
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		index:    make(map[int]*list.Element, capacity),
	}
}

// Get returns the cached frame path for a timestamp, promoting it to most
// recently used. Callers must verify the file still exists on disk.
func (c *Cache) Get(timestamp int) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[timestamp]
	if !ok {
		return "", false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).path, true
}

// Put inserts a frame as most recently used, evicting the least-recently-used
// entry (and best-effort deleting its backing file) when at capacity.
func (c *Cache) Put(timestamp int, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[timestamp]; ok {
		el.Value.(*cacheEntry).path = path
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.capacity {
		c.evictOldest()
	}

	el := c.order.PushFront(&cacheEntry{timestamp: timestamp, path: path})
	c.index[timestamp] = el
}

// evictOldest removes the least-recently-used entry. Caller holds the lock.
func (c *Cache) evictOldest() {
	el := c.order.Back()
	if el == nil {
		return
	}
	entry := el.Value.(*cacheEntry)
	c.order.Remove(el)
	delete(c.index, entry.timestamp)

	if err := os.Remove(entry.path); err != nil && !os.IsNotExist(err) {
		// Already gone is the desired end state.
		logging.D(1, "Could not delete evicted preview frame %s: %v", entry.path, err)
	}
}

// Clear empties all bookkeeping. Backing files are left for directory
// teardown (used when switching source videos).
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	clear(c.index)
}

// Len returns the current entry count.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
