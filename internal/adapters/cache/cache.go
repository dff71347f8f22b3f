// Package cache keeps parsed datasets keyed by source name and content hash.
package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/okian/attrition/internal/domain/table"
	"github.com/okian/attrition/pkg/metrics"
)

const defaultMaxSize = 16

// Key identifies one dataset version. Two uploads under the same name with
// different bytes get different keys.
type Key struct {
	Source string
	Hash   uint64
}

// KeyOf fingerprints content read from source.
func KeyOf(source string, content []byte) Key {
	return Key{Source: source, Hash: xxhash.Sum64(content)}
}

func (k Key) String() string {
	return fmt.Sprintf("%s#%016x", k.Source, k.Hash)
}

// DatasetCache stores parsed tables. Tables are immutable, so a cached
// table can be shared between sessions.
type DatasetCache interface {
	// Get returns the table stored under key.
	Get(ctx context.Context, key Key) (*table.Table, bool)

	// Put stores t under key, evicting the oldest entry when full.
	Put(ctx context.Context, key Key, t *table.Table)

	Size() int64
}

// node is one entry in the insertion-ordered list, newest at head.
type node struct {
	key   Key
	table *table.Table
	next  *node
}

func (n *node) reset() {
	n.key = Key{}
	n.table = nil
	n.next = nil
}

type inMemoryCache struct {
	mu       sync.Mutex
	entries  map[Key]*node
	head     *node
	maxSize  int
	size     atomic.Int64
	nodePool sync.Pool
}

// NewInMemoryCache creates a bounded dataset cache.
func NewInMemoryCache(opts ...Option) DatasetCache {
	c := &inMemoryCache{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.entries = make(map[Key]*node)
	c.nodePool = sync.Pool{
		New: func() interface{} {
			return &node{}
		},
	}
	return c
}

func (c *inMemoryCache) Get(_ context.Context, key Key) (*table.Table, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		metrics.RecordCacheMiss()
		return nil, false
	}
	metrics.RecordCacheHit()
	return n.table, true
}

func (c *inMemoryCache) Put(_ context.Context, key Key, t *table.Table) {
	if c.maxSize <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.entries[key]; ok {
		n.table = t
		return
	}
	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	n := c.nodePool.Get().(*node)
	n.key = key
	n.table = t
	n.next = c.head
	c.head = n
	c.entries[key] = n
	c.size.Add(1)
	metrics.UpdateCacheEntries(len(c.entries))
}

// evictOldest removes the tail of the list. Must be called with c.mu held.
func (c *inMemoryCache) evictOldest() {
	if c.head == nil {
		return
	}

	var prev *node
	current := c.head
	for current.next != nil {
		prev = current
		current = current.next
	}

	if prev == nil {
		c.head = nil
	} else {
		prev.next = nil
	}
	delete(c.entries, current.key)
	current.reset()
	c.nodePool.Put(current)
	c.size.Add(-1)
}

func (c *inMemoryCache) Size() int64 {
	return c.size.Load()
}
