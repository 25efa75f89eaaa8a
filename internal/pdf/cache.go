package pdf

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/a3tai/mcp-pdf-layout/internal/layout"
)

// DocumentCache keeps the most recently reconstructed documents keyed by a
// digest of their bytes, so converting the same upload to several formats
// parses it once. Cached documents are shared and must not be mutated.
type DocumentCache struct {
	mutex    sync.Mutex
	capacity int
	items    map[string]*cacheNode
	head     *cacheNode // most recently used
	tail     *cacheNode // least recently used
	hits     int64
	misses   int64
}

type cacheNode struct {
	key  string
	doc  *layout.Document
	prev *cacheNode
	next *cacheNode
}

// CacheStats reports cache effectiveness
type CacheStats struct {
	Hits     int64 `json:"hits"`
	Misses   int64 `json:"misses"`
	Size     int   `json:"size"`
	Capacity int   `json:"capacity"`
}

// NewDocumentCache creates a cache holding up to capacity documents. A
// non-positive capacity returns nil, which disables caching.
func NewDocumentCache(capacity int) *DocumentCache {
	if capacity <= 0 {
		return nil
	}

	c := &DocumentCache{
		capacity: capacity,
		items:    make(map[string]*cacheNode),
		head:     &cacheNode{},
		tail:     &cacheNode{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// CacheKey returns the digest used to look documents up
func CacheKey(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Get returns the document for key and marks it as recently used
func (c *DocumentCache) Get(key string) (*layout.Document, bool) {
	if c == nil {
		return nil, false
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()

	node, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.moveToFront(node)
	c.hits++
	return node.doc, true
}

// Put stores doc, evicting the least recently used entry when full
func (c *DocumentCache) Put(key string, doc *layout.Document) {
	if c == nil {
		return
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if node, ok := c.items[key]; ok {
		node.doc = doc
		c.moveToFront(node)
		return
	}

	node := &cacheNode{key: key, doc: doc}
	c.addToFront(node)
	c.items[key] = node

	if len(c.items) > c.capacity {
		lru := c.tail.prev
		c.removeNode(lru)
		delete(c.items, lru.key)
	}
}

// Stats returns hit and miss counters
func (c *DocumentCache) Stats() CacheStats {
	if c == nil {
		return CacheStats{}
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return CacheStats{
		Hits:     c.hits,
		Misses:   c.misses,
		Size:     len(c.items),
		Capacity: c.capacity,
	}
}

func (c *DocumentCache) moveToFront(node *cacheNode) {
	c.removeNode(node)
	c.addToFront(node)
}

func (c *DocumentCache) addToFront(node *cacheNode) {
	node.prev = c.head
	node.next = c.head.next
	c.head.next.prev = node
	c.head.next = node
}

func (c *DocumentCache) removeNode(node *cacheNode) {
	node.prev.next = node.next
	node.next.prev = node.prev
}
