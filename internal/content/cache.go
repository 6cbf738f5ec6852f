package content

import (
	"fmt"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds a Cache created with a non-positive size.
const DefaultCacheSize = 2048

// Cache is an explicit, caller-owned document cache keyed by absolute path.
// It is safe for concurrent use. Nothing in this package holds one implicitly.
type Cache struct {
	docs *lru.Cache[string, *Document]
}

// NewCache creates a cache holding at most size documents.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	docs, err := lru.New[string, *Document](size)
	if err != nil {
		return nil, fmt.Errorf("create document cache: %w", err)
	}
	return &Cache{docs: docs}, nil
}

// Get returns the cached document for path.
func (c *Cache) Get(path string) (*Document, bool) {
	return c.docs.Get(cacheKey(path))
}

// Add stores doc under path.
func (c *Cache) Add(path string, doc *Document) {
	c.docs.Add(cacheKey(path), doc)
}

// Load returns the cached document for path, calling load on a miss.
// Failed loads are not cached.
func (c *Cache) Load(path string, load func() (*Document, error)) (*Document, error) {
	if doc, ok := c.Get(path); ok {
		return doc, nil
	}
	doc, err := load()
	if err != nil {
		return nil, err
	}
	c.Add(path, doc)
	return doc, nil
}

// Invalidate drops path from the cache. Invalidating a directory drops every
// document below it.
func (c *Cache) Invalidate(path string) int {
	key := cacheKey(path)
	removed := 0
	if c.docs.Remove(key) {
		removed++
	}
	prefix := strings.TrimSuffix(key, "/") + "/"
	for _, k := range c.docs.Keys() {
		if strings.HasPrefix(k, prefix) && c.docs.Remove(k) {
			removed++
		}
	}
	return removed
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.docs.Purge()
}

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	return c.docs.Len()
}

func cacheKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return filepath.ToSlash(filepath.Clean(path))
}
