// Package memory provides a bounded, least-recently-used FileCache.
package memory

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.FileCache = (*Cache)(nil)

// DefaultMaxEntries is used when a non-positive size is requested.
const DefaultMaxEntries = 256

// Cache holds up to a fixed number of decoded resources. The least recently
// used entry is dropped when the cache is full.
type Cache struct {
	entries *lru.Cache[string, *domain.CacheDetails]
}

// New creates a cache holding at most maxEntries resources.
func New(maxEntries int) (*Cache, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	entries, err := lru.New[string, *domain.CacheDetails](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// CheckForFile returns the entry for url and marks it recently used.
func (c *Cache) CheckForFile(url string) (*domain.CacheDetails, bool) {
	return c.entries.Get(url)
}

// CacheFile stores content for url, replacing any previous entry.
func (c *Cache) CacheFile(url, contentType string, content any) {
	if url == "" || content == nil {
		return
	}
	c.entries.Add(url, &domain.CacheDetails{
		URL:         url,
		ContentType: contentType,
		Content:     content,
	})
}

// Evict drops the entry for url.
func (c *Cache) Evict(url string) {
	c.entries.Remove(url)
}

// Len returns the number of entries held.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.entries.Purge()
}
