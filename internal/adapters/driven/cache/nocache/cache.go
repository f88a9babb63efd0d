// Package nocache provides a FileCache that never stores anything.
package nocache

import (
	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.FileCache = Cache{}

// Cache always misses. Use it to force every load to hit the transport.
type Cache struct{}

// New creates a no-op cache.
func New() Cache {
	return Cache{}
}

// CheckForFile always reports a miss.
func (Cache) CheckForFile(string) (*domain.CacheDetails, bool) {
	return nil, false
}

// CacheFile discards the content.
func (Cache) CacheFile(string, string, any) {}

// Evict does nothing.
func (Cache) Evict(string) {}

// Len always returns zero.
func (Cache) Len() int {
	return 0
}
