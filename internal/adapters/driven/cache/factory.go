// Package cache selects the FileCache implementation from settings.
package cache

import (
	"fmt"

	"github.com/custodia-labs/sceneload/internal/adapters/driven/cache/memory"
	"github.com/custodia-labs/sceneload/internal/adapters/driven/cache/nocache"
	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

// New creates the file cache described by settings.
func New(settings domain.CacheSettings) (driven.FileCache, error) {
	switch settings.Mode {
	case domain.CacheModeNone:
		return nocache.New(), nil
	case domain.CacheModeMemory, "":
		c, err := memory.New(settings.MaxEntries)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("cache mode %q: %w", settings.Mode, domain.ErrInvalidInput)
	}
}
