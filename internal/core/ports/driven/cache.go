package driven

import "github.com/custodia-labs/sceneload/internal/core/domain"

// FileCache maps a normalised resource URL to decoded content.
// Implementations must be safe for concurrent use. A hit is advisory:
// callers must not assume an entry survives between lookups.
type FileCache interface {
	// CheckForFile returns the cached entry for url, if present.
	CheckForFile(url string) (*domain.CacheDetails, bool)

	// CacheFile stores decoded content for url.
	CacheFile(url, contentType string, content any)

	// Evict drops any entry for url.
	Evict(url string)

	// Len returns the number of entries currently held.
	Len() int
}
