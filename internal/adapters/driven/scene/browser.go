package scene

import (
	"sync"
	"time"

	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

// Ensure Browser implements the interfaces.
var (
	_ driven.Browser   = (*Browser)(nil)
	_ driven.FrameHost = (*Browser)(nil)
)

// Browser is a headless world owner. It holds the current world and the
// frame interval the throttle asked for.
type Browser struct {
	mu            sync.RWMutex
	world         driven.WorldDocument
	url           string
	loading       bool
	frameInterval time.Duration
	onReplace     func(doc driven.WorldDocument, url string)
}

// NewBrowser creates a browser with no world. onReplace, if set, is called
// after every world replacement.
func NewBrowser(onReplace func(doc driven.WorldDocument, url string)) *Browser {
	return &Browser{onReplace: onReplace}
}

// ReplaceWorld makes doc the current world and ends the loading phase.
func (b *Browser) ReplaceWorld(doc driven.WorldDocument, url string) error {
	b.mu.Lock()
	b.world = doc
	b.url = url
	b.loading = false
	b.mu.Unlock()

	if b.onReplace != nil {
		b.onReplace(doc, url)
	}
	return nil
}

// World returns the current world and its URL.
func (b *Browser) World() (driven.WorldDocument, string) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.world, b.url
}

// SetWorldLoading marks the start or end of a main world load.
func (b *Browser) SetWorldLoading(loading bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading = loading
}

// IsWorldLoading returns true while the main world is loading.
func (b *Browser) IsWorldLoading() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loading
}

// SetMinimumFrameInterval records the requested frame pacing.
func (b *Browser) SetMinimumFrameInterval(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frameInterval = d
}

// FrameInterval returns the last requested frame interval.
func (b *Browser) FrameInterval() time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.frameInterval
}
