// Package watcher reloads node content when a local file it came from
// changes on disk.
package watcher

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/sceneload/internal/adapters/driven/transport"
	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
	"github.com/custodia-labs/sceneload/internal/logger"
)

// DefaultDebounce is how long a file must stay quiet before it is reloaded.
const DefaultDebounce = 100 * time.Millisecond

// target is one node field that loads from a watched file.
type target struct {
	node  driven.ExternalNode
	field int
	url   string
}

// Watcher watches the local files node fields load from. When a file is
// written or recreated its cache entry is evicted and the field's URL
// listener is told to load it again.
type Watcher struct {
	cache    driven.FileCache
	listener driven.URLListener
	debounce time.Duration

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	targets map[string][]target
	dirs    map[string]struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long a file must stay quiet before reloading.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// New creates a watcher. cache may be nil.
func New(cache driven.FileCache, listener driven.URLListener, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	w := &Watcher{
		cache:    cache,
		listener: listener,
		debounce: DefaultDebounce,
		fsw:      fsw,
		targets:  make(map[string][]target),
		dirs:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// TrackScene tracks every URL field of every node in scene.
func (w *Watcher) TrackScene(scene driven.Scene) error {
	for _, group := range [][]driven.ExternalNode{
		scene.ExternProtos(),
		scene.SingleURLNodes(),
		scene.MultiURLNodes(),
	} {
		for _, node := range group {
			for _, field := range node.URLFields() {
				if err := w.Track(node, field); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Track watches the local files among a field's candidate URLs. Remote
// URLs are ignored. The containing directory is watched so editors that
// replace files on save are still seen.
func (w *Watcher) Track(node driven.ExternalNode, field int) error {
	for _, u := range domain.CleanURLs(node.URLs(field)) {
		if transport.Scheme(u) != "file" {
			continue
		}
		path, err := transport.ResolvePath(u)
		if err != nil {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if err := w.watchDir(filepath.Dir(path)); err != nil {
			return err
		}

		w.mu.Lock()
		w.targets[path] = appendTarget(w.targets[path], target{node: node, field: field, url: u})
		w.mu.Unlock()
		logger.Debug("watcher: tracking %s for %s", path, node.NodeName())
	}
	return nil
}

func appendTarget(ts []target, t target) []target {
	for _, existing := range ts {
		if existing.node == t.node && existing.field == t.field && existing.url == t.url {
			return ts
		}
	}
	return append(ts, t)
}

func (w *Watcher) watchDir(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.dirs[dir]; ok {
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.dirs[dir] = struct{}{}
	return nil
}

// Tracked returns the number of watched files.
func (w *Watcher) Tracked() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.targets)
}

// Run delivers reloads until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if len(w.handleEvent(event)) == 0 {
				continue
			}
			pending[filepath.Clean(event.Name)] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Printf("watcher: %v", err)

		case <-timer.C:
			for path := range pending {
				w.reload(path)
			}
			pending = make(map[string]struct{})
		}
	}
}

// handleEvent returns the targets affected by event.
func (w *Watcher) handleEvent(event fsnotify.Event) []target {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]target(nil), w.targets[filepath.Clean(event.Name)]...)
}

// reload evicts the cached content of path and re-queues its fields.
func (w *Watcher) reload(path string) {
	w.mu.Lock()
	targets := append([]target(nil), w.targets[path]...)
	w.mu.Unlock()

	for _, t := range targets {
		if w.cache != nil {
			w.cache.Evict(t.url)
		}
		logger.Info("watcher: %s changed, reloading %s", filepath.Base(path), t.node.NodeName())
		if w.listener != nil {
			w.listener.URLChanged(t.node, t.field)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
