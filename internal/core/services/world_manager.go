package services

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
	"github.com/custodia-labs/sceneload/internal/core/ports/driving"
	"github.com/custodia-labs/sceneload/internal/logger"
)

// Ensure WorldLoaderManager implements the interface.
var _ driving.WorldManager = (*WorldLoaderManager)(nil)

// WorldLoaderFactory creates a world loader for one renderer type.
type WorldLoaderFactory func() driven.WorldLoader

// WorldLoaderManager queues whole-document loads and pools world loaders
// per renderer type. A pooled loader is never used by two loads at once.
type WorldLoaderManager struct {
	pool    *LoaderPool
	handler *WorldHandler

	mu        sync.Mutex
	factories map[string]WorldLoaderFactory
	idle      map[string][]driven.WorldLoader
	scenes    []driven.SceneQueuer
}

// NewWorldLoaderManager creates a manager that loads documents through
// loader. Loaded scenes are passed to every queuer so their external
// resources load in turn.
func NewWorldLoaderManager(
	pool *LoaderPool,
	loader driven.ResourceLoader,
	progress driven.ProgressListener,
	scenes ...driven.SceneQueuer,
) *WorldLoaderManager {
	m := &WorldLoaderManager{
		pool:      pool,
		factories: make(map[string]WorldLoaderFactory),
		idle:      make(map[string][]driven.WorldLoader),
		scenes:    scenes,
	}
	m.handler = &WorldHandler{loader: loader, loaders: m, progress: progress}
	return m
}

// Handler returns the world handler the manager queues requests with.
func (m *WorldLoaderManager) Handler() *WorldHandler {
	return m.handler
}

// RegisterLoader registers the factory for a renderer type.
func (m *WorldLoaderManager) RegisterLoader(rendererType string, factory WorldLoaderFactory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.factories[rendererType] = factory
	delete(m.idle, rendererType)
}

// FetchLoader returns an idle loader for rendererType, creating one if the
// pool is empty. The caller must release it when done.
func (m *WorldLoaderManager) FetchLoader(rendererType string) (driven.WorldLoader, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if idle := m.idle[rendererType]; len(idle) > 0 {
		wl := idle[len(idle)-1]
		m.idle[rendererType] = idle[:len(idle)-1]
		return wl, nil
	}
	factory, ok := m.factories[rendererType]
	if !ok {
		return nil, fmt.Errorf("%q: %w", rendererType, domain.ErrNoWorldLoader)
	}
	wl := factory()
	if wl == nil {
		return nil, fmt.Errorf("%q: factory returned nil: %w", rendererType, domain.ErrNoWorldLoader)
	}
	return wl, nil
}

// ReleaseLoader returns a loader to its renderer type's pool.
func (m *WorldLoaderManager) ReleaseLoader(wl driven.WorldLoader) {
	if wl == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rt := wl.RendererType()
	if _, ok := m.factories[rt]; !ok {
		return
	}
	m.idle[rt] = append(m.idle[rt], wl)
}

// AddSceneQueuer adds a queuer for the resources of loaded documents.
func (m *WorldLoaderManager) AddSceneQueuer(q driven.SceneQueuer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenes = append(m.scenes, q)
}

// LoadURL queues a load that replaces the browser's world with the first
// loadable URL. done is called once with the document or the error.
func (m *WorldLoaderManager) LoadURL(
	urls []string,
	browser driven.Browser,
	rendererType string,
	done func(driven.WorldDocument, error),
) {
	m.queue(urls, &driven.WorldDetails{
		Mode:         domain.WorldReplace,
		RendererType: rendererType,
		Browser:      browser,
		Done:         done,
	})
}

// CreateFromURL queues a load that adds the first loadable URL's root
// children to target's field and its routes to space.
func (m *WorldLoaderManager) CreateFromURL(
	urls []string,
	target driven.ChildrenTarget,
	field int,
	space driven.ExecutionSpace,
	rendererType string,
	done func(driven.WorldDocument, error),
) {
	m.queue(urls, &driven.WorldDetails{
		Mode:         domain.WorldCreate,
		RendererType: rendererType,
		Target:       target,
		Field:        field,
		Space:        space,
		Done:         done,
	})
}

func (m *WorldLoaderManager) queue(urls []string, world *driven.WorldDetails) {
	if len(domain.CleanURLs(urls)) == 0 {
		logger.Debug("world: %s load with no urls", world.Mode)
		if world.Done != nil {
			world.Done(nil, domain.ErrNoURLs)
		}
		return
	}
	details := &driven.LoadDetails{
		ID:    uuid.NewString(),
		World: world,
	}
	m.pool.EnsureRunning()
	if m.pool.Queue().Add(domain.SortInlines, urls, m.handler, details) {
		logger.Debug("world: coalesced %s load of %s", world.Mode, urls[0])
	}
}

// NumberInProgress returns the number of outstanding world loads.
func (m *WorldLoaderManager) NumberInProgress() int {
	return m.pool.Queue().CountKind(WorldHandlerKind)
}

// queueScene passes a loaded document to every scene queuer.
func (m *WorldLoaderManager) queueScene(doc driven.WorldDocument) {
	m.mu.Lock()
	scenes := append([]driven.SceneQueuer(nil), m.scenes...)
	m.mu.Unlock()
	for _, q := range scenes {
		q.QueueSceneLoad(doc)
	}
}
