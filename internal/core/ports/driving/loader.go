package driving

import (
	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

// LoadManager is the scene-facing façade of the loader. All methods are
// fire-and-forget: results surface only as node load states and reporter
// messages.
type LoadManager interface {
	driven.URLListener

	// QueueSceneLoad queues every external resource of a scene:
	// externprotos first, then single-URL nodes, then multi-URL nodes.
	QueueSceneLoad(scene driven.Scene)

	// StopSceneLoad withdraws every registration made for a scene.
	StopSceneLoad(scene driven.Scene)

	// QueueNodesLoad queues an explicit set of nodes, e.g. nodes created by a script.
	QueueNodesLoad(nodes []driven.ExternalNode)

	// Clear drops all pending work, aborts in-flight loads and restarts the pool.
	Clear()

	// NumberInProgress returns the number of outstanding requests.
	NumberInProgress() int
}

// ScriptManager loads script content and resolves scripting engines.
type ScriptManager interface {
	LoadManager

	// RegisterEngine maps a specification version and MIME type to an engine.
	RegisterEngine(version domain.ScriptSpecVersion, contentType string, engine driven.ScriptEngine)
}

// WorldManager loads whole scene documents.
type WorldManager interface {
	// LoadURL replaces the browser's world with the first loadable URL.
	LoadURL(urls []string, browser driven.Browser, rendererType string, done func(driven.WorldDocument, error))

	// CreateFromURL injects the first loadable URL's root children into
	// target's field and merges its routes into space.
	CreateFromURL(urls []string, target driven.ChildrenTarget, field int, space driven.ExecutionSpace,
		rendererType string, done func(driven.WorldDocument, error))

	// NumberInProgress returns the number of outstanding world loads.
	NumberInProgress() int
}

// LoaderPool runs the workers that drain the shared load queue.
type LoaderPool interface {
	// EnsureRunning starts workers if they are not running.
	EnsureRunning()

	// Clear drops pending work and aborts in-flight loads.
	Clear()

	// Shutdown stops all workers and waits for them to exit.
	Shutdown()

	// NumberInProgress returns pending plus in-flight requests.
	NumberInProgress() int
}
