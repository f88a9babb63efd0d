package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/sceneload/internal/core/domain"
)

// WorldDocument is a parsed scene document.
type WorldDocument interface {
	Scene

	// RootChildren returns the top-level nodes of the document.
	RootChildren() []any

	// Routes returns the document's routes.
	Routes() []domain.Route
}

// WorldLoader parses scene documents for one renderer type. Instances are
// pooled and reused, but never used by two loads at once.
type WorldLoader interface {
	// RendererType returns the renderer the loader builds scenes for.
	RendererType() string

	// Load parses a scene document read from r.
	Load(ctx context.Context, r io.Reader, baseURL, contentType string) (WorldDocument, error)
}

// Browser owns the current world.
type Browser interface {
	// ReplaceWorld makes doc the current scene.
	ReplaceWorld(doc WorldDocument, url string) error
}

// ChildrenTarget is a node field that accepts transplanted children.
type ChildrenTarget interface {
	NodeName() string
	AddChildren(field int, children []any) error
}

// ExecutionSpace owns routes for a scene or proto body.
type ExecutionSpace interface {
	AddRoutes(routes []domain.Route) error
}

// SceneQueuer queues the external resources of a freshly loaded scene.
type SceneQueuer interface {
	QueueSceneLoad(scene Scene)
}
