package driven

import (
	"context"

	"github.com/custodia-labs/sceneload/internal/core/domain"
)

// ScriptEngine builds runnable script content from fetched source or a
// loaded class. Engines are registered per specification version and
// MIME type.
type ScriptEngine interface {
	// Build wraps source (a string for text scripts, the class loader's
	// result for compiled classes) into the content installed on the node.
	Build(ctx context.Context, contentType string, source any) (any, error)
}

// ClassLoader loads a compiled script class named by a URL ending in ".class".
type ClassLoader interface {
	LoadClass(ctx context.Context, url string) (any, error)
}

// ScriptStatusListener is told when a script node finishes loading.
type ScriptStatusListener interface {
	ScriptLoaded(node ExternalNode, url string)
	ScriptFailed(node ExternalNode, err error)
}

// ScriptNode is implemented by script nodes that know which specification
// version they were declared under and who to tell about their status.
// Nodes that do not implement it use the loader's defaults.
type ScriptNode interface {
	ExternalNode
	SpecVersion() domain.ScriptSpecVersion
	StatusListener() ScriptStatusListener
}
