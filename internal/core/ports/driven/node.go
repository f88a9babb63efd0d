package driven

import "github.com/custodia-labs/sceneload/internal/core/domain"

// ExternalNode is a scene-graph node with one or more URL fields whose
// content lives outside the scene document (textures, inlines, scripts,
// audio, shaders, externprotos).
//
// The node owns its field values and load states; the loader only reads
// URLs and writes content and states. A node bumps URLEpoch for a field
// every time that field's URL list is replaced.
type ExternalNode interface {
	// NodeName returns a name for log messages.
	NodeName() string

	// PrimaryType returns the node's main abstract type.
	PrimaryType() domain.NodeType

	// SecondaryTypes returns additional abstract types (e.g. audio for a movie texture).
	SecondaryTypes() []domain.NodeType

	// URLFields returns the indexes of the node's URL fields.
	URLFields() []int

	// URLs returns the candidate URLs of a field in preference order.
	URLs(field int) []string

	// URLEpoch returns a counter incremented on every URL change of a field.
	URLEpoch(field int) uint64

	// LoadState returns the load state of a field.
	LoadState(field int) domain.LoadState

	// SetLoadState updates the load state of a field.
	SetLoadState(field int, state domain.LoadState)

	// SetLoadedURI records which candidate URL produced the field's content.
	SetLoadedURI(field int, uri string)

	// CheckValidContentType returns true if the field accepts the MIME type.
	CheckValidContentType(field int, contentType string) bool

	// SetContent installs decoded content into a field.
	SetContent(field int, contentType string, content any) error

	// AddURLListener registers a listener for URL changes.
	// Registering the same listener twice has no additional effect.
	AddURLListener(l URLListener)
}

// URLListener is notified when a node's URL field is changed at runtime.
type URLListener interface {
	URLChanged(node ExternalNode, field int)
}

// Scene enumerates the external-resource nodes of a parsed scene.
type Scene interface {
	// ExternProtos returns externproto declarations whose body lives at a URL.
	ExternProtos() []ExternalNode

	// SingleURLNodes returns nodes with one URL field.
	SingleURLNodes() []ExternalNode

	// MultiURLNodes returns nodes with several URL fields.
	MultiURLNodes() []ExternalNode
}
