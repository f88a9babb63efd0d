package domain

import "errors"

// Domain errors represent loading failures.
// These are distinct from transport errors, which are wrapped around them.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoURLs indicates a node declared no candidate URLs.
	ErrNoURLs = errors.New("no candidate urls")

	// ErrUnsupportedScheme indicates no transport can open a URL scheme.
	ErrUnsupportedScheme = errors.New("unsupported url scheme")

	// ErrUnsupportedContentType indicates no consumer accepted the content type.
	ErrUnsupportedContentType = errors.New("unsupported content type")

	// ErrNoDecoder indicates no decoder is registered for a content type.
	ErrNoDecoder = errors.New("no decoder for content type")

	// ErrAllURLsFailed indicates every candidate URL was tried without success.
	ErrAllURLsFailed = errors.New("all candidate urls failed")

	// ErrStaleResult indicates content arrived for a URL that has since changed.
	ErrStaleResult = errors.New("stale load result")

	// ErrAborted indicates a load was cancelled by request.
	ErrAborted = errors.New("load aborted")

	// Queue Errors.

	// ErrQueueClosed indicates the load queue has been purged for shutdown.
	ErrQueueClosed = errors.New("load queue closed")

	// Script Errors.

	// ErrNoEngine indicates no scripting engine is registered for a
	// specification version and MIME type.
	ErrNoEngine = errors.New("no scripting engine registered")

	// ErrClassNotFound indicates a compiled script class could not be loaded.
	ErrClassNotFound = errors.New("script class not found")

	// World Errors.

	// ErrNoWorldLoader indicates no world loader is registered for a renderer type.
	ErrNoWorldLoader = errors.New("no world loader for renderer")

	// ErrNotSceneDocument indicates a world load produced content that is not a scene.
	ErrNotSceneDocument = errors.New("content is not a scene document")
)
