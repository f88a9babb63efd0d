package services

import (
	"context"

	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

// ContentHandlerKind identifies requests served by the content handler.
const ContentHandlerKind = "content"

// Ensure ContentHandler implements the interface.
var _ driven.LoadRequestHandler = (*ContentHandler)(nil)

// ContentHandler loads textures, inlines, audio, shaders and externprotos.
// Content is fetched once per request and installed into every consumer
// whose field accepts its type.
type ContentHandler struct {
	fetcher fetcher
	scenes  driven.SceneQueuer
}

// ContentHandlerOption configures a ContentHandler.
type ContentHandlerOption func(*ContentHandler)

// WithProgress reports download start and end to listener.
func WithProgress(listener driven.ProgressListener) ContentHandlerOption {
	return func(h *ContentHandler) {
		h.fetcher.progress = listener
	}
}

// WithCachedImages allows decoded images into the file cache.
func WithCachedImages(enabled bool) ContentHandlerOption {
	return func(h *ContentHandler) {
		h.fetcher.cacheImages = enabled
	}
}

// WithSceneQueuer queues the external resources of installed inline scenes.
func WithSceneQueuer(queuer driven.SceneQueuer) ContentHandlerOption {
	return func(h *ContentHandler) {
		h.scenes = queuer
	}
}

// NewContentHandler creates a content handler. cache may be nil.
func NewContentHandler(
	loader driven.ResourceLoader,
	cache driven.FileCache,
	opts ...ContentHandlerOption,
) *ContentHandler {
	h := &ContentHandler{
		fetcher: fetcher{loader: loader, cache: cache},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SetSceneQueuer sets the queuer for nested scenes after construction,
// since the queuer is usually the manager that owns this handler.
func (h *ContentHandler) SetSceneQueuer(queuer driven.SceneQueuer) {
	h.scenes = queuer
}

// Kind returns the handler kind.
func (h *ContentHandler) Kind() string {
	return ContentHandlerKind
}

// ProcessLoadRequest fetches the first loadable candidate and installs it.
func (h *ContentHandler) ProcessLoadRequest(
	ctx context.Context,
	reporter driven.ErrorReporter,
	urls []string,
	consumers driven.Consumers,
) domain.LoadOutcome {
	cycle := &loadCycle{
		kind:      ContentHandlerKind,
		reporter:  reporter,
		consumers: consumers,
		fetch:     h.fetcher.fetch,
		accepted:  h.fetcher.store,
		installed: h.installed,
	}
	return cycle.run(ctx, urls)
}

// installed queues the resources of an inline scene once it is in place.
func (h *ContentHandler) installed(_ *driven.LoadDetails, res *fetched) {
	if h.scenes == nil {
		return
	}
	if scene, ok := res.content.(driven.Scene); ok {
		h.scenes.QueueSceneLoad(scene)
	}
}
