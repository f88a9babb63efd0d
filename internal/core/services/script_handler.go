package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
	"github.com/custodia-labs/sceneload/internal/logger"
)

// ScriptHandlerKind identifies requests served by the script handler.
const ScriptHandlerKind = "script"

// Ensure ScriptHandler implements the interface.
var _ driven.LoadRequestHandler = (*ScriptHandler)(nil)

// inlineScriptTypes maps inline pseudo-schemes to the content type of their source.
var inlineScriptTypes = map[string]string{
	"javascript": ContentTypeJavaScript,
	"ecmascript": ContentTypeECMAScript,
	"vrmlscript": ContentTypeVRMLScript,
}

// ScriptHandler loads script source or compiled classes and builds them
// with the engine registered for each consumer's specification version.
type ScriptHandler struct {
	fetcher fetcher
	engines *EngineRegistry
	classes []driven.ClassLoader
}

// NewScriptHandler creates a script handler. classLoaders are tried in
// order for ".class" URLs; cache may be nil.
func NewScriptHandler(
	loader driven.ResourceLoader,
	cache driven.FileCache,
	engines *EngineRegistry,
	classLoaders ...driven.ClassLoader,
) *ScriptHandler {
	if engines == nil {
		engines = NewEngineRegistry()
	}
	return &ScriptHandler{
		fetcher: fetcher{loader: loader, cache: cache},
		engines: engines,
		classes: classLoaders,
	}
}

// Engines returns the handler's engine registry.
func (h *ScriptHandler) Engines() *EngineRegistry {
	return h.engines
}

// Kind returns the handler kind.
func (h *ScriptHandler) Kind() string {
	return ScriptHandlerKind
}

// ProcessLoadRequest loads the first candidate an engine accepts.
func (h *ScriptHandler) ProcessLoadRequest(
	ctx context.Context,
	reporter driven.ErrorReporter,
	urls []string,
	consumers driven.Consumers,
) domain.LoadOutcome {
	cycle := &loadCycle{
		kind:      ScriptHandlerKind,
		reporter:  reporter,
		consumers: consumers,
		fetch:     h.fetch,
		prepare:   h.build,
		accepted:  h.accepted,
		installed: scriptLoaded,
		failed:    scriptFailed,
	}
	return cycle.run(ctx, urls)
}

// fetch resolves one candidate: inline source needs no I/O, compiled
// classes go through the class loader chain, everything else through
// the transport.
func (h *ScriptHandler) fetch(ctx context.Context, url string) (*fetched, error) {
	if domain.IsInlineScriptURL(url) {
		return inlineScript(url), nil
	}
	if isClassURL(url) {
		class, err := h.loadClass(ctx, url)
		if err != nil {
			return nil, err
		}
		return &fetched{url: url, contentType: ContentTypeScriptClass, content: class}, nil
	}
	res, err := h.fetcher.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if b, ok := res.content.([]byte); ok {
		res.content = string(b)
	}
	return res, nil
}

// loadClass tries each class loader in turn.
func (h *ScriptHandler) loadClass(ctx context.Context, url string) (any, error) {
	if len(h.classes) == 0 {
		return nil, fmt.Errorf("%s: %w", url, domain.ErrClassNotFound)
	}
	var errs []error
	for _, cl := range h.classes {
		class, err := cl.LoadClass(ctx, url)
		if err == nil {
			return class, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Debug("script: class loader failed for %s: %v", url, err)
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("%s: %w", url, errors.Join(append([]error{domain.ErrClassNotFound}, errs...)...))
}

// build runs the consumer's engine over the fetched source.
func (h *ScriptHandler) build(ctx context.Context, d *driven.LoadDetails, res *fetched) (any, error) {
	version := domain.SpecX3D
	if d.Script != nil {
		version = d.Script.SpecVersion
	}
	engine, err := h.engines.Lookup(version, res.contentType)
	if err != nil {
		return nil, err
	}
	return engine.Build(ctx, res.contentType, res.content)
}

// accepted caches fetched source text. Inline source and classes are not cached.
func (h *ScriptHandler) accepted(res *fetched) {
	if domain.IsInlineScriptURL(res.url) || res.contentType == ContentTypeScriptClass {
		return
	}
	h.fetcher.store(res)
}

func scriptLoaded(d *driven.LoadDetails, res *fetched) {
	if d.Script != nil && d.Script.Status != nil {
		d.Script.Status.ScriptLoaded(d.Node, res.url)
	}
}

func scriptFailed(d *driven.LoadDetails, err error) {
	if d.Script != nil && d.Script.Status != nil {
		d.Script.Status.ScriptFailed(d.Node, err)
	}
}

// inlineScript returns the source embedded in a pseudo-scheme URL.
func inlineScript(url string) *fetched {
	url = strings.TrimSpace(url)
	scheme, source, _ := strings.Cut(url, ":")
	return &fetched{
		url:         url,
		contentType: inlineScriptTypes[strings.ToLower(scheme)],
		content:     source,
	}
}

// isClassURL returns true for URLs naming a compiled script class.
func isClassURL(url string) bool {
	if domain.IsInlineScriptURL(url) {
		return false
	}
	path := domain.StripFragment(url)
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return strings.HasSuffix(strings.ToLower(path), ".class")
}
