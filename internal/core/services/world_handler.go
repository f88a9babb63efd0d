package services

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
	"github.com/custodia-labs/sceneload/internal/logger"
)

// WorldHandlerKind identifies requests served by the world handler.
const WorldHandlerKind = "world"

// Ensure WorldHandler implements the interface.
var _ driven.LoadRequestHandler = (*WorldHandler)(nil)

// WorldHandler loads whole scene documents, either replacing the browser's
// world or injecting the document's root children into a node field.
// Each consumer gets its own parse from a pooled world loader.
type WorldHandler struct {
	loader   driven.ResourceLoader
	loaders  *WorldLoaderManager
	progress driven.ProgressListener
}

// Kind returns the handler kind.
func (h *WorldHandler) Kind() string {
	return WorldHandlerKind
}

// ProcessLoadRequest reads the first readable candidate and hands a parsed
// document to every consumer.
func (h *WorldHandler) ProcessLoadRequest(
	ctx context.Context,
	reporter driven.ErrorReporter,
	urls []string,
	consumers driven.Consumers,
) domain.LoadOutcome {
	c := &worldCycle{
		handler:   h,
		reporter:  reporter,
		consumers: consumers,
		settled:   make(map[*driven.LoadDetails]struct{}),
		errs:      make(map[*driven.LoadDetails]error),
	}
	return c.run(ctx, urls)
}

// read opens url and reads the whole document.
func (h *WorldHandler) read(ctx context.Context, url string) ([]byte, string, error) {
	if h.loader == nil {
		return nil, "", fmt.Errorf("open %s: %w", url, domain.ErrUnsupportedScheme)
	}
	if h.progress != nil {
		h.progress.DownloadStarted(url)
	}
	body, contentType, err := h.readBody(ctx, url)
	if h.progress != nil {
		h.progress.DownloadEnded(url, err)
	}
	return body, contentType, err
}

func (h *WorldHandler) readBody(ctx context.Context, url string) ([]byte, string, error) {
	conn, err := h.loader.Open(ctx, url)
	if err != nil {
		return nil, "", err
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()
	defer conn.Close()

	body, err := io.ReadAll(conn.Body())
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, "", ctxErr
	}
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", url, err)
	}
	return body, domain.BaseContentType(conn.ContentType()), nil
}

// parse runs a pooled world loader for rendererType over body.
func (h *WorldHandler) parse(ctx context.Context, rendererType, url, contentType string, body []byte) (driven.WorldDocument, error) {
	if h.loaders == nil {
		return nil, fmt.Errorf("%s: %w", rendererType, domain.ErrNoWorldLoader)
	}
	wl, err := h.loaders.FetchLoader(rendererType)
	if err != nil {
		return nil, err
	}
	defer h.loaders.ReleaseLoader(wl)
	return wl.Load(ctx, bytes.NewReader(body), url, contentType)
}

// worldCycle is one dispatch of a world request. Each consumer's
// completion callback is called exactly once. A consumer that cannot use
// one candidate keeps trying the later ones even after others succeeded.
type worldCycle struct {
	handler   *WorldHandler
	reporter  driven.ErrorReporter
	consumers driven.Consumers
	settled   map[*driven.LoadDetails]struct{}

	// errs holds each consumer's last parse or install error.
	errs map[*driven.LoadDetails]error
}

func (c *worldCycle) run(ctx context.Context, urls []string) domain.LoadOutcome {
	var out domain.LoadOutcome
	candidates := domain.CleanURLs(urls)
	if len(candidates) == 0 {
		out.Err = domain.ErrNoURLs
		c.finish(&out, domain.ErrNoURLs)
		return out
	}
	out.URL = candidates[0]

	var lastErr error
	for _, u := range candidates {
		if len(c.pending()) == 0 {
			break
		}
		if ctx.Err() != nil {
			return c.abort(out)
		}
		body, contentType, err := c.handler.read(ctx, u)
		if err != nil {
			if ctx.Err() != nil {
				return c.abort(out)
			}
			logger.Warn("%s: %s: %v", WorldHandlerKind, u, err)
			lastErr = err
			continue
		}
		if contentType != "" && !domain.IsSceneContentType(contentType) {
			lastErr = fmt.Errorf("%s from %s: %w", contentType, u, domain.ErrNotSceneDocument)
			logger.Warn("%s: %v", WorldHandlerKind, lastErr)
			continue
		}
		n := c.install(ctx, u, contentType, body)
		if n == 0 {
			lastErr = fmt.Errorf("%s: %w", u, domain.ErrNotSceneDocument)
			continue
		}
		if out.Completed == 0 {
			out.URL = u
			out.ContentType = contentType
		}
		out.Completed += n
	}

	if ctx.Err() != nil && len(c.pending()) > 0 {
		return c.abort(out)
	}

	if lastErr == nil {
		lastErr = domain.ErrNotSceneDocument
	}
	failure := fmt.Errorf("%w: %w", domain.ErrAllURLsFailed, lastErr)
	if out.Completed == 0 {
		out.Err = failure
	}
	c.finish(&out, failure)
	if out.Completed == 0 && out.Failed > 0 {
		c.reporter.WarningReport(fmt.Sprintf("Unable to load %s", candidates[0]), out.Err)
	}
	return out
}

// install parses the document for each pending consumer and applies it.
// Returns the number of consumers that received the document.
func (c *worldCycle) install(ctx context.Context, url, contentType string, body []byte) int {
	n := 0
	for _, d := range c.pending() {
		doc, err := c.handler.parse(ctx, d.World.RendererType, url, contentType, body)
		if err != nil {
			if ctx.Err() == nil {
				logger.Warn("%s: parse %s for %s: %v", WorldHandlerKind, url, d.Name(), err)
				c.errs[d] = fmt.Errorf("parse %s: %w", url, err)
			}
			continue
		}

		var applyErr error
		ran := c.consumers.Apply(d, func() {
			applyErr = apply(d.World, doc, url)
		})
		if !ran {
			continue
		}
		if applyErr != nil {
			c.reporter.ErrorReport(fmt.Sprintf("Error installing world from %s into %s", url, d.Name()), applyErr)
			c.errs[d] = fmt.Errorf("install %s: %w", url, applyErr)
			continue
		}
		n++
		c.settled[d] = struct{}{}
		delete(c.errs, d)
		if c.handler.loaders != nil {
			c.handler.loaders.queueScene(doc)
		}
		if d.World.Done != nil {
			d.World.Done(doc, nil)
		}
	}
	return n
}

// finish fails every consumer still attached and unserved. A consumer is
// told its own parse or install error when it had one, otherwise err.
func (c *worldCycle) finish(out *domain.LoadOutcome, err error) {
	for _, d := range c.pending() {
		if !c.consumers.Apply(d, func() {}) {
			continue
		}
		c.settled[d] = struct{}{}
		out.Failed++
		cause := err
		if own, ok := c.errs[d]; ok {
			cause = fmt.Errorf("%w: %w", domain.ErrAllURLsFailed, own)
		}
		if d.World.Done != nil {
			d.World.Done(nil, cause)
		}
	}
}

// abort tells every unserved consumer the load was cancelled.
func (c *worldCycle) abort(out domain.LoadOutcome) domain.LoadOutcome {
	out.Aborted = true
	out.Err = domain.ErrAborted
	for _, d := range c.pending() {
		if !c.consumers.Apply(d, func() {}) {
			continue
		}
		c.settled[d] = struct{}{}
		if d.World.Done != nil {
			d.World.Done(nil, domain.ErrAborted)
		}
	}
	logger.Debug("%s: aborted %s", WorldHandlerKind, out.URL)
	return out
}

// pending returns attached world consumers not yet settled in this cycle.
func (c *worldCycle) pending() []*driven.LoadDetails {
	var out []*driven.LoadDetails
	for _, d := range c.consumers.List() {
		if d.World == nil {
			continue
		}
		if _, ok := c.settled[d]; ok {
			continue
		}
		out = append(out, d)
	}
	return out
}

// apply hands doc to the consumer's browser or target field.
func apply(w *driven.WorldDetails, doc driven.WorldDocument, url string) error {
	switch w.Mode {
	case domain.WorldReplace:
		if w.Browser == nil {
			return fmt.Errorf("replace world: %w", domain.ErrInvalidInput)
		}
		return w.Browser.ReplaceWorld(doc, url)
	case domain.WorldCreate:
		if w.Target == nil {
			return fmt.Errorf("create world: %w", domain.ErrInvalidInput)
		}
		if err := w.Target.AddChildren(w.Field, doc.RootChildren()); err != nil {
			return err
		}
		if w.Space != nil {
			if routes := doc.Routes(); len(routes) > 0 {
				return w.Space.AddRoutes(routes)
			}
		}
		return nil
	default:
		return fmt.Errorf("world mode %s: %w", w.Mode, domain.ErrInvalidInput)
	}
}
