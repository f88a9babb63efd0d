package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
	"github.com/custodia-labs/sceneload/internal/logger"
)

// fetched is one candidate URL's content, from the cache or the transport.
type fetched struct {
	url         string
	contentType string
	content     any
	fromCache   bool
}

// fetcher opens URLs through the transport, consulting the file cache first.
type fetcher struct {
	loader      driven.ResourceLoader
	cache       driven.FileCache
	progress    driven.ProgressListener
	cacheImages bool
}

// fetch returns the content for url. On a cache miss the connection is
// opened with ctx and force-closed as soon as ctx is cancelled.
func (f *fetcher) fetch(ctx context.Context, url string) (*fetched, error) {
	if f.cache != nil {
		if cd, ok := f.cache.CheckForFile(url); ok {
			logger.Debug("loader: cache hit %s", url)
			return &fetched{url: url, contentType: cd.ContentType, content: cd.Content, fromCache: true}, nil
		}
	}

	if f.progress != nil {
		f.progress.DownloadStarted(url)
	}
	res, err := f.open(ctx, url)
	if f.progress != nil {
		f.progress.DownloadEnded(url, err)
	}
	return res, err
}

func (f *fetcher) open(ctx context.Context, url string) (*fetched, error) {
	if f.loader == nil {
		return nil, fmt.Errorf("open %s: %w", url, domain.ErrUnsupportedScheme)
	}
	conn, err := f.loader.Open(ctx, url)
	if err != nil {
		return nil, err
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()
	defer conn.Close()

	content, err := conn.Content(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return &fetched{url: url, contentType: domain.BaseContentType(conn.ContentType()), content: content}, nil
}

// store caches freshly fetched content unless the cache policy excludes it.
func (f *fetcher) store(res *fetched) {
	if f.cache == nil || res.fromCache || !cacheable(res.contentType, f.cacheImages) {
		return
	}
	f.cache.CacheFile(res.url, res.contentType, res.content)
}

// cacheable reports whether content of the given type may be shared through
// the file cache. Scene documents carry live graph state and are never
// cached; images are left to the renderer's texture cache unless asked.
func cacheable(contentType string, cacheImages bool) bool {
	if domain.IsSceneContentType(contentType) {
		return false
	}
	if domain.IsImageContentType(contentType) && !cacheImages {
		return false
	}
	return true
}

// loadCycle runs one dispatch of a node-targeting request: mark consumers
// LOADING, try candidates in order until one is accepted, then settle
// every consumer in a terminal state.
type loadCycle struct {
	kind      string
	reporter  driven.ErrorReporter
	consumers driven.Consumers
	fetch     func(ctx context.Context, url string) (*fetched, error)

	// prepare converts fetched content for one consumer. Optional; an error
	// skips that consumer for this candidate.
	prepare func(ctx context.Context, d *driven.LoadDetails, res *fetched) (any, error)

	// installed is called outside the request lock after content is installed.
	installed func(d *driven.LoadDetails, res *fetched)

	// failed is called outside the request lock after a consumer is failed.
	failed func(d *driven.LoadDetails, err error)

	// accepted is called once with the winning candidate.
	accepted func(res *fetched)
}

func (c *loadCycle) run(ctx context.Context, urls []string) domain.LoadOutcome {
	var out domain.LoadOutcome

	initial := c.consumers.List()
	if allComplete(initial) {
		out.Skipped = len(initial)
		return out
	}

	candidates := domain.CleanURLs(urls)
	if len(candidates) == 0 {
		out.Err = domain.ErrNoURLs
		c.settle(&out, domain.ErrNoURLs)
		return out
	}
	out.URL = candidates[0]

	c.markLoading()

	var lastErr error
	for _, u := range candidates {
		if ctx.Err() != nil {
			return c.abort(out)
		}
		res, err := c.fetch(ctx, u)
		if err != nil {
			if ctx.Err() != nil || isAbort(err) {
				return c.abort(out)
			}
			logger.Warn("%s: %s: %v", c.kind, u, err)
			lastErr = err
			continue
		}
		if n := c.install(ctx, res); n > 0 {
			out.URL = u
			out.ContentType = res.contentType
			out.FromCache = res.fromCache
			out.Completed = n
			if c.accepted != nil {
				c.accepted(res)
			}
			break
		}
		lastErr = fmt.Errorf("%s from %s: %w", res.contentType, u, domain.ErrUnsupportedContentType)
	}

	if out.Completed == 0 && ctx.Err() != nil {
		return c.abort(out)
	}

	if out.Completed == 0 {
		if lastErr == nil {
			lastErr = domain.ErrUnsupportedContentType
		}
		out.Err = fmt.Errorf("%w: %w", domain.ErrAllURLsFailed, lastErr)
	}
	c.settle(&out, out.Err)
	if out.Completed == 0 && out.Failed > 0 {
		c.reporter.WarningReport(fmt.Sprintf("Unable to load %s", candidates[0]), out.Err)
	}
	return out
}

// markLoading moves every current consumer that is not complete to LOADING.
func (c *loadCycle) markLoading() {
	for _, d := range c.consumers.List() {
		c.consumers.Apply(d, func() {
			if d.IsCurrent() && d.State() != domain.LoadComplete {
				d.SetState(domain.Loading)
			}
		})
	}
}

// install gives res to every consumer that accepts its content type and
// returns how many did.
func (c *loadCycle) install(ctx context.Context, res *fetched) int {
	n := 0
	for _, d := range c.consumers.List() {
		content := res.content
		if c.prepare != nil {
			prepared, err := c.prepare(ctx, d, res)
			if err != nil {
				logger.Debug("%s: %s rejected %s: %v", c.kind, d.Name(), res.url, err)
				continue
			}
			content = prepared
		}

		var installErr error
		done := false
		c.consumers.Apply(d, func() {
			if !d.IsCurrent() || d.Node == nil || d.State() == domain.LoadComplete {
				return
			}
			if !d.Node.CheckValidContentType(d.Field, res.contentType) {
				return
			}
			d.Node.SetLoadedURI(d.Field, res.url)
			if err := d.Node.SetContent(d.Field, res.contentType, content); err != nil {
				installErr = err
				return
			}
			d.SetState(domain.LoadComplete)
			if d.Listener != nil {
				d.Node.AddURLListener(d.Listener)
			}
			done = true
		})

		switch {
		case installErr != nil:
			c.reporter.ErrorReport(fmt.Sprintf("Error setting content of %s from %s", d.Name(), res.url), installErr)
		case done:
			n++
			if c.installed != nil {
				c.installed(d, res)
			}
		}
	}
	return n
}

// settle fails every current consumer that did not complete. Stale
// consumers are left alone: their field belongs to a newer load cycle.
func (c *loadCycle) settle(out *domain.LoadOutcome, err error) {
	for _, d := range c.consumers.List() {
		failed := false
		c.consumers.Apply(d, func() {
			if !d.IsCurrent() {
				out.Skipped++
				return
			}
			if d.State() == domain.LoadComplete {
				return
			}
			d.SetState(domain.LoadFailed)
			failed = true
		})
		if failed {
			out.Failed++
			if c.failed != nil {
				c.failed(d, err)
			}
		}
	}
	if out.Skipped > 0 {
		logger.Debug("%s: discarded result for %d consumers: %v", c.kind, out.Skipped, domain.ErrStaleResult)
	}
}

// abort returns LOADING consumers to NOT_LOADED without reporting a failure.
func (c *loadCycle) abort(out domain.LoadOutcome) domain.LoadOutcome {
	for _, d := range c.consumers.List() {
		c.consumers.Apply(d, func() {
			if d.IsCurrent() && d.State() == domain.Loading {
				d.SetState(domain.NotLoaded)
			}
		})
	}
	out.Aborted = true
	out.Err = domain.ErrAborted
	logger.Debug("%s: aborted %s", c.kind, out.URL)
	return out
}

// allComplete reports whether every consumer's field is already loaded.
func allComplete(consumers []*driven.LoadDetails) bool {
	if len(consumers) == 0 {
		return true
	}
	for _, d := range consumers {
		if d.Node == nil || d.State() != domain.LoadComplete {
			return false
		}
	}
	return true
}

// isAbort reports whether err came from cancellation.
func isAbort(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, domain.ErrAborted)
}
