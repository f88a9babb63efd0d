package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
	"github.com/custodia-labs/sceneload/internal/core/ports/driving"
	"github.com/custodia-labs/sceneload/internal/logger"
)

// Ensure LoaderPool implements the interface.
var _ driving.LoaderPool = (*LoaderPool)(nil)

const tracerName = "github.com/custodia-labs/sceneload/internal/core/services"

// LoaderPool runs a fixed number of worker goroutines draining a LoadQueue.
// It is created once at application start, shared by every load manager,
// and shut down at application end.
type LoaderPool struct {
	queue    *LoadQueue
	reporter driven.ErrorReporter
	history  driven.LoadHistoryStore
	tracer   trace.Tracer
	workers  int

	stopMu   sync.Mutex
	mu       sync.Mutex
	running  bool
	stopping bool
	cancel   context.CancelFunc
	group    *errgroup.Group
}

// PoolOption configures a LoaderPool.
type PoolOption func(*LoaderPool)

// WithHistory records an entry per dispatched request in store.
func WithHistory(store driven.LoadHistoryStore) PoolOption {
	return func(p *LoaderPool) {
		p.history = store
	}
}

// WithTracer overrides the tracer used for dispatch spans.
func WithTracer(tracer trace.Tracer) PoolOption {
	return func(p *LoaderPool) {
		p.tracer = tracer
	}
}

// NewLoaderPool creates a pool with the given worker count.
// Workers are not started until EnsureRunning is called.
func NewLoaderPool(queue *LoadQueue, reporter driven.ErrorReporter, workers int, opts ...PoolOption) *LoaderPool {
	if workers <= 0 {
		workers = domain.DefaultLoaderSettings().Pool.Workers
	}
	p := &LoaderPool{
		queue:    queue,
		reporter: reporter,
		workers:  workers,
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Queue returns the queue the pool drains.
func (p *LoaderPool) Queue() *LoadQueue {
	return p.queue
}

// EnsureRunning starts the workers if they are not running. It is called
// before work is issued so a pool recovers from an earlier Shutdown.
// Calls made while a Shutdown is in progress do nothing.
func (p *LoaderPool) EnsureRunning() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running || p.stopping {
		return
	}
	p.running = true
	p.queue.Reopen()

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < p.workers; i++ {
		id := i
		g.Go(func() error {
			p.work(gctx, id)
			return nil
		})
	}
	p.cancel = cancel
	p.group = g
	logger.Debug("loader: started %d workers", p.workers)
}

// Clear drops pending requests and aborts in-flight ones.
func (p *LoaderPool) Clear() {
	p.queue.Clear()
}

// Shutdown stops the workers, waking any blocked on an empty queue, and
// waits for them to exit. In-flight loads are aborted.
func (p *LoaderPool) Shutdown() {
	p.stopMu.Lock()
	defer p.stopMu.Unlock()

	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.stopping = true
	cancel, group := p.cancel, p.group
	p.mu.Unlock()

	cancel()
	p.queue.Purge()
	p.queue.Clear()
	if err := group.Wait(); err != nil {
		log.Printf("loader: worker exited with error: %v", err)
	}

	p.mu.Lock()
	p.stopping = false
	p.mu.Unlock()
	logger.Debug("loader: workers stopped")
}

// Restart shuts the workers down and starts them again.
func (p *LoaderPool) Restart() {
	p.Shutdown()
	p.EnsureRunning()
}

// IsRunning returns true while workers are running.
func (p *LoaderPool) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// NumberInProgress returns pending plus in-flight requests.
func (p *LoaderPool) NumberInProgress() int {
	return p.queue.Size() + p.queue.InProgress()
}

// work is the worker loop: claim, dispatch, release, until the queue is purged.
func (p *LoaderPool) work(ctx context.Context, id int) {
	for {
		req, ok := p.queue.Take(ctx)
		if !ok {
			return
		}
		p.dispatch(req, id)
	}
}

// dispatch runs one request's handler and records the outcome.
func (p *LoaderPool) dispatch(req *LoadRequest, worker int) {
	defer p.queue.Done(req)

	consumers := req.Len()
	if consumers == 0 {
		logger.Debug("loader: skipping %s, no consumers left", req.ID)
		return
	}

	started := time.Now()
	ctx, span := p.tracer.Start(req.ctx, "load."+req.Handler.Kind(),
		trace.WithAttributes(
			attribute.String("load.request_id", req.ID),
			attribute.String("load.class", req.Class.String()),
			attribute.StringSlice("load.urls", req.URLs),
			attribute.Int("load.consumers", consumers),
			attribute.Int("load.worker", worker),
		))
	outcome := p.process(ctx, req)
	span.SetAttributes(
		attribute.String("load.url", outcome.URL),
		attribute.String("load.content_type", outcome.ContentType),
		attribute.Bool("load.from_cache", outcome.FromCache),
		attribute.Bool("load.aborted", outcome.Aborted),
	)
	if outcome.Err != nil && !outcome.Aborted {
		span.RecordError(outcome.Err)
		span.SetStatus(codes.Error, outcome.Err.Error())
	}
	span.End()

	logger.Debug("loader: %s %s done in %s (completed=%d failed=%d skipped=%d)",
		req.Handler.Kind(), outcome.URL, time.Since(started), outcome.Completed, outcome.Failed, outcome.Skipped)
	p.record(req, consumers, outcome, started)
}

// process invokes the handler, converting a panic into an error report.
// Consumers the panic left in LOADING are failed.
func (p *LoaderPool) process(ctx context.Context, req *LoadRequest) (outcome domain.LoadOutcome) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		err := fmt.Errorf("%s handler panic: %v", req.Handler.Kind(), r)
		p.reporter.ErrorReport(fmt.Sprintf("Error loading %s", req.URLs[0]), err)
		failed := 0
		for _, d := range req.List() {
			req.Apply(d, func() {
				if d.IsCurrent() && d.State() == domain.Loading {
					d.SetState(domain.LoadFailed)
					failed++
				}
			})
		}
		outcome = domain.LoadOutcome{URL: req.URLs[0], Failed: failed, Err: err}
	}()
	return req.Handler.ProcessLoadRequest(ctx, p.reporter, req.URLs, req)
}

// record stores a history entry for the dispatch, if history is enabled.
func (p *LoaderPool) record(req *LoadRequest, consumers int, outcome domain.LoadOutcome, started time.Time) {
	if p.history == nil {
		return
	}
	rec := &domain.LoadRecord{
		RequestID:   req.ID,
		Kind:        req.Handler.Kind(),
		Class:       req.Class,
		URL:         outcome.URL,
		ContentType: outcome.ContentType,
		Consumers:   consumers,
		Success:     outcome.Success(),
		FromCache:   outcome.FromCache,
		Aborted:     outcome.Aborted,
		StartedAt:   started,
		EndedAt:     time.Now(),
	}
	if outcome.Err != nil {
		rec.Error = outcome.Err.Error()
	}
	if err := p.history.Record(context.Background(), rec); err != nil {
		log.Printf("loader: failed to record history for %s: %v", req.ID, err)
	}
}
