package services

import (
	"container/heap"
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
	"github.com/custodia-labs/sceneload/internal/logger"
)

// LoadQueue is the shared, priority-ordered, blocking queue of load
// requests. A URL-set key maps to at most one request, pending or in
// progress; further consumers for the key attach to that request.
type LoadQueue struct {
	mu         sync.Mutex
	cond       *sync.Cond
	pending    requestHeap
	byKey      map[domain.URLSetKey]*LoadRequest
	inProgress map[domain.URLSetKey]*LoadRequest
	seq        uint64
	closed     bool
}

// NewLoadQueue creates an empty queue.
func NewLoadQueue() *LoadQueue {
	q := &LoadQueue{
		byKey:      make(map[domain.URLSetKey]*LoadRequest),
		inProgress: make(map[domain.URLSetKey]*LoadRequest),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Add queues details against the request for urls, creating the request
// if none is pending or in progress. Returns true if the details were
// coalesced into an existing request. Requests without URLs are ignored.
func (q *LoadQueue) Add(
	class domain.SortClass,
	urls []string,
	handler driven.LoadRequestHandler,
	details *driven.LoadDetails,
) bool {
	if len(domain.CleanURLs(urls)) == 0 || handler == nil || details == nil {
		return false
	}
	key := domain.NewURLSetKey(handler.Kind(), urls)

	q.mu.Lock()
	defer q.mu.Unlock()

	if req, ok := q.inProgress[key]; ok {
		req.attach(details)
		return true
	}
	if req, ok := q.byKey[key]; ok {
		req.attach(details)
		if class < req.Class {
			req.Class = class
			heap.Fix(&q.pending, req.index)
		}
		return true
	}

	q.pushLocked(&LoadRequest{
		ID:        uuid.NewString(),
		Key:       key,
		Class:     class,
		URLs:      append([]string(nil), urls...),
		Handler:   handler,
		consumers: []*driven.LoadDetails{details},
	})
	return false
}

func (q *LoadQueue) pushLocked(req *LoadRequest) {
	q.seq++
	req.seq = q.seq
	heap.Push(&q.pending, req)
	q.byKey[req.Key] = req
	q.cond.Signal()
}

// Remove withdraws one consumer's registration from the request for key.
// A pending request left without consumers is dropped before any worker
// claims it. Returns true if a registration was removed.
func (q *LoadQueue) Remove(key domain.URLSetKey, details *driven.LoadDetails) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if req, ok := q.byKey[key]; ok {
		removed, remaining := req.detach(details)
		if remaining == 0 {
			heap.Remove(&q.pending, req.index)
			delete(q.byKey, key)
		}
		return removed
	}
	if req, ok := q.inProgress[key]; ok {
		removed, _ := req.detach(details)
		return removed
	}
	return false
}

// Take blocks until a request is available and claims it, moving it to
// the in-progress set. The request's context derives from parent.
// Returns false once the queue has been purged.
func (q *LoadQueue) Take(parent context.Context) (*LoadRequest, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.pending) == 0 && !q.closed {
		q.cond.Wait()
	}
	if q.closed {
		return nil, false
	}

	req := heap.Pop(&q.pending).(*LoadRequest)
	delete(q.byKey, req.Key)
	req.ctx, req.cancel = context.WithCancel(parent)
	q.inProgress[req.Key] = req
	return req, true
}

// Done releases a claimed request. Consumers that attached too late for
// the handler to reach them are queued again under the same key, unless
// the request was aborted.
func (q *LoadQueue) Done(req *LoadRequest) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.inProgress[req.Key] == req {
		delete(q.inProgress, req.Key)
	}
	aborted := req.aborted()
	if req.cancel != nil {
		req.cancel()
	}
	if aborted || q.closed {
		return
	}

	late := req.unserved()
	if len(late) == 0 {
		return
	}
	if existing, ok := q.byKey[req.Key]; ok {
		for _, d := range late {
			existing.attach(d)
		}
		return
	}
	logger.Debug("loader: requeueing %d late consumers for %s", len(late), req.URLs[0])
	q.pushLocked(&LoadRequest{
		ID:        uuid.NewString(),
		Key:       req.Key,
		Class:     req.Class,
		URLs:      req.URLs,
		Handler:   req.Handler,
		consumers: late,
	})
}

// Clear drops every pending request and aborts every in-progress one.
// Aborted handlers close their connections and discard results.
func (q *LoadQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pending = nil
	q.byKey = make(map[domain.URLSetKey]*LoadRequest)
	for _, req := range q.inProgress {
		if req.cancel != nil {
			req.cancel()
		}
	}
}

// Purge closes the queue and wakes every goroutine blocked in Take.
func (q *LoadQueue) Purge() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

// Reopen allows Take to block for work again after a Purge.
func (q *LoadQueue) Reopen() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = false
}

// Size returns the number of pending requests.
func (q *LoadQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// InProgress returns the number of claimed requests.
func (q *LoadQueue) InProgress() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.inProgress)
}

// CountKind returns pending plus in-progress requests for one handler kind.
func (q *LoadQueue) CountKind(kind string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for key := range q.byKey {
		if key.Kind() == kind {
			n++
		}
	}
	for key := range q.inProgress {
		if key.Kind() == kind {
			n++
		}
	}
	return n
}

// Lookup returns the pending or in-progress request for key.
func (q *LoadQueue) Lookup(key domain.URLSetKey) (*LoadRequest, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if req, ok := q.byKey[key]; ok {
		return req, true
	}
	req, ok := q.inProgress[key]
	return req, ok
}
