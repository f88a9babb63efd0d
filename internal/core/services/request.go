package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

// Ensure LoadRequest implements the interface.
var _ driven.Consumers = (*LoadRequest)(nil)

// LoadRequest is one coalesced fetch: a URL group, the handler that loads
// it, and every consumer waiting on the result.
type LoadRequest struct {
	// ID uniquely identifies the request.
	ID string

	// Key is the coalescing identity.
	Key domain.URLSetKey

	// Class is the sort class the request is served under.
	Class domain.SortClass

	// URLs are the candidate URLs in preference order.
	URLs []string

	// Handler loads the request.
	Handler driven.LoadRequestHandler

	seq   uint64
	index int // position in the pending heap, -1 once claimed

	mu        sync.Mutex
	consumers []*driven.LoadDetails
	served    map[*driven.LoadDetails]struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

// List returns the registrations still attached.
func (r *LoadRequest) List() []*driven.LoadDetails {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*driven.LoadDetails, len(r.consumers))
	copy(out, r.consumers)
	return out
}

// Len returns the number of registrations still attached.
func (r *LoadRequest) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.consumers)
}

// Apply runs fn under the request lock if d is still attached.
func (r *LoadRequest) Apply(d *driven.LoadDetails, fn func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.consumers {
		if c == d {
			fn()
			if r.served == nil {
				r.served = make(map[*driven.LoadDetails]struct{})
			}
			r.served[d] = struct{}{}
			return true
		}
	}
	return false
}

// attach adds d unless an equal registration is already present.
func (r *LoadRequest) attach(d *driven.LoadDetails) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.consumers {
		if c.Same(d) {
			return false
		}
	}
	r.consumers = append(r.consumers, d)
	return true
}

// detach removes the registration equal to d. A removed consumer left in
// LOADING is reset so no handler can move it afterwards.
func (r *LoadRequest) detach(d *driven.LoadDetails) (removed bool, remaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.consumers {
		if !c.Same(d) {
			continue
		}
		r.consumers = append(r.consumers[:i], r.consumers[i+1:]...)
		if c.IsCurrent() && c.State() == domain.Loading {
			c.SetState(domain.NotLoaded)
		}
		return true, len(r.consumers)
	}
	return false, len(r.consumers)
}

// unserved returns consumers the handler never reached that still need content.
func (r *LoadRequest) unserved() []*driven.LoadDetails {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*driven.LoadDetails
	for _, c := range r.consumers {
		if _, ok := r.served[c]; ok {
			continue
		}
		if !c.IsCurrent() {
			continue
		}
		if c.Node != nil && c.State() != domain.NotLoaded {
			continue
		}
		out = append(out, c)
	}
	return out
}

// aborted reports whether the request's context was cancelled.
func (r *LoadRequest) aborted() bool {
	return r.ctx != nil && r.ctx.Err() != nil
}

// requestHeap orders pending requests by sort class, then arrival.
type requestHeap []*LoadRequest

func (h requestHeap) Len() int { return len(h) }

func (h requestHeap) Less(i, j int) bool {
	if h[i].Class != h[j].Class {
		return h[i].Class < h[j].Class
	}
	return h[i].seq < h[j].seq
}

func (h requestHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *requestHeap) Push(x any) {
	req := x.(*LoadRequest)
	req.index = len(*h)
	*h = append(*h, req)
}

func (h *requestHeap) Pop() any {
	old := *h
	n := len(old)
	req := old[n-1]
	old[n-1] = nil
	req.index = -1
	*h = old[:n-1]
	return req
}
