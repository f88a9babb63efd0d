package decoders

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

// Registry maps MIME types to decoders.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]driven.Decoder
}

// NewRegistry creates an empty decoder registry.
func NewRegistry() *Registry {
	return &Registry{
		decoders: make(map[string]driven.Decoder),
	}
}

// Register adds a decoder for every MIME type it reports. A later
// registration for the same type replaces the earlier one.
func (r *Registry) Register(d driven.Decoder) {
	if d == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ct := range d.ContentTypes() {
		r.decoders[domain.BaseContentType(ct)] = d
	}
}

// Lookup returns the decoder for a MIME type.
func (r *Registry) Lookup(contentType string) (driven.Decoder, error) {
	ct := domain.BaseContentType(contentType)
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.decoders[ct]
	if !ok {
		return nil, fmt.Errorf("%q: %w", ct, domain.ErrNoDecoder)
	}
	return d, nil
}

// Has returns true if a decoder is registered for the MIME type.
func (r *Registry) Has(contentType string) bool {
	_, err := r.Lookup(contentType)
	return err == nil
}

// ContentTypes returns every registered MIME type, sorted.
func (r *Registry) ContentTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.decoders))
	for ct := range r.decoders {
		types = append(types, ct)
	}
	sort.Strings(types)
	return types
}

// Decode reads rd with the decoder registered for contentType. Unknown
// types are returned as raw bytes.
func (r *Registry) Decode(ctx context.Context, contentType string, rd io.Reader) (any, error) {
	d, err := r.Lookup(contentType)
	if err != nil {
		return readRaw(ctx, rd)
	}
	return d.Decode(ctx, domain.BaseContentType(contentType), rd)
}

func readRaw(ctx context.Context, rd io.Reader) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return data, nil
}
