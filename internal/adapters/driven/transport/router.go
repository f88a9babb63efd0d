package transport

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

// Ensure Router implements the interface.
var _ driven.ResourceLoader = (*Router)(nil)

// Router dispatches Open to the loader registered for the URL's scheme.
type Router struct {
	mu      sync.RWMutex
	loaders map[string]driven.ResourceLoader
}

// NewRouter creates a router with no schemes.
func NewRouter() *Router {
	return &Router{
		loaders: make(map[string]driven.ResourceLoader),
	}
}

// New creates a router for http, https, file and data URLs.
func New(cfg Config, decoder ContentDecoder) *Router {
	r := NewRouter()
	httpLoader := NewHTTPLoader(cfg, decoder)
	r.Handle("http", httpLoader)
	r.Handle("https", httpLoader)
	r.Handle("file", NewFileLoader(decoder))
	r.Handle("data", NewDataLoader(decoder))
	return r
}

// Handle registers loader for scheme, replacing any previous one.
func (r *Router) Handle(scheme string, loader driven.ResourceLoader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[strings.ToLower(scheme)] = loader
}

// Supports reports whether a loader is registered for scheme.
func (r *Router) Supports(scheme string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.loaders[strings.ToLower(scheme)]
	return ok
}

// Open opens rawURL with the loader for its scheme. URLs without a
// scheme are treated as local paths.
func (r *Router) Open(ctx context.Context, rawURL string) (driven.Connection, error) {
	scheme := Scheme(rawURL)
	r.mu.RLock()
	loader, ok := r.loaders[scheme]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", rawURL, domain.ErrUnsupportedScheme)
	}
	return loader.Open(ctx, rawURL)
}

// Scheme returns the lower-cased scheme of rawURL, or "file" when it has
// none. Single letters are Windows drive names, not schemes.
func Scheme(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	i := strings.IndexByte(rawURL, ':')
	if i <= 1 {
		return "file"
	}
	scheme := rawURL[:i]
	for j, c := range scheme {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case j > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return "file"
		}
	}
	return strings.ToLower(scheme)
}
