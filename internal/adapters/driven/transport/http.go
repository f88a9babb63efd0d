package transport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

// Ensure HTTPLoader implements the interface.
var _ driven.ResourceLoader = (*HTTPLoader)(nil)

// Default configuration values.
const (
	DefaultUserAgent = "sceneload"
	DefaultTimeout   = 30 * time.Second
)

// Config holds configuration for the HTTP loader.
type Config struct {
	// UserAgent is sent with every request (default: sceneload).
	UserAgent string

	// Timeout bounds connection setup and response headers (default: 30s).
	// The body is bounded only by the load's context.
	Timeout time.Duration

	// RequestsPerSecond limits requests per host. Zero disables limiting.
	RequestsPerSecond float64

	// Burst is the per-host burst size.
	Burst int
}

// ConfigFromSettings converts transport settings.
func ConfigFromSettings(s domain.TransportSettings) Config {
	return Config{
		UserAgent:         s.UserAgent,
		Timeout:           s.Timeout,
		RequestsPerSecond: s.RequestsPerSecond,
		Burst:             s.Burst,
	}
}

// HTTPLoader opens http and https URLs.
type HTTPLoader struct {
	client    *http.Client
	userAgent string
	limiter   *HostLimiter
	decoder   ContentDecoder
}

// NewHTTPLoader creates a new HTTP loader.
func NewHTTPLoader(cfg Config, decoder ContentDecoder) *HTTPLoader {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.ResponseHeaderTimeout = cfg.Timeout
	tr.TLSHandshakeTimeout = cfg.Timeout

	return &HTTPLoader{
		client:    &http.Client{Transport: tr},
		userAgent: cfg.UserAgent,
		limiter:   NewHostLimiter(cfg.RequestsPerSecond, cfg.Burst),
		decoder:   decoder,
	}
}

// Limiter returns the per-host limiter.
func (l *HTTPLoader) Limiter() *HostLimiter {
	return l.limiter
}

// Open sends a GET request and returns the response as a connection.
// The response body stays open until the connection is closed.
func (l *HTTPLoader) Open(ctx context.Context, rawURL string) (driven.Connection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", l.userAgent)

	host := req.URL.Host
	if err := l.limiter.Wait(ctx, host); err != nil {
		return nil, err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("get %s: %w", rawURL, err)
	}
	l.limiter.UpdateFromResponse(host, resp)

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
			return nil, fmt.Errorf("get %s (status %d): %w", rawURL, resp.StatusCode, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	body := bufio.NewReaderSize(resp.Body, sniffLen)
	declared := resp.Header.Get("Content-Type")
	var head []byte
	if needsSniff(declared) {
		head, _ = body.Peek(sniffLen)
	}
	contentType := resolveContentType(declared, req.URL.Path, head)

	return newConnection(finalURL, contentType, body, resp.Body, l.decoder), nil
}
