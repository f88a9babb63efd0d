package transport

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
	"github.com/custodia-labs/sceneload/internal/decoders"
)

// Ensure connection implements the interface.
var _ driven.Connection = (*connection)(nil)

// ContentDecoder turns a content stream into a content object.
type ContentDecoder interface {
	Decode(ctx context.Context, contentType string, r io.Reader) (any, error)
}

// errConnectionClosed is returned when content is read after Close.
var errConnectionClosed = errors.New("connection closed")

// connection is an open resource backed by a body stream.
type connection struct {
	url         string
	contentType string
	body        io.Reader
	closer      io.Closer
	decoder     ContentDecoder

	closeOnce sync.Once
	closeErr  error

	mu     sync.Mutex
	closed bool
}

func newConnection(url, contentType string, body io.Reader, closer io.Closer, decoder ContentDecoder) *connection {
	return &connection{
		url:         url,
		contentType: contentType,
		body:        body,
		closer:      closer,
		decoder:     decoder,
	}
}

func (c *connection) URL() string {
	return c.url
}

func (c *connection) ContentType() string {
	return c.contentType
}

func (c *connection) Body() io.Reader {
	return c.body
}

// Content decodes the body with the connection URL as the base for
// relative references. It may only be called once per connection.
func (c *connection) Content(ctx context.Context) (any, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, errConnectionClosed
	}
	if c.decoder == nil {
		return io.ReadAll(c.body)
	}
	return c.decoder.Decode(decoders.WithBaseURL(ctx, c.url), c.contentType, c.body)
}

// Close releases the underlying stream. Safe to call more than once and
// from another goroutine while Content is reading.
func (c *connection) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		if c.closer != nil {
			c.closeErr = c.closer.Close()
		}
	})
	return c.closeErr
}
