package driven

import (
	"context"
	"io"
)

// ResourceLoader opens connections to external resources.
// Implementations must close the connection promptly when ctx is cancelled.
type ResourceLoader interface {
	Open(ctx context.Context, rawURL string) (Connection, error)
}

// Connection is an open resource.
type Connection interface {
	// URL returns the URL actually opened (after redirects).
	URL() string

	// ContentType returns the negotiated MIME type.
	ContentType() string

	// Body returns the raw content stream.
	Body() io.Reader

	// Content decodes the body according to ContentType.
	Content(ctx context.Context) (any, error)

	// Close releases the connection. Safe to call more than once.
	Close() error
}

// Decoder turns a content stream into a content object.
type Decoder interface {
	// ContentTypes returns the MIME types handled.
	ContentTypes() []string

	// Decode reads r and returns the decoded content.
	Decode(ctx context.Context, contentType string, r io.Reader) (any, error)
}
