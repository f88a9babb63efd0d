// Package text decodes textual content (script source, shaders, plain
// text) into strings.
package text

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

// Ensure Decoder implements the interface.
var _ driven.Decoder = (*Decoder)(nil)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decoder handles text resources.
type Decoder struct{}

// New creates a new text decoder.
func New() *Decoder {
	return &Decoder{}
}

// ContentTypes returns the MIME types this decoder handles.
func (d *Decoder) ContentTypes() []string {
	return []string{
		"text/plain",
		"text/javascript",
		"text/ecmascript",
		"application/javascript",
		"application/ecmascript",
		"application/x-javascript",
		"application/x-vrmlscript",
		"text/x-glsl",
		"text/x-hlsl",
		"text/x-cg",
		"application/json",
		"application/xml",
		"text/xml",
		"text/css",
		"text/html",
	}
}

// Decode reads the whole stream as UTF-8 text. A leading byte order mark
// is dropped.
func (d *Decoder) Decode(ctx context.Context, contentType string, r io.Reader) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", contentType, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%s: content is not valid utf-8", contentType)
	}
	return string(data), nil
}
