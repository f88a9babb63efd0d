// Package texture decodes texture content into image.Image values.
package texture

import (
	"context"
	"fmt"
	"image"
	"io"

	// Registered with image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

// Ensure Decoder implements the interface.
var _ driven.Decoder = (*Decoder)(nil)

// Decoder handles raster image textures.
// png, jpeg, gif, tiff, bmp, and webp are supported.
type Decoder struct{}

// New creates a new image decoder.
func New() *Decoder {
	return &Decoder{}
}

// ContentTypes returns the MIME types this decoder handles.
func (d *Decoder) ContentTypes() []string {
	return []string{
		"image/png",
		"image/jpeg",
		"image/jpg",
		"image/gif",
		"image/bmp",
		"image/x-ms-bmp",
		"image/tiff",
		"image/webp",
	}
}

// Decode reads an image. The format is inferred from the data, so a
// mislabelled texture still decodes.
func (d *Decoder) Decode(ctx context.Context, contentType string, r io.Reader) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", contentType, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Texture{Image: img, Format: format}, nil
}

// Texture is a decoded image and the format it was read from.
type Texture struct {
	image.Image

	// Format is the registered format name, e.g. "png".
	Format string
}
