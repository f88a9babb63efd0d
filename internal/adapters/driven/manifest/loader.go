package manifest

import (
	"context"
	"fmt"
	"io"

	"github.com/custodia-labs/sceneload/internal/adapters/driven/scene"
	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
	"github.com/custodia-labs/sceneload/internal/decoders"
)

// RendererType is the renderer the manifest world loader builds scenes for.
const RendererType = "headless"

// Ensure the loaders implement the interfaces.
var (
	_ driven.Decoder     = (*Decoder)(nil)
	_ driven.WorldLoader = (*WorldLoader)(nil)
)

// Decoder decodes inline manifests into scenes.
type Decoder struct {
	opts []scene.NodeOption
}

// NewDecoder creates a manifest decoder. opts are applied to every node.
func NewDecoder(opts ...scene.NodeOption) *Decoder {
	return &Decoder{opts: opts}
}

// ContentTypes returns the MIME types this decoder handles.
func (d *Decoder) ContentTypes() []string {
	return []string{ContentType}
}

// Decode parses a manifest. Relative URLs resolve against the URL the
// content was fetched from.
func (d *Decoder) Decode(ctx context.Context, _ string, r io.Reader) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, err := Parse(r, decoders.BaseURL(ctx), d.opts...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// WorldLoader parses manifests for whole-world loads.
type WorldLoader struct {
	opts []scene.NodeOption
}

// NewWorldLoader creates a manifest world loader. opts are applied to every node.
func NewWorldLoader(opts ...scene.NodeOption) *WorldLoader {
	return &WorldLoader{opts: opts}
}

// RendererType returns the renderer the loader builds scenes for.
func (l *WorldLoader) RendererType() string {
	return RendererType
}

// Load parses a manifest read from r.
func (l *WorldLoader) Load(ctx context.Context, r io.Reader, baseURL, contentType string) (driven.WorldDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ct := domain.BaseContentType(contentType); ct != "" && ct != ContentType {
		return nil, fmt.Errorf("%s: %w", ct, domain.ErrNotSceneDocument)
	}
	s, err := Parse(r, baseURL, l.opts...)
	if err != nil {
		return nil, err
	}
	return s, nil
}
