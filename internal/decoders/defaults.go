package decoders

import (
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
	"github.com/custodia-labs/sceneload/internal/decoders/text"
	"github.com/custodia-labs/sceneload/internal/decoders/texture"
)

// Default returns a registry holding the image and text decoders plus any
// extra decoders, registered in order after the built-ins.
func Default(extra ...driven.Decoder) *Registry {
	r := NewRegistry()
	r.Register(texture.New())
	r.Register(text.New())
	for _, d := range extra {
		r.Register(d)
	}
	return r
}
