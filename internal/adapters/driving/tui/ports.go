// Package tui provides an interactive terminal view of a scene as it loads.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
	"github.com/custodia-labs/sceneload/internal/core/ports/driving"
)

// DefaultRendererType is used when Ports leaves RendererType empty.
const DefaultRendererType = "headless"

// Host owns the world the view loads.
type Host interface {
	driven.Browser

	// SetWorldLoading marks the start or end of a main document load.
	SetWorldLoading(loading bool)
}

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// World loads the scene document.
	World driving.WorldManager

	// Content loads textures, inlines, audio, shaders and externprotos.
	Content driving.LoadManager

	// Scripts loads script node content.
	Scripts driving.ScriptManager

	// Host owns the loaded world.
	Host Host

	// RendererType selects the world loader.
	RendererType string
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.World == nil {
		return ErrMissingWorldManager
	}
	if p.Content == nil || p.Scripts == nil {
		return ErrMissingLoadManagers
	}
	if p.Host == nil {
		return ErrMissingHost
	}
	return nil
}

// rendererType returns the configured renderer or the default.
func (p *Ports) rendererType() string {
	if p.RendererType == "" {
		return DefaultRendererType
	}
	return p.RendererType
}

// manager returns the load manager responsible for node.
func (p *Ports) manager(node driven.ExternalNode) driving.LoadManager {
	if node.PrimaryType() == domain.NodeTypeScript {
		return p.Scripts
	}
	return p.Content
}
