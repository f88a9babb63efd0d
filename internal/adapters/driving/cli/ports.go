package cli

import (
	"context"

	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
	"github.com/custodia-labs/sceneload/internal/core/ports/driving"
)

// WorldHost owns the current world and the world-loading flag the
// throttle reads.
type WorldHost interface {
	driven.Browser

	// SetWorldLoading marks the start or end of a main document load.
	SetWorldLoading(loading bool)

	// IsWorldLoading returns true while the main document is loading.
	IsWorldLoading() bool

	// World returns the current world and its URL.
	World() (driven.WorldDocument, string)
}

// FileWatcher reloads resources of a scene when their local files change.
type FileWatcher interface {
	// TrackScene watches the local files behind every node of scene.
	TrackScene(scene driven.Scene) error

	// Run processes file events until ctx is cancelled.
	Run(ctx context.Context) error
}

// Ports aggregates everything the commands drive.
// This provides a single injection point for dependency injection.
type Ports struct {
	// World loads whole scene documents.
	World driving.WorldManager

	// Content loads textures, inlines, audio, shaders and externprotos.
	Content driving.LoadManager

	// Scripts loads script node content.
	Scripts driving.ScriptManager

	// Throttle paces frames while loads are in flight. Optional.
	Throttle driving.FramerateThrottle

	// Host owns the loaded world.
	Host WorldHost

	// Settings manages loader settings.
	Settings driving.SettingsService

	// History exposes recorded load outcomes. Optional.
	History driving.HistoryService

	// Watcher reloads resources whose files change. Optional.
	Watcher FileWatcher

	// RendererType selects the world loader used for documents.
	RendererType string
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.World == nil {
		return ErrMissingWorldManager
	}
	if p.Content == nil {
		return ErrMissingContentManager
	}
	if p.Scripts == nil {
		return ErrMissingScriptManager
	}
	if p.Host == nil {
		return ErrMissingHost
	}
	if p.Settings == nil {
		return ErrMissingSettingsService
	}
	return nil
}
