// Package cli provides the sceneload command line. It is a driving adapter:
// commands translate flags and arguments into calls on the loader services.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sceneload/internal/core/ports/driving"
	"github.com/custodia-labs/sceneload/internal/logger"
)

// DefaultRendererType is used when Ports leaves RendererType empty.
const DefaultRendererType = "headless"

var (
	version = "dev"
	verbose bool
)

// Services used by the commands. Set through Configure.
var (
	worldManager    driving.WorldManager
	contentManager  driving.LoadManager
	scriptManager   driving.ScriptManager
	frameThrottle   driving.FramerateThrottle
	worldHost       WorldHost
	settingsService driving.SettingsService
	historyService  driving.HistoryService
	fileWatcher     FileWatcher
	rendererType    = DefaultRendererType
)

var rootCmd = &cobra.Command{
	Use:   "sceneload",
	Short: "Load VRML and X3D scenes with all of their external resources",
	Long: `sceneload loads a scene document and every texture, inline, script,
audio clip, shader and externproto it references. Requests are coalesced,
prioritised and served from a shared worker pool.`,
	SilenceUsage: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug output to stderr")
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Configure installs the services the commands drive.
func Configure(p *Ports) error {
	if p == nil {
		return errors.New("cli: ports are required")
	}
	if err := p.Validate(); err != nil {
		return err
	}
	worldManager = p.World
	contentManager = p.Content
	scriptManager = p.Scripts
	frameThrottle = p.Throttle
	worldHost = p.Host
	settingsService = p.Settings
	historyService = p.History
	fileWatcher = p.Watcher
	rendererType = p.RendererType
	if rendererType == "" {
		rendererType = DefaultRendererType
	}
	return nil
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
