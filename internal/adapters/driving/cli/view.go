package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sceneload/internal/adapters/driving/tui"
)

// viewCmd represents the view command.
var viewCmd = &cobra.Command{
	Use:   "view <url> [fallback-url...]",
	Short: "Load a scene in the interactive terminal UI",
	Long: `Load a scene and follow its external resources live in a terminal UI.

Each URL field of the scene is listed with its load state and the URL it
was loaded from. Failed fields can be retried and the whole world reloaded.

Controls:
  ↑/k, ↓/j  - Move selection
  Enter/t   - Retry a failed field
  r         - Reload the world
  ?         - Toggle help
  q         - Quit`,
	Args: cobra.MinimumNArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("tui panicked: %v", r)
		}
	}()

	if err := requireLoader(); err != nil {
		return err
	}

	app, err := tui.NewApp(&tui.Ports{
		World:        worldManager,
		Content:      contentManager,
		Scripts:      scriptManager,
		Host:         worldHost,
		RendererType: rendererType,
	}, args)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	ctx := cmd.Context()
	if frameThrottle != nil {
		go func() { _ = frameThrottle.Start(ctx) }()
		defer func() { _ = frameThrottle.Stop() }()
	}

	return app.WithContext(ctx).Run()
}
