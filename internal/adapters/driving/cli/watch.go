package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <url> [fallback-url...]",
	Short: "Load a scene and reload resources when their files change",
	Long: `Load a scene like the load command, then watch the local files behind
its textures, inlines, scripts and other resources. A changed file is
evicted from the cache and its nodes are loaded again.

Press Ctrl+C to stop watching.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&loadTimeout, "timeout", 2*time.Minute, "Stop waiting for the initial load after this long")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := requireLoader(); err != nil {
		return err
	}
	if fileWatcher == nil {
		return errors.New("file watcher not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loadCtx, cancel := context.WithTimeout(ctx, loadTimeout)
	doc, err := loadWorld(loadCtx, cmd, args)
	cancel()
	if doc == nil {
		return err
	}
	printReport(cmd, doc)
	if err != nil {
		cmd.Printf("Warning: %v\n", err)
	}

	if err := fileWatcher.TrackScene(doc); err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	cmd.Println("Watching for changes. Press Ctrl+C to stop.")

	if err := fileWatcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}
