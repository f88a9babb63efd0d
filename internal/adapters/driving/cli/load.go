package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/sceneload/internal/adapters/driving/report"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

// progressInterval is how often outstanding work is sampled while waiting.
const progressInterval = 50 * time.Millisecond

var loadTimeout time.Duration

var loadCmd = &cobra.Command{
	Use:   "load <url> [fallback-url...]",
	Short: "Load a scene and all of its resources",
	Long: `Load a scene document and every external resource it references, then
print the load state of each resource field.

Further arguments are fallback URLs, tried in order when the first cannot be
loaded. Local paths and file, http, https and data URLs are accepted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().DurationVar(&loadTimeout, "timeout", 2*time.Minute, "Stop waiting for resources after this long")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	if err := requireLoader(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), loadTimeout)
	defer cancel()

	doc, err := loadWorld(ctx, cmd, args)
	if doc != nil {
		printReport(cmd, doc)
	}
	return err
}

func requireLoader() error {
	if worldManager == nil || worldHost == nil {
		return errors.New("world loader not configured")
	}
	if contentManager == nil || scriptManager == nil {
		return errors.New("load managers not configured")
	}
	return nil
}

type worldResult struct {
	doc driven.WorldDocument
	err error
}

// loadWorld replaces the host's world with the first loadable URL and waits
// until every resource of the new world has settled. The document is
// returned even when waiting times out.
func loadWorld(ctx context.Context, cmd *cobra.Command, urls []string) (driven.WorldDocument, error) {
	if frameThrottle != nil {
		go func() {
			_ = frameThrottle.Start(ctx)
		}()
		defer func() {
			_ = frameThrottle.Stop()
		}()
	}

	cmd.Printf("Loading %s...\n", urls[0])

	done := make(chan worldResult, 1)
	worldHost.SetWorldLoading(true)
	worldManager.LoadURL(urls, worldHost, rendererType, func(doc driven.WorldDocument, err error) {
		done <- worldResult{doc: doc, err: err}
	})

	var res worldResult
	select {
	case res = <-done:
	case <-ctx.Done():
		worldHost.SetWorldLoading(false)
		return nil, fmt.Errorf("load %s: %w", urls[0], ctx.Err())
	}
	if res.err != nil {
		worldHost.SetWorldLoading(false)
		return nil, fmt.Errorf("load failed: %w", res.err)
	}

	return res.doc, waitForResources(ctx, cmd, res.doc)
}

// waitForResources polls the load managers until nothing is outstanding
// and every field of doc is terminal.
func waitForResources(ctx context.Context, cmd *cobra.Command, doc driven.Scene) error {
	live := isTerminal(cmd.OutOrStdout())
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		pending := contentManager.NumberInProgress() + scriptManager.NumberInProgress()
		if pending == 0 && report.Settled(doc) {
			if live {
				cmd.Print("\r\033[K")
			}
			return nil
		}
		if live {
			cmd.Printf("\r\033[K  %d resources in progress", pending)
		}

		select {
		case <-ctx.Done():
			if live {
				cmd.Println()
			}
			return fmt.Errorf("%d resources still in progress: %w", pending, ctx.Err())
		case <-ticker.C:
		}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printReport lists every resource field of doc and a summary line.
func printReport(cmd *cobra.Command, doc driven.Scene) {
	rows := report.Collect(doc)
	if len(rows) == 0 {
		cmd.Println("Scene has no external resources.")
		return
	}

	cmd.Println()
	cmd.Printf("%-28s %-12s %-14s %s\n", "NODE", "FIELD", "STATE", "SOURCE")
	for _, r := range rows {
		name := strings.Repeat("  ", r.Depth) + r.NodeName
		cmd.Printf("%-28s %-12s %-14s %s\n", name, r.FieldName, r.State, r.Source)
	}

	sum := report.Summarise(rows)
	cmd.Println()
	cmd.Printf("Loaded %d of %d resources", sum.Loaded, sum.Total)
	if sum.Failed > 0 {
		cmd.Printf(" (%d failed)", sum.Failed)
	}
	cmd.Println()
}
