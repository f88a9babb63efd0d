package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent load requests",
	Long: `Show the most recent dispatched load requests, newest first.

Each line shows when the request started, its kind and priority class,
whether it succeeded, how long it took, and the URL that produced content.`,
	RunE: runHistory,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Drop old load history",
	RunE:  runHistoryPrune,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of records to show")
	historyCmd.AddCommand(historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("load history not configured")
	}

	records, err := historyService.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if len(records) == 0 {
		cmd.Println("No load history.")
		return nil
	}

	for i := range records {
		r := &records[i]
		status := "ok"
		switch {
		case r.Aborted:
			status = "aborted"
		case !r.Success:
			status = "failed"
		case r.FromCache:
			status = "cached"
		}
		cmd.Printf("%s  %-7s %-13s %-7s %8s  %s\n",
			r.StartedAt.Local().Format(time.DateTime),
			r.Kind,
			r.Class,
			status,
			r.Duration().Round(time.Millisecond),
			r.URL,
		)
		if r.Error != "" {
			cmd.Printf("    error: %s\n", r.Error)
		}
	}
	return nil
}

func runHistoryPrune(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("load history not configured")
	}
	if err := historyService.Prune(cmd.Context()); err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	cmd.Println("Load history pruned.")
	return nil
}
