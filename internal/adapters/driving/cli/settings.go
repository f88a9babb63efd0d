package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sceneload/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:     "settings",
	Aliases: []string{"config"},
	Short:   "Manage loader settings",
	Long: `View and configure the worker pool, file cache, transport limits,
frame throttle and load history.

Use subcommands to change specific settings or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure the loader step by step.`,
	RunE:  runSettingsWizard,
}

var settingsWorkersCmd = &cobra.Command{
	Use:   "workers <n>",
	Short: "Set the number of loader workers",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsWorkers,
}

var settingsCacheCmd = &cobra.Command{
	Use:   "cache <mode>",
	Short: "Set the file cache mode",
	Long: `Set the file cache mode.

Available modes:
  memory - Keep recently loaded files in a bounded LRU cache
  none   - Fetch every resource each time it is requested`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsCache,
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the current settings",
	RunE:  runSettingsValidate,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsWorkersCmd)
	settingsCmd.AddCommand(settingsCacheCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Loader]")
	cmd.Printf("  Workers: %d\n", settings.Pool.Workers)
	cmd.Println()

	cmd.Println("[Cache]")
	cmd.Printf("  Mode: %s\n", settings.Cache.Mode.Description())
	if settings.Cache.Mode == domain.CacheModeMemory {
		cmd.Printf("  Max entries: %d\n", settings.Cache.MaxEntries)
		cmd.Printf("  Cache images: %s\n", yesNo(settings.Cache.CacheImages))
	}
	cmd.Println()

	cmd.Println("[Transport]")
	if settings.Transport.RequestsPerSecond > 0 {
		cmd.Printf("  Rate limit: %g/s (burst %d)\n", settings.Transport.RequestsPerSecond, settings.Transport.Burst)
	} else {
		cmd.Println("  Rate limit: none")
	}
	cmd.Printf("  User agent: %s\n", settings.Transport.UserAgent)
	cmd.Printf("  Timeout: %s\n", settings.Transport.Timeout)
	cmd.Println()

	cmd.Println("[Throttle]")
	cmd.Printf("  Enabled: %s\n", yesNo(settings.Throttle.Enabled))
	if settings.Throttle.Enabled {
		cmd.Printf("  Poll interval: %s\n", settings.Throttle.PollInterval)
		cmd.Printf("  Frame interval while loading: %s\n", settings.Throttle.LoadingInterval)
		cmd.Printf("  Frame interval in background: %s\n", settings.Throttle.BackgroundInterval)
		cmd.Printf("  Frame interval when idle: %s\n", settings.Throttle.IdleInterval)
	}
	cmd.Println()

	cmd.Println("[History]")
	cmd.Printf("  Enabled: %s\n", yesNo(settings.History.Enabled))
	if settings.History.Enabled {
		cmd.Printf("  Keep: %d\n", settings.History.Keep)
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'sceneload settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Sceneload Settings Wizard")
	cmd.Println("=========================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	// Step 1: Workers
	cmd.Println("Step 1: Loader Workers")
	cmd.Println("----------------------")
	cmd.Printf("Enter worker count [%d]: ", settings.Pool.Workers)
	settings.Pool.Workers = parsePositive(readLine(reader), settings.Pool.Workers)
	cmd.Printf("Using %d workers\n\n", settings.Pool.Workers)

	// Step 2: Cache
	cmd.Println("Step 2: File Cache")
	cmd.Println("------------------")
	modes := domain.AllCacheModes()
	current := 1
	for i, mode := range modes {
		cmd.Printf("  %d. %s\n", i+1, mode.Description())
		if mode == settings.Cache.Mode {
			current = i + 1
		}
	}
	cmd.Printf("\nEnter choice [%d]: ", current)
	settings.Cache.Mode = modes[parseChoice(readLine(reader), len(modes), current)-1]
	if settings.Cache.Mode == domain.CacheModeMemory {
		cmd.Printf("Maximum cached files [%d]: ", settings.Cache.MaxEntries)
		settings.Cache.MaxEntries = parsePositive(readLine(reader), settings.Cache.MaxEntries)
	}
	cmd.Printf("Using cache: %s\n\n", settings.Cache.Mode.Description())

	// Step 3: Transport
	cmd.Println("Step 3: Network Rate Limit")
	cmd.Println("--------------------------")
	cmd.Printf("Requests per second per host, 0 for unlimited [%g]: ", settings.Transport.RequestsPerSecond)
	settings.Transport.RequestsPerSecond = parseRate(readLine(reader), settings.Transport.RequestsPerSecond)
	cmd.Println()

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

func runSettingsWorkers(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid worker count %q", args[0])
	}
	if err := settingsService.SetWorkers(n); err != nil {
		return fmt.Errorf("failed to set workers: %w", err)
	}

	cmd.Printf("Loader workers set to %d\n", n)
	return nil
}

func runSettingsCache(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	mode := domain.CacheMode(strings.ToLower(args[0]))
	if !mode.IsValid() {
		return fmt.Errorf("invalid cache mode: %s", args[0])
	}
	if err := settingsService.SetCacheMode(mode); err != nil {
		return fmt.Errorf("failed to set cache mode: %w", err)
	}

	cmd.Printf("Cache mode set to: %s\n", mode.Description())
	return nil
}

func runSettingsValidate(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cmd.Println("Configuration is valid.")
	return nil
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func parsePositive(input string, defaultVal int) int {
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 {
		return defaultVal
	}
	return val
}

func parseRate(input string, defaultVal float64) float64 {
	val, err := strconv.ParseFloat(input, 64)
	if err != nil || val < 0 {
		return defaultVal
	}
	return val
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
