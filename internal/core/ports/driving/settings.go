package driving

import "github.com/custodia-labs/sceneload/internal/core/domain"

// SettingsService manages loader settings.
type SettingsService interface {
	// Get retrieves current loader settings, filling gaps with defaults.
	Get() (*domain.LoaderSettings, error)

	// Save persists loader settings.
	Save(settings *domain.LoaderSettings) error

	// SetCacheMode updates the file cache mode.
	SetCacheMode(mode domain.CacheMode) error

	// SetWorkers updates the worker count.
	SetWorkers(n int) error

	// Validate checks the current settings.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.LoaderSettings
}
