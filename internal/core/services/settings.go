package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
	"github.com/custodia-labs/sceneload/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyWorkers            = "loader.workers"
	keyCacheMode          = "loader.cache"
	keyCacheEntries       = "loader.cache_entries"
	keyCacheImages        = "loader.cache_images"
	keyRequestsPerSecond  = "transport.requests_per_second"
	keyBurst              = "transport.burst"
	keyUserAgent          = "transport.user_agent"
	keyTimeout            = "transport.timeout"
	keyThrottleEnabled    = "throttle.enabled"
	keyPollInterval       = "throttle.poll_interval"
	keyLoadingInterval    = "throttle.loading_interval"
	keyBackgroundInterval = "throttle.background_interval"
	keyIdleInterval       = "throttle.idle_interval"
	keyIdleDebounce       = "throttle.idle_debounce"
	keyStuckPolls         = "throttle.stuck_polls"
	keyHistoryEnabled     = "history.enabled"
	keyHistoryKeep        = "history.keep"
)

// SettingsService manages loader settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current loader settings. Missing or invalid values fall
// back to defaults.
func (s *SettingsService) Get() (*domain.LoaderSettings, error) {
	defaults := domain.DefaultLoaderSettings()

	settings := &domain.LoaderSettings{
		Pool: domain.PoolSettings{
			Workers: s.getInt(keyWorkers, defaults.Pool.Workers),
		},
		Cache: domain.CacheSettings{
			Mode:        s.getCacheMode(defaults.Cache.Mode),
			MaxEntries:  s.getInt(keyCacheEntries, defaults.Cache.MaxEntries),
			CacheImages: s.getBool(keyCacheImages, defaults.Cache.CacheImages),
		},
		Transport: domain.TransportSettings{
			RequestsPerSecond: s.getFloat(keyRequestsPerSecond, defaults.Transport.RequestsPerSecond),
			Burst:             s.getInt(keyBurst, defaults.Transport.Burst),
			UserAgent:         s.getString(keyUserAgent, defaults.Transport.UserAgent),
			Timeout:           s.getDuration(keyTimeout, defaults.Transport.Timeout),
		},
		Throttle: domain.ThrottleSettings{
			Enabled:            s.getBool(keyThrottleEnabled, defaults.Throttle.Enabled),
			PollInterval:       s.getDuration(keyPollInterval, defaults.Throttle.PollInterval),
			LoadingInterval:    s.getDuration(keyLoadingInterval, defaults.Throttle.LoadingInterval),
			BackgroundInterval: s.getDuration(keyBackgroundInterval, defaults.Throttle.BackgroundInterval),
			IdleInterval:       s.getDuration(keyIdleInterval, defaults.Throttle.IdleInterval),
			IdleDebounce:       s.getDuration(keyIdleDebounce, defaults.Throttle.IdleDebounce),
			StuckPolls:         s.getInt(keyStuckPolls, defaults.Throttle.StuckPolls),
		},
		History: domain.HistorySettings{
			Enabled: s.getBool(keyHistoryEnabled, defaults.History.Enabled),
			Keep:    s.getInt(keyHistoryKeep, defaults.History.Keep),
		},
	}

	return settings, nil
}

// Save persists loader settings.
func (s *SettingsService) Save(settings *domain.LoaderSettings) error {
	if settings == nil {
		return domain.ErrInvalidInput
	}

	values := []struct {
		key   string
		value any
	}{
		{keyWorkers, settings.Pool.Workers},
		{keyCacheMode, settings.Cache.Mode.String()},
		{keyCacheEntries, settings.Cache.MaxEntries},
		{keyCacheImages, settings.Cache.CacheImages},
		{keyRequestsPerSecond, settings.Transport.RequestsPerSecond},
		{keyBurst, settings.Transport.Burst},
		{keyUserAgent, settings.Transport.UserAgent},
		{keyTimeout, settings.Transport.Timeout.String()},
		{keyThrottleEnabled, settings.Throttle.Enabled},
		{keyPollInterval, settings.Throttle.PollInterval.String()},
		{keyLoadingInterval, settings.Throttle.LoadingInterval.String()},
		{keyBackgroundInterval, settings.Throttle.BackgroundInterval.String()},
		{keyIdleInterval, settings.Throttle.IdleInterval.String()},
		{keyIdleDebounce, settings.Throttle.IdleDebounce.String()},
		{keyStuckPolls, settings.Throttle.StuckPolls},
		{keyHistoryEnabled, settings.History.Enabled},
		{keyHistoryKeep, settings.History.Keep},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return nil
}

// SetCacheMode updates the file cache mode.
func (s *SettingsService) SetCacheMode(mode domain.CacheMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("invalid cache mode: %s", mode)
	}
	if err := s.configStore.Set(keyCacheMode, mode.String()); err != nil {
		return fmt.Errorf("save %s: %w", keyCacheMode, err)
	}
	return nil
}

// SetWorkers updates the worker count.
func (s *SettingsService) SetWorkers(n int) error {
	if n < 1 {
		return fmt.Errorf("invalid worker count %d: %w", n, domain.ErrInvalidInput)
	}
	if err := s.configStore.Set(keyWorkers, n); err != nil {
		return fmt.Errorf("save %s: %w", keyWorkers, err)
	}
	return nil
}

// Validate checks the current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.Pool.Workers < 1 {
		return fmt.Errorf("loader.workers must be at least 1, got %d", settings.Pool.Workers)
	}
	if !settings.Cache.Mode.IsValid() {
		return fmt.Errorf("invalid cache mode: %s", settings.Cache.Mode)
	}
	if settings.Cache.Mode == domain.CacheModeMemory && settings.Cache.MaxEntries < 1 {
		return fmt.Errorf("loader.cache_entries must be at least 1 for cache mode %q",
			settings.Cache.Mode.Description())
	}
	if settings.Transport.RequestsPerSecond < 0 {
		return fmt.Errorf("transport.requests_per_second must not be negative")
	}
	if settings.Transport.RequestsPerSecond > 0 && settings.Transport.Burst < 1 {
		return fmt.Errorf("transport.burst must be at least 1 when rate limiting")
	}
	if settings.Throttle.Enabled && settings.Throttle.PollInterval <= 0 {
		return fmt.Errorf("throttle.poll_interval must be positive")
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.LoaderSettings {
	return domain.DefaultLoaderSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

// getDuration reads a duration string such as "250ms" or "2s".
func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getCacheMode(defaultVal domain.CacheMode) domain.CacheMode {
	val := s.configStore.GetString(keyCacheMode)
	if val == "" {
		return defaultVal
	}
	mode := domain.CacheMode(val)
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}
