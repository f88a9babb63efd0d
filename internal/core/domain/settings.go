package domain

import "time"

const unknownDescription = "Unknown"

// CacheMode selects the file cache implementation.
type CacheMode string

// Available cache modes.
const (
	// CacheModeNone disables caching: every lookup misses.
	CacheModeNone CacheMode = "none"

	// CacheModeMemory keeps a bounded, least-recently-used set of entries.
	CacheModeMemory CacheMode = "memory"
)

// IsValid returns true if the cache mode is recognised.
func (m CacheMode) IsValid() bool {
	switch m {
	case CacheModeNone, CacheModeMemory:
		return true
	default:
		return false
	}
}

// AllCacheModes returns every cache mode in display order.
func AllCacheModes() []CacheMode {
	return []CacheMode{CacheModeMemory, CacheModeNone}
}

// String returns the string representation.
func (m CacheMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m CacheMode) Description() string {
	switch m {
	case CacheModeNone:
		return "None (always fetch)"
	case CacheModeMemory:
		return "Memory (bounded LRU)"
	default:
		return unknownDescription
	}
}

// PoolSettings holds worker pool configuration.
type PoolSettings struct {
	// Workers is the number of concurrent loader goroutines.
	Workers int
}

// CacheSettings holds file cache configuration.
type CacheSettings struct {
	// Mode selects the cache implementation.
	Mode CacheMode

	// MaxEntries bounds the memory cache.
	MaxEntries int

	// CacheImages stores decoded images too. Off by default because
	// textures are normally held by the renderer's own texture cache.
	CacheImages bool
}

// TransportSettings holds network configuration.
type TransportSettings struct {
	// RequestsPerSecond limits requests to a single host. Zero disables limiting.
	RequestsPerSecond float64

	// Burst is the per-host burst size.
	Burst int

	// UserAgent is sent with HTTP requests.
	UserAgent string

	// Timeout bounds connection setup and headers. Zero means no timeout.
	Timeout time.Duration
}

// ThrottleSettings holds frame pacing configuration.
type ThrottleSettings struct {
	// Enabled turns the framerate throttle on.
	Enabled bool

	// PollInterval is how often outstanding loads are counted.
	PollInterval time.Duration

	// LoadingInterval is the minimum frame interval while the main world loads.
	LoadingInterval time.Duration

	// BackgroundInterval is the minimum frame interval while resources are in flight.
	BackgroundInterval time.Duration

	// IdleInterval is the minimum frame interval once loading has drained.
	IdleInterval time.Duration

	// IdleDebounce is how long the count must stay at zero before relaxing.
	IdleDebounce time.Duration

	// StuckPolls is how many identical non-zero counts are treated as a
	// wedged loader.
	StuckPolls int
}

// HistorySettings holds load history configuration.
type HistorySettings struct {
	// Enabled records an entry per dispatched request.
	Enabled bool

	// Keep is the number of records retained on prune.
	Keep int
}

// LoaderSettings holds all loader configuration.
type LoaderSettings struct {
	Pool      PoolSettings
	Cache     CacheSettings
	Transport TransportSettings
	Throttle  ThrottleSettings
	History   HistorySettings
}

// DefaultLoaderSettings returns sensible defaults.
func DefaultLoaderSettings() LoaderSettings {
	return LoaderSettings{
		Pool: PoolSettings{
			Workers: 4,
		},
		Cache: CacheSettings{
			Mode:       CacheModeMemory,
			MaxEntries: 256,
		},
		Transport: TransportSettings{
			RequestsPerSecond: 8,
			Burst:             4,
			UserAgent:         "sceneload",
			Timeout:           30 * time.Second,
		},
		Throttle: ThrottleSettings{
			Enabled:            true,
			PollInterval:       250 * time.Millisecond,
			LoadingInterval:    20 * time.Millisecond,
			BackgroundInterval: 40 * time.Millisecond,
			IdleInterval:       100 * time.Millisecond,
			IdleDebounce:       2 * time.Second,
			StuckPolls:         120,
		},
		History: HistorySettings{
			Enabled: true,
			Keep:    500,
		},
	}
}
