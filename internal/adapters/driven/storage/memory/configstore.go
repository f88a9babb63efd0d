package memory

import (
	"sync"

	"github.com/custodia-labs/sceneload/internal/adapters/driven/config/configval"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in process memory. The CLI falls back to it
// with --no-config or when the config directory cannot be created, so
// settings changed in a session are lost on exit.
type ConfigStore struct {
	configval.Getters

	mu     sync.RWMutex
	values map[string]any
}

// NewConfigStore returns an empty store.
func NewConfigStore() *ConfigStore {
	s := &ConfigStore{values: make(map[string]any)}
	s.Getters = configval.NewGetters(s.Get)
	return s
}

func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

// Save and Load have nothing to persist.
func (s *ConfigStore) Save() error { return nil }
func (s *ConfigStore) Load() error { return nil }

// Path reports ":memory:" so settings views can show where values live.
func (s *ConfigStore) Path() string { return ":memory:" }
