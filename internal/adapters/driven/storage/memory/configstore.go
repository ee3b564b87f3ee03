package memory

import (
	"maps"
	"sync"

	"github.com/spf13/cast"

	"github.com/custodia-labs/healthdoc/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in memory. Values are coerced the same way
// the TOML store coerces decoded values.
type ConfigStore struct {
	mu      sync.RWMutex
	values  map[string]any
	updates int
}

// NewConfigStore creates an empty store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		values: make(map[string]any),
	}
}

// Get returns the raw value of key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	return val, ok
}

// GetString returns key as a string, or "" for non-scalars.
func (s *ConfigStore) GetString(key string) string {
	val, ok := s.Get(key)
	if !ok {
		return ""
	}
	return cast.ToString(val)
}

// GetInt returns key as an int. Numeric strings are parsed.
func (s *ConfigStore) GetInt(key string) int {
	val, ok := s.Get(key)
	if !ok {
		return 0
	}
	if _, isBool := val.(bool); isBool {
		return 0
	}
	return cast.ToInt(val)
}

// Update applies values. Empty strings remove their key.
func (s *ConfigStore) Update(values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		if str, ok := v.(string); ok && str == "" {
			delete(s.values, k)
			continue
		}
		s.values[k] = v
	}
	s.updates++
	return nil
}

// Updates returns how many times Update has been called.
func (s *ConfigStore) Updates() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updates
}

// Snapshot returns a copy of every stored value.
func (s *ConfigStore) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values)
}

// Path returns a marker, as nothing is persisted.
func (s *ConfigStore) Path() string {
	return ":memory:"
}
