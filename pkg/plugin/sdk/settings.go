package sdk

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// settingsKey is the single key the manager reads and writes in the host
// settings store.
const settingsKey = "PluginManager/PluginSpec.DisabledPlugins"

// SettingsStore is the host-provided key-value store the manager persists
// the disabled-plugin list through. A Manager never knows or cares how the
// store is backed.
type SettingsStore interface {
	Get(key string) ([]string, bool)
	Set(key string, value []string)
}

// YAMLSettingsStore is a SettingsStore backed by a single YAML file on
// disk, read in full on construction and rewritten in full on every Set.
type YAMLSettingsStore struct {
	path string
	data map[string][]string
}

// NewYAMLSettingsStore opens (or, if absent, prepares to create) a
// settings file at path. A missing file is not an error: the store starts
// empty, matching the "no config file is not an error" convention used
// elsewhere in this codebase.
func NewYAMLSettingsStore(path string) (*YAMLSettingsStore, error) {
	store := &YAMLSettingsStore{path: path, data: make(map[string][]string)}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := yaml.Unmarshal(raw, &store.data); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}
	if store.data == nil {
		store.data = make(map[string][]string)
	}
	return store, nil
}

func (y *YAMLSettingsStore) Get(key string) ([]string, bool) {
	v, ok := y.data[key]
	return v, ok
}

// Set updates the in-memory value and rewrites the settings file
// immediately; there is no separate flush step because the manager's
// write-back happens exactly once, on destruction.
func (y *YAMLSettingsStore) Set(key string, value []string) {
	y.data[key] = value
	_ = y.save()
}

func (y *YAMLSettingsStore) save() error {
	dir := filepath.Dir(y.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	out, err := yaml.Marshal(y.data)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(y.path, out, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// MemorySettingsStore is an in-process SettingsStore used by tests and by
// hosts that do not want persistence across runs.
type MemorySettingsStore struct {
	data map[string][]string
}

func NewMemorySettingsStore() *MemorySettingsStore {
	return &MemorySettingsStore{data: make(map[string][]string)}
}

func (m *MemorySettingsStore) Get(key string) ([]string, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *MemorySettingsStore) Set(key string, value []string) {
	m.data[key] = value
}

// dedupeNames returns names with duplicates removed, preserving first
// occurrence order.
func dedupeNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
