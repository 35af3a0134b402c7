// Package sdktest provides deterministic test doubles for exercising
// pkg/plugin/sdk's Manager and Resolver without launching real plugin
// subprocesses.
package sdktest

import (
	"fmt"
	"sync"

	"github.com/glide-cli/plugo/pkg/plugin/sdk"
)

// FakePlugin is a minimal sdk.Plugin whose behavior is fully controlled
// by its exported fields.
type FakePlugin struct {
	Name              string
	InitErr           error
	ShutdownRequested bool
	InitializeCalls   int
	ShutdownCalls     int
}

func (p *FakePlugin) Initialize() error {
	p.InitializeCalls++
	return p.InitErr
}

func (p *FakePlugin) Shutdown() {
	p.ShutdownCalls++
}

func (p *FakePlugin) IsShutdownRequested() bool {
	return p.ShutdownRequested
}

// FakeLoader is an sdk.DynamicLoader backed by an in-memory path ->
// FakePlugin map supplied by the test, so Load/Unload never touch the
// filesystem or spawn a subprocess.
type FakeLoader struct {
	mu      sync.Mutex
	Plugins map[string]*FakePlugin
	LoadErr map[string]error
	loaded  map[string]bool
}

// NewFakeLoader returns a FakeLoader with empty plugin and error maps;
// callers populate Plugins/LoadErr directly before use.
func NewFakeLoader() *FakeLoader {
	return &FakeLoader{
		Plugins: make(map[string]*FakePlugin),
		LoadErr: make(map[string]error),
		loaded:  make(map[string]bool),
	}
}

func (f *FakeLoader) Load(path string) (sdk.Plugin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.LoadErr[path]; ok && err != nil {
		return nil, err
	}
	p, ok := f.Plugins[path]
	if !ok {
		return nil, fmt.Errorf("fakeloader: no plugin registered for path %q", path)
	}
	f.loaded[path] = true
	return p, nil
}

func (f *FakeLoader) Unload(path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.loaded, path)
	return false, nil
}

// IsLoaded reports whether path's most recent Load has not since been
// Unloaded.
func (f *FakeLoader) IsLoaded(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loaded[path]
}

// NewMemorySettingsStore returns a fresh sdk.MemorySettingsStore for
// tests that want to observe what the manager persists without writing
// to disk. It is a thin alias so test files can stay under the sdktest
// import alone.
func NewMemorySettingsStore() *sdk.MemorySettingsStore {
	return sdk.NewMemorySettingsStore()
}

// RecordingMonitor is an sdk.ProgressMonitor that records every status
// string it was given, in order, plus how many times Done was called.
type RecordingMonitor struct {
	mu        sync.Mutex
	Statuses  []string
	DoneCalls int
}

func (m *RecordingMonitor) SetStatus(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Statuses = append(m.Statuses, text)
}

func (m *RecordingMonitor) Done() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DoneCalls++
}
