// Package sdk provides the plugin specification state machine, dependency
// resolution, and manager that together discover, load, and initialize
// plugins for a host application.
package sdk

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/glide-cli/plugo/pkg/logging"
	"github.com/glide-cli/plugo/pkg/toposort"
)

// specFileSuffix names the files Discover collects while walking a search
// root. Plugin description files are expected to end in this suffix.
const specFileSuffix = ".plugin.xml"

// Manager discovers plugin description files, drives every spec through
// the state machine via a Resolver, dispatches progress notifications,
// and persists the disabled-plugin list. All Manager methods are meant to
// be called from a single goroutine (see the concurrency model this
// package was built against); Manager holds no internal lock.
type Manager struct {
	loader   DynamicLoader
	store    SettingsStore
	resolver *Resolver
	logger   *logging.Logger

	specs    []*PluginSpec
	byName   map[string]*PluginSpec
	byPlugin map[Plugin]*PluginSpec

	loaded bool
}

// NewManager constructs a Manager around loader (used to load and unload
// plugin libraries) and store (the host settings key-value store). It
// does not read store; the persisted disabled-plugin list is read from
// store when LoadPlugins runs, not at construction. Logging goes to
// logging.Default() until a host calls SetLogger.
func NewManager(loader DynamicLoader, store SettingsStore) *Manager {
	return &Manager{
		loader:   loader,
		store:    store,
		resolver: NewResolver(),
		logger:   logging.Default(),
		byName:   make(map[string]*PluginSpec),
		byPlugin: make(map[Plugin]*PluginSpec),
	}
}

// SetLogger replaces the logger that state transitions and failures are
// reported through. Intended to be called once, right after NewManager,
// before LoadPlugins; a nil logger is ignored.
func (m *Manager) SetLogger(logger *logging.Logger) {
	if logger != nil {
		m.logger = logger
	}
}

// Discover walks every root in roots breadth-first, collecting the paths
// of files whose names end in specFileSuffix. Subdirectories are
// descended unconditionally.
func Discover(roots []string) ([]string, error) {
	var found []string

	for _, root := range roots {
		queue := []string{root}
		for len(queue) > 0 {
			dir := queue[0]
			queue = queue[1:]

			entries, err := os.ReadDir(dir)
			if err != nil {
				continue
			}

			for _, entry := range entries {
				path := filepath.Join(dir, entry.Name())
				if entry.IsDir() {
					queue = append(queue, path)
					continue
				}
				if hasSpecSuffix(entry.Name()) {
					found = append(found, path)
				}
			}
		}
	}

	return found, nil
}

func hasSpecSuffix(name string) bool {
	if len(name) < len(specFileSuffix) {
		return false
	}
	return name[len(name)-len(specFileSuffix):] == specFileSuffix
}

// LoadPlugins discovers spec files under roots, reads each into a fresh
// PluginSpec, applies the persisted disabled-plugin list, resolves the
// dependency graph, and loads every spec the resulting load queue
// includes. A spec that fails to read is kept in the manager's registry
// at StateInvalid so its error is reportable, but takes no further part
// in resolution. Precondition: LoadPlugins has not already been called
// on this Manager.
func (m *Manager) LoadPlugins(roots []string) error {
	if m.loaded {
		panic("LoadPlugins called twice on the same Manager")
	}
	m.loaded = true

	paths, err := Discover(roots)
	if err != nil {
		return fmt.Errorf("plugin discovery failed: %w", err)
	}
	m.logger.Debug("Discovered plugin manifests", "count", len(paths), "roots", roots)

	disabled := m.disabledSet()

	for _, path := range paths {
		spec := NewPluginSpec()
		if err := spec.Read(path); err != nil {
			m.logger.Warn("Failed to read plugin manifest", "path", path, "error", err)
			m.specs = append(m.specs, spec)
			continue
		}

		if disabled[spec.Name()] {
			spec.SetEnabled(false)
			m.logger.Debug("Plugin disabled by persisted settings", "plugin", spec.Name())
		}

		m.specs = append(m.specs, spec)
		m.byName[spec.Name()] = spec
	}

	m.resolver.ResolveAll(m.specs)

	for _, spec := range m.resolver.LoadQueue(m.specs) {
		if err := spec.loadPlugin(m.loader); err != nil {
			m.logger.Warn("Failed to load plugin library", "plugin", spec.Name(), "error", err)
			continue
		}
		if spec.Plugin() != nil {
			m.byPlugin[spec.Plugin()] = spec
			m.logger.Debug("Loaded plugin library", "plugin", spec.Name())
		}
	}

	return nil
}

// InitializePlugins walks the load queue in order and, for each spec at
// StateLoaded, notifies monitor then calls initializePlugin. If a
// plugin's initialize failure requests application shutdown (via
// IsShutdownRequested), InitializePlugins records the offending plugin's
// name and returns (false, name) immediately without continuing the
// pass. Otherwise, on a non-shutdown-requesting failure, it unloads every
// transitive dependent of the failing spec, re-propagates
// indirectlyDisabled, and continues with the rest of the queue. Returns
// true iff every loaded plugin reached StateInitialized. Regardless of
// outcome, monitor.SetStatus has already been called once per spec whose
// initialize was attempted, and monitor.Done is called exactly once,
// just before InitializePlugins returns on every path.
func (m *Manager) InitializePlugins(monitor ProgressMonitor) (ok bool, shutdownRequestedBy string) {
	if monitor == nil {
		monitor = nullMonitor{}
	}
	defer monitor.Done()

	allOK := true
	for _, spec := range m.resolver.LoadQueue(m.specs) {
		if spec.State() != StateLoaded {
			continue
		}

		monitor.SetStatus(spec.Name())
		plugin := spec.Plugin()

		if err := spec.initializePlugin(); err != nil {
			allOK = false
			if plugin != nil && plugin.IsShutdownRequested() {
				m.logger.Error("Plugin requested shutdown during initialization", "plugin", spec.Name(), "error", err)
				return false, spec.Name()
			}

			m.logger.Warn("Plugin failed to initialize; unloading its dependents", "plugin", spec.Name(), "error", err)
			for _, dependent := range m.resolver.UnloadQueue(m.specs) {
				if dependent == spec {
					continue
				}
				if !dependsOn(dependent, spec) {
					continue
				}
				m.logger.Debug("Unloading dependent of failed plugin", "plugin", dependent.Name(), "failed", spec.Name())
				_, _ = dependent.unloadPlugin(m.loader)
			}
			m.resolver.ResolveAll(m.specs)
			continue
		}

		m.logger.Debug("Plugin initialized", "plugin", spec.Name())
	}

	return allOK, ""
}

// dependsOn reports whether candidate transitively depends on target via
// dependencySpecs.
func dependsOn(candidate, target *PluginSpec) bool {
	for _, dep := range candidate.DependencySpecs() {
		if dep == nil {
			continue
		}
		if dep == target || dependsOn(dep, target) {
			return true
		}
	}
	return false
}

// UnloadPlugins computes the unload queue and unloads every entry,
// updating the plugin-instance mapping as it goes.
func (m *Manager) UnloadPlugins() {
	for _, spec := range m.resolver.UnloadQueue(m.specs) {
		if plugin := spec.Plugin(); plugin != nil {
			delete(m.byPlugin, plugin)
		}
		stillReferenced, err := spec.unloadPlugin(m.loader)
		if err != nil {
			m.logger.Warn("Failed to unload plugin library", "plugin", spec.Name(), "error", err)
			continue
		}
		m.logger.Debug("Unloaded plugin", "plugin", spec.Name(), "stillReferenced", stillReferenced)
	}
}

// Shutdown unloads every plugin and writes the current disabled-plugin
// names back to the settings store, de-duplicated. It should be called
// once, when the host is tearing the manager down.
func (m *Manager) Shutdown() {
	m.UnloadPlugins()

	var names []string
	for _, spec := range m.specs {
		if !spec.Enabled() && spec.Name() != "" {
			names = append(names, spec.Name())
		}
	}
	names = dedupeNames(names)
	m.logger.Debug("Persisting disabled plugin list", "count", len(names))
	m.store.Set(settingsKey, names)
}

func (m *Manager) disabledSet() map[string]bool {
	names, _ := m.store.Get(settingsKey)
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// Spec returns the spec registered under name, or nil if none was
// discovered.
func (m *Manager) Spec(name string) *PluginSpec {
	return m.byName[name]
}

// SpecForPlugin returns the spec that owns plugin, or nil.
func (m *Manager) SpecForPlugin(plugin Plugin) *PluginSpec {
	return m.byPlugin[plugin]
}

// Specs returns every spec the manager knows about, including ones that
// failed to read and remain at StateInvalid.
func (m *Manager) Specs() []*PluginSpec {
	return m.specs
}

// SetEnabled toggles a spec's enabled flag by name, then re-runs the
// resolver so indirectlyDisabled propagates to its dependents. It does
// not itself load or unload anything; callers that want the new decision
// reflected in what's running should follow with LoadPlugins-style queue
// walks of their own, or call UnloadPlugins/InitializePlugins as
// appropriate.
func (m *Manager) SetEnabled(name string, enabled bool) error {
	spec, ok := m.byName[name]
	if !ok {
		return fmt.Errorf("plugin %q not found", name)
	}
	spec.SetEnabled(enabled)
	m.resolver.ResolveAll(m.specs)
	return nil
}

// DisplayOrder returns every enabled, non-indirectly-disabled spec's name
// grouped by category (specs sharing a category appear consecutively;
// specs are added in ascending name order, so categories are ordered by
// the name of their first spec and specs within a category by name) — a
// presentation-only ordering for listing
// plugins to a user; it has no bearing on load or unload order.
func (m *Manager) DisplayOrder() []string {
	categoryIndex := make(map[string]int)
	var categoryOrder []string

	g := toposort.New[string](toposort.StripedFifo(func(name string) int {
		spec := m.byName[name]
		cat := ""
		if spec != nil {
			cat = spec.Category()
		}
		idx, ok := categoryIndex[cat]
		if !ok {
			idx = len(categoryOrder)
			categoryIndex[cat] = idx
			categoryOrder = append(categoryOrder, cat)
		}
		return idx
	}))

	for _, spec := range sortedSpecsByName(m.specs) {
		if !spec.Enabled() || spec.IndirectlyDisabled() {
			continue
		}
		g.AddNode(spec.Name())
	}

	order, err := g.Sort()
	if err != nil {
		return nil
	}
	return order
}

func sortedSpecsByName(specs []*PluginSpec) []*PluginSpec {
	out := make([]*PluginSpec, len(specs))
	copy(out, specs)
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
