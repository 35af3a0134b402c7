// Package sdk provides the plugin specification state machine, dependency
// resolution, and manager that together discover, load, and initialize
// plugins for a host application.
package sdk

// Plugin is the contract a loaded dynamic library must implement. It is
// the shape returned by a DynamicLoader's Load call.
type Plugin interface {
	// Initialize allocates the plugin's resources. A non-nil error is
	// recorded on the owning spec and leaves it at StateLoaded rather
	// than advancing to StateInitialized.
	Initialize() error

	// Shutdown releases the plugin's resources. Called at most once,
	// only when the owning spec is at or past StateInitialized.
	Shutdown()

	// IsShutdownRequested is advisory: a plugin that wants to abort the
	// host's whole initialization pass returns true here after an
	// Initialize failure. Most plugins always return false.
	IsShutdownRequested() bool
}

// ProgressMonitor is notified once per plugin about to be initialized,
// then once more when the whole InitializePlugins pass has finished.
type ProgressMonitor interface {
	SetStatus(text string)

	// Done is called exactly once, just before InitializePlugins
	// returns, regardless of whether it succeeded, failed some specs, or
	// stopped early on a shutdown request (in which case the remaining
	// specs in the load queue are not attempted).
	Done()
}

// DynamicLoader loads and unloads the shared library backing a spec.
// Load returns a Plugin on success. Unload reports whether the library
// is still referenced elsewhere (true) or was actually released (false).
type DynamicLoader interface {
	Load(path string) (Plugin, error)
	Unload(path string) (stillReferenced bool, err error)
}
