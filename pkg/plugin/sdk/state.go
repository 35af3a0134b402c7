package sdk

import "fmt"

// PluginSpecState is the lifecycle state of a single PluginSpec. States
// form a strict total order: Invalid < Read < Resolved < Loaded <
// Initialized. Transitions are one-way except that Resolved can revert to
// Read (re-resolution) and Initialized can revert to Resolved, passing
// through Loaded, via unloadPlugin.
type PluginSpecState int

const (
	// StateInvalid is the zero value: the spec has never been read, or
	// its last read failed.
	StateInvalid PluginSpecState = iota

	// StateRead means the description file parsed successfully but
	// dependencies have not yet been resolved against the rest of the
	// registry.
	StateRead

	// StateResolved means dependency edges have been wired (forward
	// dependencySpecs and reverse providesSpecs).
	StateResolved

	// StateLoaded means the dynamic library has been loaded and a
	// Plugin instance obtained, but Initialize has not run.
	StateLoaded

	// StateInitialized means the plugin's Initialize callback completed
	// successfully.
	StateInitialized
)

// String returns the human-readable name of the state.
func (s PluginSpecState) String() string {
	switch s {
	case StateInvalid:
		return "Invalid"
	case StateRead:
		return "Read"
	case StateResolved:
		return "Resolved"
	case StateLoaded:
		return "Loaded"
	case StateInitialized:
		return "Initialized"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// canTransition reports whether moving from "from" to "to" is one of the
// lattice's allowed steps: strictly forward by one level, or one of the
// two named backward exceptions.
func canTransition(from, to PluginSpecState) bool {
	if to == from+1 {
		return true
	}
	switch {
	case from == StateResolved && to == StateRead:
		return true
	case from == StateInitialized && to == StateResolved:
		return true
	default:
		return false
	}
}

// StateTransitionError reports an attempt to move a spec between states
// that the lattice does not permit.
type StateTransitionError struct {
	Plugin       string
	CurrentState PluginSpecState
	TargetState  PluginSpecState
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("plugin %q: invalid state transition %s -> %s", e.Plugin, e.CurrentState, e.TargetState)
}
