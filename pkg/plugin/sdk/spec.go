package sdk

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var versionPattern = regexp.MustCompile(`^([0-9]+)(\.[0-9]+)?(\.[0-9]+)?(_[0-9]+)?$`)

// normalizeVersion returns v unchanged if it matches the accepted version
// grammar, otherwise the empty string.
func normalizeVersion(v string) string {
	if versionPattern.MatchString(v) {
		return v
	}
	return ""
}

type specXML struct {
	XMLName      xml.Name        `xml:"plugin"`
	Name         string          `xml:"name,attr"`
	Version      string          `xml:"version,attr"`
	Description  string          `xml:"description"`
	Category     string          `xml:"category"`
	Dependencies []dependencyXML `xml:"dependencyList>dependency"`
}

type dependencyXML struct {
	Name    string `xml:"name,attr"`
	Version string `xml:"version,attr"`
}

// PluginSpec is a parsed plugin description file, its declared
// dependencies, its current lifecycle state, its accumulated error
// string, and the forward and reverse edges wiring it to the rest of
// the spec registry. PluginSpec is mutable and identity-based: callers
// compare specs by pointer, never by value.
type PluginSpec struct {
	// Static fields, set by Read.
	name         string
	version      string
	description  string
	category     string
	dependencies []PluginDependency
	filePath     string
	fileName     string

	// Policy flags.
	enabled                    bool
	persistent                 bool
	indirectlyDisabled         bool
	initializationFailed       bool
	circularDependencyDetected bool

	// Graph edges, set by Resolver via resolveDependencies. dependencySpecs
	// is parallel to dependencies: dependencySpecs[i] is the resolved
	// target of dependencies[i], or nil if it could not be resolved by
	// name. providesSpecs is the non-owning reverse edge set.
	dependencySpecs []*PluginSpec
	providesSpecs   []*PluginSpec

	state       PluginSpecState
	hasError    bool
	errorString string

	plugin Plugin
}

// NewPluginSpec returns a spec in the zero (Invalid) state.
func NewPluginSpec() *PluginSpec {
	return &PluginSpec{}
}

func (s *PluginSpec) Name() string                              { return s.name }
func (s *PluginSpec) Version() string                            { return s.version }
func (s *PluginSpec) Description() string                       { return s.description }
func (s *PluginSpec) Category() string                           { return s.category }
func (s *PluginSpec) Dependencies() []PluginDependency           { return s.dependencies }
func (s *PluginSpec) FilePath() string                           { return s.filePath }
func (s *PluginSpec) FileName() string                           { return s.fileName }
func (s *PluginSpec) State() PluginSpecState                     { return s.state }
func (s *PluginSpec) HasError() bool                             { return s.hasError }
func (s *PluginSpec) ErrorString() string                        { return s.errorString }
func (s *PluginSpec) Enabled() bool                              { return s.enabled }
func (s *PluginSpec) SetEnabled(enabled bool)                    { s.enabled = enabled }
func (s *PluginSpec) Persistent() bool                           { return s.persistent }
func (s *PluginSpec) SetPersistent(persistent bool)              { s.persistent = persistent }
func (s *PluginSpec) IndirectlyDisabled() bool                   { return s.indirectlyDisabled }
func (s *PluginSpec) InitializationFailed() bool                 { return s.initializationFailed }
func (s *PluginSpec) CircularDependencyDetected() bool           { return s.circularDependencyDetected }
func (s *PluginSpec) Plugin() Plugin                             { return s.plugin }
func (s *PluginSpec) DependencySpecs() []*PluginSpec              { return s.dependencySpecs }
func (s *PluginSpec) ProvidesSpecs() []*PluginSpec                { return s.providesSpecs }

func (s *PluginSpec) recordError(msg string) {
	s.hasError = true
	if s.errorString == "" {
		s.errorString = msg
	} else {
		s.errorString = s.errorString + "\n" + msg
	}
}

func (s *PluginSpec) transitionTo(to PluginSpecState) {
	if !canTransition(s.state, to) {
		panic((&StateTransitionError{Plugin: s.name, CurrentState: s.state, TargetState: to}).Error())
	}
	s.state = to
}

// Read clears all previous fields, opens specFileName, parses it as the
// plugin description XML grammar, and on success sets the spec's static
// fields, marks it enabled, and advances it to StateRead. On failure the
// spec is reset to StateInvalid and the error is both returned and
// recorded on the spec's accumulated error string.
func (s *PluginSpec) Read(specFileName string) error {
	*s = PluginSpec{}

	data, err := os.ReadFile(specFileName)
	if err != nil {
		parseErr := &ParseError{FilePath: specFileName, Cause: err}
		s.recordError(parseErr.Error())
		return parseErr
	}

	var parsed specXML
	if err := xml.Unmarshal(data, &parsed); err != nil {
		line := 0
		if syntaxErr, ok := err.(*xml.SyntaxError); ok {
			line = syntaxErr.Line
		}
		parseErr := &ParseError{FilePath: specFileName, Line: line, Cause: err}
		s.recordError(parseErr.Error())
		return parseErr
	}

	s.name = parsed.Name
	s.version = normalizeVersion(parsed.Version)
	s.description = parsed.Description
	s.category = parsed.Category
	s.filePath = filepath.Dir(specFileName)
	s.fileName = filepath.Base(specFileName)

	s.dependencies = make([]PluginDependency, len(parsed.Dependencies))
	for i, d := range parsed.Dependencies {
		s.dependencies[i] = PluginDependency{Name: d.Name, Version: normalizeVersion(d.Version)}
	}

	s.enabled = true
	s.transitionTo(StateRead)
	return nil
}

// resolveDependencies wires this spec's forward dependencySpecs and
// registers it on each target's reverse providesSpecs. If the spec is
// currently Resolved, it first reverts to Read so re-resolution is
// idempotent (invariant #6). Every declared dependency that cannot be
// found by name in allSpecs is reported, but resolution continues past
// it so every missing dependency is surfaced, not just the first. A spec
// at Read only advances to Resolved if every dependency resolved; a spec
// already Loaded or Initialized has its edges re-wired and keeps its state.
func (s *PluginSpec) resolveDependencies(allSpecs []*PluginSpec) error {
	if s.state < StateRead {
		panic(fmt.Sprintf("plugin %q: resolveDependencies called before Read", s.name))
	}
	if s.state == StateResolved {
		s.transitionTo(StateRead)
	}

	for _, dep := range s.dependencySpecs {
		if dep != nil {
			dep.removeProvides(s)
		}
	}

	s.dependencySpecs = make([]*PluginSpec, len(s.dependencies))
	var unresolved []error

	for i, dep := range s.dependencies {
		target := findSpecByName(allSpecs, dep.Name)
		if target == nil {
			err := &UnresolvedDependencyError{Plugin: s.name, Dependency: dep.Name}
			unresolved = append(unresolved, err)
			s.recordError(err.Error())
			continue
		}
		s.dependencySpecs[i] = target
		target.providesSpecs = append(target.providesSpecs, s)
	}

	if len(unresolved) > 0 {
		return unresolved[0]
	}

	if s.state == StateRead {
		s.transitionTo(StateResolved)
	}
	return nil
}

func (s *PluginSpec) removeProvides(dependent *PluginSpec) {
	out := s.providesSpecs[:0]
	for _, p := range s.providesSpecs {
		if p != dependent {
			out = append(out, p)
		}
	}
	s.providesSpecs = out
}

func findSpecByName(specs []*PluginSpec, name string) *PluginSpec {
	for _, spec := range specs {
		if spec.name == name {
			return spec
		}
	}
	return nil
}

// resolveIndirectlyDisabled recomputes indirectlyDisabled, guarded by
// stack (a traversal-in-progress set shared across one top-level call's
// recursion). If s is already on stack, a cycle has been found: both
// indirectlyDisabled and circularDependencyDetected are set and a
// diagnostic recorded, and the call returns without recursing further.
// Otherwise: if force, indirectlyDisabled is cleared before rescanning
// (circularDependencyDetected and hasError are never cleared here, only
// by a later successful Read); else if already true, returns
// (idempotent). Forward dependencies are scanned flatly: if any carries
// an error, is indirectly disabled, is disabled, or failed
// initialization, indirectlyDisabled is set true. If that changed the
// flag to true, or force is set, propagation continues upward across
// every reverse (providesSpecs) edge.
func (s *PluginSpec) resolveIndirectlyDisabled(force bool, stack []*PluginSpec) {
	for _, onStack := range stack {
		if onStack == s {
			s.indirectlyDisabled = true
			s.circularDependencyDetected = true
			s.recordError(fmt.Sprintf("Circular dependency detected: %s", cycleDescription(stack, s)))
			return
		}
	}

	stack = append(stack, s)

	if force {
		s.indirectlyDisabled = false
	} else if s.indirectlyDisabled {
		return
	}

	wasDisabled := s.indirectlyDisabled
	for _, dep := range s.dependencySpecs {
		if dep == nil {
			continue
		}
		if dep.hasError || dep.indirectlyDisabled || !dep.enabled || dep.initializationFailed {
			s.indirectlyDisabled = true
			break
		}
	}
	changed := !wasDisabled && s.indirectlyDisabled

	if changed || force {
		for _, dependent := range s.providesSpecs {
			dependent.resolveIndirectlyDisabled(force, stack)
		}
	}
}

func cycleDescription(stack []*PluginSpec, closingSpec *PluginSpec) string {
	names := make([]string, 0, len(stack)+1)
	for _, s := range stack {
		names = append(names, s.name)
	}
	names = append(names, closingSpec.name)
	return strings.Join(names, " -> ")
}

// queueState accumulates a load or unload queue along with a fast
// membership set, shared across the whole resolver pass over every spec.
type queueState struct {
	queue []*PluginSpec
	seen  map[*PluginSpec]bool
}

func newQueueState() *queueState {
	return &queueState{seen: make(map[*PluginSpec]bool)}
}

// loadQueue contributes s and its transitive forward dependencies to qs,
// dependencies before dependents. Returns false if s has not yet reached
// StateResolved, is not enabled, or is indirectly disabled — a spec whose
// own dependencies failed to resolve never reaches Resolved and so is
// excluded here even though resolveIndirectlyDisabled cannot see it
// (its dependencySpecs entries are nil for unresolved names). cycleCheck
// is fresh per top-level call (one
// per spec the resolver iterates over, in ascending name order) so a
// structural cycle in this traversal is distinguishable from a spec
// already committed to the queue by an earlier top-level call.
func (s *PluginSpec) loadQueue(qs *queueState, cycleCheck []*PluginSpec) bool {
	if s.state < StateResolved || !s.enabled || s.indirectlyDisabled {
		return false
	}
	if qs.seen[s] {
		return true
	}
	for _, onStack := range cycleCheck {
		if onStack == s {
			return false
		}
	}
	cycleCheck = append(cycleCheck, s)

	for _, dep := range s.dependencySpecs {
		if dep == nil {
			continue
		}
		if !dep.loadQueue(qs, cycleCheck) {
			return false
		}
	}

	qs.queue = append(qs.queue, s)
	qs.seen[s] = true
	return true
}

// unloadQueue is symmetric to loadQueue but traverses providesSpecs
// (dependents before the depended-on) and is gated on the spec actually
// having something loaded (state >= StateLoaded) rather than on enabled
// — a spec disabled after being loaded is still included, so its loaded
// resources are released.
func (s *PluginSpec) unloadQueue(qs *queueState, cycleCheck []*PluginSpec) bool {
	if s.state < StateLoaded {
		return false
	}
	if qs.seen[s] {
		return true
	}
	for _, onStack := range cycleCheck {
		if onStack == s {
			return false
		}
	}
	cycleCheck = append(cycleCheck, s)

	for _, dependent := range s.providesSpecs {
		if !dependent.unloadQueue(qs, cycleCheck) {
			return false
		}
	}

	qs.queue = append(qs.queue, s)
	qs.seen[s] = true
	return true
}

// loadPlugin builds the expected library path from filePath and name,
// and asks loader to load it. Every forward dependency must already be
// loaded (the caller is expected to have ordered calls via LoadQueue); if
// not, loadPlugin returns nil without error, leaving the spec at
// StateResolved for the caller to retry later in the correct order.
func (s *PluginSpec) loadPlugin(loader DynamicLoader) error {
	if s.state != StateResolved {
		panic(fmt.Sprintf("plugin %q: loadPlugin called outside StateResolved (at %s)", s.name, s.state))
	}

	for _, dep := range s.dependencySpecs {
		if dep != nil && dep.plugin == nil {
			return nil
		}
	}

	path := LibraryFileName(s.filePath, s.name)
	plugin, err := loader.Load(path)
	if err != nil {
		libErr := &LibraryLoadError{Plugin: s.name, Path: path, Cause: err}
		s.recordError(libErr.Error())
		return libErr
	}

	s.plugin = plugin
	s.transitionTo(StateLoaded)
	return nil
}

// initializePlugin invokes the loaded plugin's Initialize callback. On
// success the spec advances to StateInitialized and initializationFailed
// is cleared. On failure initializationFailed is set, the error is
// recorded, and the spec remains at StateLoaded.
func (s *PluginSpec) initializePlugin() error {
	if s.state != StateLoaded {
		panic(fmt.Sprintf("plugin %q: initializePlugin called outside StateLoaded (at %s)", s.name, s.state))
	}

	if err := s.plugin.Initialize(); err != nil {
		s.initializationFailed = true
		initErr := &InitializationError{Plugin: s.name, Cause: err}
		s.recordError(initErr.Error())
		return initErr
	}

	s.initializationFailed = false
	s.transitionTo(StateInitialized)
	return nil
}

// unloadPlugin shuts down the plugin if initialized, asks loader to
// unload the library, logs nothing itself (the caller decides how to
// report a still-referenced warning), clears the plugin reference, and
// reverts state to StateResolved.
func (s *PluginSpec) unloadPlugin(loader DynamicLoader) (stillReferenced bool, err error) {
	if s.state >= StateInitialized {
		s.plugin.Shutdown()
		s.state = StateLoaded
	}

	if s.state == StateLoaded {
		path := LibraryFileName(s.filePath, s.name)
		stillReferenced, err = loader.Unload(path)
	}

	s.plugin = nil
	s.state = StateResolved
	return stillReferenced, err
}
