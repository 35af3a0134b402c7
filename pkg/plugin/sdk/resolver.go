package sdk

import (
	"sort"

	"github.com/glide-cli/plugo/pkg/toposort"
)

// Resolver is a thin orchestrator around PluginSpec's own dependency,
// propagation, and queue-building methods. It resolves every spec's
// dependencies, propagates the indirectlyDisabled flag to a fixed point
// across the whole graph, and builds the load and unload queues.
type Resolver struct{}

// NewResolver creates a Resolver. Resolver holds no state of its own;
// every method takes the full spec set as an argument.
func NewResolver() *Resolver {
	return &Resolver{}
}

// ResolveAll calls resolveDependencies on every spec that has been read
// (specs still at StateInvalid are skipped), then
// resolveIndirectlyDisabled(force=true) on every spec so propagation
// reaches every node at least once regardless of visit order. Both
// passes iterate specs in ascending name order, for the same
// reproducibility reason LoadQueue/UnloadQueue do.
func (r *Resolver) ResolveAll(specs []*PluginSpec) {
	ordered := sortedByName(specs)

	for _, s := range ordered {
		if s.state < StateRead {
			continue
		}
		_ = s.resolveDependencies(specs)
	}
	for _, s := range ordered {
		s.resolveIndirectlyDisabled(true, nil)
	}
}

// LoadQueue builds the load order across every spec in specs, handing
// specs to PluginSpec.loadQueue in ascending order of name so the
// sequence is reproducible run to run. Dependencies precede dependents.
func (r *Resolver) LoadQueue(specs []*PluginSpec) []*PluginSpec {
	qs := newQueueState()
	for _, s := range sortedByName(specs) {
		s.loadQueue(qs, nil)
	}
	return qs.queue
}

// UnloadQueue builds the unload order across every spec in specs,
// handing specs to PluginSpec.unloadQueue in descending order of name —
// the mirror of LoadQueue's ascending order, which is what makes
// UnloadQueue the reverse of LoadQueue for a graph whose loaded specs
// are exactly its enabled ones. Dependents precede the depended-on.
func (r *Resolver) UnloadQueue(specs []*PluginSpec) []*PluginSpec {
	ordered := sortedByName(specs)
	for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	}

	qs := newQueueState()
	for _, s := range ordered {
		s.unloadQueue(qs, nil)
	}
	return qs.queue
}

func sortedByName(specs []*PluginSpec) []*PluginSpec {
	out := make([]*PluginSpec, len(specs))
	copy(out, specs)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// TopoOrder is a diagnostic alternate computation of a valid load order,
// built on the generic pkg/toposort kernel instead of PluginSpec's own
// DFS methods. It is not used by LoadPlugins — LoadQueue remains the
// authoritative order — but is useful for tooling that wants a quick
// name-tie-broken ordering of only the currently loadable specs without
// walking the full PluginSpec state machine.
func (r *Resolver) TopoOrder(specs []*PluginSpec) ([]string, error) {
	g := toposort.New[string](toposort.ByValue[string]())

	byName := make(map[string]*PluginSpec, len(specs))
	for _, s := range specs {
		if !s.enabled || s.indirectlyDisabled {
			continue
		}
		byName[s.name] = s
		g.AddNode(s.name)
	}

	for name, s := range byName {
		for _, dep := range s.dependencySpecs {
			if dep == nil {
				continue
			}
			if _, ok := byName[dep.name]; !ok {
				continue
			}
			g.AddEdge(name, dep.name)
		}
	}

	order, err := g.Sort()
	if err != nil {
		var cycleErr *toposort.CycleError[string]
		if ok := asCycleError(err, &cycleErr); ok {
			return nil, &CircularDependencyError{Specs: cycleErr.Remaining}
		}
		return nil, err
	}
	return order, nil
}

func asCycleError(err error, target **toposort.CycleError[string]) bool {
	cycleErr, ok := err.(*toposort.CycleError[string])
	if ok {
		*target = cycleErr
	}
	return ok
}
