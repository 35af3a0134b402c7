package toposort

import "fmt"

// Policy orders the full node set into a fixed preference sequence used to
// break ties between nodes that carry no constraint relative to each other.
// It is selected once, at Graph construction, never per call.
type Policy[K comparable] interface {
	// Order returns a permutation of nodes reflecting this policy's
	// tie-break preference. insertionIndex maps each node to the order
	// in which it was added to the graph (0-based).
	Order(nodes []K, insertionIndex map[K]int) []K
}

// CycleError reports that no topological ordering exists for the graph.
// Remaining holds every node that could not be emitted, in the policy's
// preference order, because each still had an outgoing edge into the set.
type CycleError[K comparable] struct {
	Remaining []K
}

func (e *CycleError[K]) Error() string {
	return fmt.Sprintf("toposort: cycle detected, %d node(s) could not be ordered: %v", len(e.Remaining), e.Remaining)
}

// Graph is a mutable node/edge set with a fixed tie-break Policy. An edge
// u -> v means "u requires v": v must precede u in any valid ordering.
//
// Sort results are memoized; AddNode and AddEdge invalidate the memo.
// Graph is not safe for concurrent use — callers needing concurrent access
// must serialize their own calls (see pkg/plugin/sdk's single-threaded
// manager contract for the rationale behind this choice in this module).
type Graph[K comparable] struct {
	policy Policy[K]

	nodes []K
	index map[K]int
	edges map[K]map[K]struct{} // u -> { v : u requires v }

	cache      []K
	cacheValid bool
}

// New creates an empty graph governed by the given tie-break policy.
func New[K comparable](policy Policy[K]) *Graph[K] {
	return &Graph[K]{
		policy: policy,
		index:  make(map[K]int),
		edges:  make(map[K]map[K]struct{}),
	}
}

// HasNode reports whether k has been added to the graph.
func (g *Graph[K]) HasNode(k K) bool {
	_, ok := g.index[k]
	return ok
}

// AddNode adds a new node. AddNode panics if k already exists — a caller
// adding the same node twice is a programmer error, not a recoverable one.
func (g *Graph[K]) AddNode(k K) {
	if g.HasNode(k) {
		panic(fmt.Sprintf("toposort: AddNode called with existing node %v", k))
	}
	g.index[k] = len(g.nodes)
	g.nodes = append(g.nodes, k)
	g.edges[k] = make(map[K]struct{})
	g.invalidate()
}

// AddEdge records that u requires v (v must precede u in the order).
// AddEdge panics if either endpoint has not been added via AddNode.
func (g *Graph[K]) AddEdge(u, v K) {
	if !g.HasNode(u) {
		panic(fmt.Sprintf("toposort: AddEdge called with unknown node %v", u))
	}
	if !g.HasNode(v) {
		panic(fmt.Sprintf("toposort: AddEdge called with unknown node %v", v))
	}
	g.edges[u][v] = struct{}{}
	g.invalidate()
}

// Nodes returns every node in insertion order.
func (g *Graph[K]) Nodes() []K {
	out := make([]K, len(g.nodes))
	copy(out, g.nodes)
	return out
}

func (g *Graph[K]) invalidate() {
	g.cache = nil
	g.cacheValid = false
}

// Sort computes a linear order such that for every edge u -> v, v appears
// strictly before u. Returns *CycleError[K] if no such order exists.
//
// Algorithm: maintain the set of remaining nodes; repeatedly scan the
// policy's preference order for the first remaining node with no
// outgoing edge into another remaining node, emit it, and remove it.
// Terminate when remaining is empty (success) or a full scan finds no
// eligible node (cycle).
func (g *Graph[K]) Sort() ([]K, error) {
	if g.cacheValid {
		out := make([]K, len(g.cache))
		copy(out, g.cache)
		return out, nil
	}

	remaining := make(map[K]struct{}, len(g.nodes))
	for _, n := range g.nodes {
		remaining[n] = struct{}{}
	}

	order := g.policy.Order(g.nodes, g.index)
	result := make([]K, 0, len(g.nodes))

	for len(remaining) > 0 {
		emitted := false
		for _, n := range order {
			if _, ok := remaining[n]; !ok {
				continue
			}
			if g.hasOutgoingToRemaining(n, remaining) {
				continue
			}
			result = append(result, n)
			delete(remaining, n)
			emitted = true
			break
		}

		if !emitted {
			cycle := make([]K, 0, len(remaining))
			for _, n := range order {
				if _, ok := remaining[n]; ok {
					cycle = append(cycle, n)
				}
			}
			return nil, &CycleError[K]{Remaining: cycle}
		}
	}

	g.cache = result
	g.cacheValid = true

	out := make([]K, len(result))
	copy(out, result)
	return out, nil
}

func (g *Graph[K]) hasOutgoingToRemaining(n K, remaining map[K]struct{}) bool {
	for v := range g.edges[n] {
		if _, ok := remaining[v]; ok {
			return true
		}
	}
	return false
}
