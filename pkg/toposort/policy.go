package toposort

import (
	"cmp"
	"slices"
)

// Natural orders nodes by their current position in the graph's internal
// node list. Two nodes with no constraint relative to each other come out
// in whatever order Sort happened to scan them in; this implementation
// makes that the insertion order, but callers must not depend on it — use
// Fifo if insertion order is an actual requirement rather than a side
// effect of this implementation.
type natural[K comparable] struct{}

// Natural returns the default tie-break policy: deterministic for a fixed
// sequence of AddNode calls, but its exact behavior is not part of this
// package's contract.
func Natural[K comparable]() Policy[K] {
	return natural[K]{}
}

func (natural[K]) Order(nodes []K, _ map[K]int) []K {
	out := make([]K, len(nodes))
	copy(out, nodes)
	return out
}

// Fifo breaks ties in the order nodes were added to the graph.
type fifo[K comparable] struct{}

func Fifo[K comparable]() Policy[K] {
	return fifo[K]{}
}

func (fifo[K]) Order(nodes []K, index map[K]int) []K {
	out := make([]K, len(nodes))
	copy(out, nodes)
	slices.SortStableFunc(out, func(a, b K) int {
		return cmp.Compare(index[a], index[b])
	})
	return out
}

// Lifo breaks ties in the reverse of insertion order.
type lifo[K comparable] struct{}

func Lifo[K comparable]() Policy[K] {
	return lifo[K]{}
}

func (lifo[K]) Order(nodes []K, index map[K]int) []K {
	out := make([]K, len(nodes))
	copy(out, nodes)
	slices.SortStableFunc(out, func(a, b K) int {
		return cmp.Compare(index[b], index[a])
	})
	return out
}

// byValue breaks ties by comparing node values directly.
type byValue[K cmp.Ordered] struct{}

// ByValue breaks ties by the natural ordering of K itself. K must satisfy
// cmp.Ordered (numeric or string types).
func ByValue[K cmp.Ordered]() Policy[K] {
	return byValue[K]{}
}

func (byValue[K]) Order(nodes []K, _ map[K]int) []K {
	out := make([]K, len(nodes))
	copy(out, nodes)
	slices.SortStableFunc(out, cmp.Compare[K])
	return out
}

// stripedFifo groups nodes by a stripe key, orders the groups by their
// first-seen insertion order, and within a group preserves insertion order.
type stripedFifo[K comparable] struct {
	stripe func(K) int
}

// StripedFifo groups nodes by stripe(k), preserving the relative order in
// which stripes were first introduced and, within a stripe, the order
// nodes of that stripe were added. This is useful for "keep nodes of the
// same category together, in the order their category first appeared"
// presentation ordering.
func StripedFifo[K comparable](stripe func(K) int) Policy[K] {
	return stripedFifo[K]{stripe: stripe}
}

func (s stripedFifo[K]) Order(nodes []K, index map[K]int) []K {
	return stripedOrder(nodes, index, s.stripe, false)
}

// stripedLifo is StripedFifo with reversed intra-stripe order.
type stripedLifo[K comparable] struct {
	stripe func(K) int
}

// StripedLifo groups nodes by stripe(k) like StripedFifo, but within a
// stripe orders nodes most-recently-added first.
func StripedLifo[K comparable](stripe func(K) int) Policy[K] {
	return stripedLifo[K]{stripe: stripe}
}

func (s stripedLifo[K]) Order(nodes []K, index map[K]int) []K {
	return stripedOrder(nodes, index, s.stripe, true)
}

func stripedOrder[K comparable](nodes []K, index map[K]int, stripe func(K) int, reverseWithin bool) []K {
	firstSeen := make(map[int]int)
	for _, n := range nodes {
		st := stripe(n)
		if _, ok := firstSeen[st]; !ok {
			firstSeen[st] = index[n]
		}
	}

	out := make([]K, len(nodes))
	copy(out, nodes)

	slices.SortStableFunc(out, func(a, b K) int {
		sa, sb := stripe(a), stripe(b)
		if sa != sb {
			return cmp.Compare(firstSeen[sa], firstSeen[sb])
		}
		if reverseWithin {
			return cmp.Compare(index[b], index[a])
		}
		return cmp.Compare(index[a], index[b])
	})

	return out
}
