// Package toposort provides a generic topological sort over a node set and
// a boolean "requires" edge relation, with pluggable tie-break policies for
// ordering nodes that carry no constraint relative to each other.
//
// It has no knowledge of plugins, specs, or any other domain type. In
// pkg/plugin/sdk it backs Resolver.TopoOrder and Manager.DisplayOrder; the
// load and unload queues themselves are built by PluginSpec's own
// depth-first walks, not by this package.
package toposort
