/*
Package graph implements a mutable operator graph with multi-consumer sharing,
deterministic topological traversal and provenance (lineage) tracking.

A Graph owns an arena of operation nodes. Nodes reference the values they
consume through Input slots, each reading exactly one Output of a producer
node. Outputs keep consumer back-references, so "who consumes me" is cheap.
Shared subexpressions are first-class: an Output may feed any number of
consumers and is never duplicated implicitly.

Building Graphs

Nodes are created through the owning graph. Single-output operations use
NewNode, parameters use NewParameter; multi-output or attributed operations
go through the fluent node builder:

    g := graph.NewGraph()
    x := g.NewParameter()
    y := g.NewParameter()
    a := g.NewNode(Add, x.Out(), y.Out())
    s, err := g.Build(Split).Arg(a.Out()).Attr("axis", 1).Outputs(2).End()

A Function is a rooted view of a graph: an ordered list of result outputs
plus an ordered list of parameter nodes. Registering a function retains its
reachable subgraph; after a replacement, nodes that are no longer reachable
from any retained root are swept from the arena.

Replacing Nodes

ReplaceNode retargets every consumer of a node to the index-aligned outputs
of a replacement, atomically per call. A proposed mutation that would create
a cycle or reference a dead node fails with CycleError or DanglingError and
leaves the graph untouched.

Provenance

Every node carries a monotonically-growing set of opaque provenance tags.
Replacement redistributes tags: nodes of the replaced subgraph that are
post-dominated by the replacement root are killed, and the union of their
tags migrates onto the nodes the replacement introduced. See the package
documentation of AddProvenanceTagsAbove and AddProvenanceGroupMembersAbove
for the explicit tagging operations.

A graph instance is single-writer: all mutating calls must be serialized by
the caller. Read-only queries may run concurrently on an otherwise-frozen
graph.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024–2026 The OGRE Authors

*/
package graph

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'ogre.graph'.
func tracer() tracing.Trace {
	return tracing.Select("ogre.graph")
}
