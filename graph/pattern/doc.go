/*
Package pattern implements declarative subgraph matching for operator graphs.

A pattern is itself a small graph fragment. Its nodes either match a concrete
operation kind, optionally narrowed by attribute fingerprints or semantic
predicates, or are wildcards matching any single node. Matching proceeds
top-down from a candidate root; wildcards terminate the descent and bind the
concrete node found at their position. Operand order is significant unless a
pattern node explicitly declares commutative matching.

Patterns are built programmatically,

    p := pattern.Op(Sub,
        pattern.Op(Add, pattern.Any("x"), pattern.Any("y")).Commutative(),
        pattern.Any("z"))

or parsed from a small s-expression dialect:

    p, err := pattern.Parse(`(sub (add! $x $y) $z)`, opTable)

A successful match yields Bindings, mapping capture names to concrete nodes.
Matching never mutates the graph; probes may run concurrently on an
otherwise-frozen graph.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024–2026 The OGRE Authors

*/
package pattern

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'ogre.pattern'.
func tracer() tracing.Trace {
	return tracing.Select("ogre.pattern")
}
