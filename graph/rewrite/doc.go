/*
Package rewrite implements the pass manager driving rewrite rules over an
operator graph.

Rules pair a pattern with a guard and a rewrite callback. The engine walks
the graph in topological order; at each node the registered rules are tried
in registration order, and the first rule whose pattern matches and whose
guard does not veto gets to run its rewrite callback. After a rule has run
for a node, no further rule is tried for that node within the same pass.
Passes repeat until one of them performs zero rewrites (a fixpoint), or until
the pass limit is reached. The latter is a reported condition, not an error.

Rewrite callbacks mutate the graph through Connect, ReplaceNode and the tag
operations only; they must not call back into the engine.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024–2026 The OGRE Authors

*/
package rewrite

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'ogre.rewrite'.
func tracer() tracing.Trace {
	return tracing.Select("ogre.rewrite")
}
