/*
Package ogre is a toolbox for rewriting operator graphs.

OGRE (Operator Graph Rewriting Engine) is the structural substrate for
optimizing compilers working on tensor/operator graphs: a mutable, acyclic
graph with multi-consumer sharing, a declarative subgraph pattern matcher,
a pass-driven rewrite engine, and provenance (lineage) tracking that records
which original nodes a transformed node descends from. Package structure is
as follows:

■ graph: Package graph implements the operator graph itself, together with
deterministic topological traversal and provenance tag propagation.

■ graph/pattern: Package pattern implements declarative subgraph matching,
including a small s-expression pattern language.

■ graph/rewrite: Package rewrite implements the pass manager which drives
registered rewrite rules to a fixpoint.

The base package contains data types which are used throughout all the other
packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024–2026 The OGRE Authors

*/
package ogre
