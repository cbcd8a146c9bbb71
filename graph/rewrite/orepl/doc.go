/*
Package orepl/main provides an interactive command line tool (O.REPL)
for operator graphs. Users enter s-expressions over a small arithmetic
operation set; O.REPL builds the corresponding graph nodes and lets users
inspect topological order and provenance tags, and run demo rewrite rules
to a fixpoint. O.REPL serves as a sandbox for experiments during the early
stages of transformation-rule development.


License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024–2026 The OGRE Authors

*/

package main
