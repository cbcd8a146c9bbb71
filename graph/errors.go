package graph

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024–2026 The OGRE Authors

*/

import "fmt"

// CycleError reports a proposed connection that would make the graph cyclic.
// The attempted mutation has not been applied; retrying without changing the
// plan will fail again.
type CycleError struct {
	Consumer *Node // the node whose input slot was to be rewired
	Producer *Node // the producer it was to be rewired to
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("wiring %s to consume %s would create a cycle", e.Consumer, e.Producer)
}

// ShapeMismatchError reports a replacement which does not provide the same
// number of outputs as the node it replaces. It signals a bug in a
// transformation rule.
type ShapeMismatchError struct {
	Want int // output arity of the replaced node
	Got  int // output arity of the replacement
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("replacement provides %d output(s), replaced node has %d", e.Got, e.Want)
}

// DanglingError reports a reference to a node which is not part of the live
// graph, either because it has been swept or because it belongs to a
// different graph instance.
type DanglingError struct {
	Node *Node
}

func (e *DanglingError) Error() string {
	return fmt.Sprintf("%s is not part of the live graph", e.Node)
}
