package graph

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024–2026 The OGRE Authors

*/

import (
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// byCreation orders nodes by their creation serial. Used as the tie-breaker
// of the topological linearizer, so that the produced order is reproducible
// across runs.
func byCreation(a, b interface{}) int {
	return utils.IntComparator(a.(*Node).id, b.(*Node).id)
}

// Sorted returns the nodes backward-reachable from the given roots in
// topological order: every node appears after all nodes it depends on, and
// exactly once, regardless of fan-in. Ties are broken by node creation order.
// A fresh traversal is performed on each call.
func (g *Graph) Sorted(roots ...*Output) []*Node {
	var order []*Node
	g.Walk(roots, func(n *Node) bool {
		order = append(order, n)
		return true
	})
	return order
}

// Walk is the streaming variant of Sorted. It calls visit for every node in
// topological order and stops early when visit returns false.
func (g *Graph) Walk(roots []*Output, visit func(*Node) bool) {
	rootNodes := make([]*Node, 0, len(roots))
	for _, r := range roots {
		if r != nil {
			rootNodes = append(rootNodes, r.node)
		}
	}
	closure := g.closure(rootNodes...)
	// pending counts distinct producers per node; cons is the reverse edge set
	pending := make(map[*Node]int, len(closure))
	cons := make(map[*Node][]*Node, len(closure))
	for n := range closure {
		producers := make(map[*Node]bool, len(n.inputs))
		for _, in := range n.inputs {
			if in.from == nil {
				continue
			}
			p := in.from.node
			if producers[p] {
				continue
			}
			producers[p] = true
			pending[n]++
			cons[p] = append(cons[p], n)
		}
	}
	ready := treeset.NewWith(byCreation)
	for n := range closure {
		if pending[n] == 0 {
			ready.Add(n)
		}
	}
	for !ready.Empty() {
		it := ready.Iterator()
		it.Next()
		n := it.Value().(*Node)
		ready.Remove(n)
		if !visit(n) {
			return
		}
		for _, c := range cons[n] {
			pending[c]--
			if pending[c] == 0 {
				ready.Add(c)
			}
		}
	}
}
