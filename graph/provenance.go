package graph

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024–2026 The OGRE Authors

*/

// Provenance tags are opaque labels recording lineage metadata on nodes.
// Tags only ever accumulate: for the lifetime of a node instance its tag set
// grows monotonically. Tags vanish only together with their node, when the
// node becomes unreachable and is swept.

// AddProvenanceTag attaches a lineage tag to the node. The tag is also
// recorded on the node's provenance group members, if a group has been
// declared with AddProvenanceGroupMembersAbove. Returns n for chaining.
func (n *Node) AddProvenanceTag(tag string) *Node {
	n.tags.Add(tag)
	for _, m := range n.group {
		m.tags.Add(tag)
	}
	return n
}

// AddProvenanceTags attaches several lineage tags at once.
func (n *Node) AddProvenanceTags(tags ...string) *Node {
	for _, t := range tags {
		n.AddProvenanceTag(t)
	}
	return n
}

// ProvenanceTags returns the node's tags in sorted order.
func (n *Node) ProvenanceTags() []string {
	tags := make([]string, 0, n.tags.Size())
	it := n.tags.Iterator()
	for it.Next() {
		tags = append(tags, it.Value().(string))
	}
	return tags
}

// HasProvenanceTag tells whether the node carries the given tag.
func (n *Node) HasProvenanceTag(tag string) bool {
	return n.tags.Contains(tag)
}

// AddProvenanceTagsAbove walks backward from n through producers, attaching
// the given tags to every visited node. The walk does not descend past a node
// whose output is a member of boundary: the boundary node itself still
// receives the tags, but its producers are not visited. An empty boundary
// walks all the way to every transitive parameter.
func (n *Node) AddProvenanceTagsAbove(boundary []*Output, tags ...string) {
	bset := make(map[*Output]bool, len(boundary))
	for _, b := range boundary {
		bset[b] = true
	}
	seen := make(map[*Node]bool)
	var walk func(nd *Node)
	walk = func(nd *Node) {
		if seen[nd] {
			return
		}
		seen[nd] = true
		for _, t := range tags {
			nd.tags.Add(t)
		}
		for _, in := range nd.inputs {
			if in.from == nil {
				continue
			}
			if bset[in.from] {
				p := in.from.node
				if !seen[p] {
					seen[p] = true
					for _, t := range tags {
						p.tags.Add(t)
					}
				}
				continue
			}
			walk(in.from.node)
		}
	}
	walk(n)
}

// AddProvenanceGroupMembersAbove declares the nodes backward-reachable from
// n, down to but excluding the producers of the given outputs, as n's
// provenance group. Tags subsequently added to n via AddProvenanceTag are
// recorded on every group member as well, making n's tags representative for
// the whole group. A group containing only n itself degenerates to a no-op
// grouping. Returns n for chaining.
func (n *Node) AddProvenanceGroupMembersAbove(outputs []*Output) *Node {
	stop := make(map[*Node]bool, len(outputs))
	for _, o := range outputs {
		if o != nil {
			stop[o.node] = true
		}
	}
	if stop[n] {
		n.group = nil
		return n
	}
	seen := map[*Node]bool{n: true}
	var members []*Node
	var walk func(nd *Node)
	walk = func(nd *Node) {
		for _, in := range nd.inputs {
			if in.from == nil {
				continue
			}
			p := in.from.node
			if seen[p] || stop[p] {
				continue
			}
			seen[p] = true
			members = append(members, p)
			walk(p)
		}
	}
	walk(n)
	n.group = members
	tracer().Debugf("%s now fronts a provenance group of %d member(s)", n, len(members))
	return n
}

// redistributeTags implements the lineage merge for replace: nodes of the
// replaced subgraph which are post-dominated by the replacement (every
// forward path to a retained root passes through it) are killed, and the
// union of their tags migrates onto every node the replacement introduced.
// Ancestors still consumed on some other live path keep their tags unchanged
// and contribute nothing.
//
// Called after rewiring and before sweeping. repl is the backward closure of
// the replacement outputs' nodes; preLive is the live node set before the
// call.
func (g *Graph) redistributeTags(old *Node, subs []*Output, repl, preLive map[*Node]bool) {
	oldClosure := g.closure(old)
	results := make(map[*Node]bool)
	for _, f := range g.funcs {
		for _, r := range f.results {
			results[r.node] = true
		}
	}
	// post-dominance fixpoint over the consumer lists as they exist now
	killed := make(map[*Node]bool)
	for changed := true; changed; {
		changed = false
		for n := range oldClosure {
			if killed[n] || n.kind == ParamOp || repl[n] || results[n] {
				continue
			}
			alive := false
			for _, out := range n.outputs {
				it := out.consumers.Iterator()
				for it.Next() {
					if !killed[it.Value().(*Input).node] {
						alive = true
						break
					}
				}
				if alive {
					break
				}
			}
			if !alive {
				killed[n] = true
				changed = true
			}
		}
	}
	// the replaced root always contributes, even if it stays reachable
	// through the replacement itself
	killed[old] = true
	merged := make(map[string]bool)
	for n := range killed {
		it := n.tags.Iterator()
		for it.Next() {
			merged[it.Value().(string)] = true
		}
	}
	if len(merged) == 0 {
		return
	}
	tracer().Debugf("%d killed node(s) contribute %d tag(s) to the replacement",
		len(killed), len(merged))
	// distribute onto the replacement root(s) and every node the replacement
	// introduced; pre-existing ancestors are left alone
	seen := make(map[*Node]bool)
	var walk func(nd *Node, root bool)
	walk = func(nd *Node, root bool) {
		if seen[nd] || (!root && preLive[nd]) {
			return
		}
		seen[nd] = true
		for t := range merged {
			nd.tags.Add(t)
		}
		for _, in := range nd.inputs {
			if in.from != nil {
				walk(in.from.node, false)
			}
		}
	}
	for _, s := range subs {
		walk(s.node, true)
	}
}
