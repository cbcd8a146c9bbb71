package pattern

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024–2026 The OGRE Authors

*/

import (
	"sort"

	"github.com/ogrekit/ogre/graph"
)

// Bindings is the result of a successful match: the matched root plus a
// mapping from capture names to the concrete nodes bound at their positions.
type Bindings struct {
	root   *graph.Node
	byName map[string]*graph.Node
}

// Root returns the concrete node the pattern root matched.
func (b *Bindings) Root() *graph.Node { return b.root }

// Get returns the node bound under name, or nil if the name is unbound.
func (b *Bindings) Get(name string) *graph.Node {
	return b.byName[name]
}

// Binding returns the node bound under name, and whether it is bound.
func (b *Bindings) Binding(name string) (*graph.Node, bool) {
	n, ok := b.byName[name]
	return n, ok
}

// Names returns the bound capture names in sorted order.
func (b *Bindings) Names() []string {
	names := make([]string, 0, len(b.byName))
	for name := range b.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (b *Bindings) snapshot() map[string]*graph.Node {
	saved := make(map[string]*graph.Node, len(b.byName))
	for k, v := range b.byName {
		saved[k] = v
	}
	return saved
}

func (b *Bindings) restore(saved map[string]*graph.Node) {
	b.byName = saved
}

// Match matches the pattern fragment top-down against the subgraph rooted at
// root. On success it returns the bindings; otherwise the second return value
// is false. Matching does not backtrack across operand orderings unless a
// pattern node declares Commutative.
func (p *Pattern) Match(root *graph.Node) (*Bindings, bool) {
	b := &Bindings{root: root, byName: make(map[string]*graph.Node)}
	if !p.match(root, b) {
		return nil, false
	}
	tracer().Debugf("pattern %s matched at %s", p, root)
	return b, true
}

func (p *Pattern) match(n *graph.Node, b *Bindings) bool {
	if n == nil {
		return false
	}
	if len(p.alts) > 0 {
		saved := b.snapshot()
		for _, alt := range p.alts {
			if alt.match(n, b) {
				return p.bind(n, b)
			}
			b.restore(saved)
			saved = b.snapshot()
		}
		return false
	}
	if p.any {
		return p.bind(n, b)
	}
	if n.Kind() != p.kind {
		return false
	}
	if n.NumInputs() != len(p.args) {
		return false
	}
	if p.hasAttrs && n.Attrs().Fingerprint() != p.fingerprint {
		return false
	}
	if p.pred != nil && !p.pred(n) {
		return false
	}
	if !p.bind(n, b) {
		return false
	}
	if p.comm && len(p.args) == 2 {
		saved := b.snapshot()
		if p.args[0].match(n.Arg(0), b) && p.args[1].match(n.Arg(1), b) {
			return true
		}
		b.restore(saved)
		return p.args[0].match(n.Arg(1), b) && p.args[1].match(n.Arg(0), b)
	}
	for i, ap := range p.args {
		if !ap.match(n.Arg(i), b) {
			return false
		}
	}
	return true
}

func (p *Pattern) bind(n *graph.Node, b *Bindings) bool {
	if p.name == "" {
		return true
	}
	if prev, bound := b.byName[p.name]; bound {
		return prev == n
	}
	b.byName[p.name] = n
	return true
}
