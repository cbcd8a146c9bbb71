package pattern

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024–2026 The OGRE Authors

*/

import (
	"fmt"
	"strings"

	"github.com/ogrekit/ogre"
	"github.com/ogrekit/ogre/graph"
)

// Predicate vets a concrete node beyond structural compatibility. Predicates
// are how semantic preconditions plug into matching without the matcher
// knowing operation semantics.
type Predicate func(*graph.Node) bool

// Pattern is one node of a pattern fragment. A pattern node either matches a
// concrete operation kind, any single node (a wildcard), or one of several
// alternatives.
type Pattern struct {
	kind        ogre.OpKind
	any         bool
	alts        []*Pattern
	args        []*Pattern
	name        string
	pred        Predicate
	fingerprint string
	hasAttrs    bool
	comm        bool
}

// Op creates a pattern node matching nodes of the given operation kind whose
// operands match the given sub-patterns positionally. A candidate's input
// count must equal the number of sub-patterns.
func Op(kind ogre.OpKind, args ...*Pattern) *Pattern {
	return &Pattern{kind: kind, args: args}
}

// Any creates a wildcard matching any single node, capturing it under the
// given name. An empty name matches without binding.
func Any(name string) *Pattern {
	return &Pattern{any: true, name: name}
}

// OneOf creates a pattern node matching if any of the given alternatives
// matches. Alternatives are tried in order; the first total match wins.
func OneOf(alts ...*Pattern) *Pattern {
	return &Pattern{alts: alts}
}

// Capture makes a successful match of this pattern node bind the concrete
// node under the given name. Binding the same name twice in one match
// requires both occurrences to be the very same node.
func (p *Pattern) Capture(name string) *Pattern {
	p.name = name
	return p
}

// Where narrows the pattern node with a semantic predicate.
func (p *Pattern) Where(pred Predicate) *Pattern {
	p.pred = pred
	return p
}

// WithAttrs narrows the pattern node to candidates whose attribute map has
// the same fingerprint as attrs.
func (p *Pattern) WithAttrs(attrs ogre.Attrs) *Pattern {
	p.fingerprint = attrs.Fingerprint()
	p.hasAttrs = true
	return p
}

// Commutative declares the operands of this (binary) pattern node as
// commutative alternatives: if the operands do not match in order, they are
// tried swapped. Without this declaration operand order is significant.
func (p *Pattern) Commutative() *Pattern {
	p.comm = true
	return p
}

func (p *Pattern) String() string {
	switch {
	case p == nil:
		return "<nil>"
	case p.any:
		if p.name == "" {
			return "$_"
		}
		return "$" + p.name
	case len(p.alts) > 0:
		var sb strings.Builder
		sb.WriteString("(|")
		for _, a := range p.alts {
			sb.WriteString(" ")
			sb.WriteString(a.String())
		}
		sb.WriteString(")")
		return sb.String()
	default:
		var sb strings.Builder
		fmt.Fprintf(&sb, "(op%d", p.kind)
		if p.comm {
			sb.WriteString("!")
		}
		for _, a := range p.args {
			sb.WriteString(" ")
			sb.WriteString(a.String())
		}
		sb.WriteString(")")
		return sb.String()
	}
}
