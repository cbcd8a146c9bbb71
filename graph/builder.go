package graph

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024–2026 The OGRE Authors

*/

import (
	"fmt"

	"github.com/ogrekit/ogre"
)

// NodeBuilder is a fluent builder for operation nodes. It covers what NewNode
// does not: multi-output operations, attributed operations and error-checked
// construction.
//
// Example:
//
//    split, err := g.Build(Split).
//        Arg(conv.Out()).
//        Attr("axis", 1).
//        Outputs(2).
//        End()
//
type NodeBuilder struct {
	g     *Graph
	kind  ogre.OpKind
	args  []*Output
	attrs ogre.Attrs
	nouts int
	err   error
}

// Build starts building an operation node of the given kind.
func (g *Graph) Build(kind ogre.OpKind) *NodeBuilder {
	return &NodeBuilder{g: g, kind: kind, nouts: 1}
}

// Arg appends an operand. Operand order is the order of Arg calls.
func (b *NodeBuilder) Arg(out *Output) *NodeBuilder {
	if b.err == nil {
		if err := b.g.checkOutput(out); err != nil {
			b.err = err
			return b
		}
		b.args = append(b.args, out)
	}
	return b
}

// ArgNode appends the first output of a node as an operand.
func (b *NodeBuilder) ArgNode(n *Node) *NodeBuilder {
	if b.err == nil {
		if err := b.g.checkNode(n); err != nil {
			b.err = err
			return b
		}
		b.args = append(b.args, n.Out())
	}
	return b
}

// Attr sets one static attribute of the operation.
func (b *NodeBuilder) Attr(key string, value interface{}) *NodeBuilder {
	if b.attrs == nil {
		b.attrs = ogre.Attrs{}
	}
	b.attrs[key] = value
	return b
}

// Attrs sets the complete attribute map of the operation.
func (b *NodeBuilder) Attrs(attrs ogre.Attrs) *NodeBuilder {
	b.attrs = attrs
	return b
}

// Outputs sets the number of outputs the operation produces (default 1).
func (b *NodeBuilder) Outputs(n int) *NodeBuilder {
	if b.err == nil && n < 1 {
		b.err = fmt.Errorf("operation must produce at least one output, %d requested", n)
		return b
	}
	b.nouts = n
	return b
}

// End creates the node.
func (b *NodeBuilder) End() (*Node, error) {
	if b.err != nil {
		return nil, b.err
	}
	n := b.g.newNode(b.kind, b.attrs, b.nouts)
	b.g.attach(n, b.args)
	tracer().Debugf("created %s with %d output(s)", n, b.nouts)
	return n, nil
}
