package graph

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024–2026 The OGRE Authors

*/

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"

	"github.com/ogrekit/ogre"
)

// ParamOp is the reserved operation kind for parameter nodes, i.e. the free
// inputs of a function. All other kinds are application-defined.
const ParamOp ogre.OpKind = -1

// === Graph =================================================================

// Graph is an arena owning operation nodes. Nodes are created through the
// graph and addressed by pointer; their identity is a stable creation-order
// serial, unique within the graph instance.
//
// A graph instance must not be mutated concurrently.
type Graph struct {
	serial int         // next node ID
	nodes  []*Node     // live nodes, in creation order
	funcs  []*Function // retained root sets
	// OpNames, if set, is used to print operation kinds in traces and dumps.
	OpNames ogre.OpKindStringer
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// Nodes returns the live nodes of the graph in creation order.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, len(g.nodes))
	copy(nodes, g.nodes)
	return nodes
}

// Alive tells whether a node is part of the live graph, i.e. owned by g and
// not yet swept.
func (g *Graph) Alive(n *Node) bool {
	return n != nil && n.graph == g && !n.dead
}

func (g *Graph) opString(kind ogre.OpKind) string {
	if kind == ParamOp {
		return "param"
	}
	if g != nil && g.OpNames != nil {
		return g.OpNames(kind)
	}
	return fmt.Sprintf("op(%d)", kind)
}

// === Nodes, Outputs, Inputs ================================================

// Node is a single operation in the graph. It consumes the outputs referenced
// by its ordered input slots and produces an ordered list of outputs. Operand
// position is semantically significant.
type Node struct {
	id      int
	graph   *Graph
	kind    ogre.OpKind
	attrs   ogre.Attrs
	inputs  []*Input
	outputs []*Output
	tags    *treeset.Set // provenance tags, growing monotonically
	group   []*Node      // provenance group members, see AddProvenanceGroupMembersAbove
	dead    bool
}

// ID returns the creation-order serial of the node, unique within its graph.
func (n *Node) ID() int { return n.id }

// Kind returns the operation kind tag of the node.
func (n *Node) Kind() ogre.OpKind { return n.kind }

// Attrs returns the static attributes of the operation, or nil.
func (n *Node) Attrs() ogre.Attrs { return n.attrs }

// NumInputs returns the number of input slots.
func (n *Node) NumInputs() int { return len(n.inputs) }

// Input returns input slot i.
func (n *Node) Input(i int) *Input { return n.inputs[i] }

// Inputs returns the ordered input slots of the node.
func (n *Node) Inputs() []*Input {
	ins := make([]*Input, len(n.inputs))
	copy(ins, n.inputs)
	return ins
}

// Arg returns the producer node feeding input slot i, or nil for an
// unconnected slot.
func (n *Node) Arg(i int) *Node {
	if in := n.inputs[i]; in.from != nil {
		return in.from.node
	}
	return nil
}

// NumOutputs returns the number of outputs the node produces.
func (n *Node) NumOutputs() int { return len(n.outputs) }

// Output returns output i of the node.
func (n *Node) Output(i int) *Output { return n.outputs[i] }

// Out returns the first (often: only) output of the node.
func (n *Node) Out() *Output { return n.outputs[0] }

// Outputs returns the ordered outputs of the node.
func (n *Node) Outputs() []*Output {
	outs := make([]*Output, len(n.outputs))
	copy(outs, n.outputs)
	return outs
}

func (n *Node) String() string {
	if n == nil {
		return "node(<nil>)"
	}
	return fmt.Sprintf("#%d[%s]", n.id, n.graph.opString(n.kind))
}

// Output identifies one produced value of a node: node plus output index.
// Consumers hold references to outputs, never to nodes directly, as a node
// may produce multiple independently-consumed values.
type Output struct {
	node      *Node
	index     int
	consumers *arraylist.List // of *Input
}

// Node returns the producing node.
func (o *Output) Node() *Node { return o.node }

// Index returns the position of this output within its producer.
func (o *Output) Index() int { return o.index }

// Consumers returns the input slots currently reading this output.
func (o *Output) Consumers() []*Input {
	cons := make([]*Input, 0, o.consumers.Size())
	it := o.consumers.Iterator()
	for it.Next() {
		cons = append(cons, it.Value().(*Input))
	}
	return cons
}

func (o *Output) String() string {
	if o == nil {
		return "output(<nil>)"
	}
	return fmt.Sprintf("%s.%d", o.node, o.index)
}

// removeConsumer drops one consumer back-reference.
func removeConsumer(o *Output, in *Input) {
	for i := 0; i < o.consumers.Size(); i++ {
		if v, _ := o.consumers.Get(i); v.(*Input) == in {
			o.consumers.Remove(i)
			return
		}
	}
}

// Input is a consumer-side slot: it references the single output it reads.
type Input struct {
	node  *Node
	index int
	from  *Output
}

// Node returns the consuming node owning this slot.
func (in *Input) Node() *Node { return in.node }

// Index returns the operand position of this slot.
func (in *Input) Index() int { return in.index }

// From returns the output this slot currently reads, or nil.
func (in *Input) From() *Output { return in.from }

func (in *Input) String() string {
	if in == nil {
		return "input(<nil>)"
	}
	return fmt.Sprintf("%s:in.%d", in.node, in.index)
}

// === Node construction =====================================================

func (g *Graph) newNode(kind ogre.OpKind, attrs ogre.Attrs, nouts int) *Node {
	n := &Node{
		id:    g.serial,
		graph: g,
		kind:  kind,
		attrs: attrs,
		tags:  treeset.NewWithStringComparator(),
	}
	g.serial++
	n.outputs = make([]*Output, nouts)
	for i := range n.outputs {
		n.outputs[i] = &Output{node: n, index: i, consumers: arraylist.New()}
	}
	g.nodes = append(g.nodes, n)
	return n
}

func (g *Graph) attach(n *Node, args []*Output) {
	n.inputs = make([]*Input, len(args))
	for i, a := range args {
		in := &Input{node: n, index: i, from: a}
		n.inputs[i] = in
		a.consumers.Add(in)
	}
}

// NewParameter creates a parameter node, i.e. a free input of a function.
// Parameters have no inputs and a single output.
func (g *Graph) NewParameter() *Node {
	return g.newNode(ParamOp, nil, 1)
}

// NewNode creates a single-output operation node consuming the given
// arguments as its ordered operands. NewNode panics if an argument is dead or
// belongs to another graph; use Build for error-checked construction of
// multi-output or attributed operations.
func (g *Graph) NewNode(kind ogre.OpKind, args ...*Output) *Node {
	for _, a := range args {
		if err := g.checkOutput(a); err != nil {
			panic(err)
		}
	}
	n := g.newNode(kind, nil, 1)
	g.attach(n, args)
	tracer().Debugf("created %s", n)
	return n
}

func (g *Graph) checkOutput(o *Output) error {
	if o == nil || o.node.graph != g || o.node.dead {
		var n *Node
		if o != nil {
			n = o.node
		}
		return &DanglingError{Node: n}
	}
	return nil
}

func (g *Graph) checkNode(n *Node) error {
	if n == nil || n.graph != g || n.dead {
		return &DanglingError{Node: n}
	}
	return nil
}

// === Functions =============================================================

// Function is a rooted view of a graph: an ordered list of result outputs
// plus an ordered list of parameter nodes. The reachable subgraph of a
// function is everything backward-reachable from its results; parameters
// terminate the traversal naturally as they have no producers.
//
// Registering a function retains its reachable subgraph: nodes which become
// unreachable from every retained root after a replacement are swept.
type Function struct {
	graph   *Graph
	results []*Output
	params  []*Node
}

// NewFunction registers a rooted view over the graph. Every result must be a
// live output of g and every parameter a live parameter node of g.
func (g *Graph) NewFunction(results []*Output, params []*Node) (*Function, error) {
	for _, r := range results {
		if err := g.checkOutput(r); err != nil {
			return nil, err
		}
	}
	for _, p := range params {
		if err := g.checkNode(p); err != nil {
			return nil, err
		}
		if p.kind != ParamOp {
			return nil, fmt.Errorf("%s is not a parameter node", p)
		}
	}
	f := &Function{graph: g}
	f.results = make([]*Output, len(results))
	copy(f.results, results)
	f.params = make([]*Node, len(params))
	copy(f.params, params)
	g.funcs = append(g.funcs, f)
	tracer().Debugf("registered function with %d result(s), %d parameter(s)",
		len(results), len(params))
	return f, nil
}

// Graph returns the graph this function views.
func (f *Function) Graph() *Graph { return f.graph }

// Results returns the ordered result outputs of the function.
func (f *Function) Results() []*Output {
	rs := make([]*Output, len(f.results))
	copy(rs, f.results)
	return rs
}

// Parameters returns the ordered parameter nodes of the function.
func (f *Function) Parameters() []*Node {
	ps := make([]*Node, len(f.params))
	copy(ps, f.params)
	return ps
}

// Sorted returns the reachable nodes of the function in topological order.
func (f *Function) Sorted() []*Node {
	return f.graph.Sorted(f.results...)
}

// === Mutation ==============================================================

// Connect rewires one input slot to reference a new producer output. It fails
// with CycleError if the producer transitively consumes the slot's node, and
// with DanglingError if either side is not part of the live graph. On error
// the graph is left unchanged.
func (g *Graph) Connect(in *Input, out *Output) error {
	if in == nil || in.node.graph != g || in.node.dead {
		var n *Node
		if in != nil {
			n = in.node
		}
		return &DanglingError{Node: n}
	}
	if err := g.checkOutput(out); err != nil {
		return err
	}
	if g.dependsOn(out.node, in.node) {
		return &CycleError{Consumer: in.node, Producer: out.node}
	}
	if in.from != nil {
		removeConsumer(in.from, in)
	}
	in.from = out
	out.consumers.Add(in)
	tracer().Debugf("connected %s to read %s", in, out)
	return nil
}

// dependsOn tells whether node a transitively consumes node b (or is b).
func (g *Graph) dependsOn(a, b *Node) bool {
	if a == b {
		return true
	}
	seen := g.closure(a)
	return seen[b]
}

// closure computes the backward-reachable node set of the given start nodes,
// start nodes included.
func (g *Graph) closure(start ...*Node) map[*Node]bool {
	seen := make(map[*Node]bool)
	stack := make([]*Node, 0, len(start))
	stack = append(stack, start...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil || seen[n] {
			continue
		}
		seen[n] = true
		for _, in := range n.inputs {
			if in.from != nil {
				stack = append(stack, in.from.node)
			}
		}
	}
	return seen
}

// ReplaceNode retargets every consumer currently reading any output of old to
// the index-aligned output of sub, atomically. The replacement must provide
// exactly as many outputs as old, otherwise ReplaceNode fails with
// ShapeMismatchError and the graph is left unchanged.
//
// Consumers which are themselves part of the replacement's backward closure
// keep reading old; this keeps the graph acyclic when the replacement is
// built on top of old's own outputs, and in that case old stays reachable.
//
// Provenance tags of nodes killed by the replacement migrate onto the nodes
// the replacement introduced (see package documentation). If the graph
// retains at least one function, nodes which became unreachable from every
// retained root are swept afterwards.
func (g *Graph) ReplaceNode(old, sub *Node) error {
	if err := g.checkNode(old); err != nil {
		return err
	}
	if err := g.checkNode(sub); err != nil {
		return err
	}
	if len(sub.outputs) != len(old.outputs) {
		return &ShapeMismatchError{Want: len(old.outputs), Got: len(sub.outputs)}
	}
	return g.replace(old, sub.outputs)
}

// ReplaceOutputs is the explicit form of ReplaceNode: consumers of old's
// output i are retargeted to subs[i]. The outputs may stem from different
// producer nodes; the list must still be index-aligned and complete.
func (g *Graph) ReplaceOutputs(old *Node, subs []*Output) error {
	if err := g.checkNode(old); err != nil {
		return err
	}
	for _, s := range subs {
		if err := g.checkOutput(s); err != nil {
			return err
		}
	}
	if len(subs) != len(old.outputs) {
		return &ShapeMismatchError{Want: len(old.outputs), Got: len(subs)}
	}
	return g.replace(old, subs)
}

func (g *Graph) replace(old *Node, subs []*Output) error {
	tracer().Debugf("replacing %s", old)
	// consumers inside the replacement closure keep reading old
	replNodes := make([]*Node, 0, len(subs))
	for _, s := range subs {
		replNodes = append(replNodes, s.node)
	}
	repl := g.closure(replNodes...)
	// live set before rewiring, used to tell replacement-introduced nodes
	// from pre-existing ancestors during tag redistribution
	preRoots := []*Node{old}
	for _, f := range g.funcs {
		for _, r := range f.results {
			preRoots = append(preRoots, r.node)
		}
	}
	preLive := g.closure(preRoots...)
	// rewire
	for i, out := range old.outputs {
		for _, in := range out.Consumers() {
			if repl[in.node] {
				continue
			}
			removeConsumer(out, in)
			in.from = subs[i]
			subs[i].consumers.Add(in)
		}
	}
	for _, f := range g.funcs {
		for j, r := range f.results {
			if r.node == old {
				f.results[j] = subs[r.index]
			}
		}
	}
	g.redistributeTags(old, subs, repl, preLive)
	if len(g.funcs) > 0 {
		g.sweep()
	}
	return nil
}

// sweep removes nodes which are no longer backward-reachable from any
// retained function root or parameter. Destruction is a consequence of
// reachability, never an explicit delete.
func (g *Graph) sweep() {
	var roots []*Node
	for _, f := range g.funcs {
		for _, r := range f.results {
			roots = append(roots, r.node)
		}
		roots = append(roots, f.params...)
	}
	live := g.closure(roots...)
	kept := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		if live[n] {
			kept = append(kept, n)
			continue
		}
		tracer().Debugf("sweeping unreachable %s", n)
		n.dead = true
		for _, in := range n.inputs {
			if in.from != nil {
				removeConsumer(in.from, in)
				in.from = nil
			}
		}
	}
	g.nodes = kept
}
