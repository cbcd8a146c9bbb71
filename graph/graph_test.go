package graph

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/ogrekit/ogre"
)

// A small arithmetic operation set for testing.
const (
	add ogre.OpKind = iota + 1
	mul
	sub
	neg
	abs
	zero
	split
)

func opnames(k ogre.OpKind) string {
	return [...]string{"?", "add", "mul", "sub", "neg", "abs", "zero", "split"}[k]
}

func newTestGraph() *Graph {
	g := NewGraph()
	g.OpNames = opnames
	return g
}

func TestNodeConstruction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ogre.graph")
	defer teardown()
	//
	g := newTestGraph()
	x := g.NewParameter()
	y := g.NewParameter()
	a := g.NewNode(add, x.Out(), y.Out())
	if a.NumInputs() != 2 || a.NumOutputs() != 1 {
		t.Fatalf("expected node with 2 inputs and 1 output, has %d/%d",
			a.NumInputs(), a.NumOutputs())
	}
	if a.Arg(0) != x || a.Arg(1) != y {
		t.Errorf("operand order not preserved")
	}
	if x.ID() >= y.ID() || y.ID() >= a.ID() {
		t.Errorf("node IDs not in creation order: %d, %d, %d", x.ID(), y.ID(), a.ID())
	}
	cons := x.Out().Consumers()
	if len(cons) != 1 || cons[0].Node() != a {
		t.Errorf("expected x to be consumed by a exactly once, consumers=%v", cons)
	}
}

func TestBuilderMultiOutput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ogre.graph")
	defer teardown()
	//
	g := newTestGraph()
	x := g.NewParameter()
	s, err := g.Build(split).Arg(x.Out()).Attr("axis", 1).Outputs(2).End()
	if err != nil {
		t.Fatal(err)
	}
	if s.NumOutputs() != 2 {
		t.Fatalf("expected 2 outputs, got %d", s.NumOutputs())
	}
	if s.Attrs()["axis"] != 1 {
		t.Errorf("attribute 'axis' not retained")
	}
	if s.Output(1).Index() != 1 {
		t.Errorf("output index mismatch")
	}
}

func TestBuilderRejectsForeignOutput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ogre.graph")
	defer teardown()
	//
	g := newTestGraph()
	other := newTestGraph()
	p := other.NewParameter()
	_, err := g.Build(neg).Arg(p.Out()).End()
	var dangling *DanglingError
	if !errors.As(err, &dangling) {
		t.Errorf("expected DanglingError for foreign output, got %v", err)
	}
}

func TestConnectRewires(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ogre.graph")
	defer teardown()
	//
	g := newTestGraph()
	x := g.NewParameter()
	y := g.NewParameter()
	a := g.NewNode(neg, x.Out())
	if err := g.Connect(a.Input(0), y.Out()); err != nil {
		t.Fatal(err)
	}
	if a.Arg(0) != y {
		t.Errorf("input not rewired to y")
	}
	if len(x.Out().Consumers()) != 0 {
		t.Errorf("stale consumer back-reference on x")
	}
	if len(y.Out().Consumers()) != 1 {
		t.Errorf("missing consumer back-reference on y")
	}
}

func TestConnectRefusesCycle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ogre.graph")
	defer teardown()
	//
	g := newTestGraph()
	x := g.NewParameter()
	a := g.NewNode(neg, x.Out())
	b := g.NewNode(abs, a.Out())
	err := g.Connect(a.Input(0), b.Out())
	var cycle *CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	if a.Arg(0) != x {
		t.Errorf("failed Connect must leave the graph unchanged")
	}
	// self-cycle
	if err = g.Connect(a.Input(0), a.Out()); !errors.As(err, &cycle) {
		t.Errorf("expected CycleError for self-loop, got %v", err)
	}
}

func TestReplaceNodeRetargetsConsumers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ogre.graph")
	defer teardown()
	//
	g := newTestGraph()
	x := g.NewParameter()
	y := g.NewParameter()
	a := g.NewNode(add, x.Out(), y.Out())
	c := g.NewNode(neg, a.Out())
	d := g.NewNode(abs, a.Out())
	if _, err := g.NewFunction([]*Output{c.Out(), d.Out()}, []*Node{x, y}); err != nil {
		t.Fatal(err)
	}
	m := g.NewNode(mul, x.Out(), y.Out())
	if err := g.ReplaceNode(a, m); err != nil {
		t.Fatal(err)
	}
	if c.Arg(0) != m || d.Arg(0) != m {
		t.Errorf("consumers not retargeted to replacement")
	}
	// replacement completeness: no reachable node still reads an output of a
	for _, n := range g.Nodes() {
		for _, in := range n.Inputs() {
			if in.From() != nil && in.From().Node() == a {
				t.Errorf("%s still reads replaced node", in)
			}
		}
	}
	if g.Alive(a) {
		t.Errorf("unreachable node survived the sweep")
	}
}

func TestReplaceNodeArityMismatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ogre.graph")
	defer teardown()
	//
	g := newTestGraph()
	x := g.NewParameter()
	s, err := g.Build(split).Arg(x.Out()).Outputs(2).End()
	if err != nil {
		t.Fatal(err)
	}
	single := g.NewNode(neg, x.Out())
	err = g.ReplaceNode(s, single)
	var mismatch *ShapeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected ShapeMismatchError, got %v", err)
	}
	if mismatch.Want != 2 || mismatch.Got != 1 {
		t.Errorf("mismatch arity report wrong: want=%d got=%d", mismatch.Want, mismatch.Got)
	}
}

func TestReplaceOutputsExplicitForm(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ogre.graph")
	defer teardown()
	//
	g := newTestGraph()
	x := g.NewParameter()
	s, err := g.Build(split).Arg(x.Out()).Outputs(2).End()
	if err != nil {
		t.Fatal(err)
	}
	c0 := g.NewNode(neg, s.Output(0))
	c1 := g.NewNode(abs, s.Output(1))
	if _, err = g.NewFunction([]*Output{c0.Out(), c1.Out()}, []*Node{x}); err != nil {
		t.Fatal(err)
	}
	// replace the split with two independent producers
	r0 := g.NewNode(neg, x.Out())
	r1 := g.NewNode(abs, x.Out())
	if err = g.ReplaceOutputs(s, []*Output{r0.Out(), r1.Out()}); err != nil {
		t.Fatal(err)
	}
	if c0.Arg(0) != r0 || c1.Arg(0) != r1 {
		t.Errorf("outputs not retargeted index-aligned")
	}
	if g.Alive(s) {
		t.Errorf("split node should have been swept")
	}
}

func TestReplaceNodeWithWrappingNode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ogre.graph")
	defer teardown()
	//
	// The replacement consumes the replaced node's own output. Consumers
	// inside the replacement closure must keep reading the old node, or the
	// graph would become cyclic.
	g := newTestGraph()
	x := g.NewParameter()
	c := g.NewNode(neg, x.Out())
	if _, err := g.NewFunction([]*Output{c.Out()}, []*Node{x}); err != nil {
		t.Fatal(err)
	}
	d := g.NewNode(abs, c.Out())
	if err := g.ReplaceNode(c, d); err != nil {
		t.Fatal(err)
	}
	if d.Arg(0) != c {
		t.Errorf("wrapper lost its operand")
	}
	if !g.Alive(c) {
		t.Errorf("old node is still referenced by the wrapper and must stay alive")
	}
	for _, n := range g.Sorted(d.Out()) {
		if n == d {
			return
		}
	}
	t.Errorf("wrapper not reachable from its own output")
}

func TestSweepKeepsSharedSubexpressions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ogre.graph")
	defer teardown()
	//
	g := newTestGraph()
	x := g.NewParameter()
	shared := g.NewNode(neg, x.Out())
	c := g.NewNode(abs, shared.Out())
	sibling := g.NewNode(add, shared.Out(), x.Out())
	if _, err := g.NewFunction([]*Output{c.Out(), sibling.Out()}, []*Node{x}); err != nil {
		t.Fatal(err)
	}
	d := g.NewNode(mul, x.Out(), x.Out())
	if err := g.ReplaceNode(c, d); err != nil {
		t.Fatal(err)
	}
	if !g.Alive(shared) {
		t.Errorf("shared ancestor swept although the sibling still consumes it")
	}
	if g.Alive(c) {
		t.Errorf("replaced node survived although only the sibling path is live")
	}
}

func TestDanglingAfterSweep(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ogre.graph")
	defer teardown()
	//
	g := newTestGraph()
	x := g.NewParameter()
	c := g.NewNode(neg, x.Out())
	if _, err := g.NewFunction([]*Output{c.Out()}, []*Node{x}); err != nil {
		t.Fatal(err)
	}
	d := g.NewNode(abs, x.Out())
	if err := g.ReplaceNode(c, d); err != nil {
		t.Fatal(err)
	}
	err := g.ReplaceNode(c, d) // c has been swept by now
	var dangling *DanglingError
	if !errors.As(err, &dangling) {
		t.Errorf("expected DanglingError for swept node, got %v", err)
	}
}

func TestFunctionRootsFollowReplacement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ogre.graph")
	defer teardown()
	//
	g := newTestGraph()
	x := g.NewParameter()
	c := g.NewNode(neg, x.Out())
	f, err := g.NewFunction([]*Output{c.Out()}, []*Node{x})
	if err != nil {
		t.Fatal(err)
	}
	d := g.NewNode(abs, x.Out())
	if err = g.ReplaceNode(c, d); err != nil {
		t.Fatal(err)
	}
	if f.Results()[0].Node() != d {
		t.Errorf("function result did not follow the replacement")
	}
}
