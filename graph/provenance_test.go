package graph

import (
	"reflect"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func expectTags(t *testing.T, n *Node, want ...string) {
	t.Helper()
	if want == nil {
		want = []string{}
	}
	got := n.ProvenanceTags()
	if len(got) == 0 && len(want) == 0 {
		return
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("%s: tags are %v, expected %v", n, got, want)
	}
}

// Builds the shared scenario
//
//   A{tag_a}  B{tag_b}
//         |   |
//        C{tag_c}
//
// over parameters x and y, retained as a function.
func abcScenario(t *testing.T) (g *Graph, x, y, a, b, c *Node) {
	t.Helper()
	g = newTestGraph()
	x = g.NewParameter()
	y = g.NewParameter()
	a = g.NewNode(add, x.Out(), y.Out())
	a.AddProvenanceTag("tag_a")
	b = g.NewNode(mul, y.Out(), x.Out())
	b.AddProvenanceTag("tag_b")
	c = g.NewNode(sub, a.Out(), b.Out())
	c.AddProvenanceTag("tag_c")
	if _, err := g.NewFunction([]*Output{c.Out()}, []*Node{x, y}); err != nil {
		t.Fatal(err)
	}
	return
}

// D reuses A and B, so only C is killed: D inherits exactly C's tags.
func TestReplaceKillsOnlyRoot(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ogre.graph")
	defer teardown()
	//
	g, _, _, a, b, c := abcScenario(t)
	d := g.NewNode(sub, a.Out(), b.Out())
	if err := g.ReplaceNode(c, d); err != nil {
		t.Fatal(err)
	}
	expectTags(t, d, "tag_c")
	expectTags(t, a, "tag_a")
	expectTags(t, b, "tag_b")
}

// Same shape, but the replacement carries a tag of its own: tags are
// additive, the replacement keeps its own tag next to the inherited one.
func TestReplaceMergesIntoTaggedReplacement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ogre.graph")
	defer teardown()
	//
	g, _, _, a, b, c := abcScenario(t)
	d := g.NewNode(sub, a.Out(), b.Out())
	d.AddProvenanceTag("tag_d")
	if err := g.ReplaceNode(c, d); err != nil {
		t.Fatal(err)
	}
	expectTags(t, d, "tag_c", "tag_d")
}

// D is a fresh constant with no arguments: its insertion kills A, B and C,
// and all their tags flow into D.
func TestReplaceKillsWholeSubgraph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ogre.graph")
	defer teardown()
	//
	g, _, _, a, b, c := abcScenario(t)
	d := g.NewNode(zero)
	d.AddProvenanceTag("tag_d")
	if err := g.ReplaceNode(c, d); err != nil {
		t.Fatal(err)
	}
	expectTags(t, d, "tag_a", "tag_b", "tag_c", "tag_d")
	if g.Alive(a) || g.Alive(b) || g.Alive(c) {
		t.Errorf("killed subgraph must be swept")
	}
}

// An empty-tag replacement still receives the killed ancestors' tags;
// tags are never dropped.
func TestReplaceEmptyTagReplacement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ogre.graph")
	defer teardown()
	//
	g, _, _, _, _, c := abcScenario(t)
	d := g.NewNode(zero)
	if err := g.ReplaceNode(c, d); err != nil {
		t.Fatal(err)
	}
	expectTags(t, d, "tag_a", "tag_b", "tag_c")
}

// A new intermediate E between A and the replacement root receives only the
// tags of what it post-dominates in the rewritten graph (here: C's tags),
// while A and B survive untouched on still-live paths.
//
//   A{tag_a}  B{tag_b}          A{tag_a}          B{tag_b}
//         |   |                       |             |
//        C{tag_c}        ⇒         E{tag_c}         |
//                                       |           |
//                                      D{tag_c, tag_d}
//
func TestReplaceWithNewIntermediate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ogre.graph")
	defer teardown()
	//
	g, x, _, a, b, c := abcScenario(t)
	e := g.NewNode(sub, a.Out(), x.Out())
	d := g.NewNode(sub, e.Out(), b.Out())
	d.AddProvenanceTag("tag_d")
	if err := g.ReplaceNode(c, d); err != nil {
		t.Fatal(err)
	}
	expectTags(t, d, "tag_c", "tag_d")
	expectTags(t, e, "tag_c")
	expectTags(t, a, "tag_a")
	expectTags(t, b, "tag_b")
}

// As above, but the intermediate carries a tag of its own already.
func TestReplaceWithTaggedIntermediate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ogre.graph")
	defer teardown()
	//
	g, x, _, a, b, c := abcScenario(t)
	e := g.NewNode(sub, a.Out(), x.Out())
	e.AddProvenanceTag("tag_e")
	d := g.NewNode(sub, e.Out(), b.Out())
	d.AddProvenanceTag("tag_d")
	if err := g.ReplaceNode(c, d); err != nil {
		t.Fatal(err)
	}
	expectTags(t, d, "tag_c", "tag_d")
	expectTags(t, e, "tag_c", "tag_e")
}

// Tag monotonicity: an operation never removes tags from a live node.
func TestTagMonotonicity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ogre.graph")
	defer teardown()
	//
	g, _, _, a, _, c := abcScenario(t)
	before := a.ProvenanceTags()
	d := g.NewNode(sub, a.Out(), a.Out())
	if err := g.ReplaceNode(c, d); err != nil {
		t.Fatal(err)
	}
	for _, tag := range before {
		if !a.HasProvenanceTag(tag) {
			t.Errorf("tag %q vanished from live node %s", tag, a)
		}
	}
}

func TestAddProvenanceTagsAbove(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ogre.graph")
	defer teardown()
	//
	g := newTestGraph()
	x := g.NewParameter()
	y := g.NewParameter()
	a := g.NewNode(add, x.Out(), y.Out())
	b := g.NewNode(mul, x.Out(), y.Out())
	c := g.NewNode(sub, a.Out(), b.Out())
	d := g.NewNode(abs, c.Out())
	// tag c and everything above, boundary parameters included
	c.AddProvenanceTagsAbove([]*Output{x.Out(), y.Out()}, "above_c")
	// tag d and c; the boundary outputs are c's operands, so a and b receive
	// the tags as boundary nodes, but x and y (their producers) do not
	d.AddProvenanceTagsAbove([]*Output{a.Out(), b.Out()}, "above_d")
	// tag everything above d
	d.AddProvenanceTagsAbove(nil, "all_above_d")
	expectTags(t, x, "above_c", "all_above_d")
	expectTags(t, y, "above_c", "all_above_d")
	expectTags(t, a, "above_c", "above_d", "all_above_d")
	expectTags(t, b, "above_c", "above_d", "all_above_d")
	expectTags(t, c, "above_c", "above_d", "all_above_d")
	expectTags(t, d, "above_d", "all_above_d")
}

// Boundary respect: the boundary node receives the tags, its producers never.
func TestTagsAboveBoundaryProducersUntouched(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ogre.graph")
	defer teardown()
	//
	g := newTestGraph()
	p := g.NewParameter()
	q := g.NewNode(neg, p.Out())
	r := g.NewNode(abs, q.Out())
	s := g.NewNode(neg, r.Out())
	s.AddProvenanceTagsAbove([]*Output{q.Out()}, "t")
	expectTags(t, s, "t")
	expectTags(t, r, "t")
	expectTags(t, q, "t")
	expectTags(t, p)
}

func TestProvenanceGroupAbove(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ogre.graph")
	defer teardown()
	//
	g := newTestGraph()
	p1 := g.NewParameter()
	p1.AddProvenanceTag("P1")
	p2 := g.NewParameter()
	p2.AddProvenanceTag("P2")
	a1 := g.NewNode(add, p1.Out(), p2.Out())
	m1 := g.NewNode(mul, a1.Out(), a1.Out()).
		AddProvenanceGroupMembersAbove([]*Output{p1.Out(), p2.Out()}).
		AddProvenanceTag("m1")
	expectTags(t, p1, "P1")
	expectTags(t, p2, "P2")
	expectTags(t, a1, "m1")
	expectTags(t, m1, "m1")
}

// A group containing only the call target degenerates to a no-op grouping.
func TestProvenanceGroupEmpty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ogre.graph")
	defer teardown()
	//
	g := newTestGraph()
	p1 := g.NewParameter()
	p1.AddProvenanceTag("P1")
	ab := g.NewNode(abs, p1.Out())
	ab.AddProvenanceGroupMembersAbove([]*Output{ab.Out()})
	ab.AddProvenanceTag("abs")
	for _, n := range g.Sorted(ab.Out()) {
		if n == p1 {
			expectTags(t, n, "P1")
		} else {
			expectTags(t, n, "abs")
		}
	}
}
