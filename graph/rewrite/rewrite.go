package rewrite

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024–2026 The OGRE Authors

*/

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"

	"github.com/ogrekit/ogre/graph"
	"github.com/ogrekit/ogre/graph/pattern"
)

// Guard vets a structurally matching candidate based on semantic
// preconditions. Returning false is normal "rule does not apply" control
// flow, not an error; the engine then tries the next rule.
type Guard func(*pattern.Bindings) bool

// RewriteFunc transforms the graph at a matched site, typically by
// constructing a replacement subgraph and calling ReplaceNode. It reports
// whether it actually rewrote anything. Callbacks run with the match root
// still live and must not capture engine state.
type RewriteFunc func(*graph.Graph, *pattern.Bindings) (bool, error)

// Rule is one registered transformation: a pattern to recognize a subgraph
// shape, an optional guard, and the rewrite callback.
type Rule struct {
	Name    string
	Pattern *pattern.Pattern
	Guard   Guard
	Rewrite RewriteFunc
}

// DefaultMaxPasses bounds the pass loop when Engine.MaxPasses is left unset.
const DefaultMaxPasses = 25

// Engine holds the registered rules and drives rewrite passes over a
// function to a fixpoint. Engines are single-threaded and non-reentrant over
// one graph instance.
type Engine struct {
	rules *arraylist.List // of Rule, in registration order
	// MaxPasses bounds the number of passes; DefaultMaxPasses if zero.
	MaxPasses int
}

// NewEngine creates an engine with no rules registered.
func NewEngine() *Engine {
	return &Engine{rules: arraylist.New()}
}

// Register appends a rule. Rules are tried in registration order.
func (e *Engine) Register(r Rule) error {
	if r.Pattern == nil || r.Rewrite == nil {
		return fmt.Errorf("rule '%s' needs both a pattern and a rewrite callback", r.Name)
	}
	e.rules.Add(r)
	tracer().Infof("registered rule '%s' for pattern %s", r.Name, r.Pattern)
	return nil
}

// Outcome tells how a run ended.
type Outcome int

const (
	// Fixpoint: the final pass performed zero rewrites; nothing is pending.
	Fixpoint Outcome = iota
	// LimitReached: MaxPasses were exhausted with rewrites still firing.
	// The graph is valid but possibly not fully reduced.
	LimitReached
)

func (o Outcome) String() string {
	if o == Fixpoint {
		return "fixpoint"
	}
	return "pass limit reached"
}

// Report summarizes a run of the engine.
type Report struct {
	Passes   int // number of passes performed
	Rewrites int // total successful rewrites over all passes
	Outcome  Outcome
}

func (r Report) String() string {
	return fmt.Sprintf("%d rewrite(s) in %d pass(es), %s", r.Rewrites, r.Passes, r.Outcome)
}

// Run drives passes over the function until a pass performs zero rewrites or
// the pass limit is reached. An error returned by a rewrite callback aborts
// the run; the graph then reflects all rewrites applied so far, each of which
// was atomic by itself.
func (e *Engine) Run(f *graph.Function) (Report, error) {
	report := Report{}
	max := e.MaxPasses
	if max <= 0 {
		max = DefaultMaxPasses
	}
	for pass := 1; pass <= max; pass++ {
		count, err := e.pass(f)
		report.Passes = pass
		report.Rewrites += count
		if err != nil {
			return report, err
		}
		tracer().Infof("pass %d: %d rewrite(s)", pass, count)
		if count == 0 {
			report.Outcome = Fixpoint
			return report, nil
		}
	}
	report.Outcome = LimitReached
	tracer().Infof("stopping after %d passes with rewrites still pending", max)
	return report, nil
}

// pass performs one topological traversal of the function's reachable nodes,
// applying at most one rewrite per visited node. The root set is captured at
// pass start; nodes removed by an earlier rewrite within the pass are
// skipped.
func (e *Engine) pass(f *graph.Function) (int, error) {
	g := f.Graph()
	order := g.Sorted(f.Results()...)
	count := 0
	for _, n := range order {
		if !g.Alive(n) {
			continue
		}
		it := e.rules.Iterator()
		for it.Next() {
			rule := it.Value().(Rule)
			bindings, ok := rule.Pattern.Match(n)
			if !ok {
				continue
			}
			if rule.Guard != nil && !rule.Guard(bindings) {
				tracer().Debugf("rule '%s' vetoed at %s", rule.Name, n)
				continue
			}
			applied, err := rule.Rewrite(g, bindings)
			if err != nil {
				return count, fmt.Errorf("rule '%s' at %s: %w", rule.Name, n, err)
			}
			if applied {
				tracer().Debugf("rule '%s' fired at %s", rule.Name, n)
				count++
			}
			break // at most one rewrite per node per pass
		}
	}
	return count, nil
}
