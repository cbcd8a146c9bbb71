package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/ogrekit/ogre"
	"github.com/ogrekit/ogre/graph"
	"github.com/ogrekit/ogre/graph/pattern"
	"github.com/ogrekit/ogre/graph/rewrite"
)

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024–2026 The OGRE Authors

*/

// We provide a small arithmetic operation set as a default for graph
// construction and rewriting experiments.
const (
	AddOp ogre.OpKind = iota + 1
	MulOp
	SubOp
	NegOp
	AbsOp
	ConstOp
)

var opTable = map[string]ogre.OpKind{
	"add":   AddOp,
	"mul":   MulOp,
	"sub":   SubOp,
	"neg":   NegOp,
	"abs":   AbsOp,
	"const": ConstOp,
}

func opString(kind ogre.OpKind) string {
	for name, k := range opTable {
		if k == kind {
			return name
		}
	}
	return fmt.Sprintf("op(%d)", kind)
}

func tracer() tracing.Trace {
	return tracing.Select("ogre.orepl")
}

func traceLevel(l string) tracing.TraceLevel {
	return tracing.TraceLevelFromString(l)
}

// main starts an interactive CLI ("O.REPL"), where users may enter
// s-expressions over the demo operation set, e.g.
//
//    orepl> (sub (add a b) (mul b a))
//
// Bare identifiers become named parameter nodes, numbers become constants.
// Every expression is retained as a function root. Commands:
//
//    :dump           print the graph in topological order, with tags
//    :tag  <id> <t>  add provenance tag <t> to node #<id>
//    :rules          list the built-in demo rewrite rules
//    :rewrite        run the demo rules to a fixpoint and report
//    :quit           leave
//
// O.REPL is intended as a sandbox for experiments with rewrite rules and
// provenance tracking during early transformation development.
func main() {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	flag.Parse()
	for _, key := range []string{"ogre.graph", "ogre.pattern", "ogre.rewrite", "ogre.orepl"} {
		tracing.Select(key).SetTraceLevel(traceLevel(*tlevel))
	}
	pterm.Info.Println("Welcome to O.REPL")
	tracer().Infof("Trace level is %s", *tlevel)
	repl, err := readline.New("orepl> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := newIntp(repl)
	tracer().Infof("Quit with <ctrl>D")
	intp.REPL()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object.
type Intp struct {
	g      *graph.Graph
	funcs  []*graph.Function
	params map[string]*graph.Node
	engine *rewrite.Engine
	repl   *readline.Instance
	serial int
}

func newIntp(repl *readline.Instance) *Intp {
	g := graph.NewGraph()
	g.OpNames = opString
	intp := &Intp{
		g:      g,
		params: make(map[string]*graph.Node),
		engine: rewrite.NewEngine(),
		repl:   repl,
	}
	intp.registerDemoRules()
	return intp
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.Eval(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	println("Good bye!")
}

// Eval evaluates a command or an expression, given on a line by itself.
func (intp *Intp) Eval(line string) (bool, error) {
	if strings.HasPrefix(line, ":") {
		return intp.command(line)
	}
	root, err := intp.buildExpr(line)
	if err != nil {
		return false, err
	}
	tag := fmt.Sprintf("expr%d", intp.serial)
	intp.serial++
	root.AddProvenanceTag(tag)
	var params []*graph.Node
	for _, p := range intp.params {
		params = append(params, p)
	}
	f, err := intp.g.NewFunction([]*graph.Output{root.Out()}, params)
	if err != nil {
		return false, err
	}
	intp.funcs = append(intp.funcs, f)
	pterm.Info.Printf("%v tagged {%s}\n", root, tag)
	return false, nil
}

func (intp *Intp) command(line string) (bool, error) {
	args := strings.Fields(line)
	switch args[0] {
	case ":quit", ":q":
		return true, nil
	case ":dump":
		intp.dump()
	case ":tag":
		if len(args) != 3 {
			return false, fmt.Errorf("usage: :tag <id> <tag>")
		}
		var id int
		if _, err := fmt.Sscanf(args[1], "%d", &id); err != nil {
			return false, fmt.Errorf("not a node ID: '%s'", args[1])
		}
		for _, n := range intp.g.Nodes() {
			if n.ID() == id {
				n.AddProvenanceTag(args[2])
				pterm.Info.Printf("%v tagged {%s}\n", n, args[2])
				return false, nil
			}
		}
		return false, fmt.Errorf("no live node #%d", id)
	case ":rules":
		pterm.Info.Println("neg-neg    (neg (neg $x))   ⇒  $x")
		pterm.Info.Println("add-zero   (add! $x 0)      ⇒  $x")
		pterm.Info.Println("mul-one    (mul! $x 1)      ⇒  $x")
	case ":rewrite":
		for _, f := range intp.funcs {
			report, err := intp.engine.Run(f)
			if err != nil {
				return false, err
			}
			pterm.Info.Println(report.String())
		}
	default:
		return false, fmt.Errorf("unknown command '%s'", args[0])
	}
	return false, nil
}

// dump prints all live nodes in topological order, together with their
// operands and provenance tags.
func (intp *Intp) dump() {
	var roots []*graph.Output
	for _, f := range intp.funcs {
		roots = append(roots, f.Results()...)
	}
	rows := pterm.TableData{{"node", "operands", "tags"}}
	for _, n := range intp.g.Sorted(roots...) {
		var operands []string
		for i := 0; i < n.NumInputs(); i++ {
			operands = append(operands, n.Input(i).From().String())
		}
		rows = append(rows, []string{
			n.String(),
			strings.Join(operands, " "),
			strings.Join(n.ProvenanceTags(), ","),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		tracer().Errorf(err.Error())
	}
}

// --- Expression building ---------------------------------------------------

// buildExpr turns an s-expression into graph nodes. We lean on the pattern
// scanner's token shapes: identifiers which are not operation names intern as
// named parameters, numbers become constant nodes.
func (intp *Intp) buildExpr(src string) (*graph.Node, error) {
	expr, rest, err := parseSexp(strings.TrimSpace(src))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(rest) != "" {
		return nil, fmt.Errorf("trailing input: '%s'", rest)
	}
	return intp.build(expr)
}

type sexp struct {
	atom string
	list []*sexp
}

func parseSexp(src string) (*sexp, string, error) {
	src = strings.TrimLeft(src, " \t")
	if src == "" {
		return nil, "", fmt.Errorf("unexpected end of expression")
	}
	if src[0] == '(' {
		node := &sexp{}
		rest := src[1:]
		for {
			rest = strings.TrimLeft(rest, " \t")
			if rest == "" {
				return nil, "", fmt.Errorf("unclosed '('")
			}
			if rest[0] == ')' {
				return node, rest[1:], nil
			}
			child, r, err := parseSexp(rest)
			if err != nil {
				return nil, "", err
			}
			node.list = append(node.list, child)
			rest = r
		}
	}
	end := strings.IndexAny(src, " \t()")
	if end < 0 {
		end = len(src)
	}
	return &sexp{atom: src[:end]}, src[end:], nil
}

func (intp *Intp) build(expr *sexp) (*graph.Node, error) {
	if expr.atom != "" {
		if expr.atom[0] >= '0' && expr.atom[0] <= '9' {
			c, err := intp.g.Build(ConstOp).Attr("value", expr.atom).End()
			return c, err
		}
		p, ok := intp.params[expr.atom]
		if !ok {
			p = intp.g.NewParameter()
			intp.params[expr.atom] = p
		}
		return p, nil
	}
	if len(expr.list) == 0 || expr.list[0].atom == "" {
		return nil, fmt.Errorf("expected an operation name")
	}
	kind, ok := opTable[expr.list[0].atom]
	if !ok {
		return nil, fmt.Errorf("unknown operation '%s'", expr.list[0].atom)
	}
	var args []*graph.Output
	for _, child := range expr.list[1:] {
		arg, err := intp.build(child)
		if err != nil {
			return nil, err
		}
		args = append(args, arg.Out())
	}
	b := intp.g.Build(kind)
	for _, a := range args {
		b.Arg(a)
	}
	return b.End()
}

// --- Demo rules ------------------------------------------------------------

func (intp *Intp) registerDemoRules() {
	negNeg, err := pattern.Parse(`(neg (neg $x))`, opTable)
	if err != nil {
		panic(err)
	}
	intp.engine.Register(rewrite.Rule{
		Name:    "neg-neg",
		Pattern: negNeg,
		Rewrite: func(g *graph.Graph, b *pattern.Bindings) (bool, error) {
			x := b.Get("x")
			if err := g.ReplaceOutputs(b.Root(), []*graph.Output{x.Out()}); err != nil {
				return false, err
			}
			return true, nil
		},
	})
	constIs := func(value string) rewrite.Guard {
		return func(b *pattern.Bindings) bool {
			c := b.Get("c")
			return c != nil && c.Attrs() != nil && c.Attrs()["value"] == value
		}
	}
	elideWith := func(name string) rewrite.RewriteFunc {
		return func(g *graph.Graph, b *pattern.Bindings) (bool, error) {
			x := b.Get(name)
			if err := g.ReplaceOutputs(b.Root(), []*graph.Output{x.Out()}); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	addZero := pattern.Op(AddOp,
		pattern.Any("x"),
		pattern.Op(ConstOp).Capture("c")).Commutative()
	intp.engine.Register(rewrite.Rule{
		Name:    "add-zero",
		Pattern: addZero,
		Guard:   constIs("0"),
		Rewrite: elideWith("x"),
	})
	mulOne := pattern.Op(MulOp,
		pattern.Any("x"),
		pattern.Op(ConstOp).Capture("c")).Commutative()
	intp.engine.Register(rewrite.Rule{
		Name:    "mul-one",
		Pattern: mulOne,
		Guard:   constIs("1"),
		Rewrite: elideWith("x"),
	})
}
