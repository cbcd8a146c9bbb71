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
)

// Parse translates a textual pattern into a Pattern fragment. The pattern
// language is a small s-expression dialect:
//
//    (sub (add $x $y) $z)      a sub whose first operand is an add
//    (add! $x (neg $x))        '!' declares commutative operand matching
//    (| (relu $x) (tanh $x))   either-of alternatives
//    $_                        anonymous wildcard
//    (const)                   a zero-operand operation
//
// Binding the same wildcard name twice requires both positions to hold the
// very same node. ops maps operation names to their application-defined
// kinds; an unknown name is an error. Predicates and attribute narrowing
// have no textual form; attach them with Where/WithAttrs after parsing.
func Parse(src string, ops map[string]ogre.OpKind) (*Pattern, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, ops: ops}
	pat, err := p.pattern()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, fmt.Errorf("trailing input after pattern: '%s'", p.peek().lexeme)
	}
	tracer().Debugf("parsed pattern %s", pat)
	return pat, nil
}

type parser struct {
	toks []token
	pos  int
	ops  map[string]ogre.OpKind
}

func (p *parser) done() bool {
	return p.pos >= len(p.toks)
}

func (p *parser) peek() token {
	if p.done() {
		return token{}
	}
	return p.toks[p.pos]
}

func (p *parser) next() (token, error) {
	if p.done() {
		return token{}, fmt.Errorf("unexpected end of pattern")
	}
	tok := p.toks[p.pos]
	p.pos++
	return tok, nil
}

func (p *parser) pattern() (*Pattern, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	switch tok.typ {
	case tokVar:
		name := tok.lexeme[1:]
		if name == "_" {
			name = ""
		}
		return Any(name), nil
	case tokIdent:
		return p.opPattern(tok, true)
	case tokLeft:
		head, err := p.next()
		if err != nil {
			return nil, err
		}
		switch head.typ {
		case tokAlt:
			return p.alternatives()
		case tokIdent:
			return p.opPattern(head, false)
		default:
			return nil, fmt.Errorf("expected operation name or '|', found '%s'", head.lexeme)
		}
	default:
		return nil, fmt.Errorf("unexpected '%s' in pattern", tok.lexeme)
	}
}

// opPattern parses the remainder of '(name args…)', or a bare zero-operand
// operation name if bare is set.
func (p *parser) opPattern(head token, bare bool) (*Pattern, error) {
	name := head.lexeme
	comm := strings.HasSuffix(name, "!")
	name = strings.TrimSuffix(name, "!")
	kind, known := p.ops[name]
	if !known {
		return nil, fmt.Errorf("unknown operation '%s'", name)
	}
	var args []*Pattern
	if !bare {
		for p.peek().typ != tokRight {
			if p.done() {
				return nil, fmt.Errorf("unclosed '(' in pattern")
			}
			arg, err := p.pattern()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		p.pos++ // consume ')'
	}
	pat := Op(kind, args...)
	if comm {
		if len(args) != 2 {
			return nil, fmt.Errorf("'%s!' declares commutative matching, needs exactly 2 operands", name)
		}
		pat.Commutative()
	}
	return pat, nil
}

func (p *parser) alternatives() (*Pattern, error) {
	var alts []*Pattern
	for p.peek().typ != tokRight {
		if p.done() {
			return nil, fmt.Errorf("unclosed '(|' in pattern")
		}
		alt, err := p.pattern()
		if err != nil {
			return nil, err
		}
		alts = append(alts, alt)
	}
	p.pos++ // consume ')'
	if len(alts) == 0 {
		return nil, fmt.Errorf("empty alternative list '(|)'")
	}
	return OneOf(alts...), nil
}
