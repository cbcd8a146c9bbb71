package pattern

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024–2026 The OGRE Authors

*/

import (
	"fmt"
	"sync"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Token types of the pattern language.
const (
	tokLeft  = iota + 1 // '('
	tokRight            // ')'
	tokAlt              // '|'
	tokIdent            // operation name, optionally with a trailing '!'
	tokVar              // $name wildcard
)

type token struct {
	typ    int
	lexeme string
}

var lexOnce sync.Once // monitors one-time DFA compilation
var lexInstance *lexmachine.Lexer
var lexErr error

// lexer compiles the DFA for the pattern language on first use.
func lexer() (*lexmachine.Lexer, error) {
	lexOnce.Do(func() {
		lex := lexmachine.NewLexer()
		lex.Add([]byte(`;[^\n]*\n?`), skip) // skip comments
		lex.Add([]byte(`\(`), makeToken(tokLeft))
		lex.Add([]byte(`\)`), makeToken(tokRight))
		lex.Add([]byte(`\|`), makeToken(tokAlt))
		lex.Add([]byte(`$([a-z]|[A-Z]|_)([a-z]|[A-Z]|[0-9]|_|-)*`), makeToken(tokVar))
		lex.Add([]byte(`([a-z]|[A-Z])([a-z]|[A-Z]|[0-9]|_|-|\.)*\!?`), makeToken(tokIdent))
		lex.Add([]byte(`( |\t|\n|\r)+`), skip)
		if err := lex.Compile(); err != nil {
			tracer().Errorf("Error compiling DFA: %v", err)
			lexErr = err
			return
		}
		lexInstance = lex
	})
	return lexInstance, lexErr
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func makeToken(typ int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return token{typ: typ, lexeme: string(m.Bytes)}, nil
	}
}

// tokenize scans a complete pattern source into tokens.
func tokenize(src string) ([]token, error) {
	lex, err := lexer()
	if err != nil {
		return nil, err
	}
	s, err := lex.Scanner([]byte(src))
	if err != nil {
		return nil, err
	}
	var toks []token
	for {
		tok, err, eof := s.Next()
		if eof {
			return toks, nil
		}
		if err != nil {
			if ui, is := err.(*machines.UnconsumedInput); is {
				return nil, fmt.Errorf("unexpected input at position %d", ui.FailTC)
			}
			return nil, err
		}
		toks = append(toks, tok.(token))
	}
}
