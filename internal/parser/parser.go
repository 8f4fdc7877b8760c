// Copyright 2026 The filter-branching-check-fork Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package parser implements a recursive-descent parser for the guard
// expression grammar, extended with infix arithmetic as documented on
// internal/ast.Arith: one method per grammar production, current token held
// in p.tok/p.pos/p.lit, advanced by p.next.
//
//	bool_exp   = or_exp
//	or_exp     = and_exp { "or" and_exp }
//	and_exp    = unary { "and" unary }
//	unary      = "!" unary | predicate
//	predicate  = additive [ relop additive ]
//	additive   = multiplicative { ("+" | "-") multiplicative }
//	multiplicative = unary_term { ("*" | "/") unary_term }
//	unary_term = "-" unary_term | atom
//	atom       = "(" bool_exp ")" | call | lookup | bool_lit | int_lit
//	           | float_lit | string_lit
//	call       = lookup "(" [ bool_exp { "," bool_exp } ] ")"
//	lookup     = ident { "." ident }
package parser

import (
	"fmt"

	"github.com/christian-fr/filter-branching-check-fork/internal/ast"
	fbcerrors "github.com/christian-fr/filter-branching-check-fork/internal/errors"
	"github.com/christian-fr/filter-branching-check-fork/internal/scanner"
	"github.com/christian-fr/filter-branching-check-fork/internal/token"
)

type parser struct {
	sc   scanner.Scanner
	pos  token.Pos
	tok  token.Token
	lit  string
	errs fbcerrors.List
}

// Parse parses src as a guard expression and returns its ast.Node. On any
// syntax error it returns a nil node and an *errors.ParseError describing
// the first failure encountered.
func Parse(src string) (ast.Node, error) {
	p := &parser{}
	scanner.Init(&p.sc, src, func(pos token.Pos, msg string) {
		p.errs.Add(&fbcerrors.ParseError{At: pos, Msg: msg})
	})
	p.next()

	expr := p.parseBoolExpr()
	if len(p.errs) > 0 {
		return nil, p.errs[0]
	}
	if p.tok != token.EOF {
		return nil, &fbcerrors.ParseError{At: p.pos, Msg: fmt.Sprintf("unexpected token %s", p.tok)}
	}
	return expr, nil
}

func (p *parser) next() {
	p.pos, p.tok, p.lit = p.sc.Scan()
}

func (p *parser) errorf(pos token.Pos, format string, args ...any) {
	p.errs.Add(&fbcerrors.ParseError{At: pos, Msg: fmt.Sprintf(format, args...)})
}

func (p *parser) expect(tok token.Token) token.Pos {
	pos := p.pos
	if p.tok != tok {
		p.errorf(p.pos, "expected %s, found %s", tok, p.tok)
	}
	p.next()
	return pos
}

func (p *parser) parseBoolExpr() ast.Node {
	return p.parseOr()
}

func (p *parser) parseOr() ast.Node {
	x := p.parseAnd()
	for p.tok == token.OR {
		pos := p.pos
		p.next()
		y := p.parseAnd()
		x = &ast.Logic{From: pos, Op: ast.LOr, X: x, Y: y}
	}
	return x
}

func (p *parser) parseAnd() ast.Node {
	x := p.parseUnary()
	for p.tok == token.AND {
		pos := p.pos
		p.next()
		y := p.parseUnary()
		x = &ast.Logic{From: pos, Op: ast.LAnd, X: x, Y: y}
	}
	return x
}

func (p *parser) parseUnary() ast.Node {
	if p.tok == token.NOT {
		pos := p.pos
		p.next()
		return &ast.Not{From: pos, X: p.parseUnary()}
	}
	return p.parsePredicate()
}

var relOps = map[token.Token]ast.RelOp{
	token.GT:  ast.RelGt,
	token.GE:  ast.RelGe,
	token.LT:  ast.RelLt,
	token.LE:  ast.RelLe,
	token.EQ:  ast.RelEq,
	token.NEQ: ast.RelNe,
}

func (p *parser) parsePredicate() ast.Node {
	x := p.parseAdditive()
	if op, ok := relOps[p.tok]; ok {
		pos := p.pos
		p.next()
		y := p.parseAdditive()
		return &ast.Rel{From: pos, Op: op, X: x, Y: y}
	}
	return x
}

func (p *parser) parseAdditive() ast.Node {
	x := p.parseMultiplicative()
	for p.tok == token.PLUS || p.tok == token.MINUS {
		pos, tok := p.pos, p.tok
		p.next()
		y := p.parseMultiplicative()
		op := ast.ArithAdd
		if tok == token.MINUS {
			op = ast.ArithSub
		}
		x = &ast.Arith{From: pos, Op: op, X: x, Y: y}
	}
	return x
}

func (p *parser) parseMultiplicative() ast.Node {
	x := p.parseUnaryTerm()
	for p.tok == token.STAR || p.tok == token.SLASH {
		pos, tok := p.pos, p.tok
		p.next()
		y := p.parseUnaryTerm()
		op := ast.ArithMul
		if tok == token.SLASH {
			op = ast.ArithDiv
		}
		x = &ast.Arith{From: pos, Op: op, X: x, Y: y}
	}
	return x
}

func (p *parser) parseUnaryTerm() ast.Node {
	if p.tok == token.MINUS {
		pos := p.pos
		p.next()
		return &ast.Arith{From: pos, Op: ast.ArithNeg, X: p.parseUnaryTerm()}
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() ast.Node {
	pos := p.pos
	switch p.tok {
	case token.LPAREN:
		p.next()
		x := p.parseBoolExpr()
		p.expect(token.RPAREN)
		return x
	case token.TRUE:
		p.next()
		return &ast.BoolLit{From: pos, Value: true}
	case token.FALSE:
		p.next()
		return &ast.BoolLit{From: pos, Value: false}
	case token.INT:
		lit := p.lit
		p.next()
		return &ast.IntLit{From: pos, Text: lit}
	case token.FLOAT:
		lit := p.lit
		p.next()
		return &ast.FloatLit{From: pos, Text: lit}
	case token.STRING:
		lit := p.lit
		p.next()
		return &ast.StringLit{From: pos, Value: lit}
	case token.IDENT:
		return p.parseLookupOrCall()
	default:
		p.errorf(pos, "unexpected token %s", p.tok)
		p.next()
		return &ast.BoolLit{From: pos, Value: false}
	}
}

func (p *parser) parseLookupOrCall() ast.Node {
	pos := p.pos
	segments := []string{p.lit}
	p.expect(token.IDENT)
	for p.tok == token.DOT {
		p.next()
		segments = append(segments, p.lit)
		p.expect(token.IDENT)
	}
	lookup := &ast.Lookup{From: pos, Segments: segments}
	if p.tok != token.LPAREN {
		return lookup
	}
	p.next()
	var args []ast.Node
	if p.tok != token.RPAREN {
		args = append(args, p.parseBoolExpr())
		for p.tok == token.COMMA {
			p.next()
			args = append(args, p.parseBoolExpr())
		}
	}
	p.expect(token.RPAREN)
	return &ast.Call{From: pos, Fun: lookup, Args: args}
}
