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

package parser

import (
	"strings"

	"github.com/christian-fr/filter-branching-check-fork/internal/ast"
)

// Operator precedence levels for printing, lowest first. A child printed in a
// context of higher precedence than its own gets parenthesized.
const (
	precOr = iota + 1
	precAnd
	precRel
	precAdd
	precMul
	precUnary
	precAtom
)

// Print renders node back into guard expression syntax, inserting the
// minimal parentheses needed so that Parse(Print(n)) yields a tree
// structurally equal to n.
func Print(n ast.Node) string {
	var b strings.Builder
	printNode(&b, n, precOr)
	return b.String()
}

func prec(n ast.Node) int {
	switch x := n.(type) {
	case *ast.Logic:
		if x.Op == ast.LOr {
			return precOr
		}
		return precAnd
	case *ast.Rel:
		return precRel
	case *ast.Arith:
		switch x.Op {
		case ast.ArithAdd, ast.ArithSub:
			return precAdd
		case ast.ArithNeg:
			return precUnary
		default:
			return precMul
		}
	case *ast.Not:
		return precUnary
	}
	return precAtom
}

func printNode(b *strings.Builder, n ast.Node, ctx int) {
	if prec(n) < ctx {
		b.WriteByte('(')
		printNode(b, n, precOr)
		b.WriteByte(')')
		return
	}

	switch x := n.(type) {
	case *ast.Logic:
		p := prec(n)
		printNode(b, x.X, p)
		if x.Op == ast.LOr {
			b.WriteString(" or ")
		} else {
			b.WriteString(" and ")
		}
		// Left-associative: a right operand at the same level needs parens.
		printNode(b, x.Y, p+1)

	case *ast.Rel:
		printNode(b, x.X, precAdd)
		b.WriteByte(' ')
		b.WriteString(x.Op.String())
		b.WriteByte(' ')
		printNode(b, x.Y, precAdd)

	case *ast.Arith:
		if x.Op == ast.ArithNeg {
			b.WriteByte('-')
			printNode(b, x.X, precUnary)
			return
		}
		p := prec(n)
		printNode(b, x.X, p)
		switch x.Op {
		case ast.ArithAdd:
			b.WriteString(" + ")
		case ast.ArithSub:
			b.WriteString(" - ")
		case ast.ArithMul:
			b.WriteString(" * ")
		case ast.ArithDiv:
			b.WriteString(" / ")
		}
		printNode(b, x.Y, p+1)

	case *ast.Not:
		b.WriteByte('!')
		printNode(b, x.X, precUnary)

	case *ast.Lookup:
		b.WriteString(strings.Join(x.Segments, "."))

	case *ast.Call:
		printNode(b, x.Fun, precAtom)
		b.WriteByte('(')
		for i, a := range x.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			printNode(b, a, precOr)
		}
		b.WriteByte(')')

	case *ast.BoolLit:
		if x.Value {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}

	case *ast.IntLit:
		b.WriteString(x.Text)

	case *ast.FloatLit:
		b.WriteString(x.Text)

	case *ast.StringLit:
		b.WriteByte('\'')
		b.WriteString(x.Value)
		b.WriteByte('\'')
	}
}
