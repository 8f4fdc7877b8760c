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

// Package ast defines the canonical prefix-tree form emitted by the guard
// expression parser: a tagged sum of node kinds, one per operator shape
// (lookup, call, relational, and/or, not) plus the bare primitives.
//
// The scope resolver (package scope) consumes this tree and rewrites it into
// the typed symbolic form of package symbolic; nothing downstream of
// resolution should need to inspect an ast.Node again.
package ast

import "github.com/christian-fr/filter-branching-check-fork/internal/token"

// Node is implemented by every prefix-tree node kind.
type Node interface {
	Pos() token.Pos
	node()
}

// Lookup is a dotted identifier, e.g. ('lookup', ["zofar", "asNumber"]).
type Lookup struct {
	From     token.Pos
	Segments []string
}

// Call is a function application whose callee is itself a Node (ordinarily
// a Lookup), e.g. ('call', fun_ast, [arg_asts]).
type Call struct {
	From token.Pos
	Fun  Node
	Args []Node
}

// Not is logical negation: ('not', x).
type Not struct {
	From token.Pos
	X    Node
}

// LogicOp distinguishes conjunction from disjunction in a Logic node.
type LogicOp int

const (
	LAnd LogicOp = iota
	LOr
)

// Logic is a binary and/or node: ('and'|'or', l, r).
type Logic struct {
	From token.Pos
	Op   LogicOp
	X, Y Node
}

// RelOp enumerates the relational operators of the predicate production.
type RelOp int

const (
	RelGt RelOp = iota
	RelGe
	RelLt
	RelLe
	RelEq
	RelNe
)

func (op RelOp) String() string {
	switch op {
	case RelGt:
		return "gt"
	case RelGe:
		return "ge"
	case RelLt:
		return "lt"
	case RelLe:
		return "le"
	case RelEq:
		return "=="
	case RelNe:
		return "!="
	}
	return "?"
}

// Rel is a relational predicate: (relop, l, r).
type Rel struct {
	From token.Pos
	Op   RelOp
	X, Y Node
}

// ArithOp enumerates the arithmetic operators available on numeric terms.
type ArithOp int

const (
	ArithAdd ArithOp = iota
	ArithSub
	ArithMul
	ArithDiv
	ArithNeg // unary; Y is nil
)

// Arith is an arithmetic expression over numeric terms, e.g. x + y or -x.
// The term production admits infix +, -, *, / and unary negation; constant
// operands are folded eagerly during resolution.
type Arith struct {
	From token.Pos
	Op   ArithOp
	X, Y Node // Y is nil for ArithNeg
}

// BoolLit is a boolean literal: true or false.
type BoolLit struct {
	From  token.Pos
	Value bool
}

// IntLit is an unsuffixed integer literal, kept as text so the typer can
// parse it with arbitrary precision (see internal/symbolic).
type IntLit struct {
	From token.Pos
	Text string
}

// FloatLit is a floating point literal, kept as text for the same reason.
type FloatLit struct {
	From token.Pos
	Text string
}

// StringLit is a single-quoted string literal with quotes already stripped.
type StringLit struct {
	From  token.Pos
	Value string
}

func (n *Lookup) Pos() token.Pos    { return n.From }
func (n *Call) Pos() token.Pos      { return n.From }
func (n *Not) Pos() token.Pos       { return n.From }
func (n *Logic) Pos() token.Pos     { return n.From }
func (n *Rel) Pos() token.Pos       { return n.From }
func (n *Arith) Pos() token.Pos     { return n.From }
func (n *BoolLit) Pos() token.Pos   { return n.From }
func (n *IntLit) Pos() token.Pos    { return n.From }
func (n *FloatLit) Pos() token.Pos  { return n.From }
func (n *StringLit) Pos() token.Pos { return n.From }

func (*Lookup) node()    {}
func (*Call) node()      {}
func (*Not) node()       {}
func (*Logic) node()     {}
func (*Rel) node()       {}
func (*Arith) node()     {}
func (*BoolLit) node()   {}
func (*IntLit) node()    {}
func (*FloatLit) node()  {}
func (*StringLit) node() {}
