// Package symbolic implements a minimal symbolic algebra: a logic kernel
// over typed atoms supporting And/Or/Not/Eq/Ne/Lt/Le/Gt/Ge,
// substitution, a deterministic simplifier, DNF conversion, and structural
// equality suitable for memoization.
//
// Expressions are immutable once built. And/Or are stored as n-ary slices
// (rather than strictly binary trees) because the simplifier's flattening
// step needs to merge nested conjunctions/disjunctions of the same operator
// into one node; a binary constructor is still provided for callers that
// only ever combine two expressions at a time (see And2, Or2).
package symbolic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Type is the static type attribute carried by symbols and literals. It is
// used only for operator consistency checks; evaluation itself treats
// symbols as opaque atoms.
type Type int

const (
	TBool Type = iota
	TNumber
	TString
)

func (t Type) String() string {
	switch t {
	case TBool:
		return "boolean"
	case TNumber:
		return "number"
	case TString:
		return "string"
	}
	return "unknown"
}

// Expr is any node of the symbolic tree.
type Expr interface {
	Type() Type
	// key returns a canonical string uniquely identifying this expression's
	// structure, used for structural equality, map keys, and the
	// simplification cache.
	key() string
}

// ---- atoms ----

// Sym is a typed symbolic atom: a resolved variable, a synthesized macro
// symbol (ZOFAR_BASE_URL, {var}_IS_MISSING, ...), or an enum member literal
// symbol (LIT_{name}_{member}).
type Sym struct {
	Name string
	Typ  Type
}

func (s *Sym) Type() Type   { return s.Typ }
func (s *Sym) key() string  { return "sym:" + s.Typ.String() + ":" + s.Name }
func (s *Sym) String() string { return s.Name }

func NewSym(name string, typ Type) *Sym { return &Sym{Name: name, Typ: typ} }

// BoolLit, NumLit, StrLit are primitive literals.

type BoolLit struct{ Value bool }

func (b *BoolLit) Type() Type  { return TBool }
func (b *BoolLit) key() string { return fmt.Sprintf("bool:%v", b.Value) }

var (
	True  Expr = &BoolLit{Value: true}
	False Expr = &BoolLit{Value: false}
)

func Bool(v bool) Expr {
	if v {
		return True
	}
	return False
}

type NumLit struct{ Value *apd.Decimal }

func (n *NumLit) Type() Type  { return TNumber }
func (n *NumLit) key() string { return "num:" + n.Value.Text('f') }

func Num(d *apd.Decimal) Expr { return &NumLit{Value: d} }

// NumFromString parses a decimal literal the way the parser lexes it (plain
// integers and floats, no thousands separators).
func NumFromString(s string) (Expr, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &NumLit{Value: d}, nil
}

type StrLit struct{ Value string }

func (s *StrLit) Type() Type  { return TString }
func (s *StrLit) key() string { return "str:" + s.Value }

func Str(v string) Expr { return &StrLit{Value: v} }

// ---- boolean connectives ----

type NotExpr struct{ X Expr }

func (n *NotExpr) Type() Type  { return TBool }
func (n *NotExpr) key() string { return "not(" + n.X.key() + ")" }

func Not(x Expr) Expr { return &NotExpr{X: x} }

type AndExpr struct{ Args []Expr }

func (a *AndExpr) Type() Type { return TBool }
func (a *AndExpr) key() string {
	parts := make([]string, len(a.Args))
	for i, x := range a.Args {
		parts[i] = x.key()
	}
	return "and(" + strings.Join(parts, ",") + ")"
}

type OrExpr struct{ Args []Expr }

func (o *OrExpr) Type() Type { return TBool }
func (o *OrExpr) key() string {
	parts := make([]string, len(o.Args))
	for i, x := range o.Args {
		parts[i] = x.key()
	}
	return "or(" + strings.Join(parts, ",") + ")"
}

// And builds a flattened n-ary conjunction from args, merging any nested
// AndExpr operands into the same level.
func And(args ...Expr) Expr {
	flat := flattenAnd(args)
	if len(flat) == 0 {
		return True
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &AndExpr{Args: flat}
}

// And2 is the binary convenience form used by callers (e.g. the graph
// engine) that always combine exactly two sub-expressions.
func And2(x, y Expr) Expr { return And(x, y) }

func Or(args ...Expr) Expr {
	flat := flattenOr(args)
	if len(flat) == 0 {
		return False
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &OrExpr{Args: flat}
}

func Or2(x, y Expr) Expr { return Or(x, y) }

func flattenAnd(args []Expr) []Expr {
	var out []Expr
	for _, a := range args {
		if and, ok := a.(*AndExpr); ok {
			out = append(out, flattenAnd(and.Args)...)
		} else {
			out = append(out, a)
		}
	}
	return out
}

func flattenOr(args []Expr) []Expr {
	var out []Expr
	for _, a := range args {
		if or, ok := a.(*OrExpr); ok {
			out = append(out, flattenOr(or.Args)...)
		} else {
			out = append(out, a)
		}
	}
	return out
}

// ---- relational operators ----

type RelOp int

const (
	Eq RelOp = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

func (op RelOp) String() string {
	switch op {
	case Eq:
		return "=="
	case Ne:
		return "!="
	case Lt:
		return "lt"
	case Le:
		return "le"
	case Gt:
		return "gt"
	case Ge:
		return "ge"
	}
	return "?"
}

type RelExpr struct {
	Op   RelOp
	X, Y Expr
}

func (r *RelExpr) Type() Type  { return TBool }
func (r *RelExpr) key() string { return fmt.Sprintf("rel(%s,%s,%s)", r.Op, r.X.key(), r.Y.key()) }

func Rel(op RelOp, x, y Expr) Expr { return &RelExpr{Op: op, X: x, Y: y} }

// ---- arithmetic ----

type ArithOp int

const (
	Add ArithOp = iota
	Sub
	Mul
	Div
	Neg
)

func (op ArithOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Neg:
		return "neg"
	}
	return "?"
}

// ArithExpr is a non-constant-foldable arithmetic expression; X op Y, or
// -X when Op is Neg (Y is nil in that case).
type ArithExpr struct {
	Op   ArithOp
	X, Y Expr
}

func (a *ArithExpr) Type() Type { return TNumber }
func (a *ArithExpr) key() string {
	if a.Op == Neg {
		return fmt.Sprintf("arith(neg,%s)", a.X.key())
	}
	return fmt.Sprintf("arith(%s,%s,%s)", a.Op, a.X.key(), a.Y.key())
}

// ---- structural equality ----

// Equal reports whether a and b are structurally identical expressions.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.key() == b.key()
}

// Key exposes the canonical structural key, for use as a map key by callers
// (e.g. the substitution map and the simplification cache) outside this
// package.
func Key(e Expr) string { return e.key() }

// IsTrue reports whether e is the literal true.
func IsTrue(e Expr) bool { b, ok := e.(*BoolLit); return ok && b.Value }

// IsFalse reports whether e is the literal false.
func IsFalse(e Expr) bool { b, ok := e.(*BoolLit); return ok && !b.Value }

// sortByKey returns a copy of args sorted by canonical key, giving And/Or a
// canonical argument order so that structurally-equivalent commutative
// expressions built in different orders produce the same key.
func sortByKey(args []Expr) []Expr {
	out := make([]Expr, len(args))
	copy(out, args)
	sort.Slice(out, func(i, j int) bool { return out[i].key() < out[j].key() })
	return out
}
