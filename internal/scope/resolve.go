package scope

import (
	"fmt"
	"strings"

	"github.com/christian-fr/filter-branching-check-fork/internal/ast"
	fbcerrors "github.com/christian-fr/filter-branching-check-fork/internal/errors"
	"github.com/christian-fr/filter-branching-check-fork/internal/model"
	"github.com/christian-fr/filter-branching-check-fork/internal/symbolic"
	"github.com/christian-fr/filter-branching-check-fork/internal/token"
)

// varType maps a declared Variable's type onto the symbolic type it
// resolves to. Enum variables resolve to a string-typed symbol (the uid
// domain); their number-coded counterpart is only reachable through
// zofar.asNumber, which names a distinct "{var}_NUM" symbol.
func varType(t model.VarType) symbolic.Type {
	switch t {
	case model.TNumber:
		return symbolic.TNumber
	case model.TBoolean:
		return symbolic.TBool
	default: // TString, TEnum
		return symbolic.TString
	}
}

// Resolve walks node, resolving every lookup against sc, expanding built-in
// macros, and type-checking bottom-up. It returns the resulting
// symbolic.Expr, not yet enum-lowered (see package enum's Lower).
func Resolve(node ast.Node, sc Scope) (symbolic.Expr, error) {
	return resolve(node, sc)
}

func resolve(node ast.Node, sc Scope) (symbolic.Expr, error) {
	switch n := node.(type) {
	case *ast.BoolLit:
		return symbolic.Bool(n.Value), nil

	case *ast.IntLit:
		e, err := symbolic.NumFromString(n.Text)
		if err != nil {
			return nil, &fbcerrors.ParseError{At: n.From, Msg: fmt.Sprintf("invalid integer literal %q: %v", n.Text, err)}
		}
		return e, nil

	case *ast.FloatLit:
		e, err := symbolic.NumFromString(n.Text)
		if err != nil {
			return nil, &fbcerrors.ParseError{At: n.From, Msg: fmt.Sprintf("invalid float literal %q: %v", n.Text, err)}
		}
		return e, nil

	case *ast.StringLit:
		return symbolic.Str(n.Value), nil

	case *ast.Lookup:
		return resolveLookup(n, sc)

	case *ast.Call:
		return resolveCall(n, sc)

	case *ast.Not:
		x, err := resolve(n.X, sc)
		if err != nil {
			return nil, err
		}
		if x.Type() != symbolic.TBool {
			return nil, typeErr(n.From, "!", x.Type(), symbolic.TBool)
		}
		return symbolic.Not(x), nil

	case *ast.Logic:
		x, err := resolve(n.X, sc)
		if err != nil {
			return nil, err
		}
		y, err := resolve(n.Y, sc)
		if err != nil {
			return nil, err
		}
		if x.Type() != symbolic.TBool {
			return nil, typeErr(n.From, logicName(n.Op), x.Type(), symbolic.TBool)
		}
		if y.Type() != symbolic.TBool {
			return nil, typeErr(n.From, logicName(n.Op), y.Type(), symbolic.TBool)
		}
		if n.Op == ast.LAnd {
			return symbolic.And(x, y), nil
		}
		return symbolic.Or(x, y), nil

	case *ast.Rel:
		x, err := resolve(n.X, sc)
		if err != nil {
			return nil, err
		}
		y, err := resolve(n.Y, sc)
		if err != nil {
			return nil, err
		}
		if x.Type() != y.Type() {
			return nil, &fbcerrors.TypeError{At: n.From, Expr: n.Op.String(), Got: x.Type().String(), Expected: y.Type().String()}
		}
		return symbolic.Rel(relOpOf(n.Op), x, y), nil

	case *ast.Arith:
		x, err := resolve(n.X, sc)
		if err != nil {
			return nil, err
		}
		if x.Type() != symbolic.TNumber {
			return nil, typeErr(n.From, arithName(n.Op), x.Type(), symbolic.TNumber)
		}
		if n.Op == ast.ArithNeg {
			if folded, ok := symbolic.FoldArith(symbolic.Neg, x, nil); ok {
				return folded, nil
			}
			return &symbolic.ArithExpr{Op: symbolic.Neg, X: x}, nil
		}
		y, err := resolve(n.Y, sc)
		if err != nil {
			return nil, err
		}
		if y.Type() != symbolic.TNumber {
			return nil, typeErr(n.From, arithName(n.Op), y.Type(), symbolic.TNumber)
		}
		// Constant folding: both operands primitive numeric evaluate eagerly.
		if folded, ok := symbolic.FoldArith(arithOpOf(n.Op), x, y); ok {
			return folded, nil
		}
		return &symbolic.ArithExpr{Op: arithOpOf(n.Op), X: x, Y: y}, nil
	}
	return nil, fmt.Errorf("scope: unhandled ast node %T", node)
}

func resolveLookup(n *ast.Lookup, sc Scope) (symbolic.Expr, error) {
	e, ok := resolveSegments(sc, n.Segments)
	if !ok {
		return nil, &fbcerrors.UnknownIdentifierError{At: n.From, Name: strings.Join(n.Segments, ".")}
	}
	if e.macro != nil {
		return nil, &fbcerrors.MacroTypeError{At: n.From, Macro: e.macro.Name, Msg: "macro referenced without being called"}
	}
	if e.vr == nil {
		return nil, &fbcerrors.UnknownIdentifierError{At: n.From, Name: strings.Join(n.Segments, ".")}
	}
	return symbolic.NewSym(e.vr.Name, varType(e.vr.Type)), nil
}

func resolveCall(n *ast.Call, sc Scope) (symbolic.Expr, error) {
	lookup, ok := n.Fun.(*ast.Lookup)
	if !ok {
		return nil, &fbcerrors.ParseError{At: n.From, Msg: "call target must be an identifier"}
	}
	e, ok := resolveSegments(sc, lookup.Segments)
	if !ok {
		return nil, &fbcerrors.UnknownIdentifierError{At: lookup.From, Name: strings.Join(lookup.Segments, ".")}
	}
	if e.macro == nil {
		return nil, &fbcerrors.MacroTypeError{At: n.From, Macro: strings.Join(lookup.Segments, "."), Msg: "not callable"}
	}
	return expandMacro(n, e.macro, sc)
}

func expandMacro(call *ast.Call, m *Macro, sc Scope) (symbolic.Expr, error) {
	if len(call.Args) != m.NumArgs {
		return nil, &fbcerrors.MacroTypeError{At: call.From, Macro: m.Name,
			Msg: fmt.Sprintf("expected %d argument(s), got %d", m.NumArgs, len(call.Args))}
	}

	switch m.Name {
	case "baseUrl":
		return symbolic.NewSym("ZOFAR_BASE_URL", symbolic.TString), nil
	case "isMobile":
		return symbolic.NewSym("ZOFAR_IS_MOBILE", symbolic.TBool), nil
	case "asNumber", "isMissing":
		argLookup, ok := call.Args[0].(*ast.Lookup)
		if !ok || len(argLookup.Segments) != 1 {
			return nil, &fbcerrors.MacroTypeError{At: call.From, Macro: m.Name, Msg: "argument must be a variable"}
		}
		e, ok := resolveSegments(sc, argLookup.Segments)
		if !ok || e.vr == nil {
			return nil, &fbcerrors.MacroTypeError{At: call.From, Macro: m.Name, Msg: "argument must be a declared variable"}
		}
		if m.Name == "isMissing" {
			return symbolic.NewSym(e.vr.Name+"_IS_MISSING", symbolic.TBool), nil
		}
		if e.vr.Type == model.TNumber {
			return symbolic.NewSym(e.vr.Name, symbolic.TNumber), nil
		}
		return symbolic.NewSym(e.vr.Name+"_NUM", symbolic.TNumber), nil
	}
	return nil, &fbcerrors.MacroTypeError{At: call.From, Macro: m.Name, Msg: "unknown macro"}
}

func typeErr(pos token.Pos, expr string, got, expected symbolic.Type) error {
	return &fbcerrors.TypeError{At: pos, Expr: expr, Got: got.String(), Expected: expected.String()}
}

func logicName(op ast.LogicOp) string {
	if op == ast.LAnd {
		return "and"
	}
	return "or"
}

func arithName(op ast.ArithOp) string {
	switch op {
	case ast.ArithAdd:
		return "+"
	case ast.ArithSub:
		return "-"
	case ast.ArithMul:
		return "*"
	case ast.ArithDiv:
		return "/"
	case ast.ArithNeg:
		return "neg"
	}
	return "?"
}

func relOpOf(op ast.RelOp) symbolic.RelOp {
	switch op {
	case ast.RelGt:
		return symbolic.Gt
	case ast.RelGe:
		return symbolic.Ge
	case ast.RelLt:
		return symbolic.Lt
	case ast.RelLe:
		return symbolic.Le
	case ast.RelEq:
		return symbolic.Eq
	case ast.RelNe:
		return symbolic.Ne
	}
	return symbolic.Eq
}

func arithOpOf(op ast.ArithOp) symbolic.ArithOp {
	switch op {
	case ast.ArithAdd:
		return symbolic.Add
	case ast.ArithSub:
		return symbolic.Sub
	case ast.ArithMul:
		return symbolic.Mul
	case ast.ArithDiv:
		return symbolic.Div
	}
	return symbolic.Add
}
