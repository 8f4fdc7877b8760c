package interval

import (
	"github.com/cockroachdb/apd/v3"

	fbcerrors "github.com/christian-fr/filter-branching-check-fork/internal/errors"
	"github.com/christian-fr/filter-branching-check-fork/internal/enum"
	"github.com/christian-fr/filter-branching-check-fork/internal/symbolic"
	"github.com/christian-fr/filter-branching-check-fork/internal/token"
)

// Entry is one open numeric variable's refined piece list and the
// enum.Domain built over it by BuildDomain.
type Entry struct {
	Pieces []Piece
	Domain *enum.Domain
}

// Lower walks exp a second time (after package enum's Lower has already
// rewritten relops against declared enums) and rewrites relops against an
// open numeric variable into a disjunction over its interval-piece enum.
// It mirrors enum.Lower's tree-walk shape but cannot
// reuse its relDisjunction logic: interval piece ids are arbitrary labels,
// not values comparable by magnitude, so satisfaction is decided by set
// containment (Subset) rather than by comparing numeric member values.
func Lower(exp symbolic.Expr, vars map[string]Entry, at token.Pos) (symbolic.Expr, error) {
	switch e := exp.(type) {
	case *symbolic.Sym, *symbolic.BoolLit, *symbolic.NumLit, *symbolic.StrLit:
		return exp, nil

	case *symbolic.NotExpr:
		x, err := Lower(e.X, vars, at)
		if err != nil {
			return nil, err
		}
		return symbolic.Not(x), nil

	case *symbolic.AndExpr:
		args := make([]symbolic.Expr, len(e.Args))
		for i, a := range e.Args {
			x, err := Lower(a, vars, at)
			if err != nil {
				return nil, err
			}
			args[i] = x
		}
		return symbolic.And(args...), nil

	case *symbolic.OrExpr:
		args := make([]symbolic.Expr, len(e.Args))
		for i, a := range e.Args {
			x, err := Lower(a, vars, at)
			if err != nil {
				return nil, err
			}
			args[i] = x
		}
		return symbolic.Or(args...), nil

	case *symbolic.ArithExpr:
		x, err := Lower(e.X, vars, at)
		if err != nil {
			return nil, err
		}
		if e.Op == symbolic.Neg {
			return &symbolic.ArithExpr{Op: symbolic.Neg, X: x}, nil
		}
		y, err := Lower(e.Y, vars, at)
		if err != nil {
			return nil, err
		}
		return &symbolic.ArithExpr{Op: e.Op, X: x, Y: y}, nil

	case *symbolic.RelExpr:
		return lowerRel(e, vars, at)
	}
	return exp, nil
}

func lowerRel(e *symbolic.RelExpr, vars map[string]Entry, at token.Pos) (symbolic.Expr, error) {
	var entry Entry
	var found bool
	symOnRight := false

	if xSym, ok := e.X.(*symbolic.Sym); ok {
		if v, ok := vars[xSym.Name]; ok {
			entry, found = v, true
		}
	}
	if !found {
		if ySym, ok := e.Y.(*symbolic.Sym); ok {
			if v, ok := vars[ySym.Name]; ok {
				entry, found = v, true
				symOnRight = true
			}
		}
	}
	if !found {
		return e, nil
	}

	litExpr := e.Y
	if symOnRight {
		litExpr = e.X
	}
	lit, ok := litExpr.(*symbolic.NumLit)
	if !ok {
		return nil, &fbcerrors.EnumDomainError{At: at, Variable: entry.Domain.VarName, Msg: "inequality on an open numeric variable must compare against a numeric constant"}
	}

	op := e.Op
	if symOnRight {
		op = flip(op)
	}

	original := setForOp(op, lit.Value)
	lifted, err := Lift(original, entry.Pieces, entry.Domain)
	if err != nil {
		return nil, &fbcerrors.EnumDomainError{At: at, Variable: entry.Domain.VarName, Msg: err.Error()}
	}
	return lifted, nil
}

func setForOp(op symbolic.RelOp, c *apd.Decimal) Set {
	switch op {
	case symbolic.Eq:
		return Point(c)
	case symbolic.Ne:
		return NotEqual(c)
	case symbolic.Gt:
		return GreaterThan(c)
	case symbolic.Ge:
		return AtLeast(c)
	case symbolic.Lt:
		return LessThan(c)
	case symbolic.Le:
		return AtMost(c)
	}
	return Set{}
}

func flip(op symbolic.RelOp) symbolic.RelOp {
	switch op {
	case symbolic.Gt:
		return symbolic.Lt
	case symbolic.Ge:
		return symbolic.Le
	case symbolic.Lt:
		return symbolic.Gt
	case symbolic.Le:
		return symbolic.Ge
	}
	return op
}
