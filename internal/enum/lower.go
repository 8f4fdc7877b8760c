package enum

import (
	fbcerrors "github.com/christian-fr/filter-branching-check-fork/internal/errors"
	"github.com/christian-fr/filter-branching-check-fork/internal/symbolic"
	"github.com/christian-fr/filter-branching-check-fork/internal/token"
)

// Lower walks a resolved, typed expression and rewrites every relop whose
// operand names a declared enum domain into that domain's member literals:
// == becomes one Eq, != becomes Not(Eq), and an inequality becomes a
// disjunction over the satisfying members. domains is keyed by the
// symbol name the relop operand resolves to (a bare enum variable's string
// domain, or its "{var}_NUM" number domain reached through zofar.asNumber).
func Lower(exp symbolic.Expr, domains map[string]*Domain, at token.Pos) (symbolic.Expr, error) {
	switch e := exp.(type) {
	case *symbolic.Sym, *symbolic.BoolLit, *symbolic.NumLit, *symbolic.StrLit:
		return exp, nil

	case *symbolic.NotExpr:
		x, err := Lower(e.X, domains, at)
		if err != nil {
			return nil, err
		}
		return symbolic.Not(x), nil

	case *symbolic.AndExpr:
		args := make([]symbolic.Expr, len(e.Args))
		for i, a := range e.Args {
			x, err := Lower(a, domains, at)
			if err != nil {
				return nil, err
			}
			args[i] = x
		}
		return symbolic.And(args...), nil

	case *symbolic.OrExpr:
		args := make([]symbolic.Expr, len(e.Args))
		for i, a := range e.Args {
			x, err := Lower(a, domains, at)
			if err != nil {
				return nil, err
			}
			args[i] = x
		}
		return symbolic.Or(args...), nil

	case *symbolic.RelExpr:
		return lowerRel(e, domains, at)

	case *symbolic.ArithExpr:
		x, err := Lower(e.X, domains, at)
		if err != nil {
			return nil, err
		}
		if e.Op == symbolic.Neg {
			return &symbolic.ArithExpr{Op: symbolic.Neg, X: x}, nil
		}
		y, err := Lower(e.Y, domains, at)
		if err != nil {
			return nil, err
		}
		return &symbolic.ArithExpr{Op: e.Op, X: x, Y: y}, nil
	}
	return exp, nil
}

func lowerRel(e *symbolic.RelExpr, domains map[string]*Domain, at token.Pos) (symbolic.Expr, error) {
	var d *Domain
	symOnRight := false

	if xSym, ok := e.X.(*symbolic.Sym); ok {
		if dd, ok := domains[xSym.Name]; ok {
			d = dd
		}
	}
	if d == nil {
		if ySym, ok := e.Y.(*symbolic.Sym); ok {
			if dd, ok := domains[ySym.Name]; ok {
				d = dd
				symOnRight = true
			}
		}
	}
	if d == nil {
		return e, nil
	}

	litExpr := e.Y
	if symOnRight {
		litExpr = e.X
	}
	m, ok := memberText(litExpr)
	if !ok {
		return nil, &fbcerrors.EnumDomainError{At: at, Variable: d.VarName, Msg: "relop operand against an enum must be a constant literal"}
	}

	op := e.Op
	if symOnRight {
		op = flip(op)
	}

	var (
		res symbolic.Expr
		err error
	)
	switch op {
	case symbolic.Eq:
		res, err = d.Eq(m)
	case symbolic.Ne:
		res, err = d.Ne(m)
	case symbolic.Gt:
		res, err = d.Gt(m)
	case symbolic.Ge:
		res, err = d.Ge(m)
	case symbolic.Lt:
		res, err = d.Lt(m)
	case symbolic.Le:
		res, err = d.Le(m)
	}
	if err != nil {
		return nil, &fbcerrors.EnumDomainError{At: at, Variable: d.VarName, Msg: err.Error()}
	}
	return res, nil
}

func memberText(e symbolic.Expr) (string, bool) {
	switch v := e.(type) {
	case *symbolic.StrLit:
		return v.Value, true
	case *symbolic.NumLit:
		return v.Value.Text('f'), true
	}
	return "", false
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
