package interval

import (
	"github.com/christian-fr/filter-branching-check-fork/internal/enum"
	"github.com/christian-fr/filter-branching-check-fork/internal/symbolic"
)

// Collect walks a resolved (pre-lowering) expression and records, for every
// relop against a numeric symbol that is not a declared enum, the set of
// reals it asserts. enumDomains is consulted so that relops already
// destined for ordinary enum lowering are skipped here.
func Collect(exp symbolic.Expr, enumDomains map[string]*enum.Domain, acc map[string][]Set) {
	switch e := exp.(type) {
	case *symbolic.NotExpr:
		Collect(e.X, enumDomains, acc)
	case *symbolic.AndExpr:
		for _, a := range e.Args {
			Collect(a, enumDomains, acc)
		}
	case *symbolic.OrExpr:
		for _, a := range e.Args {
			Collect(a, enumDomains, acc)
		}
	case *symbolic.ArithExpr:
		Collect(e.X, enumDomains, acc)
		if e.Y != nil {
			Collect(e.Y, enumDomains, acc)
		}
	case *symbolic.RelExpr:
		collectRel(e, enumDomains, acc)
	}
}

func collectRel(e *symbolic.RelExpr, enumDomains map[string]*enum.Domain, acc map[string][]Set) {
	var name string
	symOnRight := false

	if xSym, ok := e.X.(*symbolic.Sym); ok && xSym.Typ == symbolic.TNumber {
		if _, isEnum := enumDomains[xSym.Name]; !isEnum {
			name = xSym.Name
		}
	}
	if name == "" {
		if ySym, ok := e.Y.(*symbolic.Sym); ok && ySym.Typ == symbolic.TNumber {
			if _, isEnum := enumDomains[ySym.Name]; !isEnum {
				name = ySym.Name
				symOnRight = true
			}
		}
	}
	if name == "" {
		return
	}

	litExpr := e.Y
	if symOnRight {
		litExpr = e.X
	}
	lit, ok := litExpr.(*symbolic.NumLit)
	if !ok {
		return
	}

	op := e.Op
	if symOnRight {
		op = flip(op)
	}
	acc[name] = append(acc[name], setForOp(op, lit.Value))
}
