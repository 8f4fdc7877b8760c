package symbolic

// DNF converts e into disjunctive normal form (an Or of Ands of literals).
// The graph engine's disjointness check compares truth tables and does not
// call it. The input is first pushed into negation normal form (Not only ever applied to
// an atom), then And is distributed over Or.
func DNF(e Expr, c *Cache) Expr {
	nnf := toNNF(c.Simplify(e))
	dist := distribute(nnf)
	return c.Simplify(dist)
}

// toNNF pushes negation down to the leaves using De Morgan's laws.
func toNNF(e Expr) Expr {
	switch x := e.(type) {
	case *NotExpr:
		switch inner := x.X.(type) {
		case *NotExpr:
			return toNNF(inner.X)
		case *AndExpr:
			args := make([]Expr, len(inner.Args))
			for i, a := range inner.Args {
				args[i] = toNNF(Not(a))
			}
			return Or(args...)
		case *OrExpr:
			args := make([]Expr, len(inner.Args))
			for i, a := range inner.Args {
				args[i] = toNNF(Not(a))
			}
			return And(args...)
		default:
			return Not(inner)
		}
	case *AndExpr:
		args := make([]Expr, len(x.Args))
		for i, a := range x.Args {
			args[i] = toNNF(a)
		}
		return And(args...)
	case *OrExpr:
		args := make([]Expr, len(x.Args))
		for i, a := range x.Args {
			args[i] = toNNF(a)
		}
		return Or(args...)
	default:
		return e
	}
}

// distribute applies the distributive law to turn a negation-normal-form
// expression into an Or-of-Ands.
func distribute(e Expr) Expr {
	switch x := e.(type) {
	case *OrExpr:
		args := make([]Expr, len(x.Args))
		for i, a := range x.Args {
			args[i] = distribute(a)
		}
		return Or(args...)
	case *AndExpr:
		// Distribute pairwise: disjuncts(a0) x disjuncts(a1) x ...
		clauses := [][]Expr{{}}
		for _, a := range x.Args {
			d := distribute(a)
			orArgs := disjuncts(d)
			var next [][]Expr
			for _, clause := range clauses {
				for _, disj := range orArgs {
					merged := append(append([]Expr{}, clause...), conjuncts(disj)...)
					next = append(next, merged)
				}
			}
			clauses = next
		}
		var orTerms []Expr
		for _, clause := range clauses {
			orTerms = append(orTerms, And(clause...))
		}
		return Or(orTerms...)
	default:
		return e
	}
}

func disjuncts(e Expr) []Expr {
	if or, ok := e.(*OrExpr); ok {
		return or.Args
	}
	return []Expr{e}
}

func conjuncts(e Expr) []Expr {
	if and, ok := e.(*AndExpr); ok {
		return and.Args
	}
	return []Expr{e}
}
