package enum

import "github.com/christian-fr/filter-branching-check-fork/internal/symbolic"

// BruteForce enumerates the cartesian product of domains' substitution
// dictionaries and returns, for each combination (cell), the expression
// obtained by applying the combined substitution to exp and simplifying.
// The cells are produced in odometer order with domains[0] as the
// slowest-changing digit, giving a deterministic cell ordering that
// callers (notably the disjointness check) rely on to compare truth tables
// index-by-index.
func BruteForce(exp symbolic.Expr, domains []*Domain, cache *symbolic.Cache) []symbolic.Expr {
	if len(domains) == 0 {
		return []symbolic.Expr{cache.Simplify(exp)}
	}

	combos := cartesian(domains)
	out := make([]symbolic.Expr, len(combos))
	for i, combo := range combos {
		merged := symbolic.Merge(combo...)
		out[i] = cache.Simplify(symbolic.Subs(exp, merged))
	}
	return out
}

// cartesian returns, for each cell of the cartesian product of domains'
// members, the list of per-domain substitution maps selected for that cell.
func cartesian(domains []*Domain) [][]*symbolic.SubstMap {
	dicts := make([][]*symbolic.SubstMap, len(domains))
	for i, d := range domains {
		dicts[i] = d.SubsDicts()
	}

	total := 1
	for _, d := range dicts {
		total *= len(d)
	}
	combos := make([][]*symbolic.SubstMap, total)
	for i := range combos {
		combo := make([]*symbolic.SubstMap, len(dicts))
		rem := i
		for j := len(dicts) - 1; j >= 0; j-- {
			n := len(dicts[j])
			combo[j] = dicts[j][rem%n]
			rem /= n
		}
		combos[i] = combo
	}
	return combos
}

// AllTrue reports whether every cell of cells is the literal true.
func AllTrue(cells []symbolic.Expr) bool {
	for _, c := range cells {
		if !symbolic.IsTrue(c) {
			return false
		}
	}
	return true
}

// AllFalse reports whether every cell of cells is the literal false.
func AllFalse(cells []symbolic.Expr) bool {
	for _, c := range cells {
		if !symbolic.IsFalse(c) {
			return false
		}
	}
	return true
}

// SimplifyEnums removes from exp every domain E such that, with all other
// domains erased via their null substitution, exp reduces to true for every
// member of E: such a domain's value is irrelevant to exp.
func SimplifyEnums(exp symbolic.Expr, domains []*Domain, cache *symbolic.Cache) symbolic.Expr {
	for i, d := range domains {
		others := make([]*Domain, 0, len(domains)-1)
		others = append(others, domains[:i]...)
		others = append(others, domains[i+1:]...)

		nullOthers := make([]*symbolic.SubstMap, len(others))
		for j, o := range others {
			nullOthers[j] = o.NullSubs()
		}
		nullMerged := symbolic.Merge(nullOthers...)

		allTrue := true
		for _, m := range d.Members {
			combined := symbolic.Merge(nullMerged, d.SubsDictFor(m))
			res := cache.Simplify(symbolic.Subs(exp, combined))
			if !symbolic.IsTrue(res) {
				allTrue = false
				break
			}
		}
		if allTrue {
			exp = cache.Simplify(symbolic.Subs(exp, d.NullSubs()))
		}
	}
	return exp
}
