package symbolic

// SubstMap is a substitution dictionary keyed by the canonical structural
// key of the expression being replaced: entries may map whole
// sub-expressions such as `Eq(var, lit_m)`, not merely bare symbols, to a
// replacement value.
type SubstMap struct {
	entries map[string]Expr
}

// NewSubstMap returns an empty substitution map.
func NewSubstMap() *SubstMap {
	return &SubstMap{entries: map[string]Expr{}}
}

// Set records that any sub-expression structurally equal to pattern should
// be replaced by value.
func (m *SubstMap) Set(pattern, value Expr) {
	m.entries[pattern.key()] = value
}

// Lookup returns the replacement for an expression with the given canonical
// key, if one is recorded.
func (m *SubstMap) lookup(key string) (Expr, bool) {
	v, ok := m.entries[key]
	return v, ok
}

// Merge returns a new SubstMap containing the entries of maps in order;
// later maps take precedence on key collision.
func Merge(maps ...*SubstMap) *SubstMap {
	out := NewSubstMap()
	for _, m := range maps {
		if m == nil {
			continue
		}
		for k, v := range m.entries {
			out.entries[k] = v
		}
	}
	return out
}

// Subs replaces every sub-expression of e matching an entry of m with its
// recorded image, preserving typing. Substitution is
// applied top-down: if e itself matches an entry, the replacement is
// returned without descending into e's children.
func Subs(e Expr, m *SubstMap) Expr {
	if v, ok := m.lookup(e.key()); ok {
		return v
	}
	switch x := e.(type) {
	case *Sym, *BoolLit, *NumLit, *StrLit:
		return e
	case *NotExpr:
		return Not(Subs(x.X, m))
	case *AndExpr:
		args := make([]Expr, len(x.Args))
		for i, a := range x.Args {
			args[i] = Subs(a, m)
		}
		return And(args...)
	case *OrExpr:
		args := make([]Expr, len(x.Args))
		for i, a := range x.Args {
			args[i] = Subs(a, m)
		}
		return Or(args...)
	case *RelExpr:
		return Rel(x.Op, Subs(x.X, m), Subs(x.Y, m))
	case *ArithExpr:
		if x.Op == Neg {
			return &ArithExpr{Op: Neg, X: Subs(x.X, m)}
		}
		return &ArithExpr{Op: x.Op, X: Subs(x.X, m), Y: Subs(x.Y, m)}
	}
	return e
}
