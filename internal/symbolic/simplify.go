package symbolic

import (
	"github.com/cockroachdb/apd/v3"
)

// Cache is the explicit memoization object for Simplify, owned by the
// orchestrator and threaded through the graph engine and enum model; there
// is no process-wide state. It is not safe for concurrent use.
type Cache struct {
	memo map[string]Expr
}

// NewCache returns an empty simplification cache.
func NewCache() *Cache {
	return &Cache{memo: map[string]Expr{}}
}

// Simplify returns a deterministic normal form of e: constants collapse
// (And/Or identities, double negation, Not of a constant), associative
// operators flatten, and literal atoms are absorbed/deduplicated. It does
// not attempt full Boolean minimization; tautology and contradiction
// detection beyond this normalizer is the job of brute-force enumeration
// (package enum).
func (c *Cache) Simplify(e Expr) Expr {
	key := e.key()
	if v, ok := c.memo[key]; ok {
		return v
	}
	out := simplify(e, c)
	c.memo[key] = out
	// Also memoize under the result's own key so that re-simplifying an
	// already-simplified expression is a cache hit.
	c.memo[out.key()] = out
	return out
}

func simplify(e Expr, c *Cache) Expr {
	switch x := e.(type) {
	case *Sym, *BoolLit, *NumLit, *StrLit:
		return e

	case *NotExpr:
		inner := c.Simplify(x.X)
		if b, ok := inner.(*BoolLit); ok {
			return Bool(!b.Value)
		}
		if not, ok := inner.(*NotExpr); ok {
			return not.X
		}
		return &NotExpr{X: inner}

	case *AndExpr:
		return simplifyAnd(x.Args, c)

	case *OrExpr:
		return simplifyOr(x.Args, c)

	case *RelExpr:
		lx, ly := c.Simplify(x.X), c.Simplify(x.Y)
		if v, ok := evalRel(x.Op, lx, ly); ok {
			return v
		}
		return &RelExpr{Op: x.Op, X: lx, Y: ly}

	case *ArithExpr:
		lx := c.Simplify(x.X)
		if x.Op == Neg {
			if n, ok := lx.(*NumLit); ok {
				d := new(apd.Decimal)
				apdCtx.Neg(d, n.Value)
				return Num(d)
			}
			return &ArithExpr{Op: Neg, X: lx}
		}
		ly := c.Simplify(x.Y)
		if ln, ok1 := lx.(*NumLit); ok1 {
			if rn, ok2 := ly.(*NumLit); ok2 {
				if v, ok := foldArith(x.Op, ln.Value, rn.Value); ok {
					return Num(v)
				}
			}
		}
		return &ArithExpr{Op: x.Op, X: lx, Y: ly}
	}
	return e
}

func simplifyAnd(args []Expr, c *Cache) Expr {
	simplified := make([]Expr, 0, len(args))
	for _, a := range args {
		simplified = append(simplified, c.Simplify(a))
	}
	flat := flattenAnd(simplified)

	seen := map[string]bool{}
	var out []Expr
	for _, a := range flat {
		if IsFalse(a) {
			return False
		}
		if IsTrue(a) {
			continue
		}
		k := a.key()
		if seen[k] {
			continue // idempotence: A and A == A
		}
		seen[k] = true
		out = append(out, a)
	}
	for _, a := range out {
		if neg, ok := a.(*NotExpr); ok && seen[neg.X.key()] {
			return False // A and !A == false
		}
	}
	if len(out) == 0 {
		return True
	}
	if len(out) == 1 {
		return out[0]
	}
	return &AndExpr{Args: sortByKey(out)}
}

func simplifyOr(args []Expr, c *Cache) Expr {
	simplified := make([]Expr, 0, len(args))
	for _, a := range args {
		simplified = append(simplified, c.Simplify(a))
	}
	flat := flattenOr(simplified)

	seen := map[string]bool{}
	var out []Expr
	for _, a := range flat {
		if IsTrue(a) {
			return True
		}
		if IsFalse(a) {
			continue
		}
		k := a.key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, a)
	}
	for _, a := range out {
		if neg, ok := a.(*NotExpr); ok && seen[neg.X.key()] {
			return True // A or !A == true
		}
	}
	if len(out) == 0 {
		return False
	}
	if len(out) == 1 {
		return out[0]
	}
	return &OrExpr{Args: sortByKey(out)}
}

var apdCtx = apd.BaseContext.WithPrecision(50)

// FoldArith eagerly evaluates an arithmetic operator whose operands are both
// numeric literals, returning (result, true); otherwise (nil, false) so the
// caller keeps the symbolic form. For Neg, y must be nil. Used by the scope
// resolver's constant folding as well as the simplifier above.
func FoldArith(op ArithOp, x, y Expr) (Expr, bool) {
	xn, ok := x.(*NumLit)
	if !ok {
		return nil, false
	}
	if op == Neg {
		d := new(apd.Decimal)
		apdCtx.Neg(d, xn.Value)
		return Num(d), true
	}
	yn, ok := y.(*NumLit)
	if !ok {
		return nil, false
	}
	d, ok := foldArith(op, xn.Value, yn.Value)
	if !ok {
		return nil, false
	}
	return Num(d), true
}

func foldArith(op ArithOp, x, y *apd.Decimal) (*apd.Decimal, bool) {
	d := new(apd.Decimal)
	var err error
	switch op {
	case Add:
		_, err = apdCtx.Add(d, x, y)
	case Sub:
		_, err = apdCtx.Sub(d, x, y)
	case Mul:
		_, err = apdCtx.Mul(d, x, y)
	case Div:
		_, err = apdCtx.Quo(d, x, y)
		if err == nil {
			// Quo pads the coefficient to the context precision; drop the
			// trailing zeros so 7/2 folds to 3.5.
			d.Reduce(d)
		}
	default:
		return nil, false
	}
	return d, err == nil
}

// evalRel evaluates a relational operator when both operands are primitive
// literals of the same type, returning (result, true); otherwise (nil,
// false) so the caller keeps the symbolic RelExpr.
func evalRel(op RelOp, x, y Expr) (Expr, bool) {
	switch lx := x.(type) {
	case *NumLit:
		ly, ok := y.(*NumLit)
		if !ok {
			return nil, false
		}
		c := lx.Value.Cmp(ly.Value)
		return relFromCmp(op, c), true
	case *StrLit:
		ly, ok := y.(*StrLit)
		if !ok {
			return nil, false
		}
		var c int
		switch {
		case lx.Value < ly.Value:
			c = -1
		case lx.Value > ly.Value:
			c = 1
		}
		return relFromCmp(op, c), true
	case *BoolLit:
		ly, ok := y.(*BoolLit)
		if !ok {
			return nil, false
		}
		if op != Eq && op != Ne {
			return nil, false
		}
		eq := lx.Value == ly.Value
		if op == Eq {
			return Bool(eq), true
		}
		return Bool(!eq), true
	}
	return nil, false
}

func relFromCmp(op RelOp, c int) Expr {
	switch op {
	case Eq:
		return Bool(c == 0)
	case Ne:
		return Bool(c != 0)
	case Lt:
		return Bool(c < 0)
	case Le:
		return Bool(c <= 0)
	case Gt:
		return Bool(c > 0)
	case Ge:
		return Bool(c >= 0)
	}
	return False
}
