// Package enum implements the finite-domain model: substitution
// dictionaries that assert "the enum variable equals member m", a
// null-substitution that erases an enum from an expression, and brute-force
// truth-table enumeration over the cartesian product of several domains.
//
// Each declared enum variable is presented as two domains, a string-typed
// one keyed by answer-option uid and a number-typed one keyed by value;
// only number-typed domains admit the ordering operators.
package enum

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/christian-fr/filter-branching-check-fork/internal/symbolic"
)

// Domain is a finite set of named members for one variable, presented as a
// typed symbolic domain: its literal symbols, substitution dictionaries, and
// null-substitution.
type Domain struct {
	VarName string
	Typ     symbolic.Type // symbolic.TString or symbolic.TNumber
	Members []string      // declared order

	memberIndex map[string]int
	literals    map[string]*symbolic.Sym
	numeric     map[string]float64 // parsed numeric value per member, only for Typ == TNumber
}

// NewDomain constructs a Domain. members must be non-empty and unique; for
// Typ == TNumber each member must parse as a decimal number (used to order
// gt/ge/lt/le lowering).
func NewDomain(varName string, typ symbolic.Type, members []string) (*Domain, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("enum %q has no members", varName)
	}
	d := &Domain{
		VarName:     varName,
		Typ:         typ,
		Members:     append([]string(nil), members...),
		memberIndex: make(map[string]int, len(members)),
		literals:    make(map[string]*symbolic.Sym, len(members)),
	}
	if typ == symbolic.TNumber {
		d.numeric = make(map[string]float64, len(members))
	}
	for i, m := range members {
		if _, dup := d.memberIndex[m]; dup {
			return nil, fmt.Errorf("enum %q declares member %q more than once", varName, m)
		}
		d.memberIndex[m] = i
		d.literals[m] = symbolic.NewSym(fmt.Sprintf("LIT_%s_%s", varName, m), typ)
		if typ == symbolic.TNumber {
			f, err := strconv.ParseFloat(m, 64)
			if err != nil {
				return nil, fmt.Errorf("enum %q member %q is not numeric: %w", varName, m, err)
			}
			d.numeric[m] = f
		}
	}
	return d, nil
}

// Var returns the symbolic atom for the enum's own variable.
func (d *Domain) Var() symbolic.Expr { return symbolic.NewSym(d.VarName, d.Typ) }

// LiteralSymbol returns the fresh literal symbol standing for member m.
func (d *Domain) LiteralSymbol(m string) (*symbolic.Sym, bool) {
	s, ok := d.literals[m]
	return s, ok
}

// HasMember reports whether m is a declared member of d.
func (d *Domain) HasMember(m string) bool {
	_, ok := d.memberIndex[m]
	return ok
}

// Eq returns the predicate "variable == m".
func (d *Domain) Eq(m string) (symbolic.Expr, error) {
	lit, ok := d.literals[m]
	if !ok {
		return nil, fmt.Errorf("%q is not a member of enum %q", m, d.VarName)
	}
	return symbolic.Rel(symbolic.Eq, d.Var(), lit), nil
}

// Ne returns the predicate "variable != m", as the negation of Eq: the
// substitution dictionaries record only Eq facts, so a bare Ne relop would
// stay opaque under brute force, while Not(Eq) reduces in every cell.
func (d *Domain) Ne(m string) (symbolic.Expr, error) {
	eq, err := d.Eq(m)
	if err != nil {
		return nil, err
	}
	return symbolic.Not(eq), nil
}

// orderedMembers returns the declared members sorted by ascending numeric
// value, used by the gt/ge/lt/le lowering below to produce a deterministic,
// left-folded disjunction.
func (d *Domain) orderedMembers() []string {
	out := append([]string(nil), d.Members...)
	sort.Slice(out, func(i, j int) bool { return d.numeric[out[i]] < d.numeric[out[j]] })
	return out
}

// relDisjunction implements the shared logic behind Lt/Le/Gt/Ge: compute the
// set of members satisfying `value OP m`, then build a disjunction of
// equalities over that set.
func (d *Domain) relDisjunction(op symbolic.RelOp, m string) (symbolic.Expr, error) {
	if d.Typ != symbolic.TNumber {
		return nil, fmt.Errorf("inequality not valid on non-numeric enum %q", d.VarName)
	}
	target, ok := d.numeric[m]
	if !ok {
		return nil, fmt.Errorf("%q is not a member of enum %q", m, d.VarName)
	}
	var matches []string
	for _, mem := range d.orderedMembers() {
		v := d.numeric[mem]
		var ok bool
		switch op {
		case symbolic.Gt:
			ok = v > target
		case symbolic.Ge:
			ok = v >= target
		case symbolic.Lt:
			ok = v < target
		case symbolic.Le:
			ok = v <= target
		}
		if ok {
			matches = append(matches, mem)
		}
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("guard %s %s %s is unreachable: no member of %q satisfies it", d.VarName, op, m, d.VarName)
	}
	if len(matches) == 1 {
		return d.Eq(matches[0])
	}
	var acc symbolic.Expr
	for _, mem := range matches {
		eq, _ := d.Eq(mem)
		if acc == nil {
			acc = eq
		} else {
			acc = symbolic.Or(acc, eq)
		}
	}
	return acc, nil
}

func (d *Domain) Gt(m string) (symbolic.Expr, error) { return d.relDisjunction(symbolic.Gt, m) }
func (d *Domain) Ge(m string) (symbolic.Expr, error) { return d.relDisjunction(symbolic.Ge, m) }
func (d *Domain) Lt(m string) (symbolic.Expr, error) { return d.relDisjunction(symbolic.Lt, m) }
func (d *Domain) Le(m string) (symbolic.Expr, error) { return d.relDisjunction(symbolic.Le, m) }

// SubsDictFor returns the substitution map asserting "the enum variable
// equals m": {Eq(var, lit_m) -> true} union {Eq(var, lit_k) -> false, k != m}.
func (d *Domain) SubsDictFor(m string) *symbolic.SubstMap {
	sm := symbolic.NewSubstMap()
	for _, k := range d.Members {
		eq, _ := d.Eq(k)
		sm.Set(eq, symbolic.Bool(k == m))
	}
	return sm
}

// SubsDicts returns the list, one per member, of SubsDictFor(m).
func (d *Domain) SubsDicts() []*symbolic.SubstMap {
	out := make([]*symbolic.SubstMap, len(d.Members))
	for i, m := range d.Members {
		out[i] = d.SubsDictFor(m)
	}
	return out
}

// NullSubs maps the enum variable and every member-literal symbol to false,
// effectively erasing the enum from an expression.
func (d *Domain) NullSubs() *symbolic.SubstMap {
	sm := symbolic.NewSubstMap()
	sm.Set(d.Var(), symbolic.False)
	for _, m := range d.Members {
		lit, _ := d.LiteralSymbol(m)
		sm.Set(lit, symbolic.False)
	}
	return sm
}
