package enum

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/christian-fr/filter-branching-check-fork/internal/symbolic"
)

func TestDomainEqNeAndSubsDicts(t *testing.T) {
	d, err := NewDomain("p1", symbolic.TString, []string{"y", "n"})
	qt.Assert(t, qt.IsNil(err))

	eqY, err := d.Eq("y")
	qt.Assert(t, qt.IsNil(err))

	cache := symbolic.NewCache()
	for _, m := range d.Members {
		sub := d.SubsDictFor(m)
		got := cache.Simplify(symbolic.Subs(eqY, sub))
		want := symbolic.Bool(m == "y")
		qt.Assert(t, qt.Equals(symbolic.Key(got), symbolic.Key(want)))
	}
}

func TestNullSubsNeutralityWhenEnumUnmentioned(t *testing.T) {
	d, err := NewDomain("p2", symbolic.TString, []string{"y", "n"})
	qt.Assert(t, qt.IsNil(err))

	cache := symbolic.NewCache()
	other := symbolic.NewSym("unrelated", symbolic.TBool)
	got := cache.Simplify(symbolic.Subs(other, d.NullSubs()))
	qt.Assert(t, qt.Equals(symbolic.Key(got), symbolic.Key(other)))
}

func TestBruteForceTwoEnumsFourCells(t *testing.T) {
	p1, _ := NewDomain("p1", symbolic.TString, []string{"y", "n"})
	p2, _ := NewDomain("p2", symbolic.TString, []string{"y", "n"})
	cache := symbolic.NewCache()

	eqYY, _ := p1.Eq("y")
	eqYY2, _ := p2.Eq("y")
	exp := symbolic.And(eqYY, eqYY2)

	cells := BruteForce(exp, []*Domain{p1, p2}, cache)
	qt.Assert(t, qt.Equals(len(cells), 4))

	trueCount := 0
	for _, c := range cells {
		if symbolic.IsTrue(c) {
			trueCount++
		}
	}
	qt.Assert(t, qt.Equals(trueCount, 1))
}

// Fixing an enum to member m via its substitution dictionary yields the same
// truth table as restricting the full table to the cells where the enum
// equals m.
func TestSubstitutionRestrictsTruthTable(t *testing.T) {
	p1, _ := NewDomain("p1", symbolic.TString, []string{"y", "n"})
	p2, _ := NewDomain("p2", symbolic.TString, []string{"y", "n", "na"})
	cache := symbolic.NewCache()

	p1y, _ := p1.Eq("y")
	p2na, _ := p2.Eq("na")
	exp := symbolic.Or(p1y, p2na)

	full := BruteForce(exp, []*Domain{p1, p2}, cache)
	for i, m := range p1.Members {
		fixed := BruteForce(symbolic.Subs(exp, p1.SubsDictFor(m)), []*Domain{p2}, cache)
		restricted := full[i*len(p2.Members) : (i+1)*len(p2.Members)]
		qt.Assert(t, qt.Equals(len(fixed), len(restricted)))
		for c := range fixed {
			qt.Assert(t, qt.Equals(symbolic.Key(fixed[c]), symbolic.Key(restricted[c])),
				qt.Commentf("member %s cell %d", m, c))
		}
	}
}

func TestRelDisjunctionOnNumericEnum(t *testing.T) {
	members := []string{"1", "2", "3", "4", "5", "6", "7"}
	d, err := NewDomain("p1", symbolic.TNumber, members)
	qt.Assert(t, qt.IsNil(err))

	lt3, err := d.Lt("3")
	qt.Assert(t, qt.IsNil(err))
	gt2, err := d.Gt("2")
	qt.Assert(t, qt.IsNil(err))

	cache := symbolic.NewCache()
	disj := cache.Simplify(symbolic.Or(lt3, gt2))
	cells := BruteForce(disj, []*Domain{d}, cache)
	qt.Assert(t, qt.IsTrue(AllTrue(cells)))
}

func TestRelDisjunctionOnNonNumericEnumErrors(t *testing.T) {
	d, err := NewDomain("p1", symbolic.TString, []string{"y", "n"})
	qt.Assert(t, qt.IsNil(err))
	_, err = d.Gt("y")
	qt.Assert(t, qt.IsNotNil(err))
}

func TestSimplifyEnumsErasesIrrelevantDomain(t *testing.T) {
	p1, _ := NewDomain("p1", symbolic.TString, []string{"y", "n"})
	p2, _ := NewDomain("p2", symbolic.TString, []string{"y", "n"})
	cache := symbolic.NewCache()

	eqY, _ := p1.Eq("y")
	eqN, _ := p1.Eq("n")
	// True regardless of p2's value.
	exp := cache.Simplify(symbolic.Or(eqY, eqN))

	simplified := SimplifyEnums(exp, []*Domain{p1, p2}, cache)
	qt.Assert(t, qt.IsTrue(symbolic.IsTrue(simplified)))
}
