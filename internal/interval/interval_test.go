package interval

import (
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/go-quicktest/qt"

	"github.com/christian-fr/filter-branching-check-fork/internal/enum"
	"github.com/christian-fr/filter-branching-check-fork/internal/symbolic"
)

func dec(t *testing.T, s string) *apd.Decimal {
	t.Helper()
	d, _, err := apd.NewFromString(s)
	qt.Assert(t, qt.IsNil(err))
	return d
}

func TestSetOperations(t *testing.T) {
	lt500 := LessThan(dec(t, "500"))
	ge500 := AtLeast(dec(t, "500"))

	qt.Assert(t, qt.IsTrue(Intersection(lt500, ge500).IsEmpty()))
	qt.Assert(t, qt.IsTrue(Equal(Subtract(lt500, ge500), lt500)))

	le800 := AtMost(dec(t, "800"))
	band := Intersection(ge500, le800) // [500, 800]
	qt.Assert(t, qt.IsFalse(band.IsEmpty()))
	qt.Assert(t, qt.IsTrue(Subset(band, ge500)))
	qt.Assert(t, qt.IsTrue(Subset(band, le800)))
	qt.Assert(t, qt.IsFalse(Subset(ge500, band)))

	point := Point(dec(t, "500"))
	qt.Assert(t, qt.IsTrue(Subset(point, ge500)))
	qt.Assert(t, qt.IsFalse(Subset(point, lt500)))

	ne500 := NotEqual(dec(t, "500"))
	qt.Assert(t, qt.IsTrue(Intersection(ne500, point).IsEmpty()))
}

func TestSetUnionNormalizes(t *testing.T) {
	// (-inf, 500) union [500, +inf) is the whole line, one piece.
	u := Union(LessThan(dec(t, "500")), AtLeast(dec(t, "500")))
	qt.Assert(t, qt.Equals(len(u.Pieces), 1))
	qt.Assert(t, qt.IsNil(u.Pieces[0].Lo))
	qt.Assert(t, qt.IsNil(u.Pieces[0].Hi))

	// (-inf, 500) union (500, +inf) stays two pieces: 500 is excluded.
	u = Union(LessThan(dec(t, "500")), GreaterThan(dec(t, "500")))
	qt.Assert(t, qt.Equals(len(u.Pieces), 2))
}

func unionAll(sets []Set) Set {
	var u Set
	for _, s := range sets {
		u = Union(u, s)
	}
	return u
}

// TestRefineDisjointCover verifies P6: the refined list unions to the same
// set of reals as the input list, and all pairwise intersections are empty.
func TestRefineDisjointCover(t *testing.T) {
	cases := [][]Set{
		// The guard sets of the v1-interval scenario:
		// v1 lt 500, v1 ge 500, v1 le 800, v1 gt 800.
		{
			LessThan(dec(t, "500")),
			AtLeast(dec(t, "500")),
			AtMost(dec(t, "800")),
			GreaterThan(dec(t, "800")),
		},
		// Overlapping half-lines.
		{LessThan(dec(t, "3")), GreaterThan(dec(t, "2"))},
		// Point inside a half-line.
		{Point(dec(t, "5")), AtLeast(dec(t, "0"))},
		// Complement of a point against the full line.
		{NotEqual(dec(t, "7")), LessThan(dec(t, "10"))},
		// Already disjoint: refinement must not change the union.
		{LessThan(dec(t, "0")), GreaterThan(dec(t, "0"))},
	}
	for i, sets := range cases {
		refined := Refine(Dedup(sets))
		qt.Assert(t, qt.IsTrue(Equal(unionAll(refined), unionAll(sets))), qt.Commentf("case %d", i))
		for a := 0; a < len(refined); a++ {
			qt.Assert(t, qt.IsFalse(refined[a].IsEmpty()), qt.Commentf("case %d", i))
			for b := a + 1; b < len(refined); b++ {
				qt.Assert(t, qt.IsTrue(Intersection(refined[a], refined[b]).IsEmpty()),
					qt.Commentf("case %d: pieces %d and %d overlap", i, a, b))
			}
		}
	}
}

func TestRefineCollapsesDuplicates(t *testing.T) {
	lt3 := LessThan(dec(t, "3"))
	refined := Refine(Dedup([]Set{lt3, LessThan(dec(t, "3"))}))
	qt.Assert(t, qt.Equals(len(refined), 1))
	qt.Assert(t, qt.IsTrue(Equal(refined[0], lt3)))
}

func TestBuildDomainOrdersPiecesByLowerBound(t *testing.T) {
	refined := Refine(Dedup([]Set{
		LessThan(dec(t, "500")),
		AtLeast(dec(t, "500")),
		AtMost(dec(t, "800")),
		GreaterThan(dec(t, "800")),
	}))
	pieces, d, err := BuildDomain("v1", refined)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(len(pieces), 3))
	qt.Assert(t, qt.DeepEquals(d.Members, []string{"1", "2", "3"}))

	// Piece 1 is (-inf, 500), piece 2 is [500, 800], piece 3 is (800, +inf).
	qt.Assert(t, qt.IsTrue(Equal(pieces[0].Set, LessThan(dec(t, "500")))))
	qt.Assert(t, qt.IsTrue(Equal(pieces[1].Set, Intersection(AtLeast(dec(t, "500")), AtMost(dec(t, "800"))))))
	qt.Assert(t, qt.IsTrue(Equal(pieces[2].Set, GreaterThan(dec(t, "800")))))
}

func TestLiftInequalityToPieceDisjunction(t *testing.T) {
	refined := Refine(Dedup([]Set{
		LessThan(dec(t, "500")),
		AtLeast(dec(t, "500")),
		AtMost(dec(t, "800")),
		GreaterThan(dec(t, "800")),
	}))
	pieces, d, err := BuildDomain("v1", refined)
	qt.Assert(t, qt.IsNil(err))

	cache := symbolic.NewCache()

	// v1 le 800 covers pieces 1 and 2; v1 gt 800 covers piece 3 only.
	le800, err := Lift(AtMost(dec(t, "800")), pieces, d)
	qt.Assert(t, qt.IsNil(err))
	gt800, err := Lift(GreaterThan(dec(t, "800")), pieces, d)
	qt.Assert(t, qt.IsNil(err))

	cells := enum.BruteForce(cache.Simplify(symbolic.Or(le800, gt800)), []*enum.Domain{d}, cache)
	qt.Assert(t, qt.IsTrue(enum.AllTrue(cells)))

	// The two lifted guards are disjoint: no cell satisfies both.
	both := enum.BruteForce(cache.Simplify(symbolic.And(le800, gt800)), []*enum.Domain{d}, cache)
	qt.Assert(t, qt.IsTrue(enum.AllFalse(both)))
}

func TestLiftWithNoMatchingPieceFails(t *testing.T) {
	pieces, d, err := BuildDomain("v1", []Set{AtLeast(dec(t, "0"))})
	qt.Assert(t, qt.IsNil(err))
	// (-inf, -10) is not covered by any piece.
	_, err = Lift(LessThan(dec(t, "-10")), pieces, d)
	qt.Assert(t, qt.IsNotNil(err))
}
