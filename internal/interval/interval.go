// Package interval implements the numeric interval model: lifting
// inequalities over a non-enum numeric variable into a finite set of
// pairwise-disjoint pieces, which are then presented to package enum as an
// ordinary finite domain.
//
// Endpoints use *apd.Decimal rather than float64 so numeric comparison
// stays exact across the parser, typer, and interval model.
package interval

import (
	"sort"

	"github.com/cockroachdb/apd/v3"
)

// endpoint is an internal, totally-ordered representation of an interval
// bound that folds "open" vs "closed" into an infinitesimal shift: a closed
// lower bound at v sorts before an open lower bound at v (it includes v,
// the open one starts just after it), and symmetrically for upper bounds. An
// infinite endpoint carries inf = -1 or +1 and ignores value/eps.
type endpoint struct {
	inf   int8 // -1, 0 (finite), or +1
	value *apd.Decimal
	eps   int8 // -1, 0, +1; only meaningful when inf == 0
}

func negInf() endpoint { return endpoint{inf: -1} }
func posInf() endpoint { return endpoint{inf: 1} }

func lowerEndpoint(v *apd.Decimal, closed bool) endpoint {
	if v == nil {
		return negInf()
	}
	if closed {
		return endpoint{value: v, eps: 0}
	}
	return endpoint{value: v, eps: 1}
}

func upperEndpoint(v *apd.Decimal, closed bool) endpoint {
	if v == nil {
		return posInf()
	}
	if closed {
		return endpoint{value: v, eps: 0}
	}
	return endpoint{value: v, eps: -1}
}

func cmpEndpoint(a, b endpoint) int {
	if a.inf != 0 || b.inf != 0 {
		ai, bi := int(a.inf), int(b.inf)
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		default:
			return 0
		}
	}
	if c := a.value.Cmp(b.value); c != 0 {
		return c
	}
	switch {
	case a.eps < b.eps:
		return -1
	case a.eps > b.eps:
		return 1
	default:
		return 0
	}
}

// Interval is a single convex range of the real line, (Lo, Hi) with
// independent open/closed flags; a nil bound value means unbounded in that
// direction.
type Interval struct {
	Lo       *apd.Decimal
	LoClosed bool
	Hi       *apd.Decimal
	HiClosed bool
}

func (iv Interval) lo() endpoint { return lowerEndpoint(iv.Lo, iv.LoClosed) }
func (iv Interval) hi() endpoint { return upperEndpoint(iv.Hi, iv.HiClosed) }

// IsEmpty reports whether iv describes the empty set (Lo is past Hi).
func (iv Interval) IsEmpty() bool {
	return cmpEndpoint(iv.lo(), iv.hi()) > 0
}

// overlapsOrTouches reports whether a and b intersect or abut with no real
// number between them, the condition under which normalize merges them into
// one piece.
func overlapsOrTouches(a, b Interval) bool {
	return touches(a.lo(), b.hi()) && touches(b.lo(), a.hi())
}

// touches reports lo <= hi, or lo is the point immediately past hi: a
// closed/open (or open/closed) boundary at the same value, leaving no gap.
func touches(lo, hi endpoint) bool {
	if cmpEndpoint(lo, hi) <= 0 {
		return true
	}
	return lo.inf == 0 && hi.inf == 0 && lo.value.Cmp(hi.value) == 0 && int(lo.eps)-int(hi.eps) == 1
}

// Intersect returns the (possibly empty) intersection of a and b.
func Intersect(a, b Interval) Interval {
	lo := a
	if cmpEndpoint(b.lo(), a.lo()) > 0 {
		lo = b
	}
	hi := a
	if cmpEndpoint(b.hi(), a.hi()) < 0 {
		hi = b
	}
	return Interval{Lo: lo.Lo, LoClosed: lo.LoClosed, Hi: hi.Hi, HiClosed: hi.HiClosed}
}

// Difference returns a \ b as zero, one, or two intervals.
func Difference(a, b Interval) []Interval {
	if !overlapsOrTouches(a, b) || Intersect(a, b).IsEmpty() {
		return []Interval{a}
	}
	var out []Interval
	// Left remainder: [a.Lo, b.Lo)
	if cmpEndpoint(a.lo(), b.lo()) < 0 {
		left := Interval{Lo: a.Lo, LoClosed: a.LoClosed, Hi: b.Lo, HiClosed: !b.LoClosed}
		if b.Lo == nil {
			left = Interval{Lo: a.Lo, LoClosed: a.LoClosed, Hi: nil, HiClosed: false}
		}
		if !left.IsEmpty() {
			out = append(out, left)
		}
	}
	// Right remainder: (b.Hi, a.Hi]
	if cmpEndpoint(b.hi(), a.hi()) < 0 {
		right := Interval{Lo: b.Hi, LoClosed: !b.HiClosed, Hi: a.Hi, HiClosed: a.HiClosed}
		if b.Hi == nil {
			right = Interval{Lo: nil, LoClosed: false, Hi: a.Hi, HiClosed: a.HiClosed}
		}
		if !right.IsEmpty() {
			out = append(out, right)
		}
	}
	return out
}

// Set is a union of pairwise-disjoint, non-empty, non-touching intervals,
// kept sorted by lower bound. It models the result of a single relop
// (half-line, point, or complement-of-point) as well as the refined,
// pairwise-disjoint piece list produced by Refine.
type Set struct {
	Pieces []Interval
}

func normalize(pieces []Interval) []Interval {
	var clean []Interval
	for _, p := range pieces {
		if !p.IsEmpty() {
			clean = append(clean, p)
		}
	}
	sort.Slice(clean, func(i, j int) bool { return cmpEndpoint(clean[i].lo(), clean[j].lo()) < 0 })
	var merged []Interval
	for _, p := range clean {
		if len(merged) > 0 && overlapsOrTouches(merged[len(merged)-1], p) {
			last := merged[len(merged)-1]
			merged[len(merged)-1] = union2(last, p)
			continue
		}
		merged = append(merged, p)
	}
	return merged
}

func union2(a, b Interval) Interval {
	lo, loClosed := a.Lo, a.LoClosed
	if cmpEndpoint(b.lo(), a.lo()) < 0 {
		lo, loClosed = b.Lo, b.LoClosed
	}
	hi, hiClosed := a.Hi, a.HiClosed
	if cmpEndpoint(b.hi(), a.hi()) > 0 {
		hi, hiClosed = b.Hi, b.HiClosed
	}
	return Interval{Lo: lo, LoClosed: loClosed, Hi: hi, HiClosed: hiClosed}
}

// NewSet builds a normalized Set from possibly-overlapping pieces.
func NewSet(pieces ...Interval) Set { return Set{Pieces: normalize(pieces)} }

// Point returns the degenerate set {c}.
func Point(c *apd.Decimal) Set { return NewSet(Interval{Lo: c, LoClosed: true, Hi: c, HiClosed: true}) }

// GreaterThan, AtLeast, LessThan, AtMost build the half-line sets produced
// by gt/ge/lt/le guards.
func GreaterThan(c *apd.Decimal) Set { return NewSet(Interval{Lo: c, LoClosed: false, Hi: nil}) }
func AtLeast(c *apd.Decimal) Set     { return NewSet(Interval{Lo: c, LoClosed: true, Hi: nil}) }
func LessThan(c *apd.Decimal) Set    { return NewSet(Interval{Lo: nil, Hi: c, HiClosed: false}) }
func AtMost(c *apd.Decimal) Set      { return NewSet(Interval{Lo: nil, Hi: c, HiClosed: true}) }

// NotEqual builds the complement-of-point set produced by a `!=` guard on a
// non-enum numeric variable.
func NotEqual(c *apd.Decimal) Set {
	return NewSet(
		Interval{Lo: nil, Hi: c, HiClosed: false},
		Interval{Lo: c, LoClosed: false, Hi: nil},
	)
}

// Union returns the union of a and b as a normalized Set.
func Union(a, b Set) Set {
	return NewSet(append(append([]Interval{}, a.Pieces...), b.Pieces...)...)
}

// Intersection returns the intersection of a and b.
func Intersection(a, b Set) Set {
	var out []Interval
	for _, p := range a.Pieces {
		for _, q := range b.Pieces {
			iv := Intersect(p, q)
			if !iv.IsEmpty() {
				out = append(out, iv)
			}
		}
	}
	return NewSet(out...)
}

// Subtract returns a \ b.
func Subtract(a, b Set) Set {
	remaining := append([]Interval{}, a.Pieces...)
	for _, q := range b.Pieces {
		var next []Interval
		for _, p := range remaining {
			next = append(next, Difference(p, q)...)
		}
		remaining = next
	}
	return NewSet(remaining...)
}

// IsEmpty reports whether the set has no pieces.
func (s Set) IsEmpty() bool { return len(s.Pieces) == 0 }

// Equal reports whether a and b describe the same set of reals.
func Equal(a, b Set) bool {
	return Subtract(a, b).IsEmpty() && Subtract(b, a).IsEmpty()
}

// Subset reports whether a is a subset of b.
func Subset(a, b Set) bool {
	return Subtract(a, b).IsEmpty()
}
