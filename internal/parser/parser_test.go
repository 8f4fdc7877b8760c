package parser

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/christian-fr/filter-branching-check-fork/internal/ast"
	fbcerrors "github.com/christian-fr/filter-branching-check-fork/internal/errors"
	"github.com/christian-fr/filter-branching-check-fork/internal/token"
)

func mustParse(t *testing.T, src string) ast.Node {
	t.Helper()
	n, err := Parse(src)
	qt.Assert(t, qt.IsNil(err), qt.Commentf("src: %s", src))
	return n
}

func TestParseShapes(t *testing.T) {
	n := mustParse(t, "p1 == 'y' and p2 == 'n'")
	logic, ok := n.(*ast.Logic)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(logic.Op, ast.LAnd))
	rel, ok := logic.X.(*ast.Rel)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(rel.Op, ast.RelEq))
	lookup, ok := rel.X.(*ast.Lookup)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.DeepEquals(lookup.Segments, []string{"p1"}))
	str, ok := rel.Y.(*ast.StringLit)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(str.Value, "y"))
}

func TestParseCall(t *testing.T) {
	n := mustParse(t, "zofar.asNumber(p1) gt 2")
	rel, ok := n.(*ast.Rel)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(rel.Op, ast.RelGt))
	call, ok := rel.X.(*ast.Call)
	qt.Assert(t, qt.IsTrue(ok))
	fun, ok := call.Fun.(*ast.Lookup)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.DeepEquals(fun.Segments, []string{"zofar", "asNumber"}))
	qt.Assert(t, qt.Equals(len(call.Args), 1))
}

func TestParseAssociativity(t *testing.T) {
	// and/or are left-associative: a or b or c == (a or b) or c.
	n := mustParse(t, "a or b or c")
	outer, ok := n.(*ast.Logic)
	qt.Assert(t, qt.IsTrue(ok))
	inner, ok := outer.X.(*ast.Logic)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(inner.Op, ast.LOr))

	// ! is right-associative: !!a == !(!a).
	n = mustParse(t, "!!a")
	not, ok := n.(*ast.Not)
	qt.Assert(t, qt.IsTrue(ok))
	_, ok = not.X.(*ast.Not)
	qt.Assert(t, qt.IsTrue(ok))
}

func TestParsePrecedence(t *testing.T) {
	// and binds tighter than or.
	n := mustParse(t, "a or b and c")
	outer, ok := n.(*ast.Logic)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(outer.Op, ast.LOr))
	right, ok := outer.Y.(*ast.Logic)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(right.Op, ast.LAnd))

	// Parentheses override.
	n = mustParse(t, "(a or b) and c")
	outer, ok = n.(*ast.Logic)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(outer.Op, ast.LAnd))

	// * binds tighter than +, and arithmetic binds tighter than relops.
	n = mustParse(t, "x + y * 2 gt 10")
	rel, ok := n.(*ast.Rel)
	qt.Assert(t, qt.IsTrue(ok))
	add, ok := rel.X.(*ast.Arith)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(add.Op, ast.ArithAdd))
	mul, ok := add.Y.(*ast.Arith)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(mul.Op, ast.ArithMul))
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		src string
		pos token.Pos
	}{
		{"p1 ==", 5},
		{"(a or b", 7},
		{"a ++ b", 3},
		{"== b", 0},
		{"a or", 4},
	}
	for _, tc := range cases {
		_, err := Parse(tc.src)
		qt.Assert(t, qt.IsNotNil(err), qt.Commentf("src: %s", tc.src))
		pe, ok := err.(*fbcerrors.ParseError)
		qt.Assert(t, qt.IsTrue(ok), qt.Commentf("src: %s, err: %v", tc.src, err))
		qt.Assert(t, qt.Equals(pe.At, tc.pos), qt.Commentf("src: %s, err: %v", tc.src, err))
	}
}

func TestParseTrailingInputRejected(t *testing.T) {
	_, err := Parse("a b")
	qt.Assert(t, qt.IsNotNil(err))
	_, err = Parse("a or b)")
	qt.Assert(t, qt.IsNotNil(err))
}

// TestPrintRoundTrip checks parse-print-parse stability over a corpus of
// canonical expressions: re-parsing the printed form of a tree must print
// identically again.
func TestPrintRoundTrip(t *testing.T) {
	corpus := []string{
		"true",
		"false",
		"p1 == 'y'",
		"p1 != 'n'",
		"p1 == 'y' and p2 == 'n'",
		"p1 == 'y' or p2 == 'n' and p3 == 'na'",
		"(p1 == 'y' or p2 == 'n') and p3 == 'na'",
		"!done",
		"!(a and b)",
		"!!a",
		"zofar.asNumber(p1) gt 2",
		"zofar.isMissing(p1)",
		"zofar.baseUrl() == 'x'",
		"v1 lt 500 or v1 ge 500 and v1 le 800",
		"x + y * 2 gt 10",
		"(x + y) * 2 gt 10",
		"-x lt 3",
		"x - -y le 7",
		"a or b or c",
		"a and (b or c)",
		"f(a, b == 'x', 3)",
	}
	for _, src := range corpus {
		first := Print(mustParse(t, src))
		second := Print(mustParse(t, first))
		qt.Assert(t, qt.Equals(second, first), qt.Commentf("src: %s", src))
	}
}
