package scanner

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/christian-fr/filter-branching-check-fork/internal/token"
)

type elt struct {
	Tok token.Token
	Lit string
}

func scanAll(t *testing.T, src string) []elt {
	t.Helper()
	var s Scanner
	Init(&s, src, func(pos token.Pos, msg string) {
		t.Fatalf("scan error at %d: %s", pos, msg)
	})
	var out []elt
	for {
		_, tok, lit := s.Scan()
		if tok == token.EOF {
			return out
		}
		out = append(out, elt{tok, lit})
	}
}

func TestScanTokens(t *testing.T) {
	cases := []struct {
		src  string
		want []elt
	}{
		{"p1 == 'y'", []elt{{token.IDENT, "p1"}, {token.EQ, ""}, {token.STRING, "y"}}},
		{"a and b or !c", []elt{
			{token.IDENT, "a"}, {token.AND, "and"}, {token.IDENT, "b"},
			{token.OR, "or"}, {token.NOT, ""}, {token.IDENT, "c"},
		}},
		{"x gt 3", []elt{{token.IDENT, "x"}, {token.GT, "gt"}, {token.INT, "3"}}},
		{"v1 ge 500.5", []elt{{token.IDENT, "v1"}, {token.GE, "ge"}, {token.FLOAT, "500.5"}}},
		{"zofar.asNumber(p1)", []elt{
			{token.IDENT, "zofar"}, {token.DOT, ""}, {token.IDENT, "asNumber"},
			{token.LPAREN, ""}, {token.IDENT, "p1"}, {token.RPAREN, ""},
		}},
		{"a != b", []elt{{token.IDENT, "a"}, {token.NEQ, ""}, {token.IDENT, "b"}}},
		{"1 + 2 * -3", []elt{
			{token.INT, "1"}, {token.PLUS, ""}, {token.INT, "2"},
			{token.STAR, ""}, {token.MINUS, ""}, {token.INT, "3"},
		}},
		{"true false", []elt{{token.TRUE, "true"}, {token.FALSE, "false"}}},
		{"1e3", []elt{{token.FLOAT, "1e3"}}},
		{"1.5e-2", []elt{{token.FLOAT, "1.5e-2"}}},
	}
	for _, tc := range cases {
		got := scanAll(t, tc.src)
		qt.Assert(t, qt.DeepEquals(got, tc.want), qt.Commentf("src: %s", tc.src))
	}
}

func TestScanReservedWords(t *testing.T) {
	for word, want := range map[string]token.Token{
		"and": token.AND, "or": token.OR,
		"gt": token.GT, "ge": token.GE, "lt": token.LT, "le": token.LE,
		"true": token.TRUE, "false": token.FALSE,
	} {
		got := scanAll(t, word)
		qt.Assert(t, qt.Equals(got[0].Tok, want))
	}
	// A word merely containing a reserved word is an ordinary identifier.
	got := scanAll(t, "android gtx")
	qt.Assert(t, qt.Equals(got[0].Tok, token.IDENT))
	qt.Assert(t, qt.Equals(got[1].Tok, token.IDENT))
}

func TestScanPositions(t *testing.T) {
	var s Scanner
	Init(&s, "p1 == 'y'", nil)
	pos, _, _ := s.Scan()
	qt.Assert(t, qt.Equals(pos, token.Pos(0)))
	pos, _, _ = s.Scan()
	qt.Assert(t, qt.Equals(pos, token.Pos(3)))
	pos, _, _ = s.Scan()
	qt.Assert(t, qt.Equals(pos, token.Pos(6)))
}

func TestScanIllegalCharacter(t *testing.T) {
	var gotPos token.Pos = token.NoPos
	var s Scanner
	Init(&s, "a # b", func(pos token.Pos, msg string) { gotPos = pos })
	for {
		_, tok, _ := s.Scan()
		if tok == token.EOF {
			break
		}
	}
	qt.Assert(t, qt.Equals(gotPos, token.Pos(2)))
	qt.Assert(t, qt.Equals(s.ErrorCount, 1))
}

func TestScanSingleEqualsIsIllegal(t *testing.T) {
	var s Scanner
	Init(&s, "a = b", nil)
	_, tok, _ := s.Scan()
	qt.Assert(t, qt.Equals(tok, token.IDENT))
	_, tok, lit := s.Scan()
	qt.Assert(t, qt.Equals(tok, token.ILLEGAL))
	qt.Assert(t, qt.Equals(lit, "="))
}

func TestScanUnterminatedString(t *testing.T) {
	count := 0
	var s Scanner
	Init(&s, "'abc", func(pos token.Pos, msg string) { count++ })
	_, tok, lit := s.Scan()
	qt.Assert(t, qt.Equals(tok, token.STRING))
	qt.Assert(t, qt.Equals(lit, "abc"))
	qt.Assert(t, qt.Equals(count, 1))
}
