package render

import (
	"context"
	"strings"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/christian-fr/filter-branching-check-fork/internal/enum"
	"github.com/christian-fr/filter-branching-check-fork/internal/graph"
	"github.com/christian-fr/filter-branching-check-fork/internal/symbolic"
)

func TestWriteDOT(t *testing.T) {
	d, err := enum.NewDomain("p1", symbolic.TString, []string{"y", "n"})
	qt.Assert(t, qt.IsNil(err))
	eqY, err := d.Eq("y")
	qt.Assert(t, qt.IsNil(err))
	eqN, err := d.Eq("n")
	qt.Assert(t, qt.IsNil(err))

	g := graph.New("index")
	g.AddEdge("index", "a", eqY)
	g.AddEdge("index", "b", eqN)

	cache := symbolic.NewCache()
	qt.Assert(t, qt.IsNil(g.EvaluateNodePredicates(context.Background(), []*enum.Domain{d}, cache)))

	var b strings.Builder
	qt.Assert(t, qt.IsNil(WriteDOT(&b, g)))
	out := b.String()

	qt.Assert(t, qt.IsTrue(strings.HasPrefix(out, "digraph questionnaire {")))
	qt.Assert(t, qt.IsTrue(strings.Contains(out, `"index"`)))
	qt.Assert(t, qt.IsTrue(strings.Contains(out, `"index" -> "a"`)))
	qt.Assert(t, qt.IsTrue(strings.Contains(out, `"index" -> "b"`)))
	// The source node's predicate is rendered into its label.
	qt.Assert(t, qt.IsTrue(strings.Contains(out, "pred: true")))
}
