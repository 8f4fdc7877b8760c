package check

import (
	"context"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/christian-fr/filter-branching-check-fork/internal/enum"
	"github.com/christian-fr/filter-branching-check-fork/internal/interval"
	"github.com/christian-fr/filter-branching-check-fork/internal/model"
	"github.com/christian-fr/filter-branching-check-fork/internal/scope"
	"github.com/christian-fr/filter-branching-check-fork/internal/symbolic"
)

func strp(s string) *string { return &s }

func options(pairs ...any) []model.AnswerOption {
	var out []model.AnswerOption
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, model.AnswerOption{UID: pairs[i].(string), Value: pairs[i+1].(int)})
	}
	return out
}

func TestEnumDomainsBuildsStringAndNumberDomains(t *testing.T) {
	q := &model.Questionnaire{
		Variables: map[string]model.Variable{
			"p1": {Name: "p1", Type: model.TEnum},
		},
		Pages: []model.Page{
			{UID: "index", ResponseDomains: []model.ResponseDomain{
				{Variable: "p1", Options: options("y", 1, "n", 2)},
			}},
		},
	}
	strD, numD, err := EnumDomains(q)
	qt.Assert(t, qt.IsNil(err))

	d := strD["p1"]
	qt.Assert(t, qt.IsNotNil(d))
	qt.Assert(t, qt.Equals(d.Typ, symbolic.TString))
	// Member order follows the first declaring page's uid order.
	qt.Assert(t, qt.DeepEquals(d.Members, []string{"y", "n"}))

	nd := numD["p1_NUM"]
	qt.Assert(t, qt.IsNotNil(nd))
	qt.Assert(t, qt.Equals(nd.Typ, symbolic.TNumber))
	qt.Assert(t, qt.DeepEquals(nd.Members, []string{"1", "2"}))
}

func TestEnumDomainsAgreeingDuplicatesCollapse(t *testing.T) {
	rd := model.ResponseDomain{Variable: "p1", Options: options("y", 1, "n", 2)}
	q := &model.Questionnaire{
		Variables: map[string]model.Variable{"p1": {Name: "p1", Type: model.TEnum}},
		Pages: []model.Page{
			{UID: "index", ResponseDomains: []model.ResponseDomain{rd}},
			{UID: "later", ResponseDomains: []model.ResponseDomain{rd}},
		},
	}
	strD, _, err := EnumDomains(q)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(strD["p1"].Members, []string{"y", "n"}))
}

func TestEnumDomainsConflictIsFatal(t *testing.T) {
	q := &model.Questionnaire{
		Variables: map[string]model.Variable{"p1": {Name: "p1", Type: model.TEnum}},
		Pages: []model.Page{
			{UID: "index", ResponseDomains: []model.ResponseDomain{
				{Variable: "p1", Options: options("y", 1, "n", 2)},
			}},
			{UID: "later", ResponseDomains: []model.ResponseDomain{
				{Variable: "p1", Options: options("y", 1, "n", 3)},
			}},
		},
	}
	_, _, err := EnumDomains(q)
	qt.Assert(t, qt.IsNotNil(err))
}

func TestEnumDomainsEmptyEnumIsFatal(t *testing.T) {
	q := &model.Questionnaire{
		Variables: map[string]model.Variable{"p1": {Name: "p1", Type: model.TEnum}},
		Pages:     []model.Page{{UID: "index"}},
	}
	_, _, err := EnumDomains(q)
	qt.Assert(t, qt.IsNotNil(err))
}

func TestShortCircuit(t *testing.T) {
	e, ok := shortCircuit(nil)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.IsTrue(symbolic.IsTrue(e)))

	e, ok = shortCircuit(strp("true"))
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.IsTrue(symbolic.IsTrue(e)))

	e, ok = shortCircuit(strp("false"))
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.IsTrue(symbolic.IsFalse(e)))

	_, ok = shortCircuit(strp("p1 == 'y'"))
	qt.Assert(t, qt.IsFalse(ok))
}

// A transition whose condition is the literal true suppresses every later
// sibling of the same page (cascading exclusion).
func TestCollectGuardsCascadingExclusion(t *testing.T) {
	vars := map[string]model.Variable{"p1": {Name: "p1", Type: model.TEnum}}
	pages := []model.Page{
		{UID: "index", Transitions: []model.Transition{
			{TargetUID: "a", Condition: strp("p1 == 'y'")},
			{TargetUID: "b", Condition: strp("true")},
			{TargetUID: "c"}, // suppressed
			{TargetUID: "d", Condition: strp("p1 == 'n'")}, // suppressed
		}},
	}
	d, err := enum.NewDomain("p1", symbolic.TString, []string{"y", "n"})
	qt.Assert(t, qt.IsNil(err))
	enumDomains := map[string]*enum.Domain{"p1": d}

	edges, err := collectGuards(pages, scope.NewVarScope(vars), enumDomains, map[string][]interval.Set{})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(edges, 2))
	qt.Assert(t, qt.Equals(edges[0].to, "a"))
	qt.Assert(t, qt.Equals(edges[1].to, "b"))
}

func TestCollectGuardsReportsEveryBadGuard(t *testing.T) {
	vars := map[string]model.Variable{"p1": {Name: "p1", Type: model.TEnum}}
	pages := []model.Page{
		{UID: "index", Transitions: []model.Transition{
			{TargetUID: "a", Condition: strp("p1 ==")},       // ParseError
			{TargetUID: "b", Condition: strp("ghost == 'y'")}, // UnknownIdentifier
		}},
	}
	_, err := collectGuards(pages, scope.NewVarScope(vars), map[string]*enum.Domain{}, map[string][]interval.Set{})
	qt.Assert(t, qt.IsNotNil(err))

	report := &Report{}
	report.Errors = appendErrs(report.Errors, err)
	qt.Assert(t, qt.HasLen(report.Errors, 2))
	qt.Assert(t, qt.Equals(report.Errors[0].Kind, "ParseError"))
	qt.Assert(t, qt.Equals(report.Errors[1].Kind, "UnknownIdentifier"))
}

func coveredQuestionnaire() *model.Questionnaire {
	rdP1 := model.ResponseDomain{Variable: "p1", Options: options("y", 1, "n", 2)}
	rdP2 := model.ResponseDomain{Variable: "p2", Options: options("y", 1, "n", 2)}
	return &model.Questionnaire{
		Variables: map[string]model.Variable{
			"p1": {Name: "p1", Type: model.TEnum},
			"p2": {Name: "p2", Type: model.TEnum},
		},
		Pages: []model.Page{
			{UID: "index",
				ResponseDomains: []model.ResponseDomain{rdP1, rdP2},
				Transitions: []model.Transition{
					{TargetUID: "a", Condition: strp("p1 == 'y' and p2 == 'y'")},
					{TargetUID: "b", Condition: strp("p1 == 'y' and p2 == 'n'")},
					{TargetUID: "c", Condition: strp("p1 == 'n' and p2 == 'y'")},
					{TargetUID: "d", Condition: strp("p1 == 'n' and p2 == 'n'")},
				}},
			{UID: "a", Transitions: []model.Transition{{TargetUID: "end"}}},
			{UID: "b", Transitions: []model.Transition{{TargetUID: "end"}}},
			{UID: "c", Transitions: []model.Transition{{TargetUID: "end"}}},
			{UID: "d", Transitions: []model.Transition{{TargetUID: "end"}}},
			{UID: "end"},
		},
	}
}

func TestCheckQuestionnaireFullyCovered(t *testing.T) {
	report := CheckQuestionnaire(context.Background(), coveredQuestionnaire())
	qt.Assert(t, qt.IsTrue(report.OK), qt.Commentf("errors: %v", report.Errors))
	qt.Assert(t, qt.IsNotNil(report.Graph))

	pred, ok := report.Graph.Pred("end")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.IsTrue(symbolic.IsTrue(pred)))
}

func TestCheckQuestionnaireMissingCombination(t *testing.T) {
	q := coveredQuestionnaire()
	// Drop the p1=y, p2=y edge and its target page "a", which would
	// otherwise be left with no incoming edge.
	q.Pages[0].Transitions = q.Pages[0].Transitions[1:]
	q.Pages = append(q.Pages[:1], q.Pages[2:]...)

	report := CheckQuestionnaire(context.Background(), q)
	qt.Assert(t, qt.IsFalse(report.OK))

	kinds := map[string]bool{}
	for _, e := range report.Errors {
		kinds[e.Kind] = true
	}
	qt.Assert(t, qt.IsTrue(kinds["SoundnessError"]))
	// The end page's predicate still collapses to true.
	qt.Assert(t, qt.IsFalse(kinds["ReachabilityError"]))
}

func TestCheckQuestionnaireIntervalVariable(t *testing.T) {
	q := &model.Questionnaire{
		Variables: map[string]model.Variable{"v1": {Name: "v1", Type: model.TNumber}},
		Pages: []model.Page{
			{UID: "index", Transitions: []model.Transition{
				{TargetUID: "a", Condition: strp("v1 lt 500")},
				{TargetUID: "b", Condition: strp("v1 ge 500 and v1 le 800")},
				{TargetUID: "c", Condition: strp("v1 gt 800")},
			}},
			{UID: "a", Transitions: []model.Transition{{TargetUID: "end"}}},
			{UID: "b", Transitions: []model.Transition{{TargetUID: "end"}}},
			{UID: "c", Transitions: []model.Transition{{TargetUID: "end"}}},
			{UID: "end"},
		},
	}
	report := CheckQuestionnaire(context.Background(), q)
	qt.Assert(t, qt.IsTrue(report.OK), qt.Commentf("errors: %v", report.Errors))

	pred, ok := report.Graph.Pred("end")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.IsTrue(symbolic.IsTrue(pred)))
}

func TestCheckQuestionnaireInDegreeError(t *testing.T) {
	q := &model.Questionnaire{
		Variables: map[string]model.Variable{},
		Pages: []model.Page{
			{UID: "index", Transitions: []model.Transition{{TargetUID: "end"}}},
			{UID: "end"},
			{UID: "stray"}, // second zero-in-degree node
		},
	}
	report := CheckQuestionnaire(context.Background(), q)
	qt.Assert(t, qt.IsFalse(report.OK))
	qt.Assert(t, qt.Equals(report.Errors[0].Kind, "InDegreeError"))
}
