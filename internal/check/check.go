// Package check implements the checker's orchestrator: it wires the
// loader's data model through scope resolution, enum and interval lowering,
// and the graph engine, collecting diagnostics into a single Report. Each
// stage reports all of its own failures; a stage that fails ends the run
// before later stages start.
package check

import (
	"context"
	"sort"

	"github.com/google/uuid"

	fbcerrors "github.com/christian-fr/filter-branching-check-fork/internal/errors"
	"github.com/christian-fr/filter-branching-check-fork/internal/enum"
	"github.com/christian-fr/filter-branching-check-fork/internal/graph"
	"github.com/christian-fr/filter-branching-check-fork/internal/interval"
	"github.com/christian-fr/filter-branching-check-fork/internal/loader"
	"github.com/christian-fr/filter-branching-check-fork/internal/model"
	"github.com/christian-fr/filter-branching-check-fork/internal/scope"
	"github.com/christian-fr/filter-branching-check-fork/internal/symbolic"
)

// Report is the orchestrator's output: either a graph whose nodes and
// edges have been fully evaluated, or the list of diagnostics that
// prevented that. RunID is a fresh random identifier for each run, printed
// with the text report; the DOT rendering does not include it.
type Report struct {
	RunID  uuid.UUID     `json:"run_id" yaml:"run_id"`
	OK     bool          `json:"ok" yaml:"ok"`
	Errors []ReportError `json:"errors,omitempty" yaml:"errors,omitempty"`
	Graph  *graph.Graph  `json:"-" yaml:"-"`
}

// ReportError is the JSON/YAML-serializable projection of an
// internal/errors.Error, since the concrete error types themselves carry
// unexported machinery (position offsets with no line/column meaning
// outside the process).
type ReportError struct {
	Kind    string `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
}

// Check runs the full pipeline against the questionnaire document at path:
// load, build enum domains, resolve and lower every guard, construct the
// page graph, and run soundness/disjointness/reachability. It never returns
// a Go error for a diagnosable failure; those are reported in Report.Errors.
// A failure to load the document, including a LoadError, is also reported
// that way, so the returned error is always nil.
func Check(ctx context.Context, path string) (*Report, error) {
	q, err := loader.Load(path)
	if err != nil {
		return &Report{RunID: uuid.New(), OK: false, Errors: appendErrs(nil, err)}, nil
	}
	return CheckQuestionnaire(ctx, q), nil
}

// CheckQuestionnaire runs the pipeline against an already-loaded
// questionnaire, for callers that build a model.Questionnaire directly
// rather than from an XML file.
func CheckQuestionnaire(ctx context.Context, q *model.Questionnaire) *Report {
	report := &Report{RunID: uuid.New()}

	strDomains, numDomains, err := EnumDomains(q)
	if err != nil {
		report.Errors = appendErrs(report.Errors, err)
		return report
	}

	enumDomains := map[string]*enum.Domain{}
	for k, v := range strDomains {
		enumDomains[k] = v
	}
	for k, v := range numDomains {
		enumDomains[k] = v
	}

	sc := scope.NewVarScope(q.Variables)

	intervalAcc := map[string][]interval.Set{}
	edges, err := collectGuards(q.Pages, sc, enumDomains, intervalAcc)
	if err != nil {
		report.Errors = appendErrs(report.Errors, err)
		return report
	}

	intervalNames := make([]string, 0, len(intervalAcc))
	for name := range intervalAcc {
		intervalNames = append(intervalNames, name)
	}
	sort.Strings(intervalNames)

	intervalVars := map[string]interval.Entry{}
	var intervalDomains []*enum.Domain
	for _, name := range intervalNames {
		refined := interval.Refine(interval.Dedup(intervalAcc[name]))
		pieces, dom, err := interval.BuildDomain(name, refined)
		if err != nil {
			report.Errors = append(report.Errors, ReportError{Kind: "EnumDomainError", Message: err.Error()})
			continue
		}
		intervalVars[name] = interval.Entry{Pieces: pieces, Domain: dom}
		intervalDomains = append(intervalDomains, dom)
	}
	if len(report.Errors) > 0 {
		return report
	}

	lowered, err := lowerGuards(edges, enumDomains, intervalVars)
	if err != nil {
		report.Errors = appendErrs(report.Errors, err)
		return report
	}

	var allDomains []*enum.Domain
	for _, name := range sortedKeys(strDomains) {
		allDomains = append(allDomains, strDomains[name])
	}
	for _, name := range sortedKeys(numDomains) {
		allDomains = append(allDomains, numDomains[name])
	}
	allDomains = append(allDomains, intervalDomains...)

	g := buildGraph(q.Pages, lowered)
	report.Graph = g

	cache := symbolic.NewCache()

	if err := g.CheckInDegree(); err != nil {
		report.Errors = append(report.Errors, ReportError{Kind: err.(fbcerrors.Error).Kind(), Message: err.Error()})
		return report
	}

	if err := g.EvaluateNodePredicates(ctx, allDomains, cache); err != nil {
		report.Errors = append(report.Errors, ReportError{Kind: err.(fbcerrors.Error).Kind(), Message: err.Error()})
		return report
	}
	g.EvaluateEdgeFilters(allDomains, cache)

	if err := g.GraphSoundnessCheck(allDomains, cache); err != nil {
		report.Errors = append(report.Errors, ReportError{Kind: err.(fbcerrors.Error).Kind(), Message: err.Error()})
	}
	for _, derr := range g.GraphDisjointnessCheck(allDomains, cache) {
		report.Errors = append(report.Errors, ReportError{Kind: derr.(fbcerrors.Error).Kind(), Message: derr.Error()})
	}
	for _, rerr := range g.TerminalReachability() {
		report.Errors = append(report.Errors, ReportError{Kind: rerr.(fbcerrors.Error).Kind(), Message: rerr.Error()})
	}

	report.OK = len(report.Errors) == 0
	return report
}

// buildGraph materializes the page graph from the model's document-order
// page list and the fully-lowered pending edges, using the first page as the
// source candidate; any mismatch is caught by the subsequent CheckInDegree
// call.
func buildGraph(pages []model.Page, edges []pendingEdge) *graph.Graph {
	source := ""
	if len(pages) > 0 {
		source = pages[0].UID
	}
	g := graph.New(source)
	for _, p := range pages {
		g.AddNode(p.UID)
	}
	for _, e := range edges {
		g.AddEdge(e.from, e.to, e.literal)
	}
	return g
}

func appendErrs(dst []ReportError, err error) []ReportError {
	if list, ok := err.(fbcerrors.List); ok {
		for _, e := range list {
			dst = append(dst, ReportError{Kind: e.Kind(), Message: e.Error()})
		}
		return dst
	}
	if fe, ok := err.(fbcerrors.Error); ok {
		return append(dst, ReportError{Kind: fe.Kind(), Message: fe.Error()})
	}
	return append(dst, ReportError{Kind: "LoadError", Message: err.Error()})
}

func sortedKeys(m map[string]*enum.Domain) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
