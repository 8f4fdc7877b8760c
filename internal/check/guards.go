package check

import (
	"github.com/christian-fr/filter-branching-check-fork/internal/enum"
	fbcerrors "github.com/christian-fr/filter-branching-check-fork/internal/errors"
	"github.com/christian-fr/filter-branching-check-fork/internal/interval"
	"github.com/christian-fr/filter-branching-check-fork/internal/model"
	"github.com/christian-fr/filter-branching-check-fork/internal/parser"
	"github.com/christian-fr/filter-branching-check-fork/internal/scope"
	"github.com/christian-fr/filter-branching-check-fork/internal/symbolic"
	"github.com/christian-fr/filter-branching-check-fork/internal/token"
)

// pendingEdge is one not-yet-lowered outbound transition collected during the
// first guard-collection pass: either already resolved to a literal (a
// short-circuited "true"/"false" condition) or carrying the scope-resolved,
// not yet enum/interval-lowered expression parsed from its condition string.
type pendingEdge struct {
	from, to string
	literal  symbolic.Expr // non-nil for short-circuited transitions
	resolved symbolic.Expr // non-nil otherwise
	pos      token.Pos
}

// shortCircuit reports the literal truth value of a transition condition
// without parsing it: the literal "true" and "false" conditions, and a nil
// condition, which defaults to true.
func shortCircuit(cond *string) (symbolic.Expr, bool) {
	if cond == nil {
		return symbolic.True, true
	}
	switch *cond {
	case "true":
		return symbolic.True, true
	case "false":
		return symbolic.False, true
	}
	return nil, false
}

// asFbcError unwraps err into the diagnostic taxonomy's common interface,
// falling back to a LoadError wrapper if a collaborator returned a plain Go
// error (which should not normally happen past the loader).
func asFbcError(err error) fbcerrors.Error {
	if fe, ok := err.(fbcerrors.Error); ok {
		return fe
	}
	return &fbcerrors.LoadError{Path: "<guard>", Err: err}
}

// collectGuards performs the parse-and-resolve pass over every page's
// outbound transitions, honoring cascading exclusion: once a transition's
// condition is the literal true, every later sibling transition of that
// page is suppressed. Guards
// that still need parsing are resolved against sc but NOT yet enum/interval
// lowered; Collect is run on the resolved form so intervals are gathered
// before either lowering pass rewrites the relevant relops.
func collectGuards(pages []model.Page, sc scope.Scope, enumDomains map[string]*enum.Domain, intervalAcc map[string][]interval.Set) ([]pendingEdge, error) {
	var edges []pendingEdge
	var errs fbcerrors.List

	for _, page := range pages {
		for _, t := range page.Transitions {
			if lit, ok := shortCircuit(t.Condition); ok {
				edges = append(edges, pendingEdge{from: page.UID, to: t.TargetUID, literal: lit})
				if symbolic.IsTrue(lit) {
					break // cascading exclusion: later siblings never taken
				}
				continue
			}

			node, err := parser.Parse(*t.Condition)
			if err != nil {
				errs.Add(asFbcError(err))
				continue
			}
			resolved, err := scope.Resolve(node, sc)
			if err != nil {
				errs.Add(asFbcError(err))
				continue
			}
			interval.Collect(resolved, enumDomains, intervalAcc)
			edges = append(edges, pendingEdge{from: page.UID, to: t.TargetUID, resolved: resolved, pos: node.Pos()})
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return edges, nil
}

// lowerGuards runs enum lowering followed by interval lowering over every
// pending edge's resolved expression, producing the
// final GuardExpr stored on the graph edge.
func lowerGuards(edges []pendingEdge, enumDomains map[string]*enum.Domain, intervalVars map[string]interval.Entry) ([]pendingEdge, error) {
	var errs fbcerrors.List
	out := make([]pendingEdge, len(edges))
	for i, e := range edges {
		if e.literal != nil {
			out[i] = e
			continue
		}
		lowered, err := enum.Lower(e.resolved, enumDomains, e.pos)
		if err != nil {
			errs.Add(asFbcError(err))
			continue
		}
		lowered, err = interval.Lower(lowered, intervalVars, e.pos)
		if err != nil {
			errs.Add(asFbcError(err))
			continue
		}
		e.literal = lowered
		out[i] = e
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}
