// Copyright 2026 The filter-branching-check-fork Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package graph implements the directed page graph engine: in-degree
// soundness, BFS predicate propagation, edge-filter tightening, per-node
// soundness and disjointness checks, and terminal reachability. A node's
// predicate lives in a side table rather than on the node struct itself, so
// nodes stay immutable after construction.
package graph

import (
	"context"

	fbcerrors "github.com/christian-fr/filter-branching-check-fork/internal/errors"
	"github.com/christian-fr/filter-branching-check-fork/internal/enum"
	"github.com/christian-fr/filter-branching-check-fork/internal/symbolic"
)

// Edge is one outbound transition of a node, carrying its guard filter.
// Filter is the raw guard set at construction and never revised; the
// soundness and disjointness checks read it. Tightened is filled by
// EvaluateEdgeFilters.
type Edge struct {
	To        string
	Filter    symbolic.Expr
	Tightened symbolic.Expr
}

// Graph is the directed page graph. Nodes are added in document order;
// Nodes records that order so BFS visitation is deterministic.
type Graph struct {
	Source string
	Nodes  []string
	out    map[string][]*Edge
	in     map[string]int

	pred map[string]symbolic.Expr
}

// New returns an empty graph rooted at source.
func New(source string) *Graph {
	return &Graph{
		Source: source,
		out:    map[string][]*Edge{},
		in:     map[string]int{},
		pred:   map[string]symbolic.Expr{},
	}
}

// AddNode registers uid if not already present, preserving insertion order.
func (g *Graph) AddNode(uid string) {
	if _, ok := g.out[uid]; ok {
		return
	}
	g.out[uid] = nil
	g.in[uid] = 0
	g.Nodes = append(g.Nodes, uid)
}

// AddEdge adds a directed edge uid -> to with the given guard filter.
func (g *Graph) AddEdge(uid, to string, filter symbolic.Expr) {
	g.AddNode(uid)
	g.AddNode(to)
	g.out[uid] = append(g.out[uid], &Edge{To: to, Filter: filter})
	g.in[to]++
}

// Out returns the outbound edges of uid, in document order.
func (g *Graph) Out(uid string) []*Edge { return g.out[uid] }

// InDegree returns the number of inbound edges of uid.
func (g *Graph) InDegree(uid string) int { return g.in[uid] }

// Pred returns the predicate computed for uid by EvaluateNodePredicates, and
// whether one has been computed yet.
func (g *Graph) Pred(uid string) (symbolic.Expr, bool) {
	p, ok := g.pred[uid]
	return p, ok
}

// CheckInDegree verifies the pre-check that exactly one node has in-degree
// zero, and that it is the designated source.
func (g *Graph) CheckInDegree() error {
	var zero []string
	for _, uid := range g.Nodes {
		if g.in[uid] == 0 {
			zero = append(zero, uid)
		}
	}
	if len(zero) != 1 || zero[0] != g.Source {
		return &fbcerrors.InDegreeError{ZeroInDegree: zero}
	}
	return nil
}

// bfsOrder returns the nodes reachable from source in breadth-first,
// insertion-order-stable order.
func (g *Graph) bfsOrder() []string {
	seen := map[string]bool{g.Source: true}
	queue := []string{g.Source}
	var order []string
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		order = append(order, v)
		for _, e := range g.out[v] {
			if !seen[e.To] {
				seen[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}
	return order
}

// parents returns, for uid, the list of (parent, edge) pairs of its inbound
// edges, in the document order of g.Nodes/out.
func (g *Graph) parents(uid string) []struct {
	From string
	Edge *Edge
} {
	var out []struct {
		From string
		Edge *Edge
	}
	for _, from := range g.Nodes {
		for _, e := range g.out[from] {
			if e.To == uid {
				out = append(out, struct {
					From string
					Edge *Edge
				}{From: from, Edge: e})
			}
		}
	}
	return out
}

// EvaluateNodePredicates runs the BFS predicate propagation pass. domains
// is the full enum registry (declared enums plus any interval-derived
// domains) used by enum.SimplifyEnums and enum.BruteForce.
func (g *Graph) EvaluateNodePredicates(ctx context.Context, domains []*enum.Domain, cache *symbolic.Cache) error {
	order := g.bfsOrder()
	pending := map[string]bool{}
	for _, uid := range order {
		pending[uid] = true
	}

	for len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		progressed := false
		for _, uid := range order {
			if !pending[uid] {
				continue
			}
			parents := g.parents(uid)
			if len(parents) == 0 {
				g.pred[uid] = symbolic.True
				delete(pending, uid)
				progressed = true
				continue
			}
			ready := true
			for _, p := range parents {
				if _, ok := g.pred[p.From]; !ok {
					ready = false
					break
				}
			}
			if !ready {
				continue
			}
			var disj symbolic.Expr
			for _, p := range parents {
				term := symbolic.And2(g.pred[p.From], p.Edge.Filter)
				if disj == nil {
					disj = term
				} else {
					disj = symbolic.Or2(disj, term)
				}
			}
			simplified := enum.SimplifyEnums(cache.Simplify(disj), domains, cache)
			cells := enum.BruteForce(simplified, domains, cache)
			switch {
			case enum.AllTrue(cells):
				simplified = symbolic.True
			case enum.AllFalse(cells):
				simplified = symbolic.False
			}
			g.pred[uid] = simplified
			delete(pending, uid)
			progressed = true
		}
		if !progressed {
			remaining := make([]string, 0, len(pending))
			for _, uid := range order {
				if pending[uid] {
					remaining = append(remaining, uid)
				}
			}
			return &fbcerrors.PropagationError{Remaining: remaining}
		}
	}
	return nil
}

// EvaluateEdgeFilters computes every edge's tightened filter,
// pred(u) ∧ filter(u→v) simplified against the enum registry, and stores it
// in Edge.Tightened. Filter itself is left untouched: the soundness and
// disjointness checks must see the raw guard disjunction of each page, not
// one already conjoined with the page's own reachability predicate.
func (g *Graph) EvaluateEdgeFilters(domains []*enum.Domain, cache *symbolic.Cache) {
	for _, uid := range g.Nodes {
		p, ok := g.pred[uid]
		if !ok {
			continue
		}
		for _, e := range g.out[uid] {
			tightened := enum.SimplifyEnums(cache.Simplify(symbolic.And2(p, e.Filter)), domains, cache)
			cells := enum.BruteForce(tightened, domains, cache)
			switch {
			case enum.AllTrue(cells):
				tightened = symbolic.True
			case enum.AllFalse(cells):
				tightened = symbolic.False
			}
			e.Tightened = tightened
		}
	}
}

// SoundnessCheck reports whether uid's outbound guard disjunction is a
// tautology over domains. A node with no outbound edges is trivially sound.
func (g *Graph) SoundnessCheck(uid string, domains []*enum.Domain, cache *symbolic.Cache) bool {
	edges := g.out[uid]
	if len(edges) == 0 {
		return true
	}
	var disj symbolic.Expr
	for _, e := range edges {
		if disj == nil {
			disj = e.Filter
		} else {
			disj = symbolic.Or2(disj, e.Filter)
		}
	}
	cells := enum.BruteForce(cache.Simplify(disj), domains, cache)
	return enum.AllTrue(cells)
}

// GraphSoundnessCheck runs SoundnessCheck over every node reachable from
// source, collecting the offenders into a single SoundnessError.
func (g *Graph) GraphSoundnessCheck(domains []*enum.Domain, cache *symbolic.Cache) error {
	var offenders []string
	for _, uid := range g.bfsOrder() {
		if !g.SoundnessCheck(uid, domains, cache) {
			offenders = append(offenders, uid)
		}
	}
	if len(offenders) > 0 {
		return &fbcerrors.SoundnessError{Offenders: offenders}
	}
	return nil
}

// DisjointnessCheck reports whether the outbound edges of uid are pairwise
// disjoint, by comparing their truth tables cell-by-cell: it returns false
// when some cell satisfies two or more edges.
func (g *Graph) DisjointnessCheck(uid string, domains []*enum.Domain, cache *symbolic.Cache) bool {
	edges := g.out[uid]
	if len(edges) < 2 {
		return true
	}
	tables := make([][]symbolic.Expr, len(edges))
	for i, e := range edges {
		tables[i] = enum.BruteForce(cache.Simplify(e.Filter), domains, cache)
	}
	ncells := 0
	if len(tables) > 0 {
		ncells = len(tables[0])
	}
	for cell := 0; cell < ncells; cell++ {
		covered := 0
		for _, t := range tables {
			if symbolic.IsTrue(t[cell]) {
				covered++
			}
		}
		if covered > 1 {
			return false
		}
	}
	return true
}

// GraphDisjointnessCheck runs DisjointnessCheck over every node reachable
// from source, returning one DisjointnessError for every offending page.
func (g *Graph) GraphDisjointnessCheck(domains []*enum.Domain, cache *symbolic.Cache) []error {
	var errs []error
	for _, uid := range g.bfsOrder() {
		if !g.DisjointnessCheck(uid, domains, cache) {
			errs = append(errs, &fbcerrors.DisjointnessError{Page: uid})
		}
	}
	return errs
}

// TerminalReachability verifies the completeness property: every
// out-degree-zero node's predicate must be true after propagation.
func (g *Graph) TerminalReachability() []error {
	var errs []error
	for _, uid := range g.bfsOrder() {
		if len(g.out[uid]) != 0 {
			continue
		}
		p, ok := g.pred[uid]
		if !ok {
			continue
		}
		if !symbolic.IsTrue(p) {
			errs = append(errs, &fbcerrors.ReachabilityError{Page: uid, Pred: exprString(p)})
		}
	}
	return errs
}

func exprString(e symbolic.Expr) string {
	if e == nil {
		return "<nil>"
	}
	return symbolic.Key(e)
}
