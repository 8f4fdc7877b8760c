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

// Package render writes the page graph as GraphViz DOT text, labelling each
// node with its computed predicate and each edge with its (tightened)
// filter. Rasterization is left to an external dot binary.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/christian-fr/filter-branching-check-fork/internal/graph"
	"github.com/christian-fr/filter-branching-check-fork/internal/symbolic"
)

const dotTmpl = `digraph questionnaire {
	rankdir=LR;
	node [shape=box];
{{- range .Nodes}}
	{{.ID}} [label="{{.Label}}"];
{{- end}}
{{range .Edges}}
	{{.From}} -> {{.To}} [label="{{.Label}}"];
{{- end}}
}
`

type dotNode struct {
	ID    string
	Label string
}

type dotEdge struct {
	From, To, Label string
}

type dotData struct {
	Nodes []dotNode
	Edges []dotEdge
}

var tmpl = template.Must(template.New("dot").Parse(dotTmpl))

// WriteDOT renders g as a DOT digraph to w. Node labels show the uid and its
// predicate (when one has been computed); edge labels show the guard
// filter, or "true" when it was tightened away entirely.
func WriteDOT(w io.Writer, g *graph.Graph) error {
	data := dotData{}
	for _, uid := range g.Nodes {
		label := uid
		if p, ok := g.Pred(uid); ok {
			label = fmt.Sprintf("%s\\npred: %s", uid, describe(p))
		}
		data.Nodes = append(data.Nodes, dotNode{ID: quoteID(uid), Label: escape(label)})
		for _, e := range g.Out(uid) {
			filter := e.Filter
			if e.Tightened != nil {
				filter = e.Tightened
			}
			data.Edges = append(data.Edges, dotEdge{
				From:  quoteID(uid),
				To:    quoteID(e.To),
				Label: escape(describe(filter)),
			})
		}
	}
	return tmpl.Execute(w, data)
}

func describe(e symbolic.Expr) string {
	if e == nil {
		return "?"
	}
	if symbolic.IsTrue(e) {
		return "true"
	}
	if symbolic.IsFalse(e) {
		return "false"
	}
	return symbolic.Key(e)
}

func quoteID(uid string) string {
	return `"` + strings.ReplaceAll(uid, `"`, `\"`) + `"`
}

func escape(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
