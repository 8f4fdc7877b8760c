// Package loader reads a zofar questionnaire XML document (namespace
// http://www.his.de/zofar/xml/questionnaire) into the data model of package
// model: declared variables (with the PRELOAD name prefix for preload items
// and singleChoiceAnswerOption aliased to enum), page transitions, and a
// recursive body walk that accumulates "visible" guards and collects
// "variable" references and response domains.
package loader

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"

	fbcerrors "github.com/christian-fr/filter-branching-check-fork/internal/errors"
	"github.com/christian-fr/filter-branching-check-fork/internal/model"
)

// node is a generic recursive XML element: every attribute and every child
// element is captured regardless of name, so an arbitrarily nested <body>
// can be walked without a fixed schema.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []node     `xml:",any"`
}

func (n *node) attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

type xmlPreloadItem struct {
	Variable string `xml:"variable,attr"`
}

type xmlPreload struct {
	Items []xmlPreloadItem `xml:"preloadItem"`
}

type xmlPreloads struct {
	Preloads []xmlPreload `xml:"preload"`
}

type xmlVariable struct {
	Name string `xml:"name,attr"`
	Type string `xml:"type,attr"`
}

type xmlVariables struct {
	Variables []xmlVariable `xml:"variable"`
}

type xmlTransition struct {
	Target    string  `xml:"target,attr"`
	Condition *string `xml:"condition,attr"`
}

type xmlTransitions struct {
	Transitions []xmlTransition `xml:"transition"`
}

type xmlPage struct {
	UID         string          `xml:"uid,attr"`
	Body        *node           `xml:"body"`
	Transitions *xmlTransitions `xml:"transitions"`
}

type xmlQuestionnaire struct {
	XMLName   xml.Name      `xml:"questionnaire"`
	Preloads  *xmlPreloads  `xml:"preloads"`
	Variables *xmlVariables `xml:"variables"`
	Pages     []xmlPage     `xml:"page"`
}

// varTypeAlias maps the XML `type` attribute vocabulary onto model.VarType.
var varTypeAlias = map[string]model.VarType{
	"string":                   model.TString,
	"number":                   model.TNumber,
	"boolean":                  model.TBoolean,
	"singleChoiceAnswerOption": model.TEnum,
}

// Load reads and parses the questionnaire document at path.
func Load(path string) (*model.Questionnaire, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &fbcerrors.LoadError{Path: path, Err: err}
	}
	defer f.Close()

	var doc xmlQuestionnaire
	if err := xml.NewDecoder(f).Decode(&doc); err != nil {
		return nil, &fbcerrors.LoadError{Path: path, Err: err}
	}

	q, err := fromXML(&doc)
	if err != nil {
		if fe, ok := err.(fbcerrors.Error); ok {
			return nil, fe
		}
		return nil, &fbcerrors.LoadError{Path: path, Err: err}
	}
	return q, nil
}

func fromXML(doc *xmlQuestionnaire) (*model.Questionnaire, error) {
	variables := map[string]model.Variable{}

	if doc.Preloads != nil {
		for _, p := range doc.Preloads.Preloads {
			for _, item := range p.Items {
				if item.Variable == "" {
					continue
				}
				name := "PRELOAD" + item.Variable
				variables[name] = model.Variable{Name: name, Type: model.TString, IsPreload: true}
			}
		}
	}

	if doc.Variables != nil {
		for _, v := range doc.Variables.Variables {
			if v.Name == "" || v.Type == "" {
				continue
			}
			typ, ok := varTypeAlias[v.Type]
			if !ok {
				return nil, fmt.Errorf("variable %q declares unknown type %q", v.Name, v.Type)
			}
			variables[v.Name] = model.Variable{Name: v.Name, Type: typ}
		}
	}

	pages := make([]model.Page, 0, len(doc.Pages))
	seenUIDs := map[string]bool{}
	for _, xp := range doc.Pages {
		if seenUIDs[xp.UID] {
			return nil, fmt.Errorf("duplicate page uid %q", xp.UID)
		}
		seenUIDs[xp.UID] = true

		page := model.Page{UID: xp.UID}

		if xp.Transitions != nil {
			for _, t := range xp.Transitions.Transitions {
				page.Transitions = append(page.Transitions, model.Transition{
					TargetUID: t.Target,
					Condition: t.Condition,
				})
			}
		}

		if xp.Body != nil {
			refs, err := varRefs(xp.UID, xp.Body, variables, nil)
			if err != nil {
				return nil, err
			}
			page.VarRefs = refs

			domains, err := responseDomains(xp.Body, variables)
			if err != nil {
				return nil, fmt.Errorf("page %q: %w", xp.UID, err)
			}
			page.ResponseDomains = domains
		}

		pages = append(pages, page)
	}

	return &model.Questionnaire{Variables: variables, Pages: pages}, nil
}

// varRefs recursively walks n, accumulating "visible" guards and collecting
// one VarRef per descendant carrying a "variable" attribute.
func varRefs(pageUID string, n *node, variables map[string]model.Variable, visible []string) ([]model.VarRef, error) {
	if v, ok := n.attr("visible"); ok {
		visible = append(append([]string{}, visible...), v)
	}

	var out []model.VarRef
	if v, ok := n.attr("variable"); ok && n.XMLName.Local != "responseDomain" {
		if _, declared := variables[v]; !declared {
			return nil, &fbcerrors.UndeclaredVariableError{Page: pageUID, Variable: v}
		}
		out = append(out, model.VarRef{Variable: v, Visibility: append([]string{}, visible...)})
	}

	for i := range n.Children {
		child, err := varRefs(pageUID, &n.Children[i], variables, visible)
		if err != nil {
			return nil, err
		}
		out = append(out, child...)
	}
	return out, nil
}

// responseDomains finds every <responseDomain variable="..."> descendant of
// n and collects its <answerOption> children. A response
// domain's own `variable` attribute is an enum declaration, not a plain
// variable reference, so varRefs above excludes it explicitly.
func responseDomains(n *node, variables map[string]model.Variable) ([]model.ResponseDomain, error) {
	var out []model.ResponseDomain
	if n.XMLName.Local == "responseDomain" {
		if v, ok := n.attr("variable"); ok {
			if _, declared := variables[v]; !declared {
				return nil, &fbcerrors.UndeclaredVariableError{Page: "", Variable: v}
			}
			opts, err := answerOptions(n)
			if err != nil {
				return nil, err
			}
			out = append(out, model.ResponseDomain{Variable: v, Options: opts})
		}
	}
	for i := range n.Children {
		child, err := responseDomains(&n.Children[i], variables)
		if err != nil {
			return nil, err
		}
		out = append(out, child...)
	}
	return out, nil
}

func answerOptions(domain *node) ([]model.AnswerOption, error) {
	var opts []model.AnswerOption
	var walk func(*node)
	walk = func(n *node) {
		if n.XMLName.Local == "answerOption" {
			uid, _ := n.attr("uid")
			label, _ := n.attr("label")
			valStr, _ := n.attr("value")
			val, err := strconv.Atoi(valStr)
			if err == nil {
				opts = append(opts, model.AnswerOption{UID: uid, Value: val, Label: label})
			}
		}
		for i := range n.Children {
			walk(&n.Children[i])
		}
	}
	for i := range domain.Children {
		walk(&domain.Children[i])
	}
	return opts, nil
}
