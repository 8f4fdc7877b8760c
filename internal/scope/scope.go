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

// Package scope implements nested name resolution for guard expressions: a
// dictionary scope of declared variables composed with the fixed-keyset
// "zofar" module scope, expressed as a tagged sum of scope variants.
package scope

import "github.com/christian-fr/filter-branching-check-fork/internal/model"

// entry is what a single segment of a dotted lookup resolves to: either a
// nested Scope to continue descending into, or a leaf (a declared Variable,
// or a built-in macro descriptor).
type entry struct {
	child Scope
	vr    *model.Variable
	macro *Macro
}

// Scope is implemented by every scope variant (dictionary, object-with-
// fixed-keys/module).
type Scope interface {
	lookup(name string) (entry, bool)
}

// VarScope is the dictionary scope of declared questionnaire variables, plus
// the "zofar" module as a fixed child.
type VarScope struct {
	vars    map[string]model.Variable
	modules map[string]Scope
}

// NewVarScope builds the root scope for a questionnaire's declared
// variables, with the built-in zofar module attached.
func NewVarScope(vars map[string]model.Variable) *VarScope {
	return &VarScope{
		vars:    vars,
		modules: map[string]Scope{"zofar": zofarModule},
	}
}

func (s *VarScope) lookup(name string) (entry, bool) {
	if m, ok := s.modules[name]; ok {
		return entry{child: m}, true
	}
	if v, ok := s.vars[name]; ok {
		v := v
		return entry{vr: &v}, true
	}
	return entry{}, false
}

// Macro is a built-in zofar macro descriptor: its name, expected argument
// kind, and arity; expansion synthesizes the macro's result symbol.
type Macro struct {
	Name    string
	ArgKind ArgKind
	NumArgs int
}

// ArgKind enumerates the argument shapes a macro can require.
type ArgKind int

const (
	// ArgNone is the empty argument list of baseUrl()/isMobile().
	ArgNone ArgKind = iota
	// ArgOpaqueVariable is a bare variable reference, consumed by the macro
	// handler before ordinary resolution would turn it into a plain symbol
	// (asNumber(var), isMissing(var)).
	ArgOpaqueVariable
)

// moduleScope is an object scope with a fixed keyset: lookup never admits
// new names, dispatching to a statically known set of macros.
type moduleScope struct {
	macros map[string]*Macro
}

func (m moduleScope) lookup(name string) (entry, bool) {
	mac, ok := m.macros[name]
	if !ok {
		return entry{}, false
	}
	return entry{macro: mac}, true
}

// zofarModule is the single built-in module.
var zofarModule = moduleScope{
	macros: map[string]*Macro{
		"asNumber":  {Name: "asNumber", ArgKind: ArgOpaqueVariable, NumArgs: 1},
		"isMissing": {Name: "isMissing", ArgKind: ArgOpaqueVariable, NumArgs: 1},
		"baseUrl":   {Name: "baseUrl", ArgKind: ArgNone, NumArgs: 0},
		"isMobile":  {Name: "isMobile", ArgKind: ArgNone, NumArgs: 0},
	},
}

// resolveSegments descends into root following segs one at a time, returning the
// final leaf entry. ok is false if any segment fails to resolve (including
// indexing past a leaf that has no children).
func resolveSegments(root Scope, segs []string) (entry, bool) {
	cur := root
	var last entry
	for i, seg := range segs {
		e, ok := cur.lookup(seg)
		if !ok {
			return entry{}, false
		}
		last = e
		if i < len(segs)-1 {
			if e.child == nil {
				return entry{}, false
			}
			cur = e.child
		}
	}
	return last, true
}
