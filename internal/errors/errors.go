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

// Package errors defines the checker's diagnostic taxonomy. Every kind of
// failure is a concrete type implementing the Error interface below, so
// callers can type-switch or errors.As into the specific offender data
// (offending page uid, expression position, conflicting enum members) that
// every diagnostic carries.
package errors

import (
	"fmt"
	"strings"

	"github.com/christian-fr/filter-branching-check-fork/internal/token"
)

// Error is the common interface implemented by every diagnostic kind.
type Error interface {
	error
	// Position returns the source position most relevant to the error, or
	// token.NoPos if the error is not tied to a guard expression location.
	Position() token.Pos
	// Kind returns the taxonomy name, e.g. "SoundnessError".
	Kind() string
}

// List accumulates diagnostics from independent units of work (every
// page's guards, every enum domain) that are checked exhaustively rather
// than aborting on the first failure.
type List []Error

func (l List) Error() string {
	var b strings.Builder
	for i, e := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Error())
	}
	return b.String()
}

// Add appends err to the list if it is non-nil.
func (l *List) Add(err Error) {
	if err != nil {
		*l = append(*l, err)
	}
}

// LoadError reports that the questionnaire document could not be read or
// parsed as XML.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string        { return fmt.Sprintf("load %s: %v", e.Path, e.Err) }
func (e *LoadError) Position() token.Pos  { return token.NoPos }
func (e *LoadError) Kind() string         { return "LoadError" }
func (e *LoadError) Unwrap() error        { return e.Err }

// UndeclaredVariableError reports a page body reference to a name that was
// never declared in <variables> or <preloads>.
type UndeclaredVariableError struct {
	Page     string
	Variable string
}

func (e *UndeclaredVariableError) Error() string {
	return fmt.Sprintf("page %q references undeclared variable %q", e.Page, e.Variable)
}
func (e *UndeclaredVariableError) Position() token.Pos { return token.NoPos }
func (e *UndeclaredVariableError) Kind() string        { return "UndeclaredVariable" }

// EnumConflictError reports that a variable's response domain was declared
// with differing uid->value maps on two different pages.
type EnumConflictError struct {
	Variable   string
	FirstPage  string
	SecondPage string
	Detail     string
}

func (e *EnumConflictError) Error() string {
	return fmt.Sprintf("variable %q has conflicting response domains on pages %q and %q: %s",
		e.Variable, e.FirstPage, e.SecondPage, e.Detail)
}
func (e *EnumConflictError) Position() token.Pos { return token.NoPos }
func (e *EnumConflictError) Kind() string        { return "EnumConflict" }

// EmptyEnumError reports an enum-typed variable with zero declared members.
type EmptyEnumError struct {
	Variable string
}

func (e *EmptyEnumError) Error() string {
	return fmt.Sprintf("enum variable %q has no members", e.Variable)
}
func (e *EmptyEnumError) Position() token.Pos { return token.NoPos }
func (e *EmptyEnumError) Kind() string        { return "EmptyEnum" }

// ParseError reports that a guard expression is not in the grammar.
type ParseError struct {
	At  token.Pos
	Msg string
}

func (e *ParseError) Error() string       { return fmt.Sprintf("parse error at %d: %s", e.At, e.Msg) }
func (e *ParseError) Position() token.Pos { return e.At }
func (e *ParseError) Kind() string        { return "ParseError" }

// UnknownIdentifierError reports that a lookup could not resolve a segment
// against the active scope.
type UnknownIdentifierError struct {
	At   token.Pos
	Name string
}

func (e *UnknownIdentifierError) Error() string {
	return fmt.Sprintf("unknown identifier %q at %d", e.Name, e.At)
}
func (e *UnknownIdentifierError) Position() token.Pos { return e.At }
func (e *UnknownIdentifierError) Kind() string        { return "UnknownIdentifier" }

// MacroTypeError reports a built-in macro call with argument kinds that do
// not match its declared signature.
type MacroTypeError struct {
	At    token.Pos
	Macro string
	Msg   string
}

func (e *MacroTypeError) Error() string {
	return fmt.Sprintf("%d: bad arguments to %s(): %s", e.At, e.Macro, e.Msg)
}
func (e *MacroTypeError) Position() token.Pos { return e.At }
func (e *MacroTypeError) Kind() string        { return "MacroTypeError" }

// TypeError reports that operand types did not match what an operator
// requires.
type TypeError struct {
	At       token.Pos
	Expr     string
	Got      string
	Expected string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%d: type error in %s: got %s, expected %s", e.At, e.Expr, e.Got, e.Expected)
}
func (e *TypeError) Position() token.Pos { return e.At }
func (e *TypeError) Kind() string        { return "TypeError" }

// EnumDomainError reports a relop literal absent from its enum, an
// inequality attempted on a non-numeric enum, or an inequality whose lowered
// disjunction is empty (unreachable guard).
type EnumDomainError struct {
	At       token.Pos
	Variable string
	Msg      string
}

func (e *EnumDomainError) Error() string {
	return fmt.Sprintf("%d: enum domain error on %q: %s", e.At, e.Variable, e.Msg)
}
func (e *EnumDomainError) Position() token.Pos { return e.At }
func (e *EnumDomainError) Kind() string        { return "EnumDomainError" }

// InDegreeError reports that the page graph does not have exactly one
// zero-in-degree node.
type InDegreeError struct {
	ZeroInDegree []string
}

func (e *InDegreeError) Error() string {
	return fmt.Sprintf("expected exactly one source page, found %d: %s",
		len(e.ZeroInDegree), strings.Join(e.ZeroInDegree, ", "))
}
func (e *InDegreeError) Position() token.Pos { return token.NoPos }
func (e *InDegreeError) Kind() string        { return "InDegreeError" }

// SoundnessError reports pages whose outbound guard disjunction is not a
// tautology.
type SoundnessError struct {
	Offenders []string
}

func (e *SoundnessError) Error() string {
	return fmt.Sprintf("pages not sound (outbound guards do not cover every case): %s",
		strings.Join(e.Offenders, ", "))
}
func (e *SoundnessError) Position() token.Pos { return token.NoPos }
func (e *SoundnessError) Kind() string        { return "SoundnessError" }

// DisjointnessError reports a page with two outbound edges whose guards
// share a satisfying cell.
type DisjointnessError struct {
	Page string
}

func (e *DisjointnessError) Error() string {
	return fmt.Sprintf("page %q has overlapping outbound guards", e.Page)
}
func (e *DisjointnessError) Position() token.Pos { return token.NoPos }
func (e *DisjointnessError) Kind() string        { return "DisjointnessError" }

// PropagationError reports that a full breadth-first pass over the graph
// made no progress evaluating node predicates, which can only happen if the
// graph contains a cycle reachable from source.
type PropagationError struct {
	Remaining []string
}

func (e *PropagationError) Error() string {
	return fmt.Sprintf("could not evaluate predicates for pages (cycle?): %s",
		strings.Join(e.Remaining, ", "))
}
func (e *PropagationError) Position() token.Pos { return token.NoPos }
func (e *PropagationError) Kind() string        { return "PropagationError" }

// ReachabilityError reports a terminal page whose predicate did not reduce
// to true after propagation.
type ReachabilityError struct {
	Page string
	Pred string
}

func (e *ReachabilityError) Error() string {
	return fmt.Sprintf("terminal page %q is only reachable under %s, not unconditionally", e.Page, e.Pred)
}
func (e *ReachabilityError) Position() token.Pos { return token.NoPos }
func (e *ReachabilityError) Kind() string        { return "ReachabilityError" }
