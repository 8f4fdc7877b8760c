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

// Package scanner implements a scanner for the guard expression language
// ("Spring-like" predicates over zofar questionnaire variables). It takes a
// string as source which can then be tokenized through repeated calls to
// Scan.
package scanner

import (
	"unicode"
	"unicode/utf8"

	"github.com/christian-fr/filter-branching-check-fork/internal/token"
)

// Scanner holds the scanning state for a single guard expression. It must be
// initialized via Init before use.
type Scanner struct {
	src []byte

	ch       rune // current character, -1 at EOF
	offset   int  // offset of ch
	rdOffset int  // offset of next rune to read

	ErrorCount int
	errFn      func(pos token.Pos, msg string)
}

const eof = -1

// Init prepares s to tokenize src. errFn, if non-nil, is invoked once for
// every illegal character encountered; scanning continues afterwards so that
// ILLEGAL tokens are still produced for the parser to report.
func Init(s *Scanner, src string, errFn func(pos token.Pos, msg string)) {
	s.src = []byte(src)
	s.errFn = errFn
	s.ErrorCount = 0
	s.offset = 0
	s.rdOffset = 0
	s.ch = ' '
	s.next()
}

func New(src string, errFn func(pos token.Pos, msg string)) *Scanner {
	s := &Scanner{}
	Init(s, src, errFn)
	return s
}

func (s *Scanner) next() {
	if s.rdOffset < len(s.src) {
		s.offset = s.rdOffset
		r, w := rune(s.src[s.rdOffset]), 1
		if r >= utf8.RuneSelf {
			r, w = utf8.DecodeRune(s.src[s.rdOffset:])
		}
		s.rdOffset += w
		s.ch = r
	} else {
		s.offset = len(s.src)
		s.ch = eof
	}
}

func (s *Scanner) error(pos int, msg string) {
	s.ErrorCount++
	if s.errFn != nil {
		s.errFn(token.Pos(pos), msg)
	}
}

func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentRune(ch rune) bool {
	return isLetter(ch) || isDigit(ch)
}

func (s *Scanner) skipWhitespace() {
	for s.ch == ' ' || s.ch == '\t' || s.ch == '\n' || s.ch == '\r' {
		s.next()
	}
}

// Scan returns the position, token kind, and literal text of the next token
// in the source. At the end of input it returns token.EOF repeatedly.
func (s *Scanner) Scan() (pos token.Pos, tok token.Token, lit string) {
	s.skipWhitespace()

	pos = token.Pos(s.offset)

	switch ch := s.ch; {
	case isLetter(ch):
		lit = s.scanIdentifier()
		tok = token.Lookup(lit)
	case isDigit(ch):
		tok, lit = s.scanNumber()
	default:
		s.next()
		switch ch {
		case eof:
			tok = token.EOF
		case '\'':
			tok = token.STRING
			lit = s.scanString(pos)
		case '(':
			tok = token.LPAREN
		case ')':
			tok = token.RPAREN
		case ',':
			tok = token.COMMA
		case '.':
			tok = token.DOT
		case '+':
			tok = token.PLUS
		case '-':
			tok = token.MINUS
		case '*':
			tok = token.STAR
		case '/':
			tok = token.SLASH
		case '!':
			if s.ch == '=' {
				s.next()
				tok = token.NEQ
			} else {
				tok = token.NOT
			}
		case '=':
			if s.ch == '=' {
				s.next()
				tok = token.EQ
			} else {
				s.error(int(pos), "illegal character '='; expected '=='")
				tok = token.ILLEGAL
				lit = "="
			}
		default:
			s.error(int(pos), "illegal character "+string(ch))
			tok = token.ILLEGAL
			lit = string(ch)
		}
	}
	return
}

func (s *Scanner) scanIdentifier() string {
	offs := s.offset
	for isIdentRune(s.ch) {
		s.next()
	}
	return string(s.src[offs:s.offset])
}

func (s *Scanner) scanNumber() (token.Token, string) {
	offs := s.offset
	tok := token.INT

	for isDigit(s.ch) {
		s.next()
	}
	if s.ch == '.' && isDigit(s.peek()) {
		tok = token.FLOAT
		s.next()
		for isDigit(s.ch) {
			s.next()
		}
	}
	if s.ch == 'e' || s.ch == 'E' {
		save, saveRd := s.offset, s.rdOffset
		s.next()
		if s.ch == '+' || s.ch == '-' {
			s.next()
		}
		if isDigit(s.ch) {
			tok = token.FLOAT
			for isDigit(s.ch) {
				s.next()
			}
		} else {
			s.offset, s.rdOffset = save, saveRd
			s.ch = rune(s.src[s.offset])
		}
	}
	return tok, string(s.src[offs:s.offset])
}

// scanString scans a single-quoted string literal, returning its decoded
// content (without the surrounding quotes). start is the position of the
// opening quote, already consumed by the caller.
func (s *Scanner) scanString(start token.Pos) string {
	offs := s.offset
	for s.ch != '\'' {
		if s.ch == eof || s.ch == '\n' {
			s.error(int(start), "string literal not terminated")
			return string(s.src[offs:s.offset])
		}
		s.next()
	}
	lit := string(s.src[offs:s.offset])
	s.next() // consume closing quote
	return lit
}

func (s *Scanner) peek() rune {
	if s.rdOffset < len(s.src) {
		r := rune(s.src[s.rdOffset])
		if r >= utf8.RuneSelf {
			r, _ = utf8.DecodeRune(s.src[s.rdOffset:])
		}
		return r
	}
	return eof
}
