// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"tscheck.io/tsc/syntax/src"
	"tscheck.io/tsc/syntax/token"
)

// TemplateParts is the scanner payload for a template literal: the
// text segments and the raw source of each ${} substitution, scanned
// with balanced braces. The parser re-parses the substitutions.
type TemplateParts struct {
	Texts []string
	Subs  []string
}

func newScanner(filename string, src []byte) *Scanner {
	s := &Scanner{
		Filename: filename,
		Line:     1,
		src:      src,
	}
	s.reset()
	return s
}

// Scanner tokenizes a source buffer. It is a plain value; copying it
// snapshots the scan state, which the parser uses for backtracking.
type Scanner struct {
	// Current token
	Line    int32
	Column  int16
	Offset  int
	Token   token.Token
	Literal interface{} // string, float64, TemplateParts

	// NewlineBefore reports whether a line break preceded the token,
	// for semicolon insertion decisions.
	NewlineBefore bool

	// TypeComment holds the payload of a /*: T */ comment directly
	// before the current token, for inline binding annotations.
	TypeComment string

	Filename string

	src  []byte
	r    rune
	off  int // offset of r
	next int // offset after r
	col  int16
	err  error
}

// AtEOF reports whether the input is exhausted.
func (s *Scanner) AtEOF() bool { return s.r == -1 }

func (s *Scanner) Pos() src.Pos {
	return src.Pos{Filename: s.Filename, Line: s.Line, Column: s.Column}
}

func (s *Scanner) errorf(format string, a ...interface{}) {
	s.err = fmt.Errorf("%s: %s", s.Pos(), fmt.Sprintf(format, a...))
}

func (s *Scanner) advance() {
	s.off = s.next
	if s.next >= len(s.src) {
		s.r = -1
		return
	}
	r, w := rune(s.src[s.next]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.next:])
	}
	s.next += w
	s.col++
	if r == '\n' {
		s.Line++
		s.col = 0
	}
	s.r = r
}

func (s *Scanner) peekByte() byte {
	if s.next < len(s.src) {
		return s.src[s.next]
	}
	return 0
}

func (s *Scanner) reset() {
	s.off = -1
	s.next = 0
	s.r = 0
	s.advance()
}

func (s *Scanner) skipWhitespace() {
	for s.r == ' ' || s.r == '\t' || s.r == '\r' || s.r == '\n' {
		if s.r == '\n' {
			s.NewlineBefore = true
		}
		s.advance()
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func (s *Scanner) scanIdentifier() string {
	start := s.off
	for isIdentPart(s.r) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

func (s *Scanner) scanNumber() (token.Token, interface{}) {
	start := s.off
	for unicode.IsDigit(s.r) || s.r == '.' || s.r == 'e' || s.r == 'E' ||
		s.r == 'x' || s.r == 'X' || s.r == 'o' || s.r == 'O' ||
		s.r == 'b' || s.r == 'B' || s.r == '_' ||
		(s.r >= 'a' && s.r <= 'f') || (s.r >= 'A' && s.r <= 'F') {
		// Hex digits overlap with the exponent marker; ParseFloat and
		// ParseUint sort it out below.
		s.advance()
	}
	text := string(s.src[start:s.off])
	if s.r == 'n' {
		s.advance()
		return token.Bigint, text
	}
	if len(text) > 2 && (text[1] == 'x' || text[1] == 'X' || text[1] == 'o' || text[1] == 'O' || text[1] == 'b' || text[1] == 'B') {
		v, err := strconv.ParseUint(text[2:], base(text[1]), 64)
		if err != nil {
			s.errorf("bad number literal %q", text)
			return token.Number, float64(0)
		}
		return token.Number, float64(v)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		s.errorf("bad number literal %q", text)
		v = 0
	}
	return token.Number, v
}

func base(marker byte) int {
	switch marker {
	case 'x', 'X':
		return 16
	case 'o', 'O':
		return 8
	default:
		return 2
	}
}

func (s *Scanner) scanString(quote rune) string {
	var out []rune
	s.advance() // consume opening quote
	for s.r != quote {
		if s.r == -1 || s.r == '\n' {
			s.errorf("unterminated string literal")
			break
		}
		if s.r == '\\' {
			s.advance()
			out = append(out, unescape(s.r))
			s.advance()
			continue
		}
		out = append(out, s.r)
		s.advance()
	}
	if s.r == quote {
		s.advance()
	}
	return string(out)
}

func unescape(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return r
	}
}

// scanTemplate consumes a whole template literal, capturing the raw
// source of each substitution so the parser can re-parse it.
func (s *Scanner) scanTemplate() TemplateParts {
	var p TemplateParts
	var text []rune
	s.advance() // consume opening backtick
	for {
		switch {
		case s.r == -1:
			s.errorf("unterminated template literal")
			p.Texts = append(p.Texts, string(text))
			return p
		case s.r == '`':
			s.advance()
			p.Texts = append(p.Texts, string(text))
			return p
		case s.r == '\\':
			s.advance()
			text = append(text, unescape(s.r))
			s.advance()
		case s.r == '$' && s.peekByte() == '{':
			s.advance() // {
			s.advance() // first rune of the substitution
			p.Texts = append(p.Texts, string(text))
			text = nil
			depth := 1
			start := s.off
			for depth > 0 && s.r != -1 {
				switch s.r {
				case '{':
					depth++
				case '}':
					depth--
				}
				if depth > 0 {
					s.advance()
				}
			}
			p.Subs = append(p.Subs, string(s.src[start:s.off]))
			if s.r == '}' {
				s.advance()
			} else {
				s.errorf("unterminated template substitution")
			}
		default:
			text = append(text, s.r)
			s.advance()
		}
	}
}

func (s *Scanner) scanComment() {
	if s.r == '/' { // line comment
		for s.r != '\n' && s.r != -1 {
			s.advance()
		}
		return
	}
	// block comment
	s.advance()
	start := s.off
	for {
		if s.r == -1 {
			s.errorf("unterminated comment")
			return
		}
		if s.r == '*' && s.peekByte() == '/' {
			text := string(s.src[start:s.off])
			if strings.HasPrefix(text, ":") {
				s.TypeComment = strings.TrimSpace(text[1:])
			}
			s.advance()
			s.advance()
			return
		}
		s.advance()
	}
}

// Next advances the scanner to the next token.
func (s *Scanner) Next() error {
	s.NewlineBefore = false
	s.TypeComment = ""
	for {
		s.skipWhitespace()
		if s.r == '/' && (s.peekByte() == '/' || s.peekByte() == '*') {
			s.advance()
			s.scanComment()
			continue
		}
		break
	}
	s.Column, s.Offset = s.col, s.off
	s.Literal = nil

	switch {
	case s.r == -1:
		s.Token = token.Unknown
		return s.err
	case isIdentStart(s.r):
		word := s.scanIdentifier()
		if t := token.Keyword(word); t != token.Unknown {
			s.Token = t
		} else {
			s.Token = token.Ident
			s.Literal = word
		}
		return s.err
	case unicode.IsDigit(s.r):
		s.Token, s.Literal = s.scanNumber()
		return s.err
	case s.r == '"' || s.r == '\'':
		s.Token = token.String
		s.Literal = s.scanString(s.r)
		return s.err
	case s.r == '`':
		s.Token = token.Template
		s.Literal = s.scanTemplate()
		return s.err
	}

	r := s.r
	s.advance()
	switch r {
	case '+':
		s.Token = s.sel2('+', token.Inc, '=', token.AddAssign, token.Add)
	case '-':
		s.Token = s.sel2('-', token.Dec, '=', token.SubAssign, token.Sub)
	case '*':
		if s.r == '*' {
			s.advance()
			s.Token = token.Pow
		} else {
			s.Token = s.sel('=', token.MulAssign, token.Mul)
		}
	case '/':
		s.Token = s.sel('=', token.DivAssign, token.Div)
	case '%':
		s.Token = s.sel('=', token.RemAssign, token.Rem)
	case '&':
		s.Token = s.sel('&', token.LogicalAnd, token.Amp)
	case '|':
		s.Token = s.sel('|', token.LogicalOr, token.Pipe)
	case '^':
		s.Token = token.Caret
	case '~':
		s.Token = token.Tilde
	case '=':
		if s.r == '=' {
			s.advance()
			s.Token = s.sel('=', token.StrictEqual, token.Equal)
		} else if s.r == '>' {
			s.advance()
			s.Token = token.Arrow
		} else {
			s.Token = token.Assign
		}
	case '!':
		if s.r == '=' {
			s.advance()
			s.Token = s.sel('=', token.StrictNotEqual, token.NotEqual)
		} else {
			s.Token = token.Not
		}
	case '<':
		s.Token = s.sel('=', token.LessEqual, token.Less)
	case '>':
		s.Token = s.sel('=', token.GreaterEqual, token.Greater)
	case '?':
		if s.r == '?' {
			s.advance()
			s.Token = token.Nullish
		} else if s.r == '.' {
			s.advance()
			s.Token = token.QuestionDot
		} else {
			s.Token = token.Question
		}
	case '.':
		if s.r == '.' && s.peekByte() == '.' {
			s.advance()
			s.advance()
			s.Token = token.Ellipsis
		} else {
			s.Token = token.Period
		}
	case '#':
		s.Token = token.Hash
	case '(':
		s.Token = token.LeftParen
	case ')':
		s.Token = token.RightParen
	case '[':
		s.Token = token.LeftBracket
	case ']':
		s.Token = token.RightBracket
	case '{':
		s.Token = token.LeftBrace
	case '}':
		s.Token = token.RightBrace
	case ',':
		s.Token = token.Comma
	case ';':
		s.Token = token.Semicolon
	case ':':
		s.Token = token.Colon
	default:
		s.errorf("unknown character %q", r)
		s.Token = token.Unknown
	}
	return s.err
}

func (s *Scanner) sel(r2 rune, t2, t1 token.Token) token.Token {
	if s.r == r2 {
		s.advance()
		return t2
	}
	return t1
}

func (s *Scanner) sel2(ra rune, ta token.Token, rb rune, tb token.Token, t token.Token) token.Token {
	if s.r == ra {
		s.advance()
		return ta
	}
	if s.r == rb {
		s.advance()
		return tb
	}
	return t
}
