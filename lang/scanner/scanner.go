// Some of the scanner package is adapted from the Go source code:
// https://cs.opensource.google/go/go/+/refs/tags/go1.22.1:src/go/scanner/scanner.go
//
// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scanner tokenizes Crosscut source files into a flat token stream
// for the parser to consume. Tokenization is single-pass and total: any
// input, however malformed, produces a token stream (possibly containing
// ILLEGAL tokens), never a scan-time abort.
package scanner

import (
	"fmt"
	goscanner "go/scanner"
	"os"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/mna/crosscut/lang/token"
)

type (
	// Error and ErrorList are the standard library's scanner error types,
	// reused as-is: they already provide sorted, position-aware diagnostics
	// good enough for every later compile stage to attach errors to.
	Error     = goscanner.Error
	ErrorList = goscanner.ErrorList
)

// PrintError prints err, which may be a single Error, an ErrorList, or any
// other error value.
var PrintError = goscanner.PrintError

// Value holds the literal text and any decoded payload of a scanned token.
type Value struct {
	Raw string    // the exact source text of the token
	Pos token.Pos // position of the first character
	Int int64     // decoded value, valid only when Token == token.INT
}

// TokenAndValue combines a token with its scanned value.
type TokenAndValue struct {
	Token token.Token
	Value Value
}

// ScanFiles tokenizes the given source files and returns the token list for
// each, aligned by index, along with any scan errors. The returned error, if
// non-nil, implements Unwrap() []error (it is an ErrorList).
func ScanFiles(fset *token.FileSet, files ...string) ([][]TokenAndValue, error) {
	if len(files) == 0 {
		return nil, nil
	}

	var (
		s   Scanner
		val Value
		el  ErrorList
	)

	out := make([][]TokenAndValue, len(files))
	for i, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			el.Add(token.Position{Filename: file}, err.Error())
			continue
		}

		f := fset.AddFile(file, -1, len(b))
		s.Init(f, b, el.Add)
		for {
			tok := s.Scan(&val)
			out[i] = append(out[i], TokenAndValue{Token: tok, Value: val})
			if tok == token.EOF {
				break
			}
		}
	}
	el.Sort()
	return out, el.Err()
}

// Scanner tokenizes a single source file.
type Scanner struct {
	file *token.File
	src  []byte
	err  func(pos token.Position, msg string)

	cur  rune // current character, -1 at EOF
	off  int  // byte offset of cur
	roff int  // byte offset just past cur
}

// Init prepares s to scan src, which must have the same length as file's
// recorded size.
func (s *Scanner) Init(file *token.File, src []byte, errHandler func(token.Position, string)) {
	if file.Size() != len(src) {
		panic("scanner: file size does not match src length")
	}
	s.file = file
	s.src = src
	s.err = errHandler
	s.cur = ' '
	s.off = 0
	s.roff = 0
	s.advance()
}

func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

func (s *Scanner) advance() {
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		if s.cur == '\n' {
			s.file.AddLine(s.off)
		}
		s.cur = -1
		return
	}
	s.off = s.roff
	if s.cur == '\n' {
		s.file.AddLine(s.off)
	}
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
		if r == utf8.RuneError && w == 1 {
			s.error(s.off, "illegal UTF-8 encoding")
		}
	}
	s.roff += w
	s.cur = r
}

func (s *Scanner) error(off int, msg string) {
	if s.err != nil {
		s.err(s.file.Position(s.file.Pos(off)), msg)
	}
}

func (s *Scanner) errorf(off int, format string, args ...any) {
	s.error(off, fmt.Sprintf(format, args...))
}

// Scan returns the next token and fills in its value.
func (s *Scanner) Scan(val *Value) (tok token.Token) {
	s.skipWhitespace()

	pos := s.file.Pos(s.off)
	start := s.off

	switch cur := s.cur; {
	case isIdentStart(cur):
		lit := s.ident()
		tok = token.LookupIdent(lit)
		*val = Value{Raw: lit, Pos: pos}

	case isDigit(cur):
		lit := s.number()
		tok = token.INT
		*val = Value{Raw: lit, Pos: pos}
		val.Int = s.decodeInt(start, lit)

	case cur == '-' && isDigit(rune(s.peek())):
		s.advance() // consume '-'
		lit := "-" + s.number()
		tok = token.INT
		*val = Value{Raw: lit, Pos: pos}
		val.Int = s.decodeInt(start, lit)

	case cur == '#':
		lit := s.comment()
		tok = token.COMMENT
		*val = Value{Raw: lit, Pos: pos}

	default:
		s.advance() // always make progress
		switch cur {
		case '{':
			tok = token.LBRACE
		case '}':
			tok = token.RBRACE
		case ':':
			tok = token.COLON
		case ',':
			tok = token.COMMA
		case '.':
			tok = token.DOT
		case '\\':
			tok = token.BACK
		case '-':
			if s.cur == '>' {
				s.advance()
				tok = token.ARROW
			} else {
				s.error(start, "illegal character '-': expected '->' or a negative integer literal")
				tok = token.ILLEGAL
			}
		case -1:
			tok = token.EOF
		default:
			s.errorf(start, "illegal character %#U", cur)
			tok = token.ILLEGAL
		}
		*val = Value{Raw: tok.String(), Pos: pos}
		if tok == token.EOF {
			val.Raw = ""
		}
	}
	return tok
}

func (s *Scanner) ident() string {
	start := s.off
	for isIdentPart(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

func (s *Scanner) number() string {
	start := s.off
	for isDigit(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

func (s *Scanner) comment() string {
	start := s.off
	for s.cur != '\n' && s.cur != -1 {
		s.advance()
	}
	return string(s.src[start:s.off])
}

func (s *Scanner) decodeInt(start int, lit string) int64 {
	v, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		s.error(start, "integer literal value out of range")
	}
	return v
}

func (s *Scanner) skipWhitespace() {
	for isWhitespace(s.cur) {
		s.advance()
	}
}

func isWhitespace(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' }

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
