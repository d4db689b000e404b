// Package parser implements a recursive-descent parser that turns a
// Crosscut token stream into a lang/ast.Program. Parsing is total: on a
// syntax error the parser records a diagnostic and synthesizes a BadExpr
// placeholder that keeps its location, so that unrelated parts of the
// program still parse and can still be compiled and run (partial
// compilation always succeeds when possible).
package parser

import (
	"fmt"

	goscanner "go/scanner"

	"github.com/mna/crosscut/lang/ast"
	"github.com/mna/crosscut/lang/scanner"
	"github.com/mna/crosscut/lang/token"
)

// ErrorList is the standard library's scanner.ErrorList, reused for the
// same reason lang/scanner reuses it: sorted, position-aware diagnostics.
type ErrorList = goscanner.ErrorList

// ParseFiles tokenizes and parses the given source files into a single
// combined Program (functions are appended in file, then source, order).
// The returned error, when non-nil, is an ErrorList gathering both scan and
// parse diagnostics.
func ParseFiles(fset *token.FileSet, files ...string) (*ast.Program, error) {
	toksByFile, scanErr := scanner.ScanFiles(fset, files...)

	prog := &ast.Program{Functions: make(map[ast.FunctionIndex]*ast.NamedFunction)}
	var errs ErrorList
	if el, ok := scanErr.(*ErrorList); ok {
		errs = *el
	} else if scanErr != nil {
		errs.Add(token.Position{}, scanErr.Error())
	}

	for _, toks := range toksByFile {
		p := &parser{toks: toks, fset: fset}
		p.parseProgram(prog)
		errs = append(errs, p.errs...)
	}
	errs.Sort()
	if err := errs.Err(); err != nil {
		return prog, err
	}
	return prog, nil
}

// ParseString parses src as a single file named name; useful for tests and
// for the debugger's edit-and-recompile loop where source lives in memory.
func ParseString(fset *token.FileSet, name, src string) (*ast.Program, error) {
	f := fset.AddFile(name, -1, len(src))
	var s scanner.Scanner
	var errs ErrorList
	s.Init(f, []byte(src), errs.Add)

	var toks []scanner.TokenAndValue
	var val scanner.Value
	for {
		tok := s.Scan(&val)
		toks = append(toks, scanner.TokenAndValue{Token: tok, Value: val})
		if tok == token.EOF {
			break
		}
	}

	prog := &ast.Program{Functions: make(map[ast.FunctionIndex]*ast.NamedFunction)}
	p := &parser{toks: toks, fset: fset}
	p.parseProgram(prog)
	errs = append(errs, p.errs...)
	errs.Sort()
	if err := errs.Err(); err != nil {
		return prog, err
	}
	return prog, nil
}

type parser struct {
	toks []scanner.TokenAndValue
	pos  int
	errs ErrorList
	fset *token.FileSet
}

func (p *parser) cur() scanner.TokenAndValue { return p.toks[p.pos] }
func (p *parser) curTok() token.Token        { return p.toks[p.pos].Token }
func (p *parser) curPos() token.Pos          { return p.toks[p.pos].Value.Pos }
func (p *parser) atEOF() bool                { return p.curTok() == token.EOF }

func (p *parser) advance() scanner.TokenAndValue {
	tv := p.toks[p.pos]
	if tv.Token != token.EOF {
		p.pos++
	}
	return tv
}

func (p *parser) error(pos token.Pos, format string, args ...any) {
	var position token.Position
	if p.fset != nil {
		position = p.fset.Position(pos)
	}
	p.errs.Add(position, fmt.Sprintf(format, args...))
}

// expect consumes and returns the current token if it matches tok,
// otherwise records an error and returns the current position without
// advancing (so callers can resync).
func (p *parser) expect(tok token.Token) (token.Pos, bool) {
	if p.curTok() == tok {
		tv := p.advance()
		return tv.Value.Pos, true
	}
	p.error(p.curPos(), "expected %#v, found %#v", tok, p.curTok())
	return p.curPos(), false
}

// syncTo advances until the current token is one of the given tokens, or
// EOF, without consuming it.
func (p *parser) syncTo(toks ...token.Token) {
	for !p.atEOF() {
		cur := p.curTok()
		for _, t := range toks {
			if cur == t {
				return
			}
		}
		p.advance()
	}
}
