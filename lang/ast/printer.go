package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/mna/crosscut/lang/token"
)

// Printer pretty-prints a Program's syntax tree, one node per line with
// indentation showing nesting (adapted from the teacher's position-aware
// AST dumper, generalized to this module's function/branch/member tree
// instead of a statement/expression tree).
type Printer struct {
	// Output is the io.Writer to print to.
	Output io.Writer

	// Pos, when true, prefixes every node with its [start:end] source
	// position. Fset must then be set for the Print call.
	Pos bool

	// SkipComments omits Comment members from the printed tree; they are
	// still present in the Program itself, this only affects display.
	SkipComments bool
}

// Print pretty-prints prog. fset resolves positions to file:line:column
// and is only required when p.Pos is true — a Program combines
// declarations from however many files were parsed together, so a single
// *token.File cannot resolve every position in it.
func (p *Printer) Print(prog *Program, fset *token.FileSet) error {
	if p.Pos && fset == nil {
		return fmt.Errorf("print ast: fset must be provided to print positions")
	}
	pp := &printer{w: p.Output, pos: p.Pos, fset: fset, skipComments: p.SkipComments}
	for _, idx := range prog.Order {
		nf := prog.Functions[idx]
		pp.printf(0, "%s:", nf.Name)
		pp.printFunction(nf.Fn, 1)
	}
	return pp.err
}

type printer struct {
	w            io.Writer
	pos          bool
	fset         *token.FileSet
	skipComments bool
	err          error
}

func (p *printer) printf(indent int, format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	prefix := strings.Repeat(". ", indent)
	_, p.err = fmt.Fprintf(p.w, prefix+format+"\n", args...)
}

func (p *printer) posPrefix(start, end token.Pos) string {
	if !p.pos {
		return ""
	}
	return fmt.Sprintf("[%s:%s] ", p.fset.Position(start), p.fset.Position(end))
}

func (p *printer) printFunction(fn *Function, indent int) {
	for i, br := range fn.Branches {
		start, end := br.Span()
		p.printf(indent, "%sbranch %d %s", p.posPrefix(start, end), i, br.Loc)
		for _, m := range br.Body {
			p.printMember(m, indent+1)
		}
	}
}

func (p *printer) printMember(m Member, indent int) {
	if _, ok := m.(*Comment); ok && p.skipComments {
		return
	}
	start, end := m.Span()
	prefix := p.posPrefix(start, end)
	switch m := m.(type) {
	case *Comment:
		p.printf(indent, "%scomment %q", prefix, m.Text)
	case *LiteralNumber:
		p.printf(indent, "%snumber %d", prefix, m.Value)
	case *Identifier:
		p.printf(indent, "%sidentifier %s", prefix, m.Name)
	case *LocalFunction:
		p.printf(indent, "%sfunction %s", prefix, m.Loc)
		p.printFunction(m.Fn, indent+1)
	case *BadExpr:
		p.printf(indent, "%sbad", prefix)
	}
}
