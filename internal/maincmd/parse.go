package maincmd

import (
	"context"

	"github.com/mna/mainer"

	"github.com/mna/crosscut/lang/ast"
	"github.com/mna/crosscut/lang/parser"
	"github.com/mna/crosscut/lang/scanner"
	"github.com/mna/crosscut/lang/token"
)

func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ParseFiles(stdio, !c.WithComments, args...)
}

// ParseFiles parses files into a single combined Program and prints its
// syntax tree.
func ParseFiles(stdio mainer.Stdio, skipComments bool, files ...string) error {
	fset := token.NewFileSet()
	prog, err := parser.ParseFiles(fset, files...)

	printer := ast.Printer{Output: stdio.Stdout, Pos: true, SkipComments: skipComments}
	if perr := printer.Print(prog, fset); perr != nil {
		return printError(stdio, perr)
	}

	if err != nil {
		scanner.PrintError(stdio.Stderr, err)
	}
	return err
}
