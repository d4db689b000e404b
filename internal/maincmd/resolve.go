package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/crosscut/lang/ast"
	"github.com/mna/crosscut/lang/machine"
	"github.com/mna/crosscut/lang/parser"
	"github.com/mna/crosscut/lang/resolver"
	"github.com/mna/crosscut/lang/scanner"
	"github.com/mna/crosscut/lang/token"
)

func (c *Cmd) Resolve(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ResolveFiles(stdio, !c.WithComments, args...)
}

// ResolveFiles parses and resolves files, printing the syntax tree
// followed by the resolution target of every identifier expression.
func ResolveFiles(stdio mainer.Stdio, skipComments bool, files ...string) error {
	fset := token.NewFileSet()
	prog, perr := parser.ParseFiles(fset, files...)
	if perr != nil {
		scanner.PrintError(stdio.Stderr, perr)
		return perr
	}

	res := resolver.Resolve(prog, machine.IsIntrinsic, machine.IsHost)

	printer := ast.Printer{Output: stdio.Stdout, Pos: true, SkipComments: skipComments}
	if err := printer.Print(prog, fset); err != nil {
		return printError(stdio, err)
	}

	fmt.Fprintln(stdio.Stdout, "targets:")
	ast.WalkProgram(prog, func(fnLoc ast.FunctionLocation, brLoc ast.BranchLocation, m ast.Member) {
		id, ok := m.(*ast.Identifier)
		if !ok {
			return
		}
		target := res.Targets[id.Loc]
		fmt.Fprintf(stdio.Stdout, ". %s: %q -> %s\n", id.Loc, id.Name, target.Kind)
	})

	return nil
}
