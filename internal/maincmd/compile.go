package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/crosscut/lang/ast"
	"github.com/mna/crosscut/lang/compiler"
	"github.com/mna/crosscut/lang/machine"
	"github.com/mna/crosscut/lang/order"
	"github.com/mna/crosscut/lang/parser"
	"github.com/mna/crosscut/lang/resolver"
	"github.com/mna/crosscut/lang/scanner"
	"github.com/mna/crosscut/lang/token"
)

func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return CompileFiles(stdio, args...)
}

// CompileFiles runs the full pipeline (parse, resolve, order, compile) and
// prints a disassembly of the resulting bytecode.
func CompileFiles(stdio mainer.Stdio, files ...string) error {
	_, _, prog, err := compileFiles(stdio, files...)
	if err != nil {
		return err
	}
	fmt.Fprint(stdio.Stdout, compiler.Disassemble(prog))
	return nil
}

// compileFiles is the shared parse-resolve-order-compile pipeline used by
// the compile, run, debug and watch subcommands.
func compileFiles(stdio mainer.Stdio, files ...string) (*token.FileSet, *ast.Program, *compiler.Program, error) {
	fset := token.NewFileSet()
	syntax, perr := parser.ParseFiles(fset, files...)
	if perr != nil {
		scanner.PrintError(stdio.Stderr, perr)
		return nil, nil, nil, perr
	}

	res := resolver.Resolve(syntax, machine.IsIntrinsic, machine.IsHost)
	clustering := order.Order(syntax, res)
	prog := compiler.Compile(syntax, res, clustering, machine.IntrinsicIndex, machine.HostIndex)
	return fset, syntax, prog, nil
}
