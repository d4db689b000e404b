package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/crosscut/lang/infer"
	"github.com/mna/crosscut/lang/machine"
	"github.com/mna/crosscut/lang/order"
	"github.com/mna/crosscut/lang/parser"
	"github.com/mna/crosscut/lang/resolver"
	"github.com/mna/crosscut/lang/scanner"
	"github.com/mna/crosscut/lang/token"
)

func (c *Cmd) Infer(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return InferFiles(stdio, args...)
}

// InferFiles runs every phase through type inference and prints the
// inferred stack-effect signature of each named function, plus any type
// conflicts found along the way.
func InferFiles(stdio mainer.Stdio, files ...string) error {
	fset := token.NewFileSet()
	prog, perr := parser.ParseFiles(fset, files...)
	if perr != nil {
		scanner.PrintError(stdio.Stderr, perr)
		return perr
	}

	res := resolver.Resolve(prog, machine.IsIntrinsic, machine.IsHost)
	clustering := order.Order(prog, res)
	result := infer.Infer(prog, res, clustering, machine.IntrinsicSignature, machine.HostSignature)

	for _, idx := range prog.Order {
		nf := prog.Functions[idx]
		sig := result.FunctionTypes[nf.Fn.Loc]
		fmt.Fprintf(stdio.Stdout, "%s: %s\n", nf.Name, sig)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(stdio.Stdout, "conflict at %s: expected %s, found %s\n", e.Loc, e.Expected, e.Found)
	}
	return nil
}
