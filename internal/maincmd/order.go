package maincmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/mna/mainer"

	"github.com/mna/crosscut/lang/machine"
	"github.com/mna/crosscut/lang/order"
	"github.com/mna/crosscut/lang/parser"
	"github.com/mna/crosscut/lang/resolver"
	"github.com/mna/crosscut/lang/scanner"
	"github.com/mna/crosscut/lang/token"
)

func (c *Cmd) Order(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return OrderFiles(stdio, args...)
}

// OrderFiles parses, resolves and orders files, printing every cluster in
// compile order (callees before callers) with its members.
func OrderFiles(stdio mainer.Stdio, files ...string) error {
	fset := token.NewFileSet()
	prog, perr := parser.ParseFiles(fset, files...)
	if perr != nil {
		scanner.PrintError(stdio.Stderr, perr)
		return perr
	}

	res := resolver.Resolve(prog, machine.IsIntrinsic, machine.IsHost)
	clustering := order.Order(prog, res)

	for i, cl := range clustering.Clusters {
		names := make([]string, len(cl.Members))
		for j, loc := range cl.Members {
			names[j] = loc.String()
		}
		fmt.Fprintf(stdio.Stdout, "cluster %d: %s\n", i, strings.Join(names, ", "))
	}
	return nil
}
