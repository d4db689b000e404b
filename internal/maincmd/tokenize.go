package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/crosscut/lang/scanner"
	"github.com/mna/crosscut/lang/token"
)

func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(stdio, args...)
}

// TokenizeFiles scans files and prints one line per token: its source
// position, its kind, and its raw text when non-empty.
func TokenizeFiles(stdio mainer.Stdio, files ...string) error {
	fset := token.NewFileSet()
	toksByFile, err := scanner.ScanFiles(fset, files...)
	for _, toks := range toksByFile {
		for _, tv := range toks {
			fmt.Fprintf(stdio.Stdout, "%s: %s", fset.Position(tv.Value.Pos), tv.Token)
			if tv.Value.Raw != "" {
				fmt.Fprintf(stdio.Stdout, " %s", tv.Value.Raw)
			}
			fmt.Fprintln(stdio.Stdout)
		}
	}
	if err != nil {
		scanner.PrintError(stdio.Stderr, err)
	}
	return err
}
