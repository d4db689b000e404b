package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/crosscut/lang/machine"
)

func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return RunFiles(stdio, args...)
}

// RunFiles compiles files and runs the resulting program to completion,
// auto-resolving every recoverable host effect so the program always makes
// progress without a real host attached: SetTile and SubmitFrame are
// acknowledged immediately, ReadInput and Random reply with 0.
func RunFiles(stdio mainer.Stdio, files ...string) error {
	_, _, prog, err := compileFiles(stdio, files...)
	if err != nil {
		return err
	}

	m := machine.New(prog)
	for m.Mode != machine.Finished {
		m.Continue()
		if m.Mode != machine.Stopped || len(m.Effects) == 0 {
			continue
		}
		eff := &m.Effects[0]
		if !eff.Kind.Recoverable() {
			fmt.Fprintf(stdio.Stderr, "runtime error: %s\n", eff.Kind)
			return fmt.Errorf("run: unrecoverable effect %s", eff.Kind)
		}
		eff.Reply = 0
		eff.HasReply = true
	}

	fmt.Fprintln(stdio.Stdout, "final operand stack:")
	for _, v := range m.Operands {
		fmt.Fprintf(stdio.Stdout, ". %s\n", v)
	}
	return nil
}
