package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/crosscut/lang/debugger"
	"github.com/mna/crosscut/lang/machine"
)

func (c *Cmd) Debug(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return DebugFiles(stdio, c.Break, args...)
}

// DebugFiles compiles files, optionally sets a durable breakpoint at the
// entry of the function named by breakName, then drives the Machine with a
// Debugger exactly as a UI would: auto-acknowledging recoverable host
// effects and printing the active call stack every time execution stops.
func DebugFiles(stdio mainer.Stdio, breakName string, files ...string) error {
	_, syntax, prog, err := compileFiles(stdio, files...)
	if err != nil {
		return err
	}

	m := machine.New(prog)
	if breakName != "" {
		nf := syntax.ByName(breakName)
		if nf == nil {
			return fmt.Errorf("debug: no such function %q", breakName)
		}
		addr, ok := prog.Entries[nf.Fn.Loc]
		if !ok {
			return fmt.Errorf("debug: function %q has no compiled entry", breakName)
		}
		m.BreakpointSet(addr)
	}

	d := debugger.New(syntax, prog, m)
	for m.Mode != machine.Finished {
		d.Dispatch(debugger.UserAction{Kind: debugger.ActionContinue})
		printDebugState(stdio, d)
		if m.Mode != machine.Stopped || len(m.Effects) == 0 {
			continue
		}
		eff := &m.Effects[0]
		if !eff.Kind.Recoverable() {
			return nil
		}
		eff.Reply = 0
		eff.HasReply = true
	}
	return nil
}

func printDebugState(stdio mainer.Stdio, d *debugger.Debugger) {
	fmt.Fprintf(stdio.Stdout, "-- %s --\n", d.Machine.Mode)
	for _, af := range d.ActiveFunctions() {
		fmt.Fprintf(stdio.Stdout, "in %s at %d\n", af.Location, af.Current)
	}
	for _, v := range d.Operands() {
		fmt.Fprintf(stdio.Stdout, ". operand %s\n", v)
	}
	for _, e := range d.Machine.Effects {
		fmt.Fprintf(stdio.Stdout, ". effect %s\n", e.Kind)
	}
}
