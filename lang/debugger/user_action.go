package debugger

import (
	"github.com/mna/crosscut/lang/ast"
	"github.com/mna/crosscut/lang/compiler"
	"github.com/mna/crosscut/lang/machine"
)

// ActionKind is the tag of a UserAction, kept as a real type rather than
// implicit control flow (grounded on the original implementation's
// debugger/src/model/user_action.rs enum).
type ActionKind int

const (
	ActionContinue ActionKind = iota
	ActionStop
	ActionReset
	ActionStepIn
	ActionStepOver
	ActionStepOut
	ActionBreakpointSet
	ActionBreakpointClear
)

// UserAction is one action taken by whoever is driving the debugger.
// Expression is only meaningful for the two breakpoint kinds.
type UserAction struct {
	Kind       ActionKind
	Expression ast.MemberLocation
}

// Dispatch translates a UserAction into the runtime command(s) of spec
// §4.9's table and applies them to d.Machine.
func (d *Debugger) Dispatch(a UserAction) {
	switch a.Kind {
	case ActionContinue:
		d.Machine.Continue()

	case ActionStop:
		d.Machine.Stop()

	case ActionReset:
		d.Machine.Reset()

	case ActionStepIn:
		d.Machine.Step()

	case ActionStepOver:
		d.stepOver()

	case ActionStepOut:
		d.stepOut()

	case ActionBreakpointSet:
		if addr, ok := d.addressOf(a.Expression); ok {
			d.Machine.BreakpointSet(addr)
		}

	case ActionBreakpointClear:
		if addr, ok := d.addressOf(a.Expression); ok {
			d.Machine.BreakpointClear(addr)
		}
	}
}

// addressOf translates expression to its first compiled instruction, per
// spec §4.9's breakpoint-toggle row.
func (d *Debugger) addressOf(expr ast.MemberLocation) (compiler.Address, bool) {
	addrs := d.Code.SourceMap.ExprToInstrs[expr]
	if len(addrs) == 0 {
		return 0, false
	}
	return addrs[0], true
}

// stepOver sets an ephemeral breakpoint at the instruction following the
// current one in the innermost frame, scoped to the current call-stack
// depth (spec §4.9: "SetEphemeralAt(next-of-frame-or-post-call)"). If that
// instruction is a call, the breakpoint only fires once control returns to
// this same frame depth, which is exactly "step over" even when the call
// recurses through the very same call site at deeper depths; if it is not
// a call, the ephemeral fires on the very next check, which is exactly a
// plain step.
func (d *Debugger) stepOver() {
	fr := d.innermost()
	if fr == nil {
		return
	}
	d.Machine.SetEphemeralAt(fr.Next+1, len(d.Machine.Calls))
	d.Machine.Continue()
}

// stepOut sets an ephemeral breakpoint at the caller frame's next
// instruction — already the post-call return address, since a caller's
// next_instruction is advanced past its CALL_FUNCTION before the callee's
// frame is pushed (spec §4.9: "SetEphemeralAt(post-call-of-parent-frame)")
// — scoped to the caller's own depth, so it fires only once the stack has
// unwound back to the caller, not when some nested call merely passes
// through the same address one or more levels deeper. With no caller
// (already in the outermost frame), it just continues.
func (d *Debugger) stepOut() {
	calls := d.Machine.Calls
	if len(calls) < 2 {
		d.Machine.Continue()
		return
	}
	d.Machine.SetEphemeralAt(calls[len(calls)-2].Next, len(calls)-1)
	d.Machine.Continue()
}

func (d *Debugger) innermost() *machine.Frame {
	calls := d.Machine.Calls
	if len(calls) == 0 {
		return nil
	}
	return calls[len(calls)-1]
}
