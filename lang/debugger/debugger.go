// Package debugger implements the Debugger Model (spec §4.9): derived state
// over a (Code, RuntimeSnapshot) pair, plus the UserAction-to-runtime-command
// translation table that is the only way a UI is allowed to drive a Machine
// (grounded on the original Rust implementation's debugger/src/model split
// between a DebugCode/Breakpoints pair and a UserAction enum, adapted here
// to nenuphar's resolver-style single-pass decoration of a syntax tree).
package debugger

import (
	"github.com/mna/crosscut/lang/ast"
	"github.com/mna/crosscut/lang/compiler"
	"github.com/mna/crosscut/lang/machine"
)

// Debugger is the read side of the model: a view over the Machine and the
// Program it is currently running, plus a host-opaque Memory snapshot
// (spec §4.9). It never mutates the Machine itself except through Dispatch.
type Debugger struct {
	Syntax    *ast.Program
	Code      *compiler.Program
	Machine   *machine.Machine
	Functions map[ast.FunctionLocation]*ast.Function

	// Memory is a host-supplied 256-byte snapshot (display memory / scratch),
	// opaque to the core (spec §4.9).
	Memory [256]byte
}

// New builds a Debugger over a freshly compiled program and the Machine
// running it.
func New(syntax *ast.Program, code *compiler.Program, m *machine.Machine) *Debugger {
	return &Debugger{
		Syntax:    syntax,
		Code:      code,
		Machine:   m,
		Functions: compiler.CollectFunctions(syntax),
	}
}

// Rebind points the Debugger at the syntax/code pair the Machine was just
// updated to run (spec §4.8); call after update.Apply(d.Machine, code).
func (d *Debugger) Rebind(syntax *ast.Program, code *compiler.Program) {
	d.Syntax = syntax
	d.Code = code
	d.Functions = compiler.CollectFunctions(syntax)
}
