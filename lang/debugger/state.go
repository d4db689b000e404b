package debugger

import (
	"github.com/mna/crosscut/lang/ast"
	"github.com/mna/crosscut/lang/compiler"
	"github.com/mna/crosscut/lang/machine"
)

// MemberView decorates one body member with the runtime state of the
// instructions it compiled to (spec §4.9: "per-instruction decoration
// (is-breakpoint, is-current, has-effect)").
type MemberView struct {
	Member       ast.Member
	Addresses    []compiler.Address
	IsCurrent    bool
	IsBreakpoint bool
	HasEffect    bool
}

// BranchView decorates one branch of a function.
type BranchView struct {
	Branch  *ast.Branch
	Members []MemberView
}

// ActiveFunction decorates one call-stack frame: the function it is
// executing, every one of its branches, and the current instruction's
// position within them.
type ActiveFunction struct {
	Location ast.FunctionLocation
	Function *ast.Function
	Current  compiler.Address
	Branches []BranchView
}

// ActiveFunctions returns the call stack's functions, innermost first
// (spec §4.9). A frame whose function cannot be located in the current
// Code (stale snapshot read mid-update) is simply omitted.
func (d *Debugger) ActiveFunctions() []ActiveFunction {
	calls := d.Machine.Calls
	out := make([]ActiveFunction, 0, len(calls))
	for i := len(calls) - 1; i >= 0; i-- {
		fr := calls[i]
		loc, ok := d.Code.FunctionAt(fr.Next)
		if !ok {
			continue
		}
		fn := d.Functions[loc]
		if fn == nil {
			continue
		}
		out = append(out, d.decorate(loc, fn, fr.Next, i == len(calls)-1))
	}
	return out
}

func (d *Debugger) decorate(loc ast.FunctionLocation, fn *ast.Function, current compiler.Address, innermost bool) ActiveFunction {
	hasEffect := innermost && len(d.Machine.Effects) > 0

	av := ActiveFunction{Location: loc, Function: fn, Current: current}
	for _, br := range fn.Branches {
		bv := BranchView{Branch: br}
		for _, m := range br.Body {
			mv := MemberView{Member: m, Addresses: d.Code.SourceMap.ExprToInstrs[m.Location()]}
			for _, a := range mv.Addresses {
				if a == current {
					mv.IsCurrent = true
					mv.HasEffect = hasEffect
				}
				if d.Machine.Breakpoints.Durable[a] || d.Machine.Breakpoints.HasEphemeralAt(a) {
					mv.IsBreakpoint = true
				}
			}
			bv.Members = append(bv.Members, mv)
		}
		av.Branches = append(av.Branches, bv)
	}
	return av
}

// Operands returns the live operand stack (spec §4.9). Crosscut's operand
// stack is shared across every frame (spec §3), so there is only ever one
// to show.
func (d *Debugger) Operands() []machine.Value {
	return d.Machine.Operands
}
