// Package machine implements the Runtime (spec §4.7): a single-threaded,
// cooperative bytecode interpreter over an operand stack, a call stack of
// Frames, and a closure Heap. Unlike the teacher's machine package — which
// runs a function to completion in one uninterrupted Go call — Crosscut's
// Machine steps one instruction at a time so that breakpoints, effects and
// hot reload can all suspend it between any two instructions (spec §5).
package machine

import (
	"github.com/mna/crosscut/lang/compiler"
	"github.com/mna/crosscut/lang/effect"
)

// Mode is the runtime's coarse state (spec §3/§4.7).
type Mode int

const (
	Running Mode = iota
	Stopped
	Finished
)

func (md Mode) String() string {
	switch md {
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	case Finished:
		return "finished"
	default:
		return "unknown-mode"
	}
}

// Machine is the runtime's one mutable state machine (spec §5: "owns the
// one mutable state machine; all commands serialize through a single
// command queue").
type Machine struct {
	Program *compiler.Program

	Operands []Value
	Calls    []*Frame
	Heap     *Heap
	Effects  []effect.Effect

	Breakpoints *Breakpoints
	Mode        Mode

	// MaxSteps bounds a single run-to-completion batch (spec §5: "between
	// yields it runs bounded batches"). Zero means unbounded.
	MaxSteps int

	// breakpointHoldAddr/breakpointHoldValid record the address of the
	// durable breakpoint that caused the *current* Stopped state, if any
	// (spec §5 Ordering: resuming from a breakpoint hit must not
	// immediately re-trigger that same hit, but a breakpoint newly set at
	// the resume address for any other reason must still fire). Consumed
	// by the first gate check of the next runUntilSuspended call.
	breakpointHoldAddr  compiler.Address
	breakpointHoldValid bool
}

// New creates a Machine ready to run p from its MainEntry, Stopped until the
// first Continue or Step (spec invariant 1: the call stack is non-empty iff
// the program has begun and not finished).
func New(p *compiler.Program) *Machine {
	m := &Machine{
		Program:     p,
		Heap:        NewHeap(),
		Breakpoints: newBreakpoints(),
		Mode:        Stopped,
	}
	if p.HasMain {
		m.Calls = []*Frame{newFrame(p.MainEntry, nil)}
	} else {
		m.Mode = Finished
	}
	return m
}

func (m *Machine) top() *Frame {
	if len(m.Calls) == 0 {
		return nil
	}
	return m.Calls[len(m.Calls)-1]
}

func (m *Machine) enqueue(e effect.Effect) {
	m.Effects = append(m.Effects, e)
	m.Mode = Stopped
}

// enterClosure pushes a new frame for ref's entry address with ref's
// captured environment as the new frame's ClosureEnv. It is the shared
// helper that both CALL_FUNCTION_ANON dispatch and the eval intrinsic use
// (spec §9's dynamic-dispatch note — eval is the only way
// CALL_FUNCTION_ANON's callee becomes known, since it lives on the operand
// stack at runtime, not in a compiled CallFunction address).
func (m *Machine) enterClosure(ref ClosureRef) {
	c, ok := m.Heap.Get(ref)
	if !ok {
		m.enqueue(effect.Effect{Kind: effect.TypeMismatch, Expected: "live closure", Found: "reaped"})
		return
	}
	m.Calls = append(m.Calls, newFrame(c.Entry, c.Env))
}

// LiveClosureRoots collects every ClosureRef reachable from the current
// operand stack and call-frame bindings, for Heap.Reap after an update.
func (m *Machine) LiveClosureRoots() map[ClosureRef]bool {
	roots := make(map[ClosureRef]bool)
	mark := func(v Value) {
		if ref, ok := v.(ClosureRef); ok {
			roots[ref] = true
		}
	}
	for _, v := range m.Operands {
		mark(v)
	}
	for _, fr := range m.Calls {
		for _, v := range fr.Bindings {
			mark(v)
		}
		for _, v := range fr.ClosureEnv {
			mark(v)
		}
	}
	return roots
}
