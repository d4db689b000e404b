package machine

import "fmt"

// Value is the interface implemented by every value the machine can hold on
// the operand stack or bind in a frame. Crosscut's runtime data model (spec
// §3) has exactly two value shapes: a Number and a ClosureRef pointing into
// the heap, a much smaller lattice than the Starlark-derived Value hierarchy
// this package is adapted from.
type Value interface {
	// String returns the value's display representation, used by the
	// debugger's Operands view.
	String() string

	// Type returns a short string describing the value's type, used in
	// TypeMismatch effects.
	Type() string
}

// Number is the machine's only scalar type; it backs both the Push
// instruction's 4-byte payload and intrinsic arithmetic results.
type Number int32

func (n Number) String() string { return fmt.Sprintf("%d", int32(n)) }
func (Number) Type() string     { return "number" }

// ClosureRef is the on-stack representation of a closure: a u32 index into
// the running Machine's Heap ("the index is the on-stack representation",
// spec §3).
type ClosureRef uint32

func (c ClosureRef) String() string { return fmt.Sprintf("closure(%d)", uint32(c)) }
func (ClosureRef) Type() string     { return "closure" }
