// Package effect defines the Effect type shared by the compiler, the
// runtime, the update engine, the debugger and the protocol (spec §4.7):
// a suspension event, either a request for a host service (pixel output,
// input, randomness) or a runtime error, enqueued by the machine and
// surfaced to whichever party is driving it.
package effect

// Kind classifies an Effect.
type Kind int

const (
	SetTile Kind = iota
	SubmitFrame
	ReadInput
	// Random is not named in spec §4.7's effect list, but §4.7's prose
	// groups random with the other host intrinsics ("do not execute
	// synchronously; they emit an effect and the runtime transitions to
	// Stopped awaiting the host's reply"), so it needs its own kind rather
	// than overloading ReadInput's.
	Random
	MissingOperand
	UnresolvedIdentifier
	IntegerOverflow
	TypeMismatch
	DivideByZero
	UserDefinedBreakpoint
	// FunctionVanished is raised post-update (§4.8, §7) when a frame's
	// enclosing function was deleted by the edit that produced the code
	// currently running.
	FunctionVanished
)

func (k Kind) String() string {
	switch k {
	case SetTile:
		return "set-tile"
	case SubmitFrame:
		return "submit-frame"
	case ReadInput:
		return "read-input"
	case Random:
		return "random"
	case FunctionVanished:
		return "function-vanished"
	case MissingOperand:
		return "missing-operand"
	case UnresolvedIdentifier:
		return "unresolved-identifier"
	case IntegerOverflow:
		return "integer-overflow"
	case TypeMismatch:
		return "type-mismatch"
	case DivideByZero:
		return "divide-by-zero"
	case UserDefinedBreakpoint:
		return "user-defined-breakpoint"
	default:
		return "unknown-effect"
	}
}

// Recoverable reports whether a host reply can resolve this effect and
// let execution resume (§4.7: "On Continue, if the head-of-queue effect
// is a recoverable host effect and the host supplied a reply..."). Every
// other effect is a runtime error: it remains at the head of the queue
// until the debugger takes some other corrective action (an update, a
// reset).
func (k Kind) Recoverable() bool {
	switch k {
	case SetTile, SubmitFrame, ReadInput, Random:
		return true
	default:
		return false
	}
}

// Effect is one pending suspension. Only the fields relevant to Kind are
// populated; the rest are left at their zero value.
type Effect struct {
	Kind Kind

	// SetTile
	X, Y, Value int

	// UnresolvedIdentifier
	Name string

	// TypeMismatch
	Expected, Found string

	// Reply is filled in by the host (via the debugger/protocol layer) to
	// resolve a recoverable effect: the input value for ReadInput or the
	// random value for Random (pushed onto the operand stack), or any
	// value to acknowledge SetTile or SubmitFrame.
	Reply    int
	HasReply bool
}
