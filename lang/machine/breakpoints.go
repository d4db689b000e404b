package machine

import "github.com/mna/crosscut/lang/compiler"

// EphemeralBreakpoint is a single-shot breakpoint scoped to both an address
// and the call-stack depth it was armed at. An address alone cannot
// identify "the call just stepped over has returned": lang/compiler emits
// exactly one CALL_FUNCTION per call site, shared by every recursive
// invocation, so the address right after a call is reused at every
// recursion depth. Scoping by depth as well means a step-over/step-out only
// fires once the stack has unwound back to the frame it was armed from,
// not the first time any nested, still-in-progress call passes through the
// same address.
type EphemeralBreakpoint struct {
	Addr  compiler.Address
	Depth int
}

// Breakpoints holds the two address sets of spec §3/§4.7: durable
// breakpoints survive updates (translated by lang/update) and fire on every
// hit; ephemeral breakpoints are single-shot, used to implement step-over
// and step-out.
type Breakpoints struct {
	Durable   map[compiler.Address]bool
	Ephemeral map[EphemeralBreakpoint]bool
}

func newBreakpoints() *Breakpoints {
	return &Breakpoints{Durable: make(map[compiler.Address]bool), Ephemeral: make(map[EphemeralBreakpoint]bool)}
}

// hit reports whether address a, reached with the call stack at depth,
// should stop the machine, consuming the ephemeral entry if that is what
// matched (spec §4.7: "removes A from ephemeral"). It also reports whether
// the stop should enqueue a UserDefinedBreakpoint effect — true only for a
// durable hit.
func (b *Breakpoints) hit(a compiler.Address, depth int) (stop, durable bool) {
	key := EphemeralBreakpoint{Addr: a, Depth: depth}
	if b.Ephemeral[key] {
		delete(b.Ephemeral, key)
		return true, false
	}
	if b.Durable[a] {
		return true, true
	}
	return false, false
}

// HasEphemeralAt reports whether some ephemeral breakpoint is armed at
// address a, at any depth — used for display purposes (spec §4.9's
// per-instruction is-breakpoint decoration), which does not care about the
// depth it will actually fire at.
func (b *Breakpoints) HasEphemeralAt(a compiler.Address) bool {
	for k := range b.Ephemeral {
		if k.Addr == a {
			return true
		}
	}
	return false
}
