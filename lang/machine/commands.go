package machine

import (
	"github.com/mna/crosscut/lang/compiler"
	"github.com/mna/crosscut/lang/effect"
)

// Step executes exactly one instruction then stops (spec §4.9: "Step in is
// one step"). Unlike Continue, it ignores the breakpoint gate at the
// current address — the machine is already stopped there, and a second
// Step must make progress rather than hit the same breakpoint again.
func (m *Machine) Step() {
	if m.Mode == Finished {
		return
	}
	m.breakpointHoldValid = false
	m.step()
	if m.Mode != Finished {
		m.Mode = Stopped
	}
}

// Continue resolves the head-of-queue effect if it is a recoverable host
// effect with a reply, then runs until the next suspension (spec §4.7: "On
// Continue, if the head-of-queue effect is a recoverable host effect and
// the host supplied a reply, the reply value is pushed and execution
// resumes; otherwise the effect remains and the runtime stays stopped.").
func (m *Machine) Continue() {
	if m.Mode == Finished {
		return
	}
	if !m.resolveHeadEffect() {
		return
	}
	m.Mode = Running
	m.runUntilSuspended(nil)
}

// RunUntilEndOfFrame is the host ABI entry point (spec §4.7's Scheduling,
// §6's Host ABI): step until the machine emits SubmitFrame or becomes
// Stopped for any other reason (breakpoint, error effect, Finished).
func (m *Machine) RunUntilEndOfFrame() {
	if m.Mode == Finished {
		return
	}
	if !m.resolveHeadEffect() {
		return
	}
	m.Mode = Running
	m.runUntilSuspended(func() bool {
		n := len(m.Effects)
		return n > 0 && m.Effects[n-1].Kind == effect.SubmitFrame
	})
}

// resolveHeadEffect consumes the head-of-queue effect if it is a
// recoverable host effect that already carries a reply, pushing the reply
// value for ReadInput/Random. It reports whether the machine may proceed
// (false means an unresolved effect still blocks it).
func (m *Machine) resolveHeadEffect() bool {
	if len(m.Effects) == 0 {
		return true
	}
	e := m.Effects[0]
	if !e.Kind.Recoverable() || !e.HasReply {
		return false
	}
	m.Effects = m.Effects[1:]
	if e.Kind == effect.ReadInput || e.Kind == effect.Random {
		m.push(Number(e.Reply))
	}
	return true
}

// Stop cancels the current run-to-completion and suspends the machine
// (spec §5: "A Stop command cancels the current run-to-completion.").
func (m *Machine) Stop() {
	if m.Mode == Running {
		m.Mode = Stopped
	}
}

// Reset discards all runtime state and restarts the program from its main
// entry point, Stopped.
func (m *Machine) Reset() {
	m.Operands = nil
	m.Effects = nil
	m.Heap = NewHeap()
	m.Breakpoints = newBreakpoints()
	m.breakpointHoldValid = false
	if m.Program.HasMain {
		m.Calls = []*Frame{newFrame(m.Program.MainEntry, nil)}
		m.Mode = Stopped
	} else {
		m.Calls = nil
		m.Mode = Finished
	}
}

// BreakpointSet and BreakpointClear toggle a durable breakpoint.
func (m *Machine) BreakpointSet(a compiler.Address)   { m.Breakpoints.Durable[a] = true }
func (m *Machine) BreakpointClear(a compiler.Address) { delete(m.Breakpoints.Durable, a) }

// SetEphemeralAt installs a single-shot breakpoint at address a, scoped to
// depth (the call-stack length it is armed at), used to implement step-over
// and step-out (spec §4.9).
func (m *Machine) SetEphemeralAt(a compiler.Address, depth int) {
	m.Breakpoints.Ephemeral[EphemeralBreakpoint{Addr: a, Depth: depth}] = true
}

// runUntilSuspended runs instructions while Mode stays Running, checking
// the pre-step breakpoint gate before each one (spec §5: "breakpoint
// checks precede instruction execution"), until it stops, finishes, or
// extraStop (if given) reports true.
func (m *Machine) runUntilSuspended(extraStop func() bool) {
	steps := 0
	for m.Mode == Running {
		fr := m.top()
		if fr == nil {
			m.Mode = Finished
			return
		}
		// The very first address checked in this run may be the durable
		// breakpoint that caused the current Stopped state; re-checking it
		// would never let Continue make progress past its own breakpoint.
		// breakpointHoldValid is consumed here (set false) regardless of
		// whether it matched, so it never suppresses a later address in
		// this same run, nor a breakpoint newly set at this address for any
		// other reason (spec §5 Ordering).
		skip := m.breakpointHoldValid && fr.Next == m.breakpointHoldAddr
		m.breakpointHoldValid = false
		if !skip {
			if stop, durable := m.Breakpoints.hit(fr.Next, len(m.Calls)); stop {
				m.Mode = Stopped
				if durable {
					m.enqueue(effect.Effect{Kind: effect.UserDefinedBreakpoint})
					m.breakpointHoldAddr = fr.Next
					m.breakpointHoldValid = true
				}
				return
			}
		}
		m.step()
		if extraStop != nil && extraStop() {
			if m.Mode == Running {
				m.Mode = Stopped
			}
			return
		}
		steps++
		if m.MaxSteps > 0 && steps >= m.MaxSteps {
			m.Mode = Stopped
			return
		}
	}
}
