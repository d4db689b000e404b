package update

import (
	"github.com/mna/crosscut/lang/compiler"
	"github.com/mna/crosscut/lang/effect"
	"github.com/mna/crosscut/lang/machine"
)

// Apply installs newProg as m's running code in place, per spec §4.8. It is
// idempotent: applying the same newProg twice in a row is a no-op the
// second time, since every address it would translate already belongs to
// newProg and translates to itself. Mode (Stopped/Running/Finished) is left
// untouched unless a frame's function vanished, in which case that frame
// and every frame above it are dropped and a FunctionVanished effect is
// enqueued, forcing the machine Stopped.
func Apply(m *machine.Machine, newProg *compiler.Program) {
	oldProg := m.Program
	if oldProg == newProg {
		return
	}
	t := newTranslator(oldProg, newProg)

	vanishedAt := -1
	for i, fr := range m.Calls {
		addr, ok := t.translate(fr.Next)
		if !ok {
			vanishedAt = i
			break
		}
		fr.Next = addr
	}
	if vanishedAt >= 0 {
		m.Calls = m.Calls[:vanishedAt]
		m.Effects = append(m.Effects, effect.Effect{Kind: effect.FunctionVanished})
		m.Mode = machine.Stopped
	}

	newDurable := make(map[compiler.Address]bool, len(m.Breakpoints.Durable))
	for addr := range m.Breakpoints.Durable {
		if newAddr, ok := t.translate(addr); ok {
			newDurable[newAddr] = true
		}
		// a breakpoint whose expression and enclosing function both vanished
		// does not re-resolve; it is simply dropped (spec §4.8 step 4).
	}
	m.Breakpoints.Durable = newDurable

	// Ephemeral breakpoints are single-shot step-over/step-out markers tied
	// to the run that installed them; an edit invalidates that run, so they
	// are dropped rather than translated.
	m.Breakpoints.Ephemeral = make(map[machine.EphemeralBreakpoint]bool)

	m.Heap.Remap(t.translateEntry)
	m.Heap.Reap(m.LiveClosureRoots())

	m.Program = newProg
}

// translateEntry translates a function's old entry address directly: a
// MAKE_CLOSURE-allocated Closure's Entry is always exactly a value in
// oldProg.Entries, so it is looked up by identity rather than by the
// contains-range search translate/FunctionAt use for mid-function
// addresses.
func (t *translator) translateEntry(addr compiler.Address) (compiler.Address, bool) {
	fn, ok := t.oldEntry[addr]
	if !ok {
		return 0, false
	}
	return t.functionEntry(fn)
}
