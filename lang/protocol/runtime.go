package protocol

import (
	"cmp"
	"slices"

	"github.com/mna/crosscut/lang/compiler"
	"github.com/mna/crosscut/lang/effect"
	"github.com/mna/crosscut/lang/machine"
)

// ValueSnapshot is the discriminated wire form of a machine.Value — needed
// because Value is an interface (Number or ClosureRef) and yaml.v3 cannot
// marshal an interface field without one.
type ValueSnapshot struct {
	Kind    string `yaml:"kind"` // number | closure
	Number  int32  `yaml:"number,omitempty"`
	Closure uint32 `yaml:"closure,omitempty"`
}

// SnapshotValue converts one runtime Value to its wire form.
func SnapshotValue(v machine.Value) ValueSnapshot {
	switch v := v.(type) {
	case machine.Number:
		return ValueSnapshot{Kind: "number", Number: int32(v)}
	case machine.ClosureRef:
		return ValueSnapshot{Kind: "closure", Closure: uint32(v)}
	default:
		return ValueSnapshot{Kind: "unknown"}
	}
}

func snapshotValues(vs []machine.Value) []ValueSnapshot {
	out := make([]ValueSnapshot, len(vs))
	for i, v := range vs {
		out[i] = SnapshotValue(v)
	}
	return out
}

func snapshotBindings(b map[string]machine.Value) map[string]ValueSnapshot {
	if len(b) == 0 {
		return nil
	}
	out := make(map[string]ValueSnapshot, len(b))
	for name, v := range b {
		out[name] = SnapshotValue(v)
	}
	return out
}

// FrameSnapshot is the wire form of one machine.Frame.
type FrameSnapshot struct {
	Next       compiler.Address         `yaml:"next"`
	Bindings   map[string]ValueSnapshot `yaml:"bindings,omitempty"`
	ClosureEnv map[string]ValueSnapshot `yaml:"closure_env,omitempty"`
}

// BreakpointsSnapshot is the wire form of machine.Breakpoints: sorted
// address lists rather than maps, for deterministic serialization.
type BreakpointsSnapshot struct {
	Durable   []compiler.Address `yaml:"durable"`
	Ephemeral []compiler.Address `yaml:"ephemeral"`
}

func snapshotAddresses(set map[compiler.Address]bool) []compiler.Address {
	out := make([]compiler.Address, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b compiler.Address) int { return cmp.Compare(a, b) })
	return out
}

// snapshotEphemeralAddresses collects the distinct addresses carried by set's
// depth-scoped keys — the wire form only needs "is something armed here",
// not the depth it will fire at, so a shared address at several depths still
// yields one entry.
func snapshotEphemeralAddresses(set map[machine.EphemeralBreakpoint]bool) []compiler.Address {
	seen := make(map[compiler.Address]bool, len(set))
	out := make([]compiler.Address, 0, len(set))
	for k := range set {
		if !seen[k.Addr] {
			seen[k.Addr] = true
			out = append(out, k.Addr)
		}
	}
	slices.SortFunc(out, func(a, b compiler.Address) int { return cmp.Compare(a, b) })
	return out
}

// RuntimeSnapshot is the wire form of spec §6's Runtime update:
// "Runtime{call_stack, operand_stack, mode, effect_queue}".
type RuntimeSnapshot struct {
	Mode        machine.Mode        `yaml:"mode"`
	Calls       []FrameSnapshot     `yaml:"call_stack"`
	Operands    []ValueSnapshot     `yaml:"operand_stack"`
	Effects     []effect.Effect     `yaml:"effect_queue"`
	Breakpoints BreakpointsSnapshot `yaml:"breakpoints"`
}

// SnapshotRuntime builds the wire form of m's current state.
func SnapshotRuntime(m *machine.Machine) RuntimeSnapshot {
	calls := make([]FrameSnapshot, len(m.Calls))
	for i, fr := range m.Calls {
		calls[i] = FrameSnapshot{
			Next:       fr.Next,
			Bindings:   snapshotBindings(fr.Bindings),
			ClosureEnv: snapshotBindings(fr.ClosureEnv),
		}
	}

	return RuntimeSnapshot{
		Mode:     m.Mode,
		Calls:    calls,
		Operands: snapshotValues(m.Operands),
		Effects:  append([]effect.Effect(nil), m.Effects...),
		Breakpoints: BreakpointsSnapshot{
			Durable:   snapshotAddresses(m.Breakpoints.Durable),
			Ephemeral: snapshotEphemeralAddresses(m.Breakpoints.Ephemeral),
		},
	}
}
