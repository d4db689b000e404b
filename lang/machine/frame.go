package machine

import "github.com/mna/crosscut/lang/compiler"

// Frame is one call-stack activation record (spec §3): the next instruction
// to execute, the bindings established by Bind in this invocation, and —
// for a closure invocation — the environment captured at MakeClosure time.
type Frame struct {
	Next       compiler.Address
	Bindings   map[string]Value
	ClosureEnv map[string]Value
}

func newFrame(entry compiler.Address, env map[string]Value) *Frame {
	return &Frame{Next: entry, Bindings: make(map[string]Value), ClosureEnv: env}
}

// lookup resolves a LOAD_BINDING read: own bindings first, then the
// closure's captured environment, matching identifier resolution's
// binding-before-capture priority.
func (fr *Frame) lookup(name string) (Value, bool) {
	if v, ok := fr.Bindings[name]; ok {
		return v, true
	}
	v, ok := fr.ClosureEnv[name]
	return v, ok
}
