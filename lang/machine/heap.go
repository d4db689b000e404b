package machine

import (
	"github.com/dolthub/swiss"

	"github.com/mna/crosscut/lang/compiler"
	"github.com/mna/crosscut/lang/resolver"
)

// Closure is a FunctionRecord (spec §3): an entry address plus the captured
// environment snapshotted at MakeClosure time. Unlike the teacher's Function,
// which shares mutable cells with its parent frame's locals, a Closure's
// environment is a plain value snapshot (spec §9) — simpler, and correct
// because Crosscut bindings are never reassigned after Bind.
type Closure struct {
	Entry compiler.Address
	Env   map[string]Value
}

func (c *Closure) String() string { return "closure" }
func (c *Closure) Type() string   { return "closure" }

// Heap is the sparse u32-indexed closure table (spec §3). It is backed by a
// swiss.Map rather than a bare Go map, mirroring the teacher's use of
// github.com/dolthub/swiss for its own Map value type.
type Heap struct {
	closures *swiss.Map[uint32, *Closure]
	next     uint32
}

func NewHeap() *Heap {
	return &Heap{closures: swiss.NewMap[uint32, *Closure](16)}
}

// Alloc bundles entry and env into a new Closure and returns its heap index.
func (h *Heap) Alloc(entry compiler.Address, env map[string]Value) ClosureRef {
	idx := h.next
	h.next++
	h.closures.Put(idx, &Closure{Entry: entry, Env: env})
	return ClosureRef(idx)
}

// Get returns the closure at ref, or (nil, false) if it was reaped or never
// allocated.
func (h *Heap) Get(ref ClosureRef) (*Closure, bool) {
	return h.closures.Get(uint32(ref))
}

// Reap removes every closure not reachable from liveRoots (spec §5: "any
// closure not referenced from the current stacks may be reaped"). It is
// called by the update engine after rewriting frame addresses, never by the
// step loop itself.
func (h *Heap) Reap(liveRoots map[ClosureRef]bool) {
	var dead []uint32
	h.closures.Iter(func(k uint32, _ *Closure) bool {
		if !liveRoots[ClosureRef(k)] {
			dead = append(dead, k)
		}
		return false
	})
	for _, k := range dead {
		h.closures.Delete(k)
	}
}

// Remap rewrites every closure's Entry address for a new Program, dropping
// any closure whose owning function vanished in the edit (spec §4.8:
// "Closures on the operand stack are re-resolved analogously... the heap is
// not migrated — closures now refer to the new instructions."). translate
// maps an old entry address to its new one, reporting false if the
// function is gone. Called by the update engine before Reap.
func (h *Heap) Remap(translate func(compiler.Address) (compiler.Address, bool)) {
	var drop []uint32
	h.closures.Iter(func(k uint32, c *Closure) bool {
		if newAddr, ok := translate(c.Entry); ok {
			c.Entry = newAddr
		} else {
			drop = append(drop, k)
		}
		return false
	})
	for _, k := range drop {
		h.closures.Delete(k)
	}
}

// captureEnv builds the environment snapshot for a MakeClosure instruction:
// for each captured name, the value currently bound in fr (own bindings take
// priority over fr's own closure_env, matching the resolver's capture-chain
// propagation which registers a capture on every intermediate function).
func captureEnv(fr *Frame, captures []resolver.Capture) map[string]Value {
	env := make(map[string]Value, len(captures))
	for _, c := range captures {
		if v, ok := fr.Bindings[c.Name]; ok {
			env[c.Name] = v
		} else if v, ok := fr.ClosureEnv[c.Name]; ok {
			env[c.Name] = v
		}
	}
	return env
}
