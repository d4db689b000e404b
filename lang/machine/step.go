package machine

import (
	"github.com/mna/crosscut/lang/compiler"
	"github.com/mna/crosscut/lang/effect"
)

// step executes exactly one instruction at the top frame's Next address
// (spec §4.7: "Step. One step consumes one instruction at the top frame's
// next_instruction, advances that frame's address, and applies the
// instruction's effect to the stacks and heap."). It assumes the caller has
// already checked Mode != Finished and breakpoints at the current address.
func (m *Machine) step() {
	fr := m.top()
	if fr == nil {
		m.Mode = Finished
		return
	}
	if int(fr.Next) >= len(m.Program.Instructions) {
		// An instruction address out of bounds is the one internal invariant
		// violation spec §7 names; the core never aborts the process for it.
		m.enqueue(effect.Effect{Kind: effect.TypeMismatch, Expected: "valid instruction", Found: "out of bounds"})
		m.Mode = Finished
		return
	}

	in := m.Program.Instructions[fr.Next]
	fr.Next++

	switch in.Op {
	case compiler.PUSH:
		m.push(Number(in.Value))

	case compiler.CALL_INTRINSIC:
		m.dispatchIntrinsic(Intrinsic(in.IntrinsicOp))

	case compiler.CALL_HOST:
		m.dispatchHost(HostOp(in.HostOp))

	case compiler.CALL_FUNCTION:
		m.Calls = append(m.Calls, newFrame(in.Addr, fr.ClosureEnv))

	case compiler.CALL_FUNCTION_ANON:
		if !m.require(1) {
			return
		}
		v := m.pop()
		ref, ok := v.(ClosureRef)
		if !ok {
			m.enqueue(effect.Effect{Kind: effect.TypeMismatch, Expected: "closure", Found: v.Type()})
			return
		}
		m.enterClosure(ref)

	case compiler.MAKE_CLOSURE:
		env := captureEnv(fr, in.Captured)
		m.push(m.Heap.Alloc(in.Addr, env))

	case compiler.BIND:
		if !m.require(1) {
			return
		}
		v := m.pop()
		if in.ParamName != "" {
			fr.Bindings[in.ParamName] = v
		}

	case compiler.LOAD_BINDING:
		v, ok := fr.lookup(in.ParamName)
		if !ok {
			m.enqueue(effect.Effect{Kind: effect.UnresolvedIdentifier, Name: in.ParamName})
			return
		}
		m.push(v)

	case compiler.MATCH_LITERAL:
		if !m.require(1) {
			return
		}
		top := m.Operands[len(m.Operands)-1]
		n, ok := top.(Number)
		if ok && int64(n) == in.Literal {
			m.pop() // matched: consume it, fall through to the branch body
		} else {
			fr.Next = in.Addr // mismatch: jump to the next branch's prologue
		}

	case compiler.RETURN:
		// The operand stack is shared across frames (spec §3): whatever the
		// branch body left behind is already the call's result, so Return
		// only pops the frame.
		m.Calls = m.Calls[:len(m.Calls)-1]
		if len(m.Calls) == 0 {
			m.Mode = Finished
		}

	case compiler.TRIGGER_EFFECT:
		e := effect.Effect{Kind: in.Effect}
		if in.Effect == effect.UnresolvedIdentifier {
			e.Name = in.ParamName
		}
		m.enqueue(e)
	}
}
