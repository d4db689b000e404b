package machine

import (
	"github.com/mna/crosscut/lang/effect"
	"github.com/mna/crosscut/lang/infer"
)

// Intrinsic names the pure, synchronous operations of spec §4.7's core set:
// every one of them consumes and produces values on the operand stack
// without suspending the machine. The four host-facing names from the same
// paragraph (set_pixel, submit_frame, read_input, random) are deliberately
// excluded here and live in hostOpNames instead — they resolve through
// lang/resolver's Host target and compiler.CALL_HOST rather than
// CALL_INTRINSIC, so that the instruction that can suspend the machine is
// visibly distinct from the one that cannot.
type Intrinsic uint8

const (
	Add Intrinsic = iota
	Sub
	Mul
	Div
	Clone
	Drop
	Swap
	Over
	Eq
	Greater
	Eval
)

var intrinsicNames = map[string]Intrinsic{
	"add":     Add,
	"sub":     Sub,
	"mul":     Mul,
	"div":     Div,
	"clone":   Clone,
	"drop":    Drop,
	"swap":    Swap,
	"over":    Over,
	"eq":      Eq,
	"greater": Greater,
	"eval":    Eval,
}

// IsIntrinsic, IntrinsicIndex and IntrinsicSignature are the concrete
// providers of lang/resolver.IsIntrinsic, lang/compiler.IntrinsicIndex and
// lang/infer.IntrinsicSignature: the one place Crosscut's fixed intrinsic
// vocabulary is named.
func IsIntrinsic(name string) bool {
	_, ok := intrinsicNames[name]
	return ok
}

func IntrinsicIndex(name string) (uint8, bool) {
	op, ok := intrinsicNames[name]
	return uint8(op), ok
}

var numT = infer.Type{Kind: infer.Number}

func binaryNumSig() infer.Signature {
	return infer.Signature{Inputs: []infer.Type{numT, numT}, Outputs: []infer.Type{numT}}
}

func IntrinsicSignature(name string) (infer.Signature, bool) {
	switch name {
	case "add", "sub", "mul", "div":
		return binaryNumSig(), true
	case "clone":
		return infer.Signature{Inputs: []infer.Type{numT}, Outputs: []infer.Type{numT, numT}}, true
	case "drop":
		return infer.Signature{Inputs: []infer.Type{numT}}, true
	case "swap":
		return infer.Signature{Inputs: []infer.Type{numT, numT}, Outputs: []infer.Type{numT, numT}}, true
	case "over":
		return infer.Signature{Inputs: []infer.Type{numT, numT}, Outputs: []infer.Type{numT, numT, numT}}, true
	case "eq", "greater":
		return infer.Signature{Inputs: []infer.Type{numT, numT}, Outputs: []infer.Type{numT}}, true
	case "eval":
		fn := infer.Type{Kind: infer.Function, Sig: &infer.Signature{}}
		return infer.Signature{Inputs: []infer.Type{fn}}, true
	default:
		return infer.Signature{}, false
	}
}

// dispatchIntrinsic executes a pure intrinsic against m's operand stack.
// eval is the one exception: it pushes a new call frame rather than a
// value, and the step loop simply continues with that frame on top.
func (m *Machine) dispatchIntrinsic(op Intrinsic) {
	switch op {
	case Add, Sub, Mul, Div:
		y, x, ok := m.pop2Numbers()
		if !ok {
			return
		}
		var z int64
		switch op {
		case Add:
			z = int64(x) + int64(y)
		case Sub:
			z = int64(x) - int64(y)
		case Mul:
			z = int64(x) * int64(y)
		case Div:
			if y == 0 {
				m.enqueue(effect.Effect{Kind: effect.DivideByZero})
				return
			}
			z = int64(x) / int64(y)
		}
		if z > int64(^uint32(0)>>1) || z < -int64(^uint32(0)>>1)-1 {
			m.enqueue(effect.Effect{Kind: effect.IntegerOverflow})
			return
		}
		m.push(Number(z))

	case Clone:
		x, ok := m.peekNumber()
		if !ok {
			return
		}
		m.push(x)

	case Drop:
		if !m.require(1) {
			return
		}
		m.pop()

	case Swap:
		if !m.require(2) {
			return
		}
		n := len(m.Operands)
		m.Operands[n-1], m.Operands[n-2] = m.Operands[n-2], m.Operands[n-1]

	case Over:
		if !m.require(2) {
			return
		}
		n := len(m.Operands)
		m.push(m.Operands[n-2])

	case Eq, Greater:
		y, x, ok := m.pop2Numbers()
		if !ok {
			return
		}
		var result bool
		if op == Eq {
			result = x == y
		} else {
			result = x > y
		}
		if result {
			m.push(Number(1))
		} else {
			m.push(Number(0))
		}

	case Eval:
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
	}
}

func (m *Machine) require(n int) bool {
	if len(m.Operands) < n {
		m.enqueue(effect.Effect{Kind: effect.MissingOperand})
		return false
	}
	return true
}

func (m *Machine) push(v Value) { m.Operands = append(m.Operands, v) }

func (m *Machine) pop() Value {
	n := len(m.Operands) - 1
	v := m.Operands[n]
	m.Operands = m.Operands[:n]
	return v
}

func (m *Machine) peekNumber() (Number, bool) {
	if !m.require(1) {
		return 0, false
	}
	v := m.Operands[len(m.Operands)-1]
	n, ok := v.(Number)
	if !ok {
		m.enqueue(effect.Effect{Kind: effect.TypeMismatch, Expected: "number", Found: v.Type()})
		return 0, false
	}
	return n, true
}

// pop2Numbers pops the top two operands as Numbers, y above x, in the order
// a binary op needs them. It reports ok=false (and enqueues the explanatory
// effect itself) if there are too few operands or either is not a Number.
func (m *Machine) pop2Numbers() (y, x Number, ok bool) {
	if !m.require(2) {
		return 0, 0, false
	}
	yv := m.pop()
	xv := m.pop()
	yn, yok := yv.(Number)
	xn, xok := xv.(Number)
	if !yok || !xok {
		found := yv.Type()
		if yok {
			found = xv.Type() // pick whichever was wrong for the message; both pushed back first
		}
		m.push(xv)
		m.push(yv)
		m.enqueue(effect.Effect{Kind: effect.TypeMismatch, Expected: "number", Found: found})
		return 0, 0, false
	}
	return yn, xn, true
}
