package machine

import (
	"github.com/mna/crosscut/lang/effect"
	"github.com/mna/crosscut/lang/infer"
)

// HostOp names the four host-facing operations named in spec §6's Host ABI
// and §4.7's intrinsic list: set_pixel, submit_frame, read_input, random.
// Unlike Intrinsic, none of these execute synchronously — each compiles to
// CALL_HOST and, when stepped, enqueues an effect and stops the machine
// awaiting the host's reply (or, for set_pixel/submit_frame, simple
// acknowledgement) via Continue.
type HostOp uint8

const (
	SetPixel HostOp = iota
	SubmitFrame
	ReadInput
	Random
)

var hostOpNames = map[string]HostOp{
	"set_pixel":    SetPixel,
	"submit_frame": SubmitFrame,
	"read_input":   ReadInput,
	"random":       Random,
}

// IsHost, HostIndex and HostSignature are the concrete providers of
// lang/resolver.IsHost, lang/compiler.HostIndex and
// lang/infer.HostSignature.
func IsHost(name string) bool {
	_, ok := hostOpNames[name]
	return ok
}

func HostIndex(name string) (uint8, bool) {
	op, ok := hostOpNames[name]
	return uint8(op), ok
}

func HostSignature(name string) (infer.Signature, bool) {
	switch name {
	case "set_pixel":
		return infer.Signature{Inputs: []infer.Type{numT, numT, numT}}, true
	case "submit_frame":
		return infer.Signature{}, true
	case "read_input":
		return infer.Signature{Outputs: []infer.Type{numT}}, true
	case "random":
		return infer.Signature{Outputs: []infer.Type{numT}}, true
	default:
		return infer.Signature{}, false
	}
}

// dispatchHost enqueues the effect corresponding to op, consuming whatever
// operands the op's signature requires. The machine transitions to Stopped
// (by the caller, in step) the same way it does for any other enqueued
// effect; ReadInput's and Random's results are delivered by Reply on the
// next Continue (see Machine.Continue).
func (m *Machine) dispatchHost(op HostOp) {
	switch op {
	case SetPixel:
		if !m.require(3) {
			return
		}
		val := m.pop()
		y := m.pop()
		x := m.pop()
		xn, xok := x.(Number)
		yn, yok := y.(Number)
		vn, vok := val.(Number)
		if !xok || !yok || !vok {
			m.enqueue(effect.Effect{Kind: effect.TypeMismatch, Expected: "number", Found: val.Type()})
			return
		}
		m.enqueue(effect.Effect{Kind: effect.SetTile, X: int(xn), Y: int(yn), Value: int(vn)})

	case SubmitFrame:
		m.enqueue(effect.Effect{Kind: effect.SubmitFrame})

	case ReadInput:
		m.enqueue(effect.Effect{Kind: effect.ReadInput})

	case Random:
		m.enqueue(effect.Effect{Kind: effect.Random})
	}
}
