package compiler

import (
	"fmt"
	"sort"
	"strings"
)

// Disassemble renders p as human-readable pseudo-assembly: one line per
// instruction, with the entry address of every named and local function
// labeled. This mirrors the spirit (if not the round-trippable grammar)
// of github.com/mna/nenuphar's lang/compiler/asm.go, which exists there
// to let tests write bytecode by hand; here it exists so the CLI's
// "compile" subcommand has something to show a user.
func Disassemble(p *Program) string {
	labels := make(map[Address][]string)
	for loc, addr := range p.Entries {
		labels[addr] = append(labels[addr], loc.String())
	}

	var b strings.Builder
	for addr, in := range p.Instructions {
		a := Address(addr)
		if names, ok := labels[a]; ok {
			sort.Strings(names)
			fmt.Fprintf(&b, "%s:\n", strings.Join(names, ", "))
		}
		fmt.Fprintf(&b, "  %04d  %s\n", a, formatInstruction(in))
	}
	return b.String()
}

func formatInstruction(in Instruction) string {
	switch in.Op {
	case PUSH:
		return fmt.Sprintf("push %d", in.Value)
	case CALL_INTRINSIC:
		return fmt.Sprintf("call_intrinsic #%d", in.IntrinsicOp)
	case CALL_HOST:
		return fmt.Sprintf("call_host #%d", in.HostOp)
	case CALL_FUNCTION:
		return fmt.Sprintf("call_function @%04d", in.Addr)
	case CALL_FUNCTION_ANON:
		return "call_function_anon"
	case MAKE_CLOSURE:
		return fmt.Sprintf("make_closure @%04d (%d captured)", in.Addr, len(in.Captured))
	case BIND:
		return fmt.Sprintf("bind %q", in.ParamName)
	case LOAD_BINDING:
		return fmt.Sprintf("load_binding %q", in.ParamName)
	case MATCH_LITERAL:
		return fmt.Sprintf("match_literal %d, @%04d", in.Literal, in.Addr)
	case RETURN:
		return "return"
	case TRIGGER_EFFECT:
		return fmt.Sprintf("trigger_effect %s", in.Effect)
	default:
		return in.Op.String()
	}
}
