package compiler

import (
	"sort"

	"github.com/mna/crosscut/lang/ast"
	"github.com/mna/crosscut/lang/effect"
	"github.com/mna/crosscut/lang/resolver"
)

// Address is an index into a Program's flat Instructions vector: Crosscut's
// InstructionAddress (spec §3). It is monotonic across the whole program,
// not per-function, so that a running Thread's next_instruction remains
// meaningful across a hot reload regardless of which function it is in.
type Address uint32

// Instruction is one fixed-shape step of the flat instruction vector.
// Only the fields relevant to Op are populated.
type Instruction struct {
	Op Opcode

	Value int32 // PUSH

	IntrinsicOp uint8 // CALL_INTRINSIC
	HostOp      uint8 // CALL_HOST

	Addr Address // CALL_FUNCTION; also MATCH_LITERAL's fallthrough-else target

	Captured []resolver.Capture // MAKE_CLOSURE, CALL_FUNCTION_ANON

	ParamName string // BIND, LOAD_BINDING; TRIGGER_EFFECT's unresolved name
	Literal   int64  // MATCH_LITERAL

	Effect effect.Kind // TRIGGER_EFFECT
}

// SourceMap is the bidirectional mapping between instructions and the
// syntax they came from (spec §3). InstrToExpr is partial: prologues,
// trampolines and the synthesized final Return carry no MemberLocation.
type SourceMap struct {
	InstrToExpr  map[Address]ast.MemberLocation
	ExprToInstrs map[ast.MemberLocation][]Address
}

func newSourceMap() *SourceMap {
	return &SourceMap{
		InstrToExpr:  make(map[Address]ast.MemberLocation),
		ExprToInstrs: make(map[ast.MemberLocation][]Address),
	}
}

func (sm *SourceMap) record(addr Address, loc ast.MemberLocation) {
	sm.InstrToExpr[addr] = loc
	sm.ExprToInstrs[loc] = append(sm.ExprToInstrs[loc], addr)
}

// Program is the result of compiling a whole resolved, ordered Program:
// one flat Instruction vector plus the entry address of every named and
// local function, keyed by Location so it survives hot reload.
type Program struct {
	Instructions []Instruction
	Entries      map[ast.FunctionLocation]Address
	SourceMap    *SourceMap

	// MainEntry is the entry address of the top-level function the CLI
	// should start execution from, conventionally named "main".
	MainEntry Address
	HasMain   bool
}

// FunctionAt returns the location of whichever function's instructions
// contain addr. Every function is emitted as one contiguous run (see
// compileFunction), so this is a search over Entries' address ranges
// rather than a per-instruction lookup — used when an address has no
// recorded MemberLocation of its own (a prologue or trampoline
// instruction), by lang/update and lang/debugger.
func (p *Program) FunctionAt(addr Address) (ast.FunctionLocation, bool) {
	starts := make([]Address, 0, len(p.Entries))
	locs := make([]ast.FunctionLocation, 0, len(p.Entries))
	for loc, a := range p.Entries {
		starts = append(starts, a)
		locs = append(locs, loc)
	}
	order := make([]int, len(starts))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return starts[order[i]] < starts[order[j]] })

	i := sort.Search(len(order), func(i int) bool { return starts[order[i]] > addr })
	if i == 0 {
		return ast.FunctionLocation{}, false
	}
	return locs[order[i-1]], true
}
