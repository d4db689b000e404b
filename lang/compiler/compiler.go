package compiler

import (
	"github.com/mna/crosscut/lang/ast"
	"github.com/mna/crosscut/lang/effect"
	"github.com/mna/crosscut/lang/order"
	"github.com/mna/crosscut/lang/resolver"
)

// IntrinsicIndex and HostIndex assign a stable numeric id to an
// intrinsic/host name, mirroring lang/resolver's IsIntrinsic/IsHost and
// lang/infer's IntrinsicSignature/HostSignature: the concrete vocabulary
// lives in lang/machine, passed in by the compiler driver.
type (
	IntrinsicIndex func(name string) (uint8, bool)
	HostIndex      func(name string) (uint8, bool)
)

// Compile compiles a resolved and ordered Program into a flat
// Instruction vector with a SourceMap, per spec §4.6. prog must have
// already been through lang/resolver.Resolve and lang/order.Order (so
// that res.Targets has LocalRecursive rewrites applied); behavior is
// undefined otherwise.
func Compile(prog *ast.Program, res *resolver.Result, clustering *order.Clustering, intrinsicIndex IntrinsicIndex, hostIndex HostIndex) *Program {
	c := &compiling{
		prog:           &Program{Entries: make(map[ast.FunctionLocation]Address), SourceMap: newSourceMap()},
		res:            res,
		intrinsicIndex: intrinsicIndex,
		hostIndex:      hostIndex,
		functions:      CollectFunctions(prog),
	}

	for _, cl := range clustering.Clusters {
		c.compileCluster(cl)
	}

	if mainLoc, ok := findMain(prog); ok {
		if addr, ok := c.prog.Entries[mainLoc]; ok {
			c.prog.MainEntry = addr
			c.prog.HasMain = true
		}
	}

	return c.prog
}

func findMain(prog *ast.Program) (ast.FunctionLocation, bool) {
	if nf := prog.ByName("main"); nf != nil {
		return nf.Fn.Loc, true
	}
	return ast.FunctionLocation{}, false
}

// CollectFunctions walks prog and indexes every function — top-level and
// local — by its Location, for callers (lang/update, lang/debugger) that
// need to go from a Location back to the syntax it names.
func CollectFunctions(prog *ast.Program) map[ast.FunctionLocation]*ast.Function {
	out := make(map[ast.FunctionLocation]*ast.Function)
	var walk func(fn *ast.Function)
	walk = func(fn *ast.Function) {
		if _, ok := out[fn.Loc]; ok {
			return
		}
		out[fn.Loc] = fn
		for _, br := range fn.Branches {
			for _, m := range br.Body {
				if lf, ok := m.(*ast.LocalFunction); ok {
					walk(lf.Fn)
				}
			}
		}
	}
	for _, idx := range prog.Order {
		walk(prog.Functions[idx].Fn)
	}
	return out
}

// backpatch is a CALL_FUNCTION or CALL_FUNCTION_ANON (by way of
// MAKE_CLOSURE) instruction emitted before its callee's entry address was
// known, because the callee is in the same cluster and may not have been
// compiled yet.
type backpatch struct {
	instr Address
	fn    ast.FunctionLocation
}

type compiling struct {
	prog           *Program
	res            *resolver.Result
	intrinsicIndex IntrinsicIndex
	hostIndex      HostIndex
	functions      map[ast.FunctionLocation]*ast.Function

	cluster     order.Cluster
	backpatches []backpatch
}

func (c *compiling) emit(in Instruction) Address {
	addr := Address(len(c.prog.Instructions))
	c.prog.Instructions = append(c.prog.Instructions, in)
	return addr
}

func (c *compiling) emitAt(loc ast.MemberLocation, in Instruction) Address {
	addr := c.emit(in)
	c.prog.SourceMap.record(addr, loc)
	return addr
}

func (c *compiling) compileCluster(cl order.Cluster) {
	c.cluster = cl
	c.backpatches = nil

	for _, loc := range cl.Members {
		fn := c.functions[loc]
		if fn == nil {
			continue
		}
		c.prog.Entries[loc] = c.compileFunction(fn)
	}

	for _, bp := range c.backpatches {
		addr, ok := c.prog.Entries[bp.fn]
		if !ok {
			continue // callee never compiled (e.g. a parse/resolve error upstream)
		}
		in := c.prog.Instructions[bp.instr]
		in.Addr = addr
		c.prog.Instructions[bp.instr] = in
	}
}

// compileFunction emits fn's branch-selection trampoline (or a bare
// single branch body when there is exactly one) and returns its entry
// address.
func (c *compiling) compileFunction(fn *ast.Function) Address {
	entry := Address(len(c.prog.Instructions))
	matchSlots := make([]Address, 0, len(fn.Branches))

	for i, br := range fn.Branches {
		for _, p := range br.Parameters {
			if p.Kind == ast.PatternLiteral {
				slot := c.emit(Instruction{Op: MATCH_LITERAL, Literal: p.Value})
				matchSlots = append(matchSlots, slot)
			} else if p.Name != "" {
				c.emit(Instruction{Op: BIND, ParamName: p.Name})
			} else {
				c.emit(Instruction{Op: BIND, ParamName: ""})
			}
		}
		c.compileBranchBody(br)

		if i < len(fn.Branches)-1 {
			// fall through to the next branch's prologue on mismatch; the
			// MATCH_LITERAL slots emitted for this branch jump here once we
			// know where "here" is, patched just below.
			next := Address(len(c.prog.Instructions))
			for _, slot := range matchSlots {
				in := c.prog.Instructions[slot]
				if in.Addr == 0 && in.Op == MATCH_LITERAL {
					in.Addr = next
					c.prog.Instructions[slot] = in
				}
			}
			matchSlots = matchSlots[:0]
		}
	}

	if len(matchSlots) > 0 {
		noMatch := c.emit(Instruction{Op: TRIGGER_EFFECT, Effect: effect.TypeMismatch})
		c.emit(Instruction{Op: RETURN})
		for _, slot := range matchSlots {
			in := c.prog.Instructions[slot]
			if in.Addr == 0 {
				in.Addr = noMatch
				c.prog.Instructions[slot] = in
			}
		}
	}

	return entry
}

// compileBranchBody emits every member of br in order, then a Return.
func (c *compiling) compileBranchBody(br *ast.Branch) {
	for _, m := range br.Body {
		c.compileMember(m)
	}
	c.emit(Instruction{Op: RETURN})
}

func (c *compiling) compileMember(m ast.Member) {
	switch m := m.(type) {
	case *ast.Comment:
		// no instructions

	case *ast.LiteralNumber:
		c.emitAt(m.Location(), Instruction{Op: PUSH, Value: int32(m.Value)})

	case *ast.Identifier:
		c.compileIdentifier(m)

	case *ast.LocalFunction:
		entry := c.compileFunction(m.Fn)
		c.prog.Entries[m.Fn.Loc] = entry
		captures := c.res.Environments[m.Fn.Loc]
		c.emitAt(m.Location(), Instruction{Op: MAKE_CLOSURE, Addr: entry, Captured: captures})
	}
}

func (c *compiling) compileIdentifier(id *ast.Identifier) {
	tgt, ok := c.res.Targets[id.Location()]
	if !ok {
		tgt = resolver.Target{Kind: resolver.Unresolved, Name: id.Name}
	}

	switch tgt.Kind {
	case resolver.Binding:
		c.emitAt(id.Location(), Instruction{Op: LOAD_BINDING, ParamName: tgt.Name})

	case resolver.Intrinsic:
		if idx, ok := c.intrinsicIndex(tgt.Name); ok {
			c.emitAt(id.Location(), Instruction{Op: CALL_INTRINSIC, IntrinsicOp: idx})
		} else {
			c.emitAt(id.Location(), Instruction{Op: TRIGGER_EFFECT, Effect: effect.UnresolvedIdentifier})
		}

	case resolver.Host:
		if idx, ok := c.hostIndex(tgt.Name); ok {
			c.emitAt(id.Location(), Instruction{Op: CALL_HOST, HostOp: idx})
		} else {
			c.emitAt(id.Location(), Instruction{Op: TRIGGER_EFFECT, Effect: effect.UnresolvedIdentifier})
		}

	case resolver.UserFunction:
		c.compileUserCall(id.Location(), tgt.Fn)

	case resolver.LocalRecursive:
		if fn, ok := clusterMember(c.cluster, tgt.Cluster); ok {
			c.compileUserCall(id.Location(), fn)
		} else {
			c.emitAt(id.Location(), Instruction{Op: TRIGGER_EFFECT, Effect: effect.UnresolvedIdentifier})
		}

	default: // Unresolved
		c.emitAt(id.Location(), Instruction{Op: TRIGGER_EFFECT, Effect: effect.UnresolvedIdentifier, ParamName: tgt.Name})
	}
}

// compileUserCall emits a CALL_FUNCTION to fn's entry address, back-patching
// it once the whole cluster has finished compiling if fn has not been
// assigned an address yet (same-cluster forward/self reference).
func (c *compiling) compileUserCall(loc ast.MemberLocation, fn ast.FunctionLocation) {
	instr := c.emitAt(loc, Instruction{Op: CALL_FUNCTION})
	if addr, ok := c.prog.Entries[fn]; ok {
		in := c.prog.Instructions[instr]
		in.Addr = addr
		c.prog.Instructions[instr] = in
		return
	}
	c.backpatches = append(c.backpatches, backpatch{instr: instr, fn: fn})
}

func clusterMember(cl order.Cluster, idx int) (ast.FunctionLocation, bool) {
	if idx < 0 || idx >= len(cl.Members) {
		return ast.FunctionLocation{}, false
	}
	return cl.Members[idx], true
}
