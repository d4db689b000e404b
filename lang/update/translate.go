// Package update implements the Update Engine (spec §4.8): applying a newly
// compiled Program to a live Machine by translating every address the
// machine holds — frame next_instruction, heap closure entries, durable
// breakpoints — from the old code to the new one by source location, not by
// raw address. A breakpoint on "line N" stays on "line N" even if the
// expression there was edited; this is identity by location, the correct UX
// for live debugging (spec §4.8).
package update

import (
	"github.com/mna/crosscut/lang/ast"
	"github.com/mna/crosscut/lang/compiler"
)

// translator resolves an address in the old Program to its counterpart in
// the new one.
type translator struct {
	oldProg  *compiler.Program
	newProg  *compiler.Program
	oldEntry map[compiler.Address]ast.FunctionLocation
}

func newTranslator(oldProg, newProg *compiler.Program) *translator {
	t := &translator{
		oldProg:  oldProg,
		newProg:  newProg,
		oldEntry: make(map[compiler.Address]ast.FunctionLocation, len(oldProg.Entries)),
	}
	for loc, addr := range oldProg.Entries {
		t.oldEntry[addr] = loc
	}
	return t
}

// functionEntry translates fn to its entry address in the new program.
func (t *translator) functionEntry(fn ast.FunctionLocation) (compiler.Address, bool) {
	addr, ok := t.newProg.Entries[fn]
	return addr, ok
}

// translate maps one old instruction address to its counterpart in the new
// program, per spec §4.8 steps 1-2: the expression at addr's exact location
// if it survived, otherwise the entry of its enclosing function, otherwise
// not found (the function itself vanished).
func (t *translator) translate(addr compiler.Address) (compiler.Address, bool) {
	if loc, ok := t.oldProg.SourceMap.InstrToExpr[addr]; ok {
		if addrs, ok := t.newProg.SourceMap.ExprToInstrs[loc]; ok && len(addrs) > 0 {
			return addrs[0], true
		}
		return t.functionEntry(loc.Parent.Parent)
	}
	fn, ok := t.oldProg.FunctionAt(addr)
	if !ok {
		return 0, false
	}
	return t.functionEntry(fn)
}
