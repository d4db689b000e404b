package debugger_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/crosscut/lang/ast"
	"github.com/mna/crosscut/lang/compiler"
	"github.com/mna/crosscut/lang/debugger"
	"github.com/mna/crosscut/lang/machine"
	"github.com/mna/crosscut/lang/order"
	"github.com/mna/crosscut/lang/parser"
	"github.com/mna/crosscut/lang/resolver"
	"github.com/mna/crosscut/lang/token"
)

func build(t *testing.T, src string) (*ast.Program, *compiler.Program) {
	t.Helper()
	fset := token.NewFileSet()
	prog, err := parser.ParseString(fset, "t.cx", src)
	require.NoError(t, err)
	res := resolver.Resolve(prog, machine.IsIntrinsic, machine.IsHost)
	clustering := order.Order(prog, res)
	return prog, compiler.Compile(prog, res, clustering, machine.IntrinsicIndex, machine.HostIndex)
}

func TestActiveFunctionsReportsCurrentInstruction(t *testing.T) {
	syntax, code := build(t, `main: { \ -> 2 3 add }`)
	m := machine.New(code)
	d := debugger.New(syntax, code, m)

	m.Step() // PUSH 2

	active := d.ActiveFunctions()
	require.Len(t, active, 1)
	require.True(t, active[0].Location.Named)
	require.Len(t, active[0].Branches, 1)

	members := active[0].Branches[0].Members
	require.Len(t, members, 3) // 2, 3, add
	require.False(t, members[0].IsCurrent)
	require.True(t, members[1].IsCurrent) // about to push 3
}

func TestDispatchBreakpointSetThenContinueStops(t *testing.T) {
	syntax, code := build(t, `main: { \ -> 2 3 add }`)
	m := machine.New(code)
	d := debugger.New(syntax, code, m)

	// the literal "3" is the second member of main's only branch.
	expr := code.SourceMap.InstrToExpr[code.MainEntry+1]
	d.Dispatch(debugger.UserAction{Kind: debugger.ActionBreakpointSet, Expression: expr})

	d.Dispatch(debugger.UserAction{Kind: debugger.ActionContinue})
	require.Equal(t, machine.Stopped, m.Mode)
	require.NotEmpty(t, m.Effects)

	d.Dispatch(debugger.UserAction{Kind: debugger.ActionBreakpointClear, Expression: expr})
	m.Effects = nil
	d.Dispatch(debugger.UserAction{Kind: debugger.ActionContinue})
	require.Equal(t, machine.Finished, m.Mode)
}

func TestStepOverSkipsAnEntireCall(t *testing.T) {
	syntax, code := build(t, `
main: { \ -> 1 helper 10 }
helper: { \ -> 2 3 add }`)
	m := machine.New(code)
	d := debugger.New(syntax, code, m)

	m.Step() // PUSH 1, now at the call to helper

	d.Dispatch(debugger.UserAction{Kind: debugger.ActionStepOver})
	require.Equal(t, machine.Stopped, m.Mode)
	require.Len(t, m.Calls, 1) // back in main, not inside helper
	require.Equal(t, []machine.Value{machine.Number(1), machine.Number(5)}, m.Operands)
}

// TestStepOverRecursiveSelfCallUnwindsToItsOwnDepth exercises step-over on
// the recursive call site inside count's own body, which lang/compiler
// compiles to one CALL_FUNCTION address shared by every recursion depth.
// An address-only ephemeral breakpoint would fire the first time any frame
// returns to that address — one level too shallow, still nested inside the
// call being stepped over — instead of waiting for the stack to unwind back
// to the frame that issued the step-over.
func TestStepOverRecursiveSelfCallUnwindsToItsOwnDepth(t *testing.T) {
	syntax, code := build(t, `
main: { \ -> 3 count }
count: {
	\ 0 -> 0
	\ n -> n 1 sub count
}`)
	m := machine.New(code)
	d := debugger.New(syntax, code, m)

	countFn := syntax.ByName("count")
	require.NotNil(t, countFn)
	recursiveBranch := countFn.Fn.Branches[1]
	recursiveCall := recursiveBranch.Body[len(recursiveBranch.Body)-1]
	addrs := code.SourceMap.ExprToInstrs[recursiveCall.Location()]
	require.NotEmpty(t, addrs)
	recurAddr := addrs[0]

	// drive the machine to the first time this address is about to execute:
	// main has called count(3), and count's own branch is about to call
	// count(2) — i.e. exactly the state a user stepping over this call site
	// from inside the n=3 frame would be in.
	d.Dispatch(debugger.UserAction{Kind: debugger.ActionBreakpointSet, Expression: recursiveCall.Location()})
	d.Dispatch(debugger.UserAction{Kind: debugger.ActionContinue})
	require.Equal(t, machine.Stopped, m.Mode)
	depthBeforeCall := len(m.Calls)
	require.Equal(t, recurAddr, m.Calls[len(m.Calls)-1].Next)

	d.Dispatch(debugger.UserAction{Kind: debugger.ActionBreakpointClear, Expression: recursiveCall.Location()})
	m.Effects = nil
	d.Dispatch(debugger.UserAction{Kind: debugger.ActionStepOver})

	require.Equal(t, machine.Stopped, m.Mode)
	require.Len(t, m.Calls, depthBeforeCall) // back in the n=3 frame, not a nested one
	require.Equal(t, []machine.Value{machine.Number(0)}, m.Operands)
}

func TestStepOutReturnsToCaller(t *testing.T) {
	syntax, code := build(t, `
main: { \ -> helper }
helper: { \ -> 2 3 add }`)
	m := machine.New(code)
	d := debugger.New(syntax, code, m)

	m.Step() // enter helper's frame via CALL_FUNCTION
	require.Len(t, m.Calls, 2)

	d.Dispatch(debugger.UserAction{Kind: debugger.ActionStepOut})
	require.Equal(t, machine.Stopped, m.Mode)
	require.Len(t, m.Calls, 1) // back in main, at its final Return
	require.Equal(t, []machine.Value{machine.Number(5)}, m.Operands)

	m.Continue()
	require.Equal(t, machine.Finished, m.Mode)
}
