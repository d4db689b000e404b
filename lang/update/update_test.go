package update_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/crosscut/lang/compiler"
	"github.com/mna/crosscut/lang/effect"
	"github.com/mna/crosscut/lang/machine"
	"github.com/mna/crosscut/lang/order"
	"github.com/mna/crosscut/lang/parser"
	"github.com/mna/crosscut/lang/resolver"
	"github.com/mna/crosscut/lang/token"
	"github.com/mna/crosscut/lang/update"
)

func build(t *testing.T, src string) *compiler.Program {
	t.Helper()
	fset := token.NewFileSet()
	prog, err := parser.ParseString(fset, "t.cx", src)
	require.NoError(t, err)
	res := resolver.Resolve(prog, machine.IsIntrinsic, machine.IsHost)
	clustering := order.Order(prog, res)
	return compiler.Compile(prog, res, clustering, machine.IntrinsicIndex, machine.HostIndex)
}

// nonMainEntry returns the entry address of whichever of p's top-level
// functions is not main, for tests with exactly one helper function.
func nonMainEntry(p *compiler.Program) (compiler.Address, bool) {
	for loc, addr := range p.Entries {
		if loc.Named && addr != p.MainEntry {
			return addr, true
		}
	}
	return 0, false
}

func TestApplyIdentityEditContinuesToSameResult(t *testing.T) {
	src := `
main: { \ -> 2 3 add }`
	p1 := build(t, src)
	m := machine.New(p1)
	m.Step() // PUSH 2
	require.Equal(t, machine.Stopped, m.Mode)

	p2 := build(t, src) // same source, freshly compiled: a different Program value
	update.Apply(m, p2)

	require.Same(t, p2, m.Program)
	m.Continue()
	require.Equal(t, machine.Finished, m.Mode)
	require.Equal(t, []machine.Value{machine.Number(5)}, m.Operands)
}

func TestApplyFunctionVanishedOrphansInnerFrame(t *testing.T) {
	p1 := build(t, `
main: { \ -> 1 helper }
helper: { \ -> 2 3 add }`)
	helperEntry, ok := nonMainEntry(p1)
	require.True(t, ok)

	m := machine.New(p1)
	m.BreakpointSet(helperEntry)
	m.Continue()
	require.Equal(t, machine.Stopped, m.Mode)
	require.Len(t, m.Calls, 2)

	p2 := build(t, `
main: { \ -> 42 }`)
	update.Apply(m, p2)

	require.Len(t, m.Calls, 1)
	require.Equal(t, machine.Stopped, m.Mode)
	require.Equal(t, effect.FunctionVanished, m.Effects[len(m.Effects)-1].Kind)
}

func TestApplyBreakpointSurvivesUnrelatedEdit(t *testing.T) {
	p1 := build(t, `main: { \ -> 2 3 add }`)
	m := machine.New(p1)
	m.BreakpointSet(p1.MainEntry + 1) // the literal 3

	p2 := build(t, `main: { \ -> 2 3 add add }`) // edited, but "3" is still there
	update.Apply(m, p2)

	require.Len(t, m.Breakpoints.Durable, 1)
	m.Continue()
	require.Equal(t, machine.Stopped, m.Mode)
	require.Equal(t, effect.UserDefinedBreakpoint, m.Effects[len(m.Effects)-1].Kind)
}
