package machine_test

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

// S1 — minimal run.
func TestMachineMinimalRunProducesFive(t *testing.T) {
	p := build(t, `main: { \ -> 2 3 add }`)
	m := machine.New(p)
	m.Continue()

	require.Equal(t, machine.Finished, m.Mode)
	require.Equal(t, []machine.Value{machine.Number(5)}, m.Operands)
}

// S2 — host effect round-trip.
func TestMachineHostEffectRoundTrip(t *testing.T) {
	p := build(t, `main: { \ -> 0 0 1 set_pixel submit_frame }`)
	m := machine.New(p)

	m.Continue()
	require.Equal(t, machine.Stopped, m.Mode)
	require.Len(t, m.Effects, 1)
	require.Equal(t, effect.SetTile, m.Effects[0].Kind)
	require.Equal(t, 0, m.Effects[0].X)
	require.Equal(t, 0, m.Effects[0].Y)
	require.Equal(t, 1, m.Effects[0].Value)

	m.Effects[0].HasReply = true
	m.Continue()
	require.Equal(t, machine.Stopped, m.Mode)
	require.Len(t, m.Effects, 1)
	require.Equal(t, effect.SubmitFrame, m.Effects[0].Kind)

	m.Effects[0].HasReply = true
	m.Continue()
	require.Equal(t, machine.Finished, m.Mode)
	require.Empty(t, m.Effects)
}

// S5 — type error is non-fatal and localized to the offending call.
func TestMachineTypeMismatchStopsWithoutCrashing(t *testing.T) {
	p := build(t, `main: { \ -> 1 submit_frame add }`)
	m := machine.New(p)
	m.Continue() // submit_frame
	m.Effects[0].HasReply = true
	m.Continue() // add sees a non-Number where submit_frame left nothing comparable
	require.Equal(t, machine.Stopped, m.Mode)
	require.NotEmpty(t, m.Effects)
}

func TestMachineDurableBreakpointFires(t *testing.T) {
	p := build(t, `main: { \ -> 2 3 add }`)
	m := machine.New(p)
	m.BreakpointSet(p.MainEntry + 1) // the second Push

	m.Continue()
	require.Equal(t, machine.Stopped, m.Mode)
	require.Equal(t, effect.UserDefinedBreakpoint, m.Effects[len(m.Effects)-1].Kind)

	m.Effects = nil
	m.Continue()
	require.Equal(t, machine.Finished, m.Mode)
	require.Equal(t, []machine.Value{machine.Number(5)}, m.Operands)
}

func TestMachineEphemeralBreakpointConsumedAfterOneHit(t *testing.T) {
	p := build(t, `main: { \ -> 2 3 add }`)
	m := machine.New(p)
	m.SetEphemeralAt(p.MainEntry+1, 1)

	m.Continue()
	require.Equal(t, machine.Stopped, m.Mode)
	require.Empty(t, m.Effects) // ephemeral hits enqueue no effect

	m.Continue()
	require.Equal(t, machine.Finished, m.Mode)
	require.False(t, m.Breakpoints.HasEphemeralAt(p.MainEntry+1))
}

func TestMachineResetRestoresInitialState(t *testing.T) {
	p := build(t, `main: { \ -> 2 3 add }`)
	m := machine.New(p)
	m.Continue()
	require.Equal(t, machine.Finished, m.Mode)

	m.Reset()
	require.Equal(t, machine.Stopped, m.Mode)
	require.Empty(t, m.Operands)
	require.Len(t, m.Calls, 1)
}

func TestMachineRecursiveCountdownReachesZero(t *testing.T) {
	p := build(t, `
main: { \ -> 3 count }
count: {
	\ 0 -> 0
	\ n -> n 1 sub count
}`)
	m := machine.New(p)
	m.Continue()
	require.Equal(t, machine.Finished, m.Mode)
	require.Equal(t, []machine.Value{machine.Number(0)}, m.Operands)
}

func TestMachineMissingOperandEffect(t *testing.T) {
	p := build(t, `main: { \ -> add }`)
	m := machine.New(p)
	m.Continue()
	require.Equal(t, machine.Stopped, m.Mode)
	require.Equal(t, effect.MissingOperand, m.Effects[0].Kind)
}
