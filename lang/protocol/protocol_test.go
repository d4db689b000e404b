package protocol_test

import (
	"testing"

	"github.com/kylelemons/godebug/diff"
	"github.com/stretchr/testify/require"

	"github.com/mna/crosscut/lang/compiler"
	"github.com/mna/crosscut/lang/machine"
	"github.com/mna/crosscut/lang/order"
	"github.com/mna/crosscut/lang/parser"
	"github.com/mna/crosscut/lang/protocol"
	"github.com/mna/crosscut/lang/resolver"
	"github.com/mna/crosscut/lang/token"
)

func TestCommandRoundTrip(t *testing.T) {
	cmd := protocol.Command{Kind: protocol.CommandBreakpointSet, Address: compiler.Address(7)}
	b, err := cmd.Encode()
	require.NoError(t, err)
	require.LessOrEqual(t, len(b), protocol.MaxCommandBytes)

	got, err := protocol.DecodeCommand(b)
	require.NoError(t, err)
	require.Equal(t, cmd, got)
}

func TestCommandEncodeRejectsOversizedUpdateCode(t *testing.T) {
	huge := make([]compiler.Instruction, 100000)
	cmd := protocol.Command{
		Kind: protocol.CommandUpdateCode,
		Code: &protocol.CodeSnapshot{Instructions: huge},
	}
	_, err := cmd.Encode()
	require.Error(t, err)
}

func TestSnapshotHostStateRoundTrip(t *testing.T) {
	fset := token.NewFileSet()
	syntax, err := parser.ParseString(fset, "t.cx", `main: { \ -> 2 3 add }`)
	require.NoError(t, err)
	res := resolver.Resolve(syntax, machine.IsIntrinsic, machine.IsHost)
	clustering := order.Order(syntax, res)
	code := compiler.Compile(syntax, res, clustering, machine.IntrinsicIndex, machine.HostIndex)

	m := machine.New(code)
	m.Step()

	hs := protocol.SnapshotHostState(syntax, code, m, protocol.Memory{})
	require.Len(t, hs.Code.Syntax.Functions, 1)
	require.Equal(t, "main", hs.Code.Syntax.Functions[0].Name)
	require.Len(t, hs.Runtime.Calls, 1)
	require.Equal(t, machine.Stopped, hs.Runtime.Mode)

	b, err := hs.Encode()
	require.NoError(t, err)
	require.LessOrEqual(t, len(b), protocol.MaxUpdateBytes)

	got, err := protocol.DecodeHostState(b)
	require.NoError(t, err)
	require.Equal(t, hs.Runtime.Mode, got.Runtime.Mode)
	require.Equal(t, hs.Code.Syntax, got.Code.Syntax)

	// re-encoding a decoded snapshot must reproduce the same bytes, byte for
	// byte: the wire form has no non-deterministic ordering left in it.
	b2, err := got.Encode()
	require.NoError(t, err)
	if d := diff.Diff(string(b), string(b2)); d != "" {
		t.Fatalf("re-encoded host state differs:\n%s", d)
	}
}
