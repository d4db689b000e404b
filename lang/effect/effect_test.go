package effect_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/crosscut/lang/effect"
)

func TestKindString(t *testing.T) {
	for k := effect.SetTile; k <= effect.FunctionVanished; k++ {
		require.NotEqual(t, "unknown-effect", k.String())
	}
	require.Equal(t, "unknown-effect", effect.Kind(1000).String())
}

func TestKindRecoverable(t *testing.T) {
	require.True(t, effect.SetTile.Recoverable())
	require.True(t, effect.SubmitFrame.Recoverable())
	require.True(t, effect.ReadInput.Recoverable())
	require.True(t, effect.Random.Recoverable())

	require.False(t, effect.MissingOperand.Recoverable())
	require.False(t, effect.UnresolvedIdentifier.Recoverable())
	require.False(t, effect.IntegerOverflow.Recoverable())
	require.False(t, effect.TypeMismatch.Recoverable())
	require.False(t, effect.DivideByZero.Recoverable())
	require.False(t, effect.UserDefinedBreakpoint.Recoverable())
	require.False(t, effect.FunctionVanished.Recoverable())
}
