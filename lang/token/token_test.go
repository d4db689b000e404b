package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenString(t *testing.T) {
	for tok := Token(0); tok < maxToken; tok++ {
		require.NotEmpty(t, tok.String())
	}
}

func TestTokenGoString(t *testing.T) {
	require.Equal(t, "'{'", LBRACE.GoString())
	require.Equal(t, "identifier", IDENT.GoString())
}

func TestLookupIdent(t *testing.T) {
	require.Equal(t, FN, LookupIdent("fn"))
	require.Equal(t, SELF, LookupIdent("self"))
	require.Equal(t, BR, LookupIdent("br"))
	require.Equal(t, IDENT, LookupIdent("add"))
}
