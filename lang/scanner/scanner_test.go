package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/crosscut/lang/scanner"
	"github.com/mna/crosscut/lang/token"
)

func scanAll(t *testing.T, src string) []scanner.TokenAndValue {
	t.Helper()
	fset := token.NewFileSet()
	f := fset.AddFile("test.cx", -1, len(src))

	var s scanner.Scanner
	s.Init(f, []byte(src), func(pos token.Position, msg string) {
		t.Fatalf("unexpected scan error at %s: %s", pos, msg)
	})

	var out []scanner.TokenAndValue
	var val scanner.Value
	for {
		tok := s.Scan(&val)
		out = append(out, scanner.TokenAndValue{Token: tok, Value: val})
		if tok == token.EOF {
			break
		}
	}
	return out
}

func tokens(toks []scanner.TokenAndValue) []token.Token {
	out := make([]token.Token, len(toks))
	for i, tv := range toks {
		out[i] = tv.Token
	}
	return out
}

func TestScanPunctuationAndKeywords(t *testing.T) {
	toks := scanAll(t, `main: { \ -> 2 3 add } # done`)
	require.Equal(t, []token.Token{
		token.IDENT, token.COLON, token.LBRACE, token.BACK, token.ARROW,
		token.INT, token.INT, token.IDENT, token.RBRACE, token.COMMENT, token.EOF,
	}, tokens(toks))
}

func TestScanKeywords(t *testing.T) {
	toks := scanAll(t, `fn self br`)
	require.Equal(t, []token.Token{token.FN, token.SELF, token.BR, token.EOF}, tokens(toks))
}

func TestScanNegativeInt(t *testing.T) {
	// The trailing lone '-' is illegal and reports a scan error, so this test
	// counts errors itself instead of using scanAll's failing handler.
	src := `-5 5 -`
	fset := token.NewFileSet()
	f := fset.AddFile("test.cx", -1, len(src))
	var errs int
	var s scanner.Scanner
	s.Init(f, []byte(src), func(token.Position, string) { errs++ })

	var toks []scanner.TokenAndValue
	var val scanner.Value
	for {
		tok := s.Scan(&val)
		toks = append(toks, scanner.TokenAndValue{Token: tok, Value: val})
		if tok == token.EOF {
			break
		}
	}
	require.Equal(t, 1, errs)
	require.Len(t, toks, 4)
	require.Equal(t, token.INT, toks[0].Token)
	require.EqualValues(t, -5, toks[0].Value.Int)
	require.Equal(t, token.INT, toks[1].Token)
	require.EqualValues(t, 5, toks[1].Value.Int)
	require.Equal(t, token.ILLEGAL, toks[2].Token)
}

func TestScanBranches(t *testing.T) {
	toks := scanAll(t, `count: { \ n -> n } \ 0 -> }`)
	require.Equal(t, []token.Token{
		token.IDENT, token.COLON, token.LBRACE, token.BACK, token.IDENT, token.ARROW,
		token.IDENT, token.RBRACE, token.BACK, token.INT, token.ARROW, token.RBRACE, token.EOF,
	}, tokens(toks))
}

func TestScanEmpty(t *testing.T) {
	toks := scanAll(t, ``)
	require.Equal(t, []token.Token{token.EOF}, tokens(toks))
}
