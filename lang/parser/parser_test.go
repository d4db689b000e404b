package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/crosscut/lang/ast"
	"github.com/mna/crosscut/lang/parser"
	"github.com/mna/crosscut/lang/token"
)

func TestParseMinimal(t *testing.T) {
	fset := token.NewFileSet()
	prog, err := parser.ParseString(fset, "t.cx", `main: { \ -> 2 3 add }`)
	require.NoError(t, err)
	require.Len(t, prog.Order, 1)

	nf := prog.Functions[prog.Order[0]]
	require.Equal(t, "main", nf.Name)
	require.Len(t, nf.Fn.Branches, 1)

	br := nf.Fn.Branches[0]
	require.Empty(t, br.Parameters)
	require.Len(t, br.Body, 3)

	lit, ok := br.Body[0].(*ast.LiteralNumber)
	require.True(t, ok)
	require.EqualValues(t, 2, lit.Value)

	ident, ok := br.Body[2].(*ast.Identifier)
	require.True(t, ok)
	require.Equal(t, "add", ident.Name)
}

func TestParseMultiBranch(t *testing.T) {
	fset := token.NewFileSet()
	prog, err := parser.ParseString(fset, "t.cx", `
count: {
	\ 0 -> 0
	\ n -> n 1 sub count
}`)
	require.NoError(t, err)
	nf := prog.ByName("count")
	require.NotNil(t, nf)
	require.Len(t, nf.Fn.Branches, 2)
	require.Equal(t, ast.PatternLiteral, nf.Fn.Branches[0].Parameters[0].Kind)
	require.Equal(t, ast.PatternIdent, nf.Fn.Branches[1].Parameters[0].Kind)
}

func TestParseLocalFunctionAndComment(t *testing.T) {
	fset := token.NewFileSet()
	prog, err := parser.ParseString(fset, "t.cx", `
main: {
	\ -> # a comment
	{ \ -> 1 } eval
}`)
	require.NoError(t, err)
	nf := prog.ByName("main")
	require.NotNil(t, nf)
	br := nf.Fn.Branches[0]
	require.Len(t, br.Body, 3)

	_, ok := br.Body[0].(*ast.Comment)
	require.True(t, ok)

	lf, ok := br.Body[1].(*ast.LocalFunction)
	require.True(t, ok)
	require.False(t, lf.Fn.Loc.Named)
	require.Equal(t, lf.Loc.String(), lf.Fn.Loc.At)
}

func TestParseErrorRecoverySynthesizesBadExpr(t *testing.T) {
	fset := token.NewFileSet()
	prog, err := parser.ParseString(fset, "t.cx", `
bad: { \ -> : }
good: { \ -> 1 }`)
	require.Error(t, err)
	require.NotNil(t, prog.ByName("good"))
	require.NotNil(t, prog.ByName("bad"))
}
