package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/crosscut/lang/ast"
	"github.com/mna/crosscut/lang/parser"
	"github.com/mna/crosscut/lang/resolver"
	"github.com/mna/crosscut/lang/token"
)

func isIntrinsic(name string) bool {
	switch name {
	case "add", "sub", "eval", "drop":
		return true
	default:
		return false
	}
}

func isHost(name string) bool {
	return name == "set_pixel"
}

func resolveSrc(t *testing.T, src string) (*ast.Program, *resolver.Result) {
	t.Helper()
	fset := token.NewFileSet()
	prog, err := parser.ParseString(fset, "t.cx", src)
	require.NoError(t, err)
	res := resolver.Resolve(prog, isIntrinsic, isHost)
	return prog, res
}

func findIdentifier(t *testing.T, br *ast.Branch, idx int) *ast.Identifier {
	t.Helper()
	id, ok := br.Body[idx].(*ast.Identifier)
	require.True(t, ok, "body[%d] is not an Identifier", idx)
	return id
}

func TestResolveParameterIsBindingNextToIntrinsic(t *testing.T) {
	prog, res := resolveSrc(t, `
main: {
	\ n -> n add
}`)
	nf := prog.ByName("main")
	br := nf.Fn.Branches[0]

	n := findIdentifier(t, br, 0)
	tgt := res.Targets[n.Loc]
	require.Equal(t, resolver.Binding, tgt.Kind)
	require.Equal(t, br.Parameters[0].Loc, tgt.Param)

	add := findIdentifier(t, br, 1)
	require.Equal(t, resolver.Intrinsic, res.Targets[add.Loc].Kind)
}

func TestResolvePriorityIntrinsicHostUserFunction(t *testing.T) {
	prog, res := resolveSrc(t, `
helper: { \ -> 1 }
main: {
	\ -> add set_pixel helper nope
}`)
	nf := prog.ByName("main")
	br := nf.Fn.Branches[0]

	add := findIdentifier(t, br, 0)
	require.Equal(t, resolver.Intrinsic, res.Targets[add.Loc].Kind)

	setPixel := findIdentifier(t, br, 1)
	require.Equal(t, resolver.Host, res.Targets[setPixel.Loc].Kind)

	helper := findIdentifier(t, br, 2)
	helperTgt := res.Targets[helper.Loc]
	require.Equal(t, resolver.UserFunction, helperTgt.Kind)
	require.Equal(t, prog.ByName("helper").Fn.Loc, helperTgt.Fn)

	nope := findIdentifier(t, br, 3)
	require.Equal(t, resolver.Unresolved, res.Targets[nope.Loc].Kind)
}

func TestResolveSelfIsUserFunctionOnEnclosingBranch(t *testing.T) {
	prog, res := resolveSrc(t, `
count: {
	\ 0 -> 0
	\ n -> n 1 sub self
}`)
	nf := prog.ByName("count")
	br := nf.Fn.Branches[1]

	self := findIdentifier(t, br, 3)
	tgt := res.Targets[self.Loc]
	require.Equal(t, resolver.UserFunction, tgt.Kind)
	require.Equal(t, nf.Fn.Loc, tgt.Fn)
}

func TestResolveCaptureSingleLevel(t *testing.T) {
	prog, res := resolveSrc(t, `
main: {
	\ n -> { \ -> n } eval
}`)
	nf := prog.ByName("main")
	br := nf.Fn.Branches[0]

	lf, ok := br.Body[0].(*ast.LocalFunction)
	require.True(t, ok)

	env := res.Environments[lf.Fn.Loc]
	require.Len(t, env, 1)
	require.Equal(t, "n", env[0].Name)
	require.Equal(t, br.Parameters[0].Loc, env[0].Param)
}

func TestResolveCaptureCascadesThroughNestedLocalFunctions(t *testing.T) {
	prog, res := resolveSrc(t, `
main: {
	\ n -> { \ -> { \ -> n } eval } eval
}`)
	nf := prog.ByName("main")
	br := nf.Fn.Branches[0]

	outer, ok := br.Body[0].(*ast.LocalFunction)
	require.True(t, ok)
	outerBr := outer.Fn.Branches[0]

	inner, ok := outerBr.Body[0].(*ast.LocalFunction)
	require.True(t, ok)

	// Both the outer and inner local functions must capture n: the outer
	// one doesn't use it directly, but it must thread it down to the inner
	// closure at MakeClosure time.
	outerEnv := res.Environments[outer.Fn.Loc]
	require.Len(t, outerEnv, 1)
	require.Equal(t, "n", outerEnv[0].Name)

	innerEnv := res.Environments[inner.Fn.Loc]
	require.Len(t, innerEnv, 1)
	require.Equal(t, "n", innerEnv[0].Name)
}

func TestResolveNoCaptureWhenBoundInSameFunction(t *testing.T) {
	prog, res := resolveSrc(t, `
main: {
	\ n -> n
}`)
	nf := prog.ByName("main")
	require.Empty(t, res.Environments[nf.Fn.Loc])
}
