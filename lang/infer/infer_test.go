package infer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/crosscut/lang/ast"
	"github.com/mna/crosscut/lang/infer"
	"github.com/mna/crosscut/lang/order"
	"github.com/mna/crosscut/lang/parser"
	"github.com/mna/crosscut/lang/resolver"
	"github.com/mna/crosscut/lang/token"
)

func isIntrinsic(name string) bool {
	switch name {
	case "add", "sub", "eq":
		return true
	default:
		return false
	}
}

func noHost(string) bool { return false }

func intrinsicSig(name string) (infer.Signature, bool) {
	switch name {
	case "add", "sub":
		return infer.Signature{
			Inputs:  []infer.Type{{Kind: infer.Number}, {Kind: infer.Number}},
			Outputs: []infer.Type{{Kind: infer.Number}},
		}, true
	case "eq":
		return infer.Signature{
			Inputs:  []infer.Type{{Kind: infer.Number}, {Kind: infer.Number}},
			Outputs: []infer.Type{{Kind: infer.Number}},
		}, true
	}
	return infer.Signature{}, false
}

func noHostSig(string) (infer.Signature, bool) { return infer.Signature{}, false }

func setup(t *testing.T, src string) (*ast.Program, *resolver.Result, *order.Clustering, *infer.Result) {
	t.Helper()
	fset := token.NewFileSet()
	prog, err := parser.ParseString(fset, "t.cx", src)
	require.NoError(t, err)
	res := resolver.Resolve(prog, isIntrinsic, noHost)
	clustering := order.Order(prog, res)
	result := infer.Infer(prog, res, clustering, intrinsicSig, noHostSig)
	return prog, res, clustering, result
}

func TestInferLiteralAndIntrinsicComposition(t *testing.T) {
	prog, _, _, result := setup(t, `main: { \ -> 2 3 add }`)
	nf := prog.ByName("main")
	br := nf.Fn.Branches[0]

	lit := br.Body[0].(*ast.LiteralNumber)
	sig := result.ExprTypes[lit.Location()]
	require.Empty(t, sig.Inputs)
	require.Equal(t, []infer.Type{{Kind: infer.Number}}, sig.Outputs)

	add := br.Body[2].(*ast.Identifier)
	addSig := result.ExprTypes[add.Location()]
	require.Equal(t, []infer.Type{{Kind: infer.Number}, {Kind: infer.Number}}, addSig.Inputs)
	require.Equal(t, []infer.Type{{Kind: infer.Number}}, addSig.Outputs)

	branchSig := result.BranchTypes[br.Loc]
	require.Empty(t, branchSig.Inputs)
	require.Equal(t, []infer.Type{{Kind: infer.Number}}, branchSig.Outputs)
}

func TestInferParameterTypeFromUsage(t *testing.T) {
	prog, _, _, result := setup(t, `main: { \ n -> n 1 add }`)
	nf := prog.ByName("main")
	fnSig := result.FunctionTypes[nf.Fn.Loc]
	require.Len(t, fnSig.Inputs, 1)
	require.Equal(t, infer.Number, fnSig.Inputs[0].Kind)
	require.Equal(t, []infer.Type{{Kind: infer.Number}}, fnSig.Outputs)
}

func TestInferRecursiveFunctionConvergesToConsistentSignature(t *testing.T) {
	prog, _, _, result := setup(t, `
count: {
	\ 0 -> 0
	\ n -> n 1 sub count
}`)
	nf := prog.ByName("count")
	fnSig := result.FunctionTypes[nf.Fn.Loc]
	require.Len(t, fnSig.Inputs, 1)
	require.Equal(t, infer.Number, fnSig.Inputs[0].Kind)
	require.Len(t, fnSig.Outputs, 1)
	require.Equal(t, infer.Number, fnSig.Outputs[0].Kind)
}

func TestInferLocalFunctionPushesFunctionType(t *testing.T) {
	prog, _, _, result := setup(t, `
main: {
	\ -> { \ -> 1 }
}`)
	nf := prog.ByName("main")
	br := nf.Fn.Branches[0]
	lf := br.Body[0].(*ast.LocalFunction)

	sig := result.ExprTypes[lf.Location()]
	require.Len(t, sig.Outputs, 1)
	require.Equal(t, infer.Function, sig.Outputs[0].Kind)
	require.NotNil(t, sig.Outputs[0].Sig)
	require.Equal(t, []infer.Type{{Kind: infer.Number}}, sig.Outputs[0].Sig.Outputs)
}

func TestInferConflictingUsageRecordsErrorWithoutAborting(t *testing.T) {
	_, _, _, result := setup(t, `
bad: {
	\ n -> n { \ -> 1 } add
}`)
	// n is used directly as an add operand (forcing Number) and the
	// preceding local function pushes a Function value consumed by the
	// same add, so one of add's two operands is a concrete type clash.
	require.NotEmpty(t, result.Errors)
}
