package order_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/crosscut/lang/ast"
	"github.com/mna/crosscut/lang/order"
	"github.com/mna/crosscut/lang/parser"
	"github.com/mna/crosscut/lang/resolver"
	"github.com/mna/crosscut/lang/token"
)

func isIntrinsic(name string) bool {
	switch name {
	case "add", "sub", "eq", "eval":
		return true
	default:
		return false
	}
}

func noHost(string) bool { return false }

func resolveAndOrder(t *testing.T, src string) (*ast.Program, *resolver.Result, *order.Clustering) {
	t.Helper()
	fset := token.NewFileSet()
	prog, err := parser.ParseString(fset, "t.cx", src)
	require.NoError(t, err)
	res := resolver.Resolve(prog, isIntrinsic, noHost)
	clustering := order.Order(prog, res)
	return prog, res, clustering
}

func TestOrderLeafFunctionsFormSingletonClusters(t *testing.T) {
	_, _, clustering := resolveAndOrder(t, `
helper: { \ -> 1 }
main: { \ -> helper }`)
	require.Len(t, clustering.Clusters, 2)
	for _, c := range clustering.Clusters {
		require.Len(t, c.Members, 1)
	}
}

func TestOrderCalleeClusterPrecedesCallerCluster(t *testing.T) {
	prog, _, clustering := resolveAndOrder(t, `
helper: { \ -> 1 }
main: { \ -> helper }`)
	helperLoc := prog.ByName("helper").Fn.Loc
	mainLoc := prog.ByName("main").Fn.Loc

	_, helperIdx, ok := clustering.ClusterOf(helperLoc)
	require.True(t, ok)
	_, mainIdx, ok := clustering.ClusterOf(mainLoc)
	require.True(t, ok)
	require.Less(t, helperIdx, mainIdx)
}

func TestOrderDirectSelfRecursionIsSingletonClusterRewrittenLocalRecursive(t *testing.T) {
	prog, res, clustering := resolveAndOrder(t, `
count: {
	\ 0 -> 0
	\ n -> n 1 sub count
}`)
	nf := prog.ByName("count")
	cluster, _, ok := clustering.ClusterOf(nf.Fn.Loc)
	require.True(t, ok)
	require.Len(t, cluster.Members, 1)

	br := nf.Fn.Branches[1]
	call, ok := br.Body[3].(*ast.Identifier)
	require.True(t, ok)
	require.Equal(t, "count", call.Name)

	tgt := res.Targets[call.Location()]
	require.Equal(t, resolver.LocalRecursive, tgt.Kind)
	require.Equal(t, 0, tgt.Cluster)
}

func TestOrderMutualRecursionFormsOneClusterInInsertionOrder(t *testing.T) {
	prog, res, clustering := resolveAndOrder(t, `
is_even: {
	\ 0 -> 1
	\ n -> n 1 sub is_odd
}
is_odd: {
	\ 0 -> 0
	\ n -> n 1 sub is_even
}`)
	evenLoc := prog.ByName("is_even").Fn.Loc
	oddLoc := prog.ByName("is_odd").Fn.Loc

	cluster, _, ok := clustering.ClusterOf(evenLoc)
	require.True(t, ok)
	require.Len(t, cluster.Members, 2)
	require.Equal(t, []ast.FunctionLocation{evenLoc, oddLoc}, cluster.Members)

	otherCluster, _, ok := clustering.ClusterOf(oddLoc)
	require.True(t, ok)
	require.Equal(t, cluster.Members, otherCluster.Members)

	evenBr := prog.ByName("is_even").Fn.Branches[1]
	call := evenBr.Body[3].(*ast.Identifier)
	tgt := res.Targets[call.Location()]
	require.Equal(t, resolver.LocalRecursive, tgt.Kind)
	require.Equal(t, cluster.IndexOf(oddLoc), tgt.Cluster)
}

func TestOrderLocalFunctionGetsItsOwnSingletonCluster(t *testing.T) {
	prog, _, clustering := resolveAndOrder(t, `
main: {
	\ -> { \ -> 1 } eval
}`)
	nf := prog.ByName("main")
	br := nf.Fn.Branches[0]
	lf := br.Body[0].(*ast.LocalFunction)

	_, mainIdx, ok := clustering.ClusterOf(nf.Fn.Loc)
	require.True(t, ok)
	_, lfIdx, ok := clustering.ClusterOf(lf.Fn.Loc)
	require.True(t, ok)
	require.NotEqual(t, mainIdx, lfIdx)

	cluster, _, _ := clustering.ClusterOf(lf.Fn.Loc)
	require.Len(t, cluster.Members, 1)
}
