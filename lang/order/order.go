// Package order implements Function Ordering (spec §4.4): it builds the
// directed call graph over every named and local user function, computes
// its strongly-connected components with Tarjan's algorithm, and exposes
// them already in the order type inference and code generation need —
// callees before callers, with a deterministic insertion-order tiebreak
// for functions that share a cluster.
//
// As a side effect it rewrites every resolver.Target that turns out to be
// an intra-cluster call into resolver.LocalRecursive, carrying the index
// of the callee within its own cluster, so that code generation never has
// to forward-reference an address that does not exist yet.
package order

import (
	"github.com/mna/crosscut/lang/ast"
	"github.com/mna/crosscut/lang/resolver"
)

// Cluster is a strongly-connected component of the call graph: an ordered
// list of functions, callable mutually recursively, compiled and
// type-inferred together as a single unit.
type Cluster struct {
	Members []ast.FunctionLocation
}

// IndexOf returns the position of loc within the cluster, or -1.
func (c Cluster) IndexOf(loc ast.FunctionLocation) int {
	for i, m := range c.Members {
		if m == loc {
			return i
		}
	}
	return -1
}

// Clustering is the result of ordering a Program: every user function
// grouped into clusters, topologically sorted so that for every call edge
// u -> v not internal to a cluster, v's cluster precedes u's.
type Clustering struct {
	Clusters []Cluster

	clusterIndex map[ast.FunctionLocation]int
}

// ClusterOf returns the cluster containing loc, and its index within
// Clusters.
func (c *Clustering) ClusterOf(loc ast.FunctionLocation) (Cluster, int, bool) {
	idx, ok := c.clusterIndex[loc]
	if !ok {
		return Cluster{}, 0, false
	}
	return c.Clusters[idx], idx, true
}

// Order computes the Clustering for prog and rewrites res.Targets in
// place: every UserFunction target whose callee shares a cluster with its
// caller becomes LocalRecursive(index_in_cluster).
func Order(prog *ast.Program, res *resolver.Result) *Clustering {
	g := buildGraph(prog, res)
	sccs := tarjanSCCs(g)

	clustering := &Clustering{clusterIndex: make(map[ast.FunctionLocation]int, len(g.nodes))}
	for _, scc := range sccs {
		// Deterministic order within a cluster: by insertion (discovery) index.
		members := append([]ast.FunctionLocation(nil), scc...)
		sortByInsertion(members, g.insertionIndex)

		ci := len(clustering.Clusters)
		clustering.Clusters = append(clustering.Clusters, Cluster{Members: members})
		for _, m := range members {
			clustering.clusterIndex[m] = ci
		}
	}

	rewriteLocalRecursive(g, clustering, res)
	return clustering
}

func sortByInsertion(locs []ast.FunctionLocation, insertionIndex map[ast.FunctionLocation]int) {
	for i := 1; i < len(locs); i++ {
		for j := i; j > 0 && insertionIndex[locs[j-1]] > insertionIndex[locs[j]]; j-- {
			locs[j-1], locs[j] = locs[j], locs[j-1]
		}
	}
}

// rewriteLocalRecursive walks every function's own call sites again (the
// graph edges already computed by buildGraph are indexed by caller, so we
// reuse g.callSites rather than re-walking the AST) and rewrites any
// UserFunction target whose callee is in the caller's own cluster.
func rewriteLocalRecursive(g *graph, clustering *Clustering, res *resolver.Result) {
	for caller, sites := range g.callSites {
		callerCluster, callerIdx, ok := clustering.ClusterOf(caller)
		if !ok {
			continue
		}
		for _, site := range sites {
			tgt, ok := res.Targets[site]
			if !ok || tgt.Kind != resolver.UserFunction {
				continue
			}
			_, calleeIdx, ok := clustering.ClusterOf(tgt.Fn)
			if !ok || calleeIdx != callerIdx {
				continue
			}
			res.Targets[site] = resolver.Target{
				Kind:    resolver.LocalRecursive,
				Name:    tgt.Name,
				Cluster: callerCluster.IndexOf(tgt.Fn),
			}
		}
	}
}
