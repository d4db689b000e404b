package order

import "github.com/mna/crosscut/lang/ast"

// tarjanSCCs computes the strongly-connected components of g, returned in
// the order Tarjan's algorithm naturally produces them: a component is
// popped off the stack only once every node it can reach has already been
// popped, so callees are always popped (and therefore appear earlier in
// the result) before their callers.
func tarjanSCCs(g *graph) [][]ast.FunctionLocation {
	t := &tarjan{
		g:       g,
		index:   make(map[ast.FunctionLocation]int),
		lowlink: make(map[ast.FunctionLocation]int),
		onStack: make(map[ast.FunctionLocation]bool),
	}
	for _, n := range g.nodes {
		if _, visited := t.index[n]; !visited {
			t.strongConnect(n)
		}
	}
	return t.sccs
}

type tarjan struct {
	g *graph

	next    int
	index   map[ast.FunctionLocation]int
	lowlink map[ast.FunctionLocation]int
	onStack map[ast.FunctionLocation]bool
	stack   []ast.FunctionLocation

	sccs [][]ast.FunctionLocation
}

func (t *tarjan) strongConnect(v ast.FunctionLocation) {
	t.index[v] = t.next
	t.lowlink[v] = t.next
	t.next++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.g.edges[v] {
		if _, visited := t.index[w]; !visited {
			t.strongConnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] != t.index[v] {
		return
	}

	var scc []ast.FunctionLocation
	for {
		n := len(t.stack) - 1
		w := t.stack[n]
		t.stack = t.stack[:n]
		t.onStack[w] = false
		scc = append(scc, w)
		if w == v {
			break
		}
	}
	t.sccs = append(t.sccs, scc)
}
