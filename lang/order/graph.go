package order

import (
	"github.com/mna/crosscut/lang/ast"
	"github.com/mna/crosscut/lang/resolver"
)

// graph is the call graph over every named and local user function in a
// Program: nodes are FunctionLocations, edges point from caller to callee.
type graph struct {
	nodes          []ast.FunctionLocation
	insertionIndex map[ast.FunctionLocation]int
	edges          map[ast.FunctionLocation][]ast.FunctionLocation
	callSites      map[ast.FunctionLocation][]ast.MemberLocation
}

func buildGraph(prog *ast.Program, res *resolver.Result) *graph {
	g := &graph{
		insertionIndex: make(map[ast.FunctionLocation]int),
		edges:          make(map[ast.FunctionLocation][]ast.FunctionLocation),
		callSites:      make(map[ast.FunctionLocation][]ast.MemberLocation),
	}

	var walk func(fn *ast.Function)
	walk = func(fn *ast.Function) {
		if _, ok := g.insertionIndex[fn.Loc]; ok {
			return
		}
		g.insertionIndex[fn.Loc] = len(g.nodes)
		g.nodes = append(g.nodes, fn.Loc)

		for _, br := range fn.Branches {
			for _, m := range br.Body {
				switch m := m.(type) {
				case *ast.Identifier:
					tgt, ok := res.Targets[m.Location()]
					if !ok || tgt.Kind != resolver.UserFunction {
						continue
					}
					g.edges[fn.Loc] = append(g.edges[fn.Loc], tgt.Fn)
					g.callSites[fn.Loc] = append(g.callSites[fn.Loc], m.Location())
				case *ast.LocalFunction:
					// Defining a local function is not calling it: the closure is
					// only entered later, dynamically, via eval. It still needs its
					// own node (and its own, at-worst singleton, cluster) so type
					// inference and code generation have something to process.
					walk(m.Fn)
				}
			}
		}
	}

	for _, idx := range prog.Order {
		walk(prog.Functions[idx].Fn)
	}
	return g
}
