package infer

import (
	"github.com/mna/crosscut/lang/ast"
	"github.com/mna/crosscut/lang/order"
	"github.com/mna/crosscut/lang/resolver"
)

// Error is a non-fatal type conflict discovered during inference, attached
// to the member that triggered it.
type Error struct {
	Loc      ast.MemberLocation
	Expected Type
	Found    Type
}

// Result is the output of inferring a whole Program: the stack effect of
// every expression, branch and function, plus every type conflict found
// along the way (inference keeps going regardless).
type Result struct {
	ExprTypes     map[ast.MemberLocation]Signature
	BranchTypes   map[ast.BranchLocation]Signature
	FunctionTypes map[ast.FunctionLocation]Signature
	Errors        []Error
}

// Infer computes stack-effect signatures for every function in prog,
// processing clusters in the topological order lang/order already
// computed. A cluster of size 1 resolves in a single pass; cycles (direct
// or mutual recursion, and the unordered relationship between a local
// function literal and the function lexically containing it) need several
// whole-program passes to reach a fixed point, bounded below at a count
// proportional to the number of clusters since unification is monotone
// and a stalled pass is simply a no-op.
func Infer(prog *ast.Program, res *resolver.Result, clustering *order.Clustering, intrinsicSig IntrinsicSignature, hostSig HostSignature) *Result {
	inf := &inferer{
		vars:         newVarStore(),
		intrinsicSig: intrinsicSig,
		hostSig:      hostSig,
		res:          res,
		clustering:   clustering,
		paramVar:     make(map[ast.ParameterLocation]varID),
		funcInputs:   make(map[ast.FunctionLocation][]varID),
		funcOutputs:  make(map[ast.FunctionLocation][]varID),
		exprVars:     make(map[ast.MemberLocation]exprVars),
		branchVars:   make(map[ast.BranchLocation]branchVarsEntry),
		errSeen:      make(map[errKey]bool),
	}

	functions := collectFunctions(prog)
	inf.functions = functions

	passes := len(clustering.Clusters) + 2
	for p := 0; p < passes; p++ {
		for _, cl := range clustering.Clusters {
			for _, loc := range cl.Members {
				if fn := functions[loc]; fn != nil {
					inf.inferFunction(fn, cl)
				}
			}
		}
	}

	return inf.materialize()
}

// collectFunctions walks prog and returns every named and local function
// keyed by its FunctionLocation, mirroring lang/order's traversal.
func collectFunctions(prog *ast.Program) map[ast.FunctionLocation]*ast.Function {
	out := make(map[ast.FunctionLocation]*ast.Function)
	var walk func(fn *ast.Function)
	walk = func(fn *ast.Function) {
		if _, ok := out[fn.Loc]; ok {
			return
		}
		out[fn.Loc] = fn
		for _, br := range fn.Branches {
			for _, m := range br.Body {
				if lf, ok := m.(*ast.LocalFunction); ok {
					walk(lf.Fn)
				}
			}
		}
	}
	for _, idx := range prog.Order {
		walk(prog.Functions[idx].Fn)
	}
	return out
}

type exprVars struct {
	inputs  []varID
	outputs []varID
}

type branchVarsEntry struct {
	inputs  []varID
	outputs []varID
}

type errKey struct {
	loc ast.MemberLocation
}

type inferer struct {
	vars         *varStore
	intrinsicSig IntrinsicSignature
	hostSig      HostSignature
	res          *resolver.Result
	clustering   *order.Clustering

	functions map[ast.FunctionLocation]*ast.Function

	paramVar    map[ast.ParameterLocation]varID
	funcInputs  map[ast.FunctionLocation][]varID
	funcOutputs map[ast.FunctionLocation][]varID

	exprVars   map[ast.MemberLocation]exprVars
	branchVars map[ast.BranchLocation]branchVarsEntry

	errs    []Error
	errSeen map[errKey]bool
}

func (inf *inferer) addConflict(loc ast.MemberLocation, c *Conflict) {
	if c == nil {
		return
	}
	k := errKey{loc: loc}
	if inf.errSeen[k] {
		return
	}
	inf.errSeen[k] = true
	inf.errs = append(inf.errs, Error{Loc: loc, Expected: c.Expected, Found: c.Found})
}

func (inf *inferer) paramTypeVar(p *ast.Pattern) varID {
	if p.Kind == ast.PatternLiteral {
		v := inf.vars.fresh()
		inf.vars.setConcrete(v, Type{Kind: Number})
		return v
	}
	v, ok := inf.paramVar[p.Loc]
	if !ok {
		v = inf.vars.fresh()
		inf.paramVar[p.Loc] = v
	}
	return v
}

// funcSignatureVars returns the (possibly still partial) input/output
// variable lists for fnLoc, allocating them on first use so that callees
// referenced before their own cluster has run still get a stable, later
// refinable, set of variables.
func (inf *inferer) funcSignatureVars(fnLoc ast.FunctionLocation, arity int) ([]varID, []varID) {
	in, ok := inf.funcInputs[fnLoc]
	if !ok {
		in = make([]varID, arity)
		for i := range in {
			in[i] = inf.vars.fresh()
		}
		inf.funcInputs[fnLoc] = in
	}
	out, ok := inf.funcOutputs[fnLoc]
	if !ok {
		out = nil
		inf.funcOutputs[fnLoc] = out
	}
	return in, out
}

func (inf *inferer) inferFunction(fn *ast.Function, cl order.Cluster) {
	for _, br := range fn.Branches {
		inVars, outVars := inf.inferBranch(br, cl)
		inf.branchVars[br.Loc] = branchVarsEntry{inputs: inVars, outputs: outVars}
		inf.reconcileFunctionSignature(fn.Loc, br.Loc, inVars, outVars)
	}
}

// reconcileFunctionSignature unifies one branch's computed signature
// against the function's canonical signature, creating the canonical
// signature from the first branch seen and flagging an arity mismatch
// (branches must agree on shape per spec §4.5) without aborting. errLoc
// anchors any mismatch diagnostic to the offending branch's first member,
// since a shape disagreement belongs to the branch, not to any one
// expression within it.
func (inf *inferer) reconcileFunctionSignature(fnLoc ast.FunctionLocation, brLoc ast.BranchLocation, inVars, outVars []varID) {
	errLoc := ast.MemberLocation{Parent: brLoc, Index: 0}

	canonIn, ok := inf.funcInputs[fnLoc]
	if !ok || len(canonIn) == 0 {
		inf.funcInputs[fnLoc] = inVars
	} else if len(canonIn) != len(inVars) {
		inf.addConflict(errLoc, &Conflict{
			Expected: Type{Kind: Function, Sig: &Signature{Inputs: inf.typesOf(canonIn)}},
			Found:    Type{Kind: Function, Sig: &Signature{Inputs: inf.typesOf(inVars)}},
		})
	} else {
		for i := range canonIn {
			if c := inf.vars.unify(canonIn[i], inVars[i]); c != nil {
				inf.addConflict(errLoc, c)
			}
		}
	}

	canonOut, ok := inf.funcOutputs[fnLoc]
	if !ok || len(canonOut) == 0 {
		inf.funcOutputs[fnLoc] = outVars
		return
	}
	if len(canonOut) != len(outVars) {
		inf.addConflict(errLoc, &Conflict{
			Expected: Type{Kind: Function, Sig: &Signature{Outputs: inf.typesOf(canonOut)}},
			Found:    Type{Kind: Function, Sig: &Signature{Outputs: inf.typesOf(outVars)}},
		})
		return
	}
	for i := range canonOut {
		if c := inf.vars.unify(canonOut[i], outVars[i]); c != nil {
			inf.addConflict(errLoc, c)
		}
	}
}

func (inf *inferer) inferBranch(br *ast.Branch, cl order.Cluster) ([]varID, []varID) {
	sim := &stackSim{vars: inf.vars}
	for _, m := range br.Body {
		inf.inferMember(m, sim, cl)
	}
	paramVars := make([]varID, len(br.Parameters))
	for i, p := range br.Parameters {
		paramVars[i] = inf.paramTypeVar(p)
	}
	return paramVars, sim.stack
}

func (inf *inferer) inferMember(m ast.Member, sim *stackSim, cl order.Cluster) {
	switch m := m.(type) {
	case *ast.Comment:
		// no stack effect
	case *ast.LiteralNumber:
		v := inf.vars.fresh()
		inf.vars.setConcrete(v, Type{Kind: Number})
		sim.push(v)
		inf.exprVars[m.Location()] = exprVars{outputs: []varID{v}}
	case *ast.Identifier:
		inf.inferIdentifier(m, sim, cl)
	case *ast.LocalFunction:
		if _, seen := inf.funcOutputs[m.Fn.Loc]; !seen {
			// The literal's own cluster may come later in the order; infer its
			// body now so the Function type pushed here has a real signature.
			if lcl, _, ok := inf.clustering.ClusterOf(m.Fn.Loc); ok {
				inf.inferFunction(m.Fn, lcl)
			}
		}
		in, out := inf.funcSignatureVars(m.Fn.Loc, inf.arityOf(m.Fn.Loc))
		v := inf.vars.fresh()
		inf.vars.setConcrete(v, Type{Kind: Function, Sig: inf.snapshotSignature(in, out)})
		sim.push(v)
		inf.exprVars[m.Location()] = exprVars{outputs: []varID{v}}
	}
}

func (inf *inferer) snapshotSignature(in, out []varID) *Signature {
	sig := &Signature{Inputs: make([]Type, len(in)), Outputs: make([]Type, len(out))}
	for i, v := range in {
		sig.Inputs[i] = inf.vars.get(v)
	}
	for i, v := range out {
		sig.Outputs[i] = inf.vars.get(v)
	}
	return sig
}

func (inf *inferer) inferIdentifier(id *ast.Identifier, sim *stackSim, cl order.Cluster) {
	tgt, ok := inf.res.Targets[id.Location()]
	if !ok {
		tgt = resolver.Target{Kind: resolver.Unresolved, Name: id.Name}
	}

	switch tgt.Kind {
	case resolver.Binding:
		v, ok := inf.paramVar[tgt.Param]
		if !ok {
			v = inf.vars.fresh()
			inf.paramVar[tgt.Param] = v
		}
		sim.push(v)
		inf.exprVars[id.Location()] = exprVars{outputs: []varID{v}}

	case resolver.Intrinsic:
		sig, ok := inf.intrinsicSig(tgt.Name)
		inf.applyFixedCall(id.Location(), sig, ok, sim)

	case resolver.Host:
		sig, ok := inf.hostSig(tgt.Name)
		inf.applyFixedCall(id.Location(), sig, ok, sim)

	case resolver.UserFunction:
		in, out := inf.funcSignatureVars(tgt.Fn, inf.arityOf(tgt.Fn))
		inf.applyUserCall(id.Location(), in, out, sim)

	case resolver.LocalRecursive:
		calleeLoc, ok := clusterMember(cl, tgt.Cluster)
		if !ok {
			inf.applyUnknown(id.Location(), sim)
			return
		}
		in, out := inf.funcSignatureVars(calleeLoc, inf.arityOf(calleeLoc))
		inf.applyUserCall(id.Location(), in, out, sim)

	default: // Unresolved
		inf.applyUnknown(id.Location(), sim)
	}
}

// arityOf returns loc's declared parameter count from its first branch,
// or 0 for a function with no branches (a parse error already reported
// elsewhere).
func (inf *inferer) arityOf(loc ast.FunctionLocation) int {
	fn := inf.functions[loc]
	if fn == nil || len(fn.Branches) == 0 {
		return 0
	}
	return len(fn.Branches[0].Parameters)
}

func clusterMember(cl order.Cluster, idx int) (ast.FunctionLocation, bool) {
	if idx < 0 || idx >= len(cl.Members) {
		return ast.FunctionLocation{}, false
	}
	return cl.Members[idx], true
}

func (inf *inferer) applyUnknown(loc ast.MemberLocation, sim *stackSim) {
	v := inf.vars.fresh()
	sim.push(v)
	inf.exprVars[loc] = exprVars{outputs: []varID{v}}
}

// applyFixedCall applies a known, concrete Signature (intrinsics, host
// functions) to the simulated stack.
func (inf *inferer) applyFixedCall(loc ast.MemberLocation, sig Signature, ok bool, sim *stackSim) {
	if !ok {
		inf.applyUnknown(loc, sim)
		return
	}
	inVars := make([]varID, len(sig.Inputs))
	for i := len(sig.Inputs) - 1; i >= 0; i-- {
		popped := sim.pop()
		if c := inf.vars.setConcrete(popped, sig.Inputs[i]); c != nil {
			inf.addConflict(loc, c)
		}
		inVars[i] = popped
	}
	outVars := make([]varID, len(sig.Outputs))
	for i, t := range sig.Outputs {
		v := inf.vars.fresh()
		inf.vars.setConcrete(v, t)
		sim.push(v)
		outVars[i] = v
	}
	inf.exprVars[loc] = exprVars{inputs: inVars, outputs: outVars}
}

// applyUserCall applies a callee's own (possibly still-refining) signature
// variables, aliasing the call site directly to them: a user function is
// monomorphic, so every call site shares exactly one signature.
func (inf *inferer) applyUserCall(loc ast.MemberLocation, calleeIn, calleeOut []varID, sim *stackSim) {
	inVars := make([]varID, len(calleeIn))
	for i := len(calleeIn) - 1; i >= 0; i-- {
		popped := sim.pop()
		if c := inf.vars.unify(popped, calleeIn[i]); c != nil {
			inf.addConflict(loc, c)
		}
		inVars[i] = calleeIn[i]
	}
	outVars := append([]varID{}, calleeOut...)
	for _, v := range outVars {
		sim.push(v)
	}
	inf.exprVars[loc] = exprVars{inputs: inVars, outputs: outVars}
}

func (inf *inferer) materialize() *Result {
	res := &Result{
		ExprTypes:     make(map[ast.MemberLocation]Signature, len(inf.exprVars)),
		BranchTypes:   make(map[ast.BranchLocation]Signature, len(inf.branchVars)),
		FunctionTypes: make(map[ast.FunctionLocation]Signature, len(inf.funcInputs)),
		Errors:        inf.errs,
	}
	for loc, ev := range inf.exprVars {
		res.ExprTypes[loc] = Signature{Inputs: inf.typesOf(ev.inputs), Outputs: inf.typesOf(ev.outputs)}
	}
	for loc, bv := range inf.branchVars {
		res.BranchTypes[loc] = Signature{Inputs: inf.typesOf(bv.inputs), Outputs: inf.typesOf(bv.outputs)}
	}
	for loc, in := range inf.funcInputs {
		res.FunctionTypes[loc] = Signature{Inputs: inf.typesOf(in), Outputs: inf.typesOf(inf.funcOutputs[loc])}
	}
	return res
}

func (inf *inferer) typesOf(vars []varID) []Type {
	if len(vars) == 0 {
		return nil
	}
	out := make([]Type, len(vars))
	for i, v := range vars {
		out[i] = inf.vars.get(v)
	}
	return out
}

// stackSim simulates the operand stack across one branch body. Popping
// beneath the bottom yields a fresh Unknown variable representing a value
// assumed already present on the stack (left there by the caller, or by a
// prior sibling expression in an enclosing branch) rather than growing the
// function's own declared arity: this implementation attributes a
// function's Signature.Inputs solely to its parameter patterns, the only
// place Crosscut gives consumption an explicit, static arity.
type stackSim struct {
	vars  *varStore
	stack []varID
}

func (s *stackSim) push(v varID) { s.stack = append(s.stack, v) }

func (s *stackSim) pop() varID {
	if len(s.stack) == 0 {
		return s.vars.fresh()
	}
	v := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return v
}
