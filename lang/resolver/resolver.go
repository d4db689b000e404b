// Package resolver implements identifier resolution (spec §4.3): for every
// identifier expression in a parsed Program, it determines whether the name
// is a parameter binding, an intrinsic, a host-provided function, a
// user-defined function, or unresolved — and it computes, for every local
// (anonymous) function, the ordered list of enclosing bindings it captures.
//
// Resolution never fails outright: an identifier that cannot be resolved
// becomes Target{Kind: Unresolved}, which code generation later turns into
// a TriggerEffect(UnresolvedIdentifier) instruction so the failure surfaces
// only if that expression actually runs.
package resolver

import (
	"github.com/mna/crosscut/lang/ast"
)

// TargetKind classifies what an identifier expression resolves to.
type TargetKind int

const (
	Unresolved TargetKind = iota
	Binding
	Intrinsic
	Host
	UserFunction

	// LocalRecursive replaces a UserFunction target, after lang/order runs,
	// when the callee is in the same cluster as the caller: code generation
	// then emits a cluster-relative call that is back-patched once the
	// whole cluster has been compiled, instead of a call to an address that
	// may not exist yet.
	LocalRecursive
)

func (k TargetKind) String() string {
	switch k {
	case Binding:
		return "binding"
	case Intrinsic:
		return "intrinsic"
	case Host:
		return "host"
	case UserFunction:
		return "user-function"
	case LocalRecursive:
		return "local-recursive"
	default:
		return "unresolved"
	}
}

// Target is the resolution outcome for one identifier expression.
type Target struct {
	Kind TargetKind

	Name string // original identifier text, always set

	Param   ast.ParameterLocation // valid when Kind == Binding
	Fn      ast.FunctionLocation  // valid when Kind == UserFunction
	Cluster int                   // valid when Kind == LocalRecursive: index_in_cluster
}

// Capture is one entry of a local function's captured environment: the
// name as it appears free inside the local function's body, and the
// location of the enclosing parameter binding it refers to.
type Capture struct {
	Name  string
	Param ast.ParameterLocation
}

// Result is the output of resolving a Program.
type Result struct {
	// Targets holds the resolution outcome for every Identifier expression,
	// keyed by that expression's MemberLocation.
	Targets map[ast.MemberLocation]Target

	// Environments holds, for every local function with a non-empty capture
	// set, the ordered (first-used) list of bindings it captures.
	Environments map[ast.FunctionLocation][]Capture
}

// IsHost and IsIntrinsic classify identifier names; they are parameters so
// that callers (the CLI, tests) can plug in the concrete host/intrinsic
// vocabularies without this package hard-coding them in more than one
// place. Crosscut's own tables (intrinsics and host functions) live in
// lang/machine and are passed in by the compiler driver.
type (
	IsIntrinsic func(name string) bool
	IsHost      func(name string) bool
)

// scope represents one branch's binding environment, linked to its
// lexically enclosing branch's scope (nil at the top).
type scope struct {
	parent *scope
	fnLoc  ast.FunctionLocation // the function this branch belongs to
	params map[string]ast.ParameterLocation
}

func (s *scope) lookup(name string) (ast.ParameterLocation, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if loc, ok := sc.params[name]; ok {
			return loc, true
		}
	}
	return ast.ParameterLocation{}, false
}

type resolvingFn struct {
	isIntrinsic IsIntrinsic
	isHost      IsHost
	namedIndex  map[string]ast.FunctionLocation

	targets      map[ast.MemberLocation]Target
	environments map[ast.FunctionLocation][]Capture
	seenCapture  map[ast.FunctionLocation]map[string]bool
}

// Resolve resolves every identifier in prog.
func Resolve(prog *ast.Program, isIntrinsic IsIntrinsic, isHost IsHost) *Result {
	r := &resolvingFn{
		isIntrinsic:  isIntrinsic,
		isHost:       isHost,
		namedIndex:   make(map[string]ast.FunctionLocation, len(prog.Order)),
		targets:      make(map[ast.MemberLocation]Target),
		environments: make(map[ast.FunctionLocation][]Capture),
		seenCapture:  make(map[ast.FunctionLocation]map[string]bool),
	}
	for _, idx := range prog.Order {
		nf := prog.Functions[idx]
		r.namedIndex[nf.Name] = ast.NamedFunctionLoc(idx)
	}
	for _, idx := range prog.Order {
		nf := prog.Functions[idx]
		r.resolveFunction(nf.Fn, nil)
	}
	return &Result{Targets: r.targets, Environments: r.environments}
}

// resolveFunction resolves every branch of fn. enclosing is the scope of
// the lexically enclosing branch (nil for a top-level named function).
func (r *resolvingFn) resolveFunction(fn *ast.Function, enclosing *scope) {
	for _, br := range fn.Branches {
		sc := &scope{parent: enclosing, fnLoc: fn.Loc, params: make(map[string]ast.ParameterLocation)}
		for _, p := range br.Parameters {
			if p.Kind == ast.PatternIdent && p.Name != "" {
				sc.params[p.Name] = p.Loc
			}
		}
		for _, m := range br.Body {
			r.resolveMember(m, sc, fn.Loc)
		}
	}
}

func (r *resolvingFn) resolveMember(m ast.Member, sc *scope, owner ast.FunctionLocation) {
	switch m := m.(type) {
	case *ast.Identifier:
		r.resolveIdentifier(m, sc, owner)
	case *ast.LocalFunction:
		r.resolveFunction(m.Fn, sc)
	}
}

func (r *resolvingFn) resolveIdentifier(id *ast.Identifier, sc *scope, owner ast.FunctionLocation) {
	name := id.Name

	// "self" is reserved: it always refers to the innermost enclosing
	// function, which is the only way a local (anonymous) function can call
	// itself. Function Ordering (lang/order) rewrites this, like any other
	// intra-cluster self-call, into a LocalRecursive reference.
	if name == "self" {
		r.targets[id.Loc] = Target{Kind: UserFunction, Name: name, Fn: owner}
		return
	}

	// Priority: binding < intrinsic < host < user-function.
	if param, ok := sc.lookup(name); ok {
		r.targets[id.Loc] = Target{Kind: Binding, Name: name, Param: param}
		r.recordCaptureChain(name, param, sc, owner)
		return
	}
	if r.isIntrinsic != nil && r.isIntrinsic(name) {
		r.targets[id.Loc] = Target{Kind: Intrinsic, Name: name}
		return
	}
	if r.isHost != nil && r.isHost(name) {
		r.targets[id.Loc] = Target{Kind: Host, Name: name}
		return
	}
	if fnLoc, ok := r.lookupUserFunction(name); ok {
		r.targets[id.Loc] = Target{Kind: UserFunction, Name: name, Fn: fnLoc}
		return
	}
	r.targets[id.Loc] = Target{Kind: Unresolved, Name: name}
}

// recordCaptureChain registers name/param as a capture of every local
// function strictly between the use site (owner) and the branch that
// declares param, climbing the scope chain one lexical function at a time.
// A use three closures deep needs the binding threaded through all three
// MakeClosure sites, not just the innermost one, so every intermediate
// function is registered, not only owner.
func (r *resolvingFn) recordCaptureChain(name string, param ast.ParameterLocation, sc *scope, owner ast.FunctionLocation) {
	declaringFn := param.Parent.Parent
	for s := sc; s != nil && s.fnLoc != declaringFn; s = s.parent {
		r.recordCapture(s.fnLoc, name, param)
	}
}

func (r *resolvingFn) recordCapture(fnLoc ast.FunctionLocation, name string, param ast.ParameterLocation) {
	seen := r.seenCapture[fnLoc]
	if seen == nil {
		seen = make(map[string]bool)
		r.seenCapture[fnLoc] = seen
	}
	if seen[name] {
		return
	}
	seen[name] = true
	r.environments[fnLoc] = append(r.environments[fnLoc], Capture{Name: name, Param: param})
}

func (r *resolvingFn) lookupUserFunction(name string) (ast.FunctionLocation, bool) {
	loc, ok := r.namedIndex[name]
	return loc, ok
}
