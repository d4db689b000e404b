// Package ast defines the syntax tree produced by lang/parser: named and
// local functions, branches, patterns, and the members (expressions and
// comments) of a branch body.
//
// Every syntactic construct also carries a Location: a purely positional
// identity (stable across renames and edits that do not reorder or delete
// members) that is the primary key used by the source map, breakpoints, and
// the update engine. Locations are plain comparable values so they can be
// used directly as map keys.
package ast

import "fmt"

// FunctionIndex identifies a named, top-level function by its position in
// source order.
type FunctionIndex int

// BranchIndex identifies a branch by its position within a function's
// branch list.
type BranchIndex int

// MemberIndex identifies a member (expression or comment) by its position
// within a branch body.
type MemberIndex int

// ParamIndex identifies a parameter by its position within a branch's
// parameter list.
type ParamIndex int

// FunctionLocation identifies a function: either a top-level named
// function, or a local (anonymous) function nested at some member site.
type FunctionLocation struct {
	// Named is true if this location refers to a top-level named function, in
	// which case Index is meaningful. Otherwise At identifies the member
	// expression whose value is the local function, held as that
	// MemberLocation's String form: a MemberLocation contains a
	// FunctionLocation, so it cannot be stored here by value.
	Named bool
	Index FunctionIndex
	At    string
}

// NamedFunctionLoc builds the location of the index'th top-level function.
func NamedFunctionLoc(index FunctionIndex) FunctionLocation {
	return FunctionLocation{Named: true, Index: index}
}

// LocalFunctionLoc builds the location of a local function literal
// appearing as the expression at member location at.
func LocalFunctionLoc(at MemberLocation) FunctionLocation {
	return FunctionLocation{Named: false, At: at.String()}
}

func (l FunctionLocation) String() string {
	if l.Named {
		return fmt.Sprintf("fn#%d", l.Index)
	}
	return fmt.Sprintf("local@%s", l.At)
}

// BranchLocation identifies one branch of a function by its position.
type BranchLocation struct {
	Parent FunctionLocation
	Index  BranchIndex
}

func (l BranchLocation) String() string { return fmt.Sprintf("%s/br%d", l.Parent, l.Index) }

// MemberLocation identifies one member (expression or comment) of a
// branch's body.
type MemberLocation struct {
	Parent BranchLocation
	Index  MemberIndex
}

func (l MemberLocation) String() string { return fmt.Sprintf("%s/m%d", l.Parent, l.Index) }

// ParameterLocation identifies one parameter of a branch.
type ParameterLocation struct {
	Parent BranchLocation
	Index  ParamIndex
}

func (l ParameterLocation) String() string { return fmt.Sprintf("%s/p%d", l.Parent, l.Index) }
