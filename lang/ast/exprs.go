package ast

import "github.com/mna/crosscut/lang/token"

// Identifier is a bare name expression; resolved to a Binding, Intrinsic,
// Host function, user function, recursive self-reference, or left
// Unresolved by lang/resolver.
type Identifier struct {
	Loc  MemberLocation
	Pos  token.Pos
	Name string
}

func (n *Identifier) Span() (start, end token.Pos) { return n.Pos, n.Pos + token.Pos(len(n.Name)) }
func (n *Identifier) Location() MemberLocation     { return n.Loc }
func (n *Identifier) member()                      {}
func (n *Identifier) expr()                        {}

// LiteralNumber is an integer literal expression.
type LiteralNumber struct {
	Loc   MemberLocation
	Pos   token.Pos
	Raw   string
	Value int64
}

func (n *LiteralNumber) Span() (start, end token.Pos) { return n.Pos, n.Pos + token.Pos(len(n.Raw)) }
func (n *LiteralNumber) Location() MemberLocation     { return n.Loc }
func (n *LiteralNumber) member()                      {}
func (n *LiteralNumber) expr()                        {}

// LocalFunction is an anonymous function literal appearing as an
// expression; its Fn.Loc is a Local location anchored at Loc.
type LocalFunction struct {
	Loc MemberLocation
	Fn  *Function
}

func (n *LocalFunction) Span() (start, end token.Pos) { return n.Fn.Span() }
func (n *LocalFunction) Location() MemberLocation     { return n.Loc }
func (n *LocalFunction) member()                      {}
func (n *LocalFunction) expr()                        {}

// BadExpr is synthesized by the parser in place of an expression it could
// not parse, so that partial compilation can continue: the location is
// preserved but the node is marked erroneous.
type BadExpr struct {
	Loc      MemberLocation
	Pos, End token.Pos
}

func (n *BadExpr) Span() (start, end token.Pos) { return n.Pos, n.End }
func (n *BadExpr) Location() MemberLocation     { return n.Loc }
func (n *BadExpr) member()                      {}
func (n *BadExpr) expr()                        {}
