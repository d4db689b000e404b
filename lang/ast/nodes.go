package ast

import (
	"strconv"

	"github.com/mna/crosscut/lang/token"
)

// Node is implemented by every syntax tree node.
type Node interface {
	// Span reports the start and end source position of the node.
	Span() (start, end token.Pos)
}

// Member is one element of a branch body: either a Comment or an Expr.
type Member interface {
	Node
	Location() MemberLocation
	member()
}

// Expr is a Member that produces a value when evaluated.
type Expr interface {
	Member
	expr()
}

// Program is the result of parsing one or more files: the set of top-level
// named functions, plus the order they were declared in (for deterministic
// iteration and for function ordering's insertion-order tiebreak).
type Program struct {
	Functions map[FunctionIndex]*NamedFunction
	Order     []FunctionIndex
}

// ByName looks up a named function by name, or returns nil.
func (p *Program) ByName(name string) *NamedFunction {
	for _, idx := range p.Order {
		if nf := p.Functions[idx]; nf.Name == name {
			return nf
		}
	}
	return nil
}

// NamedFunction is a top-level "name: { ... }" declaration.
type NamedFunction struct {
	Index   FunctionIndex
	Name    string
	NamePos token.Pos
	Colon   token.Pos
	Fn      *Function
}

func (n *NamedFunction) Span() (start, end token.Pos) {
	_, fnEnd := n.Fn.Span()
	return n.NamePos, fnEnd
}

// Function is the recursive function type: a non-empty, ordered list of
// branches sharing one location (either a named top-level function, or one
// local function literal).
type Function struct {
	Loc      FunctionLocation
	Lbrace   token.Pos
	Branches []*Branch
	Rbrace   token.Pos
}

func (n *Function) Span() (start, end token.Pos) { return n.Lbrace, n.Rbrace + 1 }

// Branch is one "\ params -> body" alternative of a function.
type Branch struct {
	Loc        BranchLocation
	Back       token.Pos
	Parameters []*Pattern
	Arrow      token.Pos
	Body       []Member
	// End is the position of the token that follows the body (the next
	// branch's '\', the closing '}', or EOF); it bounds the span and is not
	// part of the branch itself.
	End token.Pos
}

func (n *Branch) Span() (start, end token.Pos) { return n.Back, n.End }

// PatternKind distinguishes the two forms of Pattern.
type PatternKind int

const (
	// PatternIdent binds the top operand to a name; it always matches.
	PatternIdent PatternKind = iota
	// PatternLiteral matches only if the top operand equals Value; it
	// participates in branch selection.
	PatternLiteral
)

// Pattern is one parameter of a branch: either a binding identifier or a
// literal value that must match for the branch to be selected.
type Pattern struct {
	Loc   ParameterLocation
	Kind  PatternKind
	Name  string // valid when Kind == PatternIdent
	Value int64  // valid when Kind == PatternLiteral
	Pos   token.Pos
}

func (n *Pattern) Span() (start, end token.Pos) {
	if n.Kind == PatternIdent {
		return n.Pos, n.Pos + token.Pos(len(n.Name))
	}
	return n.Pos, n.Pos + token.Pos(len(strconv.FormatInt(n.Value, 10)))
}

// Comment is a "# ..." line comment retained as a Member for display and
// debugging purposes. It is ignored by code generation.
type Comment struct {
	Loc  MemberLocation
	Pos  token.Pos
	Text string // without the leading '#'
}

func (n *Comment) Span() (start, end token.Pos) { return n.Pos, n.Pos + token.Pos(len(n.Text)+1) }
func (n *Comment) Location() MemberLocation     { return n.Loc }
func (n *Comment) member()                      {}
