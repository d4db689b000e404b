package protocol

import "github.com/mna/crosscut/lang/ast"

// ParameterSnapshot is the wire form of an ast.Pattern.
type ParameterSnapshot struct {
	Kind  ast.PatternKind `yaml:"kind"`
	Name  string          `yaml:"name,omitempty"`
	Value int64           `yaml:"value,omitempty"`
}

// MemberSnapshot is the discriminated wire form of an ast.Member: exactly
// one of Text, Value, Name or Function is populated, selected by Kind.
type MemberSnapshot struct {
	Kind     string             `yaml:"kind"` // comment | number | identifier | local_function | bad
	Location ast.MemberLocation `yaml:"location"`

	Text     string            `yaml:"text,omitempty"`
	Value    int64             `yaml:"value,omitempty"`
	Name     string            `yaml:"name,omitempty"`
	Function *FunctionSnapshot `yaml:"function,omitempty"`
}

// BranchSnapshot is the wire form of an ast.Branch.
type BranchSnapshot struct {
	Location   ast.BranchLocation  `yaml:"location"`
	Parameters []ParameterSnapshot `yaml:"parameters"`
	Body       []MemberSnapshot    `yaml:"body"`
}

// FunctionSnapshot is the wire form of an ast.Function.
type FunctionSnapshot struct {
	Location ast.FunctionLocation `yaml:"location"`
	Branches []BranchSnapshot     `yaml:"branches"`
}

// NamedFunctionSnapshot is the wire form of an ast.NamedFunction.
type NamedFunctionSnapshot struct {
	Name     string           `yaml:"name"`
	Function FunctionSnapshot `yaml:"function"`
}

// SyntaxSnapshot is the wire form of an ast.Program: the "syntax_tree" part
// of spec §6's Code update.
type SyntaxSnapshot struct {
	Functions []NamedFunctionSnapshot `yaml:"functions"`
}

// SnapshotSyntax walks prog in declaration order and produces its wire form.
func SnapshotSyntax(prog *ast.Program) SyntaxSnapshot {
	out := SyntaxSnapshot{Functions: make([]NamedFunctionSnapshot, 0, len(prog.Order))}
	for _, idx := range prog.Order {
		nf := prog.Functions[idx]
		out.Functions = append(out.Functions, NamedFunctionSnapshot{
			Name:     nf.Name,
			Function: snapshotFunction(nf.Fn),
		})
	}
	return out
}

func snapshotFunction(fn *ast.Function) FunctionSnapshot {
	out := FunctionSnapshot{Location: fn.Loc, Branches: make([]BranchSnapshot, 0, len(fn.Branches))}
	for _, br := range fn.Branches {
		out.Branches = append(out.Branches, snapshotBranch(br))
	}
	return out
}

func snapshotBranch(br *ast.Branch) BranchSnapshot {
	out := BranchSnapshot{
		Location:   br.Loc,
		Parameters: make([]ParameterSnapshot, 0, len(br.Parameters)),
		Body:       make([]MemberSnapshot, 0, len(br.Body)),
	}
	for _, p := range br.Parameters {
		out.Parameters = append(out.Parameters, ParameterSnapshot{Kind: p.Kind, Name: p.Name, Value: p.Value})
	}
	for _, m := range br.Body {
		out.Body = append(out.Body, snapshotMember(m))
	}
	return out
}

func snapshotMember(m ast.Member) MemberSnapshot {
	switch m := m.(type) {
	case *ast.Comment:
		return MemberSnapshot{Kind: "comment", Location: m.Loc, Text: m.Text}
	case *ast.LiteralNumber:
		return MemberSnapshot{Kind: "number", Location: m.Loc, Value: m.Value}
	case *ast.Identifier:
		return MemberSnapshot{Kind: "identifier", Location: m.Loc, Name: m.Name}
	case *ast.LocalFunction:
		fn := snapshotFunction(m.Fn)
		return MemberSnapshot{Kind: "local_function", Location: m.Loc, Function: &fn}
	case *ast.BadExpr:
		return MemberSnapshot{Kind: "bad", Location: m.Loc}
	default:
		return MemberSnapshot{Kind: "bad", Location: m.Location()}
	}
}
