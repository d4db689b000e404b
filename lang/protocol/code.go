package protocol

import (
	"cmp"
	"slices"

	"github.com/mna/crosscut/lang/ast"
	"github.com/mna/crosscut/lang/compiler"
)

// SourceMapEntry is one instruction/expression pairing, the flattened wire
// form of compiler.SourceMap.InstrToExpr (a map does not serialize
// deterministically; a sorted slice does — spec §6: "Location types
// serialize deterministically").
type SourceMapEntry struct {
	Instruction compiler.Address   `yaml:"instruction"`
	Expression  ast.MemberLocation `yaml:"expression"`
}

// CodeSnapshot is the wire form of spec §6's Code update:
// "Code{instructions, source_map, syntax_tree}".
type CodeSnapshot struct {
	Instructions []compiler.Instruction `yaml:"instructions"`
	SourceMap    []SourceMapEntry       `yaml:"source_map"`
	Syntax       SyntaxSnapshot         `yaml:"syntax_tree"`
	MainEntry    compiler.Address       `yaml:"main_entry"`
	HasMain      bool                   `yaml:"has_main"`
}

// SnapshotCode builds the wire form of prog and its compiled code.
func SnapshotCode(prog *ast.Program, code *compiler.Program) CodeSnapshot {
	entries := make([]SourceMapEntry, 0, len(code.SourceMap.InstrToExpr))
	for addr, loc := range code.SourceMap.InstrToExpr {
		entries = append(entries, SourceMapEntry{Instruction: addr, Expression: loc})
	}
	slices.SortFunc(entries, func(a, b SourceMapEntry) int { return cmp.Compare(a.Instruction, b.Instruction) })

	return CodeSnapshot{
		Instructions: code.Instructions,
		SourceMap:    entries,
		Syntax:       SnapshotSyntax(prog),
		MainEntry:    code.MainEntry,
		HasMain:      code.HasMain,
	}
}
