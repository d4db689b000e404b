package token

import gotoken "go/token"

// Pos, File, FileSet and Position are re-exported from the standard
// library's go/token package rather than reimplemented: Crosscut's source
// positions have exactly the same shape (1-based line/column within a named
// file, aggregated across a set of files) as what go/token already solves,
// and go/scanner (used by lang/scanner for error accumulation) is built
// directly on top of these types.
type (
	Pos      = gotoken.Pos
	File     = gotoken.File
	FileSet  = gotoken.FileSet
	Position = gotoken.Position
)

// NewFileSet creates a new, empty FileSet.
func NewFileSet() *FileSet { return gotoken.NewFileSet() }

// NoPos is the zero value for Pos; it means "unknown position".
const NoPos = gotoken.NoPos
