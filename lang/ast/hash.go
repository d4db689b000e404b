package ast

import (
	"crypto/sha256"
	"encoding/binary"
)

// Hash is a content hash: a structural digest of a function's normalized
// form, computed bottom-up over its branches, patterns and expressions.
// Two functions with the same Hash are behaviorally equivalent modulo
// environment capture (it does not distinguish which outer bindings a
// local function closes over, only its own syntactic shape). Hash exists
// in parallel with Location identity and is used for display/equality
// between versions of a function, never by the update engine, which uses
// Location identity instead (see lang/update).
//
// Hash is computed with crypto/sha256 rather than a pack dependency: no
// example repo in the corpus ships a structural/tree hashing library, and a
// general-purpose hash of a small, already-in-memory byte encoding is
// exactly what the standard library's hash packages are for.
type Hash [32]byte

// HashFunction computes the content hash of fn.
func HashFunction(fn *Function) Hash {
	h := sha256.New()
	writeFunction(h, fn)
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

func writeFunction(h interface{ Write([]byte) (int, error) }, fn *Function) {
	writeUint(h, uint64(len(fn.Branches)))
	for _, br := range fn.Branches {
		writeUint(h, uint64(len(br.Parameters)))
		for _, p := range br.Parameters {
			writeUint(h, uint64(p.Kind))
			if p.Kind == PatternLiteral {
				writeUint(h, uint64(p.Value))
			}
		}
		writeUint(h, uint64(len(br.Body)))
		for _, m := range br.Body {
			writeMember(h, m)
		}
	}
}

func writeMember(h interface{ Write([]byte) (int, error) }, m Member) {
	switch m := m.(type) {
	case *Comment:
		h.Write([]byte{0})
	case *Identifier:
		h.Write([]byte{1})
		h.Write([]byte(m.Name))
	case *LiteralNumber:
		h.Write([]byte{2})
		writeUint(h, uint64(m.Value))
	case *LocalFunction:
		h.Write([]byte{3})
		writeFunction(h, m.Fn)
	case *BadExpr:
		h.Write([]byte{4})
	}
}

func writeUint(h interface{ Write([]byte) (int, error) }, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	h.Write(buf[:])
}
