// Package token defines the lexical tokens of the Crosscut language and the
// positions used to track them through the rest of the pipeline.
package token

// A Token represents a lexical token.
type Token int8

//nolint:revive
const (
	ILLEGAL Token = iota
	EOF

	// Tokens with values.
	IDENT // add, x, set_pixel
	INT   // 123, -4

	// Punctuation.
	LBRACE // {
	RBRACE // }
	COLON  // :
	COMMA  // ,
	ARROW  // ->
	BACK   // \
	DOT    // .

	// Keywords.
	FN   // fn
	SELF // self
	BR   // br

	// COMMENT is always produced for a '#' line comment; the parser turns it
	// into an ast.Comment member, outside the expression/pattern grammar.
	COMMENT // # ...

	maxToken
)

func (tok Token) String() string { return tokenNames[tok] }

// GoString is like String but quotes punctuation tokens, for use in
// Sprintf("%#v", tok) when constructing error messages.
func (tok Token) GoString() string {
	if tok >= LBRACE && tok <= DOT {
		return "'" + tokenNames[tok] + "'"
	}
	return tokenNames[tok]
}

var tokenNames = [...]string{
	ILLEGAL: "illegal token",
	EOF:     "end of file",
	IDENT:   "identifier",
	INT:     "int literal",
	LBRACE:  "{",
	RBRACE:  "}",
	COLON:   ":",
	COMMA:   ",",
	ARROW:   "->",
	BACK:    `\`,
	DOT:     ".",
	FN:      "fn",
	SELF:    "self",
	BR:      "br",
	COMMENT: "comment",
}

var keywords = map[string]Token{
	"fn":   FN,
	"self": SELF,
	"br":   BR,
}

// LookupIdent reports the keyword token for lit, or IDENT if lit is not a
// keyword.
func LookupIdent(lit string) Token {
	if tok, ok := keywords[lit]; ok {
		return tok
	}
	return IDENT
}
