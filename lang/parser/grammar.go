package parser

import (
	"github.com/mna/crosscut/lang/ast"
	"github.com/mna/crosscut/lang/token"
)

// parseProgram parses `{ named_function }` and appends the result to prog,
// continuing to assign FunctionIndex values after whatever this parser
// instance's Program already contains (so multiple files can be combined).
func (p *parser) parseProgram(prog *ast.Program) {
	for !p.atEOF() {
		if p.curTok() != token.IDENT {
			p.error(p.curPos(), "expected a named function declaration, found %#v", p.curTok())
			p.syncTo(token.IDENT, token.EOF)
			continue
		}
		nf := p.parseNamedFunction(ast.FunctionIndex(len(prog.Order)))
		prog.Functions[nf.Index] = nf
		prog.Order = append(prog.Order, nf.Index)
	}
}

// named_function := identifier ":" function
func (p *parser) parseNamedFunction(index ast.FunctionIndex) *ast.NamedFunction {
	nameTV := p.advance()
	colonPos, _ := p.expect(token.COLON)

	loc := ast.NamedFunctionLoc(index)
	fn := p.parseFunction(loc)

	return &ast.NamedFunction{
		Index:   index,
		Name:    nameTV.Value.Raw,
		NamePos: nameTV.Value.Pos,
		Colon:   colonPos,
		Fn:      fn,
	}
}

// function := "{" { branch } "}"
func (p *parser) parseFunction(loc ast.FunctionLocation) *ast.Function {
	lbrace, _ := p.expect(token.LBRACE)

	fn := &ast.Function{Loc: loc, Lbrace: lbrace}
	var idx ast.BranchIndex
	for p.curTok() == token.BACK {
		br := p.parseBranch(ast.BranchLocation{Parent: loc, Index: idx})
		fn.Branches = append(fn.Branches, br)
		idx++
	}
	if len(fn.Branches) == 0 {
		p.error(p.curPos(), "function must have at least one branch")
	}

	rbrace, ok := p.expect(token.RBRACE)
	if !ok {
		p.syncTo(token.RBRACE, token.IDENT, token.EOF)
		if p.curTok() == token.RBRACE {
			rbrace, _ = p.expect(token.RBRACE)
		}
	}
	fn.Rbrace = rbrace
	return fn
}

// branch := "\" [ parameter_list ] "->" { member }
func (p *parser) parseBranch(loc ast.BranchLocation) *ast.Branch {
	back, _ := p.expect(token.BACK)

	br := &ast.Branch{Loc: loc, Back: back}
	if p.curTok() != token.ARROW {
		br.Parameters = p.parseParameterList(loc)
	}
	arrow, _ := p.expect(token.ARROW)
	br.Arrow = arrow

	var idx ast.MemberIndex
	for p.curTok() != token.BACK && p.curTok() != token.RBRACE && !p.atEOF() {
		m := p.parseMember(ast.MemberLocation{Parent: loc, Index: idx})
		br.Body = append(br.Body, m)
		idx++
	}
	br.End = p.curPos()
	return br
}

// parameter_list := pattern { "," pattern }
func (p *parser) parseParameterList(loc ast.BranchLocation) []*ast.Pattern {
	var params []*ast.Pattern
	var idx ast.ParamIndex
	for {
		params = append(params, p.parsePattern(ast.ParameterLocation{Parent: loc, Index: idx}))
		idx++
		if p.curTok() != token.COMMA {
			break
		}
		p.advance()
	}
	return params
}

// pattern := identifier | number
func (p *parser) parsePattern(loc ast.ParameterLocation) *ast.Pattern {
	switch p.curTok() {
	case token.IDENT, token.SELF:
		tv := p.advance()
		return &ast.Pattern{Loc: loc, Kind: ast.PatternIdent, Name: tv.Value.Raw, Pos: tv.Value.Pos}
	case token.INT:
		tv := p.advance()
		return &ast.Pattern{Loc: loc, Kind: ast.PatternLiteral, Value: tv.Value.Int, Pos: tv.Value.Pos}
	default:
		p.error(p.curPos(), "expected a parameter pattern (identifier or integer literal), found %#v", p.curTok())
		pos := p.curPos()
		p.advance()
		return &ast.Pattern{Loc: loc, Kind: ast.PatternIdent, Name: "", Pos: pos}
	}
}

// member := expression | comment
func (p *parser) parseMember(loc ast.MemberLocation) ast.Member {
	if p.curTok() == token.COMMENT {
		tv := p.advance()
		return &ast.Comment{Loc: loc, Pos: tv.Value.Pos, Text: tv.Value.Raw[1:]}
	}
	return p.parseExpression(loc)
}

// expression := number | identifier | function // function ⇒ local
func (p *parser) parseExpression(loc ast.MemberLocation) ast.Expr {
	switch p.curTok() {
	case token.INT:
		tv := p.advance()
		return &ast.LiteralNumber{Loc: loc, Pos: tv.Value.Pos, Raw: tv.Value.Raw, Value: tv.Value.Int}

	case token.IDENT, token.SELF, token.FN:
		tv := p.advance()
		return &ast.Identifier{Loc: loc, Pos: tv.Value.Pos, Name: tv.Value.Raw}

	case token.LBRACE:
		fn := p.parseFunction(ast.LocalFunctionLoc(loc))
		return &ast.LocalFunction{Loc: loc, Fn: fn}

	default:
		pos := p.curPos()
		p.error(pos, "expected an expression, found %#v", p.curTok())
		p.syncTo(token.BACK, token.RBRACE, token.EOF)
		return &ast.BadExpr{Loc: loc, Pos: pos, End: p.curPos()}
	}
}
