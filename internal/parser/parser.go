// Package parser builds the AST the analyzer consumes. It is a Pratt
// parser in the teacher's style: prefix/infix function tables keyed by
// token type, precedence-climbing parseExpression, two tokens of
// lookahead buffered as peekToken/peek2Token after curToken.
package parser

import (
	"fmt"

	"github.com/orbital-lang/funxy/internal/ast"
	"github.com/orbital-lang/funxy/internal/lexer"
	"github.com/orbital-lang/funxy/internal/token"
	"github.com/orbital-lang/funxy/internal/types"
)

const (
	_ int = iota
	LOWEST
	OR_PREC
	AND_PREC
	EQUALS
	LESSGREATER
	SUM
	PRODUCT
	POWER_PREC
	PREFIX
	CALL
	INDEX
	DOT_PREC
)

var precedences = map[token.Type]int{
	token.OR:     OR_PREC,
	token.AND:    AND_PREC,
	token.EQ:     EQUALS,
	token.NOT_EQ: EQUALS,
	token.LT:     LESSGREATER,
	token.LT_EQ:  LESSGREATER,
	token.GT:     LESSGREATER,
	token.GT_EQ:  LESSGREATER,
	token.PLUS:   SUM,
	token.MINUS:  SUM,
	token.SLASH:    PRODUCT,
	token.ASTERISK: PRODUCT,
	token.POWER:    POWER_PREC,
	token.LPAREN:   CALL,
	token.LBRACKET: INDEX,
	token.DOT:      DOT_PREC,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser consumes a token stream and produces a Program.
type Parser struct {
	l *lexer.Lexer

	curToken   token.Token
	peekToken  token.Token
	peek2Token token.Token

	errors []string

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[token.Type]prefixParseFn{
		token.IDENT:    p.parseIdentifierOrEnumCall,
		token.NUMBER:   p.parseNumberLiteral,
		token.STRING:   p.parseStringLiteral,
		token.TEMPLATE_FULL: p.parseTemplateLiteral,
		token.TRUE:     p.parseBooleanLiteral,
		token.FALSE:    p.parseBooleanLiteral,
		token.BANG:     p.parseUnaryExpression,
		token.MINUS:    p.parseUnaryExpression,
		token.LPAREN:   p.parseParenOrFunctionExpression,
		token.LBRACE:   p.parseObjectOrBlock,
		token.LBRACKET: p.parseArrayLiteralOrDestructure,
		token.IF:       p.parseIfElseExpression,
		token.MATCH:    p.parseMatchExpression,
	}

	p.infixParseFns = map[token.Type]infixParseFn{
		token.PLUS:     p.parseBinaryExpression,
		token.MINUS:    p.parseBinaryExpression,
		token.ASTERISK: p.parseBinaryExpression,
		token.SLASH:    p.parseBinaryExpression,
		token.POWER:    p.parseBinaryExpression,
		token.LT:       p.parseBinaryExpression,
		token.LT_EQ:    p.parseBinaryExpression,
		token.GT:       p.parseBinaryExpression,
		token.GT_EQ:    p.parseBinaryExpression,
		token.EQ:       p.parseBinaryExpression,
		token.NOT_EQ:   p.parseBinaryExpression,
		token.AND:      p.parseBinaryExpression,
		token.OR:       p.parseBinaryExpression,
		token.LPAREN:   p.parseCallExpression,
		token.LBRACKET: p.parseIndexExpression,
		token.DOT:      p.parseDotExpression,
	}

	p.nextToken()
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.peek2Token
	p.peek2Token = p.l.NextToken()
	for p.peek2Token.Type == token.NEWLINE {
		p.peek2Token = p.l.NextToken()
	}
}

func (p *Parser) curTokenIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errors = append(p.errors, fmt.Sprintf("%d:%d: expected next token %s, got %s", p.peekToken.Line, p.peekToken.Column, t, p.peekToken.Type))
	return false
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram parses an entire compilation unit, per spec §6.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{Tok: p.curToken}

	if p.curTokenIs(token.MODULE) {
		prog.Module = p.parseModuleDecl()
	}

	for p.curTokenIs(token.OPEN) || p.curTokenIs(token.IMPORT) {
		isOpen := p.curTokenIs(token.OPEN)
		p.nextToken()
		ns := p.parseDottedName()
		if isOpen {
			prog.Opens = append(prog.Opens, ns)
		} else {
			prog.Imports = append(prog.Imports, ns)
		}
	}

	for !p.curTokenIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			prog.Body = append(prog.Body, stmt)
		}
		p.nextToken()
	}
	return prog
}

func (p *Parser) parseModuleDecl() *ast.ModuleDecl {
	tok := p.curToken
	p.nextToken()
	ns := p.parseDottedName()
	return &ast.ModuleDecl{Tok: tok, Namespace: ns}
}

func (p *Parser) parseDottedName() string {
	name := p.curToken.Lexeme
	for p.peekTokenIs(token.DOT) {
		p.nextToken()
		p.nextToken()
		name += "." + p.curToken.Lexeme
	}
	p.nextToken()
	return name
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.CONST:
		return p.parseConstDecl()
	case token.TYPE:
		return p.parseTypeOrEnumDecl()
	case token.LBRACE:
		return p.parseBlockStatement()
	default:
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil
		}
		return &ast.ExpressionStatement{Tok: expr.GetToken(), Expression: expr}
	}
}

// parseConstDecl parses `const name[: Type] = expr` or the destructuring
// forms `const {a, b} = expr` / `const [a, b] = expr` / `const Enum.Member(x) = expr`.
func (p *Parser) parseConstDecl() *ast.ConstDecl {
	tok := p.curToken
	decl := &ast.ConstDecl{Tok: tok}

	p.nextToken()
	switch {
	case p.curTokenIs(token.LBRACE):
		decl.BindPattern = p.parseObjectDestructure()
	case p.curTokenIs(token.LBRACKET):
		decl.BindPattern = p.parseArrayDestructurePattern()
	default:
		name := &ast.Identifier{Tok: p.curToken, Name: p.curToken.Lexeme}
		if p.peekTokenIs(token.DOT) {
			decl.BindPattern = p.parseEnumDestructureFrom(name)
		} else {
			decl.Name = name
			if p.peekTokenIs(token.COLON) {
				p.nextToken()
				p.nextToken()
				decl.TypeAnnotation = p.parseTypeExpr()
			}
		}
	}

	if !p.expectPeek(token.ASSIGN) {
		return decl
	}
	p.nextToken()
	decl.Value = p.parseExpression(LOWEST)
	return decl
}

func (p *Parser) parseObjectDestructure() *ast.ObjectDestructure {
	tok := p.curToken
	od := &ast.ObjectDestructure{Tok: tok}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		od.Fields = append(od.Fields, p.curToken.Lexeme)
		p.nextToken()
		if p.curTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	return od
}

func (p *Parser) parseArrayDestructurePattern() *ast.ArrayDestructure {
	tok := p.curToken
	ad := &ast.ArrayDestructure{Tok: tok}
	p.nextToken()
	for !p.curTokenIs(token.RBRACKET) && !p.curTokenIs(token.EOF) {
		ad.Elements = append(ad.Elements, &ast.Identifier{Tok: p.curToken, Name: p.curToken.Lexeme})
		p.nextToken()
		if p.curTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	return ad
}

func (p *Parser) parseEnumDestructureFrom(enumName *ast.Identifier) *ast.EnumDestructure {
	tok := enumName.Tok
	p.nextToken() // consume .
	p.nextToken() // member name
	ed := &ast.EnumDestructure{Tok: tok, EnumName: enumName.Name, MemberName: p.curToken.Lexeme}
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		p.nextToken()
		for !p.curTokenIs(token.RPAREN) && !p.curTokenIs(token.EOF) {
			ed.Bindings = append(ed.Bindings, &ast.Identifier{Tok: p.curToken, Name: p.curToken.Lexeme})
			p.nextToken()
			if p.curTokenIs(token.COMMA) {
				p.nextToken()
			}
		}
	}
	return ed
}

func (p *Parser) parseBlockStatement() *ast.Block {
	return p.parseBlock()
}

func (p *Parser) parseBlock() *ast.Block {
	tok := p.curToken
	blk := &ast.Block{Tok: tok}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			blk.Body = append(blk.Body, stmt)
		}
		p.nextToken()
	}
	return blk
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errors = append(p.errors, fmt.Sprintf("%d:%d: no prefix parse function for %s", p.curToken.Line, p.curToken.Column, p.curToken.Type))
		return nil
	}
	left := prefix()

	for !p.peekTokenIs(token.EOF) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifierOrEnumCall() ast.Expression {
	id := &ast.Identifier{Tok: p.curToken, Name: p.curToken.Lexeme}
	if p.peekTokenIs(token.DOT) {
		save := p.curToken
		p.nextToken() // .
		p.nextToken() // member
		member := p.curToken.Lexeme
		if p.peekTokenIs(token.LPAREN) {
			p.nextToken()
			args := p.parseCallArgs()
			return &ast.EnumCallExpression{Tok: save, Enum: id, Member: member, Args: args}
		}
		return &ast.DotCallExpression{Tok: save, Left: id, Right: member}
	}
	return id
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	return &ast.PrimitiveValue{Tok: p.curToken, Kind: ast.PrimNumber}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.PrimitiveValue{Tok: p.curToken, Kind: ast.PrimString}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.PrimitiveValue{Tok: p.curToken, Kind: ast.PrimBoolean}
}

// parseTemplateLiteral handles the un-interpolated TEMPLATE_FULL case;
// interpolated templates are tokenized upstream as TEMPLATE_START/MID/END
// but are not exercised by the trimmed lexer yet, so this wraps the
// whole literal as a single zero-span template.
func (p *Parser) parseTemplateLiteral() ast.Expression {
	return &ast.TemplateLiteral{Tok: p.curToken}
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	tok := p.curToken
	op := p.curToken.Lexeme
	p.nextToken()
	return &ast.UnaryOperation{Tok: tok, Operator: op, Operand: p.parseExpression(PREFIX)}
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	op := ast.BinaryOperator(p.curToken.Lexeme)
	prec := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(prec)
	return &ast.BinaryOperation{Tok: tok, Operator: op, Left: left, Right: right}
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	tok := p.curToken
	args := p.parseCallArgs()
	return &ast.CallExpression{Tok: tok, Callee: callee, Args: args}
}

func (p *Parser) parseCallArgs() []ast.Expression {
	var args []ast.Expression
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args
	}
	p.nextToken()
	args = append(args, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(token.RPAREN) {
		return args
	}
	return args
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	idx := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.IndexAccessExpression{Tok: tok, Left: left, Index: idx}
}

func (p *Parser) parseDotExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	member := p.curToken.Lexeme
	return &ast.DotCallExpression{Tok: tok, Left: left, Right: member}
}

// parseParenOrFunctionExpression disambiguates `(expr)` from a function
// expression `(params) => body` / `(params): RetType => body` using only
// the token after `(`, as looksLikeFunctionExpression describes.
func (p *Parser) parseParenOrFunctionExpression() ast.Expression {
	if p.looksLikeFunctionExpression() {
		return p.parseFunctionExpression()
	}
	tok := p.curToken
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	_ = tok
	return expr
}

func (p *Parser) looksLikeFunctionExpression() bool {
	// Empty params: `() =>`
	if p.peekTokenIs(token.RPAREN) {
		return true
	}
	// `(ident` or `(...` is treated as a function expression without
	// looking further ahead, so a parenthesized expression that starts
	// with an identifier, such as `(x + 1)`, is parsed as one too.
	return p.peekTokenIs(token.IDENT) || p.peekTokenIs(token.ELLIPSIS)
}

func (p *Parser) parseFunctionExpression() *ast.FunctionExpression {
	tok := p.curToken
	fn := &ast.FunctionExpression{Tok: tok}

	p.nextToken() // consume (
	for !p.curTokenIs(token.RPAREN) && !p.curTokenIs(token.EOF) {
		param := &ast.Parameter{Tok: p.curToken}
		if p.curTokenIs(token.ELLIPSIS) {
			param.IsSpread = true
			p.nextToken()
		}
		param.Name = &ast.Identifier{Tok: p.curToken, Name: p.curToken.Lexeme}
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			param.TypeAnnotation = p.parseTypeExpr()
		}
		fn.Params = append(fn.Params, param)
		p.nextToken()
		if p.curTokenIs(token.COMMA) {
			p.nextToken()
		}
	}

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		fn.ReturnType = p.parseTypeExpr()
	}

	if !p.expectPeek(token.ARROW) {
		return fn
	}
	p.nextToken()
	if p.curTokenIs(token.LBRACE) {
		fn.Body = p.parseBlock()
	} else {
		fn.BodyExpr = p.parseExpression(LOWEST)
	}
	return fn
}

// parseObjectOrBlock disambiguates `{ name: value }` (an object literal)
// from `{ stmt; stmt }` (a block used as an expression) by checking
// whether the first token is an identifier followed by `:`.
func (p *Parser) parseObjectOrBlock() ast.Expression {
	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return &ast.ObjectLiteral{Tok: p.curToken}
	}
	if p.peekTokenIs(token.IDENT) && p.peek2Token.Type == token.COLON {
		return p.parseObjectLiteral()
	}
	return p.parseBlock()
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	tok := p.curToken
	obj := &ast.ObjectLiteral{Tok: tok}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		name := p.curToken.Lexeme
		if !p.expectPeek(token.COLON) {
			break
		}
		p.nextToken()
		val := p.parseExpression(LOWEST)
		obj.Properties = append(obj.Properties, &ast.ObjectProperty{Name: name, Value: val})
		p.nextToken()
		if p.curTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	return obj
}

func (p *Parser) parseArrayLiteralOrDestructure() ast.Expression {
	tok := p.curToken
	arr := &ast.ArrayLiteral{Tok: tok}
	p.nextToken()
	for !p.curTokenIs(token.RBRACKET) && !p.curTokenIs(token.EOF) {
		arr.Elements = append(arr.Elements, p.parseExpression(LOWEST))
		p.nextToken()
		if p.curTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	return arr
}

func (p *Parser) parseIfElseExpression() ast.Expression {
	tok := p.curToken
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	then := p.parseBlock()

	ifExpr := &ast.IfElseExpression{Tok: tok, Condition: cond, Then: then}
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if !p.expectPeek(token.LBRACE) {
			return ifExpr
		}
		ifExpr.Else = p.parseBlock()
	}
	return ifExpr
}

func (p *Parser) parseMatchExpression() ast.Expression {
	tok := p.curToken
	p.nextToken()
	subject := p.parseExpression(LOWEST)
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	match := &ast.MatchExpression{Tok: tok, Subject: subject}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		clause := p.parseMatchClause()
		match.Clauses = append(match.Clauses, clause)
		if p.curTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	return match
}

func (p *Parser) parseMatchClause() *ast.MatchClause {
	tok := p.curToken
	pattern := p.parsePattern()
	if !p.expectPeek(token.ARROW) {
		return &ast.MatchClause{Tok: tok, Pattern: pattern}
	}
	p.nextToken()
	body := p.parseExpression(LOWEST)
	p.nextToken()
	return &ast.MatchClause{Tok: tok, Pattern: pattern, Body: body}
}

func (p *Parser) parsePattern() ast.Pattern {
	switch p.curToken.Type {
	case token.LBRACE:
		return p.parseObjectDestructure()
	case token.LBRACKET:
		return p.parseArrayDestructurePattern()
	default:
		name := &ast.Identifier{Tok: p.curToken, Name: p.curToken.Lexeme}
		if p.peekTokenIs(token.DOT) {
			return p.parseEnumDestructureFrom(name)
		}
		return name
	}
}

// parseTypeExpr parses a type annotation directly into the shared Type
// AST (spec §3.1): an Identifier, a generic TypeReference, a FunctionType,
// or an ObjectType. EnumType and friends only ever come from the binder.
func (p *Parser) parseTypeExpr() types.Type {
	switch p.curToken.Type {
	case token.LBRACE:
		return p.parseObjectTypeExpr()
	case token.LPAREN:
		return p.parseFunctionTypeExpr()
	default:
		name := p.curToken.Lexeme
		base := types.Type(types.Identifier{Name: name})
		if p.peekTokenIs(token.LT) {
			// Reuse LT/GT as the generic angle brackets: `List<T>`.
			p.nextToken()
			p.nextToken()
			var args []types.Type
			args = append(args, p.parseTypeExpr())
			for p.peekTokenIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				args = append(args, p.parseTypeExpr())
			}
			if p.peekTokenIs(token.GT) {
				p.nextToken()
			}
			return types.TypeReference{Base: base, Args: args}
		}
		return base
	}
}

func (p *Parser) parseObjectTypeExpr() types.Type {
	obj := types.ObjectType{}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		name := p.curToken.Lexeme
		if !p.expectPeek(token.COLON) {
			break
		}
		p.nextToken()
		val := p.parseTypeExpr()
		obj.Properties = append(obj.Properties, types.ObjectProperty{Name: name, Value: val})
		p.nextToken()
		if p.curTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	return obj
}

func (p *Parser) parseFunctionTypeExpr() types.Type {
	fn := types.FunctionType{}
	p.nextToken()
	for !p.curTokenIs(token.RPAREN) && !p.curTokenIs(token.EOF) {
		name := p.curToken.Lexeme
		var annotation types.Type
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			annotation = p.parseTypeExpr()
		}
		fn.Params = append(fn.Params, types.ParameterType{Identifier: name, Annotation: annotation})
		p.nextToken()
		if p.curTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	if p.peekTokenIs(token.FAT_ARROW) {
		p.nextToken()
		p.nextToken()
		fn.ReturnType = p.parseTypeExpr()
	}
	return fn
}

// parseTypeOrEnumDecl handles `type Name[<Params>] = ...`, branching on
// whether the right-hand side is an enum (`:Member | :Member(...)`) or a
// plain type alias.
func (p *Parser) parseTypeOrEnumDecl() ast.Statement {
	tok := p.curToken
	p.nextToken()
	name := p.curToken.Lexeme

	var typeParams []string
	if p.peekTokenIs(token.LT) {
		p.nextToken()
		p.nextToken()
		typeParams = append(typeParams, p.curToken.Lexeme)
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			typeParams = append(typeParams, p.curToken.Lexeme)
		}
		if p.peekTokenIs(token.GT) {
			p.nextToken()
		}
	}

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()

	if p.curTokenIs(token.COLON) {
		return p.parseEnumDecl(tok, name, typeParams)
	}
	return &ast.TypeDecl{Tok: tok, Name: name, TypeParams: typeParams, Value: p.parseTypeExpr()}
}

func (p *Parser) parseEnumDecl(tok token.Token, name string, typeParams []string) *ast.EnumDecl {
	e := &ast.EnumDecl{Tok: tok, Name: name, TypeParams: typeParams}
	for {
		p.nextToken() // consume ':'
		member := &ast.EnumMemberDecl{Tok: p.curToken, Name: p.curToken.Lexeme}
		if p.peekTokenIs(token.LPAREN) {
			p.nextToken()
			p.nextToken()
			for !p.curTokenIs(token.RPAREN) && !p.curTokenIs(token.EOF) {
				member.Params = append(member.Params, p.parseTypeExpr())
				p.nextToken()
				if p.curTokenIs(token.COMMA) {
					p.nextToken()
				}
			}
		}
		e.Members = append(e.Members, member)
		if p.peekTokenIs(token.PIPE) {
			p.nextToken() // to '|'
			p.nextToken() // to the next member's ':'
			continue
		}
		break
	}
	return e
}
