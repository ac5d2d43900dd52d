// Package parser builds a single polymorphic AST from a token stream
// using recursive descent with LL(1) lookahead, never aborting: every
// mismatch is recorded as a diagnostic and parsing presses on.
package parser

import (
	"github.com/vsvsvsvsvsvs/polizvm/pkg/ast"
	"github.com/vsvsvsvsvsvs/polizvm/pkg/diag"
	"github.com/vsvsvsvsvsvs/polizvm/pkg/token"
)

// Parser consumes a flat token slice (already terminated by end_of_file)
// and builds an AST.
//
// Grammar:
//
//	program    = ((function | statement) (';')*)* EOF
//	function   = "fn" type ident "(" (arg (',' arg)*)? ")" block
//	arg        = type ident ("[" "]")?
//	statement  = block | if | while | doWhile | for | return | break |
//	             continue | varDeclList | exprStmt
//	varDeclList = type varDecl (',' varDecl)* ';'
//	varDecl    = ident ('=' assignment)? ('[' expression ']')?
//	for        = "for" "(" (varDeclList | expression? ';') expression? ';'
//	             expression? ")" block
//	expression = assignment (',' assignment)*
//	assignment = equality ('=' assignment)?
//	equality   = relational (('=='|'!=') relational)*
//	relational = additive (('<'|'<='|'>'|'>=') additive)*
//	additive   = multiplicative (('+'|'-') multiplicative)*
//	multiplicative = unary (('*'|'/'|'%') unary)*
//	unary      = ('+'|'-') unary | primary
//	primary    = number | string | '(' expression ')' | ident tail
//	tail       = ('(' args? ')' | '[' expression ']')*
type Parser struct {
	tokens []token.Token
	pos    int
	diags  diag.List
}

// New creates a Parser over tokens, which must end with an end_of_file token.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseProgram parses the full token stream and returns the AST root
// together with every accumulated diagnostic. If diagnostics is
// non-empty the AST may be partial.
func ParseProgram(tokens []token.Token) (*ast.Node, diag.List) {
	p := New(tokens)
	start := p.peek()
	var items []*ast.Node
	for !p.check(token.EndOfFile) {
		items = append(items, p.parseTopLevelItem())
		for p.match(token.Semicolon) {
		}
	}
	return ast.New(ast.Program, "Program", start.Line, start.Column, items...), p.diags
}

func (p *Parser) peek() token.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) peekAt(offset int) token.Token {
	idx := p.pos + offset
	if idx < 0 || idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) check(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) match(k token.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

// expect consumes the current token if it matches k. Otherwise it records
// a diagnostic, synthesizes a dummy token at the observed position, and
// consumes one token (unless at EOF) so parsing keeps making progress.
func (p *Parser) expect(k token.Kind) token.Token {
	if p.check(k) {
		return p.advance()
	}
	cur := p.peek()
	p.diags.Add(cur.Line, cur.Column, "expected %s at '%s'", k, cur.Text)
	dummy := token.Token{Kind: k, Text: "", Line: cur.Line, Column: cur.Column}
	if cur.Kind != token.EndOfFile {
		p.advance()
	}
	return dummy
}

func (p *Parser) parseTopLevelItem() *ast.Node {
	if p.check(token.KwFn) {
		return p.parseFunction()
	}
	return p.parseStatement()
}

func (p *Parser) parseFunction() *ast.Node {
	fnTok := p.advance()
	retType := p.parseTypeNode()
	nameTok := p.expect(token.Identifier)

	p.expect(token.LParen)
	var args []*ast.Node
	if !p.check(token.RParen) {
		args = append(args, p.parseFuncArg())
		for p.match(token.Comma) {
			args = append(args, p.parseFuncArg())
		}
	}
	p.expect(token.RParen)

	body := p.parseBlock()

	children := make([]*ast.Node, 0, len(args)+2)
	children = append(children, retType)
	children = append(children, args...)
	children = append(children, body)
	return ast.New(ast.Function, nameTok.Text, fnTok.Line, fnTok.Column, children...)
}

func (p *Parser) parseFuncArg() *ast.Node {
	typeNode := p.parseTypeNode()
	nameTok := p.expect(token.Identifier)
	isArray := false
	if p.match(token.LBracket) {
		p.expect(token.RBracket)
		isArray = true
	}
	n := ast.New(ast.FuncArg, nameTok.Text, nameTok.Line, nameTok.Column, typeNode)
	n.IsArray = isArray
	return n
}

func (p *Parser) parseTypeNode() *ast.Node {
	tok := p.peek()
	if !tok.Kind.IsTypeKeyword() {
		p.diags.Add(tok.Line, tok.Column, "expected type keyword at '%s'", tok.Text)
		if tok.Kind != token.EndOfFile {
			p.advance()
		}
		return ast.New(ast.TypeNode, "int", tok.Line, tok.Column)
	}
	p.advance()
	return ast.New(ast.TypeNode, tok.Text, tok.Line, tok.Column)
}

func (p *Parser) parseBlock() *ast.Node {
	lbrace := p.expect(token.LBrace)
	var stmts []*ast.Node
	for !p.check(token.RBrace) && !p.check(token.EndOfFile) {
		stmts = append(stmts, p.parseStatement())
	}
	p.expect(token.RBrace)
	return ast.New(ast.Block, "Block", lbrace.Line, lbrace.Column, stmts...)
}

func (p *Parser) parseStatement() *ast.Node {
	switch p.peek().Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwDo:
		return p.parseDoWhile()
	case token.KwFor:
		return p.parseFor()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwBreak:
		tok := p.advance()
		p.expect(token.Semicolon)
		return ast.New(ast.Break, "Break", tok.Line, tok.Column)
	case token.KwContinue:
		tok := p.advance()
		p.expect(token.Semicolon)
		return ast.New(ast.Continue, "Continue", tok.Line, tok.Column)
	default:
		if p.peek().Kind.IsTypeKeyword() {
			return p.parseVarDeclList()
		}
		return p.parseExprStmt()
	}
}

func (p *Parser) parseVarDeclList() *ast.Node {
	typeNode := p.parseTypeNode()
	var decls []*ast.Node
	decls = append(decls, p.parseVarDecl())
	for p.match(token.Comma) {
		decls = append(decls, p.parseVarDecl())
	}
	p.expect(token.Semicolon)

	children := make([]*ast.Node, 0, len(decls)+1)
	children = append(children, typeNode)
	children = append(children, decls...)
	return ast.New(ast.VarDeclList, "VarDeclList", typeNode.Line, typeNode.Column, children...)
}

func (p *Parser) parseVarDecl() *ast.Node {
	nameTok := p.expect(token.Identifier)
	var children []*ast.Node
	isArray := false
	if p.match(token.Assign) {
		children = append(children, p.parseAssignment())
	}
	if p.check(token.LBracket) {
		p.advance()
		children = append(children, p.parseExpression())
		p.expect(token.RBracket)
		isArray = true
	}
	n := ast.New(ast.VarDecl, nameTok.Text, nameTok.Line, nameTok.Column, children...)
	n.IsArray = isArray
	return n
}

func (p *Parser) parseIf() *ast.Node {
	ifTok := p.advance()
	p.expect(token.LParen)
	cond := p.parseExpression()
	p.expect(token.RParen)
	thenBlock := p.parseBlock()

	children := []*ast.Node{cond, thenBlock}
	for p.check(token.KwElse) && p.peekAt(1).Kind == token.KwIf {
		elseTok := p.advance()
		p.advance() // 'if'
		p.expect(token.LParen)
		c := p.parseExpression()
		p.expect(token.RParen)
		b := p.parseBlock()
		children = append(children, ast.New(ast.ElseIf, "ElseIf", elseTok.Line, elseTok.Column, c, b))
	}
	if p.check(token.KwElse) {
		p.advance()
		children = append(children, p.parseBlock())
	}
	return ast.New(ast.If, "If", ifTok.Line, ifTok.Column, children...)
}

func (p *Parser) parseWhile() *ast.Node {
	whileTok := p.advance()
	p.expect(token.LParen)
	cond := p.parseExpression()
	p.expect(token.RParen)
	body := p.parseBlock()
	return ast.New(ast.While, "While", whileTok.Line, whileTok.Column, cond, body)
}

func (p *Parser) parseDoWhile() *ast.Node {
	doTok := p.advance()
	body := p.parseBlock()
	p.expect(token.KwWhile)
	p.expect(token.LParen)
	cond := p.parseExpression()
	p.expect(token.RParen)
	p.expect(token.Semicolon)
	return ast.New(ast.DoWhile, "DoWhile", doTok.Line, doTok.Column, body, cond)
}

func (p *Parser) parseFor() *ast.Node {
	forTok := p.advance()
	p.expect(token.LParen)

	var initNode *ast.Node
	switch {
	case p.check(token.Semicolon):
		p.advance()
	case p.peek().Kind.IsTypeKeyword():
		initNode = p.parseVarDeclList() // consumes its own ';'
	default:
		initNode = p.parseExpression()
		p.expect(token.Semicolon)
	}

	var condNode *ast.Node
	if !p.check(token.Semicolon) {
		condNode = p.parseExpression()
	}
	p.expect(token.Semicolon)

	var stepNode *ast.Node
	if !p.check(token.RParen) {
		stepNode = p.parseExpression()
	}
	p.expect(token.RParen)

	body := p.parseBlock()
	return ast.New(ast.For, "For", forTok.Line, forTok.Column, initNode, condNode, stepNode, body)
}

func (p *Parser) parseReturn() *ast.Node {
	retTok := p.advance()
	var expr *ast.Node
	if !p.check(token.Semicolon) {
		expr = p.parseExpression()
	}
	p.expect(token.Semicolon)
	if expr != nil {
		return ast.New(ast.Return, "Return", retTok.Line, retTok.Column, expr)
	}
	return ast.New(ast.Return, "Return", retTok.Line, retTok.Column)
}

func (p *Parser) parseExprStmt() *ast.Node {
	expr := p.parseExpression()
	p.expect(token.Semicolon)
	return ast.New(ast.ExprStmt, "ExprStmt", expr.Line, expr.Column, expr)
}

// parseExpression is the comma-operator level: CommaExpr → Assignment (',' Assignment)*.
func (p *Parser) parseExpression() *ast.Node {
	left := p.parseAssignment()
	for p.check(token.Comma) {
		commaTok := p.advance()
		right := p.parseAssignment()
		left = ast.New(ast.CommaExpr, ",", commaTok.Line, commaTok.Column, left, right)
	}
	return left
}

func (p *Parser) parseAssignment() *ast.Node {
	left := p.parseEquality()
	if p.check(token.Assign) {
		eqTok := p.advance()
		if left.Kind != ast.Identifier && left.Kind != ast.Index {
			p.diags.Add(eqTok.Line, eqTok.Column, "left side of assignment must be a variable or index expression")
		}
		right := p.parseAssignment()
		return ast.New(ast.Assign, "=", left.Line, left.Column, left, right)
	}
	return left
}

func (p *Parser) parseEquality() *ast.Node {
	left := p.parseRelational()
	for p.check(token.Equals) || p.check(token.NotEquals) {
		opTok := p.advance()
		right := p.parseRelational()
		left = ast.New(ast.Binary, opTok.Text, opTok.Line, opTok.Column, left, right)
	}
	return left
}

func (p *Parser) parseRelational() *ast.Node {
	left := p.parseAdditive()
	for p.check(token.Less) || p.check(token.LessEq) || p.check(token.Greater) || p.check(token.GreaterEq) {
		opTok := p.advance()
		right := p.parseAdditive()
		left = ast.New(ast.Binary, opTok.Text, opTok.Line, opTok.Column, left, right)
	}
	return left
}

func (p *Parser) parseAdditive() *ast.Node {
	left := p.parseMultiplicative()
	for p.check(token.Plus) || p.check(token.Minus) {
		opTok := p.advance()
		right := p.parseMultiplicative()
		left = ast.New(ast.Binary, opTok.Text, opTok.Line, opTok.Column, left, right)
	}
	return left
}

func (p *Parser) parseMultiplicative() *ast.Node {
	left := p.parseUnary()
	for p.check(token.Star) || p.check(token.Slash) || p.check(token.Percent) {
		opTok := p.advance()
		right := p.parseUnary()
		left = ast.New(ast.Binary, opTok.Text, opTok.Line, opTok.Column, left, right)
	}
	return left
}

func (p *Parser) parseUnary() *ast.Node {
	if p.check(token.Plus) || p.check(token.Minus) {
		opTok := p.advance()
		operand := p.parseUnary()
		return ast.New(ast.Unary, opTok.Text, opTok.Line, opTok.Column, operand)
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() *ast.Node {
	tok := p.peek()
	switch tok.Kind {
	case token.Number:
		p.advance()
		return ast.New(ast.Number, tok.Text, tok.Line, tok.Column)
	case token.StringLiteral:
		p.advance()
		return ast.New(ast.String, tok.Text, tok.Line, tok.Column)
	case token.LParen:
		p.advance()
		expr := p.parseExpression()
		p.expect(token.RParen)
		return expr
	case token.Identifier:
		p.advance()
		ident := ast.New(ast.Identifier, tok.Text, tok.Line, tok.Column)
		return p.parsePrimaryTail(ident)
	default:
		p.diags.Add(tok.Line, tok.Column, "unexpected token in expression")
		if tok.Kind != token.EndOfFile {
			p.advance()
		}
		return ast.New(ast.Number, "0", tok.Line, tok.Column)
	}
}

func (p *Parser) parsePrimaryTail(node *ast.Node) *ast.Node {
	for {
		switch {
		case p.check(token.LParen):
			p.advance()
			args := p.parseCallArgs()
			p.expect(token.RParen)
			children := make([]*ast.Node, 0, len(args)+1)
			children = append(children, node)
			children = append(children, args...)
			node = ast.New(ast.Call, "Call", node.Line, node.Column, children...)
		case p.check(token.LBracket):
			p.advance()
			idx := p.parseExpression()
			p.expect(token.RBracket)
			node = ast.New(ast.Index, "Index", node.Line, node.Column, node, idx)
		default:
			return node
		}
	}
}

func (p *Parser) parseCallArgs() []*ast.Node {
	var args []*ast.Node
	if p.check(token.RParen) {
		return args
	}
	args = append(args, p.parseAssignment())
	for p.match(token.Comma) {
		args = append(args, p.parseAssignment())
	}
	return args
}
