package main

import "strconv"

// Parser turns a token stream into statements. Expressions come out as
// flat operator sequences: at parse time nothing is known about which
// symbols are prefix, infix, or postfix (their declarations may appear
// later in the file), so all precedence decisions are deferred to the
// resolver.
//
// The parser never aborts on the first error. Failed statements are
// skipped to the next statement boundary and parsing continues, so one
// broken statement does not hide diagnostics for the rest of the file.
type Parser struct {
	tokens  []Token
	current int

	Errors ErrorCollection
}

// NewParser creates a parser over tokens, which must end in TokenEndOfFile.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseProgram parses the whole token stream into a statement list.
// Collected errors are in p.Errors.
func (p *Parser) ParseProgram() []Stmt {
	var stmts []Stmt
	for !p.atEnd() {
		before := p.current
		stmt := p.parseStmt()
		if stmt != nil {
			stmts = append(stmts, stmt)
			continue
		}
		p.synchronize()
		if p.current == before {
			// synchronize stops before '}' for the enclosing block's sake,
			// but at top level there is no enclosing block; skip it.
			p.advance()
		}
	}
	return stmts
}

// ParseExpression parses a single expression, for tools and tests that
// operate on expression fragments rather than whole programs.
func (p *Parser) ParseExpression() Expr {
	return p.parseExpr()
}

// ===== Statement parsing =====

func (p *Parser) parseStmt() Stmt {
	tok := p.peek()

	if tok.Kind == TokenKeyword {
		switch tok.Lexeme {
		case "let":
			return p.parseLetStmt()
		case "func":
			return p.parseFuncStmt()
		case "operator":
			return p.parseOperatorDecl()
		case "if":
			return p.parseIfStmt()
		case "return":
			return p.parseReturnStmt()
		case "while":
			return p.parseWhileStmt()
		}
	}

	if p.checkPunct("{") {
		return p.parseBlockStmt()
	}

	return p.parseExprStmt()
}

func (p *Parser) parseLetStmt() Stmt {
	startTok := p.peek()
	p.advance() // consume 'let'

	if !p.check(TokenIdentifier) {
		p.error("Expected identifier after 'let'")
		return nil
	}
	name := p.advance().Lexeme

	var typ *TypeExpr
	if p.checkPunct(":") {
		p.advance()
		typ = p.parseTypeAnnotation()
		if typ == nil {
			return nil
		}
	}

	if !p.checkOperator("=") {
		p.error("Expected '=' in let statement")
		return nil
	}
	p.advance()

	init := p.parseExpr()
	if init == nil {
		return nil
	}

	if !p.expectPunct(";", "Expected ';' after let statement") {
		return nil
	}

	return &LetStmt{Name: name, Type: typ, Init: init, Loc: startTok.Loc()}
}

func (p *Parser) parseFuncStmt() Stmt {
	startTok := p.peek()
	p.advance() // consume 'func'

	if !p.check(TokenIdentifier) {
		p.error("Expected function name after 'func'")
		return nil
	}
	name := p.advance().Lexeme

	if !p.checkPunct("(") {
		p.error("Expected '(' after function name")
		return nil
	}
	p.advance()

	params, ok := p.parseParameterList(false)
	if !ok {
		return nil
	}

	if !p.checkPunct(")") {
		p.error("Expected ')' after parameters")
		return nil
	}
	p.advance()

	var returnType *TypeExpr
	if p.checkPunct(":") {
		p.advance()
		returnType = p.parseTypeAnnotation()
		if returnType == nil {
			return nil
		}
	}

	var body *BlockStmt
	if p.checkPunct("{") {
		block := p.parseBlockStmt()
		if block == nil {
			return nil
		}
		body = block.(*BlockStmt)
	} else if p.checkPunct(";") {
		p.advance() // declaration without body
	} else {
		p.error("Expected '{' or ';' after function signature")
		return nil
	}

	return &FuncStmt{Name: name, Params: params, ReturnType: returnType, Body: body, Loc: startTok.Loc()}
}

func (p *Parser) parseOperatorDecl() Stmt {
	startTok := p.peek()
	p.advance() // consume 'operator'

	if !p.check(TokenKeyword) {
		p.error("Expected operator position ('prefix', 'infix', or 'postfix')")
		return nil
	}
	var position OpPosition
	switch p.peek().Lexeme {
	case "prefix":
		position = Prefix
	case "infix":
		position = Infix
	case "postfix":
		position = Postfix
	default:
		p.error("Expected 'prefix', 'infix', or 'postfix'")
		return nil
	}
	p.advance()

	if !p.check(TokenOperator) {
		p.error("Expected operator symbol")
		return nil
	}
	op := p.advance().Lexeme

	if !p.checkPunct("(") {
		p.error("Expected '(' after operator symbol")
		return nil
	}
	p.advance()

	params, ok := p.parseParameterList(true)
	if !ok {
		return nil
	}

	// Arity is fixed by the position; this is a parse error, not semantic.
	switch position {
	case Prefix:
		if len(params) != 1 {
			p.error("Prefix operator must have exactly 1 parameter")
			return nil
		}
	case Infix:
		if len(params) != 2 {
			p.error("Infix operator must have exactly 2 parameters")
			return nil
		}
	case Postfix:
		if len(params) != 1 {
			p.error("Postfix operator must have exactly 1 parameter")
			return nil
		}
	}

	if !p.checkPunct(")") {
		p.error("Expected ')' after parameters")
		return nil
	}
	p.advance()

	if !p.checkPunct(":") {
		p.error("Expected ':' after parameters (operators require an explicit return type)")
		return nil
	}
	p.advance()

	returnType := p.parseTypeAnnotation()
	if returnType == nil {
		return nil
	}

	precedence := 0
	assoc := AssocLeft
	if position == Infix {
		if !p.checkKeyword("prec") {
			p.error("Expected 'prec' keyword for infix operator")
			return nil
		}
		p.advance()

		if !p.check(TokenInteger) {
			p.error("Expected integer precedence value")
			return nil
		}
		precedence, _ = strconv.Atoi(p.advance().Lexeme)

		// Optional 'assoc left|right|none'; default left.
		if p.checkKeyword("assoc") {
			p.advance()
			switch {
			case p.checkKeyword("left"):
				assoc = AssocLeft
			case p.checkKeyword("right"):
				assoc = AssocRight
			case p.checkKeyword("none"):
				assoc = AssocNone
			default:
				p.error("Expected 'left', 'right', or 'none' after 'assoc'")
				return nil
			}
			p.advance()
		}
	}

	var body *BlockStmt
	if p.checkPunct("{") {
		block := p.parseBlockStmt()
		if block == nil {
			return nil
		}
		body = block.(*BlockStmt)
	} else if !p.expectPunct(";", "Expected ';' after operator declaration") {
		return nil
	}

	return &OperatorDeclStmt{
		Op:         op,
		Position:   position,
		Params:     params,
		ReturnType: returnType,
		Precedence: precedence,
		Assoc:      assoc,
		Body:       body,
		Loc:        startTok.Loc(),
	}
}

// parseParameterList parses comma-separated parameters up to the closing
// ')'. When requireTypes is set (operator declarations), every parameter
// must carry an explicit type annotation.
func (p *Parser) parseParameterList(requireTypes bool) ([]Parameter, bool) {
	var params []Parameter
	for !p.checkPunct(")") && !p.atEnd() {
		if len(params) > 0 {
			if !p.checkPunct(",") {
				p.error("Expected ',' between parameters")
				return nil, false
			}
			p.advance()
		}

		if !p.check(TokenIdentifier) {
			p.error("Expected parameter name")
			return nil, false
		}
		paramTok := p.advance()

		var paramType *TypeExpr
		if p.checkPunct(":") {
			p.advance()
			paramType = p.parseTypeAnnotation()
			if paramType == nil {
				return nil, false
			}
		} else if requireTypes {
			p.error("Expected ':' after parameter name (generics unimplemented for operators)")
			return nil, false
		}

		params = append(params, Parameter{Name: paramTok.Lexeme, Type: paramType, Loc: paramTok.Loc()})
	}
	return params, true
}

func (p *Parser) parseIfStmt() Stmt {
	startTok := p.peek()
	p.advance() // consume 'if'

	condition := p.parseExpr()
	if condition == nil {
		return nil
	}

	then := p.parseBlockStmt()
	if then == nil {
		return nil
	}

	var elseBranch Stmt
	if p.checkKeyword("else") {
		p.advance()
		if p.checkKeyword("if") {
			elseBranch = p.parseIfStmt()
		} else {
			elseBranch = p.parseBlockStmt()
		}
		if elseBranch == nil {
			return nil
		}
	}

	return &IfStmt{Condition: condition, Then: then, Else: elseBranch, Loc: startTok.Loc()}
}

func (p *Parser) parseReturnStmt() Stmt {
	startTok := p.peek()
	p.advance() // consume 'return'

	var value Expr
	if !p.checkPunct(";") {
		value = p.parseExpr()
		if value == nil {
			return nil
		}
	}

	if !p.expectPunct(";", "Expected ';' after return statement") {
		return nil
	}

	return &ReturnStmt{Value: value, Loc: startTok.Loc()}
}

func (p *Parser) parseWhileStmt() Stmt {
	startTok := p.peek()
	p.advance() // consume 'while'

	condition := p.parseExpr()
	if condition == nil {
		return nil
	}

	body := p.parseBlockStmt()
	if body == nil {
		return nil
	}

	return &WhileStmt{Condition: condition, Body: body, Loc: startTok.Loc()}
}

func (p *Parser) parseBlockStmt() Stmt {
	startTok := p.peek()
	if !p.checkPunct("{") {
		p.error("Expected '{'")
		return nil
	}
	p.advance()

	var stmts []Stmt
	for !p.atEnd() && !p.checkPunct("}") {
		stmt := p.parseStmt()
		if stmt != nil {
			stmts = append(stmts, stmt)
		} else {
			p.synchronize()
		}
	}

	if !p.checkPunct("}") {
		p.error("Expected '}'")
		return nil
	}
	p.advance()

	return &BlockStmt{Stmts: stmts, Loc: startTok.Loc()}
}

func (p *Parser) parseExprStmt() Stmt {
	expr := p.parseExpr()
	if expr == nil {
		return nil
	}

	loc := expr.ExprLoc()
	if !p.expectPunct(";", "Expected ';' after expression") {
		return nil
	}

	return &ExprStmt{Expr: expr, Loc: loc}
}

// ===== Expression parsing =====

// parseExpr collects a flat sequence of operators and primaries. Primaries
// cannot be adjacent (two in a row ends the expression); operators can run
// consecutively, which is what makes "-5++" or "a = b = c" parseable
// before any operator is known.
func (p *Parser) parseExpr() Expr {
	startTok := p.peek()

	var items []OpSeqItem
	lastWasPrimary := false

	for !p.atEnd() {
		if p.check(TokenOperator) {
			opTok := p.advance()
			items = append(items, OpSeqItem{Op: opTok.Lexeme, Loc: opTok.Loc()})
			lastWasPrimary = false
		} else if p.canStartPrimary() {
			if lastWasPrimary {
				break
			}
			operand := p.parsePrimaryExpr()
			if operand == nil {
				return nil
			}
			items = append(items, OpSeqItem{Operand: operand, Loc: operand.ExprLoc()})
			lastWasPrimary = true
		} else {
			break
		}
	}

	if len(items) == 0 {
		p.error("Expected expression")
		return nil
	}

	// A lone operand collapses directly; no wrapping.
	if len(items) == 1 && !items[0].IsOperator() {
		return items[0].Operand
	}

	return &OperatorSeqExpr{Items: items, Loc: startTok.Loc()}
}

func (p *Parser) parsePrimaryExpr() Expr {
	tok := p.peek()

	switch tok.Kind {
	case TokenInteger:
		p.advance()
		return &IntLitExpr{Value: tok.Lexeme, Loc: tok.Loc()}
	case TokenFloat:
		p.advance()
		return &FloatLitExpr{Value: tok.Lexeme, Loc: tok.Loc()}
	case TokenString:
		p.advance()
		return &StringLitExpr{Value: tok.Lexeme, Loc: tok.Loc()}
	case TokenKeyword:
		if tok.Lexeme == "true" || tok.Lexeme == "false" {
			p.advance()
			return &BoolLitExpr{Value: tok.Lexeme == "true", Loc: tok.Loc()}
		}
	case TokenIdentifier:
		p.advance()
		ident := &IdentExpr{Name: tok.Lexeme, Loc: tok.Loc()}
		if p.checkPunct("(") {
			return p.parseCallExpr(ident)
		}
		return ident
	case TokenPunctuation:
		if tok.Lexeme == "(" {
			p.advance()
			expr := p.parseExpr()
			if expr == nil {
				return nil
			}
			if !p.checkPunct(")") {
				p.error("Expected ')' after expression")
				return nil
			}
			p.advance()
			return expr
		}
	}

	p.error("Unexpected token in expression: " + tok.Lexeme)
	return nil
}

func (p *Parser) parseCallExpr(callee Expr) Expr {
	startTok := p.peek()
	p.advance() // consume '('

	var args []Expr
	for !p.checkPunct(")") && !p.atEnd() {
		if len(args) > 0 {
			if !p.checkPunct(",") {
				p.error("Expected ',' between arguments")
				return nil
			}
			p.advance()
		}

		arg := p.parseExpr()
		if arg == nil {
			return nil
		}
		args = append(args, arg)
	}

	if !p.checkPunct(")") {
		p.error("Expected ')' after arguments")
		return nil
	}
	p.advance()

	return &CallExpr{Callee: callee, Args: args, Loc: startTok.Loc()}
}

func (p *Parser) parseTypeAnnotation() *TypeExpr {
	if !p.check(TokenIdentifier) {
		p.error("Expected type name")
		return nil
	}
	tok := p.advance()
	return &TypeExpr{Name: tok.Lexeme, Loc: tok.Loc()}
}

// ===== Helpers =====

// peek returns the current significant token, skipping comments.
func (p *Parser) peek() Token {
	idx := p.current
	for idx < len(p.tokens) && p.tokens[idx].Kind == TokenComment {
		idx++
	}
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EndOfFile
	}
	return p.tokens[idx]
}

func (p *Parser) advance() Token {
	for p.current < len(p.tokens) && p.tokens[p.current].Kind == TokenComment {
		p.current++
	}
	if p.current < len(p.tokens) {
		p.current++
	}
	return p.tokens[p.current-1]
}

func (p *Parser) check(kind TokenKind) bool {
	if p.atEnd() {
		return false
	}
	return p.peek().Kind == kind
}

func (p *Parser) checkPunct(lexeme string) bool {
	return p.check(TokenPunctuation) && p.peek().Lexeme == lexeme
}

func (p *Parser) checkOperator(lexeme string) bool {
	return p.check(TokenOperator) && p.peek().Lexeme == lexeme
}

func (p *Parser) checkKeyword(lexeme string) bool {
	return p.check(TokenKeyword) && p.peek().Lexeme == lexeme
}

// expectPunct consumes the expected punctuation or reports the error at
// the end of the previous token: a missing ';' points just past the last
// valid token, not at whatever happens to come next.
func (p *Parser) expectPunct(lexeme, message string) bool {
	if p.checkPunct(lexeme) {
		p.advance()
		return true
	}
	p.errorAtPreviousEnd(message)
	return false
}

func (p *Parser) atEnd() bool {
	return p.peek().Kind == TokenEndOfFile
}

func (p *Parser) canStartPrimary() bool {
	if p.atEnd() {
		return false
	}
	tok := p.peek()
	switch tok.Kind {
	case TokenInteger, TokenFloat, TokenString, TokenIdentifier:
		return true
	case TokenKeyword:
		return tok.Lexeme == "true" || tok.Lexeme == "false"
	case TokenPunctuation:
		return tok.Lexeme == "("
	}
	return false
}

func (p *Parser) error(message string) {
	tok := p.peek()
	p.Errors.Add(Diagnostic{
		Message:   message,
		Line:      tok.Line,
		Column:    tok.Column,
		EndColumn: tok.EndColumn,
	})
}

func (p *Parser) errorAtPreviousEnd(message string) {
	if p.current == 0 {
		p.error(message)
		return
	}

	idx := p.current - 1
	for idx > 0 && p.tokens[idx].Kind == TokenComment {
		idx--
	}

	prev := p.tokens[idx]
	p.Errors.Add(Diagnostic{
		Message:   message,
		Line:      prev.Line,
		Column:    prev.EndColumn,
		EndColumn: prev.EndColumn + 1,
	})
}

// synchronize skips to the next plausible statement boundary: past a ';',
// up to (but never past) a '}', or up to a statement-starting keyword.
func (p *Parser) synchronize() {
	for !p.atEnd() {
		tok := p.peek()

		if tok.Kind == TokenPunctuation && tok.Lexeme == ";" {
			p.advance()
			return
		}
		// An unmatched '}' belongs to the enclosing block; leave it.
		if tok.Kind == TokenPunctuation && tok.Lexeme == "}" {
			return
		}
		if tok.Kind == TokenKeyword {
			switch tok.Lexeme {
			case "let", "func", "operator", "if", "return", "while":
				return
			}
		}

		p.advance()
	}
}
