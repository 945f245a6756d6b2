// Package parser implements a recursive-descent parser: a single token
// of lookahead, panic-mode error recovery, and a `for` statement that
// desugars to a Block/While pair.
package parser

import (
	"fmt"

	"github.com/loxscript/glox/internal/ast"
	"github.com/loxscript/glox/internal/loxerr"
	"github.com/loxscript/glox/internal/token"
)

const maxArgs = 255

// Parser consumes a token stream and produces a statement list.
type Parser struct {
	tokens []token.Token
	idx    int
	errs   []*loxerr.ParseError
}

// New constructs a Parser over a token stream terminated by EOF.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse runs `program → declaration* EOF`. It never stops at the first
// error: panic-mode recovery (synchronize) lets later statements still be
// parsed and reported. The returned statement slice is only meaningful
// when the returned error slice is empty.
func (p *Parser) Parse() ([]ast.Stmt, []*loxerr.ParseError) {
	var stmts []ast.Stmt
	for !p.atEnd() {
		stmt, ok := p.declarationRecovering()
		if ok {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, p.errs
}

// ParseExpression parses a single expression without requiring a
// trailing EOF.
func (p *Parser) ParseExpression() (ast.Expr, []*loxerr.ParseError) {
	expr := p.recoverExpr(func() ast.Expr { return p.expression() })
	return expr, p.errs
}

// bail is panicked to unwind a failed production to the nearest recovery
// point (declarationRecovering). This is the same bailout idiom the Go
// standard library's own parsers use for backtrack-free error recovery.
type bail struct{ err *loxerr.ParseError }

func (p *Parser) declarationRecovering() (stmt ast.Stmt, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			b, isBail := r.(bail)
			if !isBail {
				panic(r)
			}
			p.errs = append(p.errs, b.err)
			p.synchronize()
			ok = false
		}
	}()
	return p.declaration(), true
}

func (p *Parser) recoverExpr(parse func() ast.Expr) (expr ast.Expr) {
	defer func() {
		if r := recover(); r != nil {
			b, isBail := r.(bail)
			if !isBail {
				panic(r)
			}
			p.errs = append(p.errs, b.err)
			expr = nil
		}
	}()
	return parse()
}

// synchronize discards the offending token and then keeps discarding
// until it finds a plausible statement boundary: after a ';', or before
// a keyword that starts a new declaration/statement.
func (p *Parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.previousType() == token.Semicolon {
			return
		}
		switch p.current().Type {
		case token.Class, token.Fun, token.Var, token.For,
			token.If, token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}

// ---- declarations ----

func (p *Parser) declaration() ast.Stmt {
	switch {
	case p.match(token.Fun):
		return p.funDecl("function")
	case p.match(token.Var):
		return p.varDecl()
	default:
		return p.statement()
	}
}

func (p *Parser) funDecl(kind string) ast.Stmt {
	name := p.consume(token.Identifier, fmt.Sprintf("Expect %s name.", kind))
	p.consume(token.LeftParen, fmt.Sprintf("Expect '(' after %s name.", kind))

	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArgs {
				p.errorAtCurrent(fmt.Sprintf("Can't have more than %d parameters.", maxArgs))
			}
			params = append(params, p.consume(token.Identifier, "Expect parameter name."))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.consume(token.RightParen, "Expect ')' after parameters.")

	p.consume(token.LeftBrace, fmt.Sprintf("Expect '{' before %s body.", kind))
	body := p.blockStmts()

	return &ast.Function{Name: name, Params: params, Body: body}
}

func (p *Parser) varDecl() ast.Stmt {
	name := p.consume(token.Identifier, "Expect variable name.")

	var init ast.Expr = nilLiteral(name)
	if p.match(token.Equal) {
		init = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after variable declaration.")

	return &ast.Var{Name: name, Initializer: init}
}

// nilLiteral builds the Literal(Nil) that stands in for an absent var
// initializer, tagged with the declaring token's line.
func nilLiteral(at token.Token) ast.Expr {
	return &ast.Literal{Token: token.Token{Type: token.Nil, Line: at.Line}, Value: "nil"}
}

// ---- statements ----

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.For):
		return p.forStmt()
	case p.match(token.If):
		return p.ifStmt()
	case p.match(token.Print):
		return p.printStmt()
	case p.match(token.Return):
		return p.returnStmt()
	case p.match(token.While):
		return p.whileStmt()
	case p.match(token.LeftBrace):
		return &ast.Block{Stmts: p.blockStmts()}
	default:
		return p.exprStmt()
	}
}

func (p *Parser) exprStmt() ast.Stmt {
	expr := p.expression()
	p.consume(token.Semicolon, "Expect ';' after expression.")
	return &ast.Expression{Expr: expr}
}

func (p *Parser) printStmt() ast.Stmt {
	expr := p.expression()
	p.consume(token.Semicolon, "Expect ';' after value.")
	return &ast.Print{Expr: expr}
}

func (p *Parser) returnStmt() ast.Stmt {
	keyword := p.previous()

	var value ast.Expr = nilLiteral(keyword)
	if !p.check(token.Semicolon) {
		value = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after return value.")

	return &ast.Return{Keyword: keyword, Value: value}
}

func (p *Parser) ifStmt() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'if'.")
	cond := p.expression()
	p.consume(token.RightParen, "Expect ')' after if condition.")

	then := p.statement()
	var els ast.Stmt
	if p.match(token.Else) {
		els = p.statement()
	}
	return &ast.If{Cond: cond, Then: then, Else: els}
}

func (p *Parser) whileStmt() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'while'.")
	cond := p.expression()
	p.consume(token.RightParen, "Expect ')' after while condition.")
	body := p.statement()
	return &ast.While{Cond: cond, Body: body}
}

// forStmt desugars `for (init; cond; inc) body` into a Block/While
// nesting; the evaluator never sees a For node.
func (p *Parser) forStmt() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'for'.")

	var init ast.Stmt
	switch {
	case p.match(token.Semicolon):
		// no initializer
	case p.match(token.Var):
		init = p.varDecl()
	default:
		init = p.exprStmt()
	}

	var cond ast.Expr
	if !p.check(token.Semicolon) {
		cond = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after loop condition.")

	var inc ast.Expr
	if !p.check(token.RightParen) {
		inc = p.expression()
	}
	p.consume(token.RightParen, "Expect ')' after for clauses.")

	body := p.statement()

	if inc != nil {
		body = &ast.Block{Stmts: []ast.Stmt{body, &ast.Expression{Expr: inc}}}
	}
	if cond == nil {
		cond = &ast.Literal{Token: token.Token{Type: token.True}, Value: "true"}
	}
	loop := ast.Stmt(&ast.While{Cond: cond, Body: body})
	if init != nil {
		loop = &ast.Block{Stmts: []ast.Stmt{init, loop}}
	}
	return loop
}

func (p *Parser) blockStmts() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.atEnd() {
		stmt, ok := p.declarationRecovering()
		if ok {
			stmts = append(stmts, stmt)
		}
	}
	p.consume(token.RightBrace, "Expect '}' after block.")
	return stmts
}

// ---- expressions ----

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expr {
	expr := p.logicOr()

	if p.match(token.Equal) {
		equals := p.previous()
		value := p.assignment()

		if v, ok := expr.(*ast.Variable); ok {
			return &ast.Assign{Name: v.Name, Value: value}
		}
		p.errorAt(equals, "Invalid assignment target.")
	}

	return expr
}

func (p *Parser) logicOr() ast.Expr {
	expr := p.logicAnd()
	for p.match(token.Or) {
		op := p.previous()
		right := p.logicAnd()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) logicAnd() ast.Expr {
	expr := p.equality()
	for p.match(token.And) {
		op := p.previous()
		right := p.equality()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.EqualEqual, token.BangEqual) {
		op := p.previous()
		right := p.comparison()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.Greater, token.GreaterEqual, token.Less, token.LessEqual) {
		op := p.previous()
		right := p.term()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.Plus, token.Minus) {
		op := p.previous()
		right := p.factor()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.Star, token.Slash) {
		op := p.previous()
		right := p.unary()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.Bang, token.Minus) {
		op := p.previous()
		right := p.unary()
		return &ast.Unary{Op: op, Right: right}
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()
	for p.match(token.LeftParen) {
		expr = p.finishCall(expr)
	}
	return expr
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArgs {
				p.errorAtCurrent(fmt.Sprintf("Can't have more than %d arguments.", maxArgs))
			}
			args = append(args, p.expression())
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren := p.consume(token.RightParen, "Expect ')' after arguments.")
	return &ast.Call{Callee: callee, Paren: paren, Args: args}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.False):
		return &ast.Literal{Token: p.previous(), Value: "false"}
	case p.match(token.True):
		return &ast.Literal{Token: p.previous(), Value: "true"}
	case p.match(token.Nil):
		return &ast.Literal{Token: p.previous(), Value: "nil"}
	case p.match(token.Number, token.String):
		return &ast.Literal{Token: p.previous(), Value: p.previous().Literal}
	case p.match(token.Identifier):
		return &ast.Variable{Name: p.previous()}
	case p.match(token.LeftParen):
		inner := p.expression()
		p.consume(token.RightParen, "Expect ')' after expression.")
		return &ast.Grouping{Inner: inner}
	}

	p.errorAtCurrent("Expect expression.")
	panic("unreachable")
}

// ---- token-stream primitives ----

func (p *Parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(t token.Type) bool {
	return !p.atEnd() && p.current().Type == t
}

func (p *Parser) advance() token.Token {
	tok := p.current()
	if !p.atEnd() {
		p.idx++
	}
	return tok
}

func (p *Parser) atEnd() bool { return p.current().Type == token.EOF }

func (p *Parser) current() token.Token { return p.tokens[p.idx] }

func (p *Parser) previous() token.Token {
	if p.idx == 0 {
		return p.current()
	}
	return p.tokens[p.idx-1]
}

func (p *Parser) previousType() token.Type { return p.previous().Type }

func (p *Parser) consume(t token.Type, msg string) token.Token {
	if p.check(t) {
		return p.advance()
	}
	p.errorAtCurrent(msg)
	panic("unreachable")
}

func (p *Parser) errorAtCurrent(msg string) {
	p.errorAt(p.current(), msg)
}

func (p *Parser) errorAt(tok token.Token, msg string) {
	err := &loxerr.ParseError{
		Line:    tok.Line,
		Where:   loxerr.AtToken(tok.Lexeme, tok.Type == token.EOF),
		Message: msg,
	}
	panic(bail{err: err})
}
