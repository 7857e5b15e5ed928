// parser.go — recursive-descent parser producing the statement list.
//
// OVERVIEW
// --------
// One-token-lookahead predictive descent over the token stream from lexer.go.
// Each grammar rule is a method; precedence is encoded by the call chain
// (assignment → or → and → equality → comparison → term → factor → unary →
// call → primary). `for` is desugared here — the interpreter never sees a
// for-loop, only the equivalent Block/While shape.
//
// ERROR RECOVERY
// --------------
// The parser never gives up on the first error. A syntax error inside a
// declaration produces a *ParseError, the parser discards tokens until a
// likely statement boundary (just after ';', or just before class/fun/var/
// for/if/while/print/return), and parsing resumes with the next declaration.
// All errors from the run come back as an ErrorList; callers must not
// execute the (partial) AST when the list is non-empty.
//
// Two errors are reported without entering panic mode, matching the grammar's
// intent to keep the surrounding parse intact:
//   - "Invalid assignment target." at the '=' of a non-lvalue assignment;
//   - the 255-argument / 255-parameter limits.
package lox

import "fmt"

/* ===========================
   PUBLIC API
   =========================== */

// Parse consumes a token stream terminated by EOF and returns the program's
// top-level declarations. On syntax errors it returns the partial AST
// together with an *ErrorList of *ParseError values.
func Parse(toks []Token) ([]Stmt, error) {
	p := &parser{toks: toks}
	stmts := p.program()
	if len(p.errs) > 0 {
		return stmts, &p.errs
	}
	return stmts, nil
}

// ParseSource lexes and parses src in one step. Lex errors take precedence:
// if scanning fails the token stream is not parsed.
func ParseSource(src string) ([]Stmt, error) {
	toks, err := NewLexer(src).Scan()
	if err != nil {
		return nil, err
	}
	return Parse(toks)
}

//// END_OF_PUBLIC

const maxCallArgs = 255

type parser struct {
	toks []Token
	i    int
	errs ErrorList
}

func (p *parser) atEnd() bool { return p.peek().Type == EOF }
func (p *parser) peek() Token { return p.toks[p.i] }
func (p *parser) prev() Token { return p.toks[p.i-1] }

func (p *parser) check(tt TokenType) bool {
	return !p.atEnd() && p.peek().Type == tt
}

func (p *parser) advance() Token {
	if !p.atEnd() {
		p.i++
	}
	return p.prev()
}

func (p *parser) match(tts ...TokenType) bool {
	for _, tt := range tts {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

// need consumes a token of the given type or fails with a *ParseError
// blaming the token actually found.
func (p *parser) need(tt TokenType, msg string) (Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return Token{}, &ParseError{Tok: p.peek(), Msg: msg}
}

// report records an error without unwinding; used where the grammar can
// keep going (invalid assignment target, arity limits).
func (p *parser) report(tok Token, msg string) {
	p.errs = append(p.errs, &ParseError{Tok: tok, Msg: msg})
}

// synchronize discards tokens until a statement boundary: just past a ';',
// or just before a keyword that starts a declaration/statement.
func (p *parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.prev().Type == SEMICOLON {
			return
		}
		switch p.peek().Type {
		case CLASS, FUN, VAR, FOR, IF, WHILE, PRINT, RETURN:
			return
		}
		p.advance()
	}
}

/* ---------- declarations & statements ---------- */

func (p *parser) program() []Stmt {
	var stmts []Stmt
	for !p.atEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

// declaration is the synchronization point: an error anywhere below lands
// here, gets recorded, and the parser resumes at the next boundary.
func (p *parser) declaration() Stmt {
	var s Stmt
	var err error
	switch {
	case p.match(CLASS):
		s, err = p.classDecl()
	case p.match(FUN):
		s, err = p.function("function")
	case p.match(VAR):
		s, err = p.varDecl()
	default:
		s, err = p.statement()
	}
	if err != nil {
		p.errs = append(p.errs, err)
		p.synchronize()
		return nil
	}
	return s
}

func (p *parser) classDecl() (Stmt, error) {
	name, err := p.need(IDENTIFIER, "Expect class name.")
	if err != nil {
		return nil, err
	}

	var superclass *Variable
	if p.match(LESS) {
		sup, err := p.need(IDENTIFIER, "Expect superclass name.")
		if err != nil {
			return nil, err
		}
		superclass = &Variable{Name: sup}
	}

	if _, err := p.need(LEFT_BRACE, "Expect '{' before class body."); err != nil {
		return nil, err
	}
	var methods []*FunctionStmt
	for !p.check(RIGHT_BRACE) && !p.atEnd() {
		m, err := p.function("method")
		if err != nil {
			return nil, err
		}
		methods = append(methods, m.(*FunctionStmt))
	}
	if _, err := p.need(RIGHT_BRACE, "Expect '}' after class body."); err != nil {
		return nil, err
	}
	return &ClassStmt{Name: name, Superclass: superclass, Methods: methods}, nil
}

// function parses a named function or method; kind selects the error wording.
func (p *parser) function(kind string) (Stmt, error) {
	name, err := p.need(IDENTIFIER, fmt.Sprintf("Expect %s name.", kind))
	if err != nil {
		return nil, err
	}
	if _, err := p.need(LEFT_PAREN, fmt.Sprintf("Expect '(' after %s name.", kind)); err != nil {
		return nil, err
	}
	var params []Token
	if !p.check(RIGHT_PAREN) {
		for {
			if len(params) >= maxCallArgs {
				p.report(p.peek(), "Can't have more than 255 parameters.")
			}
			param, err := p.need(IDENTIFIER, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.need(RIGHT_PAREN, "Expect ')' after parameters."); err != nil {
		return nil, err
	}
	if _, err := p.need(LEFT_BRACE, fmt.Sprintf("Expect '{' before %s body.", kind)); err != nil {
		return nil, err
	}
	body, err := p.blockBody()
	if err != nil {
		return nil, err
	}
	return &FunctionStmt{Name: name, Params: params, Body: body}, nil
}

func (p *parser) varDecl() (Stmt, error) {
	name, err := p.need(IDENTIFIER, "Expect variable name.")
	if err != nil {
		return nil, err
	}
	var init Expr
	if p.match(EQUAL) {
		init, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.need(SEMICOLON, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return &VarStmt{Name: name, Initializer: init}, nil
}

func (p *parser) statement() (Stmt, error) {
	switch {
	case p.match(PRINT):
		return p.printStmt()
	case p.match(LEFT_BRACE):
		body, err := p.blockBody()
		if err != nil {
			return nil, err
		}
		return &BlockStmt{Statements: body}, nil
	case p.match(IF):
		return p.ifStmt()
	case p.match(WHILE):
		return p.whileStmt()
	case p.match(FOR):
		return p.forStmt()
	case p.match(RETURN):
		return p.returnStmt()
	default:
		return p.exprStmt()
	}
}

func (p *parser) printStmt() (Stmt, error) {
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(SEMICOLON, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return &PrintStmt{Expression: value}, nil
}

// blockBody parses statements until '}'; the opening brace was consumed by
// the caller. Used for both block statements and function bodies.
func (p *parser) blockBody() ([]Stmt, error) {
	var stmts []Stmt
	for !p.check(RIGHT_BRACE) && !p.atEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	if _, err := p.need(RIGHT_BRACE, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *parser) ifStmt() (Stmt, error) {
	if _, err := p.need(LEFT_PAREN, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(RIGHT_PAREN, "Expect ')' after if condition."); err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	// Dangling else binds to the nearest if: this match happens before the
	// enclosing ifStmt gets a chance to see the token.
	var els Stmt
	if p.match(ELSE) {
		els, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return &IfStmt{Condition: cond, ThenBranch: then, ElseBranch: els}, nil
}

func (p *parser) whileStmt() (Stmt, error) {
	if _, err := p.need(LEFT_PAREN, "Expect '(' after 'while'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(RIGHT_PAREN, "Expect ')' after condition."); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Condition: cond, Body: body}, nil
}

// forStmt desugars to existing nodes:
//
//	for (init; cond; incr) body
//	  ⇒ { init; while (cond) { body; incr; } }
//
// An omitted condition becomes literal true. The increment runs after the
// body on every iteration; the condition re-evaluates in the outer scope.
func (p *parser) forStmt() (Stmt, error) {
	if _, err := p.need(LEFT_PAREN, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}

	var init Stmt
	var err error
	switch {
	case p.match(SEMICOLON):
		init = nil
	case p.match(VAR):
		init, err = p.varDecl()
	default:
		init, err = p.exprStmt()
	}
	if err != nil {
		return nil, err
	}

	var cond Expr
	if !p.check(SEMICOLON) {
		cond, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.need(SEMICOLON, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var incr Expr
	if !p.check(RIGHT_PAREN) {
		incr, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.need(RIGHT_PAREN, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if incr != nil {
		body = &BlockStmt{Statements: []Stmt{body, &ExprStmt{Expression: incr}}}
	}
	if cond == nil {
		cond = &Literal{Value: true}
	}
	var loop Stmt = &WhileStmt{Condition: cond, Body: body}
	if init != nil {
		loop = &BlockStmt{Statements: []Stmt{init, loop}}
	}
	return loop, nil
}

func (p *parser) returnStmt() (Stmt, error) {
	keyword := p.prev()
	var value Expr
	var err error
	if !p.check(SEMICOLON) {
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.need(SEMICOLON, "Expect ';' after return value."); err != nil {
		return nil, err
	}
	return &ReturnStmt{Keyword: keyword, Value: value}, nil
}

func (p *parser) exprStmt() (Stmt, error) {
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(SEMICOLON, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return &ExprStmt{Expression: e}, nil
}

/* ---------- expressions, lowest precedence first ---------- */

func (p *parser) expression() (Expr, error) {
	return p.assignment()
}

// assignment parses the left side as an or-expression, then reinterprets it
// if '=' follows: a *Variable becomes an *Assign, a *Get becomes a *Set.
// Anything else is reported at the '=' without panic-mode recovery so the
// rest of the statement still parses.
func (p *parser) assignment() (Expr, error) {
	e, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.match(EQUAL) {
		equals := p.prev()
		value, err := p.assignment() // right-associative
		if err != nil {
			return nil, err
		}
		switch target := e.(type) {
		case *Variable:
			return &Assign{Name: target.Name, Value: value}, nil
		case *Get:
			return &Set{Object: target.Object, Name: target.Name, Value: value}, nil
		}
		p.report(equals, "Invalid assignment target.")
	}
	return e, nil
}

func (p *parser) or() (Expr, error) {
	e, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.match(OR) {
		op := p.prev()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		e = &Logical{Left: e, Operator: op, Right: right}
	}
	return e, nil
}

func (p *parser) and() (Expr, error) {
	e, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(AND) {
		op := p.prev()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		e = &Logical{Left: e, Operator: op, Right: right}
	}
	return e, nil
}

func (p *parser) equality() (Expr, error) {
	return p.binaryLevel(p.comparison, BANG_EQUAL, EQUAL_EQUAL)
}

func (p *parser) comparison() (Expr, error) {
	return p.binaryLevel(p.term, GREATER, GREATER_EQUAL, LESS, LESS_EQUAL)
}

func (p *parser) term() (Expr, error) {
	return p.binaryLevel(p.factor, MINUS, PLUS)
}

func (p *parser) factor() (Expr, error) {
	return p.binaryLevel(p.unary, SLASH, STAR)
}

// binaryLevel builds one left-associative precedence level from the next
// tighter rule and its operator set.
func (p *parser) binaryLevel(next func() (Expr, error), ops ...TokenType) (Expr, error) {
	e, err := next()
	if err != nil {
		return nil, err
	}
	for p.match(ops...) {
		op := p.prev()
		right, err := next()
		if err != nil {
			return nil, err
		}
		e = &Binary{Left: e, Operator: op, Right: right}
	}
	return e, nil
}

func (p *parser) unary() (Expr, error) {
	if p.match(BANG, MINUS) {
		op := p.prev()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{Operator: op, Right: right}, nil
	}
	return p.call()
}

// call parses the left-associative postfix chain of '(args)' and '.name'.
func (p *parser) call() (Expr, error) {
	e, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.match(LEFT_PAREN):
			e, err = p.finishCall(e)
			if err != nil {
				return nil, err
			}
		case p.match(DOT):
			name, err := p.need(IDENTIFIER, "Expect property name after '.'.")
			if err != nil {
				return nil, err
			}
			e = &Get{Object: e, Name: name}
		default:
			return e, nil
		}
	}
}

func (p *parser) finishCall(callee Expr) (Expr, error) {
	var args []Expr
	if !p.check(RIGHT_PAREN) {
		for {
			if len(args) >= maxCallArgs {
				p.report(p.peek(), "Can't have more than 255 arguments.")
			}
			a, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if !p.match(COMMA) {
				break
			}
		}
	}
	paren, err := p.need(RIGHT_PAREN, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return &Call{Callee: callee, Paren: paren, Args: args}, nil
}

func (p *parser) primary() (Expr, error) {
	switch {
	case p.match(FALSE):
		return &Literal{Value: false}, nil
	case p.match(TRUE):
		return &Literal{Value: true}, nil
	case p.match(NIL):
		return &Literal{Value: nil}, nil
	case p.match(NUMBER, STRING):
		return &Literal{Value: p.prev().Literal}, nil
	case p.match(THIS):
		return &This{Keyword: p.prev()}, nil
	case p.match(SUPER):
		keyword := p.prev()
		if _, err := p.need(DOT, "Expect '.' after 'super'."); err != nil {
			return nil, err
		}
		method, err := p.need(IDENTIFIER, "Expect superclass method name.")
		if err != nil {
			return nil, err
		}
		return &Super{Keyword: keyword, Method: method}, nil
	case p.match(IDENTIFIER):
		return &Variable{Name: p.prev()}, nil
	case p.match(LEFT_PAREN):
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RIGHT_PAREN, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return &Grouping{Expression: e}, nil
	}
	return nil, &ParseError{Tok: p.peek(), Msg: "Expect expression."}
}
