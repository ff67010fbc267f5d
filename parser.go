// parser.go — recursive-descent parser.
//
// The parser consumes the token sequence produced by the lexer and builds a
// list of top-level expressions. Each nonterminal of the grammar is
// implemented as one method, with one or two tokens of lookahead to
// disambiguate "(" followed by a keyword:
//
//	program    := expression* EOF
//	expression := let | print | if | cond | logical | equality
//	equality   := "(" ("equal?"|"nequal?") comparison comparison+ ")"
//	comparison := "(" (">"|">="|"<"|"<=") binary binary+ ")"
//	binary     := "(" ("+"|"-"|"*"|"/"|"//"|"%") unary unary+ ")"
//	unary      := ("+"|"-") expression
//	           | "(" ("not"|"true?") expression ")"
//	           | binary | literal
//	literal    := string | number | identifier | boolean | "null"
//	let        := "(" "let" "[" binding+ "]" body ")"
//	binding    := identifier expression
//	body       := expression*
//	print      := "(" ("print"|"println") body ")"
//	if         := "(" "if" expression "(" "then" body ")" [ "(" "else" body ")" ] ")"
//	cond       := "(" "cond" clause+ [ "(" "else" body ")" ] ")"
//	clause     := "(" expression body ")"
//	logical    := "(" ("and"|"or") expression expression+ ")"
//
// Productions that accept one-or-more trailing operands (equality,
// comparison, binary, logical) fold the extras into nested binary nodes,
// left operand first: (equal? a b c) parses as equal?(equal?(a,b), c). The
// evaluator therefore only ever sees strictly binary applications.
//
// The first grammar violation aborts the whole parse with a *ParseError;
// one call handles one unit of input (a file or a REPL line) and there is no
// recovery.
package tarantula

import "fmt"

// Parser builds an expression list from a token sequence.
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a Parser over tokens, which must end with an EOF token
// as produced by Lexer.Tokenize.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses the whole program and returns its top-level expressions in
// order. It fails with a *ParseError on the first grammar violation.
func (p *Parser) Parse() ([]Expr, error) {
	var expressions []Expr
	for p.hasTokens() {
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		expressions = append(expressions, expr)
	}
	return expressions, nil
}

// expression := let | print | if | cond | logical | equality
func (p *Parser) expression() (Expr, error) {
	if p.check(LPAREN) {
		switch {
		case p.checkNext(LET):
			return p.let()
		case p.checkNext(PRINT, PRINTLN):
			return p.print()
		case p.checkNext(IF):
			return p.ifExpr()
		case p.checkNext(COND):
			return p.cond()
		case p.checkNext(AND, OR):
			return p.logical()
		}
	}
	return p.equality()
}

// logical := "(" ("and"|"or") expression expression+ ")"
func (p *Parser) logical() (Expr, error) {
	// Consume (
	p.next()

	operator := p.next()
	first, err := p.expression()
	if err != nil {
		return nil, err
	}
	second, err := p.expression()
	if err != nil {
		return nil, err
	}
	expr := Expr(&LogicalExpr{Operator: operator, First: first, Second: second})

	for p.peekExpr() {
		second, err = p.expression()
		if err != nil {
			return nil, err
		}
		expr = &LogicalExpr{Operator: operator, First: expr, Second: second}
	}

	if err := p.consumeRightParen(operator.Lexeme); err != nil {
		return nil, err
	}
	return expr, nil
}

// cond := "(" "cond" clause+ [ "(" "else" body ")" ] ")"
func (p *Parser) cond() (Expr, error) {
	// Consume (cond
	p.next()
	p.next()

	var clauses []*ClauseExpr
	for p.peekExpr() && !p.peekElse() && p.hasTokens() {
		clause, err := p.clause()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
	}

	elseBody, err := p.elseBody()
	if err != nil {
		return nil, err
	}

	if err := p.consumeRightParen("cond"); err != nil {
		return nil, err
	}
	return &CondExpr{Clauses: clauses, Else: elseBody}, nil
}

// clause := "(" expression body ")"
func (p *Parser) clause() (*ClauseExpr, error) {
	if _, err := p.consume(LPAREN,
		"Expected a '(' to start a clause expression"); err != nil {
		return nil, err
	}

	if !p.peekExpr() {
		return nil, &ParseError{Token: p.peek(), Msg: "Expected an expression"}
	}

	condition, err := p.expression()
	if err != nil {
		return nil, err
	}

	body, err := p.body()
	if err != nil {
		return nil, err
	}

	if err := p.consumeRightParen(""); err != nil {
		return nil, err
	}
	return &ClauseExpr{Condition: condition, Body: body}, nil
}

// if := "(" "if" expression "(" "then" body ")" [ "(" "else" body ")" ] ")"
func (p *Parser) ifExpr() (Expr, error) {
	// Consume (if
	p.next()
	p.next()

	condition, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(LPAREN,
		"Expected '(' to begin 'then' expression"); err != nil {
		return nil, err
	}
	if _, err := p.consume(THEN, "Expected 'then' expression"); err != nil {
		return nil, err
	}

	thenBody, err := p.body()
	if err != nil {
		return nil, err
	}
	if err := p.consumeRightParen("then"); err != nil {
		return nil, err
	}

	elseBody, err := p.elseBody()
	if err != nil {
		return nil, err
	}

	if err := p.consumeRightParen("if"); err != nil {
		return nil, err
	}
	return &IfExpr{Condition: condition, Then: thenBody, Else: elseBody}, nil
}

// elseBody parses an optional "(" "else" body ")" and returns nil when the
// next expression is not an else.
func (p *Parser) elseBody() (*BodyExpr, error) {
	if !p.peekElse() {
		return nil, nil
	}

	// Consume (else
	p.next()
	p.next()

	body, err := p.body()
	if err != nil {
		return nil, err
	}
	if err := p.consumeRightParen("else"); err != nil {
		return nil, err
	}
	return body, nil
}

// let := "(" "let" "[" binding+ "]" body ")"
func (p *Parser) let() (Expr, error) {
	// Consume (let
	p.next()
	p.next()

	if !p.check(LBRACKET) {
		return nil, &ParseError{Token: p.peek(), Msg: fmt.Sprintf(
			"Expected a '[' to start the identifier initialization list "+
				"but got '%s' instead", p.peek().Lexeme)}
	}
	p.next()

	if !p.check(ID) {
		return nil, &ParseError{Token: p.peek(), Msg: fmt.Sprintf(
			"Expected an identifier after '[' but got '%s' instead",
			p.peek().Lexeme)}
	}

	var bindings []*BindingExpr
	for !p.match(RBRACKET) && p.hasTokens() {
		if p.check(RPAREN) {
			return nil, &ParseError{Token: p.peek(), Msg: fmt.Sprintf(
				"Expected a ']' to end the identifier initialization list "+
					"but got '%s' instead", p.peek().Lexeme)}
		}

		identifier, err := p.consume(ID, "Expected an identifier")
		if err != nil {
			return nil, err
		}

		if !p.peekExpr() {
			return nil, &ParseError{Token: p.peek(), Msg: fmt.Sprintf(
				"Expected an expression after identifier '%s' but got "+
					"'%s' instead", identifier.Lexeme, p.peek().Lexeme)}
		}

		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, &BindingExpr{Identifier: identifier, Value: value})
	}

	body, err := p.body()
	if err != nil {
		return nil, err
	}

	if err := p.consumeRightParen("let"); err != nil {
		return nil, err
	}
	return &LetExpr{Bindings: bindings, Body: body}, nil
}

// body := expression*
func (p *Parser) body() (*BodyExpr, error) {
	var exprs []Expr
	for p.peekExpr() && p.hasTokens() {
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return &BodyExpr{Exprs: exprs}, nil
}

// print := "(" ("print"|"println") body ")"
func (p *Parser) print() (Expr, error) {
	// Consume (
	p.next()

	// print or println
	operator := p.next()

	body, err := p.body()
	if err != nil {
		return nil, err
	}

	if err := p.consumeRightParen(operator.Lexeme); err != nil {
		return nil, err
	}
	return &PrintExpr{Operator: operator, Body: body}, nil
}

// equality := "(" ("equal?"|"nequal?") comparison comparison+ ")"
func (p *Parser) equality() (Expr, error) {
	if p.check(LPAREN) && p.checkNext(EQUAL_PRED, NEQUAL_PRED) {
		return p.nary(p.comparison)
	}
	return p.comparison()
}

// comparison := "(" (">"|">="|"<"|"<=") binary binary+ ")"
func (p *Parser) comparison() (Expr, error) {
	if p.check(LPAREN) && p.checkNext(GREATER, GREATER_EQ, LESS, LESS_EQ) {
		return p.nary(p.binary)
	}
	return p.binary()
}

// binary := "(" ("+"|"-"|"*"|"/"|"//"|"%") unary unary+ ")"
func (p *Parser) binary() (Expr, error) {
	if p.hasBinaryExpression() {
		return p.nary(p.unary)
	}
	return p.unary()
}

// nary parses "(" operator operand operand+ ")" where operand parses the
// next production down, folding extra operands into a left-leaning chain of
// binary nodes.
func (p *Parser) nary(operand func() (Expr, error)) (Expr, error) {
	// Consume (
	p.next()

	operator := p.next()

	first, err := operand()
	if err != nil {
		return nil, err
	}
	second, err := operand()
	if err != nil {
		return nil, err
	}
	expr := Expr(&BinaryExpr{Operator: operator, First: first, Second: second})

	for p.peekExpr() {
		second, err = operand()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Operator: operator, First: expr, Second: second}
	}

	if err := p.consumeRightParen(operator.Lexeme); err != nil {
		return nil, err
	}
	return expr, nil
}

// unary := ("+"|"-") expression | "(" ("not"|"true?") expression ")"
//
//	| binary | literal
func (p *Parser) unary() (Expr, error) {
	if p.check(PLUS, MINUS) && !p.checkNext(PLUS, MINUS) {
		operator := p.next()
		right, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Operator: operator, Right: right}, nil
	}

	if p.check(LPAREN) && p.checkNext(NOT, TRUE_PRED) {
		// Consume (
		p.next()

		operator := p.next()
		right, err := p.expression()
		if err != nil {
			return nil, err
		}

		if err := p.consumeRightParen(operator.Lexeme); err != nil {
			return nil, err
		}
		return &UnaryExpr{Operator: operator, Right: right}, nil
	}

	if p.hasBinaryExpression() {
		// unary := binary
		return p.expression()
	}

	return p.literal()
}

// literal := string | number | identifier | boolean | "null"
func (p *Parser) literal() (Expr, error) {
	switch {
	case p.match(STRING):
		return &LiteralExpr{Value: StrVal(p.previous().Literal.(string))}, nil
	case p.match(NUMBER):
		return &LiteralExpr{Value: NumVal(p.previous().Literal.(float64))}, nil
	case p.match(ID):
		return &VariableExpr{Name: p.previous()}, nil
	case p.match(TRUE):
		return &LiteralExpr{Value: BoolVal(true)}, nil
	case p.match(FALSE):
		return &LiteralExpr{Value: BoolVal(false)}, nil
	case p.match(NULL):
		return &LiteralExpr{Value: Null}, nil
	}

	// A bare identifier in operator position reads as a reference to
	// something that cannot resolve; report it by name. Unidentified
	// characters surface here as well, deferred from the lexer.
	switch {
	case p.checkNext(ID):
		return nil, &ParseError{Token: p.peekNext(), Msg: fmt.Sprintf(
			"Undefined identifier '%s'", p.peekNext().Lexeme)}
	case p.check(UNIDENTIFIED):
		return nil, &ParseError{Token: p.peek(), Msg: fmt.Sprintf(
			"Bad token '%s'", p.peek().Lexeme)}
	case p.checkNext(UNIDENTIFIED):
		return nil, &ParseError{Token: p.peekNext(), Msg: fmt.Sprintf(
			"Bad token '%s'", p.peekNext().Lexeme)}
	}

	return nil, &ParseError{Token: p.peek(), Msg: fmt.Sprintf(
		"Expected one of the following but got '%s' instead:\n"+
			" * An expression starting with '('\n"+
			" * A unary expression starting with '+' or '-'\n"+
			" * String\n * Number\n * Identifier\n * Boolean \n * null",
		p.peek().Lexeme)}
}

// ───────────────────────── token stream helpers ─────────────────────────

// hasTokens reports whether there are tokens left before EOF.
func (p *Parser) hasTokens() bool {
	return p.peek().Type != EOF
}

// peek returns the first token of lookahead.
func (p *Parser) peek() Token {
	return p.tokens[p.pos]
}

// peekNext returns the second token of lookahead, or the EOF token when the
// stream is exhausted.
func (p *Parser) peekNext() Token {
	if p.pos+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+1]
}

// previous returns the most recently consumed token.
func (p *Parser) previous() Token {
	return p.tokens[p.pos-1]
}

// next consumes and returns the next token. At EOF it returns the previous
// token without advancing.
func (p *Parser) next() Token {
	if p.hasTokens() {
		p.pos++
		return p.tokens[p.pos-1]
	}
	return p.previous()
}

// check reports whether the next token is one of the given types.
func (p *Parser) check(types ...TokenType) bool {
	for _, tt := range types {
		if p.peek().Type == tt {
			return true
		}
	}
	return false
}

// checkNext reports whether the next-next token is one of the given types.
func (p *Parser) checkNext(types ...TokenType) bool {
	for _, tt := range types {
		if p.peekNext().Type == tt {
			return true
		}
	}
	return false
}

// match consumes the next token and reports true if it is one of the given
// types.
func (p *Parser) match(types ...TokenType) bool {
	if p.check(types...) {
		p.next()
		return true
	}
	return false
}

// consume returns the next token if it has the given type, and fails with a
// ParseError carrying msg otherwise.
func (p *Parser) consume(tt TokenType, msg string) (Token, error) {
	if p.check(tt) {
		return p.next(), nil
	}
	return Token{}, &ParseError{Token: p.peek(), Msg: msg}
}

// consumeRightParen consumes the ')' closing the named expression.
func (p *Parser) consumeRightParen(exprName string) error {
	_, err := p.consume(RPAREN, fmt.Sprintf(
		"Expression '%s' is missing a closing ')'", exprName))
	return err
}

// peekExpr reports whether the first token of lookahead can begin an
// expression.
func (p *Parser) peekExpr() bool {
	return p.check(LPAREN, NUMBER, MINUS, PLUS, TRUE, FALSE, NULL, ID, STRING)
}

// peekElse reports whether the next expression is an else expression.
func (p *Parser) peekElse() bool {
	return p.check(LPAREN) && p.checkNext(ELSE)
}

// hasBinaryExpression reports whether the next expression is a binary
// arithmetic expression.
func (p *Parser) hasBinaryExpression() bool {
	return p.check(LPAREN) &&
		p.checkNext(PLUS, MINUS, STAR, SLASH, SLASHSLASH, PERCENT)
}
