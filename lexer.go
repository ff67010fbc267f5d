package tarantula

import (
	"fmt"
	"strconv"
)

// lineSpan stores the begin and end byte offsets of one physical line of
// source, so diagnostics can quote a line verbatim after lexing.
type lineSpan struct {
	begin int
	end   int
}

// Lexer scans a source program into tokens in a single forward pass with up
// to two characters of lookahead. Column numbers start over at each newline;
// the column counter increments for every consumed character, so the first
// character of a line is column 1.
type Lexer struct {
	src    string
	tokens []Token
	lines  []lineSpan

	line      int // 1-based current line
	col       int // column of the most recently consumed character
	start     int // byte offset of the first character of the current lexeme
	lineStart int // byte offset of the first character of the current line
	pos       int // byte offset of the next character to consume
}

// NewLexer creates a Lexer for the given source program.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1}
}

// Tokenize scans the whole source and returns the token sequence, with an
// EOF token always appended. The only lexical failure is an unterminated
// string literal; every other unrecognized character is deferred to the
// parser as an UNIDENTIFIED token.
func (l *Lexer) Tokenize() ([]Token, error) {
	for !l.isAtEnd() {
		l.start = l.pos
		if err := l.scanToken(); err != nil {
			// Close out the line table so diagnostics can still
			// quote the offending line.
			l.lines = append(l.lines, lineSpan{l.lineStart, l.pos})
			return nil, err
		}
	}

	// Add the last line.
	l.lines = append(l.lines, lineSpan{l.lineStart, l.pos})

	l.col++
	l.tokens = append(l.tokens, Token{Type: EOF, Line: l.line, Col: l.col})
	return l.tokens, nil
}

// Line returns the nth (1-based) line of the source program verbatim, or ""
// if n is out of range. Valid only after Tokenize has returned.
func (l *Lexer) Line(n int) string {
	if n < 1 || n > len(l.lines) {
		return ""
	}
	span := l.lines[n-1]
	return l.src[span.begin:span.end]
}

func (l *Lexer) scanToken() error {
	ch := l.next()

	switch ch {
	// Grouping characters
	case '(':
		l.addToken(LPAREN)
	case ')':
		l.addToken(RPAREN)
	case '[':
		l.addToken(LBRACKET)
	case ']':
		l.addToken(RBRACKET)
	case '"':
		return l.scanString()

	// Arithmetic operators
	case '+':
		l.addToken(PLUS)
	case '-':
		l.addToken(MINUS)
	case '*':
		l.addToken(STAR)
	case '%':
		l.addToken(PERCENT)

	case ';':
		l.skipLineComment()

	// > and >=
	case '>':
		if l.match('=') {
			l.addTokenAt(GREATER_EQ, l.col-1)
		} else {
			l.addToken(GREATER)
		}

	// < and <=
	case '<':
		if l.match('=') {
			l.addTokenAt(LESS_EQ, l.col-1)
		} else {
			l.addToken(LESS)
		}

	// / and //
	case '/':
		if l.match('/') {
			l.addToken(SLASHSLASH)
		} else {
			l.addToken(SLASH)
		}

	// Block comments are delimited by a doubled backtick on each side.
	// A lone backtick is silently dropped.
	case '`':
		if l.match('`') {
			l.skipBlockComment()
		}

	default:
		switch {
		case isDigit(ch):
			l.scanNumber()
		case isStartOfIdentifier(ch):
			l.scanIdentifier()
		case !isWhitespace(ch):
			l.addToken(UNIDENTIFIED)
		}
	}

	return nil
}

// scanString consumes a string literal. The opening quote has already been
// consumed. Strings may span newlines and have no escape processing; the
// token's position is that of the opening quote.
func (l *Lexer) scanString() error {
	startLine := l.line
	startCol := l.col

	for !l.isAtEnd() && l.peek() != '"' {
		l.next()
	}

	if l.isAtEnd() {
		quote := Token{
			Type:   STRING,
			Lexeme: `"`,
			Line:   startLine,
			Col:    startCol,
		}
		return &LexicalError{
			Token: quote,
			Msg: fmt.Sprintf("Unterminated string starting at ln %d, col %d",
				startLine, startCol),
		}
	}

	content := l.src[l.start+1 : l.pos]

	// Consume the closing quote.
	l.next()

	l.tokens = append(l.tokens, Token{
		Type:    STRING,
		Lexeme:  content,
		Literal: content,
		Line:    startLine,
		Col:     startCol,
	})
	return nil
}

// scanNumber consumes a digit run optionally followed by '.' and another
// digit run, and stores the value as a float64 literal.
func (l *Lexer) scanNumber() {
	startCol := l.col

	for isDigit(l.peek()) {
		l.next()
	}

	if l.peek() == '.' && isDigit(l.peekNext()) {
		// Consume the decimal point and the fractional part.
		l.next()
		for isDigit(l.peek()) {
			l.next()
		}
	}

	literal, _ := strconv.ParseFloat(l.src[l.start:l.pos], 64)
	l.addLiteralTokenAt(NUMBER, literal, startCol)
}

// scanIdentifier consumes an identifier and resolves it against the keyword
// table, falling back to a generic ID token.
func (l *Lexer) scanIdentifier() {
	startCol := l.col

	for isPartOfIdentifier(l.peek()) {
		l.next()
	}

	lexeme := l.src[l.start:l.pos]
	if tt, ok := keywords[lexeme]; ok {
		l.addTokenAt(tt, startCol)
		return
	}
	l.addTokenAt(ID, startCol)
}

func (l *Lexer) skipLineComment() {
	for !l.isAtEnd() && l.peek() != '\n' {
		l.next()
	}
}

func (l *Lexer) skipBlockComment() {
	for !l.matchPair('`', '`') && !l.isAtEnd() {
		l.next()
	}
}

// next consumes and returns the next character, maintaining the line table
// and the line/column counters.
func (l *Lexer) next() byte {
	ch := l.src[l.pos]
	l.pos++

	if ch == '\n' {
		l.lines = append(l.lines, lineSpan{l.lineStart, l.pos - 1})
		l.line++
		l.col = 0
		l.lineStart = l.pos
	} else {
		l.col++
	}

	return ch
}

// peek returns the first character of lookahead without consuming it, or
// NUL at end of input.
func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.src[l.pos]
}

// peekNext returns the second character of lookahead, or NUL.
func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

// match consumes the next character and reports true if it equals c.
func (l *Lexer) match(c byte) bool {
	if l.peek() == c {
		l.next()
		return true
	}
	return false
}

// matchPair consumes the next two characters and reports true if they equal
// a and b respectively.
func (l *Lexer) matchPair(a, b byte) bool {
	if l.peek() == a && l.peekNext() == b {
		l.next()
		l.next()
		return true
	}
	return false
}

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.src)
}

func (l *Lexer) lexeme() string {
	return l.src[l.start:l.pos]
}

func (l *Lexer) addToken(tt TokenType) {
	l.tokens = append(l.tokens, Token{
		Type:   tt,
		Lexeme: l.lexeme(),
		Line:   l.line,
		Col:    l.col,
	})
}

func (l *Lexer) addTokenAt(tt TokenType, col int) {
	l.tokens = append(l.tokens, Token{
		Type:   tt,
		Lexeme: l.lexeme(),
		Line:   l.line,
		Col:    col,
	})
}

func (l *Lexer) addLiteralTokenAt(tt TokenType, literal interface{}, col int) {
	l.tokens = append(l.tokens, Token{
		Type:    tt,
		Lexeme:  l.lexeme(),
		Literal: literal,
		Line:    l.line,
		Col:     col,
	})
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isStartOfIdentifier(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		c == '_' || c == '$'
}

func isPartOfIdentifier(c byte) bool {
	return isStartOfIdentifier(c) || isDigit(c) || c == '?' || c == '-'
}
