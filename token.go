package tarantula

import "fmt"

// TokenType is the kind of a lexical token.
type TokenType int

const (
	// Grouping
	LPAREN   TokenType = iota // "("
	RPAREN                    // ")"
	LBRACKET                  // "["
	RBRACKET                  // "]"

	// Arithmetic operators
	PLUS       // "+"
	MINUS      // "-"
	STAR       // "*"
	SLASH      // "/"
	SLASHSLASH // "//" floor division
	PERCENT    // "%"

	// Comparison operators
	GREATER    // ">"
	GREATER_EQ // ">="
	LESS       // "<"
	LESS_EQ    // "<="

	// Unary logical negation and predicates
	NOT       // "not"
	TRUE_PRED // "true?"

	// Equality predicates
	EQUAL_PRED  // "equal?"
	NEQUAL_PRED // "nequal?"

	// Literals
	NUMBER
	STRING
	TRUE
	FALSE
	NULL

	// Print expressions
	PRINT
	PRINTLN

	// Let expression
	LET

	// Branching
	IF
	THEN
	ELSE
	COND

	// Logical operators
	AND
	OR

	// Identifier (e.g., a variable name)
	ID

	// Any character the lexer does not recognize. Never a lexical
	// failure: the parser reports these when they reach it.
	UNIDENTIFIED

	// End-of-file marker, always the last token
	EOF
)

// Token is a unit of output from the Lexer. It carries enough position
// information for the parser and the evaluator to point diagnostics at the
// offending lexeme. Line is 1-based; Col counts characters on the line
// starting at 1 (the column of the last character for single-character
// tokens, the first character for multi-character lexemes).
type Token struct {
	Type    TokenType
	Lexeme  string      // raw source text of the lexeme (quotes stripped for strings)
	Literal interface{} // parsed value for NUMBER and STRING tokens
	Line    int
	Col     int
}

func (t Token) String() string {
	return fmt.Sprintf("%d %q line=%d col=%d", t.Type, t.Lexeme, t.Line, t.Col)
}

// keywords maps reserved lexemes to their token types. Anything else that
// scans as an identifier becomes an ID token.
var keywords = map[string]TokenType{
	"print":   PRINT,
	"println": PRINTLN,
	"let":     LET,
	"true":    TRUE,
	"false":   FALSE,
	"null":    NULL,
	"not":     NOT,
	"equal?":  EQUAL_PRED,
	"nequal?": NEQUAL_PRED,
	"true?":   TRUE_PRED,
	"if":      IF,
	"then":    THEN,
	"else":    ELSE,
	"cond":    COND,
	"and":     AND,
	"or":      OR,
}
