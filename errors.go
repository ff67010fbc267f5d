// errors.go: typed interpreter errors and caret-snippet rendering.
//
// Three error kinds flow out of the pipeline, one per stage:
//
//   - *LexicalError  — malformed lexeme (only an unterminated string)
//   - *ParseError    — grammar violation, aborts the current input unit
//   - *RuntimeError  — type mismatch, divide-by-zero, undefined identifier
//
// Each carries the offending token (synthesized at the opening quote for the
// lexical case) and a message. FormatDiagnostic renders any of them the way
// the CLI reports errors: a header line, a blank line, the offending source
// line quoted and trimmed, and a caret run under the offending lexeme:
//
//	script.tt:3:2: RuntimeError: Cannot divide by zero
//
//		"(/ 1 0)"
//		 ^
//
// In interactive mode the header context is the bare column number instead
// of filename:line:column. All three kinds are fatal to the current unit of
// input; the next file run or REPL line is unaffected.
package tarantula

import (
	"fmt"
	"strings"
)

// SourceError is implemented by all three diagnostic kinds.
type SourceError interface {
	error
	// Name is the user-facing error kind, e.g. "ParseError".
	Name() string
	// Pos is the token the diagnostic is attributed to.
	Pos() Token
}

// LexicalError reports a malformed lexeme. The only case is an unterminated
// string literal, positioned at the opening quote.
type LexicalError struct {
	Token Token
	Msg   string
}

func (e *LexicalError) Error() string { return e.Msg }
func (e *LexicalError) Name() string  { return "LexicalError" }
func (e *LexicalError) Pos() Token    { return e.Token }

// ParseError reports the first grammar violation encountered. The parser
// does not attempt recovery.
type ParseError struct {
	Token Token
	Msg   string
}

func (e *ParseError) Error() string { return e.Msg }
func (e *ParseError) Name() string  { return "ParseError" }
func (e *ParseError) Pos() Token    { return e.Token }

// RuntimeError reports an evaluation failure, attributed to the operator or
// identifier token embedded in the AST node that failed.
type RuntimeError struct {
	Token Token
	Msg   string
}

func (e *RuntimeError) Error() string { return e.Msg }
func (e *RuntimeError) Name() string  { return "RuntimeError" }
func (e *RuntimeError) Pos() Token    { return e.Token }

// FormatDiagnostic renders err against the offending source line. filename
// selects the header context: empty means interactive mode, where only the
// column is shown. line is the offending source line, quoted verbatim.
func FormatDiagnostic(err SourceError, filename, line string) string {
	tok := err.Pos()

	var b strings.Builder
	if filename == "" {
		fmt.Fprintf(&b, "%d: %s: %s\n", tok.Col, err.Name(), err.Error())
	} else {
		fmt.Fprintf(&b, "%s:%d:%d: %s: %s\n", filename, tok.Line, tok.Col,
			err.Name(), err.Error())
	}

	offset := countLeadingWhitespace(line)

	fmt.Fprintf(&b, "\n\t\"%s\"\n", strings.TrimSpace(line))

	// Align the caret run with the lexeme's column span. The quoted line
	// above starts with a '"', which compensates for columns being
	// 1-based.
	pad := tok.Col - offset
	if pad < 0 {
		pad = 0
	}
	carets := len(tok.Lexeme)
	if carets < 1 {
		carets = 1
	}
	fmt.Fprintf(&b, "\t%s%s\n", strings.Repeat(" ", pad),
		strings.Repeat("^", carets))

	return b.String()
}

func countLeadingWhitespace(s string) int {
	count := 0
	for count < len(s) && isWhitespace(s[count]) {
		count++
	}
	return count
}
