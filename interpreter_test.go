package tarantula

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run evaluates src with a fresh interpreter and returns everything it
// printed.
func run(t *testing.T, src string) string {
	t.Helper()
	var out bytes.Buffer
	err := NewInterpreter(&out).Interpret(parse(t, src))
	require.NoError(t, err)
	return out.String()
}

// runErr evaluates src and returns the runtime error it must produce,
// together with any output printed before the failure.
func runErr(t *testing.T, src string) (*RuntimeError, string) {
	t.Helper()
	var out bytes.Buffer
	err := NewInterpreter(&out).Interpret(parse(t, src))
	require.Error(t, err)

	var rtErr *RuntimeError
	require.ErrorAs(t, err, &rtErr)
	return rtErr, out.String()
}

func Test_Interpret_Arithmetic(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"(print (+ 1 2 3))", "6"},
		{"(print (- 10 1 2))", "7"},
		{"(print (* 2 3 4))", "24"},
		{"(print (/ 22 8))", "2.75"},
		{"(print (// 22 8))", "2"},
		{"(print (// -7 2))", "-4"},
		{"(print (% 7 3))", "1"},
		{"(print (% -7 3))", "-1"},
		{"(print (+ 1 -2))", "-1"},
		{"(print (* (+ 1 2) (- 5 1)))", "12"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, run(t, c.src), "source: %s", c.src)
	}
}

func Test_Interpret_Stringify(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"(print 4.0)", "4"},
		{"(print 0.5)", "0.5"},
		{"(print (/ 1 3))", "0.3333333333333333"},
		{`(print "hi")`, "hi"},
		{"(print true)", "true"},
		{"(print false)", "false"},
		{"(print null)", "null"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, run(t, c.src), "source: %s", c.src)
	}
}

func Test_Interpret_Print_Vs_Println(t *testing.T) {
	assert.Equal(t, "12", run(t, "(print 1 2)"))
	assert.Equal(t, "1\n2\n", run(t, "(println 1 2)"))
}

func Test_Interpret_Unary(t *testing.T) {
	assert.Equal(t, "-7", run(t, "(print -7)"))
	assert.Equal(t, "7", run(t, "(print +7)"))
	assert.Equal(t, "true", run(t, "(print (not false))"))
	assert.Equal(t, "true", run(t, "(print (not 0))"))
	assert.Equal(t, "false", run(t, "(print (not 1))"))
	assert.Equal(t, "true", run(t, `(print (true? "x"))`))
	assert.Equal(t, "false", run(t, "(print (true? null))"))
}

func Test_Interpret_Unary_RequiresNumber(t *testing.T) {
	// A bare sign prefixes the following expression; the operand must be
	// a number at evaluation time.
	err, _ := runErr(t, `(print -"a")`)
	assert.Equal(t, `Expected number after unary operator "-"`, err.Error())

	err, _ = runErr(t, "(print +true)")
	assert.Equal(t, `Expected number after unary operator "+"`, err.Error())
}

func Test_Interpret_Comparison(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"(print (> 3 2))", "true"},
		{"(print (>= 2 2))", "true"},
		{"(print (< 3 2))", "false"},
		{"(print (<= 2 3))", "true"},
		// Strings compare lexicographically.
		{`(print (< "apple" "banana"))`, "true"},
		{`(print (>= "b" "b"))`, "true"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, run(t, c.src), "source: %s", c.src)
	}
}

func Test_Interpret_Comparison_MixedTypes(t *testing.T) {
	for _, op := range []string{">", ">=", "<", "<="} {
		src := "(print (" + op + ` 3 "a"))`
		err, _ := runErr(t, src)
		assert.Equal(t,
			"Expected the operands to operator '"+op+"' to be of type "+
				"'number' or 'string' but got 'number' and 'string' instead",
			err.Error(), "source: %s", src)
	}
}

func Test_Interpret_Comparison_NaryProducesBoolean(t *testing.T) {
	// (> 3 2 1) desugars to (> (> 3 2) 1), so the outer comparison sees a
	// boolean left operand.
	err, _ := runErr(t, "(print (> 3 2 1))")
	assert.Equal(t,
		"Expected the operands to operator '>' to be of type 'number' or "+
			"'string' but got 'boolean' and 'number' instead",
		err.Error())
}

func Test_Interpret_Arithmetic_RequiresNumbers(t *testing.T) {
	for _, src := range []string{
		`(print (+ 1 "a"))`,
		`(print (+ "a" "b"))`,
		"(print (* true 2))",
	} {
		err, _ := runErr(t, src)
		assert.Contains(t, err.Error(), "only operates on numbers", "source: %s", src)
	}
}

func Test_Interpret_DivideByZero(t *testing.T) {
	for _, src := range []string{"(print (/ 1 0))", "(print (// 1 0))"} {
		err, _ := runErr(t, src)
		assert.Equal(t, "Cannot divide by zero", err.Error(), "source: %s", src)
	}
}

func Test_Interpret_Equality(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"(print (equal? 1 1))", "true"},
		{"(print (equal? 1 2))", "false"},
		{`(print (equal? "a" "a"))`, "true"},
		// Cross-type comparisons are simply unequal, never an error.
		{`(print (equal? 1 "1"))`, "false"},
		{"(print (equal? null null))", "true"},
		{"(print (equal? null false))", "false"},
		{"(print (nequal? 1 2))", "true"},
		{"(print (nequal? 1 1))", "false"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, run(t, c.src), "source: %s", c.src)
	}
}

func Test_Interpret_Let(t *testing.T) {
	assert.Equal(t, "1\n2\n", run(t, "(let [x 1 y (+ 1 x)] (println x y))"))
}

func Test_Interpret_Let_Shadowing(t *testing.T) {
	// The inner binding shadows x for the inner body only.
	assert.Equal(t, "21", run(t, "(let [x 1] (let [x 2] (print x)) (print x))"))
}

func Test_Interpret_Let_BodyYieldsLastValue(t *testing.T) {
	assert.Equal(t, "3", run(t, "(print (let [x 1] 2 (+ x 2)))"))
}

func Test_Interpret_UndefinedIdentifier(t *testing.T) {
	err, _ := runErr(t, "(print (+ x 1))")
	assert.Equal(t, "Undefined identifier 'x'", err.Error())
}

func Test_Interpret_LetScope_DoesNotLeak(t *testing.T) {
	err, out := runErr(t, "(let [x 1] (print x)) (print x)")
	assert.Equal(t, "Undefined identifier 'x'", err.Error())
	assert.Equal(t, "1", out)
}

func Test_Interpret_If(t *testing.T) {
	assert.Equal(t, "pos", run(t, `(if (> 1 0) (then (print "pos")) (else (print "neg")))`))
	assert.Equal(t, "neg", run(t, `(if (> 0 1) (then (print "pos")) (else (print "neg")))`))
	// 0 is falsy; a missing else yields null.
	assert.Equal(t, "null", run(t, `(print (if 0 (then "t")))`))
}

func Test_Interpret_Cond(t *testing.T) {
	src := `
(let [x 5]
    (print (cond
        ((> x 10) "big")
        ((> x 0) "small")
        (else "neg"))))`
	assert.Equal(t, "small", run(t, src))

	src = `
(let [x -1]
    (print (cond
        ((> x 10) "big")
        ((> x 0) "small")
        (else "neg"))))`
	assert.Equal(t, "neg", run(t, src))
}

func Test_Interpret_Cond_NoMatchNoElse_IsNull(t *testing.T) {
	assert.Equal(t, "null", run(t, "(print (cond (false 1)))"))
}

func Test_Interpret_Logical_YieldsOperand(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		// and yields the first falsy operand, or the last one.
		{"(print (and 1 2 3))", "3"},
		{"(print (and 1 0 3))", "0"},
		{`(print (and false "x"))`, "false"},
		// or yields the first truthy operand, or the last one.
		{"(print (or false null 3))", "3"},
		{"(print (or 1 2))", "1"},
		{"(print (or false null))", "null"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, run(t, c.src), "source: %s", c.src)
	}
}

func Test_Interpret_Logical_ShortCircuits(t *testing.T) {
	// The right operand is never evaluated, so the undefined identifier
	// never resolves.
	assert.Equal(t, "false", run(t, "(print (and false undefined))"))
	assert.Equal(t, "true", run(t, "(print (or true undefined))"))
}

func Test_Interpret_Truthiness(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"(print (true? 0))", "false"},
		{"(print (true? 0.0))", "false"},
		{"(print (true? -1))", "true"},
		{`(print (true? ""))`, "true"},
		{"(print (true? null))", "false"},
		{"(print (true? false))", "false"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, run(t, c.src), "source: %s", c.src)
	}
}

func Test_Interpret_HaltsOnFirstError(t *testing.T) {
	// Output printed before the failure stays; expressions after it never
	// run.
	err, out := runErr(t, `(print "a") (/ 1 0) (print "b")`)
	assert.Equal(t, "Cannot divide by zero", err.Error())
	assert.Equal(t, "a", out)
}

func Test_Interpret_GlobalScope_PersistsAcrossCalls(t *testing.T) {
	// The REPL reuses one interpreter, so one call cannot poison the
	// global scope for the next.
	var out bytes.Buffer
	ip := NewInterpreter(&out)

	require.NoError(t, ip.Interpret(parse(t, `(print "one")`)))
	require.Error(t, ip.Interpret(parse(t, "(/ 1 0)")))
	require.NoError(t, ip.Interpret(parse(t, `(print "two")`)))

	assert.Equal(t, "onetwo", out.String())
}

func Test_Interpret_RuntimeErrorCarriesPosition(t *testing.T) {
	err, _ := runErr(t, "(/ 1 0)")
	assert.Equal(t, 1, err.Pos().Line)
	assert.Equal(t, 2, err.Pos().Col)
	assert.Equal(t, "/", err.Pos().Lexeme)
}
