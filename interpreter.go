// interpreter.go — post-order tree-walking evaluator.
//
// The Interpreter walks a parsed expression list bottom-up against a Scope,
// producing values and print side effects. The environment is passed
// explicitly into every evaluation call: entering a let creates a child
// scope and passes it down, and leaving restores the caller's environment by
// simply letting the child go out of scope. The only state that outlives one
// Interpret call is the root/global scope, retained so successive REPL lines
// run against the same environment.
//
// Evaluation of one call halts on the first *RuntimeError; output already
// written by earlier print expressions is not rolled back.
package tarantula

import (
	"fmt"
	"io"
	"math"
	"os"
)

// Interpreter evaluates expression lists for their side effects. Print
// output goes to the configured writer.
type Interpreter struct {
	global *Scope
	out    io.Writer
}

// NewInterpreter creates an interpreter writing print output to out, or to
// standard output when out is nil. The global scope persists for the
// lifetime of the interpreter.
func NewInterpreter(out io.Writer) *Interpreter {
	if out == nil {
		out = os.Stdout
	}
	return &Interpreter{global: NewScope(nil), out: out}
}

// Interpret evaluates each top-level expression in order. The first
// *RuntimeError halts evaluation of the remaining expressions.
func (ip *Interpreter) Interpret(expressions []Expr) error {
	for _, expr := range expressions {
		if _, err := ip.eval(expr, ip.global); err != nil {
			return err
		}
	}
	return nil
}

func (ip *Interpreter) eval(expr Expr, env *Scope) (Value, error) {
	switch e := expr.(type) {
	case *LiteralExpr:
		return e.Value, nil

	case *VariableExpr:
		return env.Get(e.Name)

	case *UnaryExpr:
		return ip.evalUnary(e, env)

	case *BinaryExpr:
		return ip.evalBinary(e, env)

	case *LogicalExpr:
		return ip.evalLogical(e, env)

	case *BodyExpr:
		return ip.evalBody(e, env)

	case *PrintExpr:
		return ip.evalPrint(e, env)

	case *BindingExpr:
		value, err := ip.eval(e.Value, env)
		if err != nil {
			return Null, err
		}
		env.Define(e.Identifier.Lexeme, value)
		return Null, nil

	case *LetExpr:
		return ip.evalLet(e, env)

	case *IfExpr:
		return ip.evalIf(e, env)

	case *CondExpr:
		return ip.evalCond(e, env)

	case *ClauseExpr:
		// Clauses are evaluated through their cond expression.
		return Null, nil

	default:
		return Null, fmt.Errorf("unknown expression %T", expr)
	}
}

func (ip *Interpreter) evalLogical(e *LogicalExpr, env *Scope) (Value, error) {
	first, err := ip.eval(e.First, env)
	if err != nil {
		return Null, err
	}

	// Short circuit: "or" returns a truthy left operand, "and" a falsy
	// one, without evaluating the right. Because n-ary forms desugar into
	// left-leaning chains, this leaves every later operand unevaluated.
	if e.Operator.Type == OR {
		if isTruthy(first) {
			return first, nil
		}
	} else {
		if !isTruthy(first) {
			return first, nil
		}
	}

	return ip.eval(e.Second, env)
}

func (ip *Interpreter) evalCond(e *CondExpr, env *Scope) (Value, error) {
	for _, clause := range e.Clauses {
		condition, err := ip.eval(clause.Condition, env)
		if err != nil {
			return Null, err
		}
		if isTruthy(condition) {
			return ip.eval(clause.Body, env)
		}
	}

	if e.Else != nil {
		return ip.eval(e.Else, env)
	}
	return Null, nil
}

func (ip *Interpreter) evalIf(e *IfExpr, env *Scope) (Value, error) {
	condition, err := ip.eval(e.Condition, env)
	if err != nil {
		return Null, err
	}

	if isTruthy(condition) {
		return ip.eval(e.Then, env)
	}
	if e.Else != nil {
		return ip.eval(e.Else, env)
	}
	return Null, nil
}

func (ip *Interpreter) evalLet(e *LetExpr, env *Scope) (Value, error) {
	local := NewScope(env)

	// Bindings evaluate left to right in the new scope, so a later
	// binding may reference an earlier one from the same let.
	for _, binding := range e.Bindings {
		if _, err := ip.eval(binding, local); err != nil {
			return Null, err
		}
	}

	return ip.eval(e.Body, local)
}

func (ip *Interpreter) evalBody(e *BodyExpr, env *Scope) (Value, error) {
	result := Null
	for _, expr := range e.Exprs {
		value, err := ip.eval(expr, env)
		if err != nil {
			return Null, err
		}
		result = value
	}
	return result, nil
}

func (ip *Interpreter) evalPrint(e *PrintExpr, env *Scope) (Value, error) {
	for _, expr := range e.Body.Exprs {
		value, err := ip.eval(expr, env)
		if err != nil {
			return Null, err
		}
		if e.Operator.Type == PRINTLN {
			fmt.Fprintln(ip.out, Stringify(value))
		} else {
			fmt.Fprint(ip.out, Stringify(value))
		}
	}
	return Null, nil
}

func (ip *Interpreter) evalUnary(e *UnaryExpr, env *Scope) (Value, error) {
	right, err := ip.eval(e.Right, env)
	if err != nil {
		return Null, err
	}

	switch e.Operator.Type {
	case MINUS:
		if err := checkNumberOperand(e.Operator, right); err != nil {
			return Null, err
		}
		return NumVal(-right.Data.(float64)), nil
	case NOT:
		return BoolVal(!isTruthy(right)), nil
	case TRUE_PRED:
		return BoolVal(isTruthy(right)), nil
	default:
		// Unary "+" is the identity on numbers.
		if err := checkNumberOperand(e.Operator, right); err != nil {
			return Null, err
		}
		return right, nil
	}
}

func (ip *Interpreter) evalBinary(e *BinaryExpr, env *Scope) (Value, error) {
	operator := e.Operator

	first, err := ip.eval(e.First, env)
	if err != nil {
		return Null, err
	}
	second, err := ip.eval(e.Second, env)
	if err != nil {
		return Null, err
	}

	switch operator.Type {
	case EQUAL_PRED:
		return BoolVal(isEqual(first, second)), nil
	case NEQUAL_PRED:
		return BoolVal(!isEqual(first, second)), nil

	// +, -, *, /, //, and % operate on numbers only, even +. String
	// concatenation is not part of this language iteration.
	case PLUS:
		a, b, err := numberOperands(operator, first, second)
		if err != nil {
			return Null, err
		}
		return NumVal(a + b), nil
	case MINUS:
		a, b, err := numberOperands(operator, first, second)
		if err != nil {
			return Null, err
		}
		return NumVal(a - b), nil
	case STAR:
		a, b, err := numberOperands(operator, first, second)
		if err != nil {
			return Null, err
		}
		return NumVal(a * b), nil
	case SLASH, SLASHSLASH:
		a, b, err := numberOperands(operator, first, second)
		if err != nil {
			return Null, err
		}
		if b == 0 {
			return Null, &RuntimeError{Token: operator, Msg: "Cannot divide by zero"}
		}
		quotient := a / b
		if operator.Type == SLASHSLASH {
			// Floor division rounds toward negative infinity.
			return NumVal(math.Floor(quotient)), nil
		}
		return NumVal(quotient), nil
	case PERCENT:
		a, b, err := numberOperands(operator, first, second)
		if err != nil {
			return Null, err
		}
		return NumVal(math.Mod(a, b)), nil

	// Comparisons operate on two numbers or two strings.
	case GREATER:
		return compareOperands(operator, first, second,
			func(a, b float64) bool { return a > b },
			func(a, b string) bool { return a > b })
	case GREATER_EQ:
		return compareOperands(operator, first, second,
			func(a, b float64) bool { return a >= b },
			func(a, b string) bool { return a >= b })
	case LESS:
		return compareOperands(operator, first, second,
			func(a, b float64) bool { return a < b },
			func(a, b string) bool { return a < b })
	case LESS_EQ:
		return compareOperands(operator, first, second,
			func(a, b float64) bool { return a <= b },
			func(a, b string) bool { return a <= b })
	}

	return Null, nil
}

// compareOperands applies a comparison to two numbers or, lexicographically,
// to two strings. Any other combination is a RuntimeError naming both actual
// types.
func compareOperands(operator Token, first, second Value,
	numCmp func(a, b float64) bool, strCmp func(a, b string) bool) (Value, error) {

	if first.Tag == VNum && second.Tag == VNum {
		return BoolVal(numCmp(first.Data.(float64), second.Data.(float64))), nil
	}
	if first.Tag == VStr && second.Tag == VStr {
		return BoolVal(strCmp(first.Data.(string), second.Data.(string))), nil
	}
	return Null, &RuntimeError{Token: operator, Msg: fmt.Sprintf(
		"Expected the operands to operator '%s' to be of type 'number' or "+
			"'string' but got '%s' and '%s' instead",
		operator.Lexeme, first.TypeName(), second.TypeName())}
}

// numberOperands unwraps both operands of a binary arithmetic expression,
// failing when either is not a number.
func numberOperands(operator Token, first, second Value) (float64, float64, error) {
	if first.Tag != VNum || second.Tag != VNum {
		return 0, 0, &RuntimeError{Token: operator, Msg: fmt.Sprintf(
			"Binary operator \"%s\" only operates on numbers", operator.Lexeme)}
	}
	return first.Data.(float64), second.Data.(float64), nil
}

func checkNumberOperand(operator Token, operand Value) error {
	if operand.Tag == VNum {
		return nil
	}
	return &RuntimeError{Token: operator, Msg: fmt.Sprintf(
		"Expected number after unary operator \"%s\"", operator.Lexeme)}
}
