package tarantula

// Expr is the closed set of AST node variants, one per grammar production.
// Nodes are immutable once built. Operator-bearing variants keep the
// originating token so runtime errors can point at an accurate source
// position.
type Expr interface {
	expr()
}

// LiteralExpr holds an embedded runtime value: a number, string, boolean,
// or null.
type LiteralExpr struct {
	Value Value
}

// VariableExpr is a reference to an identifier, resolved against the scope
// chain at evaluation time.
type VariableExpr struct {
	Name Token
}

// UnaryExpr applies "+", "-", "not", or "true?" to one operand.
type UnaryExpr struct {
	Operator Token
	Right    Expr
}

// BinaryExpr applies an arithmetic, comparison, or equality operator to two
// operands. N-ary source forms are desugared by the parser into left-leaning
// chains of these.
type BinaryExpr struct {
	Operator Token
	First    Expr
	Second   Expr
}

// LogicalExpr is a short-circuiting "and" or "or" over two operands.
type LogicalExpr struct {
	Operator Token
	First    Expr
	Second   Expr
}

// BodyExpr is an ordered sequence of expressions whose value is that of the
// last one (null when empty).
type BodyExpr struct {
	Exprs []Expr
}

// PrintExpr writes each body expression's stringified value to the output;
// the operator distinguishes print from println.
type PrintExpr struct {
	Operator Token
	Body     *BodyExpr
}

// BindingExpr binds one identifier to the value of an initializer inside a
// let.
type BindingExpr struct {
	Identifier Token
	Value      Expr
}

// LetExpr introduces a child scope with the given bindings and evaluates its
// body in it.
type LetExpr struct {
	Bindings []*BindingExpr
	Body     *BodyExpr
}

// IfExpr evaluates Then when the condition is truthy, Else otherwise. Else
// may be nil.
type IfExpr struct {
	Condition Expr
	Then      *BodyExpr
	Else      *BodyExpr
}

// ClauseExpr is one (condition body) pair of a cond expression.
type ClauseExpr struct {
	Condition Expr
	Body      *BodyExpr
}

// CondExpr evaluates the body of the first clause whose condition is truthy,
// the else body when no clause matches, and null when there is neither.
type CondExpr struct {
	Clauses []*ClauseExpr
	Else    *BodyExpr
}

func (*LiteralExpr) expr()  {}
func (*VariableExpr) expr() {}
func (*UnaryExpr) expr()    {}
func (*BinaryExpr) expr()   {}
func (*LogicalExpr) expr()  {}
func (*BodyExpr) expr()     {}
func (*PrintExpr) expr()    {}
func (*BindingExpr) expr()  {}
func (*LetExpr) expr()      {}
func (*IfExpr) expr()       {}
func (*ClauseExpr) expr()   {}
func (*CondExpr) expr()     {}
