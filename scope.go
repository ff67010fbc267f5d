package tarantula

import "fmt"

// Scope is one frame of the lexical scope chain introduced by a let
// expression. A child never mutates its parent: Define always writes the
// current frame, so reusing an outer name shadows it for the lifetime of the
// frame only. The root scope has no parent, which guarantees every lookup
// terminates.
type Scope struct {
	parent *Scope
	values map[string]Value
}

// NewScope creates a scope chained to parent, which may be nil for the
// global scope.
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, values: make(map[string]Value)}
}

// Define binds a value to an identifier in this scope. An existing binding
// of the same name in this scope is overwritten; outer scopes are never
// touched.
func (s *Scope) Define(identifier string, value Value) {
	s.values[identifier] = value
}

// Get resolves the identifier token against this scope and then each parent
// in turn. If the root is exhausted it fails with a RuntimeError attributed
// to the lookup token.
func (s *Scope) Get(identifier Token) (Value, error) {
	if v, ok := s.values[identifier.Lexeme]; ok {
		return v, nil
	}
	if s.parent != nil {
		return s.parent.Get(identifier)
	}
	return Null, &RuntimeError{
		Token: identifier,
		Msg:   fmt.Sprintf("Undefined identifier '%s'", identifier.Lexeme),
	}
}
