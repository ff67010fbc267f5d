package tarantula

import (
	"strconv"
	"strings"
)

// ValueTag enumerates the runtime kinds a Value may hold. The language has
// no reference types in this iteration; equality is by value.
type ValueTag int

const (
	VNull ValueTag = iota // null (no payload)
	VBool                 // bool
	VNum                  // float64
	VStr                  // string
)

// Value is the tagged runtime carrier used by the evaluator. The tag
// determines which Go type Data holds: nil, bool, float64, or string.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Null is the singleton null value.
var Null = Value{Tag: VNull}

func BoolVal(b bool) Value   { return Value{Tag: VBool, Data: b} }
func NumVal(f float64) Value { return Value{Tag: VNum, Data: f} }
func StrVal(s string) Value  { return Value{Tag: VStr, Data: s} }

// TypeName returns the user-facing name of the value's type, as used in
// runtime error messages.
func (v Value) TypeName() string {
	switch v.Tag {
	case VBool:
		return "boolean"
	case VNum:
		return "number"
	case VStr:
		return "string"
	default:
		return "null"
	}
}

// Stringify converts a value to its display text. Integral numbers print
// without a decimal point (4.0 prints as 4), null prints as "null", strings
// and booleans print their natural text.
func Stringify(v Value) string {
	switch v.Tag {
	case VNum:
		text := strconv.FormatFloat(v.Data.(float64), 'f', -1, 64)
		return strings.TrimSuffix(text, ".0")
	case VStr:
		return v.Data.(string)
	case VBool:
		return strconv.FormatBool(v.Data.(bool))
	default:
		return "null"
	}
}

// isTruthy maps a value to a boolean context: null is false, a boolean is
// itself, a number is false iff exactly 0, and a string is always true.
func isTruthy(v Value) bool {
	switch v.Tag {
	case VNull:
		return false
	case VBool:
		return v.Data.(bool)
	case VNum:
		return v.Data.(float64) != 0
	default:
		return true
	}
}

// isEqual is value equality: null equals only null, same-type values compare
// by value, and cross-type comparisons are simply unequal.
func isEqual(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	if a.Tag == VNull {
		return true
	}
	return a.Data == b.Data
}
