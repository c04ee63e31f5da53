package filter

import "fmt"

// Operator is the comparison applied by a Compare node.
type Operator uint8

const (
	// Contains is the implicit operator: a:text, or a bare value.
	Contains Operator = iota
	// NotContains is written a:!text.
	NotContains
	// Equal is written a:=value.
	Equal
	// NotEqual is written a:!=value.
	NotEqual
	// Greater is written a:>value.
	Greater
	// GreaterOrEqual is written a:>=value.
	GreaterOrEqual
	// Lower is written a:<value.
	Lower
	// LowerOrEqual is written a:<=value.
	LowerOrEqual
)

var operatorNames = [...]string{
	Contains:       "contains",
	NotContains:    "not-contains",
	Equal:          "equal",
	NotEqual:       "not-equal",
	Greater:        "greater",
	GreaterOrEqual: "greater-or-equal",
	Lower:          "lower",
	LowerOrEqual:   "lower-or-equal",
}

// Valid reports whether o is one of the defined operators.
func (o Operator) Valid() bool {
	return o <= LowerOrEqual
}

// String returns the operator name, e.g. "greater-or-equal".
func (o Operator) String() string {
	if !o.Valid() {
		return fmt.Sprintf("Operator(%d)", uint8(o))
	}
	return operatorNames[o]
}

// Symbol returns the text written between the colon and the value.
//
// NotEqual renders as "!" like NotContains, so a:!=x reads back as a:!x.
func (o Operator) Symbol() string {
	switch o {
	case Equal:
		return "="
	case NotEqual, NotContains:
		return "!"
	case Greater:
		return ">"
	case GreaterOrEqual:
		return ">="
	case Lower:
		return "<"
	case LowerOrEqual:
		return "<="
	default:
		return ""
	}
}

// Negated reports whether the operator is the negation of another one.
func (o Operator) Negated() bool {
	return o == NotContains || o == NotEqual
}

// Positive returns the operator that o negates, or o itself when o is
// not negated.
func (o Operator) Positive() Operator {
	switch o {
	case NotContains:
		return Contains
	case NotEqual:
		return Equal
	default:
		return o
	}
}
