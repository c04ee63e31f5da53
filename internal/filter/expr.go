package filter

import (
	"fmt"
	"slices"
	"strings"
)

// Expr is a node of a filter tree.
//
// This is a sealed interface - only True, Native, Compare and *Logic
// implement it. Nodes are immutable once constructed.
type Expr interface {
	// String renders the node in filter syntax. True renders as "".
	String() string

	// Reduce returns the normalized form of the node: nested logic nodes
	// of the same kind are flattened, True children are dropped and
	// single-child groups collapse. The receiver is left untouched.
	Reduce() Expr

	appendText(sb *strings.Builder)
	exprNode() // Marker method - seals interface to this package
}

// True is the neutral expression. It matches everything and is the
// identity element of And.
type True struct{}

func (True) exprNode() {}

func (True) String() string { return "" }

func (t True) Reduce() Expr { return t }

func (True) appendText(*strings.Builder) {}

// Native is an opaque reference written as :key:. What it means is up to
// the compiler that consumes the tree.
type Native struct {
	key string
}

// NewNative returns a native reference to key.
func NewNative(key string) Native {
	return Native{key: key}
}

// Key returns the referenced key without the surrounding colons.
func (n Native) Key() string { return n.key }

func (Native) exprNode() {}

func (n Native) String() string {
	var sb strings.Builder
	n.appendText(&sb)
	return sb.String()
}

func (n Native) Reduce() Expr { return n }

func (n Native) appendText(sb *strings.Builder) {
	sb.WriteByte(':')
	sb.WriteString(n.key)
	sb.WriteByte(':')
}

// Compare is a single condition: operand, operator and value.
//
// An empty operand means the value is matched against the default target
// chosen by the compiler (for example every searchable column).
type Compare struct {
	operand string
	op      Operator
	value   Value
}

// NewCompare returns a compare node. The value must not be nil; use Null{}
// to compare against "nothing".
func NewCompare(operand string, op Operator, value Value) (Compare, error) {
	if value == nil {
		return Compare{}, fmt.Errorf("%w: compare %q has no value", ErrInvalidArgument, operand)
	}
	if !op.Valid() {
		return Compare{}, fmt.Errorf("%w: unknown operator %d", ErrInvalidArgument, uint8(op))
	}
	return Compare{operand: operand, op: op, value: value}, nil
}

// Operand returns the compared identifier, "" when absent.
func (c Compare) Operand() string { return c.operand }

// HasOperand reports whether the compare names an operand.
func (c Compare) HasOperand() bool { return c.operand != "" }

// Operator returns the comparison operator.
func (c Compare) Operator() Operator { return c.op }

// Value returns the compared value. It is never nil.
func (c Compare) Value() Value {
	if c.value == nil {
		return Null{}
	}
	return c.value
}

func (Compare) exprNode() {}

func (c Compare) String() string {
	var sb strings.Builder
	c.appendText(&sb)
	return sb.String()
}

func (c Compare) Reduce() Expr { return c }

func (c Compare) appendText(sb *strings.Builder) {
	if c.operand != "" {
		sb.WriteString(c.operand)
		sb.WriteByte(':')
		sb.WriteString(c.op.Symbol())
	}
	c.Value().appendText(sb)
}

// LogicKind selects how the children of a Logic node are combined.
type LogicKind uint8

// The zero LogicKind is not a valid kind; the parser uses it for the top
// level, which combines with And.
const (
	And LogicKind = iota + 1
	Or
	NAnd
	NOr
)

var logicNames = [...]string{
	And:  "and",
	Or:   "or",
	NAnd: "nand",
	NOr:  "nor",
}

// Valid reports whether k is one of And, Or, NAnd, NOr.
func (k LogicKind) Valid() bool {
	return k >= And && k <= NOr
}

// Negated reports whether the kind inverts its result (NAnd, NOr).
func (k LogicKind) Negated() bool {
	return k == NAnd || k == NOr
}

// String returns the lower-case name used in filter syntax.
func (k LogicKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("LogicKind(%d)", uint8(k))
	}
	return logicNames[k]
}

// lookupLogic matches name case-insensitively against the logic names.
func lookupLogic(name string) (LogicKind, bool) {
	for k := And; k <= NOr; k++ {
		if strings.EqualFold(name, logicNames[k]) {
			return k, true
		}
	}
	return 0, false
}

// Logic combines one or more child expressions.
//
// Child order is kept as written so that String is stable, even though
// the combinators themselves do not depend on it.
type Logic struct {
	kind     LogicKind
	children []Expr
}

// NewLogic returns a logic node. The kind must be valid and at least one
// non-nil child is required. The children slice is copied.
func NewLogic(kind LogicKind, children ...Expr) (*Logic, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown logic kind %d", ErrInvalidArgument, uint8(kind))
	}
	if len(children) == 0 {
		return nil, fmt.Errorf("%w: %s needs at least one child", ErrInvalidArgument, kind)
	}
	for i, c := range children {
		if c == nil {
			return nil, fmt.Errorf("%w: %s child %d is nil", ErrInvalidArgument, kind, i)
		}
	}
	return newLogic(kind, slices.Clone(children)), nil
}

// newLogic builds a node from arguments already known to be valid and
// takes ownership of children.
func newLogic(kind LogicKind, children []Expr) *Logic {
	return &Logic{kind: kind, children: children}
}

// Kind returns the combinator.
func (l *Logic) Kind() LogicKind { return l.kind }

// Len returns the number of children.
func (l *Logic) Len() int { return len(l.children) }

// Child returns the i'th child.
func (l *Logic) Child(i int) Expr { return l.children[i] }

// Children returns a copy of the child list.
func (l *Logic) Children() []Expr { return slices.Clone(l.children) }

func (*Logic) exprNode() {}

func (l *Logic) String() string {
	var sb strings.Builder
	l.appendText(&sb)
	return sb.String()
}

func (l *Logic) appendText(sb *strings.Builder) {
	sb.WriteString(l.kind.String())
	sb.WriteByte('(')
	for i, c := range l.children {
		if i > 0 {
			sb.WriteByte(' ')
		}
		c.appendText(sb)
	}
	sb.WriteByte(')')
}

// Format renders e in filter syntax. A nil expression renders as "".
func Format(e Expr) string {
	if e == nil {
		return ""
	}
	return e.String()
}
