package filter

import "fmt"

// Compiler turns a filter tree into a target representation T.
//
// There is one method per node variant. Adding a variant to Expr adds a
// method here, so every backend has to handle it before it compiles again.
//
// Compile calls the methods depth-first, left to right, one call per node.
// Logic receives the already compiled children in input order.
type Compiler[T any] interface {
	True() (T, error)
	Native(key string) (T, error)
	Compare(operand string, op Operator, value Value) (T, error)
	Logic(kind LogicKind, children []T) (T, error)
}

// Compile compiles e with c. A nil expression compiles like True, and so
// does nand() with only True inside, the marker an empty and() or or()
// parses to. Compilation stops at the first error returned by c.
func Compile[T any](e Expr, c Compiler[T]) (T, error) {
	switch node := e.(type) {
	case nil:
		return c.True()
	case True:
		return c.True()
	case Native:
		return c.Native(node.key)
	case Compare:
		return c.Compare(node.operand, node.op, node.Value())
	case *Logic:
		if node.emptyMarker() {
			return c.True()
		}
		children := make([]T, 0, len(node.children))
		for _, child := range node.children {
			v, err := Compile(child, c)
			if err != nil {
				var zero T
				return zero, err
			}
			children = append(children, v)
		}
		return c.Logic(node.kind, children)
	default:
		// Impossible - Expr is sealed.
		panic(fmt.Sprintf("filter: unexpected expression type %T", e))
	}
}

func (l *Logic) emptyMarker() bool {
	if l.kind != NAnd {
		return false
	}
	for _, c := range l.children {
		if _, ok := c.(True); !ok {
			return false
		}
	}
	return true
}
