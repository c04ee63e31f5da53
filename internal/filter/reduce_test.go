package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduce_SingletonCollapse(t *testing.T) {
	a := cmpText("a", Equal, "1")

	l, err := NewLogic(And, a)
	require.NoError(t, err)
	assert.Equal(t, a, l.Reduce())
	assert.Equal(t, a, Reduce(l))
}

func TestReduce(t *testing.T) {
	a := cmpText("a", Contains, "1")
	b := cmpText("b", Contains, "2")
	c := cmpText("c", Contains, "3")

	tests := []struct {
		name string
		in   Expr
		want Expr
	}{
		{"leaf", a, a},
		{"true", True{}, True{}},
		{"native", NewNative("n"), NewNative("n")},
		{"flatten same kind", and(a, and(b, c)), and(a, b, c)},
		{"flatten deep", or(or(a, or(b)), c), or(a, b, c)},
		{"keep other kind", and(a, or(b, c)), and(a, or(b, c))},
		{"drop true", and(True{}, a, True{}, b), and(a, b)},
		{"drop true under or", or(True{}, a, b), or(a, b)},
		{"only true", and(True{}, True{}), True{}},
		{"empty marker", nand(True{}), True{}},
		{"single after drop", or(True{}, a), a},
		{"negated singleton", nand(a), a},
		{"child collapses then splices", and(a, or(and(b, c))), and(a, b, c)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reduce(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Reduce(got), "reduce must be idempotent")
		})
	}

	assert.Equal(t, True{}, Reduce(nil))
}

func TestReduce_LeavesInputUntouched(t *testing.T) {
	a := cmpText("a", Contains, "1")
	b := cmpText("b", Contains, "2")
	inner := and(b, True{})
	outer := and(a, inner)

	reduced := outer.Reduce()

	assert.Equal(t, and(a, b), reduced)
	assert.Equal(t, 2, outer.Len())
	assert.Same(t, inner, outer.Child(1))
	assert.Equal(t, 2, inner.Len())
	assert.NotSame(t, outer, reduced)
}

func TestCombine(t *testing.T) {
	a := cmpText("a", Contains, "1")
	b := cmpText("b", Contains, "2")
	c := cmpText("c", Contains, "3")

	assert.Equal(t, True{}, Combine())
	assert.Equal(t, a, Combine(a))
	assert.Equal(t, a, Combine(nil, a))
	assert.Equal(t, and(a, b, c), Combine(and(a, b), c))
	assert.Equal(t, and(or(a, b), c), Combine(or(a, b), c))
	assert.Equal(t, True{}, Combine(True{}, nand(True{})))
}

func TestCombine_EqualsReduceOfAnd(t *testing.T) {
	exprs := []Expr{
		True{},
		cmpText("a", Contains, "1"),
		NewNative("n"),
		Parse("or(a:1 b:2)"),
		Parse("a:1 b:2"),
		Parse("and()"),
		Parse("nand(x:1 y:2)"),
	}

	for _, e1 := range exprs {
		for _, e2 := range exprs {
			l, err := NewLogic(And, e1, e2)
			require.NoError(t, err)
			assert.Equal(t, Reduce(l), Combine(e1, e2), "combine(%q, %q)", e1, e2)
		}
	}
}
