package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sieve/internal/filter"
)

func TestChips(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Chip
	}{
		{"empty", "", nil},
		{"empty group", "and()", nil},
		{
			name:  "empty group inside or",
			input: "or(and() x:1)",
			want: []Chip{
				{KindGroup, "everything or x contains 1", "or(and() x:1)"},
			},
		},
		{
			name:  "top-level terms",
			input: `status:=open total:>=#100 :mine: "big box"`,
			want: []Chip{
				{KindCompare, "status is open", "status:=open"},
				{KindCompare, "total ≥ 100", "total:>=#100"},
				{KindNative, "mine", ":mine:"},
				{KindCompare, `"big box"`, `"big box"`},
			},
		},
		{
			name:  "null and dates",
			input: "owner: due:<#2024-03# closed:!",
			want: []Chip{
				{KindCompare, "owner is empty", "owner:="},
				{KindCompare, "due < 2024-03", "due:<#2024-03#"},
				{KindCompare, "closed is not empty", "closed:!"},
			},
		},
		{
			name:  "or group",
			input: "a:1 or(owner:ann owner:bob)",
			want: []Chip{
				{KindCompare, "a contains 1", "a:1"},
				{KindGroup, "owner contains ann or owner contains bob", "or(owner:ann owner:bob)"},
			},
		},
		{
			name:  "nested and inside nor",
			input: "nor(x:!1 and(y:2 or(z:3 w:4)))",
			want: []Chip{
				{KindGroup, "not (x does not contain 1 or (y contains 2 and (z contains 3 or w contains 4)))", "nor(x:!1 and(y:2 or(z:3 w:4)))"},
			},
		},
		{
			name:  "negated singleton stays negated",
			input: "nand(a:=1)",
			want: []Chip{
				{KindGroup, "not (a is 1)", "nand(a:=1)"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chips, err := Chips(filter.Parse(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, chips)
		})
	}
}

func TestChips_TextReadsBack(t *testing.T) {
	e := filter.Parse("a:1 or(b:=2 nand(c:>#3 d:4)) :n:")
	chips, err := Chips(e)
	require.NoError(t, err)

	parts := make([]filter.Expr, 0, len(chips))
	for _, c := range chips {
		parts = append(parts, filter.Parse(c.Text))
	}
	assert.Equal(t, e.Reduce(), filter.Combine(parts...))
}

func TestChips_OperandLess(t *testing.T) {
	c, err := filter.NewCompare("", filter.NotContains, filter.NewText("x"))
	require.NoError(t, err)
	chips, err := Chips(c)
	require.NoError(t, err)
	require.Len(t, chips, 1)
	assert.Equal(t, "not x", chips[0].Label)

	c, err = filter.NewCompare("", filter.Greater, filter.NewNumber("5"))
	require.NoError(t, err)
	chips, err = Chips(c)
	require.NoError(t, err)
	assert.Equal(t, "> 5", chips[0].Label)
}
