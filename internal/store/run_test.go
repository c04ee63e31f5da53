package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sieve/internal/filter"
	"github.com/roach88/sieve/internal/filtereval"
	"github.com/roach88/sieve/internal/filtersql"
)

func names(rows []filtereval.Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r["name"].(string))
	}
	return out
}

func TestRun(t *testing.T) {
	s := createTestStore(t)
	createItemsTable(t, s)
	ctx := context.Background()
	c := &filtersql.Compiler{DefaultColumns: []string{"name", "status"}}

	tests := []struct {
		name string
		view View
		want []string
	}{
		{"everything", View{Table: "items"}, []string{"Anvil", "Bucket", "Crate", "Drum"}},
		{"filtered and ordered", View{Table: "items", Filter: "status:=open", Order: "-total"}, []string{"Anvil", "Drum", "Crate"}},
		{"dates", View{Table: "items", Filter: "due:#2024#", Order: "-name"}, []string{"Bucket", "Anvil"}},
		{"operand-less", View{Table: "items", Filter: "closed"}, []string{"Bucket"}},
		{"no match", View{Table: "items", Filter: "name:zzz"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := s.Run(ctx, tt.view, c)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(rows))
		})
	}
}

func TestRun_MatchesInMemory(t *testing.T) {
	s := createTestStore(t)
	createItemsTable(t, s)
	ctx := context.Background()

	all, err := s.Run(ctx, View{Table: "items"}, nil)
	require.NoError(t, err)

	e := "or(total:<#50 and(status:=open due:>=#2025#))"
	got, err := s.Run(ctx, View{Table: "items", Filter: e}, nil)
	require.NoError(t, err)

	p, err := (&filtereval.Compiler{}).Compile(filter.Parse(e))
	require.NoError(t, err)
	assert.Equal(t, names(filtereval.Filter(all, p)), names(got))
	assert.Equal(t, []string{"Bucket", "Drum"}, names(got))
}

func TestRunSaved(t *testing.T) {
	s := createTestStore(t)
	createItemsTable(t, s)
	ctx := context.Background()

	_, err := s.SaveView(ctx, View{Name: "big", Table: "items", Filter: "total:>#50", Order: "total"})
	require.NoError(t, err)

	rows, err := s.RunSaved(ctx, "big", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Drum", "Anvil"}, names(rows))

	_, err = s.RunSaved(ctx, "missing", nil)
	assert.ErrorIs(t, err, ErrViewNotFound)
}

func TestRun_Errors(t *testing.T) {
	s := createTestStore(t)
	createItemsTable(t, s)
	ctx := context.Background()

	_, err := s.Run(ctx, View{Name: "n", Table: "items", Filter: ":nope:"}, nil)
	assert.ErrorIs(t, err, filtersql.ErrUnknownNative)

	_, err = s.Run(ctx, View{Name: "m", Table: "missing"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `run view "m"`)
}

func TestRunSaved_MatchesUnsaved(t *testing.T) {
	s := createTestStore(t)
	createItemsTable(t, s)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter string
		stored string
		want   []string
	}{
		{"negated singleton", "nand(status:=open)", "nand(status:=open)", []string{"Bucket"}},
		{"negated or", "nor(status:=closed)", "nor(status:=closed)", []string{"Anvil", "Crate", "Drum"}},
		{"text starting with equal", `name:"=Anvil"`, `name:"=Anvil"`, []string{}},
		{"text starting with bang", `status:"!open"`, `status:"!open"`, []string{}},
		{"text with colon", `name:"a:b"`, `name:"a:b"`, []string{}},
		{"empty group", "and()", "nand()", []string{"Anvil", "Bucket", "Crate", "Drum"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := View{Name: "v", Table: "items", Filter: tt.filter}
			adhoc, err := s.Run(ctx, v, nil)
			require.NoError(t, err)

			saved, err := s.SaveView(ctx, v)
			require.NoError(t, err)
			assert.Equal(t, tt.stored, saved.Filter)

			rows, err := s.RunSaved(ctx, "v", nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(adhoc))
			assert.Equal(t, names(adhoc), names(rows))
		})
	}
}

func TestRunInMemory_MatchesRun(t *testing.T) {
	s := createTestStore(t)
	createItemsTable(t, s)
	ctx := context.Background()
	defaults := []string{"name", "status"}

	for _, v := range []View{
		{Table: "items"},
		{Table: "items", Filter: "status:=open", Order: "-total"},
		{Table: "items", Filter: "nand(status:=open)"},
		{Table: "items", Filter: "due:#2024#", Order: "-due"},
		{Table: "items", Filter: "or(total:<#50 an)", Order: "total"},
		{Table: "items", Filter: "name:zzz"},
	} {
		t.Run(v.Filter, func(t *testing.T) {
			want, err := s.Run(ctx, v, &filtersql.Compiler{DefaultColumns: defaults})
			require.NoError(t, err)
			got, err := s.RunInMemory(ctx, v, &filtereval.Compiler{DefaultColumns: defaults})
			require.NoError(t, err)
			assert.Equal(t, names(want), names(got))
		})
	}
}

func TestRunInMemory_Errors(t *testing.T) {
	s := createTestStore(t)
	createItemsTable(t, s)
	ctx := context.Background()

	_, err := s.RunInMemory(ctx, View{Name: "n", Table: "items", Filter: ":nope:"}, nil)
	assert.ErrorIs(t, err, filtereval.ErrUnknownNative)

	_, err = s.RunInMemory(ctx, View{Name: "m", Table: "missing"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `run view "m"`)
}
