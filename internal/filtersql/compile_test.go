package filtersql

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sieve/internal/filter"
	"github.com/roach88/sieve/internal/order"
)

func TestWhere(t *testing.T) {
	c := &Compiler{
		DefaultColumns: []string{"name", "note"},
		Natives: map[string]Fragment{
			"mine": {SQL: "owner = ?", Args: []any{"me"}},
		},
	}

	tests := []struct {
		name     string
		input    string
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "empty filter",
			input:   "",
			wantSQL: "1 = 1",
		},
		{
			name:     "contains",
			input:    "name:ann",
			wantSQL:  `("name" IS NOT NULL AND sieve_fold("name") LIKE ? ESCAPE '\')`,
			wantArgs: []any{"%ann%"},
		},
		{
			name:     "not contains matches null",
			input:    "name:!ann",
			wantSQL:  `("name" IS NULL OR NOT (sieve_fold("name") LIKE ? ESCAPE '\'))`,
			wantArgs: []any{"%ann%"},
		},
		{
			name:     "equal and greater",
			input:    "status:=open total:>#100",
			wantSQL:  `(("status" IS NOT NULL AND sieve_fold("status") = ?) AND ("total" IS NOT NULL AND "total" > ?))`,
			wantArgs: []any{"open", int64(100)},
		},
		{
			name:     "number contains means equal",
			input:    "total:#7",
			wantSQL:  `("total" IS NOT NULL AND "total" = ?)`,
			wantArgs: []any{int64(7)},
		},
		{
			name:    "null",
			input:   "note:",
			wantSQL: `"note" IS NULL`,
		},
		{
			name:    "not null",
			input:   "note:!",
			wantSQL: `"note" IS NOT NULL`,
		},
		{
			name:     "date period",
			input:    "due:#2024-03#",
			wantSQL:  `("due" IS NOT NULL AND "due" >= ? AND "due" < ?)`,
			wantArgs: []any{"2024-03-01 00:00:00", "2024-04-01 00:00:00"},
		},
		{
			name:     "after date",
			input:    "due:>#2024#",
			wantSQL:  `("due" IS NOT NULL AND "due" >= ?)`,
			wantArgs: []any{"2025-01-01 00:00:00"},
		},
		{
			name:    "before unbounded start",
			input:   "due:<#~2024#",
			wantSQL: "0 = 1",
		},
		{
			name:     "operand-less searches default columns",
			input:    "foo",
			wantSQL:  `(("name" IS NOT NULL AND sieve_fold("name") LIKE ? ESCAPE '\') OR ("note" IS NOT NULL AND sieve_fold("note") LIKE ? ESCAPE '\'))`,
			wantArgs: []any{"%foo%", "%foo%"},
		},
		{
			name:     "nor",
			input:    "nor(a:1 b:2)",
			wantSQL:  `NOT (("a" IS NOT NULL AND sieve_fold("a") LIKE ? ESCAPE '\') OR ("b" IS NOT NULL AND sieve_fold("b") LIKE ? ESCAPE '\'))`,
			wantArgs: []any{"%1%", "%2%"},
		},
		{
			name:     "native",
			input:    "a:=x :mine:",
			wantSQL:  `(("a" IS NOT NULL AND sieve_fold("a") = ?) AND (owner = ?))`,
			wantArgs: []any{"x", "me"},
		},
		{
			name:     "like wildcards are escaped",
			input:    `name:100%_\`,
			wantSQL:  `("name" IS NOT NULL AND sieve_fold("name") LIKE ? ESCAPE '\')`,
			wantArgs: []any{`%100\%\_\\%`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := c.Where(filter.Parse(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, f.SQL)
			assert.Equal(t, tt.wantArgs, f.Args)
		})
	}
}

func TestWhere_NegatedOperandLess(t *testing.T) {
	c := &Compiler{DefaultColumns: []string{"name", "note"}}
	e, err := filter.NewCompare("", filter.NotContains, filter.NewText("x"))
	require.NoError(t, err)

	f, err := c.Where(e)
	require.NoError(t, err)
	assert.Equal(t, `NOT (("name" IS NOT NULL AND sieve_fold("name") LIKE ? ESCAPE '\') OR ("note" IS NOT NULL AND sieve_fold("note") LIKE ? ESCAPE '\'))`, f.SQL)
}

func TestWhere_Errors(t *testing.T) {
	tests := []struct {
		name     string
		compiler *Compiler
		input    string
		want     error
	}{
		{"unknown native", &Compiler{}, ":nope:", ErrUnknownNative},
		{"unmapped column", &Compiler{Columns: map[string]string{"a": "col_a"}}, "b:1", ErrUnknownColumn},
		{"no default columns", &Compiler{}, "foo", ErrUnsupported},
		{"ordering against null", &Compiler{}, "a:>", ErrUnsupported},
		{"bad number", &Compiler{}, "a:#12x", ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.compiler.Where(filter.Parse(tt.input))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestWhere_ColumnMapping(t *testing.T) {
	c := &Compiler{Columns: map[string]string{"who": "owner_name"}}
	f, err := c.Where(filter.Parse("who:=bob"))
	require.NoError(t, err)
	assert.Equal(t, `("owner_name" IS NOT NULL AND sieve_fold("owner_name") = ?)`, f.SQL)
}

func TestWhere_NoInterpolation(t *testing.T) {
	c := &Compiler{}
	f, err := c.Where(filter.Parse(`name:"'; DROP TABLE items; --"`))
	require.NoError(t, err)
	assert.NotContains(t, f.SQL, "DROP")
	assert.Equal(t, []any{"%'; DROP TABLE items; --%"}, f.Args)

	col, err := c.column(`x"y`)
	require.NoError(t, err)
	assert.Equal(t, `"x""y"`, col)
}

func TestOrderBy(t *testing.T) {
	c := &Compiler{}

	got, err := c.OrderBy(order.Parse("-total, name"))
	require.NoError(t, err)
	assert.Equal(t, `"total" DESC, "name" ASC, rowid ASC`, got)

	got, err = c.OrderBy(nil)
	require.NoError(t, err)
	assert.Equal(t, "rowid ASC", got, "rowid tiebreaker is mandatory")

	_, err = (&Compiler{Columns: map[string]string{}}).OrderBy(order.Parse("x"))
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestSelect(t *testing.T) {
	c := &Compiler{}
	query, args, err := c.Select("items", filter.Parse("status:=open"), order.Parse("-total"))
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT * FROM "items" WHERE ("status" IS NOT NULL AND sieve_fold("status") = ?) ORDER BY "total" DESC, rowid ASC`,
		query)
	assert.Equal(t, []any{"open"}, args)

	_, _, err = c.Select("", filter.True{}, nil)
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open(DriverName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE items (
		id INTEGER PRIMARY KEY,
		name TEXT,
		status TEXT,
		total INTEGER,
		due DATETIME
	)`)
	require.NoError(t, err)

	rows := []struct {
		name, status string
		total        any
		due          any
	}{
		{"Anvil", "open", 120, "2024-03-05 10:00:00"},
		{"Bucket", "closed", 40, "2024-01-15 00:00:00"},
		{"Crate", "open", nil, nil},
		{"Drum", "OPEN", 100, "2025-02-01 12:30:00"},
	}
	for _, r := range rows {
		_, err := db.Exec(`INSERT INTO items (name, status, total, due) VALUES (?, ?, ?, ?)`,
			r.name, r.status, r.total, r.due)
		require.NoError(t, err)
	}
	return db
}

func TestSelect_AgainstSQLite(t *testing.T) {
	db := openTestDB(t)
	c := &Compiler{DefaultColumns: []string{"name", "status"}}

	tests := []struct {
		filter string
		order  string
		want   []string
	}{
		{"", "", []string{"Anvil", "Bucket", "Crate", "Drum"}},
		{"status:=open", "", []string{"Anvil", "Crate", "Drum"}},
		{"status:=open total:>=#100", "-total", []string{"Anvil", "Drum"}},
		{"nand(total:>#50)", "name", []string{"Bucket", "Crate"}},
		{"total:", "", []string{"Crate"}},
		{"due:#2024#", "", []string{"Anvil", "Bucket"}},
		{"due:!#2024#", "", []string{"Crate", "Drum"}},
		{"due:>#2024-12#", "", []string{"Drum"}},
		{"or(name:an bucket)", "-name", []string{"Bucket", "Anvil"}},
		{"nor(status:open)", "", []string{"Bucket"}},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			query, args, err := c.Select("items", filter.Parse(tt.filter), order.Parse(tt.order))
			require.NoError(t, err)

			rows, err := db.Query(query, args...)
			require.NoError(t, err)
			defer rows.Close()

			cols, err := rows.Columns()
			require.NoError(t, err)
			var got []string
			for rows.Next() {
				cells := make([]any, len(cols))
				ptrs := make([]any, len(cols))
				for i := range cells {
					ptrs[i] = &cells[i]
				}
				require.NoError(t, rows.Scan(ptrs...))
				got = append(got, cells[1].(string))
			}
			require.NoError(t, rows.Err())
			assert.Equal(t, tt.want, got)
		})
	}
}
