package store

import (
	"database/sql"
	"fmt"

	"github.com/roach88/sieve/internal/filtereval"
)

// scanRows reads every row of rs into a filtereval.Row keyed by column
// name. TEXT cells come back as string, DATETIME cells as time.Time.
//
// Returns an empty slice (not nil) if there are no rows.
func scanRows(rs *sql.Rows) ([]filtereval.Row, error) {
	cols, err := rs.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	out := []filtereval.Row{}
	for rs.Next() {
		cells := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rs.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		row := make(filtereval.Row, len(cols))
		for i, c := range cols {
			row[c] = cells[i]
		}
		out = append(out, row)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}
