package store

import (
	"context"
	"fmt"

	"github.com/roach88/sieve/internal/filter"
	"github.com/roach88/sieve/internal/filtereval"
	"github.com/roach88/sieve/internal/filtersql"
	"github.com/roach88/sieve/internal/order"
)

// Run selects the rows of v.Table matching v.Filter, ordered by v.Order
// and then rowid. The view does not have to be saved.
func (s *Store) Run(ctx context.Context, v View, c *filtersql.Compiler) ([]filtereval.Row, error) {
	if c == nil {
		c = &filtersql.Compiler{}
	}

	query, args, err := c.Select(v.Table, filter.Parse(v.Filter), order.Parse(v.Order))
	if err != nil {
		return nil, &ViewError{Op: "run", Name: v.Name, Err: err}
	}
	s.logger.Debug().
		Str("view", v.Name).
		Str("sql", query).
		Int("args", len(args)).
		Msg("running view")

	rs, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &ViewError{Op: "run", Name: v.Name, Err: fmt.Errorf("query %s: %w", v.Table, err)}
	}
	defer rs.Close()

	return scanRows(rs)
}

// RunSaved runs the saved view with the given name.
func (s *Store) RunSaved(ctx context.Context, name string, c *filtersql.Compiler) ([]filtereval.Row, error) {
	v, err := s.GetView(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, v, c)
}

// RunInMemory selects the same rows as Run without compiling the filter to
// SQL: it loads the whole table in rowid order, then filters and sorts it
// with the in-memory evaluator. Text keys sort by collation, not bytes.
func (s *Store) RunInMemory(ctx context.Context, v View, c *filtereval.Compiler) ([]filtereval.Row, error) {
	if c == nil {
		c = &filtereval.Compiler{}
	}

	p, err := c.Compile(filter.Parse(v.Filter))
	if err != nil {
		return nil, &ViewError{Op: "run", Name: v.Name, Err: err}
	}
	query, _, err := (&filtersql.Compiler{}).Select(v.Table, filter.True{}, nil)
	if err != nil {
		return nil, &ViewError{Op: "run", Name: v.Name, Err: err}
	}
	s.logger.Debug().
		Str("view", v.Name).
		Str("sql", query).
		Msg("loading table for in-memory run")

	rs, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &ViewError{Op: "run", Name: v.Name, Err: fmt.Errorf("query %s: %w", v.Table, err)}
	}
	defer rs.Close()

	all, err := scanRows(rs)
	if err != nil {
		return nil, err
	}
	rows := filtereval.Sort(filtereval.Filter(all, p), order.Parse(v.Order))
	if rows == nil {
		rows = []filtereval.Row{}
	}
	return rows, nil
}
