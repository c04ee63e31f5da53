package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/sieve/internal/filter"
	"github.com/roach88/sieve/internal/order"
)

// View is a named filter and order list over one table.
type View struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Table       string `json:"table" yaml:"table"`
	Filter      string `json:"filter" yaml:"filter"`
	Order       string `json:"order" yaml:"order"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Normalize returns v with canonical filter and order text. The filter is
// parsed and printed but not reduced: reducing drops a negation around a
// single term, which would change the rows the view selects.
func (v View) Normalize() View {
	v.Name = strings.TrimSpace(v.Name)
	v.Table = strings.TrimSpace(v.Table)
	v.Filter = filter.Parse(v.Filter).String()
	v.Order = order.Format(order.Parse(v.Order))
	return v
}

// SaveView inserts or replaces the view with v's name and returns the
// stored view. A view keeps its ID across saves; a new view gets a fresh
// ID from the store's generator.
func (s *Store) SaveView(ctx context.Context, v View) (View, error) {
	v = v.Normalize()
	if v.Name == "" || v.Table == "" {
		return View{}, &ViewError{Op: "save", Name: v.Name, Err: fmt.Errorf("%w: name and table are required", ErrInvalidView)}
	}

	// ON CONFLICT(name) keeps the existing id and bumps seq.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO views (id, name, table_name, filter, sort, description, seq)
		VALUES (?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM views))
		ON CONFLICT(name) DO UPDATE SET
			table_name = excluded.table_name,
			filter = excluded.filter,
			sort = excluded.sort,
			description = excluded.description,
			seq = excluded.seq
	`,
		s.newID(),
		v.Name,
		v.Table,
		v.Filter,
		v.Order,
		v.Description,
	)
	if err != nil {
		return View{}, &ViewError{Op: "save", Name: v.Name, Err: err}
	}

	saved, err := s.GetView(ctx, v.Name)
	if err != nil {
		return View{}, err
	}
	s.logger.Info().
		Str("view", saved.Name).
		Str("id", saved.ID).
		Str("filter", saved.Filter).
		Msg("view saved")
	return saved, nil
}

// DeleteView removes the view with the given name.
func (s *Store) DeleteView(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM views WHERE name = ?`, name)
	if err != nil {
		return &ViewError{Op: "delete", Name: name, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &ViewError{Op: "delete", Name: name, Err: err}
	}
	if n == 0 {
		return &ViewError{Op: "delete", Name: name, Err: ErrViewNotFound}
	}
	s.logger.Info().Str("view", name).Msg("view deleted")
	return nil
}
