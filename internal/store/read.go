package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const viewColumns = `id, name, table_name, filter, sort, description`

// GetView returns the view with the given name.
func (s *Store) GetView(ctx context.Context, name string) (View, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+viewColumns+` FROM views WHERE name = ?`, name)
	v, err := scanView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return View{}, &ViewError{Op: "get", Name: name, Err: ErrViewNotFound}
	}
	if err != nil {
		return View{}, &ViewError{Op: "get", Name: name, Err: err}
	}
	return v, nil
}

// ListViews returns all views ordered by name.
//
// Returns an empty slice (not nil) if no views exist.
func (s *Store) ListViews(ctx context.Context) ([]View, error) {
	return s.queryViews(ctx, `ORDER BY name COLLATE BINARY ASC`)
}

// RecentViews returns all views, the most recently saved first. Saving a
// view again moves it to the front.
func (s *Store) RecentViews(ctx context.Context) ([]View, error) {
	return s.queryViews(ctx, `ORDER BY seq DESC, name COLLATE BINARY ASC`)
}

func (s *Store) queryViews(ctx context.Context, orderBy string) ([]View, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+viewColumns+` FROM views `+orderBy)
	if err != nil {
		return nil, fmt.Errorf("query views: %w", err)
	}
	defer rows.Close()

	views := []View{}
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan view: %w", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate views: %w", err)
	}
	return views, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanView(r rowScanner) (View, error) {
	var v View
	err := r.Scan(&v.ID, &v.Name, &v.Table, &v.Filter, &v.Order, &v.Description)
	return v, err
}
