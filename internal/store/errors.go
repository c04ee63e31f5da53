package store

import (
	"errors"
	"fmt"
)

var (
	// ErrViewNotFound is returned when no view has the requested name.
	ErrViewNotFound = errors.New("view not found")

	// ErrInvalidView is returned when a view lacks a name or table.
	ErrInvalidView = errors.New("invalid view")
)

// ViewError records the view and operation an error happened on.
type ViewError struct {
	Op   string
	Name string
	Err  error
}

// Error implements the error interface.
func (e *ViewError) Error() string {
	return fmt.Sprintf("%s view %q: %v", e.Op, e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *ViewError) Unwrap() error { return e.Err }

// IsNotFound reports whether err means the view does not exist.
// Uses errors.Is to handle wrapped errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrViewNotFound)
}
