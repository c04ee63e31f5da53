package filtersql

import "errors"

var (
	// ErrUnknownColumn is returned when an operand or order key has no
	// column mapping.
	ErrUnknownColumn = errors.New("filtersql: unknown column")

	// ErrUnknownNative is returned for a native reference without a
	// registered fragment.
	ErrUnknownNative = errors.New("filtersql: unknown native")

	// ErrUnsupported is returned for comparisons SQL cannot express, such
	// as ordering against a null value.
	ErrUnsupported = errors.New("filtersql: unsupported comparison")
)
