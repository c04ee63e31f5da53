// Package filtereval compiles filter trees to in-memory row predicates.
//
// The predicates agree with the SQL produced by filtersql when it runs on
// the filtersql driver: text is compared after Unicode case folding,
// numbers numerically, dates against the interval bounds, and a missing
// cell never matches a positive operator.
package filtereval

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/sieve/internal/filter"
	"github.com/roach88/sieve/internal/textfold"
)

var (
	// ErrUnknownNative is returned for a native reference without a
	// registered predicate.
	ErrUnknownNative = errors.New("filtereval: unknown native")

	// ErrUnsupported is returned for comparisons that have no meaning,
	// such as ordering against a null value.
	ErrUnsupported = errors.New("filtereval: unsupported comparison")
)

// Row is one record, keyed by column name. A missing key reads as nil.
type Row map[string]any

// Predicate reports whether a row matches.
type Predicate func(Row) bool

// Compiler compiles filter trees to predicates.
// It implements filter.Compiler[Predicate].
type Compiler struct {
	// DefaultColumns are searched by compares without operand.
	DefaultColumns []string

	// Natives maps native keys to predicates.
	Natives map[string]Predicate
}

var _ filter.Compiler[Predicate] = (*Compiler)(nil)

// Compile compiles e to a predicate.
func (c *Compiler) Compile(e filter.Expr) (Predicate, error) {
	return filter.Compile[Predicate](e, c)
}

// True implements filter.Compiler.
func (c *Compiler) True() (Predicate, error) {
	return func(Row) bool { return true }, nil
}

// Native implements filter.Compiler.
func (c *Compiler) Native(key string) (Predicate, error) {
	p, ok := c.Natives[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNative, key)
	}
	return p, nil
}

// Compare implements filter.Compiler.
func (c *Compiler) Compare(operand string, op filter.Operator, value filter.Value) (Predicate, error) {
	if operand != "" {
		return compareCell(operand, op, value)
	}

	if len(c.DefaultColumns) == 0 {
		return nil, fmt.Errorf("%w: no default columns for %s %s", ErrUnsupported, op, value)
	}
	preds := make([]Predicate, 0, len(c.DefaultColumns))
	for _, col := range c.DefaultColumns {
		p, err := compareCell(col, op.Positive(), value)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return logic(preds, false, op.Negated()), nil
}

// Logic implements filter.Compiler.
func (c *Compiler) Logic(kind filter.LogicKind, children []Predicate) (Predicate, error) {
	switch kind {
	case filter.And, filter.NAnd:
		return logic(children, true, kind.Negated()), nil
	case filter.Or, filter.NOr:
		return logic(children, false, kind.Negated()), nil
	default:
		return nil, fmt.Errorf("%w: logic %s", ErrUnsupported, kind)
	}
}

// logic combines preds with and (all) or or, negating the result.
func logic(preds []Predicate, all, negate bool) Predicate {
	return func(r Row) bool {
		result := all
		for _, p := range preds {
			if p(r) != all {
				result = !all
				break
			}
		}
		return result != negate
	}
}

func compareCell(col string, op filter.Operator, value filter.Value) (Predicate, error) {
	var match func(cell any) bool

	switch v := value.(type) {
	case filter.Null:
		switch op.Positive() {
		case filter.Contains, filter.Equal:
			return func(r Row) bool { return (r[col] == nil) != op.Negated() }, nil
		}
		return nil, fmt.Errorf("%w: %s against null", ErrUnsupported, op)
	case filter.Text:
		want := textfold.String(v.Raw())
		match = textMatcher(op.Positive(), want)
	case filter.Number:
		want, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: invalid number %q", ErrUnsupported, v.Raw())
		}
		match = numberMatcher(op.Positive(), want)
	case filter.Date:
		match = dateMatcher(op.Positive(), v)
	default:
		return nil, fmt.Errorf("%w: value %T", ErrUnsupported, value)
	}

	negate := op.Negated()
	return func(r Row) bool {
		cell := r[col]
		if cell == nil {
			return negate
		}
		return match(cell) != negate
	}, nil
}

func textMatcher(op filter.Operator, want string) func(any) bool {
	return func(cell any) bool {
		got := textfold.Cell(cell)
		switch op {
		case filter.Contains:
			return strings.Contains(got, want)
		case filter.Equal:
			return got == want
		default:
			return ordered(op, strings.Compare(got, want))
		}
	}
}

func numberMatcher(op filter.Operator, want float64) func(any) bool {
	return func(cell any) bool {
		got, ok := cellNumber(cell)
		if !ok {
			return false
		}
		switch {
		case got < want:
			return ordered(op, -1)
		case got > want:
			return ordered(op, 1)
		default:
			return ordered(op, 0)
		}
	}
}

func dateMatcher(op filter.Operator, d filter.Date) func(any) bool {
	from, to := d.From(), d.To()
	return func(cell any) bool {
		t, ok := cellTime(cell)
		if !ok {
			return false
		}
		switch op {
		case filter.Greater:
			return !to.IsZero() && !t.Before(to)
		case filter.GreaterOrEqual:
			return from.IsZero() || !t.Before(from)
		case filter.Lower:
			return !from.IsZero() && t.Before(from)
		case filter.LowerOrEqual:
			return to.IsZero() || t.Before(to)
		default:
			return d.Contains(t)
		}
	}
}

// ordered maps a three-way comparison result through op. Contains on
// numbers and dates means equal.
func ordered(op filter.Operator, cmp int) bool {
	switch op {
	case filter.Greater:
		return cmp > 0
	case filter.GreaterOrEqual:
		return cmp >= 0
	case filter.Lower:
		return cmp < 0
	case filter.LowerOrEqual:
		return cmp <= 0
	default:
		return cmp == 0
	}
}

// DateLayout is the text layout of date cells, matching SQLite's datetime().
const DateLayout = textfold.DateLayout

func cellNumber(cell any) (float64, bool) {
	switch v := cell.(type) {
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func cellTime(cell any) (time.Time, bool) {
	switch v := cell.(type) {
	case time.Time:
		return v.UTC(), true
	case string:
		for _, layout := range []string{DateLayout, time.RFC3339, time.DateOnly} {
			if t, err := time.Parse(layout, v); err == nil {
				return t.UTC(), true
			}
		}
	}
	return time.Time{}, false
}
