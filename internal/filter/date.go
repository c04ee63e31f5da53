package filter

import (
	"fmt"
	"strings"
	"time"
)

// Date is a half-open time interval [From, To) written between two '#':
//
//	#2024#                      the whole year 2024
//	#2024-03#                   March 2024
//	#2024-03-01~2024-03-15#     1st to 15th of March, both days included
//	#2024-03-01T08:00~#         from 8 o'clock on, no end
//
// A zero From or To leaves that side unbounded. All times are UTC with
// whole-second precision.
type Date struct {
	from time.Time
	to   time.Time
}

// NewDate returns the interval [from, to). Either side may be the zero
// time, but not both, and to must lie after from.
func NewDate(from, to time.Time) (Date, error) {
	from = normalizeTime(from)
	to = normalizeTime(to)
	if from.IsZero() && to.IsZero() {
		return Date{}, fmt.Errorf("%w: date range is unbounded on both sides", ErrInvalidArgument)
	}
	if !from.IsZero() && !to.IsZero() && !to.After(from) {
		return Date{}, fmt.Errorf("%w: date range ends before it starts", ErrInvalidArgument)
	}
	return Date{from: from, to: to}, nil
}

func normalizeTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return t.UTC().Truncate(time.Second)
}

// From returns the inclusive start, zero when unbounded.
func (d Date) From() time.Time { return d.from }

// To returns the exclusive end, zero when unbounded.
func (d Date) To() time.Time { return d.to }

// Contains reports whether t lies inside the interval.
func (d Date) Contains(t time.Time) bool {
	if !d.from.IsZero() && t.Before(d.from) {
		return false
	}
	if !d.to.IsZero() && !t.Before(d.to) {
		return false
	}
	return true
}

func (Date) compareValue() {}

func (d Date) String() string {
	var sb strings.Builder
	d.appendText(&sb)
	return sb.String()
}

func (d Date) appendText(sb *strings.Builder) {
	sb.WriteByte('#')
	if side, ok := d.singleSide(); ok {
		sb.WriteString(side)
	} else {
		if !d.from.IsZero() {
			sb.WriteString(formatStart(d.from))
		}
		sb.WriteByte('~')
		if !d.to.IsZero() {
			sb.WriteString(formatEnd(d.to))
		}
	}
	sb.WriteByte('#')
}

// dateLayouts are ordered from the coarsest period to the finest.
var dateLayouts = []struct {
	layout string
	next   func(time.Time) time.Time
}{
	{"2006", func(t time.Time) time.Time { return t.AddDate(1, 0, 0) }},
	{"2006-01", func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }},
	{"2006-01-02", func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }},
	{"2006-01-02T15:04", func(t time.Time) time.Time { return t.Add(time.Minute) }},
	{"2006-01-02T15:04:05", func(t time.Time) time.Time { return t.Add(time.Second) }},
}

// parseDateSide parses one side of a date literal and returns the period
// it denotes.
func parseDateSide(s string) (start, end time.Time, err error) {
	for _, l := range dateLayouts {
		if len(s) != len(l.layout) {
			continue
		}
		start, err = time.Parse(l.layout, s)
		if err != nil {
			break
		}
		return start, l.next(start), nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q", s)
}

// parseDateRange parses the text between the '#' of a date literal.
func parseDateRange(raw string) (Date, error) {
	fromText, toText, isRange := strings.Cut(raw, "~")
	if !isRange {
		start, end, err := parseDateSide(raw)
		if err != nil {
			return Date{}, err
		}
		return Date{from: start, to: end}, nil
	}

	var from, to time.Time
	if fromText != "" {
		start, _, err := parseDateSide(fromText)
		if err != nil {
			return Date{}, err
		}
		from = start
	}
	if toText != "" {
		_, end, err := parseDateSide(toText)
		if err != nil {
			return Date{}, err
		}
		to = end
	}
	d, err := NewDate(from, to)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date range %q", raw)
	}
	return d, nil
}

// singleSide returns the one-side form denoting exactly d, if any.
func (d Date) singleSide() (string, bool) {
	if d.from.IsZero() || d.to.IsZero() {
		return "", false
	}
	for _, l := range dateLayouts {
		s := d.from.Format(l.layout)
		start, end, err := parseDateSide(s)
		if err == nil && start.Equal(d.from) && end.Equal(d.to) {
			return s, true
		}
	}
	return "", false
}

// formatStart returns the shortest side whose period starts at t.
func formatStart(t time.Time) string {
	for _, l := range dateLayouts {
		s := t.Format(l.layout)
		if start, _, err := parseDateSide(s); err == nil && start.Equal(t) {
			return s
		}
	}
	return t.Format(time.RFC3339)
}

// formatEnd returns the shortest side whose period ends at t.
func formatEnd(t time.Time) string {
	last := t.Add(-time.Nanosecond)
	for _, l := range dateLayouts {
		s := last.Format(l.layout)
		if _, end, err := parseDateSide(s); err == nil && end.Equal(t) {
			return s
		}
	}
	return t.Format(time.RFC3339)
}
