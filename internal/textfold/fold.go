// Package textfold normalizes cell text for case-insensitive comparison.
//
// The in-memory evaluator and the sieve_fold SQLite function both fold
// through this package, so the two backends agree on non-ASCII text.
package textfold

import (
	"fmt"
	"strconv"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DateLayout is the text layout of date cells, matching SQLite's datetime().
const DateLayout = time.DateTime

// String returns s in NFC form with Unicode case folding applied. A
// Caser keeps state, so each call gets its own.
func String(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// Text renders a cell as text. Integers and floats use Go's shortest
// formatting and times use DateLayout in UTC.
func Text(cell any) string {
	switch v := cell.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Time:
		return v.UTC().Format(DateLayout)
	default:
		return fmt.Sprint(v)
	}
}

// Cell returns the folded text of a cell.
func Cell(cell any) string {
	return String(Text(cell))
}
