package filtereval

import (
	"bytes"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/roach88/sieve/internal/order"
	"github.com/roach88/sieve/internal/textfold"
)

// Filter returns the rows matching p, in input order.
func Filter(rows []Row, p Predicate) []Row {
	var out []Row
	for _, r := range rows {
		if p(r) {
			out = append(out, r)
		}
	}
	return out
}

// Sort returns a copy of rows ordered by keys. Text is ordered with a
// root-locale collator. The sort is stable, so rows with equal keys keep
// their input order.
//
// Cells of different kinds order like SQLite: nil, then numbers, then
// dates and text, then bytes.
func Sort(rows []Row, keys []order.Expression) []Row {
	out := slices.Clone(rows)
	if len(keys) == 0 {
		return out
	}

	// collate.Collator is not safe for concurrent use.
	col := collate.New(language.Und)
	slices.SortStableFunc(out, func(a, b Row) int {
		for _, k := range keys {
			cmp := compareCells(col, a[k.Identifier], b[k.Identifier])
			if k.Negate {
				cmp = -cmp
			}
			if cmp != 0 {
				return cmp
			}
		}
		return 0
	})
	return out
}

func cellRank(cell any) int {
	switch cell.(type) {
	case nil:
		return 0
	case int64, int, float64:
		return 1
	case string, time.Time:
		return 2
	default:
		return 3
	}
}

func compareCells(col *collate.Collator, a, b any) int {
	ra, rb := cellRank(a), cellRank(b)
	if ra != rb {
		return ra - rb
	}

	switch ra {
	case 0:
		return 0
	case 1:
		x, _ := cellNumber(a)
		y, _ := cellNumber(b)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case 2:
		ta, aIsTime := a.(time.Time)
		tb, bIsTime := b.(time.Time)
		if aIsTime && bIsTime {
			return ta.Compare(tb)
		}
		if cmp := col.CompareString(textfold.Text(a), textfold.Text(b)); cmp != 0 {
			return cmp
		}
		return strings.Compare(textfold.Text(a), textfold.Text(b))
	default:
		ba, _ := a.([]byte)
		bb, _ := b.([]byte)
		return bytes.Compare(ba, bb)
	}
}
