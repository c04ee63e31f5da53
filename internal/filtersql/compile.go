package filtersql

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/sieve/internal/filter"
	"github.com/roach88/sieve/internal/order"
	"github.com/roach88/sieve/internal/textfold"
)

// DateLayout is the layout of date columns, matching SQLite's datetime().
const DateLayout = time.DateTime

// Fragment is a piece of SQL with its positional arguments.
type Fragment struct {
	SQL  string
	Args []any
}

// Compiler compiles filter trees to SQL fragments.
// It implements filter.Compiler[Fragment].
type Compiler struct {
	// Columns maps operands and order keys to column names. When nil,
	// operands are used as column names directly.
	Columns map[string]string

	// DefaultColumns are searched by compares without operand.
	DefaultColumns []string

	// Natives maps native keys to fragments.
	Natives map[string]Fragment
}

var _ filter.Compiler[Fragment] = (*Compiler)(nil)

// Where compiles e to a WHERE condition.
func (c *Compiler) Where(e filter.Expr) (Fragment, error) {
	return filter.Compile[Fragment](e, c)
}

// OrderBy compiles keys to an ORDER BY list.
//
// MANDATORY: The list always ends with rowid so that rows with equal keys
// come back in a deterministic order.
func (c *Compiler) OrderBy(keys []order.Expression) (string, error) {
	parts := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		col, err := c.column(k.Identifier)
		if err != nil {
			return "", err
		}
		dir := " ASC"
		if k.Negate {
			dir = " DESC"
		}
		parts = append(parts, col+dir)
	}
	parts = append(parts, "rowid ASC")
	return strings.Join(parts, ", "), nil
}

// Select builds a full query over table.
// Returns (sql, args, error) tuple.
func (c *Compiler) Select(table string, e filter.Expr, keys []order.Expression) (string, []any, error) {
	if table == "" {
		return "", nil, fmt.Errorf("%w: empty table name", ErrUnknownColumn)
	}
	where, err := c.Where(e)
	if err != nil {
		return "", nil, fmt.Errorf("compile filter: %w", err)
	}
	orderBy, err := c.OrderBy(keys)
	if err != nil {
		return "", nil, fmt.Errorf("compile order: %w", err)
	}

	sql := fmt.Sprintf("SELECT * FROM %s WHERE %s ORDER BY %s",
		quoteIdent(table),
		where.SQL,
		orderBy)
	return sql, where.Args, nil
}

// True implements filter.Compiler.
func (c *Compiler) True() (Fragment, error) {
	return Fragment{SQL: "1 = 1"}, nil
}

// Native implements filter.Compiler.
func (c *Compiler) Native(key string) (Fragment, error) {
	f, ok := c.Natives[key]
	if !ok {
		return Fragment{}, fmt.Errorf("%w: %q", ErrUnknownNative, key)
	}
	return Fragment{SQL: "(" + f.SQL + ")", Args: append([]any(nil), f.Args...)}, nil
}

// Compare implements filter.Compiler.
func (c *Compiler) Compare(operand string, op filter.Operator, value filter.Value) (Fragment, error) {
	if operand != "" {
		col, err := c.column(operand)
		if err != nil {
			return Fragment{}, err
		}
		return compareColumn(col, op, value)
	}

	if len(c.DefaultColumns) == 0 {
		return Fragment{}, fmt.Errorf("%w: no default columns for %s %s", ErrUnsupported, op, value)
	}
	parts := make([]Fragment, 0, len(c.DefaultColumns))
	for _, name := range c.DefaultColumns {
		f, err := compareColumn(quoteIdent(name), op.Positive(), value)
		if err != nil {
			return Fragment{}, err
		}
		parts = append(parts, f)
	}
	f := join(parts, " OR ")
	if op.Negated() {
		f.SQL = "NOT " + f.SQL
	}
	return f, nil
}

// Logic implements filter.Compiler.
func (c *Compiler) Logic(kind filter.LogicKind, children []Fragment) (Fragment, error) {
	var f Fragment
	switch kind {
	case filter.And, filter.NAnd:
		f = join(children, " AND ")
	case filter.Or, filter.NOr:
		f = join(children, " OR ")
	default:
		return Fragment{}, fmt.Errorf("%w: logic %s", ErrUnsupported, kind)
	}
	if kind.Negated() {
		f.SQL = "NOT " + f.SQL
	}
	return f, nil
}

// column resolves a name to a quoted column.
func (c *Compiler) column(name string) (string, error) {
	if c.Columns == nil {
		if name == "" {
			return "", fmt.Errorf("%w: empty name", ErrUnknownColumn)
		}
		return quoteIdent(name), nil
	}
	col, ok := c.Columns[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return quoteIdent(col), nil
}

func compareColumn(col string, op filter.Operator, value filter.Value) (Fragment, error) {
	switch v := value.(type) {
	case filter.Null:
		switch op {
		case filter.Contains, filter.Equal:
			return Fragment{SQL: col + " IS NULL"}, nil
		case filter.NotContains, filter.NotEqual:
			return Fragment{SQL: col + " IS NOT NULL"}, nil
		}
		return Fragment{}, fmt.Errorf("%w: %s against null", ErrUnsupported, op)
	case filter.Text:
		folded := FoldFunc + "(" + col + ")"
		want := textfold.String(v.Raw())
		if op.Positive() == filter.Contains {
			return check(col, op, folded+` LIKE ? ESCAPE '\'`, likePattern(want)), nil
		}
		return check(col, op, folded+" "+sqlOperator(op.Positive())+" ?", want), nil
	case filter.Number:
		n, err := numberArg(v)
		if err != nil {
			return Fragment{}, err
		}
		return check(col, op, col+" "+sqlOperator(op.Positive())+" ?", n), nil
	case filter.Date:
		return compareDate(col, op, v), nil
	default:
		return Fragment{}, fmt.Errorf("%w: value %T", ErrUnsupported, value)
	}
}

// check guards cond against NULL cells. Negated operators match NULL.
func check(col string, op filter.Operator, cond string, args ...any) Fragment {
	if op.Negated() {
		return Fragment{SQL: "(" + col + " IS NULL OR NOT (" + cond + "))", Args: args}
	}
	return Fragment{SQL: "(" + col + " IS NOT NULL AND " + cond + ")", Args: args}
}

func compareDate(col string, op filter.Operator, d filter.Date) Fragment {
	from, to := d.From(), d.To()
	var conds []string
	var args []any
	lowerBound := func(t time.Time) {
		conds = append(conds, col+" >= ?")
		args = append(args, t.Format(DateLayout))
	}
	upperBound := func(t time.Time) {
		conds = append(conds, col+" < ?")
		args = append(args, t.Format(DateLayout))
	}

	switch op {
	case filter.Greater:
		if to.IsZero() {
			return Fragment{SQL: "0 = 1"}
		}
		lowerBound(to)
	case filter.GreaterOrEqual:
		if !from.IsZero() {
			lowerBound(from)
		}
	case filter.Lower:
		if from.IsZero() {
			return Fragment{SQL: "0 = 1"}
		}
		upperBound(from)
	case filter.LowerOrEqual:
		if !to.IsZero() {
			upperBound(to)
		}
	default:
		if !from.IsZero() {
			lowerBound(from)
		}
		if !to.IsZero() {
			upperBound(to)
		}
	}

	if len(conds) == 0 {
		if op.Negated() {
			return Fragment{SQL: col + " IS NULL"}
		}
		return Fragment{SQL: col + " IS NOT NULL"}
	}
	return check(col, op, strings.Join(conds, " AND "), args...)
}

func sqlOperator(op filter.Operator) string {
	switch op {
	case filter.Greater:
		return ">"
	case filter.GreaterOrEqual:
		return ">="
	case filter.Lower:
		return "<"
	case filter.LowerOrEqual:
		return "<="
	default:
		// contains on numbers means equal
		return "="
	}
}

// numberArg converts the digits to int64 when possible, else float64.
func numberArg(n filter.Number) (any, error) {
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid number %q", ErrUnsupported, n.Raw())
	}
	return f, nil
}

// likePattern escapes LIKE wildcards and surrounds s with %.
func likePattern(s string) string {
	var sb strings.Builder
	sb.WriteByte('%')
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('%')
	return sb.String()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func join(parts []Fragment, sep string) Fragment {
	sqls := make([]string, 0, len(parts))
	var args []any
	for _, p := range parts {
		sqls = append(sqls, p.SQL)
		args = append(args, p.Args...)
	}
	return Fragment{SQL: "(" + strings.Join(sqls, sep) + ")", Args: args}
}
