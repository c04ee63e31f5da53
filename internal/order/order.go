// Package order parses sort directives such as "-created, +name, id".
//
// Each comma separated token names one sort key. A leading '-' sorts that
// key descending, a leading '+' is accepted and ignored. The first key is
// the primary sort key.
package order

import (
	"iter"
	"strings"
)

// Expression is one sort key.
type Expression struct {
	Negate     bool   `json:"negate" yaml:"negate"`
	Identifier string `json:"identifier" yaml:"identifier"`
}

// String renders the key as it is written in an order list.
func (e Expression) String() string {
	if e.Negate {
		return "-" + e.Identifier
	}
	return e.Identifier
}

// All yields the keys of text in priority order. Empty tokens and tokens
// holding only a sign are skipped.
func All(text string) iter.Seq[Expression] {
	return func(yield func(Expression) bool) {
		for tok := range strings.SplitSeq(text, ",") {
			e, ok := parseToken(tok)
			if !ok {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Parse returns the keys of text in priority order.
func Parse(text string) []Expression {
	var out []Expression
	for e := range All(text) {
		out = append(out, e)
	}
	return out
}

func parseToken(tok string) (Expression, bool) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return Expression{}, false
	}

	var e Expression
	switch tok[0] {
	case '+':
		tok = tok[1:]
	case '-':
		e.Negate = true
		tok = tok[1:]
	}
	e.Identifier = strings.TrimSpace(tok)
	return e, e.Identifier != ""
}

// Format renders keys as a canonical order list that Parse reads back
// unchanged.
func Format(keys []Expression) string {
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k.String())
	}
	return sb.String()
}
