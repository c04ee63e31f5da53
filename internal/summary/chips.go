// Package summary renders filters as a flat list of UI chips.
//
// The top-level terms of a filter become one chip each. Nested groups
// (or, nand, nor) become a single chip whose label spells the group out.
package summary

import (
	"strings"

	"github.com/roach88/sieve/internal/filter"
)

// Kind tells what a chip stands for.
type Kind string

const (
	KindCompare Kind = "compare"
	KindNative  Kind = "native"
	KindGroup   Kind = "group"
)

// Chip is one removable term of a filter.
type Chip struct {
	Kind  Kind   `json:"kind" yaml:"kind"`
	Label string `json:"label" yaml:"label"`
	// Text is the canonical filter text of the term.
	Text string `json:"text" yaml:"text"`
}

// Chips returns the chips of e. A filter that matches everything has no
// chips. The tree is not reduced, so nand(a) stays a negated group.
func Chips(e filter.Expr) ([]Chip, error) {
	if e == nil {
		return nil, nil
	}
	return filter.Compile[[]Chip](e, compiler{})
}

// compiler implements filter.Compiler[[]Chip].
type compiler struct{}

func (compiler) True() ([]Chip, error) { return nil, nil }

func (compiler) Native(key string) ([]Chip, error) {
	return []Chip{{
		Kind:  KindNative,
		Label: key,
		Text:  filter.NewNative(key).String(),
	}}, nil
}

func (compiler) Compare(operand string, op filter.Operator, value filter.Value) ([]Chip, error) {
	c, err := filter.NewCompare(operand, op, value)
	if err != nil {
		return nil, err
	}
	return []Chip{{
		Kind:  KindCompare,
		Label: compareLabel(operand, op, value),
		Text:  c.String(),
	}}, nil
}

func (compiler) Logic(kind filter.LogicKind, children [][]Chip) ([]Chip, error) {
	if kind == filter.And {
		var out []Chip
		for _, c := range children {
			out = append(out, c...)
		}
		return out, nil
	}

	labels := make([]string, 0, len(children))
	texts := make([]string, 0, len(children))
	for _, c := range children {
		label, text := collapse(c)
		labels = append(labels, label)
		texts = append(texts, text)
	}

	var label string
	switch kind {
	case filter.Or:
		label = strings.Join(labels, " or ")
	case filter.NAnd:
		label = "not (" + strings.Join(labels, " and ") + ")"
	case filter.NOr:
		label = "not (" + strings.Join(labels, " or ") + ")"
	}
	return []Chip{{
		Kind:  KindGroup,
		Label: label,
		Text:  kind.String() + "(" + strings.Join(texts, " ") + ")",
	}}, nil
}

// collapse folds the chips of one group member into a label and text.
// Several chips come from a nested and.
func collapse(chips []Chip) (label, text string) {
	if len(chips) == 0 {
		return "everything", "and()"
	}
	if len(chips) == 1 {
		if chips[0].Kind == KindGroup {
			return "(" + chips[0].Label + ")", chips[0].Text
		}
		return chips[0].Label, chips[0].Text
	}
	labels := make([]string, 0, len(chips))
	texts := make([]string, 0, len(chips))
	for _, c := range chips {
		l, t := collapse([]Chip{c})
		labels = append(labels, l)
		texts = append(texts, t)
	}
	return "(" + strings.Join(labels, " and ") + ")", "and(" + strings.Join(texts, " ") + ")"
}

var opLabels = map[filter.Operator]string{
	filter.Contains:       "contains",
	filter.NotContains:    "does not contain",
	filter.Equal:          "is",
	filter.NotEqual:       "is not",
	filter.Greater:        ">",
	filter.GreaterOrEqual: "≥",
	filter.Lower:          "<",
	filter.LowerOrEqual:   "≤",
}

func compareLabel(operand string, op filter.Operator, value filter.Value) string {
	if _, isNull := value.(filter.Null); isNull {
		subject := operand
		if subject == "" {
			subject = "any field"
		}
		if op.Negated() {
			return subject + " is not empty"
		}
		return subject + " is empty"
	}

	v := valueLabel(value)
	if operand == "" {
		switch op {
		case filter.Contains:
			return v
		case filter.NotContains:
			return "not " + v
		}
		return opLabels[op] + " " + v
	}
	return operand + " " + opLabels[op] + " " + v
}

func valueLabel(v filter.Value) string {
	switch v := v.(type) {
	case filter.Text:
		return v.String()
	case filter.Number:
		return v.Raw()
	case filter.Date:
		return strings.Trim(v.String(), "#")
	default:
		return v.String()
	}
}
