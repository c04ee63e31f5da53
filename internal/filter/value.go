package filter

import (
	"strconv"
	"strings"
	"unicode"
)

// Value is the right-hand side of a Compare node.
//
// This is a sealed interface - only Null, Text, Number and Date
// implement it.
type Value interface {
	// String renders the value as it is written in filter syntax.
	String() string

	appendText(sb *strings.Builder)
	compareValue() // Marker method - seals interface to this package
}

// Null is the absent value: a:, a:= or an empty quoted string.
type Null struct{}

func (Null) compareValue() {}

func (Null) String() string { return "" }

func (Null) appendText(*strings.Builder) {}

// Text is a plain or quoted text value.
type Text struct {
	text string
}

// NewText returns a text value.
func NewText(s string) Text { return Text{text: s} }

// Raw returns the unquoted text.
func (t Text) Raw() string { return t.text }

func (Text) compareValue() {}

func (t Text) String() string {
	var sb strings.Builder
	t.appendText(&sb)
	return sb.String()
}

// appendText writes the text bare when it reads back unchanged, otherwise
// in double quotes with embedded quotes doubled.
func (t Text) appendText(sb *strings.Builder) {
	if !needsQuote(t.text) {
		sb.WriteString(t.text)
		return
	}
	sb.WriteByte('"')
	for i := 0; i < len(t.text); i++ {
		if t.text[i] == '"' {
			sb.WriteString(`""`)
		} else {
			sb.WriteByte(t.text[i])
		}
	}
	sb.WriteByte('"')
}

// needsQuote reports whether s would not scan back as a single bare text
// token. Parentheses end a token inside a group. A leading '#' reads back
// as a number and a leading operator character as an operator. A ':'
// turns an operand-less value into a compare or native term.
func needsQuote(s string) bool {
	if s == "" {
		return true
	}
	switch s[0] {
	case '#', '<', '>', '=', '!':
		return true
	}
	for _, r := range s {
		switch {
		case unicode.IsSpace(r), r == '"', r == '\'', r == '(', r == ')', r == ':':
			return true
		}
	}
	return false
}

// Number is a numeric value written as #digits. The digits are kept as
// written; interpreting them is left to the compiler.
type Number struct {
	digits string
}

// NewNumber returns a number value holding the raw digit text.
func NewNumber(digits string) Number { return Number{digits: digits} }

// Raw returns the digit text without the leading '#'.
func (n Number) Raw() string { return n.digits }

// Int64 interprets the digits as a base-10 integer.
func (n Number) Int64() (int64, error) {
	return strconv.ParseInt(n.digits, 10, 64)
}

// Float64 interprets the digits as a decimal number.
func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(n.digits, 64)
}

func (Number) compareValue() {}

func (n Number) String() string { return "#" + n.digits }

func (n Number) appendText(sb *strings.Builder) {
	sb.WriteByte('#')
	sb.WriteString(n.digits)
}
