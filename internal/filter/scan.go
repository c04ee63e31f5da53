package filter

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// scanner holds the cursor of a single parse. Offsets are byte offsets
// into src.
type scanner struct {
	src   string
	pos   int
	depth int // number of open parenthesized groups
	diags []Diagnostic
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

// peek returns the rune at the cursor and its width.
func (s *scanner) peek() (rune, int) {
	return utf8.DecodeRuneInString(s.src[s.pos:])
}

// is reports whether the byte at the cursor is c.
func (s *scanner) is(c byte) bool {
	return s.pos < len(s.src) && s.src[s.pos] == c
}

// accept advances past c if it is at the cursor.
func (s *scanner) accept(c byte) bool {
	if s.is(c) {
		s.pos++
		return true
	}
	return false
}

func (s *scanner) diag(offset int, msg string) {
	s.diags = append(s.diags, Diagnostic{Offset: offset, Message: msg})
}

func (s *scanner) skipSpace() {
	for !s.eof() {
		r, n := s.peek()
		if !unicode.IsSpace(r) {
			return
		}
		s.pos += n
	}
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// scanIdentifier consumes letters, digits and '_' and returns them.
func (s *scanner) scanIdentifier() string {
	start := s.pos
	for !s.eof() {
		r, n := s.peek()
		if !isIdentRune(r) {
			break
		}
		s.pos += n
	}
	return s.src[start:s.pos]
}

// atTerminator reports whether the cursor is at the end of a token:
// end of input, whitespace, or a ')' closing the current group.
func (s *scanner) atTerminator() bool {
	if s.eof() {
		return true
	}
	if s.depth > 0 && s.src[s.pos] == ')' {
		return true
	}
	r, _ := s.peek()
	return unicode.IsSpace(r)
}

// scanToken consumes up to the next terminator, or the next '#' when
// stopAtHash is set.
func (s *scanner) scanToken(stopAtHash bool) string {
	start := s.pos
	for !s.atTerminator() {
		if stopAtHash && s.src[s.pos] == '#' {
			break
		}
		_, n := s.peek()
		s.pos += n
	}
	return s.src[start:s.pos]
}

// scanQuoted consumes a quoted string starting at the opening quote. The
// opening character selects the quote; inside, a doubled quote stands for
// one literal quote. closed is false when the input ended first.
func (s *scanner) scanQuoted() (text string, closed bool) {
	quote := s.src[s.pos]
	s.pos++

	var sb strings.Builder
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == quote {
			if s.pos+1 < len(s.src) && s.src[s.pos+1] == quote {
				sb.WriteByte(quote)
				s.pos += 2
				continue
			}
			s.pos++
			return sb.String(), true
		}
		sb.WriteByte(c)
		s.pos++
	}
	return sb.String(), false
}

// parseValue parses the value of a compare, or a bare value.
func (s *scanner) parseValue() Value {
	if s.atTerminator() {
		return Null{}
	}

	switch s.src[s.pos] {
	case '"', '\'':
		at := s.pos
		text, closed := s.scanQuoted()
		if !closed {
			s.diag(at, "unterminated quoted text")
		}
		if text == "" {
			return Null{}
		}
		return Text{text: text}

	case '#':
		at := s.pos
		s.pos++
		raw := s.scanToken(true)
		if s.accept('#') {
			if raw == "" {
				return Null{}
			}
			d, err := parseDateRange(raw)
			if err != nil {
				s.diag(at, err.Error())
				return Text{text: s.src[at:s.pos]}
			}
			return d
		}
		if raw == "" {
			return Null{}
		}
		return Number{digits: raw}
	}

	if tok := s.scanToken(false); tok != "" {
		return Text{text: tok}
	}
	return Null{}
}

// parseOperator matches the longest operator at the cursor. Without one
// the operator is Contains and the cursor stays put.
func (s *scanner) parseOperator() Operator {
	switch {
	case s.accept('<'):
		if s.accept('=') {
			return LowerOrEqual
		}
		return Lower
	case s.accept('>'):
		if s.accept('=') {
			return GreaterOrEqual
		}
		return Greater
	case s.accept('='):
		return Equal
	case s.accept('!'):
		if s.accept('=') {
			return NotEqual
		}
		return NotContains
	}
	return Contains
}
