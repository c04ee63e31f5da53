package filter

import "fmt"

// Diagnostic describes a piece of input the parser accepted leniently.
// Diagnostics never change the parse result.
type Diagnostic struct {
	Offset  int    // byte offset into the parsed text
	Message string // e.g. "missing ')'"
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("offset %d: %s", d.Offset, d.Message)
}

// Parse parses a filter expression. It never fails: malformed input
// degrades to operand-less Contains comparisons and an empty input
// yields True.
func Parse(text string) Expr {
	return ParseAt(text, 0)
}

// ParseAt parses text starting at the byte offset.
func ParseAt(text string, offset int) Expr {
	e, _ := ParseWithDiagnostics(text, offset)
	return e
}

// ParseWithDiagnostics parses like ParseAt and also reports what was
// accepted leniently: unterminated quotes, unbalanced parentheses and
// malformed date literals.
func ParseWithDiagnostics(text string, offset int) (Expr, []Diagnostic) {
	offset = max(0, min(offset, len(text)))
	s := &scanner{src: text, pos: offset}
	return s.parseGroup(0), s.diags
}

// parseGroup parses terms up to the end of input or, inside a group, up
// to the closing ')'. enclosing is the kind of the group being parsed;
// zero for the top level, which combines with And.
func (s *scanner) parseGroup(enclosing LogicKind) Expr {
	kind := enclosing
	if kind == 0 {
		kind = And
	}
	open := s.pos - 1

	var items []Expr
	closed := false
	for {
		s.skipSpace()
		if s.eof() {
			break
		}
		if s.is(')') {
			s.pos++
			if enclosing != 0 {
				closed = true
				break
			}
			s.diag(s.pos-1, "unbalanced ')'")
			continue
		}

		switch e := s.parseTerm().(type) {
		case nil, True:
			// nothing to collect
		case *Logic:
			if e.kind == kind {
				items = append(items, e.children...)
			} else {
				items = append(items, e)
			}
		default:
			items = append(items, e)
		}
	}
	if enclosing != 0 && !closed {
		s.diag(open, "missing ')'")
	}

	switch {
	case len(items) == 0:
		if enclosing == 0 || enclosing.Negated() {
			return True{}
		}
		// An empty and()/or() keeps an explicit marker instead of True.
		return newLogic(NAnd, []Expr{True{}})
	case len(items) == 1 && !enclosing.Negated():
		return items[0]
	default:
		return newLogic(kind, items)
	}
}

// parseTerm parses one term. It returns nil for a term that carries no
// condition, such as an empty quoted string.
func (s *scanner) parseTerm() Expr {
	start := s.pos
	native := s.accept(':')
	ident := s.scanIdentifier()

	if !native && ident != "" && s.is('(') {
		if kind, ok := lookupLogic(ident); ok {
			s.pos++
			s.depth++
			e := s.parseGroup(kind)
			s.depth--
			return e
		}
	}

	if ident != "" && s.accept(':') {
		if native {
			return Native{key: ident}
		}
		return s.parseCompare(ident)
	}

	// Not a logic, native or compare term: the whole token is a value.
	s.pos = start
	v := s.parseValue()
	if _, ok := v.(Null); ok {
		return nil
	}
	return Compare{op: Contains, value: v}
}

// parseCompare parses the part after "operand:".
func (s *scanner) parseCompare(operand string) Expr {
	if s.atTerminator() {
		return Compare{operand: operand, op: Equal, value: Null{}}
	}
	op := s.parseOperator()
	return Compare{operand: operand, op: op, value: s.parseValue()}
}
