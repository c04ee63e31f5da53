// Package filter implements the sieve filter expression language.
//
// A filter is typed by a user into a search box and parsed into an
// immutable tree of Expr nodes:
//
//	status:=open and(total:>#100 or(owner:alice owner:bob)) :archived: invoice
//
// GRAMMAR:
//
//	expr    := { ws ( ')' | term ) }
//	term    := logic '(' expr* ')'        // logic is and|or|nand|nor, no space before '('
//	         | ':' identifier ':'         // native reference
//	         | identifier ':' [op] value  // compare
//	         | value                      // operand-less contains
//	op      := '<' | '<=' | '>' | '>=' | '=' | '!' | '!='
//	value   := quoted | '#' digits | '#' date '#' | token
//
// The top level is an implicit and. Parsing is lenient: Parse never fails,
// unknown input degrades to operand-less Contains comparisons. Use
// ParseWithDiagnostics to learn what was accepted leniently.
//
// NODE MODEL:
//
// Expr is a sealed interface. The only implementations are True, Native,
// Compare and *Logic, so a type switch over those cases is exhaustive.
// Compare values are sealed the same way: Null, Text, Number and Date.
//
// COMPILING:
//
// The package never evaluates a filter. Backends implement Compiler[T]
// and call Compile to turn a tree into a SQL fragment, an in-memory
// predicate, a list of UI chips, or anything else.
//
//	[text] → Parse → [Expr] → Reduce → [Expr] → Compile(Compiler[T]) → T
//	                                          → String → [text]
package filter
