// Package filtersql compiles filter trees and order lists to parameterized
// SQLite SQL.
//
// CRITICAL: Values are NEVER interpolated into the SQL text. Every text,
// number and date bound ends up in Fragment.Args behind a ? placeholder.
//
// CRITICAL: Every fragment is two-valued. A NULL cell makes a comparison
// false (or true for the negated operators) instead of NULL, so NOT over
// a group behaves the same in SQL as in memory.
//
// Value mapping:
//
//	Text    sieve_fold(col) then contains → LIKE ? ESCAPE '\',
//	        equal/ordering → = < <= > >= on the folded text
//	Number  compared numerically, contains means equal
//	Date    compared against the interval bounds, stored as
//	        "2006-01-02 15:04:05" UTC text
//	Null    equal/contains → IS NULL, negated → IS NOT NULL
//
// A compare without operand matches when any of the default columns
// matches; its negated form matches when none does.
//
// Text compares call sieve_fold, which only connections opened with
// DriverName provide.
package filtersql
