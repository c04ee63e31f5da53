// Package store provides SQLite-backed storage for saved views and runs
// views against the tables of the same database.
//
// A view is a named filter and order list over one table. Filters and
// order lists are normalized before they are written, so the stored text
// is canonical and two equal views store equal text.
//
// # Critical Patterns
//
// Deterministic results:
//   - Listing orders by name COLLATE BINARY
//   - Running a view always orders by rowid after the view's own keys
//
// Parameterized SQL:
//   - Filter values are passed as arguments, never spliced into SQL
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
