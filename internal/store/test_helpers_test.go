package store

import (
	"path/filepath"
	"testing"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createItemsTable creates and fills the items table used by Run tests.
func createItemsTable(t *testing.T, s *Store) {
	t.Helper()

	_, err := s.db.Exec(`
		CREATE TABLE items (
			id INTEGER PRIMARY KEY,
			name TEXT,
			status TEXT,
			total INTEGER,
			due DATETIME
		);
		INSERT INTO items (name, status, total, due) VALUES
			('Anvil', 'open', 120, '2024-03-05 10:00:00'),
			('Bucket', 'closed', 40, '2024-01-15 00:00:00'),
			('Crate', 'open', NULL, NULL),
			('Drum', 'OPEN', 100, '2025-02-01 12:30:00');
	`)
	if err != nil {
		t.Fatalf("failed to create items: %v", err)
	}
}
