// Package testutil provides deterministic helpers for tests.
package testutil

import (
	"strconv"
	"sync"
)

// SequentialIDs hands out "<prefix>-1", "<prefix>-2", ... so that stores
// under test give saved views predictable IDs.
//
// Thread-safety: all methods are safe for concurrent use.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	seq    int64
}

// NewSequentialIDs creates a generator. An empty prefix becomes "view".
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "view"
	}
	return &SequentialIDs{prefix: prefix}
}

// Next returns the next ID. It matches the func() string expected by
// store.WithIDGenerator.
func (g *SequentialIDs) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return g.prefix + "-" + strconv.FormatInt(g.seq, 10)
}

// Reset starts the sequence over. After Reset, Next returns "<prefix>-1".
func (g *SequentialIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
