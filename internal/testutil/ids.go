package testutil

import (
	"fmt"
	"sync"
)

// CountingIDs generates "<prefix>-1", "<prefix>-2", ... without limit.
//
// Unlike store.FixedGenerator, which returns a declared list and panics
// when it runs out, CountingIDs suits tests that create an unknown number
// of entries.
type CountingIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewCountingIDs creates a generator. If prefix is empty, "id" is used.
func NewCountingIDs(prefix string) *CountingIDs {
	if prefix == "" {
		prefix = "id"
	}
	return &CountingIDs{prefix: prefix}
}

// Generate returns the next id.
func (g *CountingIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
