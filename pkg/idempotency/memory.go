package idempotency

import (
	"sync"
)

// MemoryGuard is an in-process guard suitable for single-process use. A
// production deployment should back the ledger with storage that outlives
// the caller's retry window.
type MemoryGuard[ID comparable] struct {
	mu   sync.Mutex
	seen map[ID]struct{}
}

// NewMemoryGuard creates an empty in-memory guard.
func NewMemoryGuard[ID comparable]() *MemoryGuard[ID] {
	return &MemoryGuard[ID]{
		seen: make(map[ID]struct{}),
	}
}

func (g *MemoryGuard[ID]) Seen(id ID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.seen[id]
	return ok
}

func (g *MemoryGuard[ID]) Record(id ID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seen[id] = struct{}{}
}

// Acquire atomically records id if it was unseen and reports whether this
// call was the first to see it. Callers racing on the same id get exactly
// one true.
func (g *MemoryGuard[ID]) Acquire(id ID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.seen[id]; ok {
		return false
	}
	g.seen[id] = struct{}{}
	return true
}

// Len returns the number of recorded identifiers.
func (g *MemoryGuard[ID]) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}

var _ Guard[string] = (*MemoryGuard[string])(nil)
