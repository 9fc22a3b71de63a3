package services

import "sync/atomic"

// Gate is the single-slot dispatch gate shared by the watch engine and
// the reconciler. At most one indexing batch or reconciliation run
// executes at a time; a trigger that arrives while the slot is held is
// dropped, not queued. Reconciliation heals whatever a dropped trigger
// would have indexed.
type Gate struct {
	held atomic.Bool
}

// NewGate returns an open gate.
func NewGate() *Gate {
	return &Gate{}
}

// TryAcquire claims the slot without blocking. It returns false when
// the slot is already held.
func (g *Gate) TryAcquire() bool {
	return g.held.CompareAndSwap(false, true)
}

// Release opens the slot again. Callers release with defer so a
// panicking batch cannot wedge the gate shut.
func (g *Gate) Release() {
	g.held.Store(false)
}

// Held reports whether the slot is currently claimed.
func (g *Gate) Held() bool {
	return g.held.Load()
}
