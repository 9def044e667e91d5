package dashboard

import "sync/atomic"

// busyGate is a non-reentrant try-lock. A caller that fails to acquire it
// drops its work; nothing waits or queues.
type busyGate struct {
	busy atomic.Bool
}

// TryAcquire sets the gate if it is clear and reports whether it did.
func (g *busyGate) TryAcquire() bool {
	return g.busy.CompareAndSwap(false, true)
}

// Release clears the gate.
func (g *busyGate) Release() {
	g.busy.Store(false)
}

// Busy reports whether an operation holds the gate.
func (g *busyGate) Busy() bool {
	return g.busy.Load()
}
