package sale

import "sync/atomic"

// ReentrancyGuard rejects a nested call into a guarded operation
// triggered as a side effect of that operation's own outbound call. It
// is not a serialization primitive: independent transactions are
// ordered by the Distributor's lock, one level up, so that a nested
// synchronous callback observes a failure here instead of a deadlock
// there.
type ReentrancyGuard struct {
	busy atomic.Bool
}

// Enter marks the guard busy. It reports false if a guarded call is
// already in progress.
func (g *ReentrancyGuard) Enter() bool {
	return g.busy.CompareAndSwap(false, true)
}

// Exit clears the busy marker. It must run on every exit path of the
// guarded body.
func (g *ReentrancyGuard) Exit() {
	g.busy.Store(false)
}
