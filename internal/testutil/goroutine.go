// Package testutil holds helpers shared by package tests.
package testutil

import (
	"runtime"
	"testing"
	"time"
)

const settlePoll = 50 * time.Millisecond

// Goroutines is a goroutine count taken before a test starts background work.
type Goroutines int

// SnapshotGoroutines records the current goroutine count.
func SnapshotGoroutines() Goroutines {
	return Goroutines(runtime.NumGoroutine())
}

// Settled fails t unless the goroutine count drops back to within margin of
// the snapshot before within elapses. Servers and devices close their
// goroutines asynchronously, so the count is polled.
func (g Goroutines) Settled(t testing.TB, margin int, within time.Duration) {
	t.Helper()
	limit := int(g) + margin
	deadline := time.Now().Add(within)
	for {
		current := runtime.NumGoroutine()
		if current <= limit {
			return
		}
		if time.Now().After(deadline) {
			t.Errorf("goroutines did not settle: before=%d now=%d margin=%d", int(g), current, margin)
			return
		}
		time.Sleep(settlePoll)
	}
}
