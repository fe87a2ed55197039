// Package history keeps the most recent completed rounds of a session for
// the monitor endpoint.
package history

import (
	"sync"

	"github.com/RenatoCabral2022/eartone/internal/trainer"
)

// DefaultCapacity covers a full 40-round session.
const DefaultCapacity = 64

// Ring holds a fixed number of round records, overwriting the oldest when
// full. It is safe for one writer and any number of readers.
type Ring struct {
	mu       sync.Mutex
	buf      []trainer.RoundRecord
	writePos int
	capacity int
	written  int // total records ever written
}

// New creates a ring holding up to capacity records. A non-positive
// capacity falls back to DefaultCapacity.
func New(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{
		buf:      make([]trainer.RoundRecord, capacity),
		capacity: capacity,
	}
}

// Write appends rec, overwriting the oldest record when full.
func (r *Ring) Write(rec trainer.RoundRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf[r.writePos] = rec
	r.writePos = (r.writePos + 1) % r.capacity
	r.written++
}

// RoundCompleted implements trainer.Observer.
func (r *Ring) RoundCompleted(rec trainer.RoundRecord) {
	r.Write(rec)
}

// Snapshot returns a copy of the last n records, oldest first. If fewer
// have been written, only those are returned. n <= 0 means all stored.
func (r *Ring) Snapshot(n int) []trainer.RoundRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	available := r.available()
	if n <= 0 || n > available {
		n = available
	}
	if n == 0 {
		return nil
	}

	out := make([]trainer.RoundRecord, n)
	start := (r.writePos - n + r.capacity) % r.capacity
	if start+n <= r.capacity {
		copy(out, r.buf[start:start+n])
	} else {
		first := r.capacity - start
		copy(out[:first], r.buf[start:])
		copy(out[first:], r.buf[:n-first])
	}
	return out
}

// Latest returns the most recent record, if any.
func (r *Ring) Latest() (trainer.RoundRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.written == 0 {
		return trainer.RoundRecord{}, false
	}
	return r.buf[(r.writePos-1+r.capacity)%r.capacity], true
}

// Len returns the number of records currently stored.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.available()
}

// Total returns the number of records ever written.
func (r *Ring) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.written
}

func (r *Ring) available() int {
	if r.written > r.capacity {
		return r.capacity
	}
	return r.written
}
