package playback

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Play after Close.
var ErrClosed = errors.New("playback device closed")

// stream hands queued samples to a pull-style device callback. The callback
// runs on the audio thread; Play runs on the caller's goroutine.
type stream struct {
	mu      sync.Mutex
	samples []int16
	pos     int
	done    chan struct{}
	closed  bool
}

// play queues samples and waits until the callback has consumed all of them.
func (s *stream) play(ctx context.Context, samples []int16) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if len(samples) == 0 {
		s.mu.Unlock()
		return nil
	}
	done := make(chan struct{})
	s.samples, s.pos, s.done = samples, 0, done
	s.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.stop()
		return ctx.Err()
	}
}

// fill copies the next samples into out and pads the rest with silence.
func (s *stream) fill(out []int16) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	if s.samples != nil {
		n = copy(out, s.samples[s.pos:])
		s.pos += n
		if s.pos >= len(s.samples) {
			s.finish()
		}
	}
	clear(out[n:])
}

// stop drops whatever is queued. Caller must not hold mu.
func (s *stream) stop() {
	s.mu.Lock()
	s.finish()
	s.mu.Unlock()
}

func (s *stream) close() {
	s.mu.Lock()
	s.finish()
	s.closed = true
	s.mu.Unlock()
}

// finish releases the waiting Play. Caller holds mu.
func (s *stream) finish() {
	if s.done != nil {
		close(s.done)
	}
	s.samples, s.pos, s.done = nil, 0, nil
}
