package playback

import (
	"context"
	"sync"
	"time"

	"github.com/RenatoCabral2022/eartone/internal/audio"
)

// Null discards audio. By default it sleeps for each buffer's duration so
// the session keeps real-time pacing.
type Null struct {
	instant bool

	mu     sync.Mutex
	played []audio.Buffer
	closed bool
}

// NullOption configures a Null device.
type NullOption func(*Null)

// Instant makes Play return without waiting.
func Instant() NullOption {
	return func(n *Null) { n.instant = true }
}

// NewNull returns a silent device.
func NewNull(opts ...NullOption) *Null {
	n := &Null{}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Null) Play(ctx context.Context, buf audio.Buffer) error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return ErrClosed
	}
	n.played = append(n.played, buf)
	n.mu.Unlock()

	if n.instant {
		return ctx.Err()
	}
	t := time.NewTimer(buf.Duration())
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Played returns the buffers passed to Play so far.
func (n *Null) Played() []audio.Buffer {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]audio.Buffer, len(n.played))
	copy(out, n.played)
	return out
}

func (n *Null) Close() error {
	n.mu.Lock()
	n.closed = true
	n.mu.Unlock()
	return nil
}
