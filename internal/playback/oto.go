package playback

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/oto/v2"

	"github.com/RenatoCabral2022/eartone/internal/audio"
)

const otoPollInterval = 10 * time.Millisecond

// Oto plays through hajimehoshi/oto. Only one oto context may exist per
// process.
type Oto struct {
	ctx        *oto.Context
	sampleRate int
}

// NewOto creates the oto context and waits for the driver to be ready.
func NewOto(sampleRate int) (*Oto, error) {
	ctx, ready, err := oto.NewContext(sampleRate, 1, oto.FormatSignedInt16LE)
	if err != nil {
		return nil, err
	}
	<-ready
	return &Oto{ctx: ctx, sampleRate: sampleRate}, nil
}

func (o *Oto) Play(ctx context.Context, buf audio.Buffer) error {
	if buf.SampleRate != o.sampleRate {
		return fmt.Errorf("buffer rate %d does not match device rate %d", buf.SampleRate, o.sampleRate)
	}
	if buf.Len() == 0 {
		return nil
	}
	p := o.ctx.NewPlayer(audio.NewReader(buf))
	defer p.Close()
	p.Play()

	ticker := time.NewTicker(otoPollInterval)
	defer ticker.Stop()
	for p.IsPlaying() {
		select {
		case <-ctx.Done():
			p.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return p.Err()
}

// Close suspends the driver. The oto context itself cannot be released.
func (o *Oto) Close() error {
	return o.ctx.Suspend()
}
