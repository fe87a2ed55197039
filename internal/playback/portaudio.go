package playback

import (
	"context"
	"fmt"

	"github.com/gordonklaus/portaudio"

	"github.com/RenatoCabral2022/eartone/internal/audio"
)

// portAudioFramesPerBuffer lets PortAudio pick its preferred buffer size.
const portAudioFramesPerBuffer = 0

// PortAudio plays through the default PortAudio output stream.
type PortAudio struct {
	s          *portaudio.Stream
	sampleRate int
	stream     stream
}

// NewPortAudio initializes PortAudio and starts a mono int16 output stream.
func NewPortAudio(sampleRate int) (*PortAudio, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	p := &PortAudio{sampleRate: sampleRate}
	s, err := portaudio.OpenDefaultStream(0, 1, float64(sampleRate), portAudioFramesPerBuffer, p.onData)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open stream: %w", err)
	}
	if err := s.Start(); err != nil {
		s.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("start stream: %w", err)
	}
	p.s = s
	return p, nil
}

func (p *PortAudio) onData(out []int16) {
	p.stream.fill(out)
}

func (p *PortAudio) Play(ctx context.Context, buf audio.Buffer) error {
	if buf.SampleRate != p.sampleRate {
		return fmt.Errorf("buffer rate %d does not match device rate %d", buf.SampleRate, p.sampleRate)
	}
	return p.stream.play(ctx, buf.Samples)
}

func (p *PortAudio) Close() error {
	p.stream.close()
	if err := p.s.Stop(); err != nil {
		p.s.Close()
		portaudio.Terminate()
		return fmt.Errorf("stop stream: %w", err)
	}
	if err := p.s.Close(); err != nil {
		portaudio.Terminate()
		return fmt.Errorf("close stream: %w", err)
	}
	return portaudio.Terminate()
}
