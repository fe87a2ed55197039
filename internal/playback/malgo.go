package playback

import (
	"context"
	"fmt"

	"github.com/gen2brain/malgo"
	"go.uber.org/zap"

	"github.com/RenatoCabral2022/eartone/internal/audio"
)

// Malgo plays through miniaudio. The device runs for the lifetime of the
// value and outputs silence between buffers.
type Malgo struct {
	ctx        *malgo.AllocatedContext
	device     *malgo.Device
	sampleRate int
	stream     stream
	scratch    []int16
}

// NewMalgo opens the default playback device as mono s16.
func NewMalgo(sampleRate int, logger *zap.Logger) (*Malgo, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		logger.Debug("malgo", zap.String("message", message))
	})
	if err != nil {
		return nil, fmt.Errorf("init context: %w", err)
	}

	m := &Malgo{ctx: ctx, sampleRate: sampleRate}

	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.Playback.Format = malgo.FormatS16
	config.Playback.Channels = 1
	config.SampleRate = uint32(sampleRate)
	config.Alsa.NoMMap = 1

	device, err := malgo.InitDevice(ctx.Context, config, malgo.DeviceCallbacks{
		Data: m.onData,
	})
	if err != nil {
		m.freeContext()
		return nil, fmt.Errorf("init device: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		m.freeContext()
		return nil, fmt.Errorf("start device: %w", err)
	}
	m.device = device
	return m, nil
}

// onData is the miniaudio callback. output is mono s16le.
func (m *Malgo) onData(output, _ []byte, frameCount uint32) {
	n := int(frameCount)
	if cap(m.scratch) < n {
		m.scratch = make([]int16, n)
	}
	frames := m.scratch[:n]
	m.stream.fill(frames)
	audio.PutFrames(output, frames)
}

func (m *Malgo) Play(ctx context.Context, buf audio.Buffer) error {
	if buf.SampleRate != m.sampleRate {
		return fmt.Errorf("buffer rate %d does not match device rate %d", buf.SampleRate, m.sampleRate)
	}
	return m.stream.play(ctx, buf.Samples)
}

func (m *Malgo) Close() error {
	m.stream.close()
	err := m.device.Stop()
	m.device.Uninit()
	m.freeContext()
	return err
}

func (m *Malgo) freeContext() {
	_ = m.ctx.Uninit()
	m.ctx.Free()
}
