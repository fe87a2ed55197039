// Package playback sends rendered buffers to an audio device and blocks
// until they have been played.
package playback

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/RenatoCabral2022/eartone/internal/audio"
	"github.com/RenatoCabral2022/eartone/internal/metrics"
)

// Backend names accepted by New.
const (
	BackendOto       = "oto"
	BackendMalgo     = "malgo"
	BackendPortAudio = "portaudio"
	BackendNull      = "null"
)

// Backends lists every backend New understands.
var Backends = []string{BackendOto, BackendMalgo, BackendPortAudio, BackendNull}

// Device plays mono int16 buffers at one fixed sample rate.
type Device interface {
	Play(ctx context.Context, buf audio.Buffer) error
	Close() error
}

// New opens the named backend at sampleRate. The returned Device records
// playback metrics.
func New(backend string, sampleRate int, logger *zap.Logger) (Device, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	name := strings.ToLower(strings.TrimSpace(backend))

	var (
		dev Device
		err error
	)
	switch name {
	case BackendOto:
		dev, err = NewOto(sampleRate)
	case BackendMalgo:
		dev, err = NewMalgo(sampleRate, logger)
	case BackendPortAudio:
		dev, err = NewPortAudio(sampleRate)
	case BackendNull:
		dev = NewNull()
	default:
		return nil, fmt.Errorf("unknown playback backend %q (want one of %s)", backend, strings.Join(Backends, ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", name, err)
	}

	logger.Info("playback device opened", zap.String("backend", name), zap.Int("sampleRate", sampleRate))
	return Instrument(name, dev, logger), nil
}

// Instrument wraps dev so every Play is timed and failures are counted
// under the backend label.
func Instrument(backend string, dev Device, logger *zap.Logger) Device {
	return &measured{Device: dev, backend: backend, logger: logger}
}

type measured struct {
	Device
	backend string
	logger  *zap.Logger
}

func (m *measured) Play(ctx context.Context, buf audio.Buffer) error {
	start := time.Now()
	err := m.Device.Play(ctx, buf)
	metrics.PlaybackDuration.WithLabelValues(m.backend).Observe(float64(time.Since(start).Milliseconds()))
	if err != nil && ctx.Err() == nil {
		metrics.PlaybackErrorsTotal.WithLabelValues(m.backend).Inc()
		m.logger.Error("playback failed", zap.String("backend", m.backend), zap.Error(err))
	}
	return err
}
