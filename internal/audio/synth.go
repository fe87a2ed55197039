package audio

import (
	"math"
	"time"
)

const (
	DefaultSampleRate = 44100
	DefaultVolume     = 0.3

	// FullScale is the largest magnitude a quantized sample may take.
	FullScale = 1<<15 - 1
)

// Buffer is one rendered sound: mono int16 PCM at a fixed sample rate.
// Buffers are never mutated after they are built.
type Buffer struct {
	Samples    []int16
	SampleRate int
}

// Len returns the number of samples in the buffer.
func (b Buffer) Len() int {
	return len(b.Samples)
}

// Duration returns the playback length of the buffer.
func (b Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(b.Samples)) / float64(b.SampleRate) * float64(time.Second))
}

// SampleCount returns round(durationSec * sampleRate).
func SampleCount(durationSec float64, sampleRate int) int {
	return int(math.Round(durationSec * float64(sampleRate)))
}

// Quantize maps a value in [-1, 1] scaled by volume to the nearest int16,
// saturating at ±FullScale.
func Quantize(x, volume float64) int16 {
	v := math.Round(x * volume * FullScale)
	if v > FullScale {
		v = FullScale
	} else if v < -FullScale {
		v = -FullScale
	}
	return int16(v)
}

// Sine renders a pure tone. Time points are evenly spaced over the duration
// starting at zero with the endpoint excluded. Arguments are not validated.
func Sine(frequency, durationSec float64, sampleRate int, volume float64) Buffer {
	n := SampleCount(durationSec, sampleRate)
	samples := make([]int16, n)
	for i := range samples {
		t := float64(i) * durationSec / float64(n)
		samples[i] = Quantize(math.Sin(2*math.Pi*frequency*t), volume)
	}
	return Buffer{Samples: samples, SampleRate: sampleRate}
}

// Silence renders a zero-filled gap.
func Silence(durationSec float64, sampleRate int) Buffer {
	return Buffer{
		Samples:    make([]int16, SampleCount(durationSec, sampleRate)),
		SampleRate: sampleRate,
	}
}

// Render samples fn(t) over the duration and quantizes the result. It is the
// general form of Sine for signals whose phase is not linear in t.
func Render(fn func(t float64) float64, durationSec float64, sampleRate int, volume float64) Buffer {
	n := SampleCount(durationSec, sampleRate)
	samples := make([]int16, n)
	for i := range samples {
		t := float64(i) * durationSec / float64(n)
		samples[i] = Quantize(fn(t), volume)
	}
	return Buffer{Samples: samples, SampleRate: sampleRate}
}

// Concat joins buffers end to end. The sample rate of the first non-empty
// argument wins; callers only concatenate buffers rendered at one rate.
func Concat(parts ...Buffer) Buffer {
	total := 0
	rate := 0
	for _, p := range parts {
		total += len(p.Samples)
		if rate == 0 {
			rate = p.SampleRate
		}
	}
	out := make([]int16, 0, total)
	for _, p := range parts {
		out = append(out, p.Samples...)
	}
	return Buffer{Samples: out, SampleRate: rate}
}
