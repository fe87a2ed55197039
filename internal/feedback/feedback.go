// Package feedback renders the audio stings played after each scored round.
package feedback

import (
	"fmt"
	"math"
	"strings"

	"github.com/RenatoCabral2022/eartone/internal/audio"
)

// Kind identifies one of the four round outcomes.
type Kind int

const (
	// Correct: direction and cents both right.
	Correct Kind = iota
	// Incorrect: direction and cents both wrong.
	Incorrect
	// Wobble: direction wrong, cents right.
	Wobble
	// NearMiss: direction right, cents wrong.
	NearMiss
)

// Kinds lists every sting in a stable order.
var Kinds = []Kind{Correct, Incorrect, Wobble, NearMiss}

func (k Kind) String() string {
	switch k {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	case Wobble:
		return "wobble"
	case NearMiss:
		return "near-miss"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind resolves a sting name as printed by Kind.String.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown feedback kind %q", s)
}

// KindFor picks the sting for a scored round.
func KindFor(directionCorrect, centsCorrect bool) Kind {
	switch {
	case directionCorrect && centsCorrect:
		return Correct
	case !directionCorrect && !centsCorrect:
		return Incorrect
	case !directionCorrect:
		return Wobble
	default:
		return NearMiss
	}
}

// TrailingSilence is appended to every sting so a cut-off playback never
// truncates the last note.
const TrailingSilence = 0.5

var (
	// Two cycles of a descending octave-pair motif.
	correctFreqs = []float64{55, 41.2, 110, 82.41, 220, 164.81, 440, 329.63}

	// C4, F#3, C#4.
	nearMissFreqs = []float64{261.63, 185, 277.18}
)

const (
	correctNoteSec = 0.1
	correctGapSec  = 0.025

	incorrectStartHz = 246.94 // B3
	incorrectNotes   = 8
	incorrectNoteSec = 0.2
	incorrectGapSec  = 0.05

	wobbleSec    = 0.8
	wobbleBaseHz = 300.0
	wobbleDepth  = 80.0
	wobbleCycles = 4

	nearMissNoteSec = 0.1
	nearMissGapSec  = 0.05
)

// Composer builds stings at a fixed sample rate and volume.
type Composer struct {
	sampleRate int
	volume     float64
}

// Option configures a Composer.
type Option func(*Composer)

// WithSampleRate overrides the 44.1 kHz default.
func WithSampleRate(rate int) Option {
	return func(c *Composer) {
		if rate > 0 {
			c.sampleRate = rate
		}
	}
}

// WithVolume overrides the 0.3 default.
func WithVolume(v float64) Option {
	return func(c *Composer) {
		if v >= 0 && v <= 1 {
			c.volume = v
		}
	}
}

// NewComposer creates a Composer with defaults applied before opts.
func NewComposer(opts ...Option) *Composer {
	c := &Composer{
		sampleRate: audio.DefaultSampleRate,
		volume:     audio.DefaultVolume,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// SampleRate returns the rate every sting is rendered at.
func (c *Composer) SampleRate() int {
	return c.sampleRate
}

// Render returns the sting for k.
func (c *Composer) Render(k Kind) (audio.Buffer, error) {
	switch k {
	case Correct:
		return c.Correct(), nil
	case Incorrect:
		return c.Incorrect(), nil
	case Wobble:
		return c.Wobble(), nil
	case NearMiss:
		return c.NearMiss(), nil
	}
	return audio.Buffer{}, fmt.Errorf("unknown feedback kind %d", int(k))
}

// Correct plays the octave-pair motif, 0.1 s per note with 0.025 s gaps.
func (c *Composer) Correct() audio.Buffer {
	notes := make([]note, len(correctFreqs))
	for i, f := range correctFreqs {
		notes[i] = note{freq: f, dur: correctNoteSec}
	}
	return c.sequence(notes, correctGapSec)
}

// Incorrect plays a descending chromatic run from B3; the last note is held
// twice as long.
func (c *Composer) Incorrect() audio.Buffer {
	notes := make([]note, incorrectNotes)
	for i := range notes {
		dur := incorrectNoteSec
		if i == incorrectNotes-1 {
			dur *= 2
		}
		notes[i] = note{
			freq: incorrectStartHz * math.Pow(2, -float64(i)/12),
			dur:  dur,
		}
	}
	return c.sequence(notes, incorrectGapSec)
}

// Wobble plays a single frequency-modulated tone with four "wah" cycles
// whose depth grows over the tone.
func (c *Composer) Wobble() audio.Buffer {
	tone := audio.Render(wobblePhase(wobbleBaseHz, wobbleDepth, wobbleSec), wobbleSec, c.sampleRate, c.volume)
	return audio.Concat(tone, audio.Silence(TrailingSilence, c.sampleRate))
}

// NearMiss plays C4, F#3, C#4 at 0.1 s each with 0.05 s gaps.
func (c *Composer) NearMiss() audio.Buffer {
	notes := make([]note, len(nearMissFreqs))
	for i, f := range nearMissFreqs {
		notes[i] = note{freq: f, dur: nearMissNoteSec}
	}
	return c.sequence(notes, nearMissGapSec)
}

type note struct {
	freq float64
	dur  float64
}

// sequence renders notes separated by gapSec of silence, with no gap after
// the last note, then appends the trailing silence.
func (c *Composer) sequence(notes []note, gapSec float64) audio.Buffer {
	parts := make([]audio.Buffer, 0, 2*len(notes))
	gap := audio.Silence(gapSec, c.sampleRate)
	for i, n := range notes {
		parts = append(parts, audio.Sine(n.freq, n.dur, c.sampleRate, c.volume))
		if i < len(notes)-1 {
			parts = append(parts, gap)
		}
	}
	parts = append(parts, audio.Silence(TrailingSilence, c.sampleRate))
	return audio.Concat(parts...)
}

// wobblePhase returns sin(φ(t)) with
// φ(t) = 2π·[b·t − (c/m)·t·cos(m·t) + (c/m²)·sin(m·t)] and m = 2π·cycles/duration.
func wobblePhase(b, c, duration float64) func(t float64) float64 {
	m := 2 * math.Pi * wobbleCycles / duration
	return func(t float64) float64 {
		phase := 2 * math.Pi * (b*t - (c/m)*t*math.Cos(m*t) + (c/(m*m))*math.Sin(m*t))
		return math.Sin(phase)
	}
}
