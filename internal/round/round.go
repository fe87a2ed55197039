// Package round picks the tones for each round and shrinks the detune range
// as the session progresses.
package round

import (
	"math"
	"math/rand"
	"strings"
)

const (
	// StartOffsetCents is the widest detune, used in the first round.
	StartOffsetCents = 100.0

	// Once the shrinking maximum reaches FloorCents the range is pinned to
	// [FloorLowCents, FloorCents].
	FloorCents    = 2.0
	FloorLowCents = 1.0

	// The lower bound is this fraction of the current maximum.
	lowerFraction = 0.25

	PoolLowHz  = 110.0
	PoolHighHz = 880.0
	PoolSize   = 50
)

// Difficulty is a named decay rate chosen once per session.
type Difficulty struct {
	Name      string
	DecayRate float64
}

var (
	Hard   = Difficulty{Name: "hard", DecayRate: 0.90}
	Medium = Difficulty{Name: "medium", DecayRate: 0.94}
	Easy   = Difficulty{Name: "easy", DecayRate: 0.98}
)

// ParseDifficulty matches s case-insensitively. Unknown input yields Hard
// and false.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case Hard.Name:
		return Hard, true
	case Medium.Name:
		return Medium, true
	case Easy.Name:
		return Easy, true
	}
	return Hard, false
}

// State is the difficulty schedule position. Index is zero-based.
type State struct {
	DecayRate float64
	Index     int
}

// NewState starts a schedule at round zero.
func NewState(d Difficulty) State {
	return State{DecayRate: d.DecayRate}
}

// MaxOffset returns 100·decay^index.
func (s State) MaxOffset() float64 {
	return StartOffsetCents * math.Pow(s.DecayRate, float64(s.Index))
}

// Bounds returns the cents range offsets are drawn from this round.
func (s State) Bounds() (lower, upper float64) {
	max := s.MaxOffset()
	if max <= FloorCents {
		return FloorLowCents, FloorCents
	}
	return max * lowerFraction, max
}

// Next returns the state for the following round.
func (s State) Next() State {
	s.Index++
	return s
}

// Params describes one round. Offset is always positive; Sharp holds the sign.
type Params struct {
	BaseFrequency   float64
	Sharp           bool
	OffsetCents     float64
	LowerBoundCents float64
	UpperBoundCents float64
}

// SignedOffset returns +OffsetCents when sharp and -OffsetCents when flat.
func (p Params) SignedOffset() float64 {
	if p.Sharp {
		return p.OffsetCents
	}
	return -p.OffsetCents
}

// DetunedFrequency returns base·2^(signed/1200).
func (p Params) DetunedFrequency() float64 {
	return Detune(p.BaseFrequency, p.SignedOffset())
}

// Detune shifts freq by cents.
func Detune(freq, cents float64) float64 {
	return freq * math.Pow(2, cents/1200)
}

// CentsBetween returns the interval from a to b in cents.
func CentsBetween(a, b float64) float64 {
	return 1200 * math.Log2(b/a)
}

// FrequencyPool returns n frequencies evenly spaced from lo to hi inclusive.
func FrequencyPool(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	pool := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range pool {
		pool[i] = lo + step*float64(i)
	}
	pool[n-1] = hi
	return pool
}

// DefaultPool is 50 frequencies from A2 to A5.
func DefaultPool() []float64 {
	return FrequencyPool(PoolLowHz, PoolHighHz, PoolSize)
}

// Generator draws round parameters from an injected random source so tests
// can reproduce a session from a seed.
type Generator struct {
	pool []float64
	rng  *rand.Rand
}

// NewGenerator uses DefaultPool when pool is empty.
func NewGenerator(pool []float64, rng *rand.Rand) *Generator {
	if len(pool) == 0 {
		pool = DefaultPool()
	}
	return &Generator{pool: pool, rng: rng}
}

// Next draws the base frequency, offset and direction for the round at s.
func (g *Generator) Next(s State) Params {
	base := g.pool[g.rng.Intn(len(g.pool))]
	lower, upper := s.Bounds()
	offset := lower + (upper-lower)*g.rng.Float64()
	// Float64 can return exactly 0; keep the offset strictly positive.
	if offset <= 0 {
		offset = lower
	}
	return Params{
		BaseFrequency:   base,
		Sharp:           g.rng.Intn(2) == 1,
		OffsetCents:     offset,
		LowerBoundCents: lower,
		UpperBoundCents: upper,
	}
}
