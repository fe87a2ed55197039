package trainer

import (
	"strconv"
	"strings"
)

const (
	toleranceLow  = 0.8
	toleranceHigh = 1.2

	// ReplayToken is the exact line that asks for the tones again.
	ReplayToken = " "
	quitToken   = "q"
)

// Guess holds one round's answers and how they scored.
type Guess struct {
	Direction        Direction
	Cents            float64
	DirectionCorrect bool
	CentsCorrect     bool
}

// DirectionCorrect reports whether guess matches the detune direction.
func DirectionCorrect(guess Direction, sharp bool) bool {
	return (guess == Up && sharp) || (guess == Down && !sharp)
}

// MagnitudeCorrect reports whether offset lies in [0.8·guess, 1.2·guess].
// The band is relative to the guess, not the true offset. Zero, negative and
// NaN guesses never match.
func MagnitudeCorrect(guess, offset float64) bool {
	if !(guess > 0) {
		return false
	}
	return toleranceLow*guess <= offset && offset <= toleranceHigh*guess
}

// InputKind tags a parsed magnitude line.
type InputKind int

const (
	InputInvalid InputKind = iota
	InputNumber
	InputReplay
	InputQuit
)

// MagnitudeInput is a parsed line from the cents prompt.
type MagnitudeInput struct {
	Kind  InputKind
	Cents float64
}

// ParseMagnitude classifies a raw line. Replay must match ReplayToken
// exactly; quit is "q" in any case with surrounding whitespace ignored.
// Numbers are decimal only: hex floats such as 0x1p4 are rejected, and
// single underscores between digits (1_000) are accepted.
func ParseMagnitude(raw string) MagnitudeInput {
	if strings.ToLower(strings.TrimSpace(raw)) == quitToken {
		return MagnitudeInput{Kind: InputQuit}
	}
	if raw == ReplayToken {
		return MagnitudeInput{Kind: InputReplay}
	}
	v, ok := parseDecimal(strings.TrimSpace(raw))
	if !ok {
		return MagnitudeInput{Kind: InputInvalid}
	}
	return MagnitudeInput{Kind: InputNumber, Cents: v}
}

func parseDecimal(s string) (float64, bool) {
	digits := strings.TrimLeft(s, "+-")
	if len(digits) > 1 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, false
	}
	if strings.Contains(s, "_") {
		for i := 0; i < len(s); i++ {
			if s[i] != '_' {
				continue
			}
			if i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1]) {
				return 0, false
			}
		}
		s = strings.ReplaceAll(s, "_", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
