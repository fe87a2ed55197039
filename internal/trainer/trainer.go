// Package trainer runs an ear-training session: it plays each round's tone
// pair, collects the player's guesses, scores them and plays feedback.
package trainer

import (
	"context"
	"errors"
	"time"

	"github.com/RenatoCabral2022/eartone/internal/audio"
)

// ErrQuit is returned when the player asks to quit. The round in progress
// is abandoned and not scored.
var ErrQuit = errors.New("player quit")

// Player plays a buffer and blocks until it has finished.
type Player interface {
	Play(ctx context.Context, buf audio.Buffer) error
}

// Key is a decoded keypress.
type Key int

const (
	KeyOther Key = iota
	KeyUp
	KeyDown
	KeySpace
	KeyQuit
)

func (k Key) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeySpace:
		return "space"
	case KeyQuit:
		return "quit"
	}
	return "other"
}

// KeyReader blocks until one key is pressed.
type KeyReader interface {
	ReadKey() (Key, error)
}

// LineReader shows prompt and blocks until a line is entered. The returned
// line has its line terminator removed and nothing else.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// Observer is told about every completed round.
type Observer interface {
	RoundCompleted(rec RoundRecord)
}

// Direction is the player's guess of which way the second tone moved.
type Direction int

const (
	Up Direction = iota + 1
	Down
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return "none"
}

// RoundRecord is the outcome of one completed round.
type RoundRecord struct {
	Round            int       `json:"round"`
	BaseFrequency    float64   `json:"baseHz"`
	BaseNote         string    `json:"baseNote"`
	DetunedFrequency float64   `json:"detunedHz"`
	Sharp            bool      `json:"sharp"`
	OffsetCents      float64   `json:"offsetCents"`
	LowerBoundCents  float64   `json:"lowerBoundCents"`
	UpperBoundCents  float64   `json:"upperBoundCents"`
	DirectionGuess   string    `json:"directionGuess"`
	CentsGuess       float64   `json:"centsGuess"`
	DirectionCorrect bool      `json:"directionCorrect"`
	CentsCorrect     bool      `json:"centsCorrect"`
	Feedback         string    `json:"feedback"`
	Replays          int       `json:"replays"`
	Stats            Stats     `json:"stats"`
	CompletedAt      time.Time `json:"completedAt"`
}
