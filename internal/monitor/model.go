package monitor

import (
	"math"
	"time"

	"github.com/RenatoCabral2022/eartone/internal/trainer"
)

type SessionResponse struct {
	SessionID        string        `json:"sessionId"`
	Difficulty       string        `json:"difficulty"`
	Backend          string        `json:"backend"`
	StartedAt        time.Time     `json:"startedAt"`
	Stats            trainer.Stats `json:"stats"`
	DirectionPercent float64       `json:"directionPercent"`
	AccuracyPercent  float64       `json:"accuracyPercent"`
	Rounds           []RoundView   `json:"rounds"`
}

// RoundView is a RoundRecord safe for JSON: a guess that is not a finite
// number is reported as null.
type RoundView struct {
	Round            int       `json:"round"`
	BaseFrequency    float64   `json:"baseHz"`
	BaseNote         string    `json:"baseNote"`
	DetunedFrequency float64   `json:"detunedHz"`
	Sharp            bool      `json:"sharp"`
	OffsetCents      float64   `json:"offsetCents"`
	LowerBoundCents  float64   `json:"lowerBoundCents"`
	UpperBoundCents  float64   `json:"upperBoundCents"`
	DirectionGuess   string    `json:"directionGuess"`
	CentsGuess       *float64  `json:"centsGuess"`
	DirectionCorrect bool      `json:"directionCorrect"`
	CentsCorrect     bool      `json:"centsCorrect"`
	Feedback         string    `json:"feedback"`
	Replays          int       `json:"replays"`
	CompletedAt      time.Time `json:"completedAt"`
}

func newRoundView(rec trainer.RoundRecord) RoundView {
	v := RoundView{
		Round:            rec.Round,
		BaseFrequency:    rec.BaseFrequency,
		BaseNote:         rec.BaseNote,
		DetunedFrequency: rec.DetunedFrequency,
		Sharp:            rec.Sharp,
		OffsetCents:      rec.OffsetCents,
		LowerBoundCents:  rec.LowerBoundCents,
		UpperBoundCents:  rec.UpperBoundCents,
		DirectionGuess:   rec.DirectionGuess,
		DirectionCorrect: rec.DirectionCorrect,
		CentsCorrect:     rec.CentsCorrect,
		Feedback:         rec.Feedback,
		Replays:          rec.Replays,
		CompletedAt:      rec.CompletedAt,
	}
	if !math.IsNaN(rec.CentsGuess) && !math.IsInf(rec.CentsGuess, 0) {
		g := rec.CentsGuess
		v.CentsGuess = &g
	}
	return v
}

type NoteResponse struct {
	Hz   float64 `json:"hz"`
	Note string  `json:"note"`
	MIDI *int    `json:"midi,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
