package trainer

import (
	"fmt"
	"io"
)

// Stats are the running session counters. They only ever grow.
type Stats struct {
	DirectionScore int `json:"directionScore"`
	AccuracyScore  int `json:"accuracyScore"`
	WrongBoth      int `json:"wrongBoth"`
	RoundsPlayed   int `json:"roundsPlayed"`
}

// Record returns the counters after one more scored round. AccuracyScore
// needs both answers right; WrongBoth needs both wrong.
func (s Stats) Record(directionCorrect, centsCorrect bool) Stats {
	s.RoundsPlayed++
	if directionCorrect {
		s.DirectionScore++
	}
	if directionCorrect && centsCorrect {
		s.AccuracyScore++
	}
	if !directionCorrect && !centsCorrect {
		s.WrongBoth++
	}
	return s
}

// DirectionPercent is DirectionScore/RoundsPlayed·100, or 0 before any round.
func (s Stats) DirectionPercent() float64 {
	return percent(s.DirectionScore, s.RoundsPlayed)
}

// AccuracyPercent is AccuracyScore/RoundsPlayed·100, or 0 before any round.
func (s Stats) AccuracyPercent() float64 {
	return percent(s.AccuracyScore, s.RoundsPlayed)
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// WriteSummary prints the five end-of-session lines.
func (s Stats) WriteSummary(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"Rounds Played: %d\nDirection Score: %d/%d\nAccuracy Score : %d/%d\nDirection Precision: %.0f%%\nAccuracy Precision: %.0f%%\n",
		s.RoundsPlayed,
		s.DirectionScore, s.RoundsPlayed,
		s.AccuracyScore, s.RoundsPlayed,
		s.DirectionPercent(),
		s.AccuracyPercent(),
	)
	return err
}
