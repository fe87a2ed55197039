// Package notes maps frequencies to equal-tempered note names (A4 = 440 Hz).
package notes

import (
	"fmt"
	"math"
)

// NotApplicable is returned for frequencies that have no pitch.
const NotApplicable = "N/A"

const (
	a4MIDI = 69
	a4Hz   = 440.0
)

var names = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// MIDI returns the nearest MIDI note number for freq. freq must be > 0.
func MIDI(freq float64) int {
	return int(math.Round(a4MIDI + 12*math.Log2(freq/a4Hz)))
}

// Frequency returns the equal-tempered frequency of a MIDI note.
func Frequency(midi int) float64 {
	return a4Hz * math.Pow(2, float64(midi-a4MIDI)/12)
}

// Name returns the nearest note name with octave, e.g. "A4".
func Name(freq float64) string {
	if freq <= 0 {
		return NotApplicable
	}
	return MIDIName(MIDI(freq))
}

// MIDIName formats a MIDI note number as name and octave.
func MIDIName(midi int) string {
	idx := ((midi % 12) + 12) % 12
	octave := int(math.Floor(float64(midi)/12)) - 1
	return fmt.Sprintf("%s%d", names[idx], octave)
}
