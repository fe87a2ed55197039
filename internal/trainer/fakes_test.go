package trainer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"

	"github.com/RenatoCabral2022/eartone/internal/audio"
	"github.com/RenatoCabral2022/eartone/internal/round"
)

type recordingPlayer struct {
	played []audio.Buffer
	failAt int // 1-based play call that fails; 0 never fails
}

func (p *recordingPlayer) Play(ctx context.Context, buf audio.Buffer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.played = append(p.played, buf)
	if p.failAt > 0 && len(p.played) == p.failAt {
		return errors.New("device unplugged")
	}
	return nil
}

type scriptedKeys struct {
	keys []Key
	pos  int
}

func (k *scriptedKeys) ReadKey() (Key, error) {
	if k.pos >= len(k.keys) {
		return KeyOther, io.EOF
	}
	key := k.keys[k.pos]
	k.pos++
	return key, nil
}

type scriptedLines struct {
	lines   []string
	prompts []string
	pos     int
}

func (l *scriptedLines) ReadLine(prompt string) (string, error) {
	l.prompts = append(l.prompts, prompt)
	if l.pos >= len(l.lines) {
		return "", io.EOF
	}
	line := l.lines[l.pos]
	l.pos++
	return line, nil
}

type collectingObserver struct {
	records []RoundRecord
}

func (o *collectingObserver) RoundCompleted(rec RoundRecord) {
	o.records = append(o.records, rec)
}

// answer describes how the script responds to one round.
type answer struct {
	directionRight bool
	centsRight     bool
}

// script precomputes the key and line input that produces the given answers,
// using a twin generator seeded like the session's own.
func script(seed int64, d round.Difficulty, answers []answer) (*scriptedKeys, *scriptedLines) {
	twin := round.NewGenerator(nil, rand.New(rand.NewSource(seed)))
	state := round.NewState(d)
	keys := &scriptedKeys{}
	lines := &scriptedLines{}
	for _, a := range answers {
		p := twin.Next(state)
		up := p.Sharp == a.directionRight
		if up {
			keys.keys = append(keys.keys, KeyUp)
		} else {
			keys.keys = append(keys.keys, KeyDown)
		}
		if a.centsRight {
			lines.lines = append(lines.lines, fmt.Sprintf("%.6f", p.OffsetCents))
		} else {
			lines.lines = append(lines.lines, fmt.Sprintf("%.6f", p.OffsetCents*3))
		}
		state = state.Next()
	}
	return keys, lines
}

func repeat(a answer, n int) []answer {
	out := make([]answer, n)
	for i := range out {
		out[i] = a
	}
	return out
}
