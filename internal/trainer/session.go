package trainer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/RenatoCabral2022/eartone/internal/audio"
	"github.com/RenatoCabral2022/eartone/internal/feedback"
	"github.com/RenatoCabral2022/eartone/internal/metrics"
	"github.com/RenatoCabral2022/eartone/internal/notes"
	"github.com/RenatoCabral2022/eartone/internal/round"
)

// Config holds the fixed session parameters.
type Config struct {
	MaxRounds    int
	MaxWrongBoth int
	ToneSec      float64
	GapSec       float64
	SampleRate   int
	Volume       float64
}

// DefaultConfig returns the standard 40-round, five-strike session.
func DefaultConfig() Config {
	return Config{
		MaxRounds:    40,
		MaxWrongBoth: 5,
		ToneSec:      1.0,
		GapSec:       0.5,
		SampleRate:   audio.DefaultSampleRate,
		Volume:       audio.DefaultVolume,
	}
}

// IO groups the collaborators a session talks to.
type IO struct {
	Player   Player
	Keys     KeyReader
	Lines    LineReader
	Out      io.Writer
	Observer Observer
}

// Session drives rounds until the round limit, the wrong-both limit or a
// quit request. It is single-threaded; every call blocks.
type Session struct {
	ID         string
	cfg        Config
	difficulty round.Difficulty
	gen        *round.Generator
	composer   *feedback.Composer
	io         IO
	logger     *zap.Logger
}

// New creates a session. A nil Observer is allowed.
func New(id string, cfg Config, difficulty round.Difficulty, gen *round.Generator, rw IO, logger *zap.Logger) *Session {
	if rw.Out == nil {
		rw.Out = io.Discard
	}
	return &Session{
		ID:         id,
		cfg:        cfg,
		difficulty: difficulty,
		gen:        gen,
		composer:   feedback.NewComposer(feedback.WithSampleRate(cfg.SampleRate), feedback.WithVolume(cfg.Volume)),
		io:         rw,
		logger:     logger.With(zap.String("session", id)),
	}
}

// Difficulty returns the schedule chosen for this session.
func (s *Session) Difficulty() round.Difficulty {
	return s.difficulty
}

// Run plays the session. The returned Stats cover completed rounds only. A
// quit yields ErrQuit alongside the stats gathered so far.
func (s *Session) Run(ctx context.Context) (Stats, error) {
	s.logger.Info("session started",
		zap.String("difficulty", s.difficulty.Name),
		zap.Float64("decay", s.difficulty.DecayRate),
		zap.Int("maxRounds", s.cfg.MaxRounds),
	)

	var stats Stats
	state := round.NewState(s.difficulty)
	end := "completed"

	for state.Index < s.cfg.MaxRounds {
		if err := ctx.Err(); err != nil {
			metrics.SessionsTotal.WithLabelValues("cancelled").Inc()
			return stats, err
		}

		next, err := s.PlayRound(ctx, state, stats)
		if err != nil {
			switch {
			case errors.Is(err, ErrQuit):
				metrics.SessionsTotal.WithLabelValues("quit").Inc()
			case ctx.Err() != nil:
				metrics.SessionsTotal.WithLabelValues("cancelled").Inc()
			default:
				metrics.SessionsTotal.WithLabelValues("error").Inc()
			}
			s.logger.Info("session ended early", zap.Int("rounds", stats.RoundsPlayed), zap.Error(err))
			return stats, err
		}
		stats = next

		if stats.WrongBoth >= s.cfg.MaxWrongBoth {
			fmt.Fprintf(s.io.Out, "\nYou've gotten %d rounds completely wrong (both direction and cents).\n", stats.WrongBoth)
			end = "wrong_both"
			break
		}
		state = state.Next()
	}

	metrics.SessionsTotal.WithLabelValues(end).Inc()
	s.logger.Info("session finished",
		zap.String("end", end),
		zap.Int("rounds", stats.RoundsPlayed),
		zap.Int("directionScore", stats.DirectionScore),
		zap.Int("accuracyScore", stats.AccuracyScore),
	)
	return stats, nil
}

// tonePair is the rendered base and detuned tones of one round.
type tonePair struct {
	base, gap, detuned audio.Buffer
}

// PlayRound plays one round at state and returns the updated counters. On
// error the round is abandoned and stats comes back unchanged.
func (s *Session) PlayRound(ctx context.Context, state round.State, stats Stats) (Stats, error) {
	number := state.Index + 1
	params := s.gen.Next(state)
	detuned := params.DetunedFrequency()
	baseNote := notes.Name(params.BaseFrequency)

	metrics.CurrentRound.Set(float64(number))
	metrics.MaxOffsetCents.Set(params.UpperBoundCents)
	metrics.OopsieDaisiesLeft.Set(float64(s.cfg.MaxWrongBoth - stats.WrongBoth))
	metrics.OffsetCents.Observe(params.OffsetCents)

	s.logger.Debug("round generated",
		zap.Int("round", number),
		zap.Float64("baseHz", params.BaseFrequency),
		zap.Float64("detunedHz", detuned),
		zap.Bool("sharp", params.Sharp),
		zap.Float64("offsetCents", params.OffsetCents),
		zap.Float64("lowerBound", params.LowerBoundCents),
		zap.Float64("upperBound", params.UpperBoundCents),
	)

	fmt.Fprintf(s.io.Out, "\n=== Round %d === (Round %d/%d) Player has %d/%d Oopsie Daisies Left\n",
		number, number, s.cfg.MaxRounds, s.cfg.MaxWrongBoth-stats.WrongBoth, s.cfg.MaxWrongBoth)

	tones := tonePair{
		base:    audio.Sine(params.BaseFrequency, s.cfg.ToneSec, s.cfg.SampleRate, s.cfg.Volume),
		gap:     audio.Silence(s.cfg.GapSec, s.cfg.SampleRate),
		detuned: audio.Sine(detuned, s.cfg.ToneSec, s.cfg.SampleRate, s.cfg.Volume),
	}

	fmt.Fprintf(s.io.Out, "Playing base tone: %s (%.2f Hz)\n", baseNote, params.BaseFrequency)
	if err := s.play(ctx, tones.base); err != nil {
		return stats, err
	}
	if err := s.play(ctx, tones.gap); err != nil {
		return stats, err
	}
	fmt.Fprintln(s.io.Out, "Playing detuned tone...")
	if err := s.play(ctx, tones.detuned); err != nil {
		return stats, err
	}

	replays := 0
	dir, n, err := s.awaitDirection(ctx, tones)
	replays += n
	if err != nil {
		return stats, err
	}

	guess := Guess{Direction: dir, DirectionCorrect: DirectionCorrect(dir, params.Sharp)}
	if guess.DirectionCorrect {
		fmt.Fprintln(s.io.Out, "Direction: Correct!")
		metrics.DirectionCorrectTotal.Inc()
	} else {
		fmt.Fprintln(s.io.Out, "Direction: Incorrect!")
	}

	cents, n, err := s.awaitMagnitude(ctx, params, tones)
	replays += n
	if err != nil {
		return stats, err
	}
	guess.Cents = cents
	guess.CentsCorrect = MagnitudeCorrect(cents, params.OffsetCents)
	if guess.CentsCorrect {
		fmt.Fprintf(s.io.Out, "Cents: Correct! Offset = %.2f\n", params.OffsetCents)
	} else {
		fmt.Fprintf(s.io.Out, "Cents: Incorrect! The actual detune was %.2f cents.\n", params.OffsetCents)
	}
	if cents > 0 {
		metrics.GuessErrorRatio.Observe(cents / params.OffsetCents)
	}

	kind := feedback.KindFor(guess.DirectionCorrect, guess.CentsCorrect)
	sting, err := s.composer.Render(kind)
	if err != nil {
		return stats, err
	}
	if err := s.play(ctx, sting); err != nil {
		return stats, err
	}

	stats = stats.Record(guess.DirectionCorrect, guess.CentsCorrect)
	metrics.RoundsTotal.WithLabelValues(kind.String()).Inc()
	metrics.OopsieDaisiesLeft.Set(float64(s.cfg.MaxWrongBoth - stats.WrongBoth))

	rec := RoundRecord{
		Round:            number,
		BaseFrequency:    params.BaseFrequency,
		BaseNote:         baseNote,
		DetunedFrequency: detuned,
		Sharp:            params.Sharp,
		OffsetCents:      params.OffsetCents,
		LowerBoundCents:  params.LowerBoundCents,
		UpperBoundCents:  params.UpperBoundCents,
		DirectionGuess:   dir.String(),
		CentsGuess:       cents,
		DirectionCorrect: guess.DirectionCorrect,
		CentsCorrect:     guess.CentsCorrect,
		Feedback:         kind.String(),
		Replays:          replays,
		Stats:            stats,
		CompletedAt:      time.Now(),
	}
	if s.io.Observer != nil {
		s.io.Observer.RoundCompleted(rec)
	}

	s.logger.Info("round scored",
		zap.Int("round", number),
		zap.String("direction", dir.String()),
		zap.Bool("directionCorrect", guess.DirectionCorrect),
		zap.Float64("centsGuess", cents),
		zap.Float64("offsetCents", params.OffsetCents),
		zap.Bool("centsCorrect", guess.CentsCorrect),
		zap.String("feedback", kind.String()),
	)
	return stats, nil
}

// awaitDirection loops until Up, Down or quit. Space replays the tones.
func (s *Session) awaitDirection(ctx context.Context, tones tonePair) (Direction, int, error) {
	replays := 0
	for {
		fmt.Fprintln(s.io.Out, "Press UP for sharp, DOWN for flat, SPACE to replay the tones, or Q to quit.")
		key, err := s.io.Keys.ReadKey()
		if err != nil {
			return 0, replays, inputError(err)
		}
		switch key {
		case KeyUp:
			return Up, replays, nil
		case KeyDown:
			return Down, replays, nil
		case KeySpace:
			replays++
			metrics.ReplaysTotal.WithLabelValues("direction").Inc()
			if err := s.replay(ctx, tones); err != nil {
				return 0, replays, err
			}
		case KeyQuit:
			return 0, replays, ErrQuit
		default:
			metrics.RejectedInputTotal.WithLabelValues("direction").Inc()
			fmt.Fprintln(s.io.Out, "Invalid key. Please press UP, DOWN, SPACE, or Q.")
		}
	}
}

// awaitMagnitude loops until a number or quit. Unparseable lines are
// dropped without a message.
func (s *Session) awaitMagnitude(ctx context.Context, params round.Params, tones tonePair) (float64, int, error) {
	prompt := fmt.Sprintf("Guess the detune amount (in cents) %.2f - %.2f (or SPACE to replay the tones or 'q' to quit): ",
		params.LowerBoundCents, params.UpperBoundCents)
	replays := 0
	for {
		line, err := s.io.Lines.ReadLine(prompt)
		if err != nil {
			return 0, replays, inputError(err)
		}
		in := ParseMagnitude(line)
		switch in.Kind {
		case InputNumber:
			return in.Cents, replays, nil
		case InputReplay:
			replays++
			metrics.ReplaysTotal.WithLabelValues("magnitude").Inc()
			if err := s.replay(ctx, tones); err != nil {
				return 0, replays, err
			}
		case InputQuit:
			return 0, replays, ErrQuit
		default:
			metrics.RejectedInputTotal.WithLabelValues("magnitude").Inc()
		}
	}
}

func (s *Session) replay(ctx context.Context, tones tonePair) error {
	fmt.Fprintln(s.io.Out, "Replaying tones...")
	if err := s.play(ctx, tones.base); err != nil {
		return err
	}
	if err := s.play(ctx, tones.gap); err != nil {
		return err
	}
	return s.play(ctx, tones.detuned)
}

func (s *Session) play(ctx context.Context, buf audio.Buffer) error {
	if err := s.io.Player.Play(ctx, buf); err != nil {
		return fmt.Errorf("play %v of audio: %w", buf.Duration(), err)
	}
	return nil
}

// inputError maps a closed input stream to a quit request.
func inputError(err error) error {
	if errors.Is(err, io.EOF) {
		return ErrQuit
	}
	return fmt.Errorf("read input: %w", err)
}
