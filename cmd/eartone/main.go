package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/RenatoCabral2022/eartone/internal/audio"
	"github.com/RenatoCabral2022/eartone/internal/config"
	"github.com/RenatoCabral2022/eartone/internal/feedback"
	"github.com/RenatoCabral2022/eartone/internal/history"
	"github.com/RenatoCabral2022/eartone/internal/input"
	"github.com/RenatoCabral2022/eartone/internal/monitor"
	"github.com/RenatoCabral2022/eartone/internal/playback"
	"github.com/RenatoCabral2022/eartone/internal/round"
	"github.com/RenatoCabral2022/eartone/internal/trainer"
)

func main() {
	cfg := config.Load()
	exportDir := parseFlags(cfg)

	logger, err := newLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "eartone: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	console := input.NewStdio(logger)
	err = run(ctx, cfg, exportDir, console, os.Stdout, logger)
	stop()
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "eartone: %v\n", err)
		os.Exit(1)
	}
}

// run plays one session, or exports the stings when exportDir is set.
// Every resource it opens is released before it returns.
func run(ctx context.Context, cfg *config.Config, exportDir string, console *input.Console, out io.Writer, logger *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	composer := feedback.NewComposer(feedback.WithSampleRate(cfg.SampleRate), feedback.WithVolume(cfg.Volume))
	if exportDir != "" {
		if err := exportStings(exportDir, composer); err != nil {
			return fmt.Errorf("export stings: %w", err)
		}
		fmt.Fprintf(out, "Wrote %d stings to %s\n", len(feedback.Kinds), exportDir)
		return nil
	}

	restoreConsole := func() {
		if err := console.Restore(); err != nil {
			logger.Warn("restore terminal", zap.Error(err))
		}
	}
	defer restoreConsole()

	difficulty, err := trainer.SelectDifficulty(cfg.Difficulty, console, out, logger)
	if err != nil {
		if errors.Is(err, trainer.ErrQuit) {
			fmt.Fprintln(out, "Quitting the game.")
			return nil
		}
		return fmt.Errorf("read difficulty: %w", err)
	}

	dev, err := playback.New(cfg.Backend, cfg.SampleRate, logger)
	if err != nil {
		return fmt.Errorf("open playback device: %w", err)
	}
	defer func() {
		if err := dev.Close(); err != nil {
			logger.Warn("close playback device", zap.Error(err))
		}
	}()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sessionID := uuid.NewString()
	logger.Info("eartone starting",
		zap.String("session", sessionID),
		zap.String("difficulty", difficulty.Name),
		zap.String("backend", cfg.Backend),
		zap.Int("sampleRate", cfg.SampleRate),
		zap.Int64("seed", seed),
	)

	rounds := history.New(cfg.HistorySize)
	if cfg.MonitorAddr != "" {
		info := monitor.SessionInfo{ID: sessionID, Difficulty: difficulty.Name, Backend: cfg.Backend, StartedAt: time.Now()}
		h := monitor.NewHandlers(info, rounds, composer, logger)
		srv, err := monitor.Start(cfg.MonitorAddr, monitor.NewRouter(h, logger), logger)
		if err != nil {
			return fmt.Errorf("start monitor on %s: %w", cfg.MonitorAddr, err)
		}
		defer srv.Shutdown()
	}

	session := trainer.New(sessionID, trainer.Config{
		MaxRounds:    cfg.MaxRounds,
		MaxWrongBoth: cfg.MaxWrongBoth,
		ToneSec:      cfg.ToneSec,
		GapSec:       cfg.GapSec,
		SampleRate:   cfg.SampleRate,
		Volume:       cfg.Volume,
	}, difficulty, round.NewGenerator(nil, rand.New(rand.NewSource(seed))), trainer.IO{
		Player:   dev,
		Keys:     console,
		Lines:    console,
		Out:      out,
		Observer: rounds,
	}, logger)

	type result struct {
		stats trainer.Stats
		err   error
	}
	done := make(chan result, 1)
	go func() {
		stats, err := session.Run(ctx)
		done <- result{stats, err}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		// A blocked terminal read does not observe ctx. Put the terminal
		// back, report what the history has and leave the reader behind.
		restoreConsole()
		if latest, ok := rounds.Latest(); ok {
			res.stats = latest.Stats
		}
		res.err = trainer.ErrQuit
	}

	switch {
	case res.err == nil:
		fmt.Fprintln(out, "\n=== Game Over ===")
		return res.stats.WriteSummary(out)
	case errors.Is(res.err, trainer.ErrQuit) || errors.Is(res.err, context.Canceled):
		fmt.Fprintln(out, "\nQuitting the game.")
		if res.stats.RoundsPlayed > 0 {
			return res.stats.WriteSummary(out)
		}
		return nil
	default:
		if res.stats.RoundsPlayed > 0 {
			res.stats.WriteSummary(out)
		}
		return fmt.Errorf("session aborted: %w", res.err)
	}
}

// parseFlags overlays command-line flags on cfg and returns the sting
// export directory, if any.
func parseFlags(cfg *config.Config) string {
	var exportDir string
	flag.StringVar(&cfg.Difficulty, "difficulty", cfg.Difficulty, "hard, medium or easy (prompted when empty)")
	flag.StringVar(&cfg.Backend, "backend", cfg.Backend, "playback backend: oto, malgo, portaudio or null")
	flag.IntVar(&cfg.SampleRate, "rate", cfg.SampleRate, "sample rate in Hz")
	flag.Float64Var(&cfg.Volume, "volume", cfg.Volume, "peak amplitude in [0, 1]")
	flag.IntVar(&cfg.MaxRounds, "rounds", cfg.MaxRounds, "rounds per session")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 seeds from the clock)")
	flag.StringVar(&cfg.MonitorAddr, "monitor", cfg.MonitorAddr, "serve the HTTP monitor on this address")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write logs here instead of stderr")
	flag.StringVar(&exportDir, "export-stings", "", "write the feedback stings as WAV files to this directory and exit")
	flag.Parse()
	return exportDir
}

func newLogger(level, file string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.OutputPaths = []string{"stderr"}
	if file != "" {
		zc.OutputPaths = []string{file}
	}
	return zc.Build()
}

func exportStings(dir string, composer *feedback.Composer) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, k := range feedback.Kinds {
		buf, err := composer.Render(k)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, k.String()+".wav")
		if err := audio.WriteWAVFile(path, buf); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
