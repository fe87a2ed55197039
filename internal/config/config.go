// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
)

type Config struct {
	Difficulty   string
	Backend      string
	SampleRate   int
	Volume       float64
	ToneSec      float64
	GapSec       float64
	MaxRounds    int
	MaxWrongBoth int
	Seed         int64
	MonitorAddr  string
	HistorySize  int
	LogLevel     string
	LogFile      string
}

func Load() *Config {
	return &Config{
		Difficulty:   getEnv("EARTONE_DIFFICULTY", ""),
		Backend:      getEnv("EARTONE_BACKEND", "oto"),
		SampleRate:   getEnvInt("EARTONE_SAMPLE_RATE", 44100),
		Volume:       getEnvFloat("EARTONE_VOLUME", 0.3),
		ToneSec:      getEnvFloat("EARTONE_TONE_SEC", 1.0),
		GapSec:       getEnvFloat("EARTONE_GAP_SEC", 0.5),
		MaxRounds:    getEnvInt("EARTONE_MAX_ROUNDS", 40),
		MaxWrongBoth: getEnvInt("EARTONE_MAX_WRONG_BOTH", 5),
		Seed:         int64(getEnvInt("EARTONE_SEED", 0)),
		MonitorAddr:  getEnv("EARTONE_MONITOR_ADDR", ""),
		HistorySize:  getEnvInt("EARTONE_HISTORY_SIZE", 64),
		LogLevel:     getEnv("LOG_LEVEL", "warn"),
		LogFile:      getEnv("LOG_FILE", ""),
	}
}

// Validate rejects settings the synthesizer and session cannot run with.
// It is called after flags have been applied.
func (c *Config) Validate() error {
	var errs []error
	if c.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample rate must be positive, got %d", c.SampleRate))
	}
	if !(c.ToneSec > 0) || math.IsInf(c.ToneSec, 0) {
		errs = append(errs, fmt.Errorf("tone duration must be positive, got %v", c.ToneSec))
	}
	if !(c.GapSec >= 0) || math.IsInf(c.GapSec, 0) {
		errs = append(errs, fmt.Errorf("gap duration must not be negative, got %v", c.GapSec))
	}
	if !(c.Volume >= 0 && c.Volume <= 1) {
		errs = append(errs, fmt.Errorf("volume must be within [0, 1], got %v", c.Volume))
	}
	if c.MaxRounds <= 0 {
		errs = append(errs, fmt.Errorf("max rounds must be positive, got %d", c.MaxRounds))
	}
	if c.MaxWrongBoth <= 0 {
		errs = append(errs, fmt.Errorf("max wrong-both rounds must be positive, got %d", c.MaxWrongBoth))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt falls back when the variable is unset or not an integer.
func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return v
}
