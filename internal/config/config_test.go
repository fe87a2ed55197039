package config

import (
	"math"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"EARTONE_DIFFICULTY", "EARTONE_BACKEND", "EARTONE_SAMPLE_RATE", "EARTONE_VOLUME",
		"EARTONE_MAX_ROUNDS", "EARTONE_SEED", "EARTONE_MONITOR_ADDR", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Backend != "oto" {
		t.Errorf("expected backend oto, got %q", cfg.Backend)
	}
	if cfg.SampleRate != 44100 {
		t.Errorf("expected sample rate 44100, got %d", cfg.SampleRate)
	}
	if cfg.Volume != 0.3 {
		t.Errorf("expected volume 0.3, got %v", cfg.Volume)
	}
	if cfg.MaxRounds != 40 || cfg.MaxWrongBoth != 5 {
		t.Errorf("expected 40 rounds and 5 wrong-both, got %d and %d", cfg.MaxRounds, cfg.MaxWrongBoth)
	}
	if cfg.Difficulty != "" || cfg.MonitorAddr != "" {
		t.Errorf("expected empty difficulty and monitor addr, got %q %q", cfg.Difficulty, cfg.MonitorAddr)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("expected log level warn, got %q", cfg.LogLevel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("EARTONE_DIFFICULTY", "easy")
	t.Setenv("EARTONE_BACKEND", "null")
	t.Setenv("EARTONE_SAMPLE_RATE", "22050")
	t.Setenv("EARTONE_TONE_SEC", "0.75")
	t.Setenv("EARTONE_SEED", "99")
	t.Setenv("EARTONE_MONITOR_ADDR", "127.0.0.1:9090")

	cfg := Load()
	if cfg.Difficulty != "easy" || cfg.Backend != "null" {
		t.Errorf("unexpected difficulty/backend %q/%q", cfg.Difficulty, cfg.Backend)
	}
	if cfg.SampleRate != 22050 || cfg.ToneSec != 0.75 || cfg.Seed != 99 {
		t.Errorf("unexpected numeric overrides: %+v", cfg)
	}
	if cfg.MonitorAddr != "127.0.0.1:9090" {
		t.Errorf("unexpected monitor addr %q", cfg.MonitorAddr)
	}
}

func TestLoadInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("EARTONE_SAMPLE_RATE", "fast")
	t.Setenv("EARTONE_VOLUME", "loud")
	t.Setenv("EARTONE_MAX_ROUNDS", "4.5")

	cfg := Load()
	if cfg.SampleRate != 44100 || cfg.Volume != 0.3 || cfg.MaxRounds != 40 {
		t.Errorf("invalid values should fall back: %+v", cfg)
	}
}

func validConfig() *Config {
	return &Config{SampleRate: 44100, ToneSec: 1, GapSec: 0.5, Volume: 0.3, MaxRounds: 40, MaxWrongBoth: 5}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	zeroGap := validConfig()
	zeroGap.GapSec = 0
	zeroGap.Volume = 1
	if err := zeroGap.Validate(); err != nil {
		t.Fatalf("expected zero gap and full volume to validate, got %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative tone", func(c *Config) { c.ToneSec = -1 }},
		{"zero tone", func(c *Config) { c.ToneSec = 0 }},
		{"NaN tone", func(c *Config) { c.ToneSec = math.NaN() }},
		{"negative gap", func(c *Config) { c.GapSec = -0.1 }},
		{"infinite gap", func(c *Config) { c.GapSec = math.Inf(1) }},
		{"loud volume", func(c *Config) { c.Volume = 5 }},
		{"negative volume", func(c *Config) { c.Volume = -0.1 }},
		{"zero sample rate", func(c *Config) { c.SampleRate = 0 }},
		{"zero rounds", func(c *Config) { c.MaxRounds = 0 }},
		{"zero wrong-both", func(c *Config) { c.MaxWrongBoth = 0 }},
	}
	for _, c := range cases {
		cfg := validConfig()
		c.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}
}

func TestValidateNegativeToneFromEnv(t *testing.T) {
	t.Setenv("EARTONE_TONE_SEC", "-1")
	t.Setenv("EARTONE_VOLUME", "5")
	err := Load().Validate()
	if err == nil {
		t.Fatal("expected negative tone and loud volume to be rejected")
	}
	for _, want := range []string{"tone duration", "volume"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %q, got %v", want, err)
		}
	}
}
