package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gauges
var (
	OopsieDaisiesLeft = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "eartone_oopsie_daisies_left",
		Help: "Both-wrong rounds the player can still afford before the session ends",
	})
	CurrentRound = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "eartone_current_round",
		Help: "One-based index of the round in progress",
	})
	MaxOffsetCents = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "eartone_max_offset_cents",
		Help: "Upper bound of the detune range for the round in progress",
	})
)

// Counters
var (
	SessionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eartone_sessions_total",
		Help: "Sessions by how they ended",
	}, []string{"end"})
	RoundsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eartone_rounds_total",
		Help: "Completed rounds by feedback outcome",
	}, []string{"outcome"})
	DirectionCorrectTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eartone_direction_correct_total",
		Help: "Rounds where the detune direction was guessed correctly",
	})
	ReplaysTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eartone_replays_total",
		Help: "Tone replays requested, by prompt",
	}, []string{"prompt"})
	RejectedInputTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eartone_rejected_input_total",
		Help: "Keys or lines that were not understood, by prompt",
	}, []string{"prompt"})
	PlaybackErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eartone_playback_errors_total",
		Help: "Playback failures by backend",
	}, []string{"backend"})
)

// Histograms
var (
	OffsetCents = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "eartone_offset_cents",
		Help:    "Detune offset drawn for each round",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34, 55, 100},
	})
	GuessErrorRatio = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "eartone_guess_error_ratio",
		Help:    "Guessed cents divided by actual cents",
		Buckets: []float64{0.25, 0.5, 0.8, 0.9, 1.1, 1.2, 1.5, 2, 4},
	})
	PlaybackDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eartone_playback_duration_ms",
		Help:    "Wall time spent in blocking playback, by backend",
		Buckets: []float64{50, 100, 250, 500, 1000, 1500, 2500, 5000},
	}, []string{"backend"})
)
