package monitor

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/RenatoCabral2022/eartone/internal/audio"
	"github.com/RenatoCabral2022/eartone/internal/feedback"
	"github.com/RenatoCabral2022/eartone/internal/history"
	"github.com/RenatoCabral2022/eartone/internal/notes"
)

// SessionInfo is the fixed description of the session being monitored.
type SessionInfo struct {
	ID         string
	Difficulty string
	Backend    string
	StartedAt  time.Time
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	info     SessionInfo
	rounds   *history.Ring
	composer *feedback.Composer
	logger   *zap.Logger
}

// NewHandlers creates handlers reading from rounds. Stings are rendered
// with composer.
func NewHandlers(info SessionInfo, rounds *history.Ring, composer *feedback.Composer, logger *zap.Logger) *Handlers {
	return &Handlers{
		info:     info,
		rounds:   rounds,
		composer: composer,
		logger:   logger,
	}
}

// Health handles GET /healthz.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// Session handles GET /v1/session. ?limit=n caps the rounds returned.
func (h *Handlers) Session(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	resp := SessionResponse{
		SessionID:  h.info.ID,
		Difficulty: h.info.Difficulty,
		Backend:    h.info.Backend,
		StartedAt:  h.info.StartedAt,
		Rounds:     []RoundView{},
	}
	if latest, ok := h.rounds.Latest(); ok {
		resp.Stats = latest.Stats
		resp.DirectionPercent = latest.Stats.DirectionPercent()
		resp.AccuracyPercent = latest.Stats.AccuracyPercent()
	}
	for _, rec := range h.rounds.Snapshot(limit) {
		resp.Rounds = append(resp.Rounds, newRoundView(rec))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Sting handles GET /v1/stings/{kind} and returns the sting as a WAV file.
func (h *Handlers) Sting(w http.ResponseWriter, r *http.Request) {
	kind, err := feedback.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	buf, err := h.composer.Render(kind)
	if err != nil {
		h.fail(w, "render sting", err)
		return
	}

	// The WAV encoder seeks back to patch the header, so render to a file.
	f, err := os.CreateTemp("", "eartone-sting-*.wav")
	if err != nil {
		h.fail(w, "create temp file", err)
		return
	}
	defer func() {
		f.Close()
		os.Remove(f.Name())
	}()
	if err := audio.EncodeWAV(f, buf); err != nil {
		h.fail(w, "encode wav", err)
		return
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		h.fail(w, "rewind wav", err)
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	http.ServeContent(w, r, kind.String()+".wav", time.Time{}, f)
}

// Note handles GET /v1/notes?hz=. Non-positive frequencies map to N/A.
func (h *Handlers) Note(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("hz")
	hz, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(hz) || math.IsInf(hz, 0) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid hz %q", raw)})
		return
	}
	resp := NoteResponse{Hz: hz, Note: notes.Name(hz)}
	if hz > 0 {
		m := notes.MIDI(hz)
		resp.MIDI = &m
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) fail(w http.ResponseWriter, what string, err error) {
	h.logger.Error("monitor request failed", zap.String("step", what), zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: what + " failed"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
