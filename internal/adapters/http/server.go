// Package http exposes the Keyloom engine as a stateless JSON API: one-shot
// generation and entropy scoring, plus a session-based replay surface for
// derivation visualization.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/keyloom/keyloom"
	"github.com/keyloom/keyloom/pkg/alphabet"
	"github.com/keyloom/keyloom/pkg/domain"
	"github.com/keyloom/keyloom/pkg/ports"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ctxKey int

const sessionKey ctxKey = iota

// Server wires the generator, the optional step store, and the SSE stream
// manager behind a chi router.
type Server struct {
	gen     *keyloom.Generator
	store   ports.StepStore
	streams *StreamManager
	metrics *metrics
	logger  *slog.Logger
}

// NewServer creates a server around its own Generator so the engine's
// lifecycle hooks can feed the stream manager and metrics. Extra generator
// options (e.g. a scripted source in tests) are applied after the server's
// own wiring.
func NewServer(store ports.StepStore, logger *slog.Logger, genOpts ...keyloom.Option) *Server {
	s := &Server{
		store:   store,
		streams: NewStreamManager(logger),
		metrics: newMetrics(),
		logger:  logger,
	}

	opts := append([]keyloom.Option{
		keyloom.WithLogger(logger),
		keyloom.WithLifecycleHooks(s.lifecycleHooks()),
	}, genOpts...)
	s.gen = keyloom.New(opts...)

	return s
}

// Handler builds the HTTP routing table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Post("/generate", s.Generate)
	r.Post("/entropy", s.Entropy)
	r.Get("/sessions/{id}", s.GetSession)
	r.Get("/sessions/{id}/snapshot/{k}", s.GetSnapshot)
	r.Delete("/sessions/{id}", s.DeleteSession)
	r.Get("/events", s.SubscribeEvents)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// lifecycleHooks feeds engine events into the SSE streams. Only requests
// that opted into a session carry a session ID in their context; one-shot
// generations pass through silently.
func (s *Server) lifecycleHooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDraw: func(ctx context.Context, e *domain.DrawEvent) {
			sid, ok := ctx.Value(sessionKey).(string)
			if !ok {
				return
			}
			if payload, err := json.Marshal(e); err == nil {
				s.streams.Broadcast(sid, string(payload))
			}
		},
		OnComplete: func(ctx context.Context, e *domain.CompleteEvent) {
			sid, ok := ctx.Value(sessionKey).(string)
			if !ok {
				return
			}
			if payload, err := json.Marshal(e); err == nil {
				s.streams.Broadcast(sid, string(payload))
			}
		},
	}
}

// GenerateRequest is the wire form of a generation request. Length is a
// pointer so "absent" (default 16) and "explicitly zero" (invalid) stay
// distinguishable.
//
// Session asks the server to record the derivation under a server-minted ID
// for later snapshot calls. SessionID lets the client choose the ID itself:
// events are broadcast while the derivation runs, so a client that wants the
// live stream must subscribe to /events under its own ID before posting the
// generation. A non-empty SessionID implies Session.
type GenerateRequest struct {
	Modes     []string `json:"modes"`
	Length    *int     `json:"length,omitempty"`
	Session   bool     `json:"session,omitempty"`
	SessionID string   `json:"session_id,omitempty"`
}

// GenerateResponse extends the engine result with the replay session ID.
type GenerateResponse struct {
	domain.GenerationResult
	SessionID string `json:"session_id,omitempty"`
}

// Generate handles the POST /generate request.
func (s *Server) Generate(w http.ResponseWriter, r *http.Request) {
	var body GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Generate: Invalid request body", "error", err)
		return
	}

	length := domain.DefaultLength
	if body.Length != nil {
		length = *body.Length
	}

	ctx := r.Context()
	sessionID := body.SessionID
	if sessionID == "" && body.Session {
		sessionID = uuid.NewString()
	}
	if sessionID != "" {
		ctx = context.WithValue(ctx, sessionKey, sessionID)
	}

	start := time.Now()
	result, err := s.gen.Generate(ctx, domain.GenerationRequest{Modes: body.Modes, Length: length})
	if err != nil {
		s.metrics.generations.WithLabelValues("error").Inc()
		s.writeError(w, "Generate", err)
		return
	}
	s.metrics.generations.WithLabelValues("ok").Inc()
	s.metrics.duration.Observe(time.Since(start).Seconds())

	if sessionID != "" && s.store != nil {
		rec := &domain.Recording{
			Length:       length,
			AlphabetSize: result.AlphabetSize,
			Steps:        domain.CloneSteps(result.Steps),
		}
		if err := s.store.Save(ctx, sessionID, rec); err != nil {
			http.Error(w, "Failed to record session", http.StatusInternalServerError)
			s.logger.Error("Generate: session save failed", "error", err, "session_id", sessionID)
			return
		}
	}

	s.writeJSON(w, GenerateResponse{GenerationResult: *result, SessionID: sessionID})
}

// EntropyRequest is the wire form of a scoring request.
type EntropyRequest struct {
	Key          string `json:"key"`
	AlphabetSize int    `json:"alphabet_size"`
}

// Entropy handles the POST /entropy request.
func (s *Server) Entropy(w http.ResponseWriter, r *http.Request) {
	var body EntropyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Entropy: Invalid request body", "error", err)
		return
	}

	result, err := s.gen.Score(body.Key, body.AlphabetSize)
	if err != nil {
		s.writeError(w, "Entropy", err)
		return
	}
	s.metrics.entropyRatio.Observe(result.Ratio)

	s.writeJSON(w, result)
}

// GetSession handles GET /sessions/{id}: the recorded step log.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, rec)
}

// GetSnapshot handles GET /sessions/{id}/snapshot/{k}: the partial tree
// after the first k steps. Any k in [0, length] is valid and the call is
// pure, so clients implement jump/reset/play entirely client-side.
func (s *Server) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	k, err := strconv.Atoi(chi.URLParam(r, "k"))
	if err != nil {
		http.Error(w, "Invalid step index", http.StatusBadRequest)
		return
	}

	tree, err := s.gen.SnapshotAt(rec.Steps, rec.Length, k)
	if err != nil {
		s.writeError(w, "Snapshot", err)
		return
	}

	s.writeJSON(w, map[string]any{
		"tree":     tree,
		"step":     k,
		"resolved": tree.Resolved(),
		"yield":    tree.Yield(),
	})
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "Replay sessions not configured", http.StatusNotFound)
		return
	}
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]any{
		"app":     "keyloom-http",
		"version": keyloom.Version,
		"modes":   s.gen.Registry().Modes(),
	})
}

// SubscribeEvents handles the GET /events request (SSE). Subscribers attach
// to a session ID and receive each draw event as it happens.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.streams.Subscribe(sessionID)
	defer cancel()

	w.Write([]byte("event: ping\ndata: connected\n\n"))
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			w.Write([]byte("data: " + msg + "\n\n"))
			flusher.Flush()
		}
	}
}

// -- Helpers --

func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*domain.Recording, bool) {
	if s.store == nil {
		http.Error(w, "Replay sessions not configured", http.StatusNotFound)
		return nil, false
	}

	id := chi.URLParam(r, "id")
	rec, err := s.store.Load(r.Context(), id)
	if err != nil {
		s.writeError(w, "LoadSession", err)
		return nil, false
	}
	return rec, true
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "error", err)
	}
}

// writeError maps engine errors onto status codes: validation failures are
// the client's fault, missing sessions are 404, everything else is 500.
func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidLength),
		errors.Is(err, domain.ErrEmptyInput),
		errors.Is(err, domain.ErrStepOutOfRange),
		errors.Is(err, alphabet.ErrInvalidMode),
		errors.Is(err, alphabet.ErrEmptyModeSet):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		s.logger.Error(op+" failed", "error", err)
	}
}
