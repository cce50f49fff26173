// Package httpapi exposes the PathRAG control surface over HTTP. It is a
// thin transport: every handler maps a request onto one Service call and
// serializes the snapshot back, with per-session SSE streams for UIs that
// want live state.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/akilivoice/pathrag"
	"github.com/akilivoice/pathrag/internal/logging"
	"github.com/akilivoice/pathrag/pkg/domain"
)

// Server wraps a pathrag.Service behind a chi router.
type Server struct {
	service *pathrag.Service
	streams *StreamManager
	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithMetricsHandler mounts a Prometheus handler at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer builds the HTTP adapter for a service.
func NewServer(service *pathrag.Service, opts ...Option) *Server {
	s := &Server{
		service: service,
		streams: NewStreamManager(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler creates a ready-to-serve HTTP handler for the service.
func NewHandler(service *pathrag.Service, opts ...Option) http.Handler {
	return NewServer(service, opts...).Handler()
}

// Handler returns the routed handler with CORS enabled.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/graph", s.GetGraph)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.CreateSession)
		r.Get("/", s.ListSessions)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/process", s.ProcessUtterance)
			r.Post("/actions", s.RecordAction)
			r.Get("/context", s.GetVoiceContext)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// MaxTranscriptBytes bounds a single utterance; speech transcripts beyond
// this are garbage input, not conversation.
const MaxTranscriptBytes = 4096

type createRequest struct {
	VendorID string `json:"vendor_id,omitempty"`
}

type processRequest struct {
	Transcript string `json:"transcript"`
}

type actionRequest struct {
	Action string `json:"action"`
	Result string `json:"result"`
	Notes  string `json:"notes,omitempty"`
}

type contextResponse struct {
	SessionID    string `json:"session_id"`
	VoiceContext string `json:"voice_context"`
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body createRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			s.logger.Warn("CreateSession: invalid request body", "err", err)
			return
		}
	}

	state, err := s.service.Create(r.Context(), body.VendorID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Create error: %v", err), http.StatusInternalServerError)
		s.logger.Error("CreateSession failed", "err", err)
		return
	}

	s.writeJSON(w, http.StatusCreated, state)
}

// ProcessUtterance handles POST /sessions/{sessionID}/process.
func (s *Server) ProcessUtterance(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var body processRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("ProcessUtterance: invalid request body", "err", err)
		return
	}
	if body.Transcript == "" {
		http.Error(w, "transcript is required", http.StatusBadRequest)
		return
	}
	if len(body.Transcript) > MaxTranscriptBytes {
		http.Error(w, "transcript too large", http.StatusBadRequest)
		s.logger.Warn("ProcessUtterance: transcript rejected", "size", len(body.Transcript))
		return
	}

	outcome, err := s.service.Process(r.Context(), sessionID, body.Transcript)
	if err != nil {
		s.writeError(w, "Process", err)
		return
	}

	s.broadcast(sessionID, &outcome.StateSnapshot)
	s.writeJSON(w, http.StatusOK, outcome)
}

// RecordAction handles POST /sessions/{sessionID}/actions.
func (s *Server) RecordAction(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var body actionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("RecordAction: invalid request body", "err", err)
		return
	}
	if body.Action == "" {
		http.Error(w, "action is required", http.StatusBadRequest)
		return
	}

	state, err := s.service.RecordAction(r.Context(), sessionID,
		domain.AllowedAction(body.Action), domain.ActionResult(body.Result), body.Notes)
	if err != nil {
		s.writeError(w, "RecordAction", err)
		return
	}

	s.broadcast(sessionID, state)
	s.writeJSON(w, http.StatusOK, state)
}

// GetSession handles GET /sessions/{sessionID}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	state, err := s.service.GetState(r.Context(), sessionID)
	if err != nil {
		s.writeError(w, "GetState", err)
		return
	}

	s.writeJSON(w, http.StatusOK, state)
}

// GetVoiceContext handles GET /sessions/{sessionID}/context.
func (s *Server) GetVoiceContext(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	voiceCtx, err := s.service.GetContext(r.Context(), sessionID)
	if err != nil {
		s.writeError(w, "GetContext", err)
		return
	}

	s.writeJSON(w, http.StatusOK, contextResponse{
		SessionID:    sessionID,
		VoiceContext: voiceCtx,
	})
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.service.Sessions().List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.logger.Error("ListSessions failed", "err", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}

	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// DeleteSession handles DELETE /sessions/{sessionID}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := s.service.Sessions().Delete(r.Context(), sessionID); err != nil {
		s.writeError(w, "Delete", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetGraph handles GET /graph.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.service.Graph().List())
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SubscribeEvents handles GET /sessions/{sessionID}/events (SSE). Each
// Process or RecordAction on the session pushes the fresh snapshot.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: streaming not supported")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.streams.Subscribe(sessionID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	s.logger.Info("SSE: subscribed", "session_id", sessionID)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: client disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) broadcast(sessionID string, state *pathrag.StateSnapshot) {
	data, err := json.Marshal(state)
	if err != nil {
		s.logger.Error("broadcast: snapshot encode failed", "err", err)
		return
	}
	s.streams.Broadcast(sessionID, string(data))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrSessionClosed):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, fmt.Sprintf("%s error: %v", op, err), http.StatusInternalServerError)
		s.logger.Error(op+" failed", "err", err)
	}
}

// StreamManager tracks active SSE subscribers per session.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{}
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

func (sm *StreamManager) Subscribe(sessionID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sessionID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		}
	}
}

func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if subs, ok := sm.subscribers[sessionID]; ok {
		for ch := range subs {
			select {
			case ch <- msg:
			default:
				// Slow client; drop rather than block the handler.
			}
		}
	}
}
