package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/internal/metrics"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/quiz"
	"github.com/aretw0/wayfinder/pkg/session"
)

const maxBodyBytes = 1 << 20

// Server exposes tree sessions and the quiz API over HTTP.
type Server struct {
	Sessions *session.Manager
	Graphs   ports.GraphSource
	Quiz     *quiz.Service
	Streams  *StreamManager

	watcher ports.Watchable
	logger  *slog.Logger
	newID   func() string
}

type Option func(*Server)

// WithQuiz mounts the /api quiz routes.
func WithQuiz(svc *quiz.Service) Option {
	return func(s *Server) {
		s.Quiz = svc
	}
}

// WithWatcher enables the global reload stream on GET /events.
func WithWatcher(w ports.Watchable) Option {
	return func(s *Server) {
		s.watcher = w
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithIDGenerator overrides uuid.NewString for tree session ids.
func WithIDGenerator(fn func() string) Option {
	return func(s *Server) {
		s.newID = fn
	}
}

// NewHandler builds the router.
func NewHandler(sessions *session.Manager, graphs ports.GraphSource, opts ...Option) http.Handler {
	s := &Server{
		Sessions: sessions,
		Graphs:   graphs,
		logger:   logging.NewNop(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(enableCORS)

	r.Get("/health", s.health)
	r.Handle("/metrics", metrics.Handler())
	r.Get("/events", s.subscribeEvents)

	r.Route("/graphs", func(r chi.Router) {
		r.Get("/", s.listGraphs)
		r.Get("/{graphID}", s.getGraph)
		r.Post("/{graphID}/sessions", s.startSession)
	})
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.listSessions)
		r.Get("/{sessionID}", s.getSession)
		r.Delete("/{sessionID}", s.deleteSession)
		r.Post("/{sessionID}/select", s.selectOption)
		r.Post("/{sessionID}/back", s.goBack)
		r.Post("/{sessionID}/reset", s.reset)
	})

	if s.Quiz != nil {
		r.Route("/api", func(r chi.Router) {
			r.Post("/session", s.createQuiz)
			r.Get("/session/{token}", s.fetchQuiz)
			r.Patch("/session/{token}", s.completeQuiz)
			r.Post("/answers", s.saveAnswer)
			r.Post("/feedback", s.feedback)
		})
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// subscribeEvents streams view updates for ?session_id=..., or content reloads without it.
func (s *Server) subscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	var events <-chan string
	if sessionID := r.URL.Query().Get("session_id"); sessionID != "" {
		ch, cancel := s.Streams.Subscribe(sessionID)
		defer cancel()
		events = ch
	} else {
		if s.watcher == nil {
			writeError(w, http.StatusNotFound, "hot reload is not enabled")
			return
		}
		ch, err := s.watcher.Watch(r.Context())
		if err != nil {
			s.logger.Error("SSE: failed to watch content", "err", err)
			writeError(w, http.StatusInternalServerError, "watch failed")
			return
		}
		events = ch
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// -- Helpers --

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// fail maps domain errors to status codes and logs the unexpected ones.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrGraphNotFound),
		errors.Is(err, domain.ErrSurveyNotFound),
		errors.Is(err, domain.ErrNodeNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrQuizNotCompleted),
		errors.Is(err, quiz.ErrInvalidAnswer),
		errors.Is(err, quiz.ErrUnknownQuestion):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
