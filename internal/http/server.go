// Package http exposes the assistant facade as a small JSON API for an
// external presentation layer. Tables, charts, and forms live on the
// other side of this boundary.
package http

import (
	"net/http"
	"time"

	applog "finassist/internal/log"
	"finassist/internal/service"
)

// Server holds the handler dependencies.
type Server struct {
	assistant      *service.Assistant
	logger         *applog.Logger
	requestTimeout time.Duration
}

// NewServer builds the API server on the standard mux.
func NewServer(addr string, assistant *service.Assistant, logger *applog.Logger, requestTimeout time.Duration) *http.Server {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	if requestTimeout <= 0 {
		requestTimeout = 7 * time.Second
	}
	s := &Server{
		assistant:      assistant,
		logger:         logger.WithComponent(applog.ComponentHTTP),
		requestTimeout: requestTimeout,
	}

	return &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
}

// Handler returns the routed handler, also used directly in tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/view", s.handleView)
	mux.HandleFunc("/api/transactions", s.handleAddTransaction)
	mux.HandleFunc("/api/ledger", s.handleLedger)
	mux.HandleFunc("/api/reset", s.handleReset)
	mux.HandleFunc("/api/suggest", s.handleSuggest)
	mux.HandleFunc("/api/forecast", s.handleForecast)
	return s.withRequestLog(mux)
}

// NewTestServer builds a Server for handler tests.
func NewTestServer(assistant *service.Assistant) *Server {
	return &Server{
		assistant:      assistant,
		logger:         applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP),
		requestTimeout: 7 * time.Second,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// withRequestLog logs one line per request with a generated request ID.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		s.logger.InfoContext(r.Context(), "Request handled",
			applog.FieldRequestID, generateRequestID(),
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.status,
			applog.FieldDuration, time.Since(start).Milliseconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
