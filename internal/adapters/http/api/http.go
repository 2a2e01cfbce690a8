// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/partidos/internal/adapters/csvstore"
	"github.com/okian/partidos/pkg/logger"
)

// TableLoader reads the match table on demand.
type TableLoader interface {
	Load(ctx context.Context) (*csvstore.Table, error)
}

// Server wires HTTP routes for the match API.
type Server struct {
	healthHandler   *HealthHandler
	partidosHandler *PartidosHandler
	log             logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used by the middleware and handlers.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(loader TableLoader, opts ...Option) *Server {
	s := &Server{healthHandler: NewHealthHandler()}
	for _, opt := range opts {
		opt(s)
	}
	s.partidosHandler = NewPartidosHandler(loader, s.log)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/partidos", s.wrap(s.partidosHandler.HandleGetPartidos, "partidos"))
	mux.Handle("/healthz", s.wrap(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", NewMetricsHandler())
}

func (s *Server) wrap(h http.HandlerFunc, endpoint string) http.Handler {
	return RequestID(MetricsMiddleware(h, endpoint), s.log)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Error: msg})
}
