package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/poiesic/searchbox/config"
	"github.com/poiesic/searchbox/search"
	"github.com/poiesic/searchbox/snapshot"
)

// Server exposes the search service over HTTP.
type Server struct {
	executor  *search.Executor
	rules     config.Store
	snapshots *snapshot.Service
	logger    *slog.Logger
	router    chi.Router
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithSnapshotService enables the snapshot endpoints.
// Without it they answer 503.
func WithSnapshotService(service *snapshot.Service) ServerOption {
	return func(s *Server) {
		s.snapshots = service
	}
}

// WithServerLogger sets a custom logger.
// Default is slog.Default().
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates an HTTP server for the given executor and rule store.
func NewServer(executor *search.Executor, rules config.Store, opts ...ServerOption) (*Server, error) {
	if executor == nil {
		return nil, ErrExecutorRequired
	}
	if rules == nil {
		return nil, ErrRuleStoreRequired
	}

	s := &Server{
		executor: executor,
		rules:    rules,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Get("/dataset", s.handleDataset)
		r.Get("/rules", s.handleGetRules)
		r.Put("/rules", s.handlePutRules)
		r.Route("/snapshot", func(r chi.Router) {
			r.Get("/meta", s.handleSnapshotMeta)
			r.Get("/document", s.handleSnapshotDocument)
			r.Post("/build", s.handleSnapshotBuild)
		})
	})
	s.router = r
	return s, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
