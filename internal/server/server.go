// Package server provides the HTTP API for submitting inquiries and reading
// outcomes.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tinkerloft/opsdesk/internal/model"
	"github.com/tinkerloft/opsdesk/internal/outcome"
	"github.com/tinkerloft/opsdesk/internal/pipeline"
)

// OutcomeReader reads recorded outcomes and aggregates. Satisfied by
// *outcome.Store.
type OutcomeReader interface {
	Get(ctx context.Context, inquiryID string) (model.ResolutionOutcome, error)
	Summarize(ctx context.Context, period outcome.Period) (outcome.Summary, error)
}

// Server is the HTTP API server.
type Server struct {
	router     chi.Router
	supervisor *pipeline.Supervisor
	outcomes   OutcomeReader
	registry   *prometheus.Registry
}

// New creates a new Server. outcomes and registry may be nil (disables the
// corresponding endpoints).
func New(supervisor *pipeline.Supervisor, outcomes OutcomeReader, registry *prometheus.Registry) *Server {
	s := &Server{supervisor: supervisor, outcomes: outcomes, registry: registry}
	s.router = s.buildRouter()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/api/v1/health", s.handleHealth)

	r.Post("/api/v1/inquiries", s.handleSubmitInquiry)
	r.Get("/api/v1/outcomes/{id}", s.handleGetOutcome)
	r.Get("/api/v1/metrics/summary", s.handleMetricsSummary)

	if s.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
