// Package web provides the HTTP server and handlers for the assessment
// client. It accepts the two spreadsheet uploads, runs them through the
// validation pipeline and forwards the resulting payloads to the
// assessment API.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"assessment-client/internal/api"
	"assessment-client/internal/config"
	"assessment-client/internal/core"
	"assessment-client/internal/schema"
)

// Server is the HTTP server for the assessment client.
type Server struct {
	cfg       *config.Config
	rules     core.RuleSet
	validator *core.Validator
	builder   *core.Builder
	client    *api.Client
	router    *chi.Mux
	server    *http.Server
}

// NewServer creates a Server wired to the standard assessment rule set.
func NewServer(cfg *config.Config) *Server {
	rules := schema.Rules()
	s := &Server{
		cfg:       cfg,
		rules:     rules,
		validator: core.NewValidator(rules),
		builder:   core.NewBuilder(rules, cfg.Assessment.WebhookURL),
		client:    api.NewClient(cfg.Assessment.URL, cfg.Assessment.Timeout),
		router:    chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/schemas", s.handleSchemas)
		r.Post("/validate", s.handleValidate)
		r.Post("/assessments", s.handleAssessments)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// requestTimeout bounds a forwarding run: every payload gets one API
// round trip, so the budget scales with how long a single request may
// take.
func (s *Server) requestTimeout(payloadCount int) time.Duration {
	per := s.cfg.Assessment.Timeout
	if per <= 0 {
		per = 30 * time.Second
	}
	return time.Duration(payloadCount+1) * per
}
