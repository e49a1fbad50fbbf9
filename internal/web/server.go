// Package web provides the HTTP control plane for triggering and
// observing PIP file loads. The ingestion pipeline itself lives in
// internal/loader; this layer only authenticates requests, validates
// parameters, and shapes results into JSON responses.
package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cusipd/internal/config"
	"cusipd/internal/loader"
	"cusipd/internal/web/middleware"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Pinger probes database connectivity. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the control-plane HTTP server.
type Server struct {
	orch   *loader.Orchestrator
	pool   Pinger
	cfg    *config.Config
	router *chi.Mux
	server *http.Server
}

// NewServer wires routes and middleware around the orchestrator.
func NewServer(orch *loader.Orchestrator, pool Pinger, cfg *config.Config) *Server {
	s := &Server{
		orch:   orch,
		pool:   pool,
		cfg:    cfg,
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders)
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent MIME type sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Prevent framing; every response here is JSON or metrics text
		w.Header().Set("X-Frame-Options", "DENY")

		// Control referrer information
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) setupRoutes() {
	// Probes and metrics are unauthenticated.
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/ready", s.handleReady)
	s.router.Get("/live", s.handleLive)
	s.router.Handle("/metrics", promhttp.Handler())

	// Load triggers require the bearer token.
	s.router.Route("/jobs", func(r chi.Router) {
		r.Use(middleware.BearerAuth(s.cfg.Auth.Token))
		r.Post("/load-issuer", s.handleLoadIssuer)
		r.Post("/load-issue", s.handleLoadIssue)
		r.Post("/load-issue-attr", s.handleLoadIssueAttr)
		r.Post("/load-all", s.handleLoadAll)
	})
}

// Handler returns the underlying router, for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start runs the server until Shutdown or a listener error.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
