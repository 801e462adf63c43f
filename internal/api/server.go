// Package api provides the HTTP server for the storefront edge: the
// legacy redirect middleware plus a small admin API over the mapping
// store.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/CyberBrown/solampio-web-sub002/internal/config"
	"github.com/CyberBrown/solampio-web-sub002/internal/http/response"
	"github.com/CyberBrown/solampio-web-sub002/internal/ratelimit"
	"github.com/CyberBrown/solampio-web-sub002/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	mappings     store.MappingReader
	router       *chi.Mux
	logger       *slog.Logger
	skipPrefixes []string
	adminLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(mappings store.MappingReader, cfg *config.Config, logger *slog.Logger) *Server {
	rps := float64(cfg.Server.AdminRatePerMinute) / time.Minute.Seconds()

	s := &Server{
		mappings:     mappings,
		router:       chi.NewRouter(),
		logger:       logger,
		skipPrefixes: cfg.Redirect.SkipPrefixes,
		adminLimiter: ratelimit.New(rps, cfg.Server.AdminBurst),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
	}))

	// Legacy redirects run before routing so any stale inbound path is
	// caught no matter what handler would have matched.
	s.router.Use(s.legacyRedirect)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// Admin API over the mapping store (read-only).
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.rateLimitByIP)
		r.Get("/mappings/stats", s.handleMappingStats)
		r.Get("/mappings/lookup", s.handleLookupMapping)
	})
}

// rateLimitByIP rejects admin requests beyond the per-IP budget.
func (s *Server) rateLimitByIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.RemoteAddr
		if !s.adminLimiter.Allow(key) {
			s.logger.Warn("Rate limit exceeded", "ip", key, "path", r.URL.Path)
			response.TooManyRequests(w, "Too many requests. Please try again later.", s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}
