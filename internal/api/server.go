// Package api provides the HTTP API server and handlers for the Cartly backend.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cartlyapp/cartly-server/internal/config"
	"github.com/cartlyapp/cartly-server/internal/sse"
	"github.com/cartlyapp/cartly-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           *store.Store
	services        *Services
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	sseManager      *sse.Manager
	sseHandler      *sse.Handler
	authRateLimiter *RateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg *config.Config, st *store.Store, services *Services, sseManager *sse.Manager, sseHandler *sse.Handler, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	s := &Server{
		store:      st,
		services:   services,
		router:     router,
		logger:     logger,
		sseManager: sseManager,
		sseHandler: sseHandler,
	}

	if cfg.RateLimit.Enabled {
		s.authRateLimiter = NewRateLimiter(cfg.RateLimit.RequestsPerMinute, time.Minute, cfg.RateLimit.Burst)
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig(cfg.Server.Name, "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	if s.authRateLimiter != nil {
		limited := RateLimitMiddleware(s.authRateLimiter, s.logger)
		s.router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if isAuthPath(r.URL.Path) {
					limited(next).ServeHTTP(w, r)
					return
				}
				next.ServeHTTP(w, r)
			})
		})
	}
}

// isAuthPath reports whether the request targets a credential endpoint.
// Only those are rate limited.
func isAuthPath(path string) bool {
	const prefix = "/api/v1/auth/"
	return len(path) >= len(prefix) && path[:len(prefix)] == prefix
}

// registerRoutes wires all huma operations plus the raw SSE endpoint.
func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerListRoutes()
	s.registerItemRoutes()
	s.registerSuggestionRoutes()
	s.registerStatsRoutes()
	s.registerProfileRoutes()

	// SSE stream served by chi directly; huma's response model does not
	// fit a long-lived event stream.
	if s.sseHandler != nil {
		s.router.Get("/api/v1/sync/stream", s.sseHandler.ServeHTTP)
	}
}
