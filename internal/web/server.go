// Package web provides the HTTP server and handlers for the order list.
package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/orderlist/internal/config"
	"github.com/JonMunkholm/orderlist/internal/core"
	mw "github.com/JonMunkholm/orderlist/internal/web/middleware"
)

// Server is the HTTP server for the order list application.
type Server struct {
	service  *core.Service
	cfg      *config.Config
	registry *prometheus.Registry
	router   *chi.Mux
	server   *http.Server

	// createLimiter bounds new sessions per IP; nil when rate limiting is off.
	createLimiter *rateLimiter
}

// NewServer creates a new Server instance. registry may be nil, which
// disables the /metrics endpoint and HTTP metrics.
func NewServer(service *core.Service, cfg *config.Config, registry *prometheus.Registry) *Server {
	s := &Server{
		service:  service,
		cfg:      cfg,
		registry: registry,
		router:   chi.NewRouter(),
	}
	if cfg.Rate.Enabled {
		s.createLimiter = newRateLimiter(cfg.Rate.SessionCreateLimit, 1)
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(chimw.Recoverer)
	if s.registry != nil {
		s.router.Use(mw.NewHTTPMetrics(s.registry).Handler)
	}
	s.router.Use(chimw.Compress(5))
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))

	// Security hardening
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.router.Use(s.rateLimit(newRateLimiter(s.cfg.Rate.RequestsPerMinute, s.cfg.Rate.Burst)))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	if s.registry != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	// HTML page
	s.router.Group(func(r chi.Router) {
		r.Use(s.withUISession)

		r.Get("/", s.handleIndex)
		r.Route("/ui", func(r chi.Router) {
			r.Post("/query", s.handleUIQuery)
			r.Post("/sort/{column}", s.handleUISort)
			r.Post("/page", s.handleUIPage)
			r.Post("/selection/toggle", s.handleUIToggle)
			r.Post("/selection/toggle-all", s.handleUIToggleAll)
			r.Post("/records", s.handleUISubmit)
		})
	})

	// JSON API
	s.router.Route("/api/sessions", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(s.cfg.Security))

		create := r.With()
		if s.createLimiter != nil {
			create = r.With(s.rateLimit(s.createLimiter))
		}
		create.Post("/", s.handleCreateSession)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Use(s.withSession)

			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)

			// Query and paging
			r.Put("/query", s.handleSetQuery)
			r.Post("/sort/{column}", s.handleClickSort)
			r.Put("/page", s.handleSetPage)

			// Selection
			r.Post("/selection/toggle", s.handleToggle)
			r.Post("/selection/toggle-all", s.handleToggleAll)

			// Mutations and toasts
			r.Post("/records", s.handleSubmit)
			r.Get("/notifications", s.handleNotifications)
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
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

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.service.SessionCount(),
	})
}

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if enableCSP {
				// Avatars are remote images; the page has no scripts.
				h.Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data: https://images.unsplash.com; style-src 'self' 'unsafe-inline'; script-src 'none'")
			}
			next.ServeHTTP(w, r)
		})
	}
}
