// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/blablabook/internal/core/author"
	"github.com/taibuivan/blablabook/internal/core/book"
	"github.com/taibuivan/blablabook/internal/core/genre"
	"github.com/taibuivan/blablabook/internal/core/importer"
	"github.com/taibuivan/blablabook/internal/library"
	"github.com/taibuivan/blablabook/internal/platform/config"
	"github.com/taibuivan/blablabook/internal/platform/constants"
	"github.com/taibuivan/blablabook/internal/platform/middleware"
	"github.com/taibuivan/blablabook/internal/social/notice"
	"github.com/taibuivan/blablabook/internal/social/rate"
	"github.com/taibuivan/blablabook/internal/users/account"
	"github.com/taibuivan/blablabook/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. It answers 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It answers 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles registration, login and the caller's profile.
	Auth *auth.Handler

	// Account manages profiles and account deletion.
	Account *account.Handler

	// Catalogue
	Books   *book.Handler
	Authors *author.Handler
	Genres  *genre.Handler

	// Importer exposes external search, manual import and rollback.
	Importer *importer.Handler

	// Engagement
	Rates     *rate.Handler
	Notices   *notice.Handler
	Libraries *library.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg, cfg.Origins()...))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		Routes(api, h)
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Routes mounts every domain under router. The caller must have installed
// [middleware.Authenticate] upstream.
func Routes(router chi.Router, h Handlers) {
	router.Route("/auth", h.Auth.RegisterRoutes)
	router.Route("/users", h.Account.RegisterRoutes)

	router.Route("/books", func(books chi.Router) {
		h.Books.RegisterRoutes(books)
		h.Importer.RegisterRoutes(books)
	})
	router.Route("/authors", h.Authors.RegisterRoutes)
	router.Route("/genres", h.Genres.RegisterRoutes)

	router.Route("/rates", h.Rates.RegisterRoutes)
	router.Route("/notices", h.Notices.RegisterRoutes)
	router.Route("/libraries", h.Libraries.RegisterRoutes)

	router.Route("/admin", h.Importer.RegisterAdminRoutes)
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
