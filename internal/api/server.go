// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

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

	"github.com/critika-app/critika/internal/catalog/reference"
	"github.com/critika-app/critika/internal/catalog/title"
	"github.com/critika-app/critika/internal/platform/authz"
	"github.com/critika-app/critika/internal/platform/config"
	"github.com/critika-app/critika/internal/platform/constants"
	"github.com/critika-app/critika/internal/platform/middleware"
	"github.com/critika-app/critika/internal/platform/sec"
	"github.com/critika-app/critika/internal/reviews"
	"github.com/critika-app/critika/internal/users/account"
	"github.com/critika-app/critika/internal/users/auth"
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
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles registration and the code-for-token exchange.
	Auth *auth.Handler

	// Account handles the /users/me profile and admin user management.
	Account *account.Handler

	// Genre and Category manage the two classification vocabularies.
	Genre    *reference.Handler
	Category *reference.Handler

	// Title handles the reviewable catalog.
	Title *title.Handler

	// Review handles reviews and their comment threads, nested under titles.
	Review *reviews.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	//
	// Catalog metadata shares one policy (anonymous reads, admin writes);
	// the review tree carries the ownership policy and performs its
	// object-level author checks in the handlers.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/users", h.Account.Routes())

		catalogPolicy := middleware.RequirePolicy(authz.ReadOnlyElseAdmin)
		api.Route("/genres", func(group chi.Router) {
			group.Use(catalogPolicy)
			h.Genre.RegisterRoutes(group)
		})
		api.Route("/categories", func(group chi.Router) {
			group.Use(catalogPolicy)
			h.Category.RegisterRoutes(group)
		})

		api.Route("/titles", func(group chi.Router) {
			group.Group(func(catalog chi.Router) {
				catalog.Use(catalogPolicy)
				h.Title.RegisterRoutes(catalog)
			})
			group.Group(func(ledger chi.Router) {
				ledger.Use(middleware.RequirePolicy(func(actor *sec.AuthClaims, method string) error {
					return authz.AuthorOrModeratorElseReadOnly(actor, method, "")
				}))
				h.Review.RegisterRoutes(ledger)
			})
		})
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
