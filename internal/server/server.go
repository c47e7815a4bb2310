package server

import (
	"context"
	"net/http"
	"time"

	"github.com/citygrid/sambag-alert-be/internal/auth"
	"github.com/citygrid/sambag-alert-be/internal/botcheck"
	"github.com/citygrid/sambag-alert-be/internal/config"
	"github.com/citygrid/sambag-alert-be/internal/http/handlers"
	"github.com/citygrid/sambag-alert-be/internal/identity"
	"github.com/citygrid/sambag-alert-be/internal/identity/localident"
	"github.com/citygrid/sambag-alert-be/internal/middleware"
	"github.com/citygrid/sambag-alert-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
// local may be nil when running against the hosted identity provider.
func New(cfg config.Config, store storage.Store, provider identity.Provider,
	local *localident.Provider, verifier botcheck.Verifier) *Server {
	mux := http.NewServeMux()

	health := handlers.NewHealthHandler(time.Now())
	health.Register(mux)

	tokens := auth.NewTokenManager(cfg.AccessTokenSecret, cfg.RefreshTokenSecret,
		cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	authHandler := handlers.NewAuthHandler(store, provider, local, verifier, tokens, &cfg)
	authHandler.Register(mux)

	reports := handlers.NewReportsHandler(store, tokens)
	reports.Register(mux)

	handler := middleware.CORS(cfg.CORSOrigins, middleware.Logging(mux))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
