package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/hongminglow/codemorph-be/internal/auth"
	"github.com/hongminglow/codemorph-be/internal/config"
	"github.com/hongminglow/codemorph-be/internal/http/handlers"
	"github.com/hongminglow/codemorph-be/internal/logging"
	"github.com/hongminglow/codemorph-be/internal/middleware"
	"github.com/hongminglow/codemorph-be/internal/service"
	"github.com/hongminglow/codemorph-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.UserStore, log logging.Logger) (*Server, error) {
	handler, err := NewHandler(cfg, store, log)
	if err != nil {
		return nil, err
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}, nil
}

// NewHandler builds the routed handler without binding a listener.
func NewHandler(cfg config.Config, store storage.UserStore, log logging.Logger) (http.Handler, error) {
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	if err != nil {
		return nil, err
	}
	cookies := auth.NewCookiePolicy(!cfg.IsDevelopment(), tokens.TTL())
	authService := service.NewAuthService(store, auth.NewPasswordHasher(cfg.BcryptCost), tokens, log)
	gate := middleware.NewSession(cookies, tokens, authService, log)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(chiMiddleware.Timeout(cfg.RequestTimeout))

	handlers.NewHealthHandler(time.Now()).Routes(r)

	authHandler := handlers.NewAuthHandler(authService, cookies, gate, log)
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Route("/auth", authHandler.Routes)
	})

	return r, nil
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
