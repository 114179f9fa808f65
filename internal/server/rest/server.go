// Package rest exposes the authentication services over HTTP using chi.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// AuthService is the business layer the handlers call through.
type AuthService interface {
	Signup(ctx context.Context, email, password string) (*services.TokenPair, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Authenticate(accessToken string) (*auth.Claims, error)
}

type HTTPServer struct {
	address        string
	users          AuthService
	logger         logging.Logger
	allowedOrigins []string
}

// NewHTTPServer builds a server for address. allowedOrigins feeds the CORS
// policy; empty means same-origin only.
func NewHTTPServer(address string, l logging.Logger, users AuthService, allowedOrigins []string) *HTTPServer {
	return &HTTPServer{
		address:        address,
		users:          users,
		logger:         l.With("module", "http_server"),
		allowedOrigins: allowedOrigins,
	}
}

// Router returns the complete route tree with middleware applied.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(metricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Post("/signup", s.signup)
	r.Post("/login", s.login)
	r.Post("/refresh", s.refresh)

	r.Group(func(pr chi.Router) {
		pr.Use(s.authenticate)
		pr.Get("/me", s.me)
	})

	r.Get("/health", s.health)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *HTTPServer) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-stopped
}
