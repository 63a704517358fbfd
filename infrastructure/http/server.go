package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/campusdesk/students/infrastructure/http/middleware"
	"github.com/campusdesk/students/infrastructure/http/response"
	"github.com/campusdesk/students/infrastructure/service/logger"
	"github.com/campusdesk/students/infrastructure/service/metrics"
)

// APIPrefix is the path every versioned route is mounted under
const APIPrefix = "/api/v1"

var ErrMissingAuthenticator = errors.New("protected routes require a service token authenticator")

// RouteRegistrar is implemented by handlers that mount their own routes
type RouteRegistrar interface {
	RegisterRoutes(router *mux.Router)
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	EnableRequestLog     bool
	CORSEnabled          bool
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
}

// Routes groups the handlers a server exposes under APIPrefix.
// Protected handlers sit behind Auth and then RateLimit.
type Routes struct {
	Public    []RouteRegistrar
	Protected []RouteRegistrar
	Auth      *middleware.ServiceTokenMiddleware
	RateLimit *middleware.RateLimitMiddleware
}

// Server represents the HTTP server
type Server struct {
	addr    string
	handler http.Handler
	server  *http.Server
	logger  logger.Logger
}

// NewServer creates a new HTTP server
func NewServer(config ServerConfig, routes Routes, log logger.Logger, m *metrics.Metrics) (*Server, error) {
	if len(routes.Protected) > 0 && routes.Auth == nil {
		return nil, ErrMissingAuthenticator
	}

	router := mux.NewRouter()
	router.Use(middleware.RequestLogger(log, m, config.EnableRequestLog))
	router.Use(middleware.Recovery(log))

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	if m != nil {
		router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	}

	api := router.PathPrefix(APIPrefix).Subrouter()
	for _, r := range routes.Public {
		r.RegisterRoutes(api)
	}

	if len(routes.Protected) > 0 {
		protected := api.NewRoute().Subrouter()
		protected.Use(routes.Auth.RequireServiceToken)
		if routes.RateLimit != nil {
			protected.Use(routes.RateLimit.RateLimit)
		}
		for _, r := range routes.Protected {
			r.RegisterRoutes(protected)
		}
	}

	// CORS wraps the router so preflight requests are answered before route matching
	var handler http.Handler = router
	if config.CORSEnabled && len(config.CORSAllowedOrigins) > 0 {
		handler = middleware.CORSMiddleware(handler, config.CORSAllowedOrigins, config.CORSAllowCredentials)
	}
	handler = middleware.CorrelationIDMiddleware(handler)

	addr := net.JoinHostPort(config.Host, config.Port)
	return &Server{
		addr:    addr,
		handler: handler,
		logger:  log,
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       config.ReadTimeout,
			ReadHeaderTimeout: config.ReadTimeout,
			WriteTimeout:      config.WriteTimeout,
			IdleTimeout:       config.IdleTimeout,
		},
	}, nil
}

// Handler returns the fully wrapped handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Addr() string {
	return s.addr
}

// Start starts the HTTP server. It returns nil once Shutdown has been called.
func (s *Server) Start() error {
	s.logger.Info(context.Background(), "Starting HTTP server", map[string]interface{}{
		"addr": s.addr,
	})
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "Shutting down HTTP server", nil)
	return s.server.Shutdown(ctx)
}

// Run returns a function suitable for errgroup. It serves until ctx is done
// and then shuts down, giving in-flight requests shutdownTimeout to finish.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() { errCh <- s.Start() }()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown %s: %w", s.addr, err)
		}
		return <-errCh
	}
}
