package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/fixora/expense-tracker/infrastructure/http/handler"
	"github.com/fixora/expense-tracker/infrastructure/http/middleware"
	"github.com/fixora/expense-tracker/infrastructure/metrics"
	"github.com/fixora/expense-tracker/infrastructure/service/logger"
)

type Config struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
}

// Dependencies are the already-constructed handlers. Metrics may be nil.
type Dependencies struct {
	AuthHandler *handler.AuthHandler
	UserHandler *handler.UserHandler
	JWKSHandler *handler.JWKSHandler
	Metrics     *metrics.Metrics
	Logger      logger.Logger
}

type Server struct {
	server *http.Server
	logger logger.Logger
}

// NewRouter wires every route and the middleware chain.
func NewRouter(cfg Config, deps Dependencies) http.Handler {
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}
	router := mux.NewRouter()

	deps.JWKSHandler.RegisterRoutes(router)
	deps.AuthHandler.RegisterRoutes(router)
	deps.UserHandler.RegisterRoutes(router)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	if deps.Metrics != nil {
		router.Handle("/metrics", deps.Metrics.Handler()).Methods(http.MethodGet)
		router.Use(middleware.MetricsMiddleware(deps.Metrics))
	}

	// CORS sits outside the router so preflight requests reach it even
	// though no route accepts OPTIONS.
	var h http.Handler = router
	h = middleware.CORSMiddleware(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials)(h)
	h = middleware.LoggingMiddleware(deps.Logger)(h)
	h = middleware.RecoveryMiddleware(deps.Logger)(h)
	h = middleware.CorrelationIDMiddleware(h)
	return h
}

func NewServer(cfg Config, deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}
	return &Server{
		logger: deps.Logger,
		server: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
			Handler:           NewRouter(cfg, deps),
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
	}
}

func (s *Server) Addr() string {
	return s.server.Addr
}

// Start blocks until the server stops. A graceful shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info(context.Background(), "Starting HTTP server", map[string]interface{}{"addr": s.server.Addr})
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "Shutting down HTTP server", nil)
	return s.server.Shutdown(ctx)
}
