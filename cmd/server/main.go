package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/fixora/expense-tracker/application/access"
	"github.com/fixora/expense-tracker/application/usecase"
	"github.com/fixora/expense-tracker/application/usecase/user_management"
	apperr "github.com/fixora/expense-tracker/domain/error"
	"github.com/fixora/expense-tracker/infrastructure/adapter/postgres"
	"github.com/fixora/expense-tracker/infrastructure/config"
	"github.com/fixora/expense-tracker/infrastructure/http/handler"
	"github.com/fixora/expense-tracker/infrastructure/http/middleware"
	"github.com/fixora/expense-tracker/infrastructure/http/server"
	"github.com/fixora/expense-tracker/infrastructure/metrics"
	"github.com/fixora/expense-tracker/infrastructure/service/jwt"
	"github.com/fixora/expense-tracker/infrastructure/service/keys"
	"github.com/fixora/expense-tracker/infrastructure/service/logger"
	"github.com/fixora/expense-tracker/infrastructure/service/password"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	structuredLogger := logger.NewStructuredLogger(logger.LoggerConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "expense-tracker",
	})
	structuredLogger.Info(ctx, "Application starting", map[string]interface{}{
		"profile": cfg.Profile,
	})

	// Key material is resolved before anything can issue or verify a token.
	keyOpts := keys.OptionsFromConfig(cfg)
	keyOpts.Sink = keys.NewTerminalSink(os.Stderr)
	keyOpts.Logger = structuredLogger
	material, err := keys.NewKeyProvider(ctx, keyOpts)
	if err != nil {
		appErr := keyError(err)
		structuredLogger.Error(ctx, "Startup aborted", appErr, map[string]interface{}{"code": appErr.Code})
		log.Fatalf("Failed to initialize JWT keys: %v", appErr)
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		if m, err = metrics.New(); err != nil {
			log.Fatalf("Failed to register metrics: %v", err)
		}
	}

	// Connect to database
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to open database", err, nil)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		structuredLogger.Error(ctx, "Failed to ping database", err, nil)
		log.Fatalf("Failed to ping database: %v", err)
	}
	structuredLogger.Info(ctx, "Database connection established", nil)

	userRepo := postgres.NewUserRepositoryAdapter(db)

	tokenService, err := jwt.NewJWTService(cfg, material,
		jwt.WithLogger(structuredLogger),
		jwt.WithRecorder(m),
	)
	if err != nil {
		log.Fatalf("Failed to initialize JWT service: %v", err)
	}
	passwordService := password.NewBcryptPasswordService(cfg.BcryptCost)
	policy := access.NewPolicy(structuredLogger, m)

	loginUseCase := usecase.NewLoginUseCase(userRepo, tokenService, passwordService, structuredLogger, m)
	userUseCase := user_management.NewUserManagementUseCase(userRepo, passwordService)

	authMiddleware := middleware.NewAuthMiddleware(tokenService, policy)

	srv := server.NewServer(server.Config{
		Host:                 cfg.ServerHost,
		Port:                 cfg.ServerPort,
		ReadTimeout:          15 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		CORSAllowedOrigins:   cfg.CORSAllowedOrigins,
		CORSAllowCredentials: cfg.CORSAllowCredentials,
	}, server.Dependencies{
		AuthHandler: handler.NewAuthHandler(loginUseCase, authMiddleware),
		UserHandler: handler.NewUserHandler(userUseCase, authMiddleware),
		JWKSHandler: handler.NewJWKSHandler(material, structuredLogger),
		Metrics:     m,
		Logger:      structuredLogger,
	})

	go func() {
		if err := srv.Start(); err != nil {
			structuredLogger.Error(ctx, "Server failed", err, map[string]interface{}{"addr": srv.Addr()})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		structuredLogger.Error(ctx, "Server forced to shutdown", err, nil)
	}
	structuredLogger.Info(ctx, "Server exited", nil)
}

// keyError maps key provider failures onto the error catalog.
func keyError(err error) *apperr.AppError {
	switch {
	case errors.Is(err, keys.ErrConfiguration):
		return apperr.ErrConfigurationError("JWT signing keys", err)
	case errors.Is(err, keys.ErrKeyFormat):
		return apperr.ErrKeyFormatError("JWT signing keys", err)
	default:
		return apperr.ErrInternalServerError("JWT signing keys", err)
	}
}
