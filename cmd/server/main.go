package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"github.com/campusdesk/students/application/usecase/student_management"
	"github.com/campusdesk/students/infrastructure/adapter/postgres"
	"github.com/campusdesk/students/infrastructure/config"
	httpserver "github.com/campusdesk/students/infrastructure/http"
	"github.com/campusdesk/students/infrastructure/http/handler"
	"github.com/campusdesk/students/infrastructure/http/middleware"
	"github.com/campusdesk/students/infrastructure/service/logger"
	"github.com/campusdesk/students/infrastructure/service/metrics"
	"github.com/campusdesk/students/infrastructure/service/password"
	"github.com/campusdesk/students/infrastructure/service/ratelimit"
	"github.com/campusdesk/students/infrastructure/service/servicetoken"
)

const shutdownTimeout = 30 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logger
	baseLogger := logger.NewLogrus(logger.LoggerConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	structuredLogger := logger.NewFromLogrus(baseLogger, "student-service")
	structuredLogger.Info(ctx, "Application starting", map[string]interface{}{
		"env": cfg.Environment,
	})

	// Connect to database
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to open database", err, nil)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		structuredLogger.Error(ctx, "Failed to ping database", err, nil)
		os.Exit(1)
	}
	structuredLogger.Info(ctx, "Database connection established", nil)

	// Rate limiting is Redis-backed when enabled, allow-all otherwise
	rateLimitService, err := ratelimit.NewRateLimitService(ratelimit.RateLimitConfig{
		Enabled:  cfg.RateLimitEnabled,
		RedisURL: cfg.RedisURL,
	}, baseLogger)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to initialize rate limit service", err, map[string]interface{}{
			"enabled": cfg.RateLimitEnabled,
		})
		os.Exit(1)
	}

	tokenVerifier, err := servicetoken.NewServiceFromConfig(cfg)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to initialize service token verifier", err, nil)
		os.Exit(1)
	}

	appMetrics := metrics.NewDefault()

	studentRepo := postgres.NewStudentRepositoryAdapter(db)
	passwordService := password.NewBcryptPasswordService(10)
	studentUseCase := student_management.NewStudentManagementUseCase(studentRepo, passwordService)

	server, err := httpserver.NewServer(httpserver.ServerConfig{
		Host:                 cfg.ServerHost,
		Port:                 cfg.ServerPort,
		ReadTimeout:          15 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLog:     cfg.LogEnableRequestLog,
		CORSEnabled:          cfg.CORSEnabled,
		CORSAllowedOrigins:   cfg.CORSAllowedOrigins,
		CORSAllowCredentials: cfg.CORSAllowCredentials,
	}, httpserver.Routes{
		Protected: []httpserver.RouteRegistrar{
			handler.NewStudentHandler(studentUseCase, structuredLogger, appMetrics),
		},
		Auth:      middleware.NewServiceTokenMiddleware(tokenVerifier, structuredLogger, appMetrics),
		RateLimit: middleware.NewRateLimitMiddleware(rateLimitService, structuredLogger, cfg.RateLimitRequests, cfg.RateLimitWindow),
	}, structuredLogger, appMetrics)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to build HTTP server", err, nil)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Run(gctx, shutdownTimeout))

	if err := g.Wait(); err != nil {
		structuredLogger.Error(context.Background(), "Server stopped with error", err, nil)
		os.Exit(1)
	}
	structuredLogger.Info(context.Background(), "Server exited", nil)
}
