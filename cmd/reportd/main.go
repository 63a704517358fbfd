package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/campusdesk/students/application/usecase/student_report"
	"github.com/campusdesk/students/infrastructure/adapter/studentapi"
	"github.com/campusdesk/students/infrastructure/config"
	httpserver "github.com/campusdesk/students/infrastructure/http"
	"github.com/campusdesk/students/infrastructure/http/handler"
	"github.com/campusdesk/students/infrastructure/service/logger"
	"github.com/campusdesk/students/infrastructure/service/metrics"
	"github.com/campusdesk/students/infrastructure/service/report"
)

const shutdownTimeout = 30 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadReport()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	structuredLogger := logger.NewStructuredLogger(logger.LoggerConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "report-service",
	})
	structuredLogger.Info(ctx, "PDF report service starting", map[string]interface{}{
		"env":             cfg.Environment,
		"student_api_url": cfg.StudentAPIURL,
	})

	appMetrics := metrics.NewDefault()

	source := studentapi.NewClient(cfg.StudentAPIURL, cfg.ServiceToken, cfg.UpstreamTimeout, structuredLogger)
	reportUseCase := student_report.NewGenerateReportUseCase(source, report.NewPDFRenderer())

	server, err := httpserver.NewServer(httpserver.ServerConfig{
		Port:             cfg.Port,
		ReadTimeout:      15 * time.Second,
		WriteTimeout:     cfg.UpstreamTimeout + 15*time.Second,
		IdleTimeout:      60 * time.Second,
		EnableRequestLog: true,
	}, httpserver.Routes{
		Public: []httpserver.RouteRegistrar{
			handler.NewReportHandler(reportUseCase, structuredLogger, appMetrics),
		},
	}, structuredLogger, appMetrics)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to build HTTP server", err, nil)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Run(gctx, shutdownTimeout))

	if err := g.Wait(); err != nil {
		structuredLogger.Error(context.Background(), "Report service stopped with error", err, nil)
		os.Exit(1)
	}
	structuredLogger.Info(context.Background(), "Report service exited", nil)
}
