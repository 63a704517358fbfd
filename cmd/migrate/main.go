package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	flag "github.com/spf13/pflag"

	"github.com/campusdesk/students/infrastructure/adapter/postgres"
	"github.com/campusdesk/students/infrastructure/service/logger"
)

func main() {
	mode := flag.String("mode", "up", "migration mode: up, down, reset or status")
	timeout := flag.Duration("timeout", 5*time.Minute, "maximum time the migration may run")
	flag.Parse()

	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	baseLogger := logger.NewLogrus(logger.LoggerConfig{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: "text",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	if err := postgres.Migrate(ctx, db, *mode, baseLogger); err != nil {
		log.Fatalf("%v", err)
	}
	baseLogger.WithField("mode", *mode).Info("Migration completed successfully")
}
