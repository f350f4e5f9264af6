package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"strings"

	_ "github.com/lib/pq"

	"github.com/fixora/expense-tracker/infrastructure/adapter/postgres"
	"github.com/fixora/expense-tracker/infrastructure/config"
	"github.com/fixora/expense-tracker/infrastructure/service/logger"
)

func main() {
	mode := flag.String("mode", "up", "migration mode: up or down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	structuredLogger := logger.NewStructuredLogger(logger.LoggerConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "expense-tracker-migrate",
	})

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	direction := postgres.Direction(strings.ToLower(*mode))
	if err := postgres.Migrate(ctx, db, postgres.Migrations(), direction, structuredLogger); err != nil {
		log.Fatalf("migration %s failed: %v", direction, err)
	}
	log.Printf("Migration %s completed successfully", direction)
}
