package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/Apurer/go-gin-payments-api/internal/app/api"
	paymentspostgres "github.com/Apurer/go-gin-payments-api/internal/domains/payments/adapters/persistence/postgres"
	platformobservability "github.com/Apurer/go-gin-payments-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-payments-api/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := platformobservability.NewLogger(log.Writer(), cfg.LogLevel, cfg.LogFormat)
	db, cleanup := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, platformpostgres.Options{}, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge idempotency keys")
	}

	cutoff := time.Now().Add(-cfg.IdempotencyTTL())
	purged, err := paymentspostgres.NewIdempotencyStore(db).PurgeExpired(ctx, cutoff)
	if err != nil {
		log.Fatalf("failed to purge idempotency keys: %v", err)
	}
	logger.Info("idempotency key purge completed", slog.Int64("purged", purged), slog.Time("cutoff", cutoff))
}
