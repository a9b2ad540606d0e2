package redis

import (
	"context"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Options configures the Redis client.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// ConnectOrFallback dials Redis and verifies it with PING. When no address is
// configured or the ping fails it logs and returns nil with a no-op cleanup.
func ConnectOrFallback(ctx context.Context, opts Options, logger *slog.Logger) (*goredis.Client, func()) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(opts.Addr) == "" {
		logger.Warn("REDIS_ADDR not set, idempotency cache disabled")
		return nil, func() {}
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("failed to reach redis, idempotency cache disabled", slog.String("error", err.Error()))
		_ = client.Close()
		return nil, func() {}
	}
	logger.Info("redis connection established", slog.String("addr", opts.Addr))
	return client, func() { _ = client.Close() }
}
