package redis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/ports"
)

const keyPrefix = "idempotency:payments:"

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore caches idempotency records in Redis in front of a durable store.
// Redis failures degrade to the inner store and are logged, never returned.
type IdempotencyStore struct {
	client goredis.UniversalClient
	inner  ports.IdempotencyStore
	ttl    time.Duration
	logger *slog.Logger
}

// NewIdempotencyStore wraps inner with a Redis cache whose entries expire after ttl.
func NewIdempotencyStore(client goredis.UniversalClient, inner ports.IdempotencyStore, ttl time.Duration, logger *slog.Logger) *IdempotencyStore {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &IdempotencyStore{client: client, inner: inner, ttl: ttl, logger: logger}
}

// Get returns the cached record or loads it from the inner store and caches it.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	if s.client != nil {
		payload, err := s.client.Get(ctx, keyPrefix+key).Bytes()
		switch {
		case err == nil:
			var record ports.IdempotencyRecord
			if jsonErr := json.Unmarshal(payload, &record); jsonErr == nil {
				return &record, nil
			}
			s.logger.WarnContext(ctx, "discarding unreadable idempotency cache entry", slog.String("key", key))
		case errors.Is(err, goredis.Nil):
		default:
			s.logger.WarnContext(ctx, "idempotency cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
	if s.inner == nil {
		return nil, nil
	}
	record, err := s.inner.Get(ctx, key)
	if err != nil || record == nil {
		return record, err
	}
	s.cache(ctx, record)
	return record, nil
}

// Save persists through the inner store and caches whatever record ends up stored.
func (s *IdempotencyStore) Save(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if s.inner == nil {
		return nil, errors.New("redis idempotency store requires a durable inner store")
	}
	stored, err := s.inner.Save(ctx, record)
	if stored != nil {
		s.cache(ctx, stored)
	}
	return stored, err
}

func (s *IdempotencyStore) cache(ctx context.Context, record *ports.IdempotencyRecord) {
	if s.client == nil {
		return
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, keyPrefix+record.Key, payload, s.ttl).Err(); err != nil {
		s.logger.WarnContext(ctx, "idempotency cache write failed", slog.String("key", record.Key), slog.String("error", err.Error()))
	}
}
