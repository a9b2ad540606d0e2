package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	paymentmemory "github.com/Apurer/go-gin-payments-api/internal/domains/payments/adapters/memory"
	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/ports"
)

// unreachableClient points at a closed port so every command fails fast.
func unreachableClient(t *testing.T) goredis.UniversalClient {
	t.Helper()
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestIdempotencyStore_FallsBackWhenRedisIsDown(t *testing.T) {
	inner := paymentmemory.NewIdempotencyStore()
	store := NewIdempotencyStore(unreachableClient(t), inner, time.Hour, nil)
	ctx := context.Background()

	saved, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h", PaymentID: 3})
	require.NoError(t, err)
	require.Equal(t, int64(3), saved.PaymentID)

	record, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, record)
	require.Equal(t, "h", record.RequestHash)

	_, err = store.Save(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "other", PaymentID: 3})
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
}

func TestIdempotencyStore_WithoutClient(t *testing.T) {
	store := NewIdempotencyStore(nil, paymentmemory.NewIdempotencyStore(), time.Hour, nil)
	record, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	require.Nil(t, record)
}
