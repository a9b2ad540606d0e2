package ports

import (
	"context"
	"errors"
	"time"
)

// ErrIdempotencyConflict indicates the same key was used with a different payload.
var ErrIdempotencyConflict = errors.New("idempotency conflict")

// IdempotencyConflictError names the key that was reused. It matches ErrIdempotencyConflict.
type IdempotencyConflictError struct {
	Key string
}

func (e *IdempotencyConflictError) Error() string {
	return "idempotency conflict for key " + e.Key
}

func (e *IdempotencyConflictError) Unwrap() error { return ErrIdempotencyConflict }

// IdempotencyRecord associates a client-supplied key with the payment it created.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	PaymentID   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IdempotencyStore persists idempotency keys so create retries can be replayed safely.
type IdempotencyStore interface {
	// Get returns the stored record for the key, or nil when unknown.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Save persists the record. If the key already exists with the same hash and payment,
	// the stored record is returned. When the key points to a different request or payment,
	// ErrIdempotencyConflict is returned together with the stored record.
	Save(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
}
