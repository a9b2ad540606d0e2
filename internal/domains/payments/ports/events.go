package ports

import (
	"context"

	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/domain"
)

// EventPublisher ships committed payment events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event) error
}
