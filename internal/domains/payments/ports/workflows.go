package ports

import (
	"context"

	paymenttypes "github.com/Apurer/go-gin-payments-api/internal/domains/payments/application/types"
)

// WorkflowOrchestrator exposes the durable workflows of the payments context.
type WorkflowOrchestrator interface {
	ConfirmPayment(ctx context.Context, input paymenttypes.ConfirmPaymentInput) error
}
