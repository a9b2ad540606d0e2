package payments

import (
	"go.temporal.io/sdk/workflow"

	paymenttypes "github.com/Apurer/go-gin-payments-api/internal/domains/payments/application/types"
	"github.com/Apurer/go-gin-payments-api/internal/durable/temporal/sequences"
)

const (
	// PaymentConfirmationWorkflowName is the public identifier for registering the workflow.
	PaymentConfirmationWorkflowName = "payments.workflows.Confirmation"
	// PaymentConfirmationTaskQueue is the queue consumed by the worker processing payment workflows.
	PaymentConfirmationTaskQueue = "PAYMENT_CONFIRMATION"
)

// PaymentConfirmationWorkflowInput carries the payment to confirm.
type PaymentConfirmationWorkflowInput struct {
	Command paymenttypes.ConfirmPaymentInput
	TraceID string
}

// PaymentConfirmationWorkflow finalizes a payment.
func PaymentConfirmationWorkflow(ctx workflow.Context, input PaymentConfirmationWorkflowInput) error {
	logger := workflow.GetLogger(ctx)
	paymentID := input.Command.ID
	logger.Info("PaymentConfirmationWorkflow started", withTraceID(input.TraceID, "paymentId", paymentID)...)
	if err := sequences.RunPaymentConfirmationSequence(ctx, input.Command); err != nil {
		logger.Error("PaymentConfirmationWorkflow failed", withTraceID(input.TraceID, "paymentId", paymentID, "error", err)...)
		return err
	}
	logger.Info("PaymentConfirmationWorkflow completed", withTraceID(input.TraceID, "paymentId", paymentID)...)
	return nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
