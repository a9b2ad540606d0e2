package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	paymenttypes "github.com/Apurer/go-gin-payments-api/internal/domains/payments/application/types"
	paymentactivities "github.com/Apurer/go-gin-payments-api/internal/durable/temporal/activities/payments"
)

// RunPaymentConfirmationSequence executes the activities that finalize a payment.
func RunPaymentConfirmationSequence(ctx workflow.Context, input paymenttypes.ConfirmPaymentInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("payment confirmation sequence started", "paymentId", input.ID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        2 * time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        10 * time.Second,
			MaximumAttempts:        5,
			NonRetryableErrorTypes: []string{paymentactivities.ErrTypeValidation, paymentactivities.ErrTypeNotFound},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	if err := workflow.ExecuteActivity(ctx, paymentactivities.ConfirmPaymentActivityName, input).Get(ctx, nil); err != nil {
		logger.Error("payment confirmation sequence failed", "paymentId", input.ID, "error", err)
		return err
	}
	logger.Info("payment confirmation sequence completed", "paymentId", input.ID)
	return nil
}
