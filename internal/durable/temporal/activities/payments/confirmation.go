package payments

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/application"
	paymenttypes "github.com/Apurer/go-gin-payments-api/internal/domains/payments/application/types"
	paymentports "github.com/Apurer/go-gin-payments-api/internal/domains/payments/ports"
)

const (
	// ConfirmPaymentActivityName finalizes a payment through the application service.
	ConfirmPaymentActivityName = "payments.activities.ConfirmPayment"

	// ErrTypeValidation tags non-retryable failures caused by rejected input.
	ErrTypeValidation = "ValidationError"
	// ErrTypeNotFound tags non-retryable failures caused by a missing payment.
	ErrTypeNotFound = "NotFoundError"
)

// Activities groups activities that operate on the payments bounded context.
type Activities struct {
	service paymentports.Service
}

// NewActivities wires the payments service into the Temporal activities bundle.
func NewActivities(service paymentports.Service) *Activities {
	return &Activities{service: service}
}

// ConfirmPayment confirms the payment. Rule violations are reported as
// non-retryable application errors carrying the message as their only detail.
func (a *Activities) ConfirmPayment(ctx context.Context, input paymenttypes.ConfirmPaymentInput) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("confirm payment activity not initialized", "paymentId", input.ID)
		return errors.New("confirm payment activity not initialized")
	}
	logger.Info("ConfirmPayment activity started", "paymentId", input.ID)
	if err := a.service.ConfirmPayment(ctx, input); err != nil {
		logger.Warn("ConfirmPayment activity failed", "paymentId", input.ID, "error", err)
		return toApplicationError(err)
	}
	logger.Info("ConfirmPayment activity completed", "paymentId", input.ID)
	return nil
}

func toApplicationError(err error) error {
	var validationErr *application.ValidationError
	if errors.As(err, &validationErr) {
		return temporal.NewNonRetryableApplicationError(validationErr.Message, ErrTypeValidation, nil, validationErr.Message)
	}
	var notFoundErr *application.NotFoundError
	if errors.As(err, &notFoundErr) {
		return temporal.NewNonRetryableApplicationError(notFoundErr.Message, ErrTypeNotFound, nil, notFoundErr.Message)
	}
	return err
}
