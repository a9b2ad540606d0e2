package workflows

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"

	paymentmemory "github.com/Apurer/go-gin-payments-api/internal/domains/payments/adapters/memory"
	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/application"
	paymenttypes "github.com/Apurer/go-gin-payments-api/internal/domains/payments/application/types"
	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/domain"
	paymentactivities "github.com/Apurer/go-gin-payments-api/internal/durable/temporal/activities/payments"
)

func TestFromWorkflowError_RestoresTypedErrors(t *testing.T) {
	validation := temporal.NewNonRetryableApplicationError(application.MsgPaymentAlreadyConfirmed, paymentactivities.ErrTypeValidation, nil, application.MsgPaymentAlreadyConfirmed)
	err := fromWorkflowError(fmt.Errorf("workflow failed: %w", validation))
	require.ErrorIs(t, err, application.ErrInvalidInput)
	require.EqualError(t, err, application.MsgPaymentAlreadyConfirmed)

	notFound := temporal.NewNonRetryableApplicationError(application.MsgPaymentNotFound, paymentactivities.ErrTypeNotFound, nil, application.MsgPaymentNotFound)
	err = fromWorkflowError(notFound)
	require.True(t, application.IsNotFound(err))
	require.EqualError(t, err, application.MsgPaymentNotFound)

	other := errors.New("temporal unavailable")
	require.Equal(t, other, fromWorkflowError(other))
	require.NoError(t, fromWorkflowError(nil))
}

func TestInlinePaymentWorkflows_ConfirmPayment(t *testing.T) {
	store := paymentmemory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.SaveCashDesk(ctx, &domain.CashDesk{Number: 1}))
	cashier, err := domain.NewCashier(2002, "Ben", "Meier", nil, "")
	require.NoError(t, err)
	require.NoError(t, store.SaveEmployee(ctx, cashier))

	svc := application.NewService(store)
	created, err := svc.CreatePayment(ctx, paymenttypes.CreatePaymentInput{
		CashDeskNumber:             1,
		EmployeeRegistrationNumber: 2002,
		PaymentDateTime:            time.Now(),
		PaymentType:                "Cash",
	})
	require.NoError(t, err)

	orchestrator := NewInlinePaymentWorkflows(svc)
	require.NoError(t, orchestrator.ConfirmPayment(ctx, paymenttypes.ConfirmPaymentInput{ID: created.ID}))
	err = orchestrator.ConfirmPayment(ctx, paymenttypes.ConfirmPaymentInput{ID: created.ID})
	require.EqualError(t, err, application.MsgPaymentAlreadyConfirmed)

	var unconfigured *InlinePaymentWorkflows
	require.Error(t, unconfigured.ConfirmPayment(ctx, paymenttypes.ConfirmPaymentInput{ID: 1}))
}
