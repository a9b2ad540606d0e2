package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"

	paymentsmemory "github.com/Apurer/go-gin-payments-api/internal/domains/payments/adapters/memory"
	paymentsworkflows "github.com/Apurer/go-gin-payments-api/internal/domains/payments/adapters/workflows"
	paymentsapp "github.com/Apurer/go-gin-payments-api/internal/domains/payments/application"
	paymenttypes "github.com/Apurer/go-gin-payments-api/internal/domains/payments/application/types"
	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/domain"
)

type fakeTemporalClient struct {
	client.Client
	closed bool
}

func (f *fakeTemporalClient) Close() { f.closed = true }

func memoryStack(t *testing.T) *Stack {
	t.Helper()
	ctx := context.Background()
	store := paymentsmemory.NewStore()
	require.NoError(t, store.SaveCashDesk(ctx, &domain.CashDesk{Number: 1}))
	manager, err := domain.NewManager(1001, "Anna", "Schmidt", nil, "")
	require.NoError(t, err)
	require.NoError(t, store.SaveEmployee(ctx, manager))
	return &Stack{Payments: paymentsapp.NewService(store)}
}

func TestSelectWorkflows_MemoryStoreConfirmsInline(t *testing.T) {
	stack := memoryStack(t)
	dialed := false

	workflows, cleanup := SelectWorkflows(stack, func() (client.Client, error) {
		dialed = true
		return &fakeTemporalClient{}, nil
	}, nil)
	defer cleanup()

	assert.False(t, dialed)
	require.IsType(t, &paymentsworkflows.InlinePaymentWorkflows{}, workflows)

	ctx := context.Background()
	created, err := stack.Payments.CreatePayment(ctx, paymenttypes.CreatePaymentInput{
		CashDeskNumber:             1,
		EmployeeRegistrationNumber: 1001,
		PaymentDateTime:            time.Now().Add(-time.Minute),
		PaymentType:                "Cash",
	})
	require.NoError(t, err)
	require.NoError(t, workflows.ConfirmPayment(ctx, paymenttypes.ConfirmPaymentInput{ID: created.ID}))
}

func TestSelectWorkflows_DurableStoreUsesTemporal(t *testing.T) {
	stack := memoryStack(t)
	stack.Durable = true
	fake := &fakeTemporalClient{}

	workflows, cleanup := SelectWorkflows(stack, func() (client.Client, error) { return fake, nil }, nil)

	require.IsType(t, &paymentsworkflows.TemporalPaymentWorkflows{}, workflows)
	cleanup()
	assert.True(t, fake.closed)
}

func TestSelectWorkflows_DialFailureFallsBackInline(t *testing.T) {
	stack := memoryStack(t)
	stack.Durable = true

	workflows, cleanup := SelectWorkflows(stack, func() (client.Client, error) {
		return nil, errors.New("connection refused")
	}, nil)
	defer cleanup()

	require.IsType(t, &paymentsworkflows.InlinePaymentWorkflows{}, workflows)
}
