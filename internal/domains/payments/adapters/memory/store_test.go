package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/domain"
	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/ports"
)

func seededStore(t *testing.T) (*Store, *domain.Payment) {
	t.Helper()
	store := NewStore()
	ctx := context.Background()
	require.NoError(t, store.SaveCashDesk(ctx, &domain.CashDesk{Number: 1}))
	manager, err := domain.NewManager(1001, "Anna", "Schmidt", nil, "BMW")
	require.NoError(t, err)
	require.NoError(t, store.SaveEmployee(ctx, manager))

	now := time.Now()
	payment, err := domain.NewPayment(&domain.CashDesk{Number: 1}, manager, now, domain.PaymentTypeCash, now)
	require.NoError(t, err)
	return store, payment
}

func TestInTx_RollsBackOnError(t *testing.T) {
	store, payment := seededStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.InTx(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		id, err := uow.InsertPayment(ctx, payment)
		require.NoError(t, err)
		_, err = uow.InsertPaymentItem(ctx, &domain.PaymentItem{PaymentID: id, ArticleName: "Apfel", Amount: 1, Price: decimal.NewFromInt(1)})
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	payments, err := store.ListPayments(ctx, ports.PaymentFilter{})
	require.NoError(t, err)
	require.Empty(t, payments)
}

func TestInTx_CommitsOnSuccess(t *testing.T) {
	store, payment := seededStore(t)
	ctx := context.Background()

	var id int64
	err := store.InTx(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		var err error
		id, err = uow.InsertPayment(ctx, payment)
		if err != nil {
			return err
		}
		_, err = uow.InsertPaymentItem(ctx, &domain.PaymentItem{PaymentID: id, ArticleName: "Apfel", Amount: 2, Price: decimal.RequireFromString("1.50")})
		return err
	})
	require.NoError(t, err)

	proj, err := store.GetPayment(ctx, id)
	require.NoError(t, err)
	require.Len(t, proj.Entity.Items, 1)
	require.Equal(t, "Anna", proj.Entity.Employee.FirstName)
	require.False(t, proj.Metadata.CreatedAt.IsZero())
}

func TestRemovePayment_RequiresItemsRemovedFirst(t *testing.T) {
	store, payment := seededStore(t)
	ctx := context.Background()

	err := store.InTx(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		id, err := uow.InsertPayment(ctx, payment)
		if err != nil {
			return err
		}
		payment.ID = id
		if _, err := uow.InsertPaymentItem(ctx, &domain.PaymentItem{PaymentID: id, ArticleName: "Apfel", Amount: 1}); err != nil {
			return err
		}
		return uow.RemovePayment(ctx, payment)
	})
	require.ErrorIs(t, err, ports.ErrReferenced)
}

func TestInTx_CancelledContext(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.InTx(ctx, func(context.Context, ports.UnitOfWork) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, called)
}

func TestIdempotencyStore_PurgeExpired(t *testing.T) {
	idem := NewIdempotencyStore()
	ctx := context.Background()
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	idem.WithClock(func() time.Time { return old })
	_, err := idem.Save(ctx, ports.IdempotencyRecord{Key: "a", RequestHash: "h", PaymentID: 1})
	require.NoError(t, err)

	idem.WithClock(func() time.Time { return old.Add(48 * time.Hour) })
	_, err = idem.Save(ctx, ports.IdempotencyRecord{Key: "b", RequestHash: "h", PaymentID: 2})
	require.NoError(t, err)

	stored, err := idem.Save(ctx, ports.IdempotencyRecord{Key: "b", RequestHash: "other", PaymentID: 2})
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	require.Equal(t, "h", stored.RequestHash)

	removed, err := idem.PurgeExpired(ctx, old.Add(24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)

	record, err := idem.Get(ctx, "a")
	require.NoError(t, err)
	require.Nil(t, record)
}
