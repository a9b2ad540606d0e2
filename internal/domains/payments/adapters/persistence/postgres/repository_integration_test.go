//go:build integration
// +build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/application"
	paymenttypes "github.com/Apurer/go-gin-payments-api/internal/domains/payments/application/types"
	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/domain"
	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/ports"
	"github.com/Apurer/go-gin-payments-api/internal/platform/migrations"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("payments_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func seed(t *testing.T, repo *Repository) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.SaveCashDesk(ctx, &domain.CashDesk{Number: 1}))
	manager, err := domain.NewManager(1001, "Anna", "Schmidt", &domain.Address{Street: "Hauptstrasse 1", Zip: "1010", City: "Wien"}, "BMW")
	require.NoError(t, err)
	require.NoError(t, repo.SaveEmployee(ctx, manager))
	cashier, err := domain.NewCashier(2002, "Ben", "Meier", nil, "Kassa 1")
	require.NoError(t, err)
	require.NoError(t, repo.SaveEmployee(ctx, cashier))
}

func TestRepository_PaymentLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	seed(t, repo)
	svc := application.NewService(repo)
	ctx := context.Background()

	created, err := svc.CreatePayment(ctx, paymenttypes.CreatePaymentInput{
		CashDeskNumber:             1,
		EmployeeRegistrationNumber: 1001,
		PaymentDateTime:            time.Now().UTC(),
		PaymentType:                "CreditCard",
		Items: []paymenttypes.PaymentItemInput{
			{ArticleName: "Brot", Amount: 1, Price: decimal.RequireFromString("3.20")},
		},
	})
	require.NoError(t, err)

	_, err = svc.AddPaymentItem(ctx, paymenttypes.AddPaymentItemInput{
		PaymentID:   created.ID,
		ArticleName: "Apfel",
		Amount:      2,
		Price:       decimal.RequireFromString("1.50"),
	})
	require.NoError(t, err)

	proj, err := repo.GetPayment(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, proj.Entity.Confirmed)
	assert.Equal(t, domain.RoleManager, proj.Entity.Employee.Role)
	assert.Equal(t, "Wien", proj.Entity.Employee.Address.City)
	require.Len(t, proj.Entity.Items, 2)
	assert.Equal(t, "Apfel", proj.Entity.Items[1].ArticleName)
	assert.True(t, decimal.RequireFromString("4.70").Equal(proj.Entity.Total()))

	require.NoError(t, svc.ConfirmPayment(ctx, paymenttypes.ConfirmPaymentInput{ID: created.ID}))
	err = svc.ConfirmPayment(ctx, paymenttypes.ConfirmPaymentInput{ID: created.ID})
	assert.EqualError(t, err, application.MsgPaymentAlreadyConfirmed)

	err = svc.DeletePayment(ctx, paymenttypes.DeletePaymentInput{ID: created.ID})
	assert.EqualError(t, err, application.MsgPaymentHasItems)
	require.NoError(t, svc.DeletePayment(ctx, paymenttypes.DeletePaymentInput{ID: created.ID, DeleteItems: true}))

	_, err = repo.GetPayment(ctx, created.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
	var items int64
	require.NoError(t, db.Model(&paymentItemRecord{}).Where("payment_id = ?", created.ID).Count(&items).Error)
	assert.Zero(t, items)
}

func TestRepository_TransactionRollsBack(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	seed(t, repo)
	ctx := context.Background()
	boom := errors.New("boom")

	err := repo.InTx(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		desk, err := uow.FindCashDeskByNumber(ctx, 1)
		require.NoError(t, err)
		employee, err := uow.FindEmployeeByRegistrationNumber(ctx, 1001)
		require.NoError(t, err)
		payment, err := domain.NewPayment(desk, employee, time.Now(), domain.PaymentTypeCash, time.Now())
		require.NoError(t, err)
		_, err = uow.InsertPayment(ctx, payment)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	list, err := repo.ListPayments(ctx, ports.PaymentFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRepository_ListPaymentsFilter(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	seed(t, repo)
	require.NoError(t, repo.SaveCashDesk(context.Background(), &domain.CashDesk{Number: 2}))
	svc := application.NewService(repo)
	ctx := context.Background()

	now := time.Now().UTC()
	for _, in := range []paymenttypes.CreatePaymentInput{
		{CashDeskNumber: 1, EmployeeRegistrationNumber: 2002, PaymentDateTime: now.Add(-72 * time.Hour), PaymentType: "Cash"},
		{CashDeskNumber: 2, EmployeeRegistrationNumber: 2002, PaymentDateTime: now, PaymentType: "Cash"},
	} {
		_, err := svc.CreatePayment(ctx, in)
		require.NoError(t, err)
	}

	list, err := repo.ListPayments(ctx, ports.PaymentFilter{CashDeskNumbers: []int{2}})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].Entity.CashDesk.Number)

	from := now.Add(-time.Hour)
	list, err = repo.ListPayments(ctx, ports.PaymentFilter{DateFrom: &from})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRepository_RegistryConstraints(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	seed(t, repo)
	ctx := context.Background()

	assert.ErrorIs(t, repo.SaveCashDesk(ctx, &domain.CashDesk{Number: 1}), ports.ErrConflict)

	_, err := application.NewService(repo).CreatePayment(ctx, paymenttypes.CreatePaymentInput{
		CashDeskNumber: 1, EmployeeRegistrationNumber: 2002, PaymentDateTime: time.Now(), PaymentType: "Cash",
	})
	require.NoError(t, err)

	assert.ErrorIs(t, repo.DeleteCashDesk(ctx, 1), ports.ErrReferenced)
	assert.ErrorIs(t, repo.DeleteEmployee(ctx, 2002), ports.ErrReferenced)
	assert.ErrorIs(t, repo.DeleteEmployee(ctx, 9999), ports.ErrNotFound)

	role := domain.RoleCashier
	cashiers, err := repo.ListEmployees(ctx, &role)
	require.NoError(t, err)
	require.Len(t, cashiers, 1)
	assert.Equal(t, "Kassa 1", cashiers[0].JobSpecialisation)
	assert.Nil(t, cashiers[0].Address)
}

func TestIdempotencyStore_SaveAndPurge(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	store := NewIdempotencyStore(db)
	ctx := context.Background()

	saved, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "h1", PaymentID: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(7), saved.PaymentID)

	again, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "h1", PaymentID: 7})
	require.NoError(t, err)
	assert.Equal(t, "h1", again.RequestHash)

	_, err = store.Save(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "h2", PaymentID: 8})
	assert.ErrorIs(t, err, ports.ErrIdempotencyConflict)

	removed, err := store.PurgeExpired(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	missing, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
