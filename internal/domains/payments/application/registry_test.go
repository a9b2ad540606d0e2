package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	paymentmemory "github.com/Apurer/go-gin-payments-api/internal/domains/payments/adapters/memory"
	paymenttypes "github.com/Apurer/go-gin-payments-api/internal/domains/payments/application/types"
	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/domain"
)

func TestCashDeskService_Lifecycle(t *testing.T) {
	store := paymentmemory.NewStore()
	svc := NewCashDeskService(store)
	ctx := context.Background()

	_, err := svc.CreateCashDesk(ctx, 0)
	requireValidation(t, err, MsgInvalidCashDeskNumber)

	desk, err := svc.CreateCashDesk(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, 3, desk.Number)

	_, err = svc.CreateCashDesk(ctx, 3)
	requireValidation(t, err, MsgCashDeskExists)

	_, err = svc.CreateCashDesk(ctx, 1)
	require.NoError(t, err)
	desks, err := svc.ListCashDesks(ctx)
	require.NoError(t, err)
	require.Len(t, desks, 2)
	require.Equal(t, 1, desks[0].Number)

	_, err = svc.GetCashDesk(ctx, 8)
	requireNotFound(t, err, MsgCashDeskNotFound)

	require.NoError(t, svc.DeleteCashDesk(ctx, 3))
	err = svc.DeleteCashDesk(ctx, 3)
	requireNotFound(t, err, MsgCashDeskNotFound)
}

func TestCashDeskService_DeleteReferenced(t *testing.T) {
	payments, store := newFixture(t)
	ctx := context.Background()
	_, err := payments.CreatePayment(ctx, createInput(1001, "Cash"))
	require.NoError(t, err)

	err = NewCashDeskService(store).DeleteCashDesk(ctx, 1)
	requireValidation(t, err, MsgCashDeskHasPayments)

	err = NewEmployeeService(store).DeleteEmployee(ctx, 1001)
	requireValidation(t, err, MsgEmployeeHasPayments)
	require.NoError(t, NewEmployeeService(store).DeleteEmployee(ctx, 2002))
}

func TestEmployeeService_CreateVariants(t *testing.T) {
	svc := NewEmployeeService(paymentmemory.NewStore())
	ctx := context.Background()

	manager, err := svc.CreateEmployee(ctx, paymenttypes.CreateEmployeeInput{
		RegistrationNumber: 1001,
		FirstName:          "Anna",
		LastName:           "Schmidt",
		Role:               "manager",
		CarType:            "BMW",
		Address:            &paymenttypes.AddressInput{Street: "Hauptstrasse 1", Zip: "1010", City: "Wien"},
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleManager, manager.Role)
	require.True(t, manager.CanCreateCreditCardPayment())

	cashier, err := svc.CreateEmployee(ctx, paymenttypes.CreateEmployeeInput{
		RegistrationNumber: 2002,
		FirstName:          "Ben",
		LastName:           "Meier",
		Role:               "Cashier",
		JobSpecialisation:  "Kassa 1",
	})
	require.NoError(t, err)
	require.False(t, cashier.CanCreateCreditCardPayment())
	require.Equal(t, "Kassa 1", cashier.JobSpecialisation)

	loaded, err := svc.GetEmployee(ctx, 1001)
	require.NoError(t, err)
	require.Equal(t, "Wien", loaded.Address.City)
	require.Equal(t, "BMW", loaded.CarType)

	role := "Cashier"
	cashiers, err := svc.ListEmployees(ctx, paymenttypes.ListEmployeesInput{Role: &role})
	require.NoError(t, err)
	require.Len(t, cashiers, 1)
	require.Equal(t, 2002, cashiers[0].RegistrationNumber)

	everyone, err := svc.ListEmployees(ctx, paymenttypes.ListEmployeesInput{})
	require.NoError(t, err)
	require.Len(t, everyone, 2)
}

func TestEmployeeService_Validation(t *testing.T) {
	svc := NewEmployeeService(paymentmemory.NewStore())
	ctx := context.Background()

	valid := paymenttypes.CreateEmployeeInput{RegistrationNumber: 5, FirstName: "Eva", LastName: "Berg", Role: "Cashier"}

	in := valid
	in.Role = "Intern"
	_, err := svc.CreateEmployee(ctx, in)
	requireValidation(t, err, MsgInvalidEmployeeRole)

	in = valid
	in.RegistrationNumber = 0
	_, err = svc.CreateEmployee(ctx, in)
	requireValidation(t, err, MsgInvalidRegistrationNo)

	in = valid
	in.LastName = " "
	_, err = svc.CreateEmployee(ctx, in)
	requireValidation(t, err, MsgInvalidEmployeeName)

	_, err = svc.CreateEmployee(ctx, valid)
	require.NoError(t, err)
	_, err = svc.CreateEmployee(ctx, valid)
	requireValidation(t, err, MsgEmployeeExists)

	bogus := "Janitor"
	_, err = svc.ListEmployees(ctx, paymenttypes.ListEmployeesInput{Role: &bogus})
	requireValidation(t, err, MsgInvalidEmployeeRole)

	_, err = svc.GetEmployee(ctx, 99)
	requireNotFound(t, err, MsgEmployeeNotFound)
}
