package memory

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/domain"
	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/ports"
	"github.com/Apurer/go-gin-payments-api/internal/shared/projection"
)

var _ ports.UnitOfWork = (*unitOfWork)(nil)

// unitOfWork mutates the private table copy of a single InTx call.
type unitOfWork struct {
	t   *tables
	now func() time.Time
}

func (u *unitOfWork) FindCashDeskByNumber(_ context.Context, number int) (*domain.CashDesk, error) {
	desk, ok := u.t.cashDesks[number]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &desk, nil
}

func (u *unitOfWork) FindEmployeeByRegistrationNumber(_ context.Context, registrationNumber int) (*domain.Employee, error) {
	employee, ok := u.t.employees[registrationNumber]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := cloneEmployee(employee)
	return &clone, nil
}

func (u *unitOfWork) FindPaymentByID(_ context.Context, id int64, withItems bool) (*domain.Payment, error) {
	row, ok := u.t.payments[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return u.t.payment(row, withItems), nil
}

func (u *unitOfWork) InsertPayment(_ context.Context, payment *domain.Payment) (int64, error) {
	row, err := u.toRow(payment)
	if err != nil {
		return 0, err
	}
	u.t.nextPaymentID++
	row.ID = u.t.nextPaymentID
	row.metadata = projection.Created(u.now())
	u.t.payments[row.ID] = row
	return row.ID, nil
}

func (u *unitOfWork) UpdatePayment(_ context.Context, payment *domain.Payment) error {
	existing, ok := u.t.payments[payment.ID]
	if !ok {
		return ports.ErrNotFound
	}
	row, err := u.toRow(payment)
	if err != nil {
		return err
	}
	row.ID = existing.ID
	row.metadata = existing.metadata.Touched(u.now())
	u.t.payments[row.ID] = row
	return nil
}

func (u *unitOfWork) InsertPaymentItem(_ context.Context, item *domain.PaymentItem) (int64, error) {
	if _, ok := u.t.payments[item.PaymentID]; !ok {
		return 0, ports.ErrNotFound
	}
	u.t.nextItemID++
	stored := *item
	stored.ID = u.t.nextItemID
	u.t.items[stored.ID] = stored
	return stored.ID, nil
}

func (u *unitOfWork) RemovePayment(_ context.Context, payment *domain.Payment) error {
	if _, ok := u.t.payments[payment.ID]; !ok {
		return ports.ErrNotFound
	}
	if len(u.t.itemsOf(payment.ID)) > 0 {
		return ports.ErrReferenced
	}
	delete(u.t.payments, payment.ID)
	return nil
}

func (u *unitOfWork) RemovePaymentItems(_ context.Context, items []domain.PaymentItem) error {
	for _, item := range items {
		delete(u.t.items, item.ID)
	}
	return nil
}

func (u *unitOfWork) toRow(payment *domain.Payment) (paymentRow, error) {
	if payment == nil {
		return paymentRow{}, errors.New("payment is nil")
	}
	if payment.CashDesk == nil || payment.Employee == nil {
		return paymentRow{}, errors.New("payment references are not resolved")
	}
	if _, ok := u.t.cashDesks[payment.CashDesk.Number]; !ok {
		return paymentRow{}, ports.ErrNotFound
	}
	if _, ok := u.t.employees[payment.Employee.RegistrationNumber]; !ok {
		return paymentRow{}, ports.ErrNotFound
	}
	row := paymentRow{
		CashDeskNumber:             payment.CashDesk.Number,
		EmployeeRegistrationNumber: payment.Employee.RegistrationNumber,
		PaymentDateTime:            payment.PaymentDateTime,
		PaymentType:                payment.PaymentType,
	}
	if payment.Confirmed != nil {
		confirmed := *payment.Confirmed
		row.Confirmed = &confirmed
	}
	return row, nil
}
