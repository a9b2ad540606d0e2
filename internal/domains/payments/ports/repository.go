package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/domain"
	"github.com/Apurer/go-gin-payments-api/internal/shared/projection"
)

var (
	// ErrNotFound is returned when a looked-up record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a record with the same identity already exists.
	ErrConflict = errors.New("record already exists")
	// ErrReferenced is returned when a record cannot be removed because payments point to it.
	ErrReferenced = errors.New("record is referenced by payments")
)

// PaymentFilter narrows payment listings. Nil fields are ignored.
type PaymentFilter struct {
	CashDeskNumbers []int
	DateFrom        *time.Time
}

// UnitOfWork is the transactional view handed to payment mutations. Every
// change made through it is committed or rolled back together.
type UnitOfWork interface {
	FindCashDeskByNumber(ctx context.Context, number int) (*domain.CashDesk, error)
	FindEmployeeByRegistrationNumber(ctx context.Context, registrationNumber int) (*domain.Employee, error)
	// FindPaymentByID locks the payment row for the rest of the unit of work.
	FindPaymentByID(ctx context.Context, id int64, withItems bool) (*domain.Payment, error)
	InsertPayment(ctx context.Context, payment *domain.Payment) (int64, error)
	UpdatePayment(ctx context.Context, payment *domain.Payment) error
	InsertPaymentItem(ctx context.Context, item *domain.PaymentItem) (int64, error)
	RemovePayment(ctx context.Context, payment *domain.Payment) error
	RemovePaymentItems(ctx context.Context, items []domain.PaymentItem) error
}

// Repository persists payments.
type Repository interface {
	// InTx runs fn inside a single unit of work. The work is committed when fn
	// returns nil and rolled back otherwise.
	InTx(ctx context.Context, fn func(ctx context.Context, uow UnitOfWork) error) error
	GetPayment(ctx context.Context, id int64) (*projection.Projection[*domain.Payment], error)
	ListPayments(ctx context.Context, filter PaymentFilter) ([]*projection.Projection[*domain.Payment], error)
}

// CashDeskRepository persists cash desks.
type CashDeskRepository interface {
	SaveCashDesk(ctx context.Context, desk *domain.CashDesk) error
	GetCashDesk(ctx context.Context, number int) (*domain.CashDesk, error)
	ListCashDesks(ctx context.Context) ([]*domain.CashDesk, error)
	DeleteCashDesk(ctx context.Context, number int) error
}

// EmployeeRepository persists managers and cashiers.
type EmployeeRepository interface {
	SaveEmployee(ctx context.Context, employee *domain.Employee) error
	GetEmployee(ctx context.Context, registrationNumber int) (*domain.Employee, error)
	ListEmployees(ctx context.Context, role *domain.Role) ([]*domain.Employee, error)
	DeleteEmployee(ctx context.Context, registrationNumber int) error
}
