package ports

import (
	"context"

	paymenttypes "github.com/Apurer/go-gin-payments-api/internal/domains/payments/application/types"
	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/domain"
)

// Service defines the payment lifecycle use cases exposed to adapters (inbound/driving port).
type Service interface {
	CreatePayment(ctx context.Context, input paymenttypes.CreatePaymentInput) (*paymenttypes.CreatePaymentResult, error)
	ConfirmPayment(ctx context.Context, input paymenttypes.ConfirmPaymentInput) error
	AddPaymentItem(ctx context.Context, input paymenttypes.AddPaymentItemInput) (int64, error)
	DeletePayment(ctx context.Context, input paymenttypes.DeletePaymentInput) error
	UpdatePayment(ctx context.Context, input paymenttypes.UpdatePaymentInput) error
	SetPaymentType(ctx context.Context, input paymenttypes.SetPaymentTypeInput) error
	GetPayment(ctx context.Context, input paymenttypes.PaymentIdentifier) (*paymenttypes.PaymentProjection, error)
	ListPayments(ctx context.Context, input paymenttypes.ListPaymentsInput) ([]paymenttypes.PaymentSummary, error)
}

// CashDeskService manages the cash desk registry.
type CashDeskService interface {
	CreateCashDesk(ctx context.Context, number int) (*domain.CashDesk, error)
	GetCashDesk(ctx context.Context, number int) (*domain.CashDesk, error)
	ListCashDesks(ctx context.Context) ([]*domain.CashDesk, error)
	DeleteCashDesk(ctx context.Context, number int) error
}

// EmployeeService manages managers and cashiers.
type EmployeeService interface {
	CreateEmployee(ctx context.Context, input paymenttypes.CreateEmployeeInput) (*domain.Employee, error)
	GetEmployee(ctx context.Context, registrationNumber int) (*domain.Employee, error)
	ListEmployees(ctx context.Context, input paymenttypes.ListEmployeesInput) ([]*domain.Employee, error)
	DeleteEmployee(ctx context.Context, registrationNumber int) error
}
