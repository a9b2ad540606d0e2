package types

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/domain"
	"github.com/Apurer/go-gin-payments-api/internal/shared/projection"
)

// PaymentIdentifier addresses a single payment.
type PaymentIdentifier struct {
	ID int64
}

// ListPaymentsInput filters the payment listing. Nil fields match everything.
type ListPaymentsInput struct {
	CashDeskNumber *int
	DateFrom       *time.Time
}

// ListEmployeesInput filters employees by role name when set.
type ListEmployeesInput struct {
	Role *string
}

// PaymentProjection transports a payment together with its persistence metadata.
type PaymentProjection = projection.Projection[*domain.Payment]

// PaymentSummary is the list view of a payment.
type PaymentSummary struct {
	ID                int64
	EmployeeFirstName string
	EmployeeLastName  string
	PaymentDateTime   time.Time
	CashDeskNumber    int
	PaymentType       domain.PaymentType
	Confirmed         *time.Time
	Total             decimal.Decimal
}

// SummarizePayment builds the list view of a payment.
func SummarizePayment(p *domain.Payment) PaymentSummary {
	summary := PaymentSummary{
		ID:              p.ID,
		PaymentDateTime: p.PaymentDateTime,
		PaymentType:     p.PaymentType,
		Confirmed:       p.Confirmed,
		Total:           p.Total(),
	}
	if p.Employee != nil {
		summary.EmployeeFirstName = p.Employee.FirstName
		summary.EmployeeLastName = p.Employee.LastName
	}
	if p.CashDesk != nil {
		summary.CashDeskNumber = p.CashDesk.Number
	}
	return summary
}
