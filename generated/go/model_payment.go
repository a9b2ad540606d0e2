package paymentsserver

import (
	"time"

	"github.com/shopspring/decimal"

	paymenthttpmapper "github.com/Apurer/go-gin-payments-api/internal/domains/payments/adapters/http/mapper"
)

// NewPaymentCommand is the body of POST /api/payments and PUT /api/payments/:id.
type NewPaymentCommand struct {
	CashDeskNumber             int                             `json:"cashDeskNumber"`
	EmployeeRegistrationNumber int                             `json:"employeeRegistrationNumber"`
	PaymentDateTime            time.Time                       `json:"paymentDateTime" binding:"required"`
	PaymentType                string                          `json:"paymentType"`
	PaymentItems               []paymenthttpmapper.PaymentItem `json:"paymentItems,omitempty"`
}

// NewPaymentItemCommand is the body of POST /api/payments/:id/items.
type NewPaymentItemCommand struct {
	ArticleName string          `json:"articleName"`
	Amount      int             `json:"amount"`
	Price       decimal.Decimal `json:"price"`
}

// CreatedResponse carries the generated id of a created resource.
type CreatedResponse struct {
	ID int64 `json:"id"`
}

// ListPaymentsParams are the query parameters of GET /api/payments.
type ListPaymentsParams struct {
	CashDesk *int       `form:"cashDesk" json:"cashDesk,omitempty"`
	DateFrom *time.Time `form:"dateFrom" json:"dateFrom,omitempty"`
}

// DeletePaymentParams are the query parameters of DELETE /api/payments/:id.
type DeletePaymentParams struct {
	DeleteItems *bool `form:"deleteItems" json:"deleteItems,omitempty"`
}

// ListEmployeesParams are the query parameters of GET /api/employees.
type ListEmployeesParams struct {
	Type *string `form:"type" json:"type,omitempty"`
}

// NewCashDeskCommand is the body of POST /api/cashdesks.
type NewCashDeskCommand struct {
	Number int `json:"number"`
}
