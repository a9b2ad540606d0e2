package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentItemInput describes one line item supplied with a create, update or add-item request.
type PaymentItemInput struct {
	ArticleName string
	Amount      int
	Price       decimal.Decimal
}

// CreatePaymentInput records a new open payment.
type CreatePaymentInput struct {
	CashDeskNumber             int
	EmployeeRegistrationNumber int
	PaymentDateTime            time.Time
	PaymentType                string
	Items                      []PaymentItemInput
	// IdempotencyKey, when set, makes retries of the same request return the same payment.
	IdempotencyKey string
}

// CreatePaymentResult carries the identity of the created payment.
type CreatePaymentResult struct {
	ID       int64
	Replayed bool
}

// UpdatePaymentInput fully replaces an open payment, items included.
type UpdatePaymentInput struct {
	ID                         int64
	CashDeskNumber             int
	EmployeeRegistrationNumber int
	PaymentDateTime            time.Time
	PaymentType                string
	Items                      []PaymentItemInput
}

// SetPaymentTypeInput changes only the type of an open payment.
type SetPaymentTypeInput struct {
	ID          int64
	PaymentType string
}

// ConfirmPaymentInput finalizes a payment.
type ConfirmPaymentInput struct {
	ID int64
}

// AddPaymentItemInput appends a line item to an open payment.
type AddPaymentItemInput struct {
	PaymentID   int64
	ArticleName string
	Amount      int
	Price       decimal.Decimal
}

// DeletePaymentInput removes a payment; DeleteItems opts into removing its items as well.
type DeletePaymentInput struct {
	ID          int64
	DeleteItems bool
}

// AddressInput is the optional employee address.
type AddressInput struct {
	Street string
	Zip    string
	City   string
}

// CreateEmployeeInput registers a manager or cashier.
type CreateEmployeeInput struct {
	RegistrationNumber int
	FirstName          string
	LastName           string
	Address            *AddressInput
	Role               string
	CarType            string
	JobSpecialisation  string
}
