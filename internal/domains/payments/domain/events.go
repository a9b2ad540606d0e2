package domain

import "time"

// Event is the base interface for payment domain events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
	AggregateID() int64
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	PaymentID int64     `json:"paymentId"`
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID returns the payment the event belongs to.
func (e BaseEvent) AggregateID() int64 {
	return e.PaymentID
}

// PaymentCreated is raised when a payment is recorded.
type PaymentCreated struct {
	BaseEvent
	CashDeskNumber             int         `json:"cashDeskNumber"`
	EmployeeRegistrationNumber int         `json:"employeeRegistrationNumber"`
	PaymentType                PaymentType `json:"paymentType"`
	ItemCount                  int         `json:"itemCount"`
}

func (e PaymentCreated) EventName() string { return "payments.payment.created" }

// PaymentUpdated is raised when a payment is replaced through a full update.
type PaymentUpdated struct {
	BaseEvent
	CashDeskNumber             int         `json:"cashDeskNumber"`
	EmployeeRegistrationNumber int         `json:"employeeRegistrationNumber"`
	PaymentType                PaymentType `json:"paymentType"`
	ItemCount                  int         `json:"itemCount"`
}

func (e PaymentUpdated) EventName() string { return "payments.payment.updated" }

// PaymentTypeChanged is raised by a partial type update.
type PaymentTypeChanged struct {
	BaseEvent
	FromType PaymentType `json:"fromType"`
	ToType   PaymentType `json:"toType"`
}

func (e PaymentTypeChanged) EventName() string { return "payments.payment.type_changed" }

// PaymentConfirmed is raised when a payment is finalized.
type PaymentConfirmed struct {
	BaseEvent
	ConfirmedAt time.Time `json:"confirmedAt"`
}

func (e PaymentConfirmed) EventName() string { return "payments.payment.confirmed" }

// PaymentItemAdded is raised when a line item is attached.
type PaymentItemAdded struct {
	BaseEvent
	ItemID      int64  `json:"itemId"`
	ArticleName string `json:"articleName"`
	Amount      int    `json:"amount"`
	Price       string `json:"price"`
}

func (e PaymentItemAdded) EventName() string { return "payments.payment.item_added" }

// PaymentDeleted is raised when a payment is removed.
type PaymentDeleted struct {
	BaseEvent
	DeletedItems int `json:"deletedItems"`
}

func (e PaymentDeleted) EventName() string { return "payments.payment.deleted" }
