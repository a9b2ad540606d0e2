package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType enumerates how a payment was settled.
type PaymentType string

const (
	PaymentTypeCash       PaymentType = "Cash"
	PaymentTypeCreditCard PaymentType = "CreditCard"
)

// MaxClockSkew is how far a payment date may lie ahead of the current time.
const MaxClockSkew = time.Minute

var (
	ErrInvalidPaymentType   = errors.New("payment type is invalid")
	ErrInvalidPaymentDate   = errors.New("payment date cannot be more than 1 minute in the future")
	ErrCreditCardNotAllowed = errors.New("employee may not record credit card payments")
	ErrPaymentConfirmed     = errors.New("payment is already confirmed")
	ErrPaymentHasItems      = errors.New("payment has payment items")
	ErrEmptyArticleName     = errors.New("article name is required")
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrNegativePrice        = errors.New("price must not be negative")
	ErrMissingCashDesk      = errors.New("payment requires a cash desk")
	ErrMissingEmployee      = errors.New("payment requires an employee")
)

// ParsePaymentType maps a type name case-insensitively.
func ParsePaymentType(value string) (PaymentType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "cash":
		return PaymentTypeCash, nil
	case "creditcard":
		return PaymentTypeCreditCard, nil
	default:
		return "", ErrInvalidPaymentType
	}
}

// PaymentTypes lists the known payment types.
func PaymentTypes() []PaymentType {
	return []PaymentType{PaymentTypeCash, PaymentTypeCreditCard}
}

// PaymentItem is one line of a payment.
type PaymentItem struct {
	ID          int64
	PaymentID   int64
	ArticleName string
	Amount      int
	Price       decimal.Decimal
}

// NewPaymentItem validates and constructs an item that is not yet attached to a payment.
func NewPaymentItem(articleName string, amount int, price decimal.Decimal) (*PaymentItem, error) {
	item := &PaymentItem{
		ArticleName: strings.TrimSpace(articleName),
		Amount:      amount,
		Price:       price,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate enforces item invariants.
func (i *PaymentItem) Validate() error {
	if i.ArticleName == "" {
		return ErrEmptyArticleName
	}
	if i.Amount <= 0 {
		return ErrInvalidAmount
	}
	if i.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// Payment is the aggregate recorded at a cash desk. A nil Confirmed means the
// payment is still open; once set, the payment and its items are frozen.
type Payment struct {
	ID              int64
	CashDesk        *CashDesk
	Employee        *Employee
	PaymentDateTime time.Time
	PaymentType     PaymentType
	Confirmed       *time.Time
	Items           []PaymentItem
}

// NewPayment validates and constructs an open payment.
func NewPayment(cashDesk *CashDesk, employee *Employee, paymentDateTime time.Time, paymentType PaymentType, now time.Time) (*Payment, error) {
	p := &Payment{}
	if err := p.Assign(cashDesk, employee, paymentDateTime, paymentType, now); err != nil {
		return nil, err
	}
	return p, nil
}

// Assign replaces the references, date and type after validating them.
func (p *Payment) Assign(cashDesk *CashDesk, employee *Employee, paymentDateTime time.Time, paymentType PaymentType, now time.Time) error {
	if cashDesk == nil {
		return ErrMissingCashDesk
	}
	if employee == nil {
		return ErrMissingEmployee
	}
	if err := CheckPaymentType(employee, paymentType); err != nil {
		return err
	}
	if err := CheckPaymentDate(paymentDateTime, now); err != nil {
		return err
	}
	p.CashDesk = cashDesk
	p.Employee = employee
	p.PaymentDateTime = paymentDateTime
	p.PaymentType = paymentType
	return nil
}

// CheckPaymentType verifies the employee is allowed to record the type.
func CheckPaymentType(employee *Employee, paymentType PaymentType) error {
	switch paymentType {
	case PaymentTypeCash:
		return nil
	case PaymentTypeCreditCard:
		if !employee.CanCreateCreditCardPayment() {
			return ErrCreditCardNotAllowed
		}
		return nil
	default:
		return ErrInvalidPaymentType
	}
}

// CheckPaymentDate rejects dates more than MaxClockSkew ahead of now.
func CheckPaymentDate(paymentDateTime, now time.Time) error {
	if paymentDateTime.After(now.Add(MaxClockSkew)) {
		return ErrInvalidPaymentDate
	}
	return nil
}

// IsConfirmed reports whether the payment has been finalized.
func (p *Payment) IsConfirmed() bool {
	return p.Confirmed != nil
}

// Confirm finalizes the payment. It fails if the payment was confirmed before.
func (p *Payment) Confirm(now time.Time) error {
	if p.IsConfirmed() {
		return ErrPaymentConfirmed
	}
	confirmed := now
	p.Confirmed = &confirmed
	return nil
}

// ChangeType switches the payment type while it is open.
func (p *Payment) ChangeType(paymentType PaymentType) error {
	if p.IsConfirmed() {
		return ErrPaymentConfirmed
	}
	if err := CheckPaymentType(p.Employee, paymentType); err != nil {
		return err
	}
	p.PaymentType = paymentType
	return nil
}

// AddItem attaches an item to the open payment.
func (p *Payment) AddItem(item PaymentItem) error {
	if p.IsConfirmed() {
		return ErrPaymentConfirmed
	}
	if err := item.Validate(); err != nil {
		return err
	}
	item.PaymentID = p.ID
	p.Items = append(p.Items, item)
	return nil
}

// HasItems reports whether any items belong to the payment.
func (p *Payment) HasItems() bool {
	return len(p.Items) > 0
}

// Total sums the item prices.
func (p *Payment) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range p.Items {
		total = total.Add(item.Price)
	}
	return total
}
