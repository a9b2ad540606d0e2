package application

import (
	"errors"

	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/domain"
)

var (
	// ErrInvalidInput is wrapped by every ValidationError.
	ErrInvalidInput = errors.New("invalid payment input")
	// ErrNotFound is wrapped by every NotFoundError.
	ErrNotFound = errors.New("payment resource not found")
)

// Messages returned to callers. The text is part of the API contract.
const (
	MsgInvalidCashDesk         = "Invalid cashdesk"
	MsgInvalidEmployee         = "Invalid employee"
	MsgInvalidPaymentType      = "Invalid payment type"
	MsgInsufficientRights      = "Insufficient rights to create a credit card payment."
	MsgInvalidPaymentDate      = "Invalid payment date"
	MsgPaymentNotFound         = "Payment not found"
	MsgPaymentNotFoundDot      = "Payment not found."
	MsgPaymentAlreadyConfirmed = "Payment already confirmed"
	MsgPaymentConfirmedDot     = "Payment already confirmed."
	MsgPaymentHasItems         = "Payment has payment items."
	MsgInvalidArticleName      = "Invalid article name."
	MsgInvalidAmount           = "Invalid amount."
	MsgInvalidPrice            = "Invalid price."
	MsgInvalidCashDeskNumber   = "Invalid cashdesk number"
	MsgCashDeskExists          = "Cashdesk already exists"
	MsgCashDeskNotFound        = "Cashdesk not found"
	MsgCashDeskHasPayments     = "Cashdesk has payments."
	MsgInvalidRegistrationNo   = "Invalid registration number"
	MsgInvalidEmployeeName     = "Invalid employee name"
	MsgInvalidEmployeeRole     = "Invalid employee role"
	MsgEmployeeExists          = "Employee already exists"
	MsgEmployeeNotFound        = "Employee not found"
	MsgEmployeeHasPayments     = "Employee has payments."
)

// ValidationError reports that the caller's input violates a rule.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// IsNotFound marks the error as a missing-entity failure.
func (e *NotFoundError) IsNotFound() bool { return true }

// IsNotFound reports whether err carries the not-found marker.
func IsNotFound(err error) bool {
	var marker interface{ IsNotFound() bool }
	return errors.As(err, &marker) && marker.IsNotFound()
}

func validation(message string) error {
	return &ValidationError{Message: message}
}

func notFound(message string) error {
	return &NotFoundError{Message: message}
}

// mapError translates domain rule violations into validation errors and
// passes everything else through untouched.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrCreditCardNotAllowed):
		return validation(MsgInsufficientRights)
	case errors.Is(err, domain.ErrInvalidPaymentDate):
		return validation(MsgInvalidPaymentDate)
	case errors.Is(err, domain.ErrInvalidPaymentType):
		return validation(MsgInvalidPaymentType)
	case errors.Is(err, domain.ErrPaymentConfirmed):
		return validation(MsgPaymentConfirmedDot)
	case errors.Is(err, domain.ErrPaymentHasItems):
		return validation(MsgPaymentHasItems)
	case errors.Is(err, domain.ErrEmptyArticleName):
		return validation(MsgInvalidArticleName)
	case errors.Is(err, domain.ErrInvalidAmount):
		return validation(MsgInvalidAmount)
	case errors.Is(err, domain.ErrNegativePrice):
		return validation(MsgInvalidPrice)
	case errors.Is(err, domain.ErrMissingCashDesk), errors.Is(err, domain.ErrInvalidCashDeskNumber):
		return validation(MsgInvalidCashDesk)
	case errors.Is(err, domain.ErrMissingEmployee):
		return validation(MsgInvalidEmployee)
	case errors.Is(err, domain.ErrInvalidRegistrationNumber):
		return validation(MsgInvalidRegistrationNo)
	case errors.Is(err, domain.ErrEmptyFirstName),
		errors.Is(err, domain.ErrEmptyLastName),
		errors.Is(err, domain.ErrNameTooLong):
		return validation(MsgInvalidEmployeeName)
	case errors.Is(err, domain.ErrInvalidRole):
		return validation(MsgInvalidEmployeeRole)
	}
	return err
}
