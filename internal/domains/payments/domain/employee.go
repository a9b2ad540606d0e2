package domain

import (
	"errors"
	"strings"
)

// Role is the employee variant stored in the discriminator column.
type Role string

const (
	RoleManager Role = "Manager"
	RoleCashier Role = "Cashier"
)

const maxNameLength = 255

var (
	ErrInvalidRegistrationNumber = errors.New("registration number must be greater than zero")
	ErrEmptyFirstName            = errors.New("first name is required")
	ErrEmptyLastName             = errors.New("last name is required")
	ErrNameTooLong               = errors.New("names must not exceed 255 characters")
	ErrInvalidRole               = errors.New("employee role is invalid")
)

// Address is owned by an employee and stored inline with it.
type Address struct {
	Street string
	Zip    string
	City   string
}

// Employee records payments at a cash desk. Managers and cashiers differ only
// in whether they may record credit card payments.
type Employee struct {
	RegistrationNumber int
	FirstName          string
	LastName           string
	Address            *Address
	Role               Role
	// CarType is only meaningful for managers.
	CarType string
	// JobSpecialisation is only meaningful for cashiers.
	JobSpecialisation string
}

// NewManager constructs a manager.
func NewManager(registrationNumber int, firstName, lastName string, address *Address, carType string) (*Employee, error) {
	e := &Employee{
		RegistrationNumber: registrationNumber,
		FirstName:          strings.TrimSpace(firstName),
		LastName:           strings.TrimSpace(lastName),
		Address:            address,
		Role:               RoleManager,
		CarType:            strings.TrimSpace(carType),
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// NewCashier constructs a cashier.
func NewCashier(registrationNumber int, firstName, lastName string, address *Address, jobSpecialisation string) (*Employee, error) {
	e := &Employee{
		RegistrationNumber: registrationNumber,
		FirstName:          strings.TrimSpace(firstName),
		LastName:           strings.TrimSpace(lastName),
		Address:            address,
		Role:               RoleCashier,
		JobSpecialisation:  strings.TrimSpace(jobSpecialisation),
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate enforces the employee invariants.
func (e *Employee) Validate() error {
	if e.RegistrationNumber <= 0 {
		return ErrInvalidRegistrationNumber
	}
	if e.FirstName == "" {
		return ErrEmptyFirstName
	}
	if e.LastName == "" {
		return ErrEmptyLastName
	}
	if len(e.FirstName) > maxNameLength || len(e.LastName) > maxNameLength {
		return ErrNameTooLong
	}
	if _, err := ParseRole(string(e.Role)); err != nil {
		return err
	}
	return nil
}

// CanCreateCreditCardPayment reports whether the employee may record credit card payments.
func (e *Employee) CanCreateCreditCardPayment() bool {
	return e != nil && e.Role == RoleManager
}

// ParseRole maps a role name case-insensitively.
func ParseRole(value string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "manager":
		return RoleManager, nil
	case "cashier":
		return RoleCashier, nil
	default:
		return "", ErrInvalidRole
	}
}
