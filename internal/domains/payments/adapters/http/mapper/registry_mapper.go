package mapper

import (
	paymenttypes "github.com/Apurer/go-gin-payments-api/internal/domains/payments/application/types"
	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/domain"
)

// CashDesk is the HTTP representation of a cash desk.
type CashDesk struct {
	Number int `json:"number"`
}

// Address mirrors the optional employee address.
type Address struct {
	Street string `json:"street"`
	Zip    string `json:"zip"`
	City   string `json:"city"`
}

// Employee is the HTTP representation of a manager or cashier.
type Employee struct {
	RegistrationNumber int      `json:"registrationNumber"`
	FirstName          string   `json:"firstName"`
	LastName           string   `json:"lastName"`
	Address            *Address `json:"address,omitempty"`
	Type               string   `json:"type"`
	CarType            string   `json:"carType,omitempty"`
	JobSpecialisation  string   `json:"jobSpecialisation,omitempty"`
}

func FromCashDesk(desk *domain.CashDesk) CashDesk {
	return CashDesk{Number: desk.Number}
}

func FromCashDesks(desks []*domain.CashDesk) []CashDesk {
	result := make([]CashDesk, 0, len(desks))
	for _, desk := range desks {
		result = append(result, FromCashDesk(desk))
	}
	return result
}

func FromEmployee(e *domain.Employee) Employee {
	out := Employee{
		RegistrationNumber: e.RegistrationNumber,
		FirstName:          e.FirstName,
		LastName:           e.LastName,
		Type:               string(e.Role),
		CarType:            e.CarType,
		JobSpecialisation:  e.JobSpecialisation,
	}
	if e.Address != nil {
		out.Address = &Address{Street: e.Address.Street, Zip: e.Address.Zip, City: e.Address.City}
	}
	return out
}

func FromEmployees(employees []*domain.Employee) []Employee {
	result := make([]Employee, 0, len(employees))
	for _, e := range employees {
		result = append(result, FromEmployee(e))
	}
	return result
}

// ToCreateEmployeeInput maps a create request; the role is validated by the service.
func ToCreateEmployeeInput(e Employee) paymenttypes.CreateEmployeeInput {
	input := paymenttypes.CreateEmployeeInput{
		RegistrationNumber: e.RegistrationNumber,
		FirstName:          e.FirstName,
		LastName:           e.LastName,
		Role:               e.Type,
		CarType:            e.CarType,
		JobSpecialisation:  e.JobSpecialisation,
	}
	if e.Address != nil {
		input.Address = &paymenttypes.AddressInput{Street: e.Address.Street, Zip: e.Address.Zip, City: e.Address.City}
	}
	return input
}
