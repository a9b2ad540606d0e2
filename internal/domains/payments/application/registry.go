package application

import (
	"context"
	"errors"
	"fmt"

	types "github.com/Apurer/go-gin-payments-api/internal/domains/payments/application/types"
	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/domain"
	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/ports"
)

// CashDeskService manages the registry of cash desks.
type CashDeskService struct {
	repo ports.CashDeskRepository
}

func NewCashDeskService(repo ports.CashDeskRepository) *CashDeskService {
	return &CashDeskService{repo: repo}
}

func (s *CashDeskService) CreateCashDesk(ctx context.Context, number int) (*domain.CashDesk, error) {
	desk, err := domain.NewCashDesk(number)
	if err != nil {
		return nil, validation(MsgInvalidCashDeskNumber)
	}
	if err := s.repo.SaveCashDesk(ctx, desk); err != nil {
		if errors.Is(err, ports.ErrConflict) {
			return nil, validation(MsgCashDeskExists)
		}
		return nil, fmt.Errorf("save cash desk: %w", err)
	}
	return desk, nil
}

func (s *CashDeskService) GetCashDesk(ctx context.Context, number int) (*domain.CashDesk, error) {
	desk, err := s.repo.GetCashDesk(ctx, number)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, notFound(MsgCashDeskNotFound)
		}
		return nil, fmt.Errorf("load cash desk: %w", err)
	}
	return desk, nil
}

func (s *CashDeskService) ListCashDesks(ctx context.Context) ([]*domain.CashDesk, error) {
	desks, err := s.repo.ListCashDesks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cash desks: %w", err)
	}
	return desks, nil
}

// DeleteCashDesk removes a cash desk that no payment refers to.
func (s *CashDeskService) DeleteCashDesk(ctx context.Context, number int) error {
	if err := s.repo.DeleteCashDesk(ctx, number); err != nil {
		switch {
		case errors.Is(err, ports.ErrNotFound):
			return notFound(MsgCashDeskNotFound)
		case errors.Is(err, ports.ErrReferenced):
			return validation(MsgCashDeskHasPayments)
		}
		return fmt.Errorf("delete cash desk: %w", err)
	}
	return nil
}

// EmployeeService manages managers and cashiers.
type EmployeeService struct {
	repo ports.EmployeeRepository
}

func NewEmployeeService(repo ports.EmployeeRepository) *EmployeeService {
	return &EmployeeService{repo: repo}
}

func (s *EmployeeService) CreateEmployee(ctx context.Context, input types.CreateEmployeeInput) (*domain.Employee, error) {
	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, validation(MsgInvalidEmployeeRole)
	}
	var address *domain.Address
	if input.Address != nil {
		address = &domain.Address{Street: input.Address.Street, Zip: input.Address.Zip, City: input.Address.City}
	}
	var employee *domain.Employee
	switch role {
	case domain.RoleManager:
		employee, err = domain.NewManager(input.RegistrationNumber, input.FirstName, input.LastName, address, input.CarType)
	default:
		employee, err = domain.NewCashier(input.RegistrationNumber, input.FirstName, input.LastName, address, input.JobSpecialisation)
	}
	if err != nil {
		return nil, mapError(err)
	}
	if err := s.repo.SaveEmployee(ctx, employee); err != nil {
		if errors.Is(err, ports.ErrConflict) {
			return nil, validation(MsgEmployeeExists)
		}
		return nil, fmt.Errorf("save employee: %w", err)
	}
	return employee, nil
}

func (s *EmployeeService) GetEmployee(ctx context.Context, registrationNumber int) (*domain.Employee, error) {
	employee, err := s.repo.GetEmployee(ctx, registrationNumber)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, notFound(MsgEmployeeNotFound)
		}
		return nil, fmt.Errorf("load employee: %w", err)
	}
	return employee, nil
}

func (s *EmployeeService) ListEmployees(ctx context.Context, input types.ListEmployeesInput) ([]*domain.Employee, error) {
	var role *domain.Role
	if input.Role != nil {
		parsed, err := domain.ParseRole(*input.Role)
		if err != nil {
			return nil, validation(MsgInvalidEmployeeRole)
		}
		role = &parsed
	}
	employees, err := s.repo.ListEmployees(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return employees, nil
}

// DeleteEmployee removes an employee that recorded no payments.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, registrationNumber int) error {
	if err := s.repo.DeleteEmployee(ctx, registrationNumber); err != nil {
		switch {
		case errors.Is(err, ports.ErrNotFound):
			return notFound(MsgEmployeeNotFound)
		case errors.Is(err, ports.ErrReferenced):
			return validation(MsgEmployeeHasPayments)
		}
		return fmt.Errorf("delete employee: %w", err)
	}
	return nil
}

var (
	_ ports.CashDeskService = (*CashDeskService)(nil)
	_ ports.EmployeeService = (*EmployeeService)(nil)
)
