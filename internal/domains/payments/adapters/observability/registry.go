package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	paymenttypes "github.com/Apurer/go-gin-payments-api/internal/domains/payments/application/types"
	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/domain"
	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/ports"
)

// CashDesks traces the cash desk registry.
type CashDesks struct {
	inner  ports.CashDeskService
	tracer trace.Tracer
	logger *slog.Logger
}

// NewCashDesks decorates the cash desk registry.
func NewCashDesks(inner ports.CashDeskService, tracer trace.Tracer, logger *slog.Logger) ports.CashDeskService {
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if logger == nil {
		logger = defaultLogger()
	}
	return &CashDesks{inner: inner, tracer: tracer, logger: logger}
}

func (c *CashDesks) CreateCashDesk(ctx context.Context, number int) (*domain.CashDesk, error) {
	ctx, span := c.tracer.Start(ctx, "CashDesks.Create", trace.WithAttributes(attribute.Int("cash_desk.number", number)))
	defer span.End()
	desk, err := c.inner.CreateCashDesk(ctx, number)
	if err != nil {
		return nil, recordError(ctx, c.logger, span, err, "failed to create cash desk", slog.Int("cash_desk", number))
	}
	c.logger.InfoContext(ctx, "cash desk created", slog.Int("cash_desk", number))
	return desk, nil
}

func (c *CashDesks) GetCashDesk(ctx context.Context, number int) (*domain.CashDesk, error) {
	ctx, span := c.tracer.Start(ctx, "CashDesks.Get", trace.WithAttributes(attribute.Int("cash_desk.number", number)))
	defer span.End()
	desk, err := c.inner.GetCashDesk(ctx, number)
	if err != nil {
		return nil, recordError(ctx, c.logger, span, err, "failed to load cash desk", slog.Int("cash_desk", number))
	}
	return desk, nil
}

func (c *CashDesks) ListCashDesks(ctx context.Context) ([]*domain.CashDesk, error) {
	ctx, span := c.tracer.Start(ctx, "CashDesks.List")
	defer span.End()
	desks, err := c.inner.ListCashDesks(ctx)
	if err != nil {
		return nil, recordError(ctx, c.logger, span, err, "failed to list cash desks")
	}
	span.SetAttributes(attribute.Int("cash_desk.result.count", len(desks)))
	return desks, nil
}

func (c *CashDesks) DeleteCashDesk(ctx context.Context, number int) error {
	ctx, span := c.tracer.Start(ctx, "CashDesks.Delete", trace.WithAttributes(attribute.Int("cash_desk.number", number)))
	defer span.End()
	if err := c.inner.DeleteCashDesk(ctx, number); err != nil {
		return recordError(ctx, c.logger, span, err, "failed to delete cash desk", slog.Int("cash_desk", number))
	}
	c.logger.InfoContext(ctx, "cash desk deleted", slog.Int("cash_desk", number))
	return nil
}

// Employees traces the employee registry.
type Employees struct {
	inner  ports.EmployeeService
	tracer trace.Tracer
	logger *slog.Logger
}

// NewEmployees decorates the employee registry.
func NewEmployees(inner ports.EmployeeService, tracer trace.Tracer, logger *slog.Logger) ports.EmployeeService {
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if logger == nil {
		logger = defaultLogger()
	}
	return &Employees{inner: inner, tracer: tracer, logger: logger}
}

func (e *Employees) CreateEmployee(ctx context.Context, input paymenttypes.CreateEmployeeInput) (*domain.Employee, error) {
	ctx, span := e.tracer.Start(ctx, "Employees.Create", trace.WithAttributes(
		attribute.Int("employee.registration_number", input.RegistrationNumber),
		attribute.String("employee.role", input.Role),
	))
	defer span.End()
	employee, err := e.inner.CreateEmployee(ctx, input)
	if err != nil {
		return nil, recordError(ctx, e.logger, span, err, "failed to create employee", slog.Int("employee", input.RegistrationNumber))
	}
	e.logger.InfoContext(ctx, "employee created", slog.Int("employee", employee.RegistrationNumber), slog.String("role", string(employee.Role)))
	return employee, nil
}

func (e *Employees) GetEmployee(ctx context.Context, registrationNumber int) (*domain.Employee, error) {
	ctx, span := e.tracer.Start(ctx, "Employees.Get", trace.WithAttributes(attribute.Int("employee.registration_number", registrationNumber)))
	defer span.End()
	employee, err := e.inner.GetEmployee(ctx, registrationNumber)
	if err != nil {
		return nil, recordError(ctx, e.logger, span, err, "failed to load employee", slog.Int("employee", registrationNumber))
	}
	return employee, nil
}

func (e *Employees) ListEmployees(ctx context.Context, input paymenttypes.ListEmployeesInput) ([]*domain.Employee, error) {
	ctx, span := e.tracer.Start(ctx, "Employees.List")
	defer span.End()
	employees, err := e.inner.ListEmployees(ctx, input)
	if err != nil {
		return nil, recordError(ctx, e.logger, span, err, "failed to list employees")
	}
	span.SetAttributes(attribute.Int("employee.result.count", len(employees)))
	return employees, nil
}

func (e *Employees) DeleteEmployee(ctx context.Context, registrationNumber int) error {
	ctx, span := e.tracer.Start(ctx, "Employees.Delete", trace.WithAttributes(attribute.Int("employee.registration_number", registrationNumber)))
	defer span.End()
	if err := e.inner.DeleteEmployee(ctx, registrationNumber); err != nil {
		return recordError(ctx, e.logger, span, err, "failed to delete employee", slog.Int("employee", registrationNumber))
	}
	e.logger.InfoContext(ctx, "employee deleted", slog.Int("employee", registrationNumber))
	return nil
}

var (
	_ ports.CashDeskService = (*CashDesks)(nil)
	_ ports.EmployeeService = (*Employees)(nil)
)
