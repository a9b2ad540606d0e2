package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/domain"
	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/ports"
	"github.com/Apurer/go-gin-payments-api/internal/shared/projection"
)

var (
	_ ports.Repository         = (*Store)(nil)
	_ ports.CashDeskRepository = (*Store)(nil)
	_ ports.EmployeeRepository = (*Store)(nil)
)

// Store is an in-memory implementation of the payment repositories used for
// demos and tests. Units of work run against a private copy of the tables
// that replaces the shared state only when the work succeeds.
type Store struct {
	mu    sync.RWMutex
	state *tables
	now   func() time.Time
}

type tables struct {
	cashDesks     map[int]domain.CashDesk
	employees     map[int]domain.Employee
	payments      map[int64]paymentRow
	items         map[int64]domain.PaymentItem
	nextPaymentID int64
	nextItemID    int64
}

type paymentRow struct {
	ID                         int64
	CashDeskNumber             int
	EmployeeRegistrationNumber int
	PaymentDateTime            time.Time
	PaymentType                domain.PaymentType
	Confirmed                  *time.Time
	metadata                   projection.Metadata
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{
		state: &tables{
			cashDesks: map[int]domain.CashDesk{},
			employees: map[int]domain.Employee{},
			payments:  map[int64]paymentRow{},
			items:     map[int64]domain.PaymentItem{},
		},
		now: time.Now,
	}
}

// WithClock overrides the time source used for metadata timestamps.
func (s *Store) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// InTx runs fn against a snapshot and publishes the snapshot only when fn succeeds.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, uow ports.UnitOfWork) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	working := s.state.clone()
	if err := fn(ctx, &unitOfWork{t: working, now: s.now}); err != nil {
		return err
	}
	s.state = working
	return nil
}

// GetPayment loads a payment with its items.
func (s *Store) GetPayment(_ context.Context, id int64) (*projection.Projection[*domain.Payment], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.state.payments[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return projection.New(s.state.payment(row, true), row.metadata), nil
}

// ListPayments returns payments ordered by id, with items loaded.
func (s *Store) ListPayments(_ context.Context, filter ports.PaymentFilter) ([]*projection.Projection[*domain.Payment], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	desks := map[int]struct{}{}
	for _, n := range filter.CashDeskNumbers {
		desks[n] = struct{}{}
	}
	result := make([]*projection.Projection[*domain.Payment], 0, len(s.state.payments))
	for _, row := range s.state.payments {
		if len(desks) > 0 {
			if _, ok := desks[row.CashDeskNumber]; !ok {
				continue
			}
		}
		if filter.DateFrom != nil && row.PaymentDateTime.Before(*filter.DateFrom) {
			continue
		}
		result = append(result, projection.New(s.state.payment(row, true), row.metadata))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Entity.ID < result[j].Entity.ID })
	return result, nil
}

func (s *Store) SaveCashDesk(_ context.Context, desk *domain.CashDesk) error {
	if desk == nil {
		return errors.New("cash desk is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.cashDesks[desk.Number]; ok {
		return ports.ErrConflict
	}
	s.state.cashDesks[desk.Number] = *desk
	return nil
}

func (s *Store) GetCashDesk(_ context.Context, number int) (*domain.CashDesk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	desk, ok := s.state.cashDesks[number]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &desk, nil
}

func (s *Store) ListCashDesks(_ context.Context) ([]*domain.CashDesk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*domain.CashDesk, 0, len(s.state.cashDesks))
	for _, desk := range s.state.cashDesks {
		clone := desk
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Number < list[j].Number })
	return list, nil
}

func (s *Store) DeleteCashDesk(_ context.Context, number int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.cashDesks[number]; !ok {
		return ports.ErrNotFound
	}
	for _, row := range s.state.payments {
		if row.CashDeskNumber == number {
			return ports.ErrReferenced
		}
	}
	delete(s.state.cashDesks, number)
	return nil
}

func (s *Store) SaveEmployee(_ context.Context, employee *domain.Employee) error {
	if employee == nil {
		return errors.New("employee is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.employees[employee.RegistrationNumber]; ok {
		return ports.ErrConflict
	}
	s.state.employees[employee.RegistrationNumber] = cloneEmployee(*employee)
	return nil
}

func (s *Store) GetEmployee(_ context.Context, registrationNumber int) (*domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	employee, ok := s.state.employees[registrationNumber]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := cloneEmployee(employee)
	return &clone, nil
}

func (s *Store) ListEmployees(_ context.Context, role *domain.Role) ([]*domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*domain.Employee, 0, len(s.state.employees))
	for _, employee := range s.state.employees {
		if role != nil && employee.Role != *role {
			continue
		}
		clone := cloneEmployee(employee)
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].RegistrationNumber < list[j].RegistrationNumber })
	return list, nil
}

func (s *Store) DeleteEmployee(_ context.Context, registrationNumber int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.employees[registrationNumber]; !ok {
		return ports.ErrNotFound
	}
	for _, row := range s.state.payments {
		if row.EmployeeRegistrationNumber == registrationNumber {
			return ports.ErrReferenced
		}
	}
	delete(s.state.employees, registrationNumber)
	return nil
}

func (t *tables) clone() *tables {
	c := &tables{
		cashDesks:     make(map[int]domain.CashDesk, len(t.cashDesks)),
		employees:     make(map[int]domain.Employee, len(t.employees)),
		payments:      make(map[int64]paymentRow, len(t.payments)),
		items:         make(map[int64]domain.PaymentItem, len(t.items)),
		nextPaymentID: t.nextPaymentID,
		nextItemID:    t.nextItemID,
	}
	for k, v := range t.cashDesks {
		c.cashDesks[k] = v
	}
	for k, v := range t.employees {
		c.employees[k] = cloneEmployee(v)
	}
	for k, v := range t.payments {
		c.payments[k] = v
	}
	for k, v := range t.items {
		c.items[k] = v
	}
	return c
}

// payment assembles the aggregate from its row and related tables.
func (t *tables) payment(row paymentRow, withItems bool) *domain.Payment {
	p := &domain.Payment{
		ID:              row.ID,
		PaymentDateTime: row.PaymentDateTime,
		PaymentType:     row.PaymentType,
	}
	if row.Confirmed != nil {
		confirmed := *row.Confirmed
		p.Confirmed = &confirmed
	}
	if desk, ok := t.cashDesks[row.CashDeskNumber]; ok {
		p.CashDesk = &desk
	}
	if employee, ok := t.employees[row.EmployeeRegistrationNumber]; ok {
		clone := cloneEmployee(employee)
		p.Employee = &clone
	}
	if withItems {
		p.Items = t.itemsOf(row.ID)
	}
	return p
}

func (t *tables) itemsOf(paymentID int64) []domain.PaymentItem {
	var items []domain.PaymentItem
	for _, item := range t.items {
		if item.PaymentID == paymentID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func cloneEmployee(e domain.Employee) domain.Employee {
	if e.Address != nil {
		address := *e.Address
		e.Address = &address
	}
	return e
}
