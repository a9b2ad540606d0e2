package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	types "github.com/Apurer/go-gin-payments-api/internal/domains/payments/application/types"
	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/domain"
	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/ports"
)

// Service runs the payment lifecycle. Every mutation executes inside one unit
// of work so the confirmation and credit card rules are checked and applied atomically.
type Service struct {
	repo        ports.Repository
	idempotency ports.IdempotencyStore
	events      ports.EventPublisher
	logger      *slog.Logger
	now         func() time.Time
}

// Option configures optional collaborators of the service.
type Option func(*Service)

// WithIdempotencyStore enables replay of create requests carrying an idempotency key.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

// WithEventPublisher publishes lifecycle events after each committed mutation.
func WithEventPublisher(publisher ports.EventPublisher) Option {
	return func(s *Service) {
		s.events = publisher
	}
}

// WithLogger sets the logger for failures that happen after a commit.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the payments service with its dependencies.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreatePayment records a new open payment and returns its identity.
func (s *Service) CreatePayment(ctx context.Context, input types.CreatePaymentInput) (*types.CreatePaymentResult, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	useIdempotency := key != "" && s.idempotency != nil
	var fingerprint string
	if useIdempotency {
		var err error
		if fingerprint, err = FingerprintCreatePayment(input); err != nil {
			return nil, fmt.Errorf("fingerprint payment request: %w", err)
		}
		existing, err := s.idempotency.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("load idempotency record: %w", err)
		}
		if existing != nil {
			if existing.RequestHash != fingerprint {
				return nil, &ports.IdempotencyConflictError{Key: key}
			}
			return &types.CreatePaymentResult{ID: existing.PaymentID, Replayed: true}, nil
		}
	}

	var created *domain.Payment
	err := s.repo.InTx(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		payment := &domain.Payment{}
		if err := s.assign(ctx, uow, payment, input.CashDeskNumber, input.EmployeeRegistrationNumber, input.PaymentDateTime, input.PaymentType); err != nil {
			return err
		}
		items, err := buildItems(input.Items)
		if err != nil {
			return err
		}
		id, err := uow.InsertPayment(ctx, payment)
		if err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}
		payment.ID = id
		if payment.Items, err = insertItems(ctx, uow, id, items); err != nil {
			return err
		}
		created = payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	if useIdempotency {
		stored, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{Key: key, RequestHash: fingerprint, PaymentID: created.ID})
		if err != nil {
			// The key belongs to another payment or could not be recorded, so the
			// payment committed above must not survive.
			if discardErr := s.discard(ctx, created.ID); discardErr != nil {
				return nil, fmt.Errorf("discard payment %d after idempotency failure: %w", created.ID, errors.Join(err, discardErr))
			}
			if errors.Is(err, ports.ErrIdempotencyConflict) && stored != nil && stored.RequestHash == fingerprint {
				// A concurrent retry with the same payload stored its payment first.
				return &types.CreatePaymentResult{ID: stored.PaymentID, Replayed: true}, nil
			}
			if errors.Is(err, ports.ErrIdempotencyConflict) {
				return nil, &ports.IdempotencyConflictError{Key: key}
			}
			return nil, fmt.Errorf("save idempotency record: %w", err)
		}
	}

	s.publish(ctx, domain.PaymentCreated{
		BaseEvent:                  domain.BaseEvent{PaymentID: created.ID, Timestamp: s.now()},
		CashDeskNumber:             created.CashDesk.Number,
		EmployeeRegistrationNumber: created.Employee.RegistrationNumber,
		PaymentType:                created.PaymentType,
		ItemCount:                  len(created.Items),
	})
	return &types.CreatePaymentResult{ID: created.ID}, nil
}

// ConfirmPayment finalizes an open payment. Confirming twice always fails.
func (s *Service) ConfirmPayment(ctx context.Context, input types.ConfirmPaymentInput) error {
	var confirmedAt time.Time
	err := s.repo.InTx(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		payment, err := findPayment(ctx, uow, input.ID, false, MsgPaymentNotFound)
		if err != nil {
			return err
		}
		if err := payment.Confirm(s.now()); err != nil {
			if errors.Is(err, domain.ErrPaymentConfirmed) {
				return validation(MsgPaymentAlreadyConfirmed)
			}
			return mapError(err)
		}
		if err := uow.UpdatePayment(ctx, payment); err != nil {
			return fmt.Errorf("update payment: %w", err)
		}
		confirmedAt = *payment.Confirmed
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(ctx, domain.PaymentConfirmed{
		BaseEvent:   domain.BaseEvent{PaymentID: input.ID, Timestamp: s.now()},
		ConfirmedAt: confirmedAt,
	})
	return nil
}

// AddPaymentItem appends a line item to an open payment and returns the item identity.
func (s *Service) AddPaymentItem(ctx context.Context, input types.AddPaymentItemInput) (int64, error) {
	var added domain.PaymentItem
	err := s.repo.InTx(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		payment, err := findPayment(ctx, uow, input.PaymentID, false, MsgPaymentNotFoundDot)
		if err != nil {
			return err
		}
		if payment.IsConfirmed() {
			return validation(MsgPaymentConfirmedDot)
		}
		item, err := domain.NewPaymentItem(input.ArticleName, input.Amount, input.Price)
		if err != nil {
			return mapError(err)
		}
		if err := payment.AddItem(*item); err != nil {
			return mapError(err)
		}
		added = payment.Items[len(payment.Items)-1]
		if added.ID, err = uow.InsertPaymentItem(ctx, &added); err != nil {
			return fmt.Errorf("insert payment item: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.publish(ctx, domain.PaymentItemAdded{
		BaseEvent:   domain.BaseEvent{PaymentID: input.PaymentID, Timestamp: s.now()},
		ItemID:      added.ID,
		ArticleName: added.ArticleName,
		Amount:      added.Amount,
		Price:       added.Price.String(),
	})
	return added.ID, nil
}

// DeletePayment removes a payment. Items are removed only when DeleteItems is set;
// otherwise a payment with items cannot be deleted.
func (s *Service) DeletePayment(ctx context.Context, input types.DeletePaymentInput) error {
	var removedItems int
	err := s.repo.InTx(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		payment, err := findPayment(ctx, uow, input.ID, true, MsgPaymentNotFound)
		if err != nil {
			return err
		}
		if payment.HasItems() {
			if !input.DeleteItems {
				return validation(MsgPaymentHasItems)
			}
			if err := uow.RemovePaymentItems(ctx, payment.Items); err != nil {
				return fmt.Errorf("remove payment items: %w", err)
			}
			removedItems = len(payment.Items)
		}
		if err := uow.RemovePayment(ctx, payment); err != nil {
			return fmt.Errorf("remove payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(ctx, domain.PaymentDeleted{
		BaseEvent:    domain.BaseEvent{PaymentID: input.ID, Timestamp: s.now()},
		DeletedItems: removedItems,
	})
	return nil
}

// UpdatePayment replaces references, date, type and the complete item list of an open payment.
func (s *Service) UpdatePayment(ctx context.Context, input types.UpdatePaymentInput) error {
	var updated *domain.Payment
	err := s.repo.InTx(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		payment, err := findPayment(ctx, uow, input.ID, true, MsgPaymentNotFound)
		if err != nil {
			return err
		}
		if payment.IsConfirmed() {
			return validation(MsgPaymentConfirmedDot)
		}
		if err := s.assign(ctx, uow, payment, input.CashDeskNumber, input.EmployeeRegistrationNumber, input.PaymentDateTime, input.PaymentType); err != nil {
			return err
		}
		items, err := buildItems(input.Items)
		if err != nil {
			return err
		}
		if err := uow.UpdatePayment(ctx, payment); err != nil {
			return fmt.Errorf("update payment: %w", err)
		}
		if payment.HasItems() {
			if err := uow.RemovePaymentItems(ctx, payment.Items); err != nil {
				return fmt.Errorf("remove payment items: %w", err)
			}
		}
		if payment.Items, err = insertItems(ctx, uow, payment.ID, items); err != nil {
			return err
		}
		updated = payment
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(ctx, domain.PaymentUpdated{
		BaseEvent:                  domain.BaseEvent{PaymentID: updated.ID, Timestamp: s.now()},
		CashDeskNumber:             updated.CashDesk.Number,
		EmployeeRegistrationNumber: updated.Employee.RegistrationNumber,
		PaymentType:                updated.PaymentType,
		ItemCount:                  len(updated.Items),
	})
	return nil
}

// SetPaymentType changes only the type of an open payment.
func (s *Service) SetPaymentType(ctx context.Context, input types.SetPaymentTypeInput) error {
	var previous, next domain.PaymentType
	err := s.repo.InTx(ctx, func(ctx context.Context, uow ports.UnitOfWork) error {
		payment, err := findPayment(ctx, uow, input.ID, false, MsgPaymentNotFound)
		if err != nil {
			return err
		}
		paymentType, err := domain.ParsePaymentType(input.PaymentType)
		if err != nil {
			return validation(MsgInvalidPaymentType)
		}
		previous = payment.PaymentType
		if err := payment.ChangeType(paymentType); err != nil {
			return mapError(err)
		}
		next = payment.PaymentType
		if err := uow.UpdatePayment(ctx, payment); err != nil {
			return fmt.Errorf("update payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(ctx, domain.PaymentTypeChanged{
		BaseEvent: domain.BaseEvent{PaymentID: input.ID, Timestamp: s.now()},
		FromType:  previous,
		ToType:    next,
	})
	return nil
}

// GetPayment loads a payment including its items.
func (s *Service) GetPayment(ctx context.Context, input types.PaymentIdentifier) (*types.PaymentProjection, error) {
	projection, err := s.repo.GetPayment(ctx, input.ID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, notFound(MsgPaymentNotFound)
		}
		return nil, fmt.Errorf("load payment: %w", err)
	}
	return projection, nil
}

// ListPayments returns payment summaries, optionally filtered by cash desk and start date.
func (s *Service) ListPayments(ctx context.Context, input types.ListPaymentsInput) ([]types.PaymentSummary, error) {
	filter := ports.PaymentFilter{DateFrom: input.DateFrom}
	if input.CashDeskNumber != nil {
		filter.CashDeskNumbers = []int{*input.CashDeskNumber}
	}
	projections, err := s.repo.ListPayments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	summaries := make([]types.PaymentSummary, 0, len(projections))
	for _, p := range projections {
		summaries = append(summaries, types.SummarizePayment(p.Entity))
	}
	return summaries, nil
}

// assign resolves the references of a create or update request and applies them to payment.
func (s *Service) assign(ctx context.Context, uow ports.UnitOfWork, payment *domain.Payment, cashDeskNumber, registrationNumber int, paymentDateTime time.Time, rawType string) error {
	desk, err := uow.FindCashDeskByNumber(ctx, cashDeskNumber)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return validation(MsgInvalidCashDesk)
		}
		return fmt.Errorf("load cash desk: %w", err)
	}
	employee, err := uow.FindEmployeeByRegistrationNumber(ctx, registrationNumber)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return validation(MsgInvalidEmployee)
		}
		return fmt.Errorf("load employee: %w", err)
	}
	paymentType, err := domain.ParsePaymentType(rawType)
	if err != nil {
		return validation(MsgInvalidPaymentType)
	}
	return mapError(payment.Assign(desk, employee, paymentDateTime, paymentType, s.now()))
}

// discard removes a payment created by this request together with its items.
// It runs even when the request context is already cancelled.
func (s *Service) discard(ctx context.Context, id int64) error {
	return s.repo.InTx(context.WithoutCancel(ctx), func(ctx context.Context, uow ports.UnitOfWork) error {
		payment, err := uow.FindPaymentByID(ctx, id, true)
		if err != nil {
			return fmt.Errorf("load payment %d: %w", id, err)
		}
		if payment.HasItems() {
			if err := uow.RemovePaymentItems(ctx, payment.Items); err != nil {
				return fmt.Errorf("remove payment items: %w", err)
			}
		}
		if err := uow.RemovePayment(ctx, payment); err != nil {
			return fmt.Errorf("remove payment: %w", err)
		}
		return nil
	})
}

// publish hands committed events to the publisher. A failure is logged and never
// undoes the mutation.
func (s *Service) publish(ctx context.Context, events ...domain.Event) {
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.WarnContext(ctx, "failed to publish payment events",
			slog.String("event", events[0].EventName()),
			slog.Int64("paymentId", events[0].AggregateID()),
			slog.Int("count", len(events)),
			slog.String("error", err.Error()),
		)
	}
}

func findPayment(ctx context.Context, uow ports.UnitOfWork, id int64, withItems bool, missingMessage string) (*domain.Payment, error) {
	payment, err := uow.FindPaymentByID(ctx, id, withItems)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, notFound(missingMessage)
		}
		return nil, fmt.Errorf("load payment %d: %w", id, err)
	}
	return payment, nil
}

func buildItems(inputs []types.PaymentItemInput) ([]domain.PaymentItem, error) {
	items := make([]domain.PaymentItem, 0, len(inputs))
	for _, in := range inputs {
		item, err := domain.NewPaymentItem(in.ArticleName, in.Amount, in.Price)
		if err != nil {
			return nil, mapError(err)
		}
		items = append(items, *item)
	}
	return items, nil
}

func insertItems(ctx context.Context, uow ports.UnitOfWork, paymentID int64, items []domain.PaymentItem) ([]domain.PaymentItem, error) {
	if len(items) == 0 {
		return nil, nil
	}
	for i := range items {
		items[i].PaymentID = paymentID
		id, err := uow.InsertPaymentItem(ctx, &items[i])
		if err != nil {
			return nil, fmt.Errorf("insert payment item: %w", err)
		}
		items[i].ID = id
	}
	return items, nil
}

var _ ports.Service = (*Service)(nil)
