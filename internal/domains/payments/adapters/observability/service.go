package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/application"
	paymenttypes "github.com/Apurer/go-gin-payments-api/internal/domains/payments/application/types"
	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/ports"
)

const tracerName = "github.com/Apurer/go-gin-payments-api/internal/domains/payments/adapters/observability/service"

// Service decorates the payments application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// CreatePayment records a new payment with instrumentation.
func (s *Service) CreatePayment(ctx context.Context, input paymenttypes.CreatePaymentInput) (*paymenttypes.CreatePaymentResult, error) {
	ctx, span := s.startSpan(ctx, "Service.CreatePayment",
		attribute.Int("payment.cash_desk", input.CashDeskNumber),
		attribute.Int("payment.employee", input.EmployeeRegistrationNumber),
		attribute.String("payment.type", input.PaymentType),
		attribute.Int("payment.items.count", len(input.Items)),
		attribute.Bool("payment.idempotency_key.present", input.IdempotencyKey != ""),
	)
	defer span.End()

	s.logInfo(ctx, "creating payment", slog.Int("cash_desk", input.CashDeskNumber), slog.Int("employee", input.EmployeeRegistrationNumber))
	result, err := s.inner.CreatePayment(ctx, input)
	if err != nil {
		s.metrics.recordRejected(ctx, "create", err)
		return nil, s.handleError(ctx, span, err, "failed to create payment", slog.Int("cash_desk", input.CashDeskNumber))
	}
	span.SetAttributes(attribute.Int64("payment.id", result.ID), attribute.Bool("payment.replayed", result.Replayed))
	if !result.Replayed {
		s.metrics.recordCreated(ctx, input.PaymentType)
	}
	s.logInfo(ctx, "payment created", slog.Int64("payment.id", result.ID), slog.Bool("replayed", result.Replayed))
	return result, nil
}

// ConfirmPayment finalizes a payment.
func (s *Service) ConfirmPayment(ctx context.Context, input paymenttypes.ConfirmPaymentInput) error {
	ctx, span := s.startSpan(ctx, "Service.ConfirmPayment", attribute.Int64("payment.id", input.ID))
	defer span.End()

	s.logInfo(ctx, "confirming payment", slog.Int64("payment.id", input.ID))
	if err := s.inner.ConfirmPayment(ctx, input); err != nil {
		s.metrics.recordRejected(ctx, "confirm", err)
		return s.handleError(ctx, span, err, "failed to confirm payment", slog.Int64("payment.id", input.ID))
	}
	s.metrics.recordConfirmed(ctx)
	s.logInfo(ctx, "payment confirmed", slog.Int64("payment.id", input.ID))
	return nil
}

// AddPaymentItem appends an item to an open payment.
func (s *Service) AddPaymentItem(ctx context.Context, input paymenttypes.AddPaymentItemInput) (int64, error) {
	ctx, span := s.startSpan(ctx, "Service.AddPaymentItem",
		attribute.Int64("payment.id", input.PaymentID),
		attribute.String("item.article", input.ArticleName),
		attribute.Int("item.amount", input.Amount),
	)
	defer span.End()

	s.logInfo(ctx, "adding payment item", slog.Int64("payment.id", input.PaymentID), slog.String("article", input.ArticleName))
	id, err := s.inner.AddPaymentItem(ctx, input)
	if err != nil {
		s.metrics.recordRejected(ctx, "add_item", err)
		return 0, s.handleError(ctx, span, err, "failed to add payment item", slog.Int64("payment.id", input.PaymentID))
	}
	s.metrics.recordItemAdded(ctx)
	span.SetAttributes(attribute.Int64("item.id", id))
	s.logInfo(ctx, "payment item added", slog.Int64("payment.id", input.PaymentID), slog.Int64("item.id", id))
	return id, nil
}

// DeletePayment removes a payment and optionally its items.
func (s *Service) DeletePayment(ctx context.Context, input paymenttypes.DeletePaymentInput) error {
	ctx, span := s.startSpan(ctx, "Service.DeletePayment",
		attribute.Int64("payment.id", input.ID),
		attribute.Bool("payment.delete_items", input.DeleteItems),
	)
	defer span.End()

	s.logInfo(ctx, "deleting payment", slog.Int64("payment.id", input.ID), slog.Bool("delete_items", input.DeleteItems))
	if err := s.inner.DeletePayment(ctx, input); err != nil {
		s.metrics.recordRejected(ctx, "delete", err)
		return s.handleError(ctx, span, err, "failed to delete payment", slog.Int64("payment.id", input.ID))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "payment deleted", slog.Int64("payment.id", input.ID))
	return nil
}

// UpdatePayment replaces an open payment.
func (s *Service) UpdatePayment(ctx context.Context, input paymenttypes.UpdatePaymentInput) error {
	ctx, span := s.startSpan(ctx, "Service.UpdatePayment",
		attribute.Int64("payment.id", input.ID),
		attribute.Int("payment.items.count", len(input.Items)),
	)
	defer span.End()

	s.logInfo(ctx, "updating payment", slog.Int64("payment.id", input.ID))
	if err := s.inner.UpdatePayment(ctx, input); err != nil {
		s.metrics.recordRejected(ctx, "update", err)
		return s.handleError(ctx, span, err, "failed to update payment", slog.Int64("payment.id", input.ID))
	}
	s.metrics.recordUpdated(ctx)
	s.logInfo(ctx, "payment updated", slog.Int64("payment.id", input.ID))
	return nil
}

// SetPaymentType changes the type of an open payment.
func (s *Service) SetPaymentType(ctx context.Context, input paymenttypes.SetPaymentTypeInput) error {
	ctx, span := s.startSpan(ctx, "Service.SetPaymentType",
		attribute.Int64("payment.id", input.ID),
		attribute.String("payment.type", input.PaymentType),
	)
	defer span.End()

	s.logInfo(ctx, "changing payment type", slog.Int64("payment.id", input.ID), slog.String("type", input.PaymentType))
	if err := s.inner.SetPaymentType(ctx, input); err != nil {
		s.metrics.recordRejected(ctx, "set_type", err)
		return s.handleError(ctx, span, err, "failed to change payment type", slog.Int64("payment.id", input.ID))
	}
	s.metrics.recordUpdated(ctx)
	s.logInfo(ctx, "payment type changed", slog.Int64("payment.id", input.ID))
	return nil
}

func (s *Service) GetPayment(ctx context.Context, input paymenttypes.PaymentIdentifier) (*paymenttypes.PaymentProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.GetPayment", attribute.Int64("payment.id", input.ID))
	defer span.End()

	result, err := s.inner.GetPayment(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load payment", slog.Int64("payment.id", input.ID))
	}
	return result, nil
}

func (s *Service) ListPayments(ctx context.Context, input paymenttypes.ListPaymentsInput) ([]paymenttypes.PaymentSummary, error) {
	attrs := []attribute.KeyValue{}
	if input.CashDeskNumber != nil {
		attrs = append(attrs, attribute.Int("payment.filter.cash_desk", *input.CashDeskNumber))
	}
	if input.DateFrom != nil {
		attrs = append(attrs, attribute.String("payment.filter.date_from", input.DateFrom.String()))
	}
	ctx, span := s.startSpan(ctx, "Service.ListPayments", attrs...)
	defer span.End()

	result, err := s.inner.ListPayments(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list payments")
	}
	span.SetAttributes(attribute.Int("payment.result.count", len(result)))
	s.logInfo(ctx, "listed payments", slog.Int("count", len(result)))
	return result, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	return recordError(ctx, s.logger, span, err, msg, attrs...)
}

// recordError marks the span and logs the failure. Rejected input is logged at
// warn level and leaves the span status unset.
func recordError(ctx context.Context, logger *slog.Logger, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	level := slog.LevelError
	if isClientError(err) {
		level = slog.LevelWarn
		if span != nil {
			span.SetAttributes(attribute.String("payment.rejection", err.Error()))
		}
	} else if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if logger != nil {
		logger.LogAttrs(ctx, level, msg, attrs...)
	}
	return err
}

func isClientError(err error) bool {
	return errors.Is(err, application.ErrInvalidInput) ||
		errors.Is(err, application.ErrNotFound) ||
		errors.Is(err, ports.ErrIdempotencyConflict)
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	paymentsCreated   metric.Int64Counter
	paymentsConfirmed metric.Int64Counter
	paymentsUpdated   metric.Int64Counter
	paymentsDeleted   metric.Int64Counter
	itemsAdded        metric.Int64Counter
	rejections        metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	paymentsCreated, _ := m.Int64Counter("payments.service.created", metric.WithDescription("Number of payments created"))
	paymentsConfirmed, _ := m.Int64Counter("payments.service.confirmed", metric.WithDescription("Number of payments confirmed"))
	paymentsUpdated, _ := m.Int64Counter("payments.service.updated", metric.WithDescription("Number of payment updates"))
	paymentsDeleted, _ := m.Int64Counter("payments.service.deleted", metric.WithDescription("Number of payments deleted"))
	itemsAdded, _ := m.Int64Counter("payments.service.items_added", metric.WithDescription("Number of payment items added"))
	rejections, _ := m.Int64Counter("payments.service.rejected", metric.WithDescription("Number of rejected payment operations"))
	return serviceMetrics{
		paymentsCreated:   paymentsCreated,
		paymentsConfirmed: paymentsConfirmed,
		paymentsUpdated:   paymentsUpdated,
		paymentsDeleted:   paymentsDeleted,
		itemsAdded:        itemsAdded,
		rejections:        rejections,
	}
}

func (m serviceMetrics) recordCreated(ctx context.Context, paymentType string) {
	addCounter(ctx, m.paymentsCreated, 1, attribute.String("payment.type", paymentType))
}

func (m serviceMetrics) recordConfirmed(ctx context.Context) {
	addCounter(ctx, m.paymentsConfirmed, 1)
}

func (m serviceMetrics) recordUpdated(ctx context.Context) {
	addCounter(ctx, m.paymentsUpdated, 1)
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	addCounter(ctx, m.paymentsDeleted, 1)
}

func (m serviceMetrics) recordItemAdded(ctx context.Context) {
	addCounter(ctx, m.itemsAdded, 1)
}

func (m serviceMetrics) recordRejected(ctx context.Context, operation string, err error) {
	if !isClientError(err) {
		return
	}
	addCounter(ctx, m.rejections, 1, attribute.String("operation", operation))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
