package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/application"
	paymenttypes "github.com/Apurer/go-gin-payments-api/internal/domains/payments/application/types"
	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/ports"
	paymentactivities "github.com/Apurer/go-gin-payments-api/internal/durable/temporal/activities/payments"
	paymentworkflows "github.com/Apurer/go-gin-payments-api/internal/durable/temporal/workflows/payments"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalPaymentWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlinePaymentWorkflows)(nil)
)

// TemporalPaymentWorkflows starts payment workflows on a Temporal cluster.
type TemporalPaymentWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalPaymentWorkflows wires a Temporal client into the orchestrator.
func NewTemporalPaymentWorkflows(c client.Client) *TemporalPaymentWorkflows {
	return &TemporalPaymentWorkflows{client: c, taskQueue: paymentworkflows.PaymentConfirmationTaskQueue}
}

// ConfirmPayment runs the confirmation workflow and waits for its outcome.
func (o *TemporalPaymentWorkflows) ConfirmPayment(ctx context.Context, input paymenttypes.ConfirmPaymentInput) error {
	if o == nil || o.client == nil {
		return errors.New("temporal payment workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	options := client.StartWorkflowOptions{
		ID:                                       fmt.Sprintf("payment-confirmation-%d-%s", input.ID, traceComponent),
		TaskQueue:                                o.taskQueue,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		paymentworkflows.PaymentConfirmationWorkflow,
		paymentworkflows.PaymentConfirmationWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			return fmt.Errorf("confirmation for payment %d already running: %w", input.ID, err)
		}
		return err
	}
	return fromWorkflowError(run.Get(ctx, nil))
}

// fromWorkflowError restores the typed application errors raised by the activity.
func fromWorkflowError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	var message string
	if appErr.HasDetails() {
		_ = appErr.Details(&message)
	}
	if message == "" {
		message = appErr.Error()
	}
	switch appErr.Type() {
	case paymentactivities.ErrTypeValidation:
		return &application.ValidationError{Message: message}
	case paymentactivities.ErrTypeNotFound:
		return &application.NotFoundError{Message: message}
	}
	return err
}

// InlinePaymentWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlinePaymentWorkflows struct {
	service ports.Service
}

// NewInlinePaymentWorkflows wraps the payments service for synchronous execution.
func NewInlinePaymentWorkflows(service ports.Service) *InlinePaymentWorkflows {
	return &InlinePaymentWorkflows{service: service}
}

// ConfirmPayment delegates to the application service without durable orchestration.
func (o *InlinePaymentWorkflows) ConfirmPayment(ctx context.Context, input paymenttypes.ConfirmPaymentInput) error {
	if o == nil || o.service == nil {
		return errors.New("inline payment workflows not configured")
	}
	return o.service.ConfirmPayment(ctx, input)
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
