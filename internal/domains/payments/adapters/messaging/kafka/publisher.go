package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/domain"
	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/ports"
)

var _ ports.EventPublisher = (*Publisher)(nil)

// MessageWriter is the subset of *kafka.Writer used by the publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Envelope is the JSON document written for every payment event.
type Envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	PaymentID  int64           `json:"paymentId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

// Publisher writes payment lifecycle events to Kafka, keyed by payment id so
// events of one payment stay ordered within a partition.
type Publisher struct {
	writer  MessageWriter
	logger  *slog.Logger
	timeout time.Duration
	newID   func() string
}

// NewPublisher wraps a configured writer.
func NewPublisher(writer MessageWriter, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Publisher{
		writer:  writer,
		logger:  logger,
		timeout: 10 * time.Second,
		newID:   func() string { return uuid.NewString() },
	}
}

// Publish encodes and writes the events in one batch. Failures are logged and returned.
func (p *Publisher) Publish(ctx context.Context, events ...domain.Event) error {
	if p == nil || p.writer == nil || len(events) == 0 {
		return nil
	}
	messages := make([]kafkago.Message, 0, len(events))
	for _, event := range events {
		msg, err := p.encode(event)
		if err != nil {
			p.logger.ErrorContext(ctx, "failed to encode payment event", slog.String("event", event.EventName()), slog.String("error", err.Error()))
			return err
		}
		messages = append(messages, msg)
	}

	writeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.writer.WriteMessages(writeCtx, messages...); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish payment events",
			slog.Int("count", len(messages)),
			slog.Int64("payment.id", events[0].AggregateID()),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("publish payment events: %w", err)
	}
	p.logger.DebugContext(ctx, "payment events published", slog.Int("count", len(messages)))
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *Publisher) encode(event domain.Event) (kafkago.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, err
	}
	envelope := Envelope{
		ID:         p.newID(),
		Type:       event.EventName(),
		PaymentID:  event.AggregateID(),
		OccurredAt: event.OccurredAt().UTC(),
		Payload:    payload,
	}
	value, err := json.Marshal(envelope)
	if err != nil {
		return kafkago.Message{}, err
	}
	return kafkago.Message{
		Key:   []byte(strconv.FormatInt(event.AggregateID(), 10)),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "event-type", Value: []byte(event.EventName())},
			{Key: "event-id", Value: []byte(envelope.ID)},
		},
		Time: envelope.OccurredAt,
	}, nil
}
