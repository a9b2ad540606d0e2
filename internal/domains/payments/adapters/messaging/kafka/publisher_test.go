package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-payments-api/internal/domains/payments/domain"
)

type fakeWriter struct {
	messages []kafkago.Message
	err      error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestPublisher_WritesEnvelopes(t *testing.T) {
	writer := &fakeWriter{}
	publisher := NewPublisher(writer, nil)
	publisher.newID = func() string { return "evt-1" }
	at := time.Date(2024, 5, 17, 10, 0, 0, 0, time.UTC)

	err := publisher.Publish(context.Background(), domain.PaymentConfirmed{
		BaseEvent:   domain.BaseEvent{PaymentID: 42, Timestamp: at},
		ConfirmedAt: at,
	})
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	require.Equal(t, "42", string(msg.Key))

	var envelope Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &envelope))
	require.Equal(t, "evt-1", envelope.ID)
	require.Equal(t, "payments.payment.confirmed", envelope.Type)
	require.Equal(t, int64(42), envelope.PaymentID)
	require.True(t, at.Equal(envelope.OccurredAt))
}

func TestPublisher_ReturnsWriteErrors(t *testing.T) {
	boom := errors.New("broker down")
	publisher := NewPublisher(&fakeWriter{err: boom}, nil)

	err := publisher.Publish(context.Background(), domain.PaymentDeleted{BaseEvent: domain.BaseEvent{PaymentID: 1}})
	require.ErrorIs(t, err, boom)
}

func TestPublisher_NilWriterIsNoop(t *testing.T) {
	publisher := NewPublisher(nil, nil)
	require.NoError(t, publisher.Publish(context.Background(), domain.PaymentDeleted{}))
}
