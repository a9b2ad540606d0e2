package kafka

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// NewWriter builds a synchronous Kafka writer for topic. It returns nil when no
// brokers are configured so callers can skip event publication.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *kafkago.Writer {
	cleaned := make([]string, 0, len(brokers))
	for _, b := range brokers {
		if b = strings.TrimSpace(b); b != "" {
			cleaned = append(cleaned, b)
		}
	}
	if len(cleaned) == 0 || strings.TrimSpace(topic) == "" {
		if logger != nil {
			logger.Warn("KAFKA_BROKERS not set, payment events will not be published")
		}
		return nil
	}
	writer := &kafkago.Writer{
		Addr:                   kafkago.TCP(cleaned...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		WriteTimeout:           10 * time.Second,
		RequiredAcks:           kafkago.RequireAll,
		MaxAttempts:            3,
		AllowAutoTopicCreation: true,
	}
	if logger != nil {
		writer.ErrorLogger = kafkago.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error(fmt.Sprintf(msg, args...), slog.String("component", "kafka-writer"))
		})
		logger.Info("kafka writer configured", slog.String("topic", topic), slog.Any("brokers", cleaned))
	}
	return writer
}
