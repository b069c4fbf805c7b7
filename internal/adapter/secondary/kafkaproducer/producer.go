package kafkaproducer

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ruudy-sib/postpone/internal/config"
	"github.com/ruudy-sib/postpone/internal/domain/entity"
	"github.com/ruudy-sib/postpone/internal/port/secondary"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Notifier implements secondary.PublicationNotifier using segmentio/kafka-go.
// Events are keyed by actor so that an actor's publications stay ordered.
type Notifier struct {
	writer messageWriter
	topic  string
	logger *zap.Logger
}

// NewNotifier creates a Kafka notifier from the application configuration.
// Without brokers it returns a notifier that drops every event.
func NewNotifier(cfg *config.Config, logger *zap.Logger) secondary.PublicationNotifier {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("kafka brokers not configured, publication events disabled")
		return NopNotifier{}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: 100 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
	}

	logger.Info("kafka notifier initialized",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.KafkaPublishTopic),
	)

	return newNotifier(writer, cfg.KafkaPublishTopic, logger)
}

func newNotifier(writer messageWriter, topic string, logger *zap.Logger) *Notifier {
	return &Notifier{
		writer: writer,
		topic:  topic,
		logger: logger.Named("kafka-notifier"),
	}
}

// Notify writes the event to the publication topic.
func (n *Notifier) Notify(ctx context.Context, event entity.PublishedEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling publication event: %w", err)
	}

	msg := kafka.Message{
		Topic: n.topic,
		Key:   []byte(strconv.FormatInt(event.UID, 10)),
		Value: value,
	}

	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing message to kafka topic %q: %w", n.topic, err)
	}

	n.logger.Debug("publication event produced",
		zap.String("topic", n.topic),
		zap.Int64("content_id", event.ContentID),
		zap.Int("value_size", len(value)),
	)

	return nil
}

// Close shuts down the Kafka writer and releases its resources.
func (n *Notifier) Close() error {
	if n.writer != nil {
		return n.writer.Close()
	}
	return nil
}

// NopNotifier discards events.
type NopNotifier struct{}

// Notify does nothing.
func (NopNotifier) Notify(context.Context, entity.PublishedEvent) error { return nil }

// Close does nothing.
func (NopNotifier) Close() error { return nil }
