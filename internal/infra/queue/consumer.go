package queue

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/WrestlingNewsHub/internal/domain"
	"github.com/WrestlingNewsHub/internal/infra/metrics"
	"github.com/segmentio/kafka-go"
)

// MessageHandler stores one decoded retrieval event.
type MessageHandler func(ctx context.Context, event *domain.RetrievalEvent) error

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// KafkaConsumer reads retrieval events from the journal topic. Events the
// handler rejects are forwarded to the dead letter producer when one is set.
type KafkaConsumer struct {
	reader     messageReader
	deadLetter domain.EventProducer
	backoff    time.Duration
}

func NewKafkaConsumer(brokers []string, topic, groupID string, deadLetter domain.EventProducer) *KafkaConsumer {
	slog.Info("Kafka Consumer initialized", "brokers", brokers, "topic", topic, "group", groupID, "dlq", deadLetter != nil)
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1,
			MaxBytes: 1 << 20, // events are small
		}),
		deadLetter: deadLetter,
		backoff:    time.Second,
	}
}

// Start reads until ctx is cancelled or the reader is closed. Other read
// errors are retried after a backoff.
func (c *KafkaConsumer) Start(ctx context.Context, handler MessageHandler) {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, io.EOF):
			slog.Info("Kafka consumer stopped")
			return
		case err != nil:
			metrics.ConsumerReadErrors.Inc()
			slog.Error("Error reading kafka message, retrying", "error", err, "backoff", c.backoff)
			select {
			case <-ctx.Done():
				slog.Info("Kafka consumer stopped")
				return
			case <-time.After(c.backoff):
			}
			continue
		}

		event, err := decodeEvent(msg)
		if err != nil {
			slog.Error("Dropping undecodable retrieval event", "partition", msg.Partition, "offset", msg.Offset, "error", err)
			continue
		}

		if err := handler(ctx, event); err != nil {
			slog.Error("Error handling retrieval event", "event_id", event.ID, "error", err)
			c.forwardToDLQ(ctx, event)
		}
	}
}

func decodeEvent(msg kafka.Message) (*domain.RetrievalEvent, error) {
	var event domain.RetrievalEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return nil, err
	}
	if event.ID == "" {
		return nil, errors.New("retrieval event without id")
	}
	return &event, nil
}

func (c *KafkaConsumer) forwardToDLQ(ctx context.Context, event *domain.RetrievalEvent) {
	if c.deadLetter == nil {
		return
	}
	if err := c.deadLetter.Publish(ctx, event); err != nil {
		slog.Error("Failed to publish to DLQ", "event_id", event.ID, "error", err)
		return
	}
	metrics.DLQMessagesPublished.WithLabelValues(string(event.Outcome)).Inc()
	slog.Info("Published failed retrieval event to DLQ", "event_id", event.ID)
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
