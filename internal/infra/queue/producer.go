package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/WrestlingNewsHub/internal/domain"
	"github.com/WrestlingNewsHub/internal/infra/metrics"
	"github.com/WrestlingNewsHub/pkg/logging"
	"github.com/segmentio/kafka-go"
)

const writeErrorKey = "kafka_write"

// KafkaProducer publishes retrieval events keyed by handle.
type KafkaProducer struct {
	writer  *kafka.Writer
	sampler *logging.ErrorSampler
}

var (
	_ domain.EventProducer   = (*KafkaProducer)(nil)
	_ domain.OutcomeRecorder = (*KafkaProducer)(nil)
)

// NewKafkaProducer returns a synchronous producer. Use NewAsyncKafkaProducer on
// request paths.
func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	return newKafkaProducer(brokers, topic, false)
}

// NewAsyncKafkaProducer returns a producer whose writes never block the caller.
// Delivery errors are logged through a sampler.
func NewAsyncKafkaProducer(brokers []string, topic string) *KafkaProducer {
	return newKafkaProducer(brokers, topic, true)
}

func newKafkaProducer(brokers []string, topic string, async bool) *KafkaProducer {
	p := &KafkaProducer{sampler: logging.NewErrorSampler(20)}
	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		Async:        async,
	}
	if async {
		p.writer.Completion = p.onCompletion
	}
	slog.Info("Kafka Producer initialized", "brokers", brokers, "topic", topic, "async", async)
	return p
}

func (p *KafkaProducer) onCompletion(messages []kafka.Message, err error) {
	if err == nil {
		metrics.JournalEventsPublished.WithLabelValues("success").Add(float64(len(messages)))
		if failures := p.sampler.GetCount(writeErrorKey); failures > 0 {
			slog.Info("Kafka writes recovered", "failed_batches", failures)
			p.sampler.Reset(writeErrorKey)
		}
		return
	}
	metrics.JournalEventsPublished.WithLabelValues("error").Add(float64(len(messages)))
	if p.sampler.ShouldLog(writeErrorKey) {
		slog.Error("Failed to write retrieval events to kafka",
			"count", len(messages), "error", err, "occurrences", p.sampler.GetCount(writeErrorKey))
	}
}

func (p *KafkaProducer) Publish(ctx context.Context, event *domain.RetrievalEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.Handle),
		Value: payload,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		slog.Error("Failed to write to kafka", "error", err)
		return err
	}

	slog.Debug("Published retrieval event to Kafka", "id", event.ID, "outcome", event.Outcome)
	return nil
}

// Record implements domain.OutcomeRecorder. The request context is not used:
// delivery must outlive the request.
func (p *KafkaProducer) Record(_ context.Context, event *domain.RetrievalEvent) {
	if err := p.Publish(context.Background(), event); err != nil && p.sampler.ShouldLog("kafka_publish") {
		slog.Error("Failed to record retrieval event", "id", event.ID, "error", err)
	}
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
