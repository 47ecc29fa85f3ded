package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/WrestlingNewsHub/internal/domain"
	"github.com/WrestlingNewsHub/internal/infra/metrics"
	"github.com/WrestlingNewsHub/internal/infra/queue"
)

// JournalService moves retrieval events from the queue into the journal store.
type JournalService struct {
	consumer *queue.KafkaConsumer
	writer   domain.EventWriter
}

func NewJournalService(consumer *queue.KafkaConsumer, writer domain.EventWriter) *JournalService {
	return &JournalService{
		consumer: consumer,
		writer:   writer,
	}
}

func (s *JournalService) Start(ctx context.Context) {
	slog.Info("Starting journal service (Kafka Consumer)")
	go s.consumer.Start(ctx, s.handleEvent)
}

func (s *JournalService) handleEvent(ctx context.Context, event *domain.RetrievalEvent) error {
	start := time.Now()
	slog.Debug("Storing retrieval event", "event_id", event.ID, "outcome", event.Outcome)

	err := s.writer.Insert(ctx, event)
	metrics.JournalWriteDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		slog.Error("Failed to store retrieval event", "event_id", event.ID, "error", err)
		metrics.JournalWriteErrors.WithLabelValues(string(event.Outcome)).Inc()
		return err
	}

	metrics.JournalEventsStored.WithLabelValues(string(event.Outcome)).Inc()
	return nil
}

func (s *JournalService) Stop() error {
	return s.consumer.Close()
}
