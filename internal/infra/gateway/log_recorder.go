package gateway

import (
	"context"
	"log/slog"

	"github.com/WrestlingNewsHub/internal/domain"
)

// LogRecorder is the outcome recorder used when no journal queue is configured.
type LogRecorder struct{}

var _ domain.OutcomeRecorder = (*LogRecorder)(nil)

func NewLogRecorder() *LogRecorder {
	return &LogRecorder{}
}

func (g *LogRecorder) Record(ctx context.Context, event *domain.RetrievalEvent) {
	slog.DebugContext(ctx, "Retrieval recorded",
		"event_id", event.ID,
		"handle", event.Handle,
		"source", event.Source,
		"outcome", event.Outcome,
		"post_count", event.PostCount,
		"duration_ms", event.DurationMs)
}
