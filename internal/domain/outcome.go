package domain

import (
	"context"
	"errors"
	"time"
)

// Outcome tags how a retrieval ended.
type Outcome string

const (
	OutcomeLive              Outcome = "live"
	OutcomeCredentialMissing Outcome = "credential_missing"
	OutcomeResolutionFailed  Outcome = "resolution_failed"
	OutcomeListingFailed     Outcome = "listing_failed"
	OutcomeEmptyResult       Outcome = "empty_result"
	OutcomeUnexpectedError   Outcome = "unexpected_error"
)

// OutcomeOf maps a retrieval error onto its outcome. A nil error is live.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeLive
	case errors.Is(err, ErrCredentialMissing):
		return OutcomeCredentialMissing
	case errors.Is(err, ErrResolutionFailed):
		return OutcomeResolutionFailed
	case errors.Is(err, ErrListingFailed):
		return OutcomeListingFailed
	case errors.Is(err, ErrEmptyResult):
		return OutcomeEmptyResult
	default:
		return OutcomeUnexpectedError
	}
}

// Retrieval is the result of one pipeline run. Posts is never empty.
type Retrieval struct {
	Posts   []Post
	Outcome Outcome
	Err     error
}

// Degraded reports whether the fallback catalog was served.
func (r Retrieval) Degraded() bool {
	return r.Outcome != OutcomeLive
}

// RetrievalEvent is the audit record of one pipeline run. It never carries post data.
type RetrievalEvent struct {
	ID         string    `json:"id" bson:"_id"`
	Handle     string    `json:"handle" bson:"handle"`
	Source     string    `json:"source" bson:"source"`
	Outcome    Outcome   `json:"outcome" bson:"outcome"`
	PostCount  int       `json:"post_count" bson:"post_count"`
	Reason     string    `json:"reason,omitempty" bson:"reason,omitempty"`
	DurationMs int64     `json:"duration_ms" bson:"duration_ms"`
	OccurredAt time.Time `json:"occurred_at" bson:"occurred_at"`
}

// OutcomeRecorder receives the event of every retrieval. Record must not block
// the request for long; failures are the recorder's to log.
type OutcomeRecorder interface {
	Record(ctx context.Context, event *RetrievalEvent)
}

// EventProducer publishes retrieval events to a queue.
type EventProducer interface {
	Publish(ctx context.Context, event *RetrievalEvent) error
	Close() error
}

// EventWriter handles journal persistence.
type EventWriter interface {
	Insert(ctx context.Context, event *RetrievalEvent) error
}

// EventReader reads the journal back, newest first.
type EventReader interface {
	Recent(ctx context.Context, limit int) ([]RetrievalEvent, error)
}

// JournalRepository is the composite journal store.
type JournalRepository interface {
	EventWriter
	EventReader
}
