package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RetrievalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "post_retrievals_total",
			Help: "The total number of post retrievals by outcome",
		},
		[]string{"source", "outcome"},
	)

	RetrievalDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "post_retrieval_duration_seconds",
			Help:    "Duration of a full post retrieval, fallback included",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	PostsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "posts_served_total",
			Help: "Posts returned to clients, split by live or fallback",
		},
		[]string{"kind"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of upstream API calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source", "call"},
	)

	UpstreamResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_responses_total",
			Help: "Upstream responses by status code; transport errors use status \"error\"",
		},
		[]string{"source", "call", "status"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Circuit breaker state changes",
		},
		[]string{"name", "to"},
	)

	JournalEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journal_events_published_total",
			Help: "Retrieval events handed to the queue",
		},
		[]string{"status"},
	)

	JournalWriteDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "journal_write_duration_seconds",
			Help:    "Duration of journal writes",
			Buckets: prometheus.DefBuckets,
		},
	)

	JournalWriteErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journal_write_errors_total",
			Help: "Total number of journal write errors",
		},
		[]string{"outcome"},
	)

	JournalEventsStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journal_events_stored_total",
			Help: "Total number of retrieval events stored in the journal",
		},
		[]string{"outcome"},
	)

	ConsumerReadErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "journal_consumer_read_errors_total",
			Help: "Kafka read errors seen by the journal consumer",
		},
	)

	DLQMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dlq_messages_published_total",
			Help: "Total number of messages published to DLQ",
		},
		[]string{"outcome"},
	)
)
