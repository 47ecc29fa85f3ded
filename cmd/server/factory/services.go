package factory

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/WrestlingNewsHub/internal/app"
	"github.com/WrestlingNewsHub/internal/domain"
	"github.com/WrestlingNewsHub/internal/infra/gateway"
	"github.com/WrestlingNewsHub/internal/infra/queue"
	"github.com/WrestlingNewsHub/internal/infra/repository"
	"github.com/WrestlingNewsHub/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	minMaxPosts = 5
	maxMaxPosts = 100
)

// NewJournalRepository creates the MongoDB journal, or nil without a client.
func NewJournalRepository(client *mongo.Client, cfg *config.Config) (domain.JournalRepository, error) {
	if client == nil {
		return nil, nil
	}
	if cfg.MongoDBName == "" {
		return nil, errors.New("mongo database name not configured")
	}
	if cfg.MongoColl == "" {
		return nil, errors.New("mongo collection name not configured")
	}
	return repository.NewMongoRepository(client, cfg.MongoDBName, cfg.MongoColl)
}

// NewEventReader exposes the journal to the HTTP layer.
func NewEventReader(repo domain.JournalRepository) domain.EventReader {
	if repo == nil {
		return nil
	}
	return repo
}

// NewOutcomeRecorder publishes to Kafka when a producer exists and logs otherwise.
func NewOutcomeRecorder(p *queue.KafkaProducer) domain.OutcomeRecorder {
	if p == nil {
		slog.Info("Kafka not configured, retrieval outcomes are only logged")
		return gateway.NewLogRecorder()
	}
	return p
}

// NewPostPipeline creates the post pipeline with validation.
func NewPostPipeline(
	cfg *config.Config,
	source domain.PostSource,
	recorder domain.OutcomeRecorder,
) (*app.PostPipeline, error) {
	if source == nil {
		return nil, errors.New("post source is nil")
	}
	if recorder == nil {
		return nil, errors.New("outcome recorder is nil")
	}
	if cfg.MaxPosts < minMaxPosts || cfg.MaxPosts > maxMaxPosts {
		return nil, fmt.Errorf("invalid max posts: %d (must be %d-%d)", cfg.MaxPosts, minMaxPosts, maxMaxPosts)
	}
	if cfg.Handle == "" {
		return nil, errors.New("handle not configured")
	}
	if source.RequiresCredential() && cfg.BearerToken == "" {
		slog.Warn("TWITTER_BEARER_TOKEN not set, serving fallback posts", "handle", cfg.Handle)
	}

	return app.NewPostPipeline(app.PipelineConfig{
		Handle:     cfg.Handle,
		Credential: cfg.BearerToken,
		MaxPosts:   cfg.MaxPosts,
	}, source, recorder), nil
}

// NewJournalService creates the journal writer, or nil when the journal is off.
func NewJournalService(consumer *queue.KafkaConsumer, repo domain.JournalRepository) *app.JournalService {
	if consumer == nil || repo == nil {
		return nil
	}
	return app.NewJournalService(consumer, repo)
}
