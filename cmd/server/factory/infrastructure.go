// Package factory provides dependency injection constructors for infrastructure components.
// Journal components are optional: their constructors return nil when unconfigured.
package factory

import (
	"context"
	"time"

	"github.com/WrestlingNewsHub/internal/domain"
	"github.com/WrestlingNewsHub/internal/infra/queue"
	"github.com/WrestlingNewsHub/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
)

// NewMongoClient creates a MongoDB client with lifecycle management.
func NewMongoClient(lc fx.Lifecycle, cfg *config.Config) (*mongo.Client, error) {
	if cfg.MongoURI == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})

	return client, nil
}

// NewMainKafkaProducer creates the async producer that carries retrieval events.
func NewMainKafkaProducer(cfg *config.Config, lc fx.Lifecycle) *queue.KafkaProducer {
	if len(cfg.KafkaBrokers) == 0 || cfg.KafkaTopic == "" {
		return nil
	}

	producer := queue.NewAsyncKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return producer.Close()
		},
	})
	return producer
}

// NewDLQProducer creates a Kafka producer for the Dead Letter Queue.
func NewDLQProducer(cfg *config.Config, lc fx.Lifecycle) *queue.KafkaProducer {
	if len(cfg.KafkaBrokers) == 0 || cfg.KafkaDLQTopic == "" {
		return nil
	}

	producer := queue.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaDLQTopic)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return producer.Close()
		},
	})
	return producer
}

// NewKafkaConsumer creates the journal consumer with DLQ support. It is only
// built when both Kafka and MongoDB are configured.
func NewKafkaConsumer(cfg *config.Config, dlqProducer *queue.KafkaProducer) *queue.KafkaConsumer {
	if !cfg.JournalEnabled() || cfg.KafkaTopic == "" {
		return nil
	}

	var dlq domain.EventProducer
	if dlqProducer != nil {
		dlq = dlqProducer
	}
	// Closed by JournalService.Stop.
	return queue.NewKafkaConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID, dlq)
}
