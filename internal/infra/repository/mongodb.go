package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/WrestlingNewsHub/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var indexTimeout = 10 * time.Second

// MongoRepository stores retrieval events. Post bodies are never written.
type MongoRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

var _ domain.JournalRepository = (*MongoRepository)(nil)

func NewMongoRepository(client *mongo.Client, dbName, collectionName string) (*MongoRepository, error) {
	db := client.Database(dbName)
	repo := &MongoRepository{
		db:         db,
		collection: db.Collection(collectionName),
	}

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	if err := repo.createIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return repo, nil
}

func (r *MongoRepository) createIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "occurred_at", Value: -1}},
			Options: options.Index().SetName("occurred_at_idx"),
		},
		{
			Keys: bson.D{
				{Key: "outcome", Value: 1},
				{Key: "occurred_at", Value: -1},
			},
			Options: options.Index().SetName("outcome_occurred_at_idx"),
		},
	}

	opts := options.CreateIndexes().SetMaxTime(indexTimeout)
	_, err := r.collection.Indexes().CreateMany(ctx, models, opts)
	return err
}

// Insert is idempotent on the event id so redelivered messages are harmless.
func (r *MongoRepository) Insert(ctx context.Context, event *domain.RetrievalEvent) error {
	_, err := r.collection.InsertOne(ctx, event)
	if mongo.IsDuplicateKeyError(err) {
		slog.Debug("Retrieval event already stored", "id", event.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to insert retrieval event: %w", err)
	}
	return nil
}

func (r *MongoRepository) Recent(ctx context.Context, limit int) ([]domain.RetrievalEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query retrieval events: %w", err)
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			slog.Warn("Failed to close cursor", "error", err)
		}
	}()

	events := make([]domain.RetrievalEvent, 0, limit)
	for cursor.Next(ctx) {
		var event domain.RetrievalEvent
		if err := cursor.Decode(&event); err != nil {
			slog.Warn("Skipping malformed retrieval event", "error", err)
			continue
		}
		events = append(events, event)
	}
	return events, cursor.Err()
}
