package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ReadinessWaiter blocks startup until the journal dependencies answer.
// A nil client or empty broker list skips that dependency.
type ReadinessWaiter struct {
	mongoClient *mongo.Client
	brokers     []string
	topic       string
	interval    time.Duration
}

func NewReadinessWaiter(mongoClient *mongo.Client, brokers []string, topic string) *ReadinessWaiter {
	return &ReadinessWaiter{
		mongoClient: mongoClient,
		brokers:     brokers,
		topic:       topic,
		interval:    2 * time.Second,
	}
}

func (w *ReadinessWaiter) WaitForDependencies(ctx context.Context) error {
	if w.mongoClient != nil {
		if err := w.poll(ctx, "MongoDB", w.checkMongo); err != nil {
			return err
		}
	}
	if len(w.brokers) > 0 {
		if err := w.poll(ctx, "Kafka", w.checkKafka); err != nil {
			return err
		}
	}
	return nil
}

// poll retries check until it succeeds or ctx ends.
func (w *ReadinessWaiter) poll(ctx context.Context, name string, check func(context.Context) error) error {
	slog.Info("Waiting for dependency", "dependency", name)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := check(ctx); err != nil {
				slog.Warn("Dependency not ready yet", "dependency", name, "error", err)
				continue
			}
			slog.Info("Dependency is ready", "dependency", name)
			return nil
		}
	}
}

func (w *ReadinessWaiter) checkMongo(ctx context.Context) error {
	return w.mongoClient.Ping(ctx, readpref.Primary())
}

func (w *ReadinessWaiter) checkKafka(ctx context.Context) error {
	for _, broker := range w.brokers {
		conn, err := net.DialTimeout("tcp", broker, 2*time.Second)
		if err != nil {
			return fmt.Errorf("failed to connect to broker %s: %w", broker, err)
		}
		_ = conn.Close()
	}

	conn, err := kafka.DialContext(ctx, "tcp", w.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to dial kafka: %w", err)
	}
	defer func() {
		_ = conn.Close()
	}()

	partitions, err := conn.ReadPartitions(w.topic)
	if err != nil {
		return fmt.Errorf("failed to read partitions for topic %s: %w", w.topic, err)
	}
	if len(partitions) == 0 {
		return fmt.Errorf("topic %s has no partitions", w.topic)
	}
	return nil
}
