package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/WrestlingNewsHub/cmd/server/factory"
	"github.com/WrestlingNewsHub/internal/app"
	"github.com/WrestlingNewsHub/internal/infra/tracing"
	transport "github.com/WrestlingNewsHub/internal/transport/http"
	"github.com/WrestlingNewsHub/pkg/config"
	"github.com/WrestlingNewsHub/pkg/logging"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func main() {
	logging.Setup(false)

	fx.New(
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.SlogLogger{Logger: slog.Default()}
		}),
		fx.Provide(
			// Config
			LoadConfig,

			// Infrastructure
			factory.NewMongoClient,
			factory.NewJournalRepository,
			factory.NewEventReader,
			fx.Annotate(
				factory.NewMainKafkaProducer,
				fx.ResultTags(`name:"main_producer"`),
			),
			fx.Annotate(
				factory.NewDLQProducer,
				fx.ResultTags(`name:"dlq_producer"`),
			),
			fx.Annotate(
				factory.NewKafkaConsumer,
				fx.ParamTags(``, `name:"dlq_producer"`),
			),

			// Recorder & source
			fx.Annotate(
				factory.NewOutcomeRecorder,
				fx.ParamTags(`name:"main_producer"`),
			),
			factory.NewPostSource,

			// Services
			fx.Annotate(
				factory.NewPostPipeline,
				fx.As(new(transport.PostRetriever)),
			),
			factory.NewJournalService,

			// HTTP Server
			transport.NewHTTPServer,
		),
		fx.Invoke(
			SetupTracer,
			WaitForReady, // Block until configured dependencies are ready
			RegisterHooks,
			StartServer,
		),
	).Run()
}

// LoadConfig loads the configuration and reinstalls the logger at the configured level.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.Debug)
	slog.Info("Configuration loaded",
		"source", cfg.Source,
		"handle", cfg.Handle,
		"max_posts", cfg.MaxPosts,
		"journal", cfg.JournalEnabled())
	return cfg, nil
}

// --- Invokers ---

func RegisterHooks(lc fx.Lifecycle, journal *app.JournalService) {
	if journal == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			journal.Start(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return journal.Stop()
		},
	})
}

func SetupTracer(lc fx.Lifecycle, cfg *config.Config) error {
	ctx := context.Background()
	shutdown, err := tracing.InitTracer(ctx, "wrestling-news-hub", transport.ServiceVersion, cfg.OTLPEndpoint)
	if err != nil {
		slog.Error("Failed to initialize tracer", "error", err)
		return err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Info("Shutting down tracer provider")
			return shutdown(ctx)
		},
	})
	return nil
}

// WaitForReady blocks until the configured journal dependencies are ready.
func WaitForReady(cfg *config.Config, mongoClient *mongo.Client) error {
	waiter := app.NewReadinessWaiter(mongoClient, cfg.KafkaBrokers, cfg.KafkaTopic)
	return waiter.WaitForDependencies(context.Background())
}

func StartServer(lc fx.Lifecycle, server *http.Server) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				slog.Info("Starting HTTP server", "address", server.Addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					slog.Error("HTTP server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}
