package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/solerahq/boutique-backoffice/internal/events"
	"github.com/solerahq/boutique-backoffice/internal/indexstore/redisstore"
	"github.com/solerahq/boutique-backoffice/internal/projector"
	"github.com/solerahq/boutique-backoffice/internal/source"
	"github.com/solerahq/boutique-backoffice/pkg/config"
	"github.com/solerahq/boutique-backoffice/pkg/db"
	"github.com/solerahq/boutique-backoffice/pkg/instance"
	"github.com/solerahq/boutique-backoffice/pkg/logger"
	"github.com/solerahq/boutique-backoffice/pkg/metrics"
	"github.com/solerahq/boutique-backoffice/pkg/pubsub"
	"github.com/solerahq/boutique-backoffice/pkg/redis"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "indexer"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "indexer",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer redisClient.Close()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer pubsubClient.Close()

	store, err := redisstore.New(redisstore.Params{
		Client:    redisClient,
		Namespace: cfg.Index.Namespace,
	})
	requireResource(ctx, logg, "index store", err)

	reader, err := source.NewReader(dbClient.DB())
	requireResource(ctx, logg, "source reader", err)

	dlq, err := projector.NewGormDLQ(dbClient.DB())
	requireResource(ctx, logg, "projection dlq", err)

	proj, err := projector.New(projector.Params{
		Source:  reader,
		Store:   store,
		DLQ:     dlq,
		Logger:  logg,
		Metrics: metrics.NewProjectorMetrics(prometheus.DefaultRegisterer),
		Config: projector.Config{
			MaxAttempts:     cfg.Projector.MaxAttempts,
			InitialBackoff:  cfg.Projector.InitialBackoff,
			MaxBackoff:      cfg.Projector.MaxBackoff,
			FanoutBatchSize: cfg.Projector.FanoutBatchSize,
		},
	})
	requireResource(ctx, logg, "projector", err)

	consumer, err := events.NewConsumer(events.ConsumerParams{
		Subscriber: pubsubClient.EntityChangeSubscription(),
		Handler:    proj,
		Logger:     logg,
	})
	requireResource(ctx, logg, "entity change consumer", err)

	service, err := NewService(ServiceParams{
		Config:    cfg,
		Logger:    logg,
		DB:        dbClient,
		Redis:     redisClient,
		PubSub:    pubsubClient,
		Projector: proj,
		Consumer:  consumer,
	})
	requireResource(ctx, logg, "indexer service", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"env":      cfg.App.Env,
		"instance": instance.GetID(),
	})
	logg.Info(runCtx, "indexer ready")

	if err := service.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "indexer stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
