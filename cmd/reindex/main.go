package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/solerahq/boutique-backoffice/internal/index"
	"github.com/solerahq/boutique-backoffice/internal/indexstore/redisstore"
	"github.com/solerahq/boutique-backoffice/internal/projector"
	"github.com/solerahq/boutique-backoffice/internal/source"
	"github.com/solerahq/boutique-backoffice/pkg/config"
	"github.com/solerahq/boutique-backoffice/pkg/db"
	"github.com/solerahq/boutique-backoffice/pkg/logger"
	"github.com/solerahq/boutique-backoffice/pkg/redis"
)

// reindex rebuilds the index collections from the authoritative store. With
// -drop, each collection is cleared first so records deleted while the
// indexer was degraded do not linger.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "reindex"})

	_ = godotenv.Load()

	drop := flag.Bool("drop", false, "drop collections before repopulating")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "reindex",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer redisClient.Close()

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
		Source: reader,
		Store:  store,
		DLQ:    dlq,
		Logger: logg,
		Config: projector.Config{
			MaxAttempts:     cfg.Projector.MaxAttempts,
			InitialBackoff:  cfg.Projector.InitialBackoff,
			MaxBackoff:      cfg.Projector.MaxBackoff,
			FanoutBatchSize: cfg.Projector.FanoutBatchSize,
		},
	})
	requireResource(ctx, logg, "projector", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{"env": cfg.App.Env, "drop": *drop})

	if *drop {
		for _, collection := range index.Collections() {
			requireResource(runCtx, logg, fmt.Sprintf("drop %s", collection),
				store.Drop(runCtx, collection))
		}
		logg.Info(runCtx, "index collections dropped")
	}

	proj.Start(runCtx)
	logg.Info(runCtx, "reindex started")
	if err := proj.Reindex(runCtx, cfg.Projector.ReindexBatchSize); err != nil {
		logg.Error(runCtx, "reindex finished with failures", err)
		os.Exit(1)
	}
	logg.Info(runCtx, "reindex complete")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
