package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/solerahq/boutique-backoffice/api/controllers"
	"github.com/solerahq/boutique-backoffice/api/routes"
	"github.com/solerahq/boutique-backoffice/internal/gateway"
	"github.com/solerahq/boutique-backoffice/internal/indexstore/redisstore"
	"github.com/solerahq/boutique-backoffice/pkg/config"
	"github.com/solerahq/boutique-backoffice/pkg/logger"
	"github.com/solerahq/boutique-backoffice/pkg/metrics"
	"github.com/solerahq/boutique-backoffice/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "searchapi"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "searchapi",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	store, err := redisstore.New(redisstore.Params{
		Client:    redisClient,
		Namespace: cfg.Index.Namespace,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create index store", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	queryMetrics := metrics.NewQueryMetrics(registry)

	searchGateway, err := gateway.New(gateway.Params{
		Store:       store,
		Logger:      logg,
		Metrics:     queryMetrics,
		Timeout:     cfg.Query.Timeout,
		MaxPageSize: cfg.Query.MaxPageSize,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create query gateway", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting search api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:   cfg,
			Logger:   logg,
			Gateway:  searchGateway,
			Gatherer: registry,
			ReadyDeps: map[string]controllers.Pinger{
				"redis": redisClient,
			},
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "search api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
