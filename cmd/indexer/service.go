package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/solerahq/boutique-backoffice/internal/events"
	"github.com/solerahq/boutique-backoffice/internal/projector"
	"github.com/solerahq/boutique-backoffice/pkg/config"
	"github.com/solerahq/boutique-backoffice/pkg/db"
	"github.com/solerahq/boutique-backoffice/pkg/logger"
	"github.com/solerahq/boutique-backoffice/pkg/pubsub"
	"github.com/solerahq/boutique-backoffice/pkg/redis"
)

type ServiceParams struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        *db.Client
	Redis     *redis.Client
	PubSub    *pubsub.Client
	Projector *projector.Projector
	Consumer  *events.Consumer
}

type Service struct {
	cfg       *config.Config
	logg      *logger.Logger
	db        *db.Client
	redis     *redis.Client
	pubsub    *pubsub.Client
	projector *projector.Projector
	consumer  *events.Consumer
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, errors.New("config is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.DB == nil {
		return nil, errors.New("database client is required")
	}
	if params.Redis == nil {
		return nil, errors.New("redis client is required")
	}
	if params.PubSub == nil {
		return nil, errors.New("pubsub client is required")
	}
	if params.Projector == nil {
		return nil, errors.New("projector is required")
	}
	if params.Consumer == nil {
		return nil, errors.New("consumer is required")
	}
	return &Service{
		cfg:       params.Config,
		logg:      params.Logger,
		db:        params.DB,
		redis:     params.Redis,
		pubsub:    params.PubSub,
		projector: params.Projector,
		consumer:  params.Consumer,
	}, nil
}

func (s *Service) ensureReadiness(ctx context.Context) error {
	if err := pingDependency(ctx, s.logg, "database", s.db.Ping); err != nil {
		return err
	}
	if err := pingDependency(ctx, s.logg, "redis", s.redis.Ping); err != nil {
		return err
	}
	if err := pingDependency(ctx, s.logg, "pubsub", s.pubsub.Ping); err != nil {
		return err
	}
	s.logg.Info(ctx, "all indexer dependencies are ready")
	return nil
}

func pingDependency(ctx context.Context, logg *logger.Logger, name string, fn func(context.Context) error) error {
	if err := fn(ctx); err != nil {
		logg.Error(ctx, fmt.Sprintf("%s ping failed", name), err)
		return fmt.Errorf("%s ping failed: %w", name, err)
	}
	return nil
}

// Run consumes entity changes until ctx is cancelled, then drains queued
// projections before returning.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := s.ensureReadiness(ctx); err != nil {
		return err
	}

	s.projector.Start(context.WithoutCancel(ctx))

	err := s.consumer.Run(ctx)
	s.logg.Info(ctx, "consumer stopped, draining projection queue")
	s.projector.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		s.logg.Error(ctx, "consumer stopped unexpectedly", err)
		return err
	}
	return nil
}
