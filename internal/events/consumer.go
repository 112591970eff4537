package events

import (
	"context"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/solerahq/boutique-backoffice/pkg/errors"
	"github.com/solerahq/boutique-backoffice/pkg/logger"
)

// Handler accepts parsed change events. Returning a retryable error nacks
// the message for redelivery; anything else is acked and logged.
type Handler interface {
	HandleEvent(ctx context.Context, event ChangeEvent) error
}

type Consumer struct {
	subscriber *pubsub.Subscriber
	handler    Handler
	logg       *logger.Logger
}

type ConsumerParams struct {
	Subscriber *pubsub.Subscriber
	Handler    Handler
	Logger     *logger.Logger
}

func NewConsumer(params ConsumerParams) (*Consumer, error) {
	if params.Subscriber == nil {
		return nil, fmt.Errorf("subscriber is required")
	}
	if params.Handler == nil {
		return nil, fmt.Errorf("handler is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Consumer{
		subscriber: params.Subscriber,
		handler:    params.Handler,
		logg:       params.Logger,
	}, nil
}

// Run blocks consuming the subscription until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	c.logg.Info(ctx, "entity change consumer started")
	err := c.subscriber.Receive(ctx, func(msgCtx context.Context, msg *pubsub.Message) {
		if c.process(msgCtx, msg.Data).ack {
			msg.Ack()
		} else {
			msg.Nack()
		}
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("receiving entity changes: %w", err)
	}
	return nil
}

type processResult struct {
	ack bool
}

// process handles one raw message. Malformed events are acked: redelivering
// a bad payload can never succeed, and the projector journals real failures.
func (c *Consumer) process(ctx context.Context, data []byte) processResult {
	event, err := ParseChangeEvent(data)
	if err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "dropping malformed change event")
		return processResult{ack: true}
	}

	ctx = c.logg.WithFields(ctx, map[string]any{
		"entity_kind": string(event.EntityKind),
		"entity_id":   event.EntityID.String(),
		"change_type": string(event.ChangeType),
	})

	if err := c.handler.HandleEvent(ctx, *event); err != nil {
		if errors.Retryable(err) {
			c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "change event deferred for redelivery")
			return processResult{ack: false}
		}
		c.logg.Error(ctx, "change event rejected", err)
		return processResult{ack: true}
	}
	return processResult{ack: true}
}
