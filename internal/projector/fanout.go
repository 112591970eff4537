package projector

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/solerahq/boutique-backoffice/internal/events"
	"github.com/solerahq/boutique-backoffice/pkg/enums"
)

// submitFanout queues re-projection of every record denormalizing a changed
// reference entity. The fanout runs on its own key so the triggering
// change's projection never blocks on it.
func (p *Projector) submitFanout(kind enums.EntityKind, id uuid.UUID) {
	key := fmt.Sprintf("fanout:%s:%s", kind, id)
	p.dispatch.submit(p.baseCtx, key, func(ctx context.Context) {
		p.fanout(ctx, kind, id)
	})
}

func (p *Projector) fanout(ctx context.Context, kind enums.EntityKind, id uuid.UUID) {
	ctx = p.logg.WithFields(ctx, map[string]any{
		"fanout_kind": string(kind),
		"fanout_id":   id.String(),
	})

	var err error
	switch kind {
	case enums.EntityKindSupplier:
		err = p.enumerate(ctx, enums.EntityKindProduct, func(after uuid.UUID) ([]uuid.UUID, error) {
			return p.source.ProductIDsBySupplier(ctx, id, after, p.cfg.FanoutBatchSize)
		})
	case enums.EntityKindCategory:
		err = p.enumerate(ctx, enums.EntityKindProduct, func(after uuid.UUID) ([]uuid.UUID, error) {
			return p.source.ProductIDsByCategory(ctx, id, after, p.cfg.FanoutBatchSize)
		})
	case enums.EntityKindProduct:
		err = p.enumerate(ctx, enums.EntityKindInventory, func(after uuid.UUID) ([]uuid.UUID, error) {
			return p.source.InventoryLevelIDsByProduct(ctx, id, after, p.cfg.FanoutBatchSize)
		})
	case enums.EntityKindLocation:
		err = p.enumerate(ctx, enums.EntityKindInventory, func(after uuid.UUID) ([]uuid.UUID, error) {
			return p.source.InventoryLevelIDsByLocation(ctx, id, after, p.cfg.FanoutBatchSize)
		})
	default:
		return
	}
	if err != nil {
		p.logg.Error(ctx, "reference fanout incomplete", err)
	}
}

// enumerate pages through dependent ids and queues one re-projection per
// dependent as a synthetic update event.
func (p *Projector) enumerate(ctx context.Context, dependentKind enums.EntityKind, page func(after uuid.UUID) ([]uuid.UUID, error)) error {
	var errs error
	after := uuid.Nil
	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return multierr.Append(errs, ctxErr)
		}
		batch, err := page(after)
		if err != nil {
			return multierr.Append(errs, err)
		}
		if len(batch) == 0 {
			return errs
		}
		p.metrics.ObserveFanoutBatch(len(batch))

		for _, dependentID := range batch {
			event := events.ChangeEvent{
				EntityKind: dependentKind,
				EntityID:   dependentID,
				ChangeType: enums.ChangeTypeUpdate,
			}
			p.submitEntity(entityKey(dependentKind, dependentID), event)
		}
		after = batch[len(batch)-1]
	}
}
