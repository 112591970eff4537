package projector

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/solerahq/boutique-backoffice/pkg/enums"
)

// Reindex rebuilds every collection from the authoritative store. It is the
// operator recovery path after degraded-consistency warnings: each entity is
// re-projected through the same pipeline live changes use, then the call
// blocks until the queue drains.
func (p *Projector) Reindex(ctx context.Context, batchSize int) error {
	if batchSize <= 0 {
		batchSize = p.cfg.FanoutBatchSize
	}

	plan := []struct {
		kind enums.EntityKind
		page func(after uuid.UUID) ([]uuid.UUID, error)
	}{
		{enums.EntityKindSupplier, func(after uuid.UUID) ([]uuid.UUID, error) {
			return p.source.SupplierIDs(ctx, after, batchSize)
		}},
		{enums.EntityKindCustomer, func(after uuid.UUID) ([]uuid.UUID, error) {
			return p.source.CustomerIDs(ctx, after, batchSize)
		}},
		{enums.EntityKindProduct, func(after uuid.UUID) ([]uuid.UUID, error) {
			return p.source.ProductIDs(ctx, after, batchSize)
		}},
		{enums.EntityKindInventory, func(after uuid.UUID) ([]uuid.UUID, error) {
			return p.source.InventoryLevelIDs(ctx, after, batchSize)
		}},
	}

	var errs error
	for _, step := range plan {
		if err := p.enumerate(ctx, step.kind, step.page); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("reindex %s: %w", step.kind, err))
		}
	}
	p.Wait()
	return errs
}
