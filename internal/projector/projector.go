// Package projector turns authoritative change events into index store
// operations, applying denormalization and stock derivation on the way.
package projector

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/solerahq/boutique-backoffice/internal/events"
	"github.com/solerahq/boutique-backoffice/internal/index"
	"github.com/solerahq/boutique-backoffice/internal/indexstore"
	"github.com/solerahq/boutique-backoffice/pkg/db/models"
	"github.com/solerahq/boutique-backoffice/pkg/enums"
	"github.com/solerahq/boutique-backoffice/pkg/errors"
	"github.com/solerahq/boutique-backoffice/pkg/logger"
	"github.com/solerahq/boutique-backoffice/pkg/metrics"
)

// Source is the slice of the authoritative reader the projector needs.
type Source interface {
	Product(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Customer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Supplier(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	InventoryLevel(ctx context.Context, id uuid.UUID) (*models.InventoryLevel, error)
	ProductIDsBySupplier(ctx context.Context, supplierID, afterID uuid.UUID, limit int) ([]uuid.UUID, error)
	ProductIDsByCategory(ctx context.Context, categoryID, afterID uuid.UUID, limit int) ([]uuid.UUID, error)
	InventoryLevelIDsByProduct(ctx context.Context, productID, afterID uuid.UUID, limit int) ([]uuid.UUID, error)
	InventoryLevelIDsByLocation(ctx context.Context, locationID, afterID uuid.UUID, limit int) ([]uuid.UUID, error)
	ProductIDs(ctx context.Context, afterID uuid.UUID, limit int) ([]uuid.UUID, error)
	CustomerIDs(ctx context.Context, afterID uuid.UUID, limit int) ([]uuid.UUID, error)
	SupplierIDs(ctx context.Context, afterID uuid.UUID, limit int) ([]uuid.UUID, error)
	InventoryLevelIDs(ctx context.Context, afterID uuid.UUID, limit int) ([]uuid.UUID, error)
}

// Config bounds the retry and fanout behavior.
type Config struct {
	MaxAttempts     int
	InitialBackoff  time.Duration
	MaxBackoff      time.Duration
	FanoutBatchSize int
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 6
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 200 * time.Millisecond
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 10 * time.Second
	}
	if c.FanoutBatchSize <= 0 {
		c.FanoutBatchSize = 200
	}
	return c
}

type Projector struct {
	source   Source
	store    indexstore.Store
	dlq      DLQ
	logg     *logger.Logger
	metrics  *metrics.ProjectorMetrics
	cfg      Config
	dispatch *dispatcher

	baseCtx context.Context
}

type Params struct {
	Source  Source
	Store   indexstore.Store
	DLQ     DLQ
	Logger  *logger.Logger
	Metrics *metrics.ProjectorMetrics
	Config  Config
}

func New(params Params) (*Projector, error) {
	if params.Source == nil {
		return nil, fmt.Errorf("source reader is required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("index store is required")
	}
	if params.DLQ == nil {
		return nil, fmt.Errorf("dlq is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Projector{
		source:   params.Source,
		store:    params.Store,
		dlq:      params.DLQ,
		logg:     params.Logger,
		metrics:  params.Metrics,
		cfg:      params.Config.withDefaults(),
		dispatch: newDispatcher(),
		baseCtx:  context.Background(),
	}, nil
}

// Start pins the context queued work runs under. Consumer message contexts
// are per-delivery; queued projections must outlive them.
func (p *Projector) Start(ctx context.Context) {
	p.baseCtx = ctx
}

// Wait blocks until every queued projection has drained.
func (p *Projector) Wait() {
	p.dispatch.wait()
}

// HandleEvent enqueues the projections a change event implies and returns
// without waiting for them. Operations for one objectID run in submission
// order; distinct entities proceed concurrently.
func (p *Projector) HandleEvent(ctx context.Context, event events.ChangeEvent) error {
	switch event.EntityKind {
	case enums.EntityKindProduct:
		p.submitEntity(productKey(event.EntityID), event)
		if event.ChangeType == enums.ChangeTypeUpdate {
			p.submitFanout(event.EntityKind, event.EntityID)
		}
	case enums.EntityKindCustomer, enums.EntityKindSupplier, enums.EntityKindInventory:
		p.submitEntity(entityKey(event.EntityKind, event.EntityID), event)
		if event.EntityKind == enums.EntityKindSupplier && event.ChangeType == enums.ChangeTypeUpdate {
			p.submitFanout(event.EntityKind, event.EntityID)
		}
	case enums.EntityKindCategory, enums.EntityKindLocation:
		// Reference-only kinds: no collection of their own, but renames must
		// refresh every record denormalizing them.
		if event.ChangeType == enums.ChangeTypeUpdate {
			p.submitFanout(event.EntityKind, event.EntityID)
		}
	default:
		return errors.New(errors.CodeInvalidArgument,
			fmt.Sprintf("unhandled entity kind %q", event.EntityKind))
	}
	return nil
}

func productKey(id uuid.UUID) string {
	return entityKey(enums.EntityKindProduct, id)
}

func entityKey(kind enums.EntityKind, id uuid.UUID) string {
	return fmt.Sprintf("%s:%s", kind, id)
}

func (p *Projector) submitEntity(key string, event events.ChangeEvent) {
	p.dispatch.submit(p.baseCtx, key, func(ctx context.Context) {
		p.projectEvent(ctx, event)
	})
}

func (p *Projector) projectEvent(ctx context.Context, event events.ChangeEvent) {
	ctx = p.logg.WithFields(ctx, map[string]any{
		"entity_kind": string(event.EntityKind),
		"entity_id":   event.EntityID.String(),
		"change_type": string(event.ChangeType),
	})

	collection, objectID, record, err := p.resolveOperation(ctx, event)
	if err != nil {
		p.journalFailure(ctx, event, collection, objectID, record, err, 0)
		return
	}
	if objectID == "" {
		// Entity disappeared between event and load; the delete event that
		// follows will clear the index.
		return
	}

	p.apply(ctx, event, collection, objectID, record)
}

// resolveOperation loads the entity (for upserts) and produces the target
// operation. A nil record with a non-empty objectID means delete.
func (p *Projector) resolveOperation(ctx context.Context, event events.ChangeEvent) (index.Collection, string, indexstore.Record, error) {
	isDelete := event.ChangeType == enums.ChangeTypeDelete

	switch event.EntityKind {
	case enums.EntityKindProduct:
		if isDelete {
			return index.CollectionProducts, event.EntityID.String(), nil, nil
		}
		product, err := p.source.Product(ctx, event.EntityID)
		if err != nil {
			return index.CollectionProducts, event.EntityID.String(), nil, missingToSkip(err)
		}
		record, err := index.ToRecord(buildProductRecord(product))
		return index.CollectionProducts, event.EntityID.String(), record, err

	case enums.EntityKindCustomer:
		if isDelete {
			return index.CollectionCustomers, event.EntityID.String(), nil, nil
		}
		customer, err := p.source.Customer(ctx, event.EntityID)
		if err != nil {
			return index.CollectionCustomers, event.EntityID.String(), nil, missingToSkip(err)
		}
		record, err := index.ToRecord(buildCustomerRecord(customer))
		return index.CollectionCustomers, event.EntityID.String(), record, err

	case enums.EntityKindSupplier:
		if isDelete {
			return index.CollectionSuppliers, event.EntityID.String(), nil, nil
		}
		supplier, err := p.source.Supplier(ctx, event.EntityID)
		if err != nil {
			return index.CollectionSuppliers, event.EntityID.String(), nil, missingToSkip(err)
		}
		record, err := index.ToRecord(buildSupplierRecord(supplier))
		return index.CollectionSuppliers, event.EntityID.String(), record, err

	case enums.EntityKindInventory:
		if isDelete {
			tomb, err := event.InventoryTombstone()
			if err != nil {
				return index.CollectionInventory, "", nil,
					errors.Wrap(errors.CodeSchemaViolation, err, "inventory delete without usable tombstone")
			}
			variantID := ""
			if tomb.VariantID != nil {
				variantID = tomb.VariantID.String()
			}
			objectID := index.InventoryObjectID(tomb.ProductID.String(), variantID, tomb.LocationID.String())
			return index.CollectionInventory, objectID, nil, nil
		}
		level, err := p.source.InventoryLevel(ctx, event.EntityID)
		if err != nil {
			return index.CollectionInventory, "", nil, missingToSkip(err)
		}
		typed, oversold := buildInventoryRecord(level)
		if oversold {
			p.metrics.IncOversellRace()
			p.logg.Warn(p.logg.WithObjectID(ctx, typed.ObjectID), "reserved quantity exceeds on-hand quantity")
		}
		record, err := index.ToRecord(typed)
		return index.CollectionInventory, typed.ObjectID, record, err

	default:
		return "", "", nil, errors.New(errors.CodeInvalidArgument,
			fmt.Sprintf("unhandled entity kind %q", event.EntityKind))
	}
}

// missingToSkip keeps NOT_FOUND loads out of the journal: the entity was
// deleted after the event fired and its own delete event converges the
// index. Everything else passes through.
func missingToSkip(err error) error {
	if errors.IsCode(err, errors.CodeNotFound) {
		return nil
	}
	return err
}

// apply validates, publishes with bounded retries, and journals terminal
// failures.
func (p *Projector) apply(ctx context.Context, event events.ChangeEvent, collection index.Collection, objectID string, record indexstore.Record) {
	ctx = p.logg.WithCollection(p.logg.WithObjectID(ctx, objectID), string(collection))

	operation := "delete"
	if record != nil {
		operation = "upsert"
		if err := index.Validate(collection, record); err != nil {
			p.metrics.IncSchemaViolation(string(collection))
			p.journalFailure(ctx, event, collection, objectID, record, err, 0)
			return
		}
	}

	attempts, err := p.publish(ctx, collection, objectID, record)
	if err != nil {
		p.journalFailure(ctx, event, collection, objectID, record, err, attempts)
		return
	}
	p.metrics.IncPublished(string(collection), operation)
}

// publish runs the store operation with exponential backoff and jitter.
// Only retryable errors are reattempted.
func (p *Projector) publish(ctx context.Context, collection index.Collection, objectID string, record indexstore.Record) (int, error) {
	op := func(ctx context.Context) error {
		if record == nil {
			return p.store.Delete(ctx, collection, objectID)
		}
		return p.store.Upsert(ctx, collection, objectID, record)
	}

	backoff := p.cfg.InitialBackoff
	var lastErr error
	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return attempt, nil
		}
		if !errors.Retryable(lastErr) {
			return attempt, lastErr
		}
		if attempt == p.cfg.MaxAttempts {
			break
		}
		p.metrics.IncRetry(string(collection))

		select {
		case <-ctx.Done():
			return attempt, ctx.Err()
		case <-time.After(withJitter(backoff)):
		}
		backoff *= 2
		if backoff > p.cfg.MaxBackoff {
			backoff = p.cfg.MaxBackoff
		}
	}
	p.metrics.IncPublishFailure(string(collection))
	return p.cfg.MaxAttempts, errors.Wrap(errors.CodePublishFailure, lastErr,
		fmt.Sprintf("publish to %s abandoned after %d attempts", collection, p.cfg.MaxAttempts))
}

// withJitter spreads sleeps by up to half the base interval.
func withJitter(base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	return base + time.Duration(rand.Int63n(int64(base/2)+1))
}

// journalFailure records an abandoned projection. The authoritative store
// stays correct; the row flags degraded index consistency until the record
// is reprojected.
func (p *Projector) journalFailure(ctx context.Context, event events.ChangeEvent, collection index.Collection, objectID string, record indexstore.Record, cause error, attempts int) {
	if cause == nil {
		return
	}
	reason := enums.ProjectionDLQReasonNonRetryable
	if errors.IsCode(cause, errors.CodePublishFailure) {
		reason = enums.ProjectionDLQReasonMaxAttempts
	}

	var raw json.RawMessage
	if record != nil {
		if encoded, err := json.Marshal(record); err == nil {
			raw = encoded
		}
	}
	message := cause.Error()
	entry := &models.ProjectionDLQ{
		Collection:   string(collection),
		ObjectID:     objectID,
		EntityKind:   event.EntityKind,
		EntityID:     event.EntityID,
		ChangeType:   event.ChangeType,
		Record:       raw,
		ErrorReason:  reason,
		ErrorMessage: &message,
		AttemptCount: attempts,
	}
	if err := p.dlq.Insert(ctx, entry); err != nil {
		p.logg.Error(ctx, "journaling abandoned projection failed", err)
	}
	p.logg.Error(ctx, "projection abandoned", cause)
}
