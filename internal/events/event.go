// Package events carries authoritative-store change notifications into the
// projector.
package events

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/solerahq/boutique-backoffice/pkg/enums"
)

// ChangeEvent is the wire shape of one authoritative entity change. Payload
// is absent for changes the projector resolves by reloading the entity; for
// inventory deletes it carries a Tombstone so the composite objectID can
// still be derived.
type ChangeEvent struct {
	EntityKind enums.EntityKind `json:"entity_kind" validate:"required"`
	EntityID   uuid.UUID        `json:"entity_id" validate:"required"`
	ChangeType enums.ChangeType `json:"change_type" validate:"required"`
	Payload    json.RawMessage  `json:"payload,omitempty"`
}

// Tombstone preserves the key material of a deleted inventory row.
type Tombstone struct {
	ProductID  uuid.UUID  `json:"product_id" validate:"required"`
	VariantID  *uuid.UUID `json:"variant_id,omitempty"`
	LocationID uuid.UUID  `json:"location_id" validate:"required"`
}

var validate = validator.New()

// ParseChangeEvent decodes and validates one event body.
func ParseChangeEvent(data []byte) (*ChangeEvent, error) {
	var event ChangeEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("decode change event: %w", err)
	}
	if err := validate.Struct(&event); err != nil {
		return nil, fmt.Errorf("validate change event: %w", err)
	}
	if !event.EntityKind.IsValid() {
		return nil, fmt.Errorf("unknown entity kind %q", event.EntityKind)
	}
	if !event.ChangeType.IsValid() {
		return nil, fmt.Errorf("unknown change type %q", event.ChangeType)
	}
	if event.EntityID == uuid.Nil {
		return nil, fmt.Errorf("entity id is required")
	}
	return &event, nil
}

// InventoryTombstone extracts the tombstone payload of an inventory delete.
func (e *ChangeEvent) InventoryTombstone() (*Tombstone, error) {
	if len(e.Payload) == 0 {
		return nil, fmt.Errorf("inventory delete missing tombstone payload")
	}
	var tomb Tombstone
	if err := json.Unmarshal(e.Payload, &tomb); err != nil {
		return nil, fmt.Errorf("decode tombstone: %w", err)
	}
	if err := validate.Struct(&tomb); err != nil {
		return nil, fmt.Errorf("validate tombstone: %w", err)
	}
	if tomb.ProductID == uuid.Nil || tomb.LocationID == uuid.Nil {
		return nil, fmt.Errorf("tombstone missing key fields")
	}
	return &tomb, nil
}
