package events

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solerahq/boutique-backoffice/pkg/enums"
	"github.com/solerahq/boutique-backoffice/pkg/errors"
	"github.com/solerahq/boutique-backoffice/pkg/logger"
)

func TestParseChangeEvent(t *testing.T) {
	id := uuid.New()
	raw, err := json.Marshal(map[string]any{
		"entity_kind": "product",
		"entity_id":   id.String(),
		"change_type": "update",
	})
	require.NoError(t, err)

	event, err := ParseChangeEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, enums.EntityKindProduct, event.EntityKind)
	assert.Equal(t, id, event.EntityID)
	assert.Equal(t, enums.ChangeTypeUpdate, event.ChangeType)
}

func TestParseChangeEventRejectsUnknownKind(t *testing.T) {
	raw := []byte(`{"entity_kind":"order","entity_id":"` + uuid.NewString() + `","change_type":"create"}`)
	_, err := ParseChangeEvent(raw)
	require.Error(t, err)
}

func TestParseChangeEventRejectsMissingID(t *testing.T) {
	raw := []byte(`{"entity_kind":"product","change_type":"create"}`)
	_, err := ParseChangeEvent(raw)
	require.Error(t, err)
}

func TestInventoryTombstone(t *testing.T) {
	productID := uuid.New()
	locationID := uuid.New()
	payload, err := json.Marshal(Tombstone{ProductID: productID, LocationID: locationID})
	require.NoError(t, err)

	event := &ChangeEvent{
		EntityKind: enums.EntityKindInventory,
		EntityID:   uuid.New(),
		ChangeType: enums.ChangeTypeDelete,
		Payload:    payload,
	}
	tomb, err := event.InventoryTombstone()
	require.NoError(t, err)
	assert.Equal(t, productID, tomb.ProductID)
	assert.Equal(t, locationID, tomb.LocationID)
	assert.Nil(t, tomb.VariantID)

	event.Payload = nil
	_, err = event.InventoryTombstone()
	require.Error(t, err)
}

type recordingHandler struct {
	events []ChangeEvent
	err    error
}

func (h *recordingHandler) HandleEvent(_ context.Context, event ChangeEvent) error {
	h.events = append(h.events, event)
	return h.err
}

func testConsumer(handler Handler) *Consumer {
	logg := logger.New(logger.Options{ServiceName: "events-test", Output: &bytes.Buffer{}})
	return &Consumer{handler: handler, logg: logg}
}

func TestProcessAcksValidEvent(t *testing.T) {
	handler := &recordingHandler{}
	consumer := testConsumer(handler)

	raw, err := json.Marshal(ChangeEvent{
		EntityKind: enums.EntityKindCustomer,
		EntityID:   uuid.New(),
		ChangeType: enums.ChangeTypeCreate,
	})
	require.NoError(t, err)

	result := consumer.process(context.Background(), raw)
	assert.True(t, result.ack)
	assert.Len(t, handler.events, 1)
}

func TestProcessAcksMalformedEvent(t *testing.T) {
	handler := &recordingHandler{}
	consumer := testConsumer(handler)

	result := consumer.process(context.Background(), []byte("not json"))
	assert.True(t, result.ack)
	assert.Empty(t, handler.events)
}

func TestProcessNacksRetryableHandlerError(t *testing.T) {
	handler := &recordingHandler{err: errors.New(errors.CodeDependency, "authoritative store down")}
	consumer := testConsumer(handler)

	raw, err := json.Marshal(ChangeEvent{
		EntityKind: enums.EntityKindProduct,
		EntityID:   uuid.New(),
		ChangeType: enums.ChangeTypeUpdate,
	})
	require.NoError(t, err)

	result := consumer.process(context.Background(), raw)
	assert.False(t, result.ack)
}

func TestProcessAcksNonRetryableHandlerError(t *testing.T) {
	handler := &recordingHandler{err: errors.New(errors.CodeSchemaViolation, "bad record")}
	consumer := testConsumer(handler)

	raw, err := json.Marshal(ChangeEvent{
		EntityKind: enums.EntityKindProduct,
		EntityID:   uuid.New(),
		ChangeType: enums.ChangeTypeUpdate,
	})
	require.NoError(t, err)

	result := consumer.process(context.Background(), raw)
	assert.True(t, result.ack)
}
