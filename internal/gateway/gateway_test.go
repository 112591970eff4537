package gateway

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solerahq/boutique-backoffice/internal/index"
	"github.com/solerahq/boutique-backoffice/internal/indexstore"
	"github.com/solerahq/boutique-backoffice/internal/indexstore/memory"
	"github.com/solerahq/boutique-backoffice/pkg/errors"
	"github.com/solerahq/boutique-backoffice/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "gateway-test", Output: &bytes.Buffer{}})
}

func seedSuppliers(t *testing.T, store *memory.Store, count int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < count; i++ {
		record, err := index.ToRecord(index.SupplierRecord{
			ObjectID:  string(rune('a'+i%26)) + "-supplier",
			Name:      "Supplier",
			IsActive:  i%2 == 0,
			CreatedAt: time.Now().UTC(),
		})
		require.NoError(t, err)
		objectID := record["objectID"].(string)
		require.NoError(t, store.Upsert(ctx, index.CollectionSuppliers, objectID, record))
	}
}

func newGateway(t *testing.T, store indexstore.Store, timeout time.Duration) *Gateway {
	t.Helper()
	g, err := New(Params{
		Store:   store,
		Logger:  testLogger(),
		Timeout: timeout,
	})
	require.NoError(t, err)
	return g
}

func TestSearchRejectsUnknownCollection(t *testing.T) {
	g := newGateway(t, memory.New(), time.Second)
	_, err := g.Search(context.Background(), Request{Collection: "orders", PageSize: 10})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidArgument))
}

func TestSearchRejectsNonPositivePageSize(t *testing.T) {
	g := newGateway(t, memory.New(), time.Second)
	_, err := g.Search(context.Background(), Request{Collection: "products", PageSize: 0})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidArgument))

	_, err = g.Search(context.Background(), Request{Collection: "products", PageSize: -5})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidArgument))
}

func TestSearchRejectsUnknownRefinementAttribute(t *testing.T) {
	g := newGateway(t, memory.New(), time.Second)
	_, err := g.Search(context.Background(), Request{
		Collection:  "products",
		PageSize:    10,
		Refinements: map[string][]string{"color": {"red"}},
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeQueryRejected))
}

func TestSearchEmptyQueryMatchesAll(t *testing.T) {
	store := memory.New()
	seedSuppliers(t, store, 5)
	g := newGateway(t, store, time.Second)

	resp, err := g.Search(context.Background(), Request{Collection: "suppliers", PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Window.TotalHits)
	assert.Len(t, resp.Hits, 5)
	assert.True(t, resp.Window.IsFirst)
	assert.True(t, resp.Window.IsLast)
}

func TestSearchPageBeyondLastReturnsEmptyWithTotals(t *testing.T) {
	store := memory.New()
	seedSuppliers(t, store, 5)
	g := newGateway(t, store, time.Second)

	resp, err := g.Search(context.Background(), Request{Collection: "suppliers", Page: 7, PageSize: 2})
	require.NoError(t, err)
	assert.Empty(t, resp.Hits)
	assert.Equal(t, 3, resp.Window.TotalPages)
	assert.Equal(t, 5, resp.Window.TotalHits)
	assert.True(t, resp.Window.IsLast)
}

type slowStore struct {
	delay time.Duration
}

func (s *slowStore) Upsert(ctx context.Context, _ index.Collection, _ string, _ indexstore.Record) error {
	return nil
}

func (s *slowStore) Delete(ctx context.Context, _ index.Collection, _ string) error {
	return nil
}

func (s *slowStore) Query(ctx context.Context, _ indexstore.QueryRequest) (*indexstore.QueryResult, error) {
	select {
	case <-time.After(s.delay):
		return &indexstore.QueryResult{}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestSearchTimesOut(t *testing.T) {
	g := newGateway(t, &slowStore{delay: time.Second}, 10*time.Millisecond)

	_, err := g.Search(context.Background(), Request{Collection: "products", PageSize: 10})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeQueryTimeout))
	assert.True(t, errors.Retryable(err))
}

func TestSearchCallerCancellationWinsOverTimeout(t *testing.T) {
	g := newGateway(t, &slowStore{delay: time.Second}, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := g.Search(ctx, Request{Collection: "products", PageSize: 10})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.IsCode(err, errors.CodeQueryTimeout))
}

func TestDecodeHits(t *testing.T) {
	store := memory.New()
	seedSuppliers(t, store, 3)
	g := newGateway(t, store, time.Second)

	resp, err := g.Search(context.Background(), Request{Collection: "suppliers", PageSize: 10})
	require.NoError(t, err)

	typed, err := DecodeHits[index.SupplierRecord](resp.Hits)
	require.NoError(t, err)
	require.Len(t, typed, 3)
	assert.Equal(t, "Supplier", typed[0].Name)
	assert.NotEmpty(t, typed[0].ObjectID)
}
