package redisstore

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solerahq/boutique-backoffice/internal/index"
	"github.com/solerahq/boutique-backoffice/internal/indexstore"
	"github.com/solerahq/boutique-backoffice/pkg/errors"
)

type fakeHashClient struct {
	hashes  map[string]map[string]string
	failSet bool
}

func newFakeHashClient() *fakeHashClient {
	return &fakeHashClient{hashes: map[string]map[string]string{}}
}

func (f *fakeHashClient) HSet(_ context.Context, key, field, value string) error {
	if f.failSet {
		return assert.AnError
	}
	if f.hashes[key] == nil {
		f.hashes[key] = map[string]string{}
	}
	f.hashes[key][field] = value
	return nil
}

func (f *fakeHashClient) HGetAll(_ context.Context, key string) (map[string]string, error) {
	return f.hashes[key], nil
}

func (f *fakeHashClient) HDel(_ context.Context, key string, fields ...string) error {
	for _, field := range fields {
		delete(f.hashes[key], field)
	}
	return nil
}

func (f *fakeHashClient) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.hashes, key)
	}
	return nil
}

func (f *fakeHashClient) IndexKey(namespace, collection string) string {
	return strings.Join([]string{namespace, "idx", collection}, ":")
}

func TestUpsertQueryDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newFakeHashClient()
	store, err := New(Params{Client: client, Namespace: "test"})
	require.NoError(t, err)

	record := indexstore.Record{"objectID": "p-1", "name": "Linen Shirt", "is_active": true}
	require.NoError(t, store.Upsert(ctx, index.CollectionProducts, "p-1", record))

	result, err := store.Query(ctx, indexstore.QueryRequest{
		Collection:           index.CollectionProducts,
		Page:                 0,
		PageSize:             10,
		SearchableAttributes: []string{"name"},
	})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "Linen Shirt", result.Hits[0]["name"])

	require.NoError(t, store.Delete(ctx, index.CollectionProducts, "p-1"))
	result, err = store.Query(ctx, indexstore.QueryRequest{
		Collection: index.CollectionProducts,
		Page:       0,
		PageSize:   10,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Hits)
}

func TestUpsertFailureIsPublishFailure(t *testing.T) {
	client := newFakeHashClient()
	client.failSet = true
	store, err := New(Params{Client: client})
	require.NoError(t, err)

	upsertErr := store.Upsert(context.Background(), index.CollectionProducts, "p-1", indexstore.Record{"objectID": "p-1"})
	require.Error(t, upsertErr)
	assert.True(t, errors.IsCode(upsertErr, errors.CodePublishFailure))
	assert.True(t, errors.Retryable(upsertErr))
}

func TestDropRemovesCollection(t *testing.T) {
	ctx := context.Background()
	client := newFakeHashClient()
	store, err := New(Params{Client: client, Namespace: "test"})
	require.NoError(t, err)

	require.NoError(t, store.Upsert(ctx, index.CollectionProducts, "p-1", indexstore.Record{"objectID": "p-1"}))
	require.NoError(t, store.Drop(ctx, index.CollectionProducts))

	result, err := store.Query(ctx, indexstore.QueryRequest{Collection: index.CollectionProducts, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, result.Hits)
}
