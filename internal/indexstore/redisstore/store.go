// Package redisstore backs the index store protocol with Redis hashes, one
// hash per collection keyed by objectID, record JSON per field.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/solerahq/boutique-backoffice/internal/index"
	"github.com/solerahq/boutique-backoffice/internal/indexstore"
	"github.com/solerahq/boutique-backoffice/pkg/errors"
)

// HashClient is the slice of the redis client the store needs.
type HashClient interface {
	HSet(ctx context.Context, key, field, value string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) error
	Del(ctx context.Context, keys ...string) error
	IndexKey(namespace, collection string) string
}

type Store struct {
	client    HashClient
	namespace string
}

type Params struct {
	Client    HashClient
	Namespace string
}

func New(params Params) (*Store, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &Store{client: params.Client, namespace: params.Namespace}, nil
}

func (s *Store) Upsert(ctx context.Context, collection index.Collection, objectID string, record indexstore.Record) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "encode index record")
	}
	key := s.client.IndexKey(s.namespace, string(collection))
	if err := s.client.HSet(ctx, key, objectID, string(raw)); err != nil {
		return errors.Wrap(errors.CodePublishFailure, err, "upsert index record")
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection index.Collection, objectID string) error {
	key := s.client.IndexKey(s.namespace, string(collection))
	if err := s.client.HDel(ctx, key, objectID); err != nil {
		return errors.Wrap(errors.CodePublishFailure, err, "delete index record")
	}
	return nil
}

// Query loads the collection hash and evaluates the request locally. The
// collections this layer indexes are back-office sized, so a full hash read
// per query keeps the backend simple and the evaluation shared.
func (s *Store) Query(ctx context.Context, req indexstore.QueryRequest) (*indexstore.QueryResult, error) {
	key := s.client.IndexKey(s.namespace, string(req.Collection))
	raw, err := s.client.HGetAll(ctx, key)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "read index collection")
	}

	records := make(map[string]indexstore.Record, len(raw))
	for objectID, encoded := range raw {
		var record indexstore.Record
		if err := json.Unmarshal([]byte(encoded), &record); err != nil {
			return nil, errors.Wrap(errors.CodeInternal, err,
				fmt.Sprintf("decode index record %s", objectID))
		}
		records[objectID] = record
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return indexstore.Evaluate(req, records), nil
}

// Drop removes an entire collection hash. Used by full reindex before
// repopulating.
func (s *Store) Drop(ctx context.Context, collection index.Collection) error {
	key := s.client.IndexKey(s.namespace, string(collection))
	if err := s.client.Del(ctx, key); err != nil {
		return errors.Wrap(errors.CodePublishFailure, err, "drop index collection")
	}
	return nil
}
