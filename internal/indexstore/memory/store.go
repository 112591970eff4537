// Package memory holds a process-local index store used by tests and dev.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/solerahq/boutique-backoffice/internal/index"
	"github.com/solerahq/boutique-backoffice/internal/indexstore"
)

// Store keeps full record snapshots per collection. Reads never block
// behind writes beyond the brief map swap under the mutex.
type Store struct {
	mu          sync.RWMutex
	collections map[index.Collection]map[string]indexstore.Record
}

func New() *Store {
	return &Store{
		collections: make(map[index.Collection]map[string]indexstore.Record),
	}
}

// Upsert replaces the record for objectID. The stored copy is deep, so
// callers may mutate their map afterwards.
func (s *Store) Upsert(ctx context.Context, collection index.Collection, objectID string, record indexstore.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clone, err := cloneRecord(record)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	bucket, ok := s.collections[collection]
	if !ok {
		bucket = make(map[string]indexstore.Record)
		s.collections[collection] = bucket
	}
	bucket[objectID] = clone
	return nil
}

// Delete removes the record for objectID. Deleting an absent record is a
// no-op so replayed deletes converge.
func (s *Store) Delete(ctx context.Context, collection index.Collection, objectID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if bucket, ok := s.collections[collection]; ok {
		delete(bucket, objectID)
	}
	return nil
}

func (s *Store) Query(ctx context.Context, req indexstore.QueryRequest) (*indexstore.QueryResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snapshot := s.snapshot(req.Collection)
	return indexstore.Evaluate(req, snapshot), nil
}

// Get returns the stored record for objectID, or nil when absent. Test
// helper outside the store protocol.
func (s *Store) Get(collection index.Collection, objectID string) indexstore.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucket, ok := s.collections[collection]
	if !ok {
		return nil
	}
	record, ok := bucket[objectID]
	if !ok {
		return nil
	}
	clone, err := cloneRecord(record)
	if err != nil {
		return nil
	}
	return clone
}

// Len reports how many records a collection holds.
func (s *Store) Len(collection index.Collection) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

func (s *Store) snapshot(collection index.Collection) map[string]indexstore.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucket := s.collections[collection]
	out := make(map[string]indexstore.Record, len(bucket))
	for objectID, record := range bucket {
		out[objectID] = record
	}
	return out
}

func cloneRecord(record indexstore.Record) (indexstore.Record, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("clone record: %w", err)
	}
	var clone indexstore.Record
	if err := json.Unmarshal(raw, &clone); err != nil {
		return nil, fmt.Errorf("clone record: %w", err)
	}
	return clone, nil
}
