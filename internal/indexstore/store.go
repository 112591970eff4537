// Package indexstore defines the wire protocol between the projector and the
// read-optimized index, plus the query evaluation shared by its backends.
package indexstore

import (
	"context"

	"github.com/solerahq/boutique-backoffice/internal/index"
)

// Record is the generic decoded form an index record travels in.
type Record = map[string]any

// QueryRequest describes one read against a single collection. Refinements
// combine with AND across attributes and OR within an attribute's value set.
// Attribute lists come from the schema registry so backends stay
// schema-agnostic.
type QueryRequest struct {
	Collection           index.Collection
	Text                 string
	Refinements          map[string][]string
	Page                 int
	PageSize             int
	FacetAttributes      []string
	SearchableAttributes []string
}

// QueryResult carries one page of hits plus the counts needed to render
// refinement UI without a second round trip.
type QueryResult struct {
	Hits        []Record
	TotalHits   int
	TotalPages  int
	FacetCounts map[string]map[string]int
}

// Store is the index store protocol. Upsert replaces the full record for an
// objectID atomically from the reader's perspective; Delete of an absent
// record is a no-op.
type Store interface {
	Upsert(ctx context.Context, collection index.Collection, objectID string, record Record) error
	Delete(ctx context.Context, collection index.Collection, objectID string) error
	Query(ctx context.Context, req QueryRequest) (*QueryResult, error)
}
