// Package gateway executes text and faceted queries against the index store
// and returns typed, schema-validated hits.
package gateway

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/solerahq/boutique-backoffice/internal/index"
	"github.com/solerahq/boutique-backoffice/internal/indexstore"
	"github.com/solerahq/boutique-backoffice/pkg/errors"
	"github.com/solerahq/boutique-backoffice/pkg/logger"
	"github.com/solerahq/boutique-backoffice/pkg/metrics"
	"github.com/solerahq/boutique-backoffice/pkg/pagination"
)

// Request is one search call. Refinements combine with AND across
// attributes and OR within an attribute's value set. Page is zero-based.
type Request struct {
	Collection  string
	Text        string
	Refinements map[string][]string
	Page        int
	PageSize    int
}

// Response is one page of schema-validated hits plus the counts and window
// metadata the presentation layer renders from.
type Response struct {
	Hits        []indexstore.Record
	Window      pagination.Window
	FacetCounts map[string]map[string]int
}

type Gateway struct {
	store   indexstore.Store
	logg    *logger.Logger
	metrics *metrics.QueryMetrics
	timeout time.Duration
	maxSize int
}

type Params struct {
	Store       indexstore.Store
	Logger      *logger.Logger
	Metrics     *metrics.QueryMetrics
	Timeout     time.Duration
	MaxPageSize int
}

func New(params Params) (*Gateway, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("index store is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	maxSize := params.MaxPageSize
	if maxSize <= 0 {
		maxSize = pagination.MaxPageSize
	}
	return &Gateway{
		store:   params.Store,
		logg:    params.Logger,
		metrics: params.Metrics,
		timeout: timeout,
		maxSize: maxSize,
	}, nil
}

// Search validates the request, runs it under the configured deadline and
// returns one page of hits. A page beyond the last returns empty hits with
// correct totals, not an error.
func (g *Gateway) Search(ctx context.Context, req Request) (*Response, error) {
	collection := index.Collection(req.Collection)
	if !index.IsCollection(req.Collection) {
		return nil, errors.New(errors.CodeInvalidArgument,
			fmt.Sprintf("unknown collection %q", req.Collection))
	}
	if req.PageSize <= 0 {
		return nil, errors.New(errors.CodeInvalidArgument, "page_size must be positive")
	}
	if req.Page < 0 {
		return nil, errors.New(errors.CodeInvalidArgument, "page must not be negative")
	}
	if err := g.checkRefinements(collection, req.Refinements); err != nil {
		g.metrics.IncRejected(req.Collection)
		return nil, err
	}

	pageSize := pagination.ClampPageSize(req.PageSize, g.maxSize)
	storeReq := indexstore.QueryRequest{
		Collection:           collection,
		Text:                 req.Text,
		Refinements:          req.Refinements,
		Page:                 req.Page,
		PageSize:             pageSize,
		FacetAttributes:      index.FacetAttributes(collection),
		SearchableAttributes: index.SearchableAttributes(collection),
	}

	queryCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	started := time.Now()
	result, err := g.store.Query(queryCtx, storeReq)
	g.metrics.ObserveDuration(req.Collection, time.Since(started))
	if err != nil {
		// The caller's own cancellation wins over the gateway deadline.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if stdErrors.Is(err, context.DeadlineExceeded) {
			g.metrics.IncTimeout(req.Collection)
			return nil, errors.Wrap(errors.CodeQueryTimeout, err,
				fmt.Sprintf("query against %s exceeded %s", collection, g.timeout))
		}
		return nil, errors.Wrap(errors.CodeDependency, err, "index store query failed")
	}

	for _, hit := range result.Hits {
		if verr := index.Validate(collection, hit); verr != nil {
			g.logg.Error(g.logg.WithCollection(ctx, req.Collection), "index returned hit violating its schema", verr)
			return nil, verr
		}
	}

	return &Response{
		Hits:        result.Hits,
		Window:      pagination.NewWindow(req.Page, pageSize, result.TotalHits),
		FacetCounts: result.FacetCounts,
	}, nil
}

// checkRefinements rejects attributes the schema does not declare as facets.
func (g *Gateway) checkRefinements(collection index.Collection, refinements map[string][]string) error {
	for attr := range refinements {
		if !index.IsFacetAttribute(collection, attr) {
			return errors.New(errors.CodeQueryRejected,
				fmt.Sprintf("refinement attribute %q is not a facet of %s", attr, collection)).
				WithDetails(map[string]any{"attribute": attr, "facets": index.FacetAttributes(collection)})
		}
	}
	return nil
}

// DecodeHits converts generic hit records into their typed form.
func DecodeHits[T any](hits []indexstore.Record) ([]T, error) {
	typed := make([]T, 0, len(hits))
	for _, hit := range hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			return nil, fmt.Errorf("encode hit: %w", err)
		}
		var out T
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("decode hit: %w", err)
		}
		typed = append(typed, out)
	}
	return typed, nil
}
