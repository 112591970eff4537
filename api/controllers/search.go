package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/solerahq/boutique-backoffice/api/responses"
	"github.com/solerahq/boutique-backoffice/api/validators"
	"github.com/solerahq/boutique-backoffice/internal/gateway"
	"github.com/solerahq/boutique-backoffice/pkg/logger"
	"github.com/solerahq/boutique-backoffice/pkg/pagination"
)

// SearchResponse is the payload the presentation layer renders search
// results from.
type SearchResponse struct {
	Hits        []map[string]any          `json:"hits"`
	Pagination  pagination.Window         `json:"pagination"`
	FacetCounts map[string]map[string]int `json:"facet_counts"`
}

// Search serves GET /v1/search/{collection}. Query parameters: q, page,
// page_size, and repeated refine=attribute:value pairs.
func Search(g *gateway.Gateway, defaultPageSize, maxPageSize int, logg *logger.Logger) http.HandlerFunc {
	if defaultPageSize <= 0 {
		defaultPageSize = pagination.DefaultPageSize
	}
	if maxPageSize <= 0 {
		maxPageSize = pagination.MaxPageSize
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		page, err := validators.ParseQueryInt(r, "page", 0, 0, 1_000_000)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		pageSize, err := validators.ParseQueryInt(r, "page_size", defaultPageSize, 1, maxPageSize)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		refinements, err := validators.ParseRefinements(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := g.Search(ctx, gateway.Request{
			Collection:  chi.URLParam(r, "collection"),
			Text:        strings.TrimSpace(r.URL.Query().Get("q")),
			Refinements: refinements,
			Page:        page,
			PageSize:    pageSize,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		hits := make([]map[string]any, 0, len(result.Hits))
		for _, hit := range result.Hits {
			hits = append(hits, hit)
		}
		responses.WriteSuccess(w, SearchResponse{
			Hits:        hits,
			Pagination:  result.Window,
			FacetCounts: result.FacetCounts,
		})
	}
}
