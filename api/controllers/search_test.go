package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solerahq/boutique-backoffice/internal/gateway"
	"github.com/solerahq/boutique-backoffice/internal/index"
	"github.com/solerahq/boutique-backoffice/internal/indexstore/memory"
	"github.com/solerahq/boutique-backoffice/pkg/logger"
)

func searchRouter(t *testing.T, store *memory.Store) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "search-test", Output: &bytes.Buffer{}})
	g, err := gateway.New(gateway.Params{Store: store, Logger: logg, Timeout: time.Second})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Get("/v1/search/{collection}", Search(g, 20, 100, logg))
	return r
}

func seedSupplier(t *testing.T, store *memory.Store, objectID, name string, active bool) {
	t.Helper()
	record, err := index.ToRecord(index.SupplierRecord{
		ObjectID:  objectID,
		Name:      name,
		IsActive:  active,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, store.Upsert(context.Background(), index.CollectionSuppliers, objectID, record))
}

func TestSearchEndpointReturnsHits(t *testing.T) {
	store := memory.New()
	seedSupplier(t, store, "s-1", "Milano Textiles", true)
	seedSupplier(t, store, "s-2", "Torino Buttons", false)
	router := searchRouter(t, store)

	req := httptest.NewRequest(http.MethodGet, "/v1/search/suppliers?q=milano", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data SearchResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Hits, 1)
	assert.Equal(t, "Milano Textiles", body.Data.Hits[0]["name"])
	assert.Equal(t, 1, body.Data.Pagination.TotalHits)
}

func TestSearchEndpointAppliesRefinements(t *testing.T) {
	store := memory.New()
	seedSupplier(t, store, "s-1", "Milano Textiles", true)
	seedSupplier(t, store, "s-2", "Torino Buttons", false)
	router := searchRouter(t, store)

	req := httptest.NewRequest(http.MethodGet, "/v1/search/suppliers?refine=is_active:true", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data SearchResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Hits, 1)
	assert.Equal(t, "s-1", body.Data.Hits[0]["objectID"])
	assert.Equal(t, 1, body.Data.FacetCounts["is_active"]["true"])
}

func TestSearchEndpointRejectsUnknownRefinement(t *testing.T) {
	router := searchRouter(t, memory.New())

	req := httptest.NewRequest(http.MethodGet, "/v1/search/suppliers?refine=color:red", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "QUERY_REJECTED", body.Error.Code)
}

func TestSearchEndpointRejectsBadPageSize(t *testing.T) {
	router := searchRouter(t, memory.New())

	req := httptest.NewRequest(http.MethodGet, "/v1/search/suppliers?page_size=0", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchEndpointRejectsMalformedRefine(t *testing.T) {
	router := searchRouter(t, memory.New())

	req := httptest.NewRequest(http.MethodGet, "/v1/search/suppliers?refine=color", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
