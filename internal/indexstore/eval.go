package indexstore

import (
	"sort"
	"strconv"
	"strings"

	"github.com/solerahq/boutique-backoffice/pkg/pagination"
)

// Evaluate runs a query over a full collection snapshot. Both backends use
// it so matching, facet counting and paging behave identically everywhere.
func Evaluate(req QueryRequest, records map[string]Record) *QueryResult {
	matched := make([]string, 0, len(records))
	for objectID, record := range records {
		if !matchesText(req, record) {
			continue
		}
		if !matchesRefinements(req.Refinements, record) {
			continue
		}
		matched = append(matched, objectID)
	}
	// Index default order: objectID ascending.
	sort.Strings(matched)

	facets := countFacets(req.FacetAttributes, matched, records)

	totalHits := len(matched)
	start, end := pagination.Bounds(req.Page, req.PageSize, totalHits)
	hits := make([]Record, 0, end-start)
	for _, objectID := range matched[start:end] {
		hits = append(hits, records[objectID])
	}

	return &QueryResult{
		Hits:        hits,
		TotalHits:   totalHits,
		TotalPages:  pagination.PageCount(totalHits, req.PageSize),
		FacetCounts: facets,
	}
}

// matchesText applies a case-insensitive substring match over the
// collection's searchable attributes. An empty query matches everything.
func matchesText(req QueryRequest, record Record) bool {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return true
	}
	needle := strings.ToLower(text)
	for _, attr := range req.SearchableAttributes {
		for _, candidate := range valueStrings(record[attr]) {
			if strings.Contains(strings.ToLower(candidate), needle) {
				return true
			}
		}
	}
	return false
}

// matchesRefinements combines attributes with AND and an attribute's values
// with OR.
func matchesRefinements(refinements map[string][]string, record Record) bool {
	for attr, accepted := range refinements {
		if len(accepted) == 0 {
			continue
		}
		values := valueStrings(record[attr])
		if !intersects(values, accepted) {
			return false
		}
	}
	return true
}

func intersects(values, accepted []string) bool {
	for _, value := range values {
		for _, want := range accepted {
			if value == want {
				return true
			}
		}
	}
	return false
}

// countFacets tallies facet values over the full matched set, not just the
// returned page.
func countFacets(attributes []string, matched []string, records map[string]Record) map[string]map[string]int {
	facets := make(map[string]map[string]int, len(attributes))
	for _, attr := range attributes {
		facets[attr] = map[string]int{}
	}
	for _, objectID := range matched {
		record := records[objectID]
		for _, attr := range attributes {
			for _, value := range valueStrings(record[attr]) {
				facets[attr][value]++
			}
		}
	}
	return facets
}

// valueStrings flattens a record field into its facet/search string forms.
// List fields contribute one string per element.
func valueStrings(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case bool:
		return []string{strconv.FormatBool(v)}
	case float64:
		return []string{strconv.FormatFloat(v, 'f', -1, 64)}
	case int:
		return []string{strconv.Itoa(v)}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, valueStrings(item)...)
		}
		return out
	default:
		return nil
	}
}
