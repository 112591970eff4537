// Package refinement tracks query, facet and page state for one search
// session. It only computes the next request; executing it, debouncing it
// or cancelling it stays with the caller.
package refinement

import (
	"sort"

	"github.com/solerahq/boutique-backoffice/internal/gateway"
)

// Session is the state machine for one search session. Every transition
// except GotoPage restarts pagination at page zero. Not safe for concurrent
// use; a session belongs to a single caller.
type Session struct {
	collection  string
	query       string
	refinements map[string]map[string]struct{}
	page        int
	pageSize    int
}

func NewSession(collection string, pageSize int) *Session {
	return &Session{
		collection:  collection,
		refinements: make(map[string]map[string]struct{}),
		pageSize:    pageSize,
	}
}

// Query replaces the free-text query and resets the page.
func (s *Session) Query(text string) {
	s.query = text
	s.page = 0
}

// Refine toggles a facet value's membership and resets the page. Attributes
// left with no values are dropped entirely.
func (s *Session) Refine(attribute, value string) {
	values, ok := s.refinements[attribute]
	if !ok {
		values = make(map[string]struct{})
		s.refinements[attribute] = values
	}
	if _, active := values[value]; active {
		delete(values, value)
		if len(values) == 0 {
			delete(s.refinements, attribute)
		}
	} else {
		values[value] = struct{}{}
	}
	s.page = 0
}

// GotoPage moves pagination without touching query or refinements.
func (s *Session) GotoPage(page int) {
	if page < 0 {
		page = 0
	}
	s.page = page
}

// Clear drops every refinement and resets the page. The query survives.
func (s *Session) Clear() {
	s.refinements = make(map[string]map[string]struct{})
	s.page = 0
}

func (s *Session) Page() int { return s.page }

func (s *Session) QueryText() string { return s.query }

// IsRefined reports whether the attribute/value pair is currently active.
func (s *Session) IsRefined(attribute, value string) bool {
	_, ok := s.refinements[attribute][value]
	return ok
}

// Request materializes the current state into a gateway request. Values are
// sorted so successive requests from equal state compare equal.
func (s *Session) Request() gateway.Request {
	refinements := make(map[string][]string, len(s.refinements))
	for attribute, values := range s.refinements {
		list := make([]string, 0, len(values))
		for value := range values {
			list = append(list, value)
		}
		sort.Strings(list)
		refinements[attribute] = list
	}
	return gateway.Request{
		Collection:  s.collection,
		Text:        s.query,
		Refinements: refinements,
		Page:        s.page,
		PageSize:    s.pageSize,
	}
}
