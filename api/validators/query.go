package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/solerahq/boutique-backoffice/pkg/errors"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeInvalidArgument, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeInvalidArgument, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseRefinements decodes repeated refine=attribute:value parameters into
// the attribute to value-set form queries carry.
func ParseRefinements(r *http.Request) (map[string][]string, error) {
	raw := r.URL.Query()["refine"]
	if len(raw) == 0 {
		return nil, nil
	}
	refinements := make(map[string][]string, len(raw))
	for _, pair := range raw {
		attribute, value, ok := strings.Cut(pair, ":")
		attribute = strings.TrimSpace(attribute)
		if !ok || attribute == "" || value == "" {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument,
				"refinements must be attribute:value pairs").
				WithDetails(map[string]any{"refine": pair})
		}
		refinements[attribute] = append(refinements[attribute], value)
	}
	return refinements, nil
}
