package api

import (
	"github.com/jmallet/catql/internal/domain"
	"github.com/jmallet/catql/internal/query"
)

// FilterInput is one predicate in a search payload. Unknown paths and
// value/operation mismatches are skipped server-side rather than rejected,
// so clients can send speculative filters.
type FilterInput struct {
	Path  string `json:"path"`
	Op    string `json:"op"`
	Value any    `json:"value"`
}

type OrderInput struct {
	Path       string `json:"path"`
	Descending bool   `json:"descending"`
}

// SearchRequest is the JSON payload for product search and count.
type SearchRequest struct {
	Filters    []FilterInput `json:"filters"`
	Combinator string        `json:"combinator"`
	OrderBy    []OrderInput  `json:"orderBy"`
	Include    []string      `json:"include"`
	Limit      int           `json:"limit"`
	Offset     int           `json:"offset"`
}

// ToSpecification translates the payload. Blank paths and unparseable
// operations are caller mistakes and come back as errors; everything the
// engine soft-skips stays silent.
func (req SearchRequest) ToSpecification() (*query.Specification[domain.Product], error) {
	combinator := query.CombineAnd
	if req.Combinator != "" {
		parsed, err := query.ParseCombinator(req.Combinator)
		if err != nil {
			return nil, err
		}
		combinator = parsed
	}

	spec := query.NewSpecification[domain.Product]()
	for _, f := range req.Filters {
		op, err := query.ParseOperation(f.Op)
		if err != nil {
			return nil, err
		}
		cond, err := query.NewCondition(f.Path, op, normalizeJSONValue(f.Value))
		if err != nil {
			return nil, err
		}
		if combinator == query.CombineOr {
			spec = spec.DynamicOr(cond)
		} else {
			spec = spec.DynamicAnd(cond)
		}
	}
	for _, include := range req.Include {
		spec = spec.AddInclude(include)
	}
	for _, o := range req.OrderBy {
		spec = spec.AddOrderBy(o.Path, o.Descending)
	}
	return spec, nil
}

// normalizeJSONValue unwraps []any from decoded JSON arrays so collection
// operations see a concrete slice, and leaves scalars alone.
func normalizeJSONValue(value any) any {
	items, ok := value.([]any)
	if !ok {
		return value
	}
	// Homogeneous string or number arrays get typed slices; anything
	// mixed stays as-is and matches element by element.
	allStrings := true
	allNumbers := true
	for _, item := range items {
		if _, ok := item.(string); !ok {
			allStrings = false
		}
		if _, ok := item.(float64); !ok {
			allNumbers = false
		}
	}
	switch {
	case allStrings && len(items) > 0:
		out := make([]string, len(items))
		for i, item := range items {
			out[i] = item.(string)
		}
		return out
	case allNumbers && len(items) > 0:
		out := make([]float64, len(items))
		for i, item := range items {
			out[i] = item.(float64)
		}
		return out
	default:
		return items
	}
}
