package query

import (
	"fmt"
	"strings"
)

// Operation represents a filter comparison operation
type Operation string

const (
	Equal              Operation = "EQUAL"
	NotEqual           Operation = "NOT_EQUAL"
	GreaterThan        Operation = "GREATER_THAN"
	GreaterThanOrEqual Operation = "GREATER_THAN_OR_EQUAL"
	LessThan           Operation = "LESS_THAN"
	LessThanOrEqual    Operation = "LESS_THAN_OR_EQUAL"
	Contains           Operation = "CONTAINS"
	NotContains        Operation = "NOT_CONTAINS"
	StartsWith         Operation = "STARTS_WITH"
	EndsWith           Operation = "ENDS_WITH"
	In                 Operation = "IN"
	NotIn              Operation = "NOT_IN"
)

// Combinator joins two predicates into one boolean expression
type Combinator string

const (
	CombineAnd Combinator = "AND"
	CombineOr  Combinator = "OR"
)

var operationAliases = map[string]Operation{
	"equal":              Equal,
	"eq":                 Equal,
	"notequal":           NotEqual,
	"neq":                NotEqual,
	"ne":                 NotEqual,
	"greaterthan":        GreaterThan,
	"gt":                 GreaterThan,
	"greaterthanorequal": GreaterThanOrEqual,
	"gte":                GreaterThanOrEqual,
	"lessthan":           LessThan,
	"lt":                 LessThan,
	"lessthanorequal":    LessThanOrEqual,
	"lte":                LessThanOrEqual,
	"contains":           Contains,
	"notcontains":        NotContains,
	"startswith":         StartsWith,
	"endswith":           EndsWith,
	"in":                 In,
	"notin":              NotIn,
}

// ParseOperation maps a caller-supplied operation name to an Operation.
// Names are matched case-insensitively and tolerate underscores and hyphens,
// so "not_equal", "NotEqual" and "neq" all resolve to NotEqual.
func ParseOperation(raw string) (Operation, error) {
	key := strings.ToLower(raw)
	key = strings.ReplaceAll(key, "_", "")
	key = strings.ReplaceAll(key, "-", "")
	if op, ok := operationAliases[key]; ok {
		return op, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedOperation, raw)
}

// ParseCombinator maps a caller-supplied combinator name to a Combinator.
func ParseCombinator(raw string) (Combinator, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", string(CombineAnd):
		return CombineAnd, nil
	case string(CombineOr):
		return CombineOr, nil
	default:
		return "", fmt.Errorf("unknown combinator %q", raw)
	}
}
