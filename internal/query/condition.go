package query

import "strings"

// Condition is one caller-supplied filter triple: a dotted property path,
// a comparison operation, and the value to compare against. Value may be nil.
// A condition is immutable once constructed.
type Condition struct {
	Path  string
	Op    Operation
	Value any
}

// NewCondition builds a condition, rejecting blank property paths.
func NewCondition(path string, op Operation, value any) (Condition, error) {
	if strings.TrimSpace(path) == "" {
		return Condition{}, ErrEmptyPropertyPath
	}
	return Condition{Path: path, Op: op, Value: value}, nil
}
