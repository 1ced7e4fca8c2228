package query

import "errors"

// Errors in this package mark contract violations by calling code. Invalid
// filter input that can be attributed to the caller's data rather than the
// caller's code (an unresolvable path, a value outside an enum) is never an
// error; the affected condition is dropped and composition continues.
var (
	// ErrEmptyPropertyPath is returned when a condition is built from an
	// empty or blank property path.
	ErrEmptyPropertyPath = errors.New("property path must not be empty")

	// ErrNoConditions is returned when a predicate is composed from zero
	// conditions; combining nothing has no defined semantics.
	ErrNoConditions = errors.New("cannot compose predicate from empty condition set")

	// ErrUnsupportedOperation is returned for operation values outside the
	// closed Operation set.
	ErrUnsupportedOperation = errors.New("unsupported filter operation")

	// ErrInvalidPageSize is returned for page sizes below 1.
	ErrInvalidPageSize = errors.New("page size must be positive")

	// ErrMissingOrderBy is returned by consumers that require deterministic
	// ordering, such as paged enumeration over a specification.
	ErrMissingOrderBy = errors.New("specification requires at least one order by clause")
)
