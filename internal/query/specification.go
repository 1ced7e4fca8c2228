package query

// OrderClause is one ordering directive: a property path and a direction.
type OrderClause struct {
	Path       string
	Descending bool
}

// Specification aggregates everything a repository needs to run one query
// over T: a filter predicate, navigation paths to eager-load, ordering
// clauses, and whether to bypass the ambient row-visibility filter. It is a
// passive value object; it executes nothing and validates nothing about how
// it will be consumed. Build it, hand it to a repository, and treat it as
// read-only from then on; callers that need a per-request variant copy it
// instead of mutating a shared instance.
type Specification[T any] struct {
	filter        Predicate[T]
	includes      []string
	orderBy       []OrderClause
	ignoreAmbient bool
}

// NewSpecification returns an empty specification.
func NewSpecification[T any]() *Specification[T] {
	return &Specification[T]{}
}

// Copy returns an independent specification: the collections are fresh
// instances, so mutating the copy never affects the original.
func (s *Specification[T]) Copy() *Specification[T] {
	clone := &Specification[T]{
		filter:        s.filter,
		ignoreAmbient: s.ignoreAmbient,
	}
	if len(s.includes) > 0 {
		clone.includes = make([]string, len(s.includes))
		copy(clone.includes, s.includes)
	}
	if len(s.orderBy) > 0 {
		clone.orderBy = make([]OrderClause, len(s.orderBy))
		copy(clone.orderBy, s.orderBy)
	}
	return clone
}

// WithFilter replaces the filter predicate.
func (s *Specification[T]) WithFilter(p Predicate[T]) *Specification[T] {
	s.filter = p
	return s
}

// DynamicAnd appends one filter triple to the current filter with AND. With
// no filter set yet the triple stands alone. Triples dropped by the
// validation pipeline leave the filter unchanged.
func (s *Specification[T]) DynamicAnd(c Condition) *Specification[T] {
	if s.filter == nil {
		if p, ok := Cond[T](c); ok {
			s.filter = p
		}
		return s
	}
	s.filter = DynamicAnd(s.filter, c)
	return s
}

// DynamicOr appends one filter triple to the current filter with OR.
func (s *Specification[T]) DynamicOr(c Condition) *Specification[T] {
	if s.filter == nil {
		if p, ok := Cond[T](c); ok {
			s.filter = p
		}
		return s
	}
	s.filter = DynamicOr(s.filter, c)
	return s
}

// AddInclude records a navigation path for eager loading. Re-adding an
// identical path is a no-op; declaration order is preserved otherwise.
func (s *Specification[T]) AddInclude(path string) *Specification[T] {
	for _, existing := range s.includes {
		if existing == path {
			return s
		}
	}
	s.includes = append(s.includes, path)
	return s
}

// AddOrderBy appends an ordering clause. The first clause is the primary
// ordering, later clauses break ties in declaration order.
func (s *Specification[T]) AddOrderBy(path string, descending bool) *Specification[T] {
	s.orderBy = append(s.orderBy, OrderClause{Path: path, Descending: descending})
	return s
}

// IgnoreAmbientFilters marks the query to bypass any globally installed
// row-visibility filter, such as soft-delete scoping.
func (s *Specification[T]) IgnoreAmbientFilters() *Specification[T] {
	s.ignoreAmbient = true
	return s
}

// Filter returns the composed filter predicate, or nil when none is set.
func (s *Specification[T]) Filter() Predicate[T] { return s.filter }

// Includes returns a copy of the eager-load paths in declaration order.
func (s *Specification[T]) Includes() []string {
	if len(s.includes) == 0 {
		return nil
	}
	out := make([]string, len(s.includes))
	copy(out, s.includes)
	return out
}

// OrderBy returns a copy of the ordering clauses in declaration order.
func (s *Specification[T]) OrderBy() []OrderClause {
	if len(s.orderBy) == 0 {
		return nil
	}
	out := make([]OrderClause, len(s.orderBy))
	copy(out, s.orderBy)
	return out
}

// IgnoresAmbientFilters reports whether ambient filters are bypassed.
func (s *Specification[T]) IgnoresAmbientFilters() bool { return s.ignoreAmbient }

// HasOrdering reports whether at least one ordering clause is present.
// Consumers that page require this before enumerating.
func (s *Specification[T]) HasOrdering() bool { return len(s.orderBy) > 0 }
