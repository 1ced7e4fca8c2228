package query

import "reflect"

// Cond turns one filter triple into a predicate leaf. The triple passes the
// full soft-validation pipeline: the path is resolved against T's member
// index, enum values are checked against their declared members, and the
// operation is adjusted for the terminal type. Any failure along the way
// returns ok=false, telling the caller to leave its predicate untouched.
func Cond[T any](c Condition) (Predicate[T], bool) {
	var zero T
	root := reflect.TypeOf(zero)

	resolved, ok := Resolve(root, c.Path)
	if !ok {
		return nil, false
	}
	if !IsValidEnumValue(resolved.Terminal, c.Value) {
		return nil, false
	}

	op := AdjustOperation(resolved.Terminal, c.Op)

	if op == In || op == NotIn {
		// A string is a scalar here, never a sequence of characters, and a
		// scalar has no membership semantics.
		if !isValueCollection(c.Value) {
			return nil, false
		}
	}

	return condition[T]{
		path:  resolved,
		op:    op,
		value: CanonicalEnumValue(resolved.Terminal, c.Value),
	}, true
}

func isValueCollection(value any) bool {
	if value == nil {
		return false
	}
	switch reflect.TypeOf(value).Kind() {
	case reflect.Slice, reflect.Array:
		return reflect.TypeOf(value).Elem().Kind() != reflect.Uint8
	default:
		return false
	}
}

// And combines two predicates with AND. Grouping follows call order:
// And(And(a, b), c) renders as ((a AND b) AND c).
func And[T any](base, addition Predicate[T]) Predicate[T] {
	return binary[T]{comb: CombineAnd, left: base, right: addition}
}

// Or combines two predicates with OR.
func Or[T any](base, addition Predicate[T]) Predicate[T] {
	return binary[T]{comb: CombineOr, left: base, right: addition}
}

// DynamicAnd appends one filter triple to base with AND. A triple dropped by
// the validation pipeline leaves base unchanged, as if the call had not been
// made.
func DynamicAnd[T any](base Predicate[T], c Condition) Predicate[T] {
	p, ok := Cond[T](c)
	if !ok {
		return base
	}
	return And(base, p)
}

// DynamicOr appends one filter triple to base with OR.
func DynamicOr[T any](base Predicate[T], c Condition) Predicate[T] {
	p, ok := Cond[T](c)
	if !ok {
		return base
	}
	return Or(base, p)
}

// Compose folds a condition list into one predicate under a single
// combinator. An empty list is a caller error. Conditions dropped by the
// validation pipeline simply do not participate; when every condition is
// dropped the combinator's neutral element remains (TRUE for AND, FALSE
// for OR), so the caller still receives a valid predicate.
func Compose[T any](comb Combinator, conditions []Condition) (Predicate[T], error) {
	if len(conditions) == 0 {
		return nil, ErrNoConditions
	}

	var composed Predicate[T]
	for _, c := range conditions {
		leaf, ok := Cond[T](c)
		if !ok {
			continue
		}
		if composed == nil {
			composed = leaf
			continue
		}
		composed = binary[T]{comb: comb, left: composed, right: leaf}
	}

	if composed == nil {
		if comb == CombineOr {
			return False[T](), nil
		}
		return True[T](), nil
	}
	return composed, nil
}
