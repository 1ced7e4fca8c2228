package query

import (
	"reflect"
	"sync"
)

// enumSet records the declared members of one registered enum type.
type enumSet struct {
	byName map[string]reflect.Value // normalized member name -> value
	values []reflect.Value
}

var enumRegistry sync.Map // reflect.Type -> *enumSet

// RegisterEnum declares the members of an enum type so filter values against
// it can be validated. Call it from the owning package's init: the member
// index built by Resolve caches each property's kind on first use, so an
// enum registered after an entity type has already been resolved is not
// picked up by that cached index.
func RegisterEnum[E comparable](members map[string]E) {
	var zero E
	set := &enumSet{byName: make(map[string]reflect.Value, len(members))}
	for name, value := range members {
		v := reflect.ValueOf(value)
		set.byName[normalizeName(name)] = v
		set.values = append(set.values, v)
	}
	enumRegistry.Store(reflect.TypeOf(zero), set)
}

func isRegisteredEnum(t reflect.Type) bool {
	_, ok := enumRegistry.Load(t)
	return ok
}

// IsValidEnumValue reports whether value is usable as a filter value for the
// member. Members that are not registered enums, and unknown members, are
// always valid; this check only constrains enum-typed properties. An invalid
// result is a signal to drop the condition, never an error.
func IsValidEnumValue(terminal Member, value any) bool {
	if terminal.Type == nil {
		return true
	}
	loaded, ok := enumRegistry.Load(terminal.Elem)
	if !ok {
		return true
	}
	set := loaded.(*enumSet)

	if value == nil {
		return terminal.Nullable
	}

	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return terminal.Nullable
		}
		v = v.Elem()
	}

	// Membership filters carry their candidates as a collection; every
	// element must be a declared member on its own.
	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		for i := 0; i < v.Len(); i++ {
			elem := v.Index(i)
			for elem.Kind() == reflect.Interface || elem.Kind() == reflect.Pointer {
				if elem.IsNil() {
					return false
				}
				elem = elem.Elem()
			}
			if !enumScalarValid(set, terminal.Elem, elem) {
				return false
			}
		}
		return true
	}

	return enumScalarValid(set, terminal.Elem, v)
}

func enumScalarValid(set *enumSet, enumType reflect.Type, v reflect.Value) bool {
	if v.Type() == enumType {
		return containsEnumValue(set, v)
	}

	switch v.Kind() {
	case reflect.String:
		_, found := set.byName[normalizeName(v.String())]
		return found
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return matchesUnderlying(set, float64(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return matchesUnderlying(set, float64(v.Uint()))
	case reflect.Float32, reflect.Float64:
		return matchesUnderlying(set, v.Float())
	default:
		return false
	}
}

func containsEnumValue(set *enumSet, v reflect.Value) bool {
	for _, member := range set.values {
		if member.Interface() == v.Interface() {
			return true
		}
	}
	return false
}

// matchesUnderlying checks a numeric candidate against each member's
// underlying value, not just against "any integer".
func matchesUnderlying(set *enumSet, candidate float64) bool {
	for _, member := range set.values {
		switch member.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if float64(member.Int()) == candidate {
				return true
			}
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if float64(member.Uint()) == candidate {
				return true
			}
		case reflect.Float32, reflect.Float64:
			if member.Float() == candidate {
				return true
			}
		}
	}
	return false
}

// CanonicalEnumValue maps a string filter value (or a collection of them)
// onto the declared enum member values so clause rendering binds what the
// column actually stores. Returns the input unchanged when no mapping
// applies.
func CanonicalEnumValue(terminal Member, value any) any {
	if terminal.Type == nil || value == nil {
		return value
	}
	loaded, ok := enumRegistry.Load(terminal.Elem)
	if !ok {
		return value
	}
	set := loaded.(*enumSet)

	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}

	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		if v.Type().Elem() == terminal.Elem {
			return value
		}
		out := reflect.MakeSlice(reflect.SliceOf(terminal.Elem), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			elem := v.Index(i)
			for elem.Kind() == reflect.Interface || elem.Kind() == reflect.Pointer {
				if elem.IsNil() {
					return value
				}
				elem = elem.Elem()
			}
			mapped, ok := canonicalEnumScalar(set, terminal.Elem, elem)
			if !ok {
				return value
			}
			out.Index(i).Set(mapped)
		}
		return out.Interface()
	}

	if v.Kind() == reflect.String && v.Type() != terminal.Elem {
		if member, found := set.byName[normalizeName(v.String())]; found {
			return member.Interface()
		}
	}
	return value
}

func canonicalEnumScalar(set *enumSet, enumType reflect.Type, v reflect.Value) (reflect.Value, bool) {
	if v.Type() == enumType {
		return v, true
	}
	if v.Kind() == reflect.String {
		member, found := set.byName[normalizeName(v.String())]
		return member, found
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		if v.Type().ConvertibleTo(enumType) {
			return v.Convert(enumType), true
		}
	}
	return reflect.Value{}, false
}
