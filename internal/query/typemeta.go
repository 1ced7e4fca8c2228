package query

import (
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Kind categorizes a resolved member's terminal type for operator
// adjustment and clause rendering.
type Kind int

const (
	KindUnknown Kind = iota
	KindText
	KindBool
	KindInt
	KindUint
	KindFloat
	KindTime
	KindUUID
	KindEnum
	KindStruct
	KindSlice
)

// Member describes one accessible member of an entity type.
type Member struct {
	Name       string       // declared field name
	Column     string       // SQL column name, from the db tag or snake-cased
	Type       reflect.Type // declared type, possibly a pointer
	Elem       reflect.Type // type after pointer/slice indirection
	Kind       Kind
	Nullable   bool // pointer-typed at the property site
	Navigation bool // refers to a related entity or collection of entities
	Collection bool // slice-of-struct navigation
}

// typeIndex is the per-type lookup table mapping normalized member names to
// member descriptors. Built once per entity type and cached; lookups after
// that never touch reflection metadata scans again.
type typeIndex struct {
	members map[string]Member
}

var indexCache sync.Map // reflect.Type -> *typeIndex

func indexOf(t reflect.Type) *typeIndex {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if cached, ok := indexCache.Load(t); ok {
		return cached.(*typeIndex)
	}
	idx := buildIndex(t)
	actual, _ := indexCache.LoadOrStore(t, idx)
	return actual.(*typeIndex)
}

func buildIndex(t reflect.Type) *typeIndex {
	idx := &typeIndex{members: make(map[string]Member)}
	if t.Kind() != reflect.Struct {
		return idx
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			// Flatten embedded structs the way field promotion does.
			for name, member := range buildIndex(field.Type).members {
				if _, taken := idx.members[name]; !taken {
					idx.members[name] = member
				}
			}
			continue
		}
		column := field.Tag.Get("db")
		if column == "-" {
			continue
		}
		if column == "" {
			column = snakeCase(field.Name)
		}
		member := describeMember(field.Name, column, field.Type)
		idx.members[normalizeName(field.Name)] = member
	}
	return idx
}

func describeMember(name, column string, t reflect.Type) Member {
	member := Member{Name: name, Column: column, Type: t, Elem: t}
	if t.Kind() == reflect.Pointer {
		member.Nullable = true
		member.Elem = t.Elem()
	}
	member.Kind = kindOf(member.Elem)
	switch member.Kind {
	case KindStruct:
		member.Navigation = true
	case KindSlice:
		elem := member.Elem.Elem()
		if elem.Kind() == reflect.Pointer {
			elem = elem.Elem()
		}
		if kindOf(elem) == KindStruct {
			member.Navigation = true
			member.Collection = true
			member.Elem = elem
		}
	}
	return member
}

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
)

func kindOf(t reflect.Type) Kind {
	switch t {
	case timeType:
		return KindTime
	case uuidType:
		return KindUUID
	}
	if isRegisteredEnum(t) {
		return KindEnum
	}
	switch t.Kind() {
	case reflect.String:
		return KindText
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return KindInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindUint
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.Struct:
		return KindStruct
	case reflect.Slice, reflect.Array:
		return KindSlice
	default:
		return KindUnknown
	}
}

// normalizeName collapses camelCase, PascalCase, snake_case and kebab-case
// spellings of a member name onto a single lookup key.
func normalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r == '_' || r == '-' {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// snakeCase derives the default SQL column name from a Go field name.
// Acronym runs stay together: "SKU" becomes "sku", "CategoryID" becomes
// "category_id".
func snakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(runes) + 4)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (!unicode.IsUpper(runes[i-1]) || (i+1 < len(runes) && !unicode.IsUpper(runes[i+1]))) {
				b.WriteRune('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
