package query

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Predicate is a composable boolean expression over an entity type. It can
// be evaluated in memory against a single entity or rendered as a SQL
// fragment with positional parameters; both views share one expression tree,
// so composition order and grouping are identical across them.
type Predicate[T any] interface {
	Matches(entity T) bool
	Render(w *ClauseWriter) (string, error)
}

// ClauseWriter threads the parameter index and collected arguments through a
// predicate render. Each render owns its writer; predicates stay stateless.
type ClauseWriter struct {
	next      int
	args      []any
	rootAlias string
}

// NewClauseWriter starts parameter numbering at start (usually 1 for a
// query's first parameter, or higher when other clauses bound slots first).
func NewClauseWriter(start int) *ClauseWriter {
	return &ClauseWriter{next: start}
}

// QualifyRoot prefixes root-level column references with a table alias so
// rendered clauses stay unambiguous once navigation joins are in play.
func (w *ClauseWriter) QualifyRoot(alias string) *ClauseWriter {
	w.rootAlias = alias
	return w
}

// Args returns the values bound so far, in parameter order.
func (w *ClauseWriter) Args() []any { return w.args }

// NextIndex returns the next free parameter slot.
func (w *ClauseWriter) NextIndex() int { return w.next }

// Bind claims the next parameter slot for an externally built clause, such
// as a LIMIT or ambient-filter argument appended by the repository.
func (w *ClauseWriter) Bind(value any) string {
	placeholder := fmt.Sprintf("$%d", w.next)
	w.args = append(w.args, value)
	w.next++
	return placeholder
}

// RenderPredicate renders a predicate to clause text and its bound
// arguments, numbering parameters from startIndex.
func RenderPredicate[T any](p Predicate[T], startIndex int) (string, []any, error) {
	w := NewClauseWriter(startIndex)
	text, err := p.Render(w)
	if err != nil {
		return "", nil, err
	}
	return text, w.Args(), nil
}

// True returns the always-true predicate, the usual seed for AND chains.
func True[T any]() Predicate[T] { return literal[T]{value: true} }

// False returns the always-false predicate, the usual seed for OR chains.
func False[T any]() Predicate[T] { return literal[T]{value: false} }

type literal[T any] struct {
	value bool
}

func (l literal[T]) Matches(T) bool {
	return l.value
}

func (l literal[T]) Render(*ClauseWriter) (string, error) {
	if l.value {
		return "TRUE", nil
	}
	return "FALSE", nil
}

type binary[T any] struct {
	comb  Combinator
	left  Predicate[T]
	right Predicate[T]
}

func (b binary[T]) Matches(entity T) bool {
	if b.comb == CombineAnd {
		return b.left.Matches(entity) && b.right.Matches(entity)
	}
	return b.left.Matches(entity) || b.right.Matches(entity)
}

func (b binary[T]) Render(w *ClauseWriter) (string, error) {
	left, err := b.left.Render(w)
	if err != nil {
		return "", err
	}
	right, err := b.right.Render(w)
	if err != nil {
		return "", err
	}
	return "(" + left + " " + string(b.comb) + " " + right + ")", nil
}

// condition is a leaf holding one resolved, validated, adjusted triple.
type condition[T any] struct {
	path  ResolvedPath
	op    Operation
	value any
}

func (c condition[T]) Render(w *ClauseWriter) (string, error) {
	path := c.path
	if w.rootAlias != "" {
		path = path.Qualified(w.rootAlias)
	}
	clause, next, err := BuildClause(path, c.op, c.value, w.next)
	if err != nil {
		return "", err
	}
	w.args = append(w.args, clause.Args...)
	w.next = next
	return clause.Text, nil
}

func (c condition[T]) Matches(entity T) bool {
	return matchPath(reflect.ValueOf(entity), c.path.Segments, c.op, c.value)
}

// matchPath walks the entity value along the resolved segments. A nil
// navigation or terminal behaves like SQL NULL: it satisfies only an
// Equal-to-nil test. Collection navigations match when any element matches.
func matchPath(v reflect.Value, segments []string, op Operation, condValue any) bool {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return condValue == nil && op == Equal
		}
		v = v.Elem()
	}

	if len(segments) == 0 {
		return compareValues(v, op, condValue)
	}

	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		for i := 0; i < v.Len(); i++ {
			if matchPath(v.Index(i), segments, op, condValue) {
				return true
			}
		}
		return false
	}

	if v.Kind() != reflect.Struct {
		return false
	}
	field := v.FieldByName(segments[0])
	if !field.IsValid() {
		return false
	}
	return matchPath(field, segments[1:], op, condValue)
}

func compareValues(field reflect.Value, op Operation, condValue any) bool {
	if condValue == nil {
		// Field was reachable and non-nil, so IS NULL fails and
		// IS NOT NULL holds; any comparison against NULL is unknown.
		return op == NotEqual
	}

	switch op {
	case Equal:
		return equalValues(field, condValue)
	case NotEqual:
		return !equalValues(field, condValue)
	case GreaterThan, GreaterThanOrEqual, LessThan, LessThanOrEqual:
		return orderedCompare(field, op, condValue)
	case Contains:
		return textMatch(field, condValue, strings.Contains)
	case NotContains:
		return !textMatch(field, condValue, strings.Contains)
	case StartsWith:
		return textMatch(field, condValue, strings.HasPrefix)
	case EndsWith:
		return textMatch(field, condValue, strings.HasSuffix)
	case In:
		return inSet(field, condValue)
	case NotIn:
		return !inSet(field, condValue)
	default:
		return false
	}
}

func equalValues(field reflect.Value, condValue any) bool {
	if f, ok := asFloat(field); ok {
		if c, ok := asFloat(reflect.ValueOf(condValue)); ok {
			return f == c
		}
		return false
	}
	if ft, ok := asTime(field.Interface()); ok {
		if ct, ok := asTime(condValue); ok {
			return ft.Equal(ct)
		}
		return false
	}
	return field.Interface() == condValue || looseStringEqual(field, condValue)
}

// looseStringEqual lets a plain string filter value match a string-backed
// named type such as an enum member.
func looseStringEqual(field reflect.Value, condValue any) bool {
	if field.Kind() != reflect.String {
		return false
	}
	cv := reflect.ValueOf(condValue)
	if cv.Kind() != reflect.String {
		return false
	}
	return field.String() == cv.String()
}

func orderedCompare(field reflect.Value, op Operation, condValue any) bool {
	if ft, ok := asTime(field.Interface()); ok {
		ct, ok := asTime(condValue)
		if !ok {
			return false
		}
		return orderingHolds(op, compareTimes(ft, ct))
	}
	if f, ok := asFloat(field); ok {
		c, ok := asFloat(reflect.ValueOf(condValue))
		if !ok {
			return false
		}
		return orderingHolds(op, compareFloats(f, c))
	}
	if field.Kind() == reflect.String {
		cv := reflect.ValueOf(condValue)
		if cv.Kind() != reflect.String {
			return false
		}
		return orderingHolds(op, strings.Compare(field.String(), cv.String()))
	}
	return false
}

func orderingHolds(op Operation, cmp int) bool {
	switch op {
	case GreaterThan:
		return cmp > 0
	case GreaterThanOrEqual:
		return cmp >= 0
	case LessThan:
		return cmp < 0
	case LessThanOrEqual:
		return cmp <= 0
	default:
		return false
	}
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// textMatch mirrors the case-insensitive ILIKE rendering of the SQL view.
func textMatch(field reflect.Value, condValue any, fn func(string, string) bool) bool {
	if field.Kind() != reflect.String {
		return false
	}
	cv := reflect.ValueOf(condValue)
	if cv.Kind() != reflect.String {
		return false
	}
	return fn(strings.ToLower(field.String()), strings.ToLower(cv.String()))
}

func inSet(field reflect.Value, condValue any) bool {
	set := reflect.ValueOf(condValue)
	if set.Kind() != reflect.Slice && set.Kind() != reflect.Array {
		return false
	}
	for i := 0; i < set.Len(); i++ {
		elem := set.Index(i)
		if elem.Kind() == reflect.Interface {
			elem = elem.Elem()
		}
		if equalValues(field, elem.Interface()) {
			return true
		}
	}
	return false
}

func asFloat(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	default:
		return 0, false
	}
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	default:
		return time.Time{}, false
	}
}
