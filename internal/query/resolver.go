package query

import (
	"reflect"
	"strings"
)

// ResolvedPath is the outcome of resolving a dotted property path against an
// entity type: the declared member names segment by segment, the matching SQL
// column path, and the terminal member descriptor.
type ResolvedPath struct {
	Segments []string
	Columns  []string
	Terminal Member
}

// ColumnRef renders the SQL reference for the terminal column. Navigation
// segments become the table alias, so "Category.Name" on Product renders as
// "category.name" while a plain "Price" renders bare.
func (p ResolvedPath) ColumnRef() string {
	return strings.Join(p.Columns, ".")
}

// Qualified returns a copy whose column reference is unambiguous inside a
// joined query: root-level columns gain the root table alias, while
// navigation columns already carry their join alias. Deeper paths keep only
// the terminal alias and column, matching how nested joins are aliased.
func (p ResolvedPath) Qualified(rootAlias string) ResolvedPath {
	q := p
	switch {
	case len(p.Columns) == 1:
		q.Columns = []string{rootAlias, p.Columns[0]}
	case len(p.Columns) > 2:
		q.Columns = p.Columns[len(p.Columns)-2:]
	}
	return q
}

// Navigations returns the navigation member names traversed before the
// terminal segment, in order.
func (p ResolvedPath) Navigations() []string {
	if len(p.Segments) <= 1 {
		return nil
	}
	return p.Segments[:len(p.Segments)-1]
}

// Resolve walks a dotted property path against the member index of root.
// Each segment is matched case-insensitively, tolerating camelCase,
// PascalCase, snake_case and kebab-case spellings. Resolution failure is a
// soft outcome: the second return is false and the caller drops the
// condition rather than treating it as an error.
func Resolve(root reflect.Type, path string) (ResolvedPath, bool) {
	if root == nil || strings.TrimSpace(path) == "" {
		return ResolvedPath{}, false
	}

	segments := strings.Split(path, ".")
	resolved := ResolvedPath{
		Segments: make([]string, 0, len(segments)),
		Columns:  make([]string, 0, len(segments)),
	}

	current := root
	for i, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			return ResolvedPath{}, false
		}

		member, ok := indexOf(current).members[normalizeName(segment)]
		if !ok {
			return ResolvedPath{}, false
		}

		last := i == len(segments)-1
		if !last {
			// Intermediate segments must be traversable navigations.
			if !member.Navigation {
				return ResolvedPath{}, false
			}
			current = member.Elem
			resolved.Segments = append(resolved.Segments, member.Name)
			resolved.Columns = append(resolved.Columns, snakeCase(member.Name))
			continue
		}

		resolved.Segments = append(resolved.Segments, member.Name)
		resolved.Columns = append(resolved.Columns, member.Column)
		resolved.Terminal = member
	}

	return resolved, true
}
