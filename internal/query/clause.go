package query

import (
	"fmt"
	"strings"
)

// Clause is one rendered boolean sub-expression plus the values bound to its
// positional parameters. Values never appear in the clause text itself; they
// always travel as parameters, whatever their content.
type Clause struct {
	Text string
	Args []any
}

// BuildClause renders a single (path, operation, value) triple as a SQL
// sub-expression. Parameters are numbered from index; the returned int is
// the next free parameter slot. A nil value with Equal or NotEqual renders
// as an IS NULL / IS NOT NULL test; with a pattern operation it renders as
// FALSE. Neither form consumes a slot.
func BuildClause(path ResolvedPath, op Operation, value any, index int) (Clause, int, error) {
	column := path.ColumnRef()

	if value == nil {
		switch op {
		case Equal:
			return Clause{Text: column + " IS NULL"}, index, nil
		case NotEqual:
			return Clause{Text: column + " IS NOT NULL"}, index, nil
		case Contains, NotContains, StartsWith, EndsWith:
			// Pattern matching against NULL is unknown in SQL; no row
			// satisfies it, and the in-memory view agrees.
			return Clause{Text: "FALSE"}, index, nil
		}
	}

	placeholder := fmt.Sprintf("$%d", index)

	switch op {
	case Equal:
		return Clause{Text: fmt.Sprintf("%s = %s", column, placeholder), Args: []any{value}}, index + 1, nil
	case NotEqual:
		return Clause{Text: fmt.Sprintf("%s <> %s", column, placeholder), Args: []any{value}}, index + 1, nil
	case GreaterThan:
		return Clause{Text: fmt.Sprintf("%s > %s", column, placeholder), Args: []any{value}}, index + 1, nil
	case GreaterThanOrEqual:
		return Clause{Text: fmt.Sprintf("%s >= %s", column, placeholder), Args: []any{value}}, index + 1, nil
	case LessThan:
		return Clause{Text: fmt.Sprintf("%s < %s", column, placeholder), Args: []any{value}}, index + 1, nil
	case LessThanOrEqual:
		return Clause{Text: fmt.Sprintf("%s <= %s", column, placeholder), Args: []any{value}}, index + 1, nil
	case Contains:
		return patternClause(column, placeholder, "ILIKE", "%"+escapeLike(value)+"%", index)
	case NotContains:
		return patternClause(column, placeholder, "NOT ILIKE", "%"+escapeLike(value)+"%", index)
	case StartsWith:
		return patternClause(column, placeholder, "ILIKE", escapeLike(value)+"%", index)
	case EndsWith:
		return patternClause(column, placeholder, "ILIKE", "%"+escapeLike(value), index)
	case In:
		return Clause{Text: fmt.Sprintf("%s = ANY(%s)", column, placeholder), Args: []any{value}}, index + 1, nil
	case NotIn:
		return Clause{Text: fmt.Sprintf("%s <> ALL(%s)", column, placeholder), Args: []any{value}}, index + 1, nil
	default:
		return Clause{}, index, fmt.Errorf("%w: %q", ErrUnsupportedOperation, op)
	}
}

func patternClause(column, placeholder, operator, pattern string, index int) (Clause, int, error) {
	return Clause{
		Text: fmt.Sprintf("%s %s %s", column, operator, placeholder),
		Args: []any{pattern},
	}, index + 1, nil
}

// escapeLike neutralizes LIKE metacharacters in the bound pattern so a
// filter value containing % or _ matches literally.
func escapeLike(value any) string {
	s := fmt.Sprint(value)
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
