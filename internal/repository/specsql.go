package repository

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/jmallet/catql/internal/domain"
	"github.com/jmallet/catql/internal/query"
)

// Root and navigation aliases match the snake-cased member names the
// predicate renderer emits, so a rendered clause like "category.name = $1"
// lines up with the join planned here.
const (
	productAlias  = "product"
	categoryAlias = "category"

	productColumns = "product.id, product.category_id, product.name, product.sku, product.description, " +
		"product.price, product.stock_quantity, product.is_active, product.status, product.visibility, " +
		"product.created_at, product.updated_at, product.deleted_at"

	productFrom = "FROM products AS product " +
		"LEFT JOIN categories AS category ON category.id = product.category_id"
)

var productType = reflect.TypeOf(domain.Product{})

// plannedQuery holds the translated parts of one specification: WHERE text,
// bound arguments, ORDER BY text, and the writer so later clauses (LIMIT,
// OFFSET) can keep binding parameters with contiguous indices.
type plannedQuery struct {
	where  string
	order  string
	writer *query.ClauseWriter
}

func (q *plannedQuery) args() []any { return q.writer.Args() }

// planProductQuery translates a specification into SQL parts. The ambient
// soft-delete filter scopes every query unless the specification opts out.
func planProductQuery(spec *query.Specification[domain.Product]) (*plannedQuery, error) {
	writer := query.NewClauseWriter(1).QualifyRoot(productAlias)

	var conjuncts []string
	if !spec.IgnoresAmbientFilters() {
		conjuncts = append(conjuncts, "product.deleted_at IS NULL")
	}
	if filter := spec.Filter(); filter != nil {
		clause, err := filter.Render(writer)
		if err != nil {
			return nil, fmt.Errorf("render filter predicate: %w", err)
		}
		conjuncts = append(conjuncts, clause)
	}

	where := ""
	if len(conjuncts) > 0 {
		where = "WHERE " + strings.Join(conjuncts, " AND ")
	}

	order, err := planOrderBy(spec.OrderBy())
	if err != nil {
		return nil, err
	}

	return &plannedQuery{where: where, order: order, writer: writer}, nil
}

func planOrderBy(clauses []query.OrderClause) (string, error) {
	if len(clauses) == 0 {
		return "", nil
	}

	orderings := make([]string, 0, len(clauses))
	for _, clause := range clauses {
		resolved, ok := query.Resolve(productType, clause.Path)
		if !ok {
			return "", fmt.Errorf("unknown order by path %q", clause.Path)
		}
		direction := "ASC"
		if clause.Descending {
			direction = "DESC"
		}
		column := resolved.Qualified(productAlias).ColumnRef()
		orderings = append(orderings, fmt.Sprintf("%s %s NULLS LAST", column, direction))
	}

	return "ORDER BY " + strings.Join(orderings, ", "), nil
}
