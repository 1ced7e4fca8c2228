package repository

import (
	"context"
	"errors"
	"iter"

	"github.com/google/uuid"

	"github.com/jmallet/catql/internal/domain"
	"github.com/jmallet/catql/internal/query"
)

// ErrNotFound is returned by lookups that require a match. Listing
// operations never return it; an empty result is an empty slice.
var ErrNotFound = errors.New("no matching record")

// ProductRepository executes specifications against the product store.
type ProductRepository interface {
	Create(ctx context.Context, product domain.Product) (domain.Product, error)
	CreateBatch(ctx context.Context, products []domain.Product) (int, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error)
	Update(ctx context.Context, product domain.Product) (domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// List applies the specification's filter, ordering, includes and
	// ambient-filter flag and returns every matching product.
	List(ctx context.Context, spec *query.Specification[domain.Product]) ([]domain.Product, error)
	// Page returns one window of matches. A non-positive limit means no
	// limit; a non-positive offset starts from the beginning.
	Page(ctx context.Context, spec *query.Specification[domain.Product], limit, offset int) ([]domain.Product, error)
	// First returns the first match under the specification's ordering,
	// or ErrNotFound when nothing matches.
	First(ctx context.Context, spec *query.Specification[domain.Product]) (domain.Product, error)
	// FirstOrNil returns nil instead of an error when nothing matches.
	FirstOrNil(ctx context.Context, spec *query.Specification[domain.Product]) (*domain.Product, error)
	Count(ctx context.Context, spec *query.Specification[domain.Product]) (int64, error)
	// Stream lazily enumerates matches page by page. The specification
	// must carry at least one ordering clause; without one paging is
	// non-deterministic and Stream fails with query.ErrMissingOrderBy.
	Stream(ctx context.Context, spec *query.Specification[domain.Product], pageSize int) (iter.Seq2[domain.Product, error], error)
}

// CategoryRepository defines the interface for category operations.
type CategoryRepository interface {
	Create(ctx context.Context, category domain.Category) (domain.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Category, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}
