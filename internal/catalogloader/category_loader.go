package catalogloader

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader"

	"github.com/jmallet/catql/internal/domain"
)

// CategoryFetcher is the slice of a category repository the loader needs.
type CategoryFetcher interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Category, error)
}

// CategoryLoader batches category lookups so hydrating includes across a
// page of products costs one query instead of one per product.
type CategoryLoader struct {
	Loader *dataloader.Loader
}

// NewCategoryLoader builds a batched loader over the fetcher.
func NewCategoryLoader(fetcher CategoryFetcher) *CategoryLoader {
	batchFn := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		ids := make([]uuid.UUID, len(keys))
		for i, k := range keys {
			id, err := uuid.Parse(k.String())
			if err != nil {
				return []*dataloader.Result{{Error: fmt.Errorf("invalid UUID: %w", err)}}
			}
			ids[i] = id
		}

		categories, err := fetcher.GetByIDs(ctx, ids)
		if err != nil {
			results := make([]*dataloader.Result, len(keys))
			for i := range results {
				results[i] = &dataloader.Result{Error: err}
			}
			return results
		}

		byID := make(map[uuid.UUID]domain.Category, len(categories))
		for _, c := range categories {
			byID[c.ID] = c
		}

		results := make([]*dataloader.Result, len(keys))
		for i, id := range ids {
			if c, ok := byID[id]; ok {
				results[i] = &dataloader.Result{Data: c}
			} else {
				results[i] = &dataloader.Result{Data: nil}
			}
		}
		return results
	}

	loader := dataloader.NewBatchedLoader(batchFn, dataloader.WithWait(5*time.Millisecond))

	return &CategoryLoader{Loader: loader}
}

// Load resolves one category through the batch window. A missing category
// returns ok=false rather than an error.
func (l *CategoryLoader) Load(ctx context.Context, id uuid.UUID) (domain.Category, bool, error) {
	thunk := l.Loader.Load(ctx, dataloader.StringKey(id.String()))
	data, err := thunk()
	if err != nil {
		return domain.Category{}, false, err
	}
	category, ok := data.(domain.Category)
	return category, ok, nil
}

type ctxKey string

const loaderKey ctxKey = "categoryLoader"

// WithContext attaches a loader to the request context.
func WithContext(ctx context.Context, loader *CategoryLoader) context.Context {
	return context.WithValue(ctx, loaderKey, loader)
}

// FromContext retrieves the request-scoped loader, or nil when none is set.
func FromContext(ctx context.Context) *CategoryLoader {
	if l, ok := ctx.Value(loaderKey).(*CategoryLoader); ok {
		return l
	}
	return nil
}
