package query

import (
	"context"
	"iter"
)

// PageFetcher retrieves one page of an ordered result set. The source must
// be deterministically ordered or pages will overlap between fetches.
type PageFetcher[T any] func(ctx context.Context, limit, offset int) ([]T, error)

// EnumeratePages lazily walks an ordered source one page at a time, yielding
// items individually so a large result set never sits in memory at once. The
// sequence ends when a fetch comes back short or empty. Each returned
// sequence is restartable: ranging over it again re-executes from the first
// page rather than resuming.
//
// Cancellation is cooperative: the context is checked before every page
// fetch and before every yielded item. Items already yielded stay with the
// caller; the cancellation error is yielded once and the sequence stops.
func EnumeratePages[T any](ctx context.Context, fetch PageFetcher[T], pageSize int) (iter.Seq2[T, error], error) {
	if pageSize <= 0 {
		return nil, ErrInvalidPageSize
	}

	return func(yield func(T, error) bool) {
		var zero T
		offset := 0
		for {
			if err := ctx.Err(); err != nil {
				yield(zero, err)
				return
			}

			page, err := fetch(ctx, pageSize, offset)
			if err != nil {
				yield(zero, err)
				return
			}
			if len(page) == 0 {
				return
			}

			for _, item := range page {
				if err := ctx.Err(); err != nil {
					yield(zero, err)
					return
				}
				if !yield(item, nil) {
					return
				}
			}

			if len(page) < pageSize {
				return
			}
			offset += pageSize
		}
	}, nil
}
