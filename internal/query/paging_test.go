package query

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func sliceFetcher(items []int) PageFetcher[int] {
	return func(_ context.Context, limit, offset int) ([]int, error) {
		if offset >= len(items) {
			return nil, nil
		}
		end := offset + limit
		if end > len(items) {
			end = len(items)
		}
		return items[offset:end], nil
	}
}

func sequential(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return items
}

func TestEnumeratePages_CompletenessAndOrder(t *testing.T) {
	items := sequential(20)

	for _, pageSize := range []int{1, 5, 25} {
		seq, err := EnumeratePages(context.Background(), sliceFetcher(items), pageSize)
		if err != nil {
			t.Fatalf("pageSize=%d: %v", pageSize, err)
		}

		var got []int
		for item, err := range seq {
			if err != nil {
				t.Fatalf("pageSize=%d: unexpected error: %v", pageSize, err)
			}
			got = append(got, item)
		}

		if len(got) != len(items) {
			t.Fatalf("pageSize=%d: yielded %d items, want %d", pageSize, len(got), len(items))
		}
		for i, item := range got {
			if item != i {
				t.Fatalf("pageSize=%d: item %d out of order or duplicated: %d", pageSize, i, item)
			}
		}
	}
}

func TestEnumeratePages_InvalidPageSize(t *testing.T) {
	for _, pageSize := range []int{0, -1} {
		if _, err := EnumeratePages(context.Background(), sliceFetcher(nil), pageSize); !errors.Is(err, ErrInvalidPageSize) {
			t.Fatalf("pageSize=%d: expected ErrInvalidPageSize, got %v", pageSize, err)
		}
	}
}

func TestEnumeratePages_CancellationAfterFirstItem(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	seq, err := EnumeratePages(ctx, sliceFetcher(sequential(20)), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var yielded []int
	var sawCancellation bool
	for item, err := range seq {
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				t.Fatalf("expected context.Canceled, got %v", err)
			}
			sawCancellation = true
			break
		}
		yielded = append(yielded, item)
		cancel()
	}

	if len(yielded) != 1 {
		t.Fatalf("expected exactly one item before cancellation, got %v", yielded)
	}
	if !sawCancellation {
		t.Fatalf("expected the cancellation signal to be yielded")
	}
}

func TestEnumeratePages_Restartable(t *testing.T) {
	fetches := 0
	fetch := func(ctx context.Context, limit, offset int) ([]int, error) {
		fetches++
		return sliceFetcher(sequential(7))(ctx, limit, offset)
	}

	seq, err := EnumeratePages(context.Background(), fetch, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count := func() int {
		n := 0
		for _, err := range seq {
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			n++
		}
		return n
	}

	if first := count(); first != 7 {
		t.Fatalf("first pass yielded %d items", first)
	}
	fetchesAfterFirst := fetches
	if second := count(); second != 7 {
		t.Fatalf("second pass yielded %d items; enumeration must restart, not resume", second)
	}
	if fetches <= fetchesAfterFirst {
		t.Fatalf("second pass did not re-execute fetches")
	}
}

func TestEnumeratePages_FetchErrorPropagates(t *testing.T) {
	boom := fmt.Errorf("connection reset")
	fetch := func(context.Context, int, int) ([]int, error) { return nil, boom }

	seq, err := EnumeratePages(context.Background(), fetch, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, err := range seq {
		if !errors.Is(err, boom) {
			t.Fatalf("expected fetch error, got %v", err)
		}
		return
	}
	t.Fatalf("expected the error to be yielded")
}

func TestEnumeratePages_OversizedPageDegradesToSingleFetch(t *testing.T) {
	fetches := 0
	fetch := func(ctx context.Context, limit, offset int) ([]int, error) {
		fetches++
		return sliceFetcher(sequential(4))(ctx, limit, offset)
	}

	seq, err := EnumeratePages(context.Background(), fetch, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := 0
	for _, err := range seq {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		n++
	}
	if n != 4 || fetches != 1 {
		t.Fatalf("expected one fetch yielding 4 items, got %d fetches and %d items", fetches, n)
	}
}
