package paging

import "context"

// Iterator yields items of a scan in order. Next returns ok=false once the
// scan is exhausted. An iterator is used by a single goroutine and must be
// closed by whoever opened it.
type Iterator[T any] interface {
	Next(ctx context.Context) (item T, ok bool, err error)
	Close() error
}

// IteratorFunc adapts a plain function to an Iterator with a no-op Close.
type IteratorFunc[T any] func(ctx context.Context) (T, bool, error)

// Next calls f(ctx).
func (f IteratorFunc[T]) Next(ctx context.Context) (T, bool, error) {
	return f(ctx)
}

// Close does nothing.
func (f IteratorFunc[T]) Close() error { return nil }

// FromSlice returns an iterator over items.
func FromSlice[T any](items []T) Iterator[T] {
	i := 0
	return IteratorFunc[T](func(context.Context) (T, bool, error) {
		var zero T
		if i >= len(items) {
			return zero, false, nil
		}
		item := items[i]
		i++
		return item, true, nil
	})
}

// Empty returns an exhausted iterator.
func Empty[T any]() Iterator[T] {
	return FromSlice[T](nil)
}

// Take draws at most n items from it. more reports whether the iterator
// still had items after the n-th one, which costs one extra draw.
func Take[T any](ctx context.Context, it Iterator[T], n int) (items []T, more bool, err error) {
	items = make([]T, 0, n)
	for len(items) < n {
		item, ok, err := it.Next(ctx)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return items, false, nil
		}
		items = append(items, item)
	}

	_, more, err = it.Next(ctx)
	if err != nil {
		return nil, false, err
	}
	return items, more, nil
}
