package store

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ncobase/scanpage/logging/observes"
	"github.com/ncobase/scanpage/paging"
)

// DefaultBatchSize is the number of rows fetched per round trip by
// batched iterators.
const DefaultBatchSize = 64

// FetchFunc returns up to n items in scan order, starting strictly after
// last, or from the beginning of the scan when last is nil.
type FetchFunc[T any] func(ctx context.Context, last *T, n int) ([]T, error)

// Batched returns an iterator that pulls items from fetch n at a time,
// resuming each batch after the last item of the previous one. A batch
// shorter than n ends the scan. Each round trip is traced as a store span.
func Batched[T any](n int, fetch FetchFunc[T]) paging.Iterator[T] {
	if n <= 0 {
		n = DefaultBatchSize
	}
	b := &batched[T]{n: n, fetch: fetch}
	return b
}

type batched[T any] struct {
	n       int
	fetch   FetchFunc[T]
	buf     []T
	pos     int
	last    *T
	started bool
	done    bool
	closed  bool
}

func (b *batched[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if b.closed {
		return zero, false, ErrClosed
	}
	for b.pos >= len(b.buf) {
		if b.done {
			return zero, false, nil
		}
		if err := ctx.Err(); err != nil {
			return zero, false, err
		}
		var after *T
		if b.started {
			after = b.last
		}
		items, err := b.fetchBatch(ctx, after)
		if err != nil {
			return zero, false, err
		}
		b.started = true
		b.buf, b.pos = items, 0
		if len(items) < b.n {
			b.done = true
		}
		if len(items) > 0 {
			last := items[len(items)-1]
			b.last = &last
		}
	}
	item := b.buf[b.pos]
	b.pos++
	return item, true, nil
}

func (b *batched[T]) fetchBatch(ctx context.Context, after *T) (items []T, err error) {
	ctx, span := observes.StartSpan(ctx, observes.LayerStore, "fetch",
		attribute.Int("batch_size", b.n),
		attribute.Bool("resumed", after != nil),
	)
	defer func() { span.End(err) }()

	items, err = b.fetch(ctx, after, b.n)
	span.SetAttributes(attribute.Int("rows", len(items)))
	return items, err
}

func (b *batched[T]) Close() error {
	b.closed = true
	b.buf = nil
	return nil
}
