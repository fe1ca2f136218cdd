package paging

import (
	"context"
	"errors"
	"fmt"
)

// Registry is the mode bookkeeping of a paginated resource.
type Registry[M any, S any, T any] interface {
	// ResolveMode maps a requested mode name to a mode; the empty name
	// selects the default mode.
	ResolveMode(name string) (M, error)
	// ModeOf derives the mode a decoded selector belongs to.
	ModeOf(selector S) (M, error)
	// SelectorFor builds the selector resuming mode right after last.
	SelectorFor(last T, mode M) (S, error)
}

// Source opens ordered iterators over a resource.
type Source[M any, S any, T any] interface {
	// Scan iterates the whole collection in mode's order.
	Scan(ctx context.Context, mode M) (Iterator[T], error)
	// ScanAfter iterates in the selector's order, starting strictly after
	// the selector's key tuple.
	ScanAfter(ctx context.Context, selector S) (Iterator[T], error)
}

// Resource is a collection that can be paginated.
type Resource[M any, S any, T any] interface {
	Registry[M, S, T]
	Source[M, S, T]
}

// Engine serves pages of a Resource.
type Engine[M any, S any, T any] struct {
	resource Resource[M, S, T]
	codec    Codec[S]
	limits   Limits
}

// NewEngine creates a pagination engine.
func NewEngine[M any, S any, T any](resource Resource[M, S, T], codec Codec[S], limits Limits) *Engine[M, S, T] {
	return &Engine[M, S, T]{
		resource: resource,
		codec:    codec,
		limits:   limits.normalize(),
	}
}

// Limits returns the engine's page size bounds.
func (e *Engine[M, S, T]) Limits() Limits {
	return e.limits
}

// List returns one page. It never returns a partial page alongside an
// error.
func (e *Engine[M, S, T]) List(ctx context.Context, params Params) (*Result[M, T], error) {
	limit := e.limits.Clamp(params.Limit)

	mode, it, err := e.open(ctx, params)
	if err != nil {
		return nil, err
	}

	items, more, err := Take(ctx, it, limit)
	if cerr := it.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("failed to close iterator: %w", cerr)
	}
	if err != nil {
		return nil, err
	}

	result := &Result[M, T]{Mode: mode, Items: items}
	if !more {
		return result, nil
	}

	selector, err := e.resource.SelectorFor(items[len(items)-1], mode)
	if err != nil {
		return nil, err
	}
	token, err := e.codec.Encode(selector)
	if err != nil {
		return nil, err
	}
	result.NextToken = token
	return result, nil
}

// open resolves the effective mode and opens exactly one iterator.
func (e *Engine[M, S, T]) open(ctx context.Context, params Params) (M, Iterator[T], error) {
	var zero M

	if params.IsFirstPage() {
		mode, err := e.resource.ResolveMode(params.Mode)
		if err != nil {
			return zero, nil, err
		}
		it, err := e.resource.Scan(ctx, mode)
		if err != nil {
			return zero, nil, err
		}
		return mode, it, nil
	}

	selector, err := e.codec.Decode(params.Token)
	if err != nil {
		if !errors.Is(err, ErrMalformedToken) {
			err = fmt.Errorf("%w: %v", ErrMalformedToken, err)
		}
		return zero, nil, err
	}
	mode, err := e.resource.ModeOf(selector)
	if err != nil {
		return zero, nil, err
	}
	it, err := e.resource.ScanAfter(ctx, selector)
	if err != nil {
		return zero, nil, err
	}
	return mode, it, nil
}
