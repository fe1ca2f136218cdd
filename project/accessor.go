package project

import (
	"context"

	"github.com/ncobase/scanpage/paging"
)

// Accessor provides ordered, boundary-aware iteration over projects.
//
// Name orderings compare names bytewise. Mtime orderings compare mtime in
// the requested direction and break ties by name ascending, in both
// directions. The *After methods start strictly after the given key and
// must be range seeks, not filtered full scans.
type Accessor interface {
	ByName(ctx context.Context, order paging.Order) (paging.Iterator[*Project], error)
	ByNameAfter(ctx context.Context, order paging.Order, name string) (paging.Iterator[*Project], error)
	ByMtime(ctx context.Context, order paging.Order) (paging.Iterator[*Project], error)
	ByMtimeAfter(ctx context.Context, order paging.Order, key MtimeKey) (paging.Iterator[*Project], error)
}

// Store is an Accessor that also owns the projects it serves.
type Store interface {
	Accessor
	// Put inserts or replaces projects by name.
	Put(ctx context.Context, projects ...*Project) error
	// Close releases the store's resources.
	Close() error
}

// MtimeLess reports whether a sorts before b in the mtime ordering with
// the given direction.
func MtimeLess(order paging.Order, a, b MtimeKey) bool {
	if !a.Mtime.Equal(b.Mtime) {
		if order == paging.Descending {
			return a.Mtime.After(b.Mtime)
		}
		return a.Mtime.Before(b.Mtime)
	}
	return a.Name < b.Name
}
