// Package memory is a project store held in immutable radix trees.
//
// Each write commits new trees and publishes them atomically, so an
// iterator keeps reading the snapshot it was opened on while writers
// proceed.
package memory

import (
	"bytes"
	"context"
	"encoding/binary"
	"sync"
	"sync/atomic"

	iradix "github.com/hashicorp/go-immutable-radix"

	"github.com/ncobase/scanpage/config"
	"github.com/ncobase/scanpage/paging"
	"github.com/ncobase/scanpage/project"
	"github.com/ncobase/scanpage/store"
)

// DriverName is the store.driver value selecting this backend.
const DriverName = "memory"

// Store is an in-memory project.Store.
type Store struct {
	mu     sync.Mutex
	snap   atomic.Pointer[snapshot]
	closed atomic.Bool
}

// snapshot holds one index per ordering. Values are project.Project.
type snapshot struct {
	byName      *iradix.Tree
	byMtimeAsc  *iradix.Tree
	byMtimeDesc *iradix.Tree
}

var _ project.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	s := &Store{}
	s.snap.Store(&snapshot{
		byName:      iradix.New(),
		byMtimeAsc:  iradix.New(),
		byMtimeDesc: iradix.New(),
	})
	return s
}

// Len returns the number of stored projects.
func (s *Store) Len() int {
	return s.snap.Load().byName.Len()
}

// Put inserts or replaces projects by name.
func (s *Store) Put(ctx context.Context, projects ...*project.Project) error {
	if s.closed.Load() {
		return store.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := project.Validate(projects); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.snap.Load()
	names := cur.byName.Txn()
	asc := cur.byMtimeAsc.Txn()
	desc := cur.byMtimeDesc.Txn()

	for _, p := range projects {
		if p == nil {
			continue
		}
		v := project.Project{Name: p.Name, Mtime: p.Mtime.UTC()}
		if old, ok := names.Get([]byte(v.Name)); ok {
			prev := old.(project.Project).Key()
			asc.Delete(ascKey(prev))
			desc.Delete(descKey(prev))
		}
		names.Insert([]byte(v.Name), v)
		asc.Insert(ascKey(v.Key()), v)
		desc.Insert(descKey(v.Key()), v)
	}

	s.snap.Store(&snapshot{
		byName:      names.Commit(),
		byMtimeAsc:  asc.Commit(),
		byMtimeDesc: desc.Commit(),
	})
	return nil
}

// Close drops the data; later calls fail with store.ErrClosed.
func (s *Store) Close() error {
	s.closed.Store(true)
	return nil
}

func (s *Store) ByName(ctx context.Context, order paging.Order) (paging.Iterator[*project.Project], error) {
	return s.scan(ctx, order, nil, false)
}

func (s *Store) ByNameAfter(ctx context.Context, order paging.Order, name string) (paging.Iterator[*project.Project], error) {
	return s.scan(ctx, order, []byte(name), true)
}

// ByMtime walks the tree matching order forwards; descending mtime keeps
// names ascending, so it has its own index rather than a reverse walk.
func (s *Store) ByMtime(ctx context.Context, order paging.Order) (paging.Iterator[*project.Project], error) {
	if err := s.check(ctx, order); err != nil {
		return nil, err
	}
	if order == paging.Descending {
		return forward(s.snap.Load().byMtimeDesc, nil, false), nil
	}
	return forward(s.snap.Load().byMtimeAsc, nil, false), nil
}

func (s *Store) ByMtimeAfter(ctx context.Context, order paging.Order, key project.MtimeKey) (paging.Iterator[*project.Project], error) {
	if err := s.check(ctx, order); err != nil {
		return nil, err
	}
	if order == paging.Descending {
		return forward(s.snap.Load().byMtimeDesc, descKey(key), true), nil
	}
	return forward(s.snap.Load().byMtimeAsc, ascKey(key), true), nil
}

func (s *Store) scan(ctx context.Context, order paging.Order, after []byte, seek bool) (paging.Iterator[*project.Project], error) {
	if err := s.check(ctx, order); err != nil {
		return nil, err
	}
	t := s.snap.Load().byName
	if order == paging.Descending {
		return backward(t, after, seek), nil
	}
	return forward(t, after, seek), nil
}

func (s *Store) check(ctx context.Context, order paging.Order) error {
	if s.closed.Load() {
		return store.ErrClosed
	}
	if !order.Valid() {
		return paging.ErrUnsupportedMode
	}
	return ctx.Err()
}

// forward iterates t in key order, starting strictly after the key after
// when seek is set.
func forward(t *iradix.Tree, after []byte, seek bool) paging.Iterator[*project.Project] {
	it := t.Root().Iterator()
	if seek {
		it.SeekLowerBound(after)
	}
	return paging.IteratorFunc[*project.Project](func(ctx context.Context) (*project.Project, bool, error) {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		for {
			k, v, ok := it.Next()
			if !ok {
				return nil, false, nil
			}
			if seek && bytes.Equal(k, after) {
				continue
			}
			p := v.(project.Project)
			return &p, true, nil
		}
	})
}

// backward iterates t in reverse key order, starting strictly before the
// key after when seek is set.
func backward(t *iradix.Tree, after []byte, seek bool) paging.Iterator[*project.Project] {
	it := t.Root().ReverseIterator()
	if seek {
		it.SeekReverseLowerBound(after)
	}
	return paging.IteratorFunc[*project.Project](func(ctx context.Context) (*project.Project, bool, error) {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		for {
			k, v, ok := it.Previous()
			if !ok {
				return nil, false, nil
			}
			if seek && bytes.Equal(k, after) {
				continue
			}
			p := v.(project.Project)
			return &p, true, nil
		}
	})
}

// ascKey orders by mtime ascending, then name ascending. Flipping the sign
// bit makes the big-endian bytes of signed nanoseconds sort numerically.
func ascKey(k project.MtimeKey) []byte {
	return mtimeKey(uint64(k.Mtime.UnixNano())^(1<<63), k.Name)
}

// descKey orders by mtime descending, then name ascending.
func descKey(k project.MtimeKey) []byte {
	return mtimeKey(^(uint64(k.Mtime.UnixNano()) ^ (1 << 63)), k.Name)
}

func mtimeKey(prefix uint64, name string) []byte {
	b := make([]byte, 8, 8+len(name))
	binary.BigEndian.PutUint64(b, prefix)
	return append(b, name...)
}

type driver struct{}

func (driver) Name() string { return DriverName }

func (driver) Open(context.Context, *config.Store) (project.Store, error) {
	return New(), nil
}

func init() {
	store.Register(driver{})
}
