package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncobase/scanpage/config"
	"github.com/ncobase/scanpage/paging"
	"github.com/ncobase/scanpage/project"
	"github.com/ncobase/scanpage/project/projecttest"
	"github.com/ncobase/scanpage/store"
)

func TestStore(t *testing.T) {
	projecttest.Run(t, func(t *testing.T) project.Store { return New() })
}

func TestDriverRegistered(t *testing.T) {
	s, err := store.Open(context.Background(), &config.Store{Driver: DriverName})
	require.NoError(t, err)
	assert.IsType(t, &Store{}, s)
	assert.NoError(t, s.Close())
}

func TestMtimeKeysOrder(t *testing.T) {
	at := func(sec int64) project.MtimeKey {
		return project.MtimeKey{Mtime: time.Unix(sec, 0), Name: "x"}
	}
	keys := []project.MtimeKey{at(-100), at(-1), at(0), at(1), at(100)}
	for i := 1; i < len(keys); i++ {
		assert.Less(t, string(ascKey(keys[i-1])), string(ascKey(keys[i])))
		assert.Greater(t, string(descKey(keys[i-1])), string(descKey(keys[i])))
	}

	// names stay ascending within one mtime in both indexes
	a := project.MtimeKey{Mtime: time.Unix(5, 0), Name: "a"}
	b := project.MtimeKey{Mtime: time.Unix(5, 0), Name: "ab"}
	assert.Less(t, string(ascKey(a)), string(ascKey(b)))
	assert.Less(t, string(descKey(a)), string(descKey(b)))
}

func TestSnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Put(ctx, project.Seed(10, project.DefaultSeedStart, 0)...))

	it, err := s.ByName(ctx, paging.Ascending)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, project.New("project000", time.Now())))

	got := projecttest.Collect(t, it, nil)
	assert.Len(t, got, 10)
	assert.Equal(t, 11, s.Len())
}

func TestConcurrentReadsAndWrites(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Put(ctx, project.Seed(200, project.DefaultSeedStart, 10)...))
	e := project.NewEngine(s, paging.DefaultLimits())

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = s.Put(ctx, project.New(fmt.Sprintf("extra-%d-%d", w, i), time.Now()))
			}
		}(w)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, mode := range project.ScanModes() {
				page, err := e.List(ctx, paging.Params{Mode: string(mode), Limit: 20})
				if !assert.NoError(t, err) {
					return
				}
				for page.HasNextPage() {
					page, err = e.List(ctx, paging.Params{Token: page.NextToken, Limit: 20})
					if !assert.NoError(t, err) {
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 400, s.Len())
}

func TestClosed(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Close())

	_, err := s.ByName(ctx, paging.Ascending)
	assert.ErrorIs(t, err, store.ErrClosed)
	assert.ErrorIs(t, s.Put(ctx, project.New("a", time.Now())), store.ErrClosed)
}

func TestInvalidOrder(t *testing.T) {
	_, err := New().ByMtime(context.Background(), paging.Order("sideways"))
	assert.ErrorIs(t, err, paging.ErrUnsupportedMode)
}
