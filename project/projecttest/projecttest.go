// Package projecttest holds the behaviour every project.Store must show,
// as a test suite that store packages run against their own backend.
package projecttest

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncobase/scanpage/paging"
	"github.com/ncobase/scanpage/project"
)

// NewStoreFunc returns an empty store; the suite closes it.
type NewStoreFunc func(t *testing.T) project.Store

// Run runs the accessor and pagination suite against stores from newStore.
func Run(t *testing.T, newStore NewStoreFunc) {
	t.Run("Accessor", func(t *testing.T) { testAccessor(t, newStore) })
	t.Run("Put", func(t *testing.T) { testPut(t, newStore) })
	t.Run("Pagination", func(t *testing.T) { testPagination(t, newStore) })
	t.Run("TwelveProjects", func(t *testing.T) { testTwelveProjects(t, newStore) })
	t.Run("Ties", func(t *testing.T) { testTies(t, newStore) })
	t.Run("MtimeRange", func(t *testing.T) { testMtimeRange(t, newStore) })
}

func open(t *testing.T, newStore NewStoreFunc, projects []*project.Project) project.Store {
	t.Helper()
	s := newStore(t)
	t.Cleanup(func() { _ = s.Close() })
	if len(projects) > 0 {
		require.NoError(t, s.Put(context.Background(), projects...))
	}
	return s
}

// Names returns the names of projects.
func Names(projects []*project.Project) []string {
	out := make([]string, len(projects))
	for i, p := range projects {
		out[i] = p.Name
	}
	return out
}

// Collect drains it.
func Collect(t *testing.T, it paging.Iterator[*project.Project], err error) []*project.Project {
	t.Helper()
	require.NoError(t, err)
	defer func() { assert.NoError(t, it.Close()) }()

	var out []*project.Project
	for {
		p, ok, err := it.Next(context.Background())
		require.NoError(t, err)
		if !ok {
			return out
		}
		out = append(out, p)
	}
}

// Sorted returns projects ordered as mode lists them.
func Sorted(projects []*project.Project, mode project.ScanMode) []*project.Project {
	out := append([]*project.Project(nil), projects...)
	sort.Slice(out, func(i, j int) bool {
		switch mode {
		case project.ByNameDescending:
			return out[i].Name > out[j].Name
		case project.ByMtimeDescending:
			return project.MtimeLess(paging.Descending, out[i].Key(), out[j].Key())
		default:
			return out[i].Name < out[j].Name
		}
	})
	return out
}

func mixedProjects() []*project.Project {
	base := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	return []*project.Project{
		project.New("beta", base),
		project.New("alpha", base.Add(time.Second)),
		project.New("gamma", base),
		project.New("al", base.Add(-time.Hour)),
		project.New("alphabet", base.Add(time.Second)),
		project.New("Zulu", base.Add(2*time.Second)),
		project.New("", base.Add(-2*time.Hour)),
		project.New("delta", time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
}

func testAccessor(t *testing.T, newStore NewStoreFunc) {
	ctx := context.Background()
	projects := mixedProjects()
	s := open(t, newStore, projects)

	byNameAsc := Names(Sorted(projects, project.ByNameAscending))
	byNameDesc := Names(Sorted(projects, project.ByNameDescending))
	byMtimeDesc := Names(Sorted(projects, project.ByMtimeDescending))
	byMtimeAsc := append([]*project.Project(nil), projects...)
	sort.Slice(byMtimeAsc, func(i, j int) bool {
		return project.MtimeLess(paging.Ascending, byMtimeAsc[i].Key(), byMtimeAsc[j].Key())
	})

	it, err := s.ByName(ctx, paging.Ascending)
	assert.Equal(t, byNameAsc, Names(Collect(t, it, err)))

	it, err = s.ByName(ctx, paging.Descending)
	assert.Equal(t, byNameDesc, Names(Collect(t, it, err)))

	it, err = s.ByMtime(ctx, paging.Descending)
	assert.Equal(t, byMtimeDesc, Names(Collect(t, it, err)))

	it, err = s.ByMtime(ctx, paging.Ascending)
	assert.Equal(t, Names(byMtimeAsc), Names(Collect(t, it, err)))

	// strictly after an existing key
	it, err = s.ByNameAfter(ctx, paging.Ascending, "alpha")
	assert.Equal(t, []string{"alphabet", "beta", "delta", "gamma"}, Names(Collect(t, it, err)))

	it, err = s.ByNameAfter(ctx, paging.Descending, "alpha")
	assert.Equal(t, []string{"al", "Zulu", ""}, Names(Collect(t, it, err)))

	// strictly after a key that is not stored
	it, err = s.ByNameAfter(ctx, paging.Ascending, "c")
	assert.Equal(t, []string{"delta", "gamma"}, Names(Collect(t, it, err)))

	it, err = s.ByNameAfter(ctx, paging.Descending, "alp")
	assert.Equal(t, []string{"al", "Zulu", ""}, Names(Collect(t, it, err)))

	// past either end
	it, err = s.ByNameAfter(ctx, paging.Ascending, "zzz")
	assert.Empty(t, Collect(t, it, err))

	it, err = s.ByNameAfter(ctx, paging.Descending, "")
	assert.Empty(t, Collect(t, it, err))

	for i, p := range Sorted(projects, project.ByMtimeDescending) {
		it, err := s.ByMtimeAfter(ctx, paging.Descending, p.Key())
		assert.Equal(t, byMtimeDesc[i+1:], Names(Collect(t, it, err)), "after %s", p.Name)
	}
	for i, p := range byMtimeAsc {
		it, err := s.ByMtimeAfter(ctx, paging.Ascending, p.Key())
		assert.Equal(t, Names(byMtimeAsc[i+1:]), Names(Collect(t, it, err)), "after %s", p.Name)
	}

	// items carry their mtime
	it, err = s.ByNameAfter(ctx, paging.Ascending, "gamm")
	got := Collect(t, it, err)
	require.Len(t, got, 1)
	assert.Equal(t, "gamma", got[0].Name)
	assert.True(t, got[0].Mtime.Equal(projects[2].Mtime))
}

func testPut(t *testing.T, newStore NewStoreFunc) {
	ctx := context.Background()
	base := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	s := open(t, newStore, []*project.Project{
		project.New("a", base),
		project.New("b", base.Add(time.Minute)),
	})

	// replacing a project moves it in the mtime ordering
	require.NoError(t, s.Put(ctx, project.New("a", base.Add(time.Hour))))

	it, err := s.ByMtime(ctx, paging.Descending)
	got := Collect(t, it, err)
	assert.Equal(t, []string{"a", "b"}, Names(got))
	assert.True(t, got[0].Mtime.Equal(base.Add(time.Hour)))

	it, err = s.ByName(ctx, paging.Ascending)
	assert.Equal(t, []string{"a", "b"}, Names(Collect(t, it, err)))
}

func testPagination(t *testing.T, newStore NewStoreFunc) {
	ctx := context.Background()
	projects := project.Seed(57, project.DefaultSeedStart, 4)
	s := open(t, newStore, projects)
	e := project.NewEngine(s, paging.DefaultLimits())

	for _, mode := range project.ScanModes() {
		want := Names(Sorted(projects, mode))
		for _, limit := range []int{1, 4, 5, 56, 57, 58} {
			t.Run(fmt.Sprintf("%s/%d", mode, limit), func(t *testing.T) {
				page, err := e.List(ctx, paging.Params{Mode: string(mode), Limit: limit})
				require.NoError(t, err)
				assert.Equal(t, mode, page.Mode)

				got := Names(page.Items)
				for guard := 0; page.HasNextPage(); guard++ {
					require.Less(t, guard, len(projects)+1)
					assert.Len(t, page.Items, limit)
					page, err = e.List(ctx, paging.Params{Token: page.NextToken, Limit: limit})
					require.NoError(t, err)
					assert.Equal(t, mode, page.Mode)
					got = append(got, Names(page.Items)...)
				}
				assert.Equal(t, want, got)
			})
		}
	}
}

func testTwelveProjects(t *testing.T, newStore NewStoreFunc) {
	ctx := context.Background()
	s := open(t, newStore, project.Seed(12, project.DefaultSeedStart, 5))
	e := project.NewEngine(s, paging.DefaultLimits())

	page, err := e.List(ctx, paging.Params{Mode: string(project.ByNameAscending), Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"project001", "project002", "project003", "project004", "project005"}, Names(page.Items))
	require.True(t, page.HasNextPage())

	page, err = e.List(ctx, paging.Params{Token: page.NextToken})
	require.NoError(t, err)
	assert.Equal(t, []string{"project006", "project007", "project008", "project009", "project010"}, Names(page.Items))
	require.True(t, page.HasNextPage())

	page, err = e.List(ctx, paging.Params{Token: page.NextToken, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"project011", "project012"}, Names(page.Items))
	assert.False(t, page.HasNextPage())

	implicit, err := e.List(ctx, paging.Params{Limit: 5})
	require.NoError(t, err)
	explicit, err := e.List(ctx, paging.Params{Mode: string(project.DefaultScanMode), Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, explicit.Mode, implicit.Mode)
	assert.Equal(t, Names(explicit.Items), Names(implicit.Items))
	assert.Equal(t, explicit.NextToken, implicit.NextToken)
}

func testTies(t *testing.T, newStore NewStoreFunc) {
	ctx := context.Background()
	at := time.Date(2020, 7, 13, 17, 35, 0, 0, time.UTC)
	s := open(t, newStore, []*project.Project{
		project.New("d", at),
		project.New("b", at),
		project.New("e", at.Add(time.Second)),
		project.New("a", at),
		project.New("c", at.Add(-time.Second)),
	})
	e := project.NewEngine(s, paging.DefaultLimits())

	page, err := e.List(ctx, paging.Params{Mode: string(project.ByMtimeDescending), Limit: 1})
	require.NoError(t, err)
	got := Names(page.Items)
	for page.HasNextPage() {
		page, err = e.List(ctx, paging.Params{Token: page.NextToken, Limit: 1})
		require.NoError(t, err)
		got = append(got, Names(page.Items)...)
	}
	assert.Equal(t, []string{"e", "a", "b", "d", "c"}, got)
}

// testMtimeRange pages through the extreme representable mtimes one item at
// a time and checks that unrepresentable ones are rejected without a
// partial write.
func testMtimeRange(t *testing.T, newStore NewStoreFunc) {
	ctx := context.Background()
	s := open(t, newStore, []*project.Project{
		project.New("a", project.MaxMtime),
		project.New("b", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)),
		project.New("c", project.MinMtime),
	})

	engine := project.NewEngine(s, paging.Limits{Default: 1, Max: 1})
	var names []string
	params := paging.Params{Mode: string(project.ByMtimeDescending)}
	for {
		page, err := engine.List(ctx, params)
		require.NoError(t, err)
		names = append(names, Names(page.Items)...)
		if !page.HasNextPage() {
			break
		}
		params = paging.Params{Token: page.NextToken}
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)

	err := s.Put(ctx,
		project.New("d", time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)),
		project.New("e", time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC)),
	)
	require.ErrorIs(t, err, project.ErrMtimeRange)

	it, err := s.ByName(ctx, paging.Ascending)
	assert.Equal(t, []string{"a", "b", "c"}, Names(Collect(t, it, err)))
}
