package paging

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Rank int
	ID   string
}

type recordSelector struct {
	Kind  string `json:"k"`
	Order Order  `json:"o"`
	Rank  int    `json:"r"`
	ID    string `json:"i"`
}

// recordSet is a sorted-slice resource with two modes: "by-id" (ascending)
// and "by-rank" (rank descending, then id ascending).
type recordSet struct {
	byID   []record
	byRank []record
	closed int
	failAt int
}

func newRecordSet(records ...record) *recordSet {
	s := &recordSet{failAt: -1}
	s.byID = append(s.byID, records...)
	sort.Slice(s.byID, func(i, j int) bool { return s.byID[i].ID < s.byID[j].ID })
	s.byRank = append(s.byRank, records...)
	sort.Slice(s.byRank, func(i, j int) bool { return rankLess(s.byRank[i], s.byRank[j]) })
	return s
}

func rankLess(a, b record) bool {
	if a.Rank != b.Rank {
		return a.Rank > b.Rank
	}
	return a.ID < b.ID
}

func (s *recordSet) ResolveMode(name string) (string, error) {
	switch name {
	case "":
		return "by-id", nil
	case "by-id", "by-rank":
		return name, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedMode, name)
}

func (s *recordSet) ModeOf(sel recordSelector) (string, error) {
	switch {
	case sel.Kind == "id" && sel.Order == Ascending:
		return "by-id", nil
	case sel.Kind == "rank" && sel.Order == Descending:
		return "by-rank", nil
	}
	return "", fmt.Errorf("%w: %s/%s", ErrUnsupportedMode, sel.Kind, sel.Order)
}

func (s *recordSet) SelectorFor(last record, mode string) (recordSelector, error) {
	if mode == "by-rank" {
		return recordSelector{Kind: "rank", Order: Descending, Rank: last.Rank, ID: last.ID}, nil
	}
	return recordSelector{Kind: "id", Order: Ascending, ID: last.ID}, nil
}

func (s *recordSet) Scan(_ context.Context, mode string) (Iterator[record], error) {
	if mode == "by-rank" {
		return s.iter(s.byRank), nil
	}
	return s.iter(s.byID), nil
}

func (s *recordSet) ScanAfter(_ context.Context, sel recordSelector) (Iterator[record], error) {
	if sel.Kind == "rank" {
		bound := record{Rank: sel.Rank, ID: sel.ID}
		i := sort.Search(len(s.byRank), func(i int) bool { return rankLess(bound, s.byRank[i]) })
		return s.iter(s.byRank[i:]), nil
	}
	i := sort.Search(len(s.byID), func(i int) bool { return s.byID[i].ID > sel.ID })
	return s.iter(s.byID[i:]), nil
}

type closeCounter struct {
	Iterator[record]
	set *recordSet
}

func (c closeCounter) Close() error {
	c.set.closed++
	return c.Iterator.Close()
}

func (s *recordSet) iter(items []record) Iterator[record] {
	inner := FromSlice(items)
	drawn := 0
	return closeCounter{
		Iterator: IteratorFunc[record](func(ctx context.Context) (record, bool, error) {
			if s.failAt >= 0 && drawn == s.failAt {
				return record{}, false, errors.New("storage unavailable")
			}
			drawn++
			return inner.Next(ctx)
		}),
		set: s,
	}
}

type recordCodec struct{}

func (recordCodec) Encode(sel recordSelector) (string, error) { return EncodeToken(sel) }

func (recordCodec) Decode(token string) (recordSelector, error) {
	var sel recordSelector
	if err := DecodeToken(token, &sel); err != nil {
		return recordSelector{}, err
	}
	return sel, nil
}

func records(n int) []record {
	out := make([]record, 0, n)
	for i := 1; i <= n; i++ {
		// every third record shares its rank with the next one
		out = append(out, record{Rank: 100 - i + i/3, ID: fmt.Sprintf("r%03d", i)})
	}
	return out
}

func ids(items []record) []string {
	out := make([]string, len(items))
	for i, r := range items {
		out[i] = r.ID
	}
	return out
}

func drain(t *testing.T, e *Engine[string, recordSelector, record], mode string, limit int) []record {
	t.Helper()
	ctx := context.Background()

	page, err := e.List(ctx, Params{Mode: mode, Limit: limit})
	require.NoError(t, err)
	all := append([]record(nil), page.Items...)
	for guard := 0; page.HasNextPage(); guard++ {
		require.Less(t, guard, 1000, "scan does not terminate")
		page, err = e.List(ctx, Params{Token: page.NextToken, Limit: limit})
		require.NoError(t, err)
		all = append(all, page.Items...)
	}
	return all
}

func TestEngineNoDuplicatesNoGaps(t *testing.T) {
	set := newRecordSet(records(23)...)
	e := NewEngine[string, recordSelector, record](set, recordCodec{}, DefaultLimits())

	for _, mode := range []string{"by-id", "by-rank"} {
		want := set.byID
		if mode == "by-rank" {
			want = set.byRank
		}
		for _, limit := range []int{1, 2, 3, 5, 22, 23, 24, 100} {
			t.Run(fmt.Sprintf("%s/limit=%d", mode, limit), func(t *testing.T) {
				assert.Equal(t, ids(want), ids(drain(t, e, mode, limit)))
			})
		}
	}
}

func TestEngineDefaultMode(t *testing.T) {
	set := newRecordSet(records(8)...)
	e := NewEngine[string, recordSelector, record](set, recordCodec{}, DefaultLimits())
	ctx := context.Background()

	implicit, err := e.List(ctx, Params{})
	require.NoError(t, err)
	explicit, err := e.List(ctx, Params{Mode: "by-id"})
	require.NoError(t, err)

	assert.Equal(t, "by-id", implicit.Mode)
	assert.Equal(t, explicit, implicit)
	assert.Len(t, implicit.Items, DefaultLimit)
}

func TestEngineLimitClamping(t *testing.T) {
	set := newRecordSet(records(250)...)
	e := NewEngine[string, recordSelector, record](set, recordCodec{}, DefaultLimits())
	ctx := context.Background()

	tests := []struct {
		limit int
		want  int
	}{
		{limit: 0, want: DefaultLimit},
		{limit: -7, want: DefaultLimit},
		{limit: 1, want: 1},
		{limit: 100, want: 100},
		{limit: 101, want: MaxLimit},
		{limit: 1 << 30, want: MaxLimit},
	}
	for _, tt := range tests {
		page, err := e.List(ctx, Params{Limit: tt.limit})
		require.NoError(t, err)
		assert.Len(t, page.Items, tt.want, "limit %d", tt.limit)
		assert.True(t, page.HasNextPage())
	}
}

func TestEngineExhaustionMarker(t *testing.T) {
	ctx := context.Background()

	exact := NewEngine[string, recordSelector, record](newRecordSet(records(5)...), recordCodec{}, DefaultLimits())
	page, err := exact.List(ctx, Params{Limit: 5})
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
	assert.False(t, page.HasNextPage(), "collection ends exactly at the page boundary")

	plusOne := NewEngine[string, recordSelector, record](newRecordSet(records(6)...), recordCodec{}, DefaultLimits())
	page, err = plusOne.List(ctx, Params{Limit: 5})
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
	require.True(t, page.HasNextPage())

	page, err = plusOne.List(ctx, Params{Token: page.NextToken, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"r006"}, ids(page.Items))
	assert.False(t, page.HasNextPage())

	empty := NewEngine[string, recordSelector, record](newRecordSet(), recordCodec{}, DefaultLimits())
	page, err = empty.List(ctx, Params{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.False(t, page.HasNextPage())
}

func TestEngineErrors(t *testing.T) {
	set := newRecordSet(records(10)...)
	e := NewEngine[string, recordSelector, record](set, recordCodec{}, DefaultLimits())
	ctx := context.Background()

	_, err := e.List(ctx, Params{Mode: "by-colour"})
	assert.ErrorIs(t, err, ErrUnsupportedMode)

	_, err = e.List(ctx, Params{Token: "%%%not-base64"})
	assert.ErrorIs(t, err, ErrMalformedToken)

	token, err := EncodeToken(recordSelector{Kind: "rank", Order: Ascending, Rank: 3, ID: "r001"})
	require.NoError(t, err)
	_, err = e.List(ctx, Params{Token: token})
	assert.ErrorIs(t, err, ErrUnsupportedMode)
	assert.NotErrorIs(t, err, ErrMalformedToken)
}

func TestEngineNoPartialPageOnError(t *testing.T) {
	set := newRecordSet(records(10)...)
	set.failAt = 3
	e := NewEngine[string, recordSelector, record](set, recordCodec{}, DefaultLimits())

	page, err := e.List(context.Background(), Params{Limit: 5})
	assert.Error(t, err)
	assert.Nil(t, page)
	assert.Equal(t, 1, set.closed, "iterator must be closed on failure")
}

func TestEngineClosesIterator(t *testing.T) {
	set := newRecordSet(records(10)...)
	e := NewEngine[string, recordSelector, record](set, recordCodec{}, DefaultLimits())

	_, err := e.List(context.Background(), Params{Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, set.closed)
}
