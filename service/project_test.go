package service

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncobase/scanpage/logging/logger"
	"github.com/ncobase/scanpage/paging"
	"github.com/ncobase/scanpage/project"
	"github.com/ncobase/scanpage/store/memory"
)

func newTestService(t *testing.T, n int) (*ProjectService, *bytes.Buffer) {
	t.Helper()
	s := memory.New()
	require.NoError(t, s.Put(context.Background(), project.Seed(n, project.DefaultSeedStart, 10)...))

	l := logger.NewLogger()
	var buf bytes.Buffer
	l.SetOutput(&buf)
	l.SetLevel(logrus.DebugLevel)
	return NewService(s, paging.DefaultLimits(), l).Project, &buf
}

func TestListFollowsTokens(t *testing.T) {
	svc, _ := newTestService(t, 12)
	ctx := context.Background()

	page, err := svc.List(ctx, paging.Params{})
	require.NoError(t, err)
	assert.Equal(t, project.ByNameAscending, page.Mode)
	assert.Len(t, page.Items, paging.DefaultLimit)

	var names []string
	for _, p := range page.Items {
		names = append(names, p.Name)
	}
	for page.HasNextPage() {
		page, err = svc.List(ctx, paging.Params{Token: page.NextToken})
		require.NoError(t, err)
		for _, p := range page.Items {
			names = append(names, p.Name)
		}
	}
	assert.Len(t, names, 12)
	assert.Equal(t, "project012", names[11])
}

func TestListErrorsAreLogged(t *testing.T) {
	svc, buf := newTestService(t, 3)
	ctx := context.Background()

	_, err := svc.List(ctx, paging.Params{Mode: "by-size"})
	assert.ErrorIs(t, err, paging.ErrUnsupportedMode)
	assert.Contains(t, buf.String(), "rejected unsupported list mode")

	_, err = svc.List(ctx, paging.Params{Token: "%%%"})
	assert.ErrorIs(t, err, paging.ErrMalformedToken)
	assert.Contains(t, buf.String(), "rejected malformed page token")

	// an ascending mtime selector decodes but names no declared mode
	token, err := project.SelectorCodec{}.Encode(project.NewMtimeNameSelector(paging.Ascending, time.Unix(0, 0), "x"))
	require.NoError(t, err)
	_, err = svc.List(ctx, paging.Params{Token: token})
	assert.ErrorIs(t, err, paging.ErrUnsupportedMode)
	assert.Contains(t, buf.String(), "level=error")
	assert.Contains(t, buf.String(), "page token selector maps to no scan mode")
}

func TestUnmappedSelectorIsReported(t *testing.T) {
	var (
		mu     sync.Mutex
		events []*sentry.Event
	)
	require.NoError(t, sentry.Init(sentry.ClientOptions{
		Dsn: "https://public@sentry.example.com/1",
		BeforeSend: func(e *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			mu.Lock()
			events = append(events, e)
			mu.Unlock()
			return nil
		},
	}))
	t.Cleanup(func() { _ = sentry.Init(sentry.ClientOptions{}) })

	svc, _ := newTestService(t, 3)
	ctx := context.Background()

	_, err := svc.List(ctx, paging.Params{Mode: "by-size"})
	require.ErrorIs(t, err, paging.ErrUnsupportedMode)
	_, err = svc.List(ctx, paging.Params{Token: "%%%"})
	require.ErrorIs(t, err, paging.ErrMalformedToken)

	token, err := project.SelectorCodec{}.Encode(project.NewMtimeNameSelector(paging.Ascending, time.Unix(0, 0), "x"))
	require.NoError(t, err)
	_, err = svc.List(ctx, paging.Params{Token: token})
	require.ErrorIs(t, err, paging.ErrUnsupportedMode)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 1)
	assert.Equal(t, "unmapped_selector", events[0].Tags["kind"])
}

type failingAccessor struct{ project.Accessor }

func (failingAccessor) ByName(context.Context, paging.Order) (paging.Iterator[*project.Project], error) {
	return nil, errors.New("disk on fire")
}

func TestListStoreFailure(t *testing.T) {
	l := logger.NewLogger()
	var buf bytes.Buffer
	l.SetOutput(&buf)
	svc := NewProjectService(failingAccessor{}, paging.DefaultLimits(), l)

	page, err := svc.List(context.Background(), paging.Params{})
	assert.Nil(t, page)
	assert.EqualError(t, err, "disk on fire")
	assert.Contains(t, buf.String(), "failed to list projects")
}

func TestModes(t *testing.T) {
	svc, _ := newTestService(t, 0)
	modes := svc.Modes()
	require.Len(t, modes, 3)
	assert.Equal(t, project.ByNameAscending, modes[0].Name)
	assert.True(t, modes[0].Default)
	assert.Equal(t, paging.Descending, modes[2].Order)
	assert.False(t, modes[2].Default)
	assert.Equal(t, paging.DefaultLimits(), svc.Limits())
}
