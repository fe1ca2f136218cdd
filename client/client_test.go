package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncobase/scanpage/handler"
	"github.com/ncobase/scanpage/logging/logger"
	"github.com/ncobase/scanpage/paging"
	"github.com/ncobase/scanpage/project"
	"github.com/ncobase/scanpage/project/projecttest"
	"github.com/ncobase/scanpage/service"
	"github.com/ncobase/scanpage/store/memory"
)

func newServer(t *testing.T, count int) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := memory.New()
	start := time.Date(2020, time.July, 13, 17, 35, 0, 0, time.UTC)
	require.NoError(t, s.Put(context.Background(), project.Seed(count, start, 10)...))

	l := logger.NewLogger()
	svc := service.NewService(s, paging.Limits{Default: 5, Max: 100}, l)
	r := gin.New()
	handler.NewHandler(svc, "memory", nil, l).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestListFirstAndNextPage(t *testing.T) {
	c := New(newServer(t, 12).URL)
	ctx := context.Background()

	page, err := c.List(ctx, &ListOptions{Mode: "by-name-descending", Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, "by-name-descending", page.Mode)
	require.Len(t, page.Items, 5)
	assert.Equal(t, "project012", page.Items[0].Name)
	require.NotEmpty(t, page.NextPageToken)

	next, err := c.List(ctx, &ListOptions{PageToken: page.NextPageToken, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, "project007", next.Items[0].Name)
}

func TestAllFollowsTokens(t *testing.T) {
	c := New(newServer(t, 12).URL + "/")

	var names []string
	pages := 0
	err := c.All(context.Background(), &ListOptions{Limit: 5}, func(p *Page) error {
		pages++
		for _, it := range p.Items {
			names = append(names, it.Name)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, pages)
	assert.Equal(t, projecttest.Names(projecttest.Sorted(project.Seed(12, time.Now(), 10), project.ByNameAscending)), names)
}

func TestAllStopsOnCallbackError(t *testing.T) {
	c := New(newServer(t, 12).URL)
	stop := errors.New("stop")

	pages := 0
	err := c.All(context.Background(), &ListOptions{Limit: 5}, func(*Page) error {
		pages++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, pages)
}

func TestServerErrorsDecode(t *testing.T) {
	c := New(newServer(t, 3).URL)

	_, err := c.List(context.Background(), &ListOptions{PageToken: "!!"})
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, http.StatusBadRequest, e.Status)
	assert.NotZero(t, e.Code)

	_, err = c.List(context.Background(), &ListOptions{Mode: "by-size"})
	require.ErrorAs(t, err, &e)
	assert.Equal(t, http.StatusBadRequest, e.Status)
}

func TestModes(t *testing.T) {
	c := New(newServer(t, 1).URL)

	m, err := c.Modes(context.Background())
	require.NoError(t, err)
	require.Len(t, m.Modes, 3)
	assert.True(t, m.Modes[0].Default)
	assert.Equal(t, paging.Limits{Default: 5, Max: 100}, m.Limits)
}

func TestNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).List(context.Background(), nil)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, http.StatusBadGateway, e.Status)
	assert.Equal(t, "bad gateway", e.Message)
}
