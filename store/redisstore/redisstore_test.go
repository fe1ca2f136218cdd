package redisstore

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncobase/scanpage/config"
	"github.com/ncobase/scanpage/paging"
	"github.com/ncobase/scanpage/project"
	"github.com/ncobase/scanpage/project/projecttest"
	"github.com/ncobase/scanpage/store"
)

var prefixSeq atomic.Int64

// client connects to SCANPAGE_REDIS_ADDR or skips the test.
func client(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("SCANPAGE_REDIS_ADDR")
	if addr == "" {
		t.Skip("SCANPAGE_REDIS_ADDR not set")
	}
	c := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, c.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func newStore(c redis.UniversalClient) projecttest.NewStoreFunc {
	return func(t *testing.T) project.Store {
		prefix := fmt.Sprintf("scanpagetest:%d:%d", time.Now().UnixNano(), prefixSeq.Add(1))
		s := New(c, prefix, WithBatchSize(3))
		t.Cleanup(func() { _ = s.Clear(context.Background()) })
		return s
	}
}

func TestStore(t *testing.T) {
	projecttest.Run(t, newStore(client(t)))
}

func TestDriverOpen(t *testing.T) {
	c := client(t)
	s, err := store.Open(context.Background(), &config.Store{
		Driver: DriverName,
		Redis:  &config.Redis{Addr: c.Options().Addr, KeyPrefix: "scanpagetest:open"},
	})
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestOpenWithoutAddr(t *testing.T) {
	_, err := Open(context.Background(), &config.Redis{})
	assert.Error(t, err)
	_, err = store.Open(context.Background(), &config.Store{Driver: DriverName})
	assert.Error(t, err)
}

func TestMembersRoundTrip(t *testing.T) {
	for _, at := range []time.Time{
		time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Unix(0, 0).UTC(),
		time.Date(2020, 7, 13, 17, 35, 0, 123456789, time.UTC),
	} {
		a, err := parseAscMember(ascMember(at.UnixNano(), "proj:1"))
		require.NoError(t, err)
		assert.Equal(t, "proj:1", a.Name)
		assert.True(t, a.Mtime.Equal(at))

		d, err := parseDescMember(descMember(at.UnixNano(), ""))
		require.NoError(t, err)
		assert.Equal(t, "", d.Name)
		assert.True(t, d.Mtime.Equal(at))
	}

	_, err := parseAscMember("short")
	assert.Error(t, err)
	_, err = parseAscMember("zzzzzzzzzzzzzzzzname")
	assert.Error(t, err)
}

func TestMembersOrder(t *testing.T) {
	early, late := int64(-5), int64(5)
	assert.Less(t, ascMember(early, "b"), ascMember(late, "a"))
	assert.Less(t, descMember(late, "b"), descMember(early, "a"))
	assert.Less(t, descMember(late, "a"), descMember(late, "b"))
}

func TestLexRange(t *testing.T) {
	args := lexRange("k", false, "", false, 4)
	assert.Equal(t, "-", args.Start)
	assert.Equal(t, "+", args.Stop)
	assert.EqualValues(t, 4, args.Count)

	args = lexRange("k", false, "m", true, 4)
	assert.Equal(t, "(m", args.Start)
	assert.Equal(t, "+", args.Stop)

	args = lexRange("k", true, "m", true, 4)
	assert.True(t, args.Rev)
	assert.Equal(t, "-", args.Start)
	assert.Equal(t, "(m", args.Stop)
}

func TestClosed(t *testing.T) {
	s := New(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), "")
	require.NoError(t, s.Close())
	_, err := s.ByName(context.Background(), paging.Ascending)
	assert.ErrorIs(t, err, store.ErrClosed)
}
