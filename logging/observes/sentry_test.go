package observes

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncobase/scanpage/ctxutil"
)

// recordSentry installs a client that keeps events instead of sending them.
func recordSentry(t *testing.T) func() []*sentry.Event {
	t.Helper()
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
	return func() []*sentry.Event {
		mu.Lock()
		defer mu.Unlock()
		return append([]*sentry.Event(nil), events...)
	}
}

func TestNewSentryDisabled(t *testing.T) {
	flush, err := NewSentry(nil)
	require.NoError(t, err)
	flush()

	flush, err = NewSentry(&SentryOptions{})
	require.NoError(t, err)
	flush()
}

func TestNewSentryBadDsn(t *testing.T) {
	_, err := NewSentry(&SentryOptions{Dsn: "not a dsn"})
	assert.Error(t, err)
}

func TestCaptureError(t *testing.T) {
	events := recordSentry(t)

	ctx := ctxutil.SetTraceID(context.Background(), "trace-1")
	CaptureError(ctx, errors.New("selector maps to no mode"), map[string]string{"list_mode": "x"})
	CaptureError(ctx, nil, nil)

	got := events()
	require.Len(t, got, 1)
	assert.Equal(t, "trace-1", got[0].Tags[ctxutil.TraceIDKey])
	assert.Equal(t, "x", got[0].Tags["list_mode"])
	require.NotEmpty(t, got[0].Exception)
	assert.Equal(t, "selector maps to no mode", got[0].Exception[0].Value)
}

func TestCaptureErrorWithoutClient(t *testing.T) {
	require.NoError(t, sentry.Init(sentry.ClientOptions{}))
	CaptureError(context.Background(), errors.New("dropped"), nil)
}
