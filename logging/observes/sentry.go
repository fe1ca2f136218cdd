package observes

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/ncobase/scanpage/ctxutil"
)

// SentryOptions configures error reporting.
type SentryOptions struct {
	Dsn         string
	Name        string
	Release     string
	Environment string
	SampleRate  float64
}

// sentryFlushTimeout bounds delivery of buffered events on shutdown.
const sentryFlushTimeout = 2 * time.Second

// NewSentry installs the global sentry client and returns a function that
// flushes it. A nil option or an empty DSN leaves reporting disabled.
func NewSentry(opt *SentryOptions) (func(), error) {
	if opt == nil || opt.Dsn == "" {
		return func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              opt.Dsn,
		AttachStacktrace: true,
		SampleRate:       opt.SampleRate,
		ServerName:       opt.Name,
		Release:          opt.Release,
		Environment:      opt.Environment,
	})
	if err != nil {
		return nil, err
	}
	return func() { sentry.Flush(sentryFlushTimeout) }, nil
}

// CaptureError reports err to sentry, tagged with the request trace id and
// tags. It does nothing when no client is installed.
func CaptureError(ctx context.Context, err error, tags map[string]string) {
	if err == nil {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub.Client() == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		if id := ctxutil.GetTraceID(ctx); id != "" {
			scope.SetTag(ctxutil.TraceIDKey, id)
		}
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		hub.CaptureException(err)
	})
}
