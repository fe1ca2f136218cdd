package ctxutil

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ginContextKey = "gin_context"
	// TraceIDKey names the trace id in gin keys, log fields and the
	// X-Trace-ID header value.
	TraceIDKey = "trace_id"
	listModeKey = "list_mode"
)

// TraceIDHeader carries the trace id across HTTP hops.
const TraceIDHeader = "X-Trace-ID"

type ctxKey string

// FromGinContext extracts the context.Context from *gin.Context.
func FromGinContext(c *gin.Context) context.Context {
	return WithGinContext(c.Request.Context(), c)
}

// WithGinContext returns a context.Context that embeds the *gin.Context.
func WithGinContext(ctx context.Context, c *gin.Context) context.Context {
	return context.WithValue(ctx, ctxKey(ginContextKey), c)
}

// GetGinContext extracts *gin.Context from context.Context if it exists.
func GetGinContext(ctx context.Context) (*gin.Context, bool) {
	if c, ok := ctx.Value(ctxKey(ginContextKey)).(*gin.Context); ok {
		return c, ok
	}
	return nil, false
}

// GetValue retrieves a value from the context, preferring gin keys.
func GetValue(ctx context.Context, key string) any {
	if c, ok := GetGinContext(ctx); ok {
		if val, exists := c.Get(key); exists {
			return val
		}
	}
	return ctx.Value(ctxKey(key))
}

// SetValue sets a value to the context and, when present, the gin context.
func SetValue(ctx context.Context, key string, val any) context.Context {
	if c, ok := GetGinContext(ctx); ok {
		c.Set(key, val)
	}
	return context.WithValue(ctx, ctxKey(key), val)
}

// GetTraceID gets trace id from context.Context or gin.Context.
func GetTraceID(ctx context.Context) string {
	if traceID, ok := GetValue(ctx, TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// SetTraceID sets trace id to context.Context and gin.Context if available.
func SetTraceID(ctx context.Context, traceID string) context.Context {
	return SetValue(ctx, TraceIDKey, traceID)
}

// EnsureTraceID ensures that a trace ID exists in the context.
func EnsureTraceID(ctx context.Context) (context.Context, string) {
	if traceID := GetTraceID(ctx); traceID != "" {
		return ctx, traceID
	}
	traceID := uuid.NewString()
	return SetTraceID(ctx, traceID), traceID
}

// SetListMode records the scan mode served for the current request.
func SetListMode(ctx context.Context, mode string) context.Context {
	return SetValue(ctx, listModeKey, mode)
}

// GetListMode returns the scan mode recorded by SetListMode.
func GetListMode(ctx context.Context) string {
	if mode, ok := GetValue(ctx, listModeKey).(string); ok {
		return mode
	}
	return ""
}
