package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ncobase/scanpage/ctxutil"
	"github.com/ncobase/scanpage/ecode"
	"github.com/ncobase/scanpage/logging/observes"
	"github.com/ncobase/scanpage/net/resp"
)

// traceMiddleware adopts the caller's X-Trace-ID or mints one, echoes it
// back and opens the handler span.
func traceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.FromGinContext(c)
		if id := c.GetHeader(ctxutil.TraceIDHeader); id != "" {
			ctx = ctxutil.SetTraceID(ctx, id)
		}
		ctx, traceID := ctxutil.EnsureTraceID(ctx)
		c.Header(ctxutil.TraceIDHeader, traceID)

		ctx, span := observes.StartSpan(ctx, observes.LayerHandler, c.Request.Method+" "+c.FullPath(),
			attribute.String("http.target", c.Request.URL.RequestURI()))
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		span.SetAttributes(attribute.Int("http.status_code", c.Writer.Status()))
		var err error
		if last := c.Errors.Last(); last != nil {
			err = last
		}
		span.End(err)
	}
}

// loggerMiddleware creates a Gin middleware for request logging.
func (a *App) loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		ctx := ctxutil.FromGinContext(c)
		fields := logrus.Fields{
			"method":   method,
			"path":     path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"ip":       ctxutil.GetClientIP(ctx),
		}
		if mode := ctxutil.GetListMode(ctx); mode != "" {
			fields["list_mode"] = mode
		}
		a.logger.WithCtxFields(ctx, fields).Info("HTTP request")
	}
}

func notFound(c *gin.Context) {
	resp.Fail(c.Writer, resp.NotFound(ecode.NotExist(c.Request.URL.Path)))
}

func notAllowed(c *gin.Context) {
	resp.Fail(c.Writer, resp.NotAllowed(ecode.Text(ecode.MethodNotAllowed)))
}
