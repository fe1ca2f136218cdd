// Package ctxutil carries request-scoped values (trace id, gin context,
// served list mode) through context.Context.
//
//	ctx, traceID := ctxutil.EnsureTraceID(ctx)
//	ip := ctxutil.GetClientIP(ctxutil.FromGinContext(c))
package ctxutil
