package ctxutil

import (
	"context"
	"net"
	"net/http"
	"strings"
)

const httpRequestKey = "http_request"

// SetHTTPRequest sets HTTP request to context.Context
func SetHTTPRequest(ctx context.Context, req *http.Request) context.Context {
	return SetValue(ctx, httpRequestKey, req)
}

// GetHTTPRequest gets HTTP request from context.Context
func GetHTTPRequest(ctx context.Context) *http.Request {
	if req, ok := GetValue(ctx, httpRequestKey).(*http.Request); ok {
		return req
	}
	if ginCtx, ok := GetGinContext(ctx); ok && ginCtx.Request != nil {
		return ginCtx.Request
	}
	return nil
}

// GetClientIP gets client IP from context.Context
func GetClientIP(ctx context.Context) string {
	if ginCtx, ok := GetGinContext(ctx); ok {
		if ip := ginCtx.ClientIP(); ip != "" {
			return ip
		}
	}
	if req := GetHTTPRequest(ctx); req != nil {
		if xff := req.Header.Get("X-Forwarded-For"); xff != "" {
			if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
				return ip
			}
		}
		return getIPFromAddr(req.RemoteAddr)
	}
	return "unknown"
}

// getIPFromAddr extracts IP from address string
func getIPFromAddr(addr string) string {
	if addr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
