package resp

import (
	"net/http"

	"github.com/ncobase/scanpage/ecode"
)

// BadRequest indicates a bad request.
func BadRequest(message string, data ...any) *Exception {
	return newResponse(http.StatusBadRequest, ecode.RequestErr, message, data...)
}

// InvalidPageToken indicates a page token that could not be decoded.
func InvalidPageToken(message string, data ...any) *Exception {
	return newResponse(http.StatusBadRequest, ecode.InvalidPageToken, message, data...)
}

// UnsupportedListMode indicates a list mode the resource cannot serve.
func UnsupportedListMode(message string, data ...any) *Exception {
	return newResponse(http.StatusBadRequest, ecode.UnsupportedListMode, message, data...)
}

// InvalidLimit indicates a limit that is not an integer.
func InvalidLimit(message string, data ...any) *Exception {
	return newResponse(http.StatusBadRequest, ecode.InvalidLimit, message, data...)
}

// NotFound indicates that the requested resource is not found.
func NotFound(message string, data ...any) *Exception {
	return newResponse(http.StatusNotFound, ecode.NotFound, message, data...)
}

// NotAllowed indicates a not allowed error.
func NotAllowed(message string, data ...any) *Exception {
	return newResponse(http.StatusMethodNotAllowed, ecode.MethodNotAllowed, message, data...)
}

// InternalServer indicates a server error.
func InternalServer(message string, data ...any) *Exception {
	return newResponse(http.StatusInternalServerError, ecode.ServerErr, message, data...)
}

// ServiceUnavailable indicates the backing store is not reachable.
func ServiceUnavailable(message string, data ...any) *Exception {
	return newResponse(http.StatusServiceUnavailable, ecode.ServiceUnavailable, message, data...)
}

// GatewayTimeout indicates the request deadline passed before the store
// answered.
func GatewayTimeout(message string, data ...any) *Exception {
	return newResponse(http.StatusGatewayTimeout, ecode.Deadline, message, data...)
}
