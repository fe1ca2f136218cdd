package ecode

// Business codes carried in error bodies.
const (
	OK = 0

	InvalidPageToken    = -201
	UnsupportedListMode = -202
	InvalidLimit        = -203

	RequestErr       = -400
	NotFound         = -404
	MethodNotAllowed = -405

	ServerErr          = -500
	ServiceUnavailable = -503
	Deadline           = -504
)

var messages = map[int]string{
	OK:                  "ok",
	InvalidPageToken:    "Invalid page token",
	UnsupportedListMode: "Unsupported list mode",
	InvalidLimit:        "Invalid limit",
	RequestErr:          "Invalid request",
	NotFound:            "Resource not found",
	MethodNotAllowed:    "Method not allowed",
	ServerErr:           "Internal server error",
	ServiceUnavailable:  "Service unavailable",
	Deadline:            "Deadline exceeded",
}

// Text returns the default message for code, or "Unknown error".
func Text(code int) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return "Unknown error"
}
