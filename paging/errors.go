package paging

import "errors"

var (
	// ErrMalformedToken is returned when a continuation token cannot be
	// decoded into a page selector.
	ErrMalformedToken = errors.New("malformed page token")

	// ErrUnsupportedMode is returned for unknown scan mode names and for
	// selectors that map to no declared scan mode.
	ErrUnsupportedMode = errors.New("unsupported scan mode")
)
