// Package ecode defines the business codes returned in error bodies.
//
// Codes follow the usual numbering scheme:
//   - 0: Success (OK)
//   - -200 to -299: Request validation errors
//   - -400 to -499: Generic request errors
//   - -500+: Server errors
//
// Retrieve human-readable messages with Text:
//
//	message := ecode.Text(ecode.InvalidPageToken)
//	// Returns: "Invalid page token"
package ecode
