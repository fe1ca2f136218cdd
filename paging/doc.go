// Package paging provides cursor-based pagination over collections that can
// be listed under several named orderings ("scan modes").
//
// A caller asks for a first page, optionally naming a scan mode, and gets
// back a bounded page of items plus an opaque continuation token. Passing
// the token back resumes the scan right after the last returned item, in the
// same mode, without any server-side session state.
//
// # Basic Usage
//
// Build an engine from a Resource and a Codec for its page selectors:
//
//	engine := paging.NewEngine(resource, codec, paging.DefaultLimits())
//
//	first, err := engine.List(ctx, paging.Params{Mode: "by-name-ascending", Limit: 20})
//	next, err := engine.List(ctx, paging.Params{Token: first.NextToken})
//
// # Resources
//
// A Resource bundles two capability sets:
//
//   - Registry: resolve a mode name, derive the mode a selector belongs to,
//     and build the selector for the last item of a page.
//   - Source: open an ordered iterator for a mode, or one that starts
//     strictly after a selector's key tuple.
//
// Selectors must carry the full sort key of the last item, including the
// unique primary key, so that ties on a non-unique key never cause skipped
// or repeated items.
//
// # Tokens
//
// EncodeToken and DecodeToken wrap a selector payload in a versioned JSON
// envelope encoded as unpadded base64url, so tokens are safe in URL query
// parameters:
//
//	{"v":1,"p":{...}}
//
// Any token that fails to decode yields ErrMalformedToken.
//
// # Limits
//
// Requested limits are clamped, never rejected: an absent or non-positive
// limit becomes Limits.Default and anything above Limits.Max becomes
// Limits.Max.
package paging
