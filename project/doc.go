// Package project is the paginated projects collection: the Project record,
// its scan modes and page selectors, and the adapter that lets a paging
// engine list projects from any Accessor.
//
// Three scan modes are declared:
//
//	by-name-ascending   (default)
//	by-name-descending
//	by-mtime-descending  mtime descending, then name ascending
//
// Each mode resumes from a page selector carrying the full sort key of the
// last item on the previous page. Name is unique, so it is always part of
// the selector and breaks ties between projects sharing an mtime.
package project
