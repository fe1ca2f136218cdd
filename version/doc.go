// Package version exposes build metadata for the scanpage binary.
//
// Set it at build time with ldflags:
//
//	go build -ldflags "\
//	  -X github.com/ncobase/scanpage/version.Version=1.2.3 \
//	  -X github.com/ncobase/scanpage/version.Branch=main \
//	  -X github.com/ncobase/scanpage/version.Revision=abc123 \
//	  -X 'github.com/ncobase/scanpage/version.BuiltAt=$(date)'"
//
// Unset revision and build time fall back to the VCS stamp embedded by the
// go tool.
package version
