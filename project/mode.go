package project

import (
	"fmt"

	"github.com/ncobase/scanpage/paging"
)

// ScanMode names an ordering of the projects collection.
type ScanMode string

const (
	ByNameAscending   ScanMode = "by-name-ascending"
	ByNameDescending  ScanMode = "by-name-descending"
	ByMtimeDescending ScanMode = "by-mtime-descending"
)

// DefaultScanMode is used when a first-page request names no mode.
const DefaultScanMode = ByNameAscending

var scanModes = []ScanMode{ByNameAscending, ByNameDescending, ByMtimeDescending}

// ScanModes returns every declared scan mode, default first.
func ScanModes() []ScanMode {
	return append([]ScanMode(nil), scanModes...)
}

// ParseScanMode resolves a mode name. The empty name is the default mode.
func ParseScanMode(name string) (ScanMode, error) {
	if name == "" {
		return DefaultScanMode, nil
	}
	for _, m := range scanModes {
		if string(m) == name {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", paging.ErrUnsupportedMode, name)
}

// Order returns the direction the mode scans its primary sort key in.
func (m ScanMode) Order() paging.Order {
	switch m {
	case ByNameDescending, ByMtimeDescending:
		return paging.Descending
	default:
		return paging.Ascending
	}
}

// String returns the mode name.
func (m ScanMode) String() string {
	return string(m)
}
