package project

import (
	"fmt"

	"github.com/ncobase/scanpage/paging"
)

// Registry maps mode names and page selectors to scan modes.
type Registry struct{}

// ResolveMode implements paging.Registry.
func (Registry) ResolveMode(name string) (ScanMode, error) {
	return ParseScanMode(name)
}

// ModeOf implements paging.Registry. Every (selector kind, direction) pair
// that a declared mode produces maps back to that mode; any other pair is
// ErrUnsupportedMode.
func (Registry) ModeOf(selector PageSelector) (ScanMode, error) {
	switch s := selector.(type) {
	case NameSelector:
		switch s.Dir {
		case paging.Ascending:
			return ByNameAscending, nil
		case paging.Descending:
			return ByNameDescending, nil
		}
	case MtimeNameSelector:
		switch s.Dir {
		case paging.Descending:
			return ByMtimeDescending, nil
		case paging.Ascending:
			// iterable, but not a declared mode
		}
	}
	return "", fmt.Errorf("%w: no scan mode for selector %v", paging.ErrUnsupportedMode, selector)
}

// SelectorFor implements paging.Registry.
func (Registry) SelectorFor(last *Project, mode ScanMode) (PageSelector, error) {
	switch mode {
	case ByNameAscending:
		return NameSelector{Dir: paging.Ascending, Name: last.Name}, nil
	case ByNameDescending:
		return NameSelector{Dir: paging.Descending, Name: last.Name}, nil
	case ByMtimeDescending:
		return NewMtimeNameSelector(paging.Descending, last.Mtime, last.Name), nil
	}
	return nil, fmt.Errorf("%w: %q", paging.ErrUnsupportedMode, string(mode))
}
