package project

import (
	"fmt"
	"time"

	"github.com/ncobase/scanpage/paging"
)

// PageSelector is the resumption point of a scan. It is a closed set:
// NameSelector and MtimeNameSelector are its only implementations.
type PageSelector interface {
	// Order is the direction the scan continues in.
	Order() paging.Order
	pageSelector()
}

// NameSelector resumes a scan by name after Name.
type NameSelector struct {
	Dir  paging.Order
	Name string
}

// Order implements PageSelector.
func (s NameSelector) Order() paging.Order { return s.Dir }

func (NameSelector) pageSelector() {}

func (s NameSelector) String() string {
	return fmt.Sprintf("name/%s(%q)", s.Dir, s.Name)
}

// MtimeNameSelector resumes a scan by (mtime, name) after the given pair.
type MtimeNameSelector struct {
	Dir   paging.Order
	Mtime time.Time
	Name  string
}

// NewMtimeNameSelector creates a selector with mtime normalized to UTC.
func NewMtimeNameSelector(dir paging.Order, mtime time.Time, name string) MtimeNameSelector {
	return MtimeNameSelector{Dir: dir, Mtime: mtime.UTC(), Name: name}
}

// Order implements PageSelector.
func (s MtimeNameSelector) Order() paging.Order { return s.Dir }

// Key returns the selector's (mtime, name) tuple.
func (s MtimeNameSelector) Key() MtimeKey {
	return MtimeKey{Mtime: s.Mtime, Name: s.Name}
}

func (MtimeNameSelector) pageSelector() {}

func (s MtimeNameSelector) String() string {
	return fmt.Sprintf("mtime_name/%s(%s, %q)", s.Dir, s.Mtime.Format(time.RFC3339Nano), s.Name)
}
