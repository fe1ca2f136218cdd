package project

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Project is the item listed by the projects endpoint.
type Project struct {
	Name  string    `json:"name"`
	Mtime time.Time `json:"mtime"`
}

// Mtimes are stored and tokenized as Unix nanoseconds, which bounds them.
var (
	MinMtime = time.Unix(0, math.MinInt64).UTC()
	MaxMtime = time.Unix(0, math.MaxInt64).UTC()
)

// ErrMtimeRange is returned for an mtime outside [MinMtime, MaxMtime].
var ErrMtimeRange = errors.New("project: mtime out of range")

// CheckMtime reports whether t can be stored and carried in a page token.
func CheckMtime(t time.Time) error {
	if t.Before(MinMtime) || t.After(MaxMtime) {
		return fmt.Errorf("%w: %s", ErrMtimeRange, t.UTC().Format(time.RFC3339Nano))
	}
	return nil
}

// New creates a project with its mtime normalized to UTC.
func New(name string, mtime time.Time) *Project {
	return &Project{Name: name, Mtime: mtime.UTC()}
}

// Validate checks that p can be written to a store.
func (p *Project) Validate() error {
	if p == nil {
		return errors.New("project: nil project")
	}
	return CheckMtime(p.Mtime)
}

// MtimeKey is the sort key of the mtime orderings.
type MtimeKey struct {
	Mtime time.Time
	Name  string
}

// Key returns p's mtime sort key.
func (p Project) Key() MtimeKey {
	return MtimeKey{Mtime: p.Mtime, Name: p.Name}
}

// Validate checks every project, so a store can reject a batch before
// writing any of it.
func Validate(projects []*Project) error {
	for _, p := range projects {
		if p == nil {
			continue
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("project %q: %w", p.Name, err)
		}
	}
	return nil
}
