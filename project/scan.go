package project

import (
	"context"
	"fmt"

	"github.com/ncobase/scanpage/paging"
)

// Engine is the paging engine specialised to projects.
type Engine = paging.Engine[ScanMode, PageSelector, *Project]

// Page is one page of projects.
type Page = paging.Result[ScanMode, *Project]

// Scan adapts an Accessor to paging.Resource.
type Scan struct {
	Registry
	accessor Accessor
}

// NewScan creates a projects resource reading from accessor.
func NewScan(accessor Accessor) *Scan {
	return &Scan{accessor: accessor}
}

// NewEngine creates a paging engine listing projects from accessor.
func NewEngine(accessor Accessor, limits paging.Limits) *Engine {
	return paging.NewEngine[ScanMode, PageSelector, *Project](NewScan(accessor), SelectorCodec{}, limits)
}

// Scan implements paging.Source.
func (s *Scan) Scan(ctx context.Context, mode ScanMode) (paging.Iterator[*Project], error) {
	switch mode {
	case ByNameAscending, ByNameDescending:
		return s.accessor.ByName(ctx, mode.Order())
	case ByMtimeDescending:
		return s.accessor.ByMtime(ctx, mode.Order())
	}
	return nil, fmt.Errorf("%w: %q", paging.ErrUnsupportedMode, string(mode))
}

// ScanAfter implements paging.Source.
func (s *Scan) ScanAfter(ctx context.Context, selector PageSelector) (paging.Iterator[*Project], error) {
	switch sel := selector.(type) {
	case NameSelector:
		return s.accessor.ByNameAfter(ctx, sel.Dir, sel.Name)
	case MtimeNameSelector:
		return s.accessor.ByMtimeAfter(ctx, sel.Dir, sel.Key())
	}
	return nil, fmt.Errorf("%w: no scan for selector %v", paging.ErrUnsupportedMode, selector)
}
