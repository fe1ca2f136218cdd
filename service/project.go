package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ncobase/scanpage/logging/logger"
	"github.com/ncobase/scanpage/logging/observes"
	"github.com/ncobase/scanpage/paging"
	"github.com/ncobase/scanpage/project"
)

// ProjectService lists projects a page at a time.
type ProjectService struct {
	engine *project.Engine
	logger *logger.Logger
}

// NewProjectService creates a new project service.
func NewProjectService(accessor project.Accessor, limits paging.Limits, logger *logger.Logger) *ProjectService {
	return &ProjectService{
		engine: project.NewEngine(accessor, limits),
		logger: logger,
	}
}

// ModeInfo describes one declared scan mode.
type ModeInfo struct {
	Name    project.ScanMode `json:"name"`
	Order   paging.Order     `json:"order"`
	Default bool             `json:"default,omitempty"`
}

// Modes lists the declared scan modes, default first.
func (s *ProjectService) Modes() []ModeInfo {
	modes := project.ScanModes()
	out := make([]ModeInfo, len(modes))
	for i, m := range modes {
		out[i] = ModeInfo{Name: m, Order: m.Order(), Default: m == project.DefaultScanMode}
	}
	return out
}

// Limits returns the page size bounds in effect.
func (s *ProjectService) Limits() paging.Limits {
	return s.engine.Limits()
}

// List returns one page of projects for params.
func (s *ProjectService) List(ctx context.Context, params paging.Params) (page *project.Page, err error) {
	ctx, span := observes.StartSpan(ctx, observes.LayerService, "ListProjects",
		attribute.Bool("first_page", params.IsFirstPage()),
		attribute.Int("limit", params.Limit),
	)
	defer func() { span.End(err) }()

	page, err = s.engine.List(ctx, params)
	if err != nil {
		s.logFailure(ctx, params, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("list_mode", page.Mode.String()),
		attribute.Int("items", len(page.Items)),
		attribute.Bool("has_next_page", page.HasNextPage()),
	)
	s.logger.WithCtxFields(ctx, logrus.Fields{
		"list_mode": page.Mode,
		"items":     len(page.Items),
		"has_next":  page.HasNextPage(),
	}).Debug("listed projects")
	return page, nil
}

// logFailure picks the level by cause. A next-page token that decoded but
// maps to no scan mode was minted by a build that disagrees with this one.
func (s *ProjectService) logFailure(ctx context.Context, params paging.Params, err error) {
	fields := logrus.Fields{"error": err, "first_page": params.IsFirstPage()}
	switch {
	case errors.Is(err, paging.ErrMalformedToken):
		s.logger.WithCtxFields(ctx, fields).Info("rejected malformed page token")
	case errors.Is(err, paging.ErrUnsupportedMode) && params.IsFirstPage():
		fields["list_mode"] = params.Mode
		s.logger.WithCtxFields(ctx, fields).Info("rejected unsupported list mode")
	case errors.Is(err, paging.ErrUnsupportedMode):
		s.logger.WithCtxFields(ctx, fields).Error("page token selector maps to no scan mode")
		observes.CaptureError(ctx, err, map[string]string{"kind": "unmapped_selector"})
	default:
		s.logger.WithCtxFields(ctx, fields).Error("failed to list projects")
	}
}
