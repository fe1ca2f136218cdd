// Package service contains the listing logic behind the HTTP handlers.
package service

import (
	"github.com/ncobase/scanpage/logging/logger"
	"github.com/ncobase/scanpage/paging"
	"github.com/ncobase/scanpage/project"
)

// Service aggregates all business logic services.
type Service struct {
	Project *ProjectService
}

// NewService creates a new service instance with all sub-services initialized.
func NewService(accessor project.Accessor, limits paging.Limits, logger *logger.Logger) *Service {
	return &Service{
		Project: NewProjectService(accessor, limits, logger),
	}
}
