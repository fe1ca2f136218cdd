// Package handler provides the HTTP handlers of the projects API.
package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/ncobase/scanpage/logging/logger"
	"github.com/ncobase/scanpage/service"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler aggregates all HTTP handlers.
type Handler struct {
	Project *ProjectHandler
	Health  *HealthHandler
	logger  *logger.Logger
}

// NewHandler creates a new handler instance with all sub-handlers initialized.
// pinger may be nil when the backend has nothing to ping.
func NewHandler(svc *service.Service, driver string, pinger Pinger, logger *logger.Logger) *Handler {
	return &Handler{
		Project: NewProjectHandler(svc.Project, logger),
		Health:  NewHealthHandler(driver, pinger),
		logger:  logger,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/projects", h.Project.List)
	r.GET("/projects/modes", h.Project.Modes)
	r.GET("/health", h.Health.Check)
}
