package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ncobase/scanpage/ctxutil"
	"github.com/ncobase/scanpage/net/resp"
)

// HealthHandler reports liveness and store reachability.
type HealthHandler struct {
	driver string
	pinger Pinger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(driver string, pinger Pinger) *HealthHandler {
	return &HealthHandler{driver: driver, pinger: pinger}
}

// Check handles GET /health.
func (h *HealthHandler) Check(c *gin.Context) {
	if h.pinger != nil {
		if err := h.pinger.Ping(ctxutil.FromGinContext(c)); err != nil {
			resp.Fail(c.Writer, resp.ServiceUnavailable(err.Error(), map[string]string{"store": h.driver}))
			return
		}
	}
	resp.Success(c.Writer, map[string]string{"status": "healthy", "store": h.driver})
}
