package handler

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ncobase/scanpage/ctxutil"
	"github.com/ncobase/scanpage/ecode"
	"github.com/ncobase/scanpage/logging/logger"
	"github.com/ncobase/scanpage/net/resp"
	"github.com/ncobase/scanpage/paging"
	"github.com/ncobase/scanpage/service"
)

// ListQuery is the query string of GET /projects. Mode is accepted under
// its short name as well; a page token makes both ignored.
type ListQuery struct {
	ListMode  string `form:"list_mode"`
	Mode      string `form:"mode"`
	PageToken string `form:"page_token"`
	Limit     string `form:"limit"`
}

// Params converts the query into engine parameters.
func (q *ListQuery) Params() (paging.Params, error) {
	params := paging.Params{Mode: q.ListMode, Token: q.PageToken}
	if params.Mode == "" {
		params.Mode = q.Mode
	}
	if q.Limit != "" {
		n, err := parseLimit(q.Limit)
		if err != nil {
			return paging.Params{}, err
		}
		params.Limit = n
	}
	return params, nil
}

// parseLimit reads an integer limit. Integers too large for an int are
// saturated so the engine clamps them like any other out-of-range limit.
func parseLimit(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err == nil {
		return n, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		if strings.HasPrefix(raw, "-") {
			return 0, nil
		}
		return math.MaxInt, nil
	}
	return 0, errors.New(ecode.FieldIsInvalid("limit"))
}

// ProjectHandler handles HTTP requests for projects.
type ProjectHandler struct {
	svc    *service.ProjectService
	logger *logger.Logger
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(svc *service.ProjectService, logger *logger.Logger) *ProjectHandler {
	return &ProjectHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles one page of the projects listing.
// @Summary List projects
// @Tags projects
// @Produce json
// @Param list_mode query string false "Scan mode for the first page"
// @Param page_token query string false "Continuation token from the previous page"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	ctx := ctxutil.FromGinContext(c)

	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}
	params, err := q.Params()
	if err != nil {
		resp.Fail(c.Writer, resp.InvalidLimit(err.Error()))
		return
	}

	page, err := h.svc.List(ctx, params)
	if err != nil {
		resp.Fail(c.Writer, failure(err))
		return
	}

	ctxutil.SetListMode(ctx, page.Mode.String())
	resp.Success(c.Writer, page)
}

// Modes lists the declared scan modes and page size bounds.
// @Summary List scan modes
// @Tags projects
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /projects/modes [get]
func (h *ProjectHandler) Modes(c *gin.Context) {
	resp.Success(c.Writer, map[string]any{
		"modes":  h.svc.Modes(),
		"limits": h.svc.Limits(),
	})
}

// failure maps listing errors to client or server failures.
func failure(err error) *resp.Exception {
	switch {
	case errors.Is(err, paging.ErrMalformedToken):
		return resp.InvalidPageToken(err.Error())
	case errors.Is(err, paging.ErrUnsupportedMode):
		return resp.UnsupportedListMode(err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return resp.GatewayTimeout(ecode.Text(ecode.Deadline))
	default:
		return resp.InternalServer(ecode.Text(ecode.ServerErr))
	}
}
