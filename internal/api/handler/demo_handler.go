package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/stepwise/stepwise-api/internal/api/metrics"
	"github.com/stepwise/stepwise-api/internal/core/domain"
	"github.com/stepwise/stepwise-api/internal/core/ports"
)

// DemoHandler handles HTTP requests for demo operations.
type DemoHandler struct {
	service ports.DemoService
}

func NewDemoHandler(service ports.DemoService) *DemoHandler {
	return &DemoHandler{service: service}
}

// Create handles POST /v1/demos.
//
// @Summary      Create a new demo
// @Tags         demos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createDemoRequest  true  "Demo details"
// @Success      201   {object}  domain.Demo
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/demos [post]
func (h *DemoHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createDemoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	demo, err := h.service.Create(c.Request().Context(), userID, ports.CreateDemoInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return err
	}

	metrics.DemosCreatedTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, demo)
}

// ListOwn handles GET /v1/demos.
//
// @Summary      List the caller's demos
// @Tags         demos
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int     false  "1-based page"           default(1)
// @Param        limit      query     int     false  "rows per page, max 100" default(10)
// @Param        search     query     string  false  "substring over title or description"
// @Param        sortBy     query     string  false  "title | createdAt | updatedAt"
// @Param        sortOrder  query     string  false  "asc | desc"
// @Param        isPublic   query     bool    false  "visibility filter"
// @Success      200        {object}  listEnvelope[domain.Demo]
// @Failure      401        {object}  errorResponse
// @Router       /v1/demos [get]
func (h *DemoHandler) ListOwn(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	filter := listFilterFromQuery(c)
	demos, total, err := h.service.ListOwn(c.Request().Context(), userID, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope(demos, total, filter))
}

// ListPublic handles GET /v1/demos/public. No credential required.
//
// @Summary      List public demos
// @Tags         demos
// @Produce      json
// @Param        page       query     int     false  "1-based page"  default(1)
// @Param        limit      query     int     false  "rows per page" default(10)
// @Param        search     query     string  false  "substring over title or description"
// @Param        sortBy     query     string  false  "title | createdAt | updatedAt"
// @Param        sortOrder  query     string  false  "asc | desc"
// @Success      200        {object}  listEnvelope[domain.Demo]
// @Router       /v1/demos/public [get]
func (h *DemoHandler) ListPublic(c echo.Context) error {
	filter := listFilterFromQuery(c)
	demos, total, err := h.service.ListPublic(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope(demos, total, filter))
}

// Get handles GET /v1/demos/:idOrSlug. Anonymous callers see public demos
// only; a private demo reads as 404 for anyone but its owner.
//
// @Summary      Get a demo by id or slug
// @Tags         demos
// @Produce      json
// @Param        idOrSlug  path      string  true  "Demo id or slug"
// @Success      200       {object}  domain.Demo
// @Failure      404       {object}  errorResponse
// @Router       /v1/demos/{idOrSlug} [get]
func (h *DemoHandler) Get(c echo.Context) error {
	demo, err := h.service.Get(c.Request().Context(), c.Param("idOrSlug"), ctxOptionalUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, demo)
}

// GetWithSteps handles GET /v1/demos/:idOrSlug/steps-detail.
//
// @Summary      Get a demo with its ordered steps
// @Tags         demos
// @Produce      json
// @Param        idOrSlug  path      string  true  "Demo id or slug"
// @Success      200       {object}  domain.DemoWithSteps
// @Failure      404       {object}  errorResponse
// @Router       /v1/demos/{idOrSlug}/steps-detail [get]
func (h *DemoHandler) GetWithSteps(c echo.Context) error {
	detail, err := h.service.GetWithSteps(c.Request().Context(), c.Param("idOrSlug"), ctxOptionalUserID(c))
	if err != nil {
		return err
	}

	steps := make([]stepResponse, 0, len(detail.Steps))
	for _, s := range detail.Steps {
		steps = append(steps, toStepResponse(s))
	}
	return c.JSON(http.StatusOK, demoWithStepsResponse{Demo: detail.Demo, Steps: steps})
}

// GetWithStepsCount handles GET /v1/demos/:idOrSlug/steps-count.
//
// @Summary      Get a demo with its step count
// @Tags         demos
// @Produce      json
// @Param        idOrSlug  path      string  true  "Demo id or slug"
// @Success      200       {object}  domain.DemoWithStepsCount
// @Failure      404       {object}  errorResponse
// @Router       /v1/demos/{idOrSlug}/steps-count [get]
func (h *DemoHandler) GetWithStepsCount(c echo.Context) error {
	detail, err := h.service.GetWithStepsCount(c.Request().Context(), c.Param("idOrSlug"), ctxOptionalUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// Update handles PATCH /v1/demos/:id.
//
// @Summary      Update a demo
// @Tags         demos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Demo id"
// @Param        body  body      updateDemoRequest  true  "Fields to change"
// @Success      200   {object}  domain.Demo
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/demos/{id} [patch]
func (h *DemoHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateDemoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	demo, err := h.service.Update(c.Request().Context(), c.Param("id"), userID, ports.UpdateDemoInput{
		Title:       req.Title,
		Description: req.Description,
		Slug:        req.Slug,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, demo)
}

// Delete handles DELETE /v1/demos/:id.
//
// @Summary      Delete a demo and everything under it
// @Tags         demos
// @Security     BearerAuth
// @Param        id  path  string  true  "Demo id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/demos/{id} [delete]
func (h *DemoHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleVisibility handles POST /v1/demos/:id/visibility.
//
// @Summary      Flip a demo between private and public
// @Tags         demos
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Demo id"
// @Success      200  {object}  domain.Demo
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/demos/{id}/visibility [post]
func (h *DemoHandler) ToggleVisibility(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	demo, err := h.service.ToggleVisibility(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, demo)
}

// Duplicate handles POST /v1/demos/:id/duplicate.
//
// @Summary      Duplicate a demo the caller owns or that is public
// @Tags         demos
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Source demo id"
// @Success      201  {object}  domain.Demo
// @Failure      404  {object}  errorResponse
// @Router       /v1/demos/{id}/duplicate [post]
func (h *DemoHandler) Duplicate(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	demo, err := h.service.Duplicate(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}

	metrics.DemosCreatedTotal.WithLabelValues("duplicate").Inc()
	return c.JSON(http.StatusCreated, demo)
}

// demoWithStepsResponse keeps the wire step encoding (string position) while
// leaving the demo fields untouched.
type demoWithStepsResponse struct {
	domain.Demo
	Steps []stepResponse `json:"steps"`
}

func listFilterFromQuery(c echo.Context) ports.ListDemosFilter {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	filter := ports.ListDemosFilter{
		Search:    c.QueryParam("search"),
		SortBy:    c.QueryParam("sortBy"),
		SortOrder: c.QueryParam("sortOrder"),
		Page:      page,
		Limit:     limit,
	}
	if raw := c.QueryParam("isPublic"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			filter.IsPublic = &v
		}
	}
	return filter
}

func envelope(demos []*domain.Demo, total int64, filter ports.ListDemosFilter) listEnvelope[*domain.Demo] {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	return listEnvelope[*domain.Demo]{Data: demos, Total: total, Page: page, Limit: limit}
}
