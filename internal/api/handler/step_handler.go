package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stepwise/stepwise-api/internal/api/metrics"
	"github.com/stepwise/stepwise-api/internal/core/ports"
)

// StepHandler handles HTTP requests for step operations.
type StepHandler struct {
	service ports.StepService
}

func NewStepHandler(service ports.StepService) *StepHandler {
	return &StepHandler{service: service}
}

// Create handles POST /v1/demos/:id/steps.
//
// @Summary      Add a step to a demo
// @Tags         steps
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Demo id"
// @Param        body  body      createStepRequest  true  "Step details"
// @Success      201   {object}  stepResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/demos/{id}/steps [post]
func (h *StepHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createStepRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}

	step, err := h.service.Create(c.Request().Context(), c.Param("id"), userID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toStepResponse(step))
}

// CreateWithHotspots handles POST /v1/demos/:id/steps/with-hotspots. The step
// commits first; hotspots are best-effort and the response lists only the
// ones that were created.
//
// @Summary      Add a step together with its hotspots
// @Tags         steps
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                         true  "Demo id"
// @Param        body  body      createStepWithHotspotsRequest  true  "Step and hotspot details"
// @Success      201   {object}  stepWithHotspotsResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/demos/{id}/steps/with-hotspots [post]
func (h *StepHandler) CreateWithHotspots(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createStepWithHotspotsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	stepIn, err := req.createStepRequest.toInput()
	if err != nil {
		return err
	}
	hotspotIns := make([]ports.CreateHotspotInput, 0, len(req.Hotspots))
	for _, hf := range req.Hotspots {
		hin, err := hf.toInput()
		if err != nil {
			return err
		}
		hotspotIns = append(hotspotIns, hin)
	}

	result, err := h.service.CreateWithHotspots(c.Request().Context(), c.Param("id"), userID, ports.StepWithHotspotsInput{
		Step:     stepIn,
		Hotspots: hotspotIns,
	})
	if err != nil {
		return err
	}

	resp := stepWithHotspotsResponse{
		Step:     toStepResponse(result.Step),
		Hotspots: make([]hotspotResponse, 0, len(result.Hotspots)),
	}
	for _, hs := range result.Hotspots {
		resp.Hotspots = append(resp.Hotspots, toHotspotResponse(hs))
	}
	return c.JSON(http.StatusCreated, resp)
}

// ListByDemo handles GET /v1/demos/:id/steps, ordered by position.
//
// @Summary      List a demo's steps
// @Tags         steps
// @Produce      json
// @Param        id  path      string  true  "Demo id"
// @Success      200  {array}   stepResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/demos/{id}/steps [get]
func (h *StepHandler) ListByDemo(c echo.Context) error {
	steps, err := h.service.ListByDemo(c.Request().Context(), c.Param("id"), ctxOptionalUserID(c))
	if err != nil {
		return err
	}

	resp := make([]stepResponse, 0, len(steps))
	for _, s := range steps {
		resp = append(resp, toStepResponse(s))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /v1/steps/:id.
//
// @Summary      Get a step by id
// @Tags         steps
// @Produce      json
// @Param        id  path      string  true  "Step id"
// @Success      200  {object}  stepResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/steps/{id} [get]
func (h *StepHandler) Get(c echo.Context) error {
	step, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStepResponse(step))
}

// Update handles PATCH /v1/steps/:id.
//
// @Summary      Update a step
// @Tags         steps
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Step id"
// @Param        body  body      updateStepRequest  true  "Fields to change"
// @Success      200   {object}  stepResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/steps/{id} [patch]
func (h *StepHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateStepRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}

	step, err := h.service.Update(c.Request().Context(), c.Param("id"), userID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStepResponse(step))
}

// Delete handles DELETE /v1/steps/:id.
//
// @Summary      Delete a step, its hotspots, and its stored image
// @Tags         steps
// @Security     BearerAuth
// @Param        id  path  string  true  "Step id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/steps/{id} [delete]
func (h *StepHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Reorder handles PUT /v1/demos/:id/steps/order. The body must list every
// step of the demo exactly once; positions are rewritten atomically.
//
// @Summary      Reorder a demo's steps
// @Tags         steps
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Demo id"
// @Param        body  body      reorderStepsRequest  true  "Full step order"
// @Success      200   {array}   stepResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/demos/{id}/steps/order [put]
func (h *StepHandler) Reorder(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req reorderStepsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	steps, err := h.service.Reorder(c.Request().Context(), c.Param("id"), userID, req.StepIDs)
	if err != nil {
		return err
	}

	metrics.StepReordersTotal.Inc()
	resp := make([]stepResponse, 0, len(steps))
	for _, s := range steps {
		resp = append(resp, toStepResponse(s))
	}
	return c.JSON(http.StatusOK, resp)
}
