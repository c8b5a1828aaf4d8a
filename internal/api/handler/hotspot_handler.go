package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stepwise/stepwise-api/internal/core/ports"
)

// HotspotHandler handles HTTP requests for hotspot operations.
type HotspotHandler struct {
	service ports.HotspotService
}

func NewHotspotHandler(service ports.HotspotService) *HotspotHandler {
	return &HotspotHandler{service: service}
}

// Create handles POST /v1/hotspots.
//
// @Summary      Add a hotspot to a step
// @Tags         hotspots
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createHotspotRequest  true  "Hotspot details"
// @Success      201   {object}  hotspotResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/hotspots [post]
func (h *HotspotHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createHotspotRequest
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

	hotspot, err := h.service.Create(c.Request().Context(), userID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toHotspotResponse(hotspot))
}

// ListByStep handles GET /v1/steps/:id/hotspots.
//
// @Summary      List a step's hotspots
// @Tags         hotspots
// @Produce      json
// @Param        id  path      string  true  "Step id"
// @Success      200  {array}   hotspotResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/steps/{id}/hotspots [get]
func (h *HotspotHandler) ListByStep(c echo.Context) error {
	hotspots, err := h.service.ListByStep(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	resp := make([]hotspotResponse, 0, len(hotspots))
	for _, hs := range hotspots {
		resp = append(resp, toHotspotResponse(hs))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /v1/hotspots/:id.
//
// @Summary      Get a hotspot by id
// @Tags         hotspots
// @Produce      json
// @Param        id  path      string  true  "Hotspot id"
// @Success      200  {object}  hotspotResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/hotspots/{id} [get]
func (h *HotspotHandler) Get(c echo.Context) error {
	hotspot, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toHotspotResponse(hotspot))
}

// Update handles PATCH /v1/hotspots/:id.
//
// @Summary      Update a hotspot
// @Tags         hotspots
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Hotspot id"
// @Param        body  body      updateHotspotRequest  true  "Fields to change"
// @Success      200   {object}  hotspotResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/hotspots/{id} [patch]
func (h *HotspotHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateHotspotRequest
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

	hotspot, err := h.service.Update(c.Request().Context(), c.Param("id"), userID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toHotspotResponse(hotspot))
}

// Delete handles DELETE /v1/hotspots/:id.
//
// @Summary      Delete a hotspot
// @Tags         hotspots
// @Security     BearerAuth
// @Param        id  path  string  true  "Hotspot id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/hotspots/{id} [delete]
func (h *HotspotHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteAllForStep handles DELETE /v1/steps/:id/hotspots and reports how many
// rows went away.
//
// @Summary      Delete every hotspot of a step
// @Tags         hotspots
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Step id"
// @Success      200  {object}  deletedCountResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/steps/{id}/hotspots [delete]
func (h *HotspotHandler) DeleteAllForStep(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	count, err := h.service.DeleteAllForStep(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deletedCountResponse{Deleted: count})
}

type deletedCountResponse struct {
	Deleted int64 `json:"deleted"`
}
