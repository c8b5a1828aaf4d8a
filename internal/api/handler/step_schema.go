package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"net/http"

	"github.com/stepwise/stepwise-api/internal/core/domain"
	"github.com/stepwise/stepwise-api/internal/core/ports"
)

// Step numbers travel as strings on the wire — the editor's contract predates
// the numeric storage — so requests parse them and responses format them.

type createStepRequest struct {
	Title       string  `json:"title"       validate:"required,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	ImageURL    string  `json:"image_url"   validate:"omitempty,url"`
	Position    string  `json:"position"    validate:"required"`
}

type updateStepRequest struct {
	Title       *string `json:"title"       validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	ImageURL    *string `json:"image_url"   validate:"omitempty,url"`
	Position    *string `json:"position"`
}

type createStepWithHotspotsRequest struct {
	createStepRequest
	Hotspots []createHotspotFields `json:"hotspots" validate:"omitempty,dive"`
}

type stepResponse struct {
	ID          string    `json:"id"`
	DemoID      string    `json:"demo_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	ImageURL    string    `json:"image_url"`
	Position    string    `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type stepWithHotspotsResponse struct {
	Step     stepResponse      `json:"step"`
	Hotspots []hotspotResponse `json:"hotspots"`
}

func toStepResponse(s *domain.Step) stepResponse {
	return stepResponse{
		ID:          s.ID,
		DemoID:      s.DemoID,
		Title:       s.Title,
		Description: s.Description,
		ImageURL:    s.ImageURL,
		Position:    strconv.Itoa(s.Position),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (r createStepRequest) toInput() (ports.CreateStepInput, error) {
	position, err := strconv.Atoi(r.Position)
	if err != nil {
		return ports.CreateStepInput{}, echo.NewHTTPError(http.StatusBadRequest, "position must be an integer")
	}
	return ports.CreateStepInput{
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Position:    position,
	}, nil
}

func (r updateStepRequest) toInput() (ports.UpdateStepInput, error) {
	in := ports.UpdateStepInput{
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    r.ImageURL,
	}
	if r.Position != nil {
		position, err := strconv.Atoi(*r.Position)
		if err != nil {
			return ports.UpdateStepInput{}, echo.NewHTTPError(http.StatusBadRequest, "position must be an integer")
		}
		in.Position = &position
	}
	return in, nil
}

// parseWireFloat parses a decimal-string field, naming it in the error.
func parseWireFloat(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s must be a decimal number", field))
	}
	return v, nil
}

// formatWireFloat renders a geometry value the way the editor sent it:
// shortest decimal representation, no exponent.
func formatWireFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
