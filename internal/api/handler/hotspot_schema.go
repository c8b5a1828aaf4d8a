package handler

import (
	"time"

	"github.com/stepwise/stepwise-api/internal/core/domain"
	"github.com/stepwise/stepwise-api/internal/core/ports"
)

// Hotspot geometry travels as decimal strings for the same reason step
// positions do.

type createHotspotFields struct {
	X                string  `json:"x"                 validate:"required"`
	Y                string  `json:"y"                 validate:"required"`
	Width            string  `json:"width"             validate:"required"`
	Height           string  `json:"height"            validate:"required"`
	Color            string  `json:"color"             validate:"required,max=50"`
	BorderRadius     *string `json:"border_radius"`
	TooltipText      *string `json:"tooltip_text"      validate:"omitempty,max=1000"`
	TooltipPlacement *string `json:"tooltip_placement" validate:"omitempty,oneof=top bottom left right"`
	TargetStepID     *string `json:"target_step_id"`
}

type createHotspotRequest struct {
	StepID string `json:"step_id" validate:"required"`
	createHotspotFields
}

type updateHotspotRequest struct {
	X                *string `json:"x"`
	Y                *string `json:"y"`
	Width            *string `json:"width"`
	Height           *string `json:"height"`
	Color            *string `json:"color"             validate:"omitempty,max=50"`
	BorderRadius     *string `json:"border_radius"`
	TooltipText      *string `json:"tooltip_text"      validate:"omitempty,max=1000"`
	TooltipPlacement *string `json:"tooltip_placement" validate:"omitempty,oneof=top bottom left right"`
	TargetStepID     *string `json:"target_step_id"`
}

type hotspotResponse struct {
	ID               string    `json:"id"`
	StepID           string    `json:"step_id"`
	X                string    `json:"x"`
	Y                string    `json:"y"`
	Width            string    `json:"width"`
	Height           string    `json:"height"`
	Color            string    `json:"color"`
	BorderRadius     string    `json:"border_radius"`
	TooltipText      *string   `json:"tooltip_text,omitempty"`
	TooltipPlacement *string   `json:"tooltip_placement,omitempty"`
	TargetStepID     *string   `json:"target_step_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func toHotspotResponse(h *domain.Hotspot) hotspotResponse {
	return hotspotResponse{
		ID:               h.ID,
		StepID:           h.StepID,
		X:                formatWireFloat(h.X),
		Y:                formatWireFloat(h.Y),
		Width:            formatWireFloat(h.Width),
		Height:           formatWireFloat(h.Height),
		Color:            h.Color,
		BorderRadius:     formatWireFloat(h.BorderRadius),
		TooltipText:      h.TooltipText,
		TooltipPlacement: h.TooltipPlacement,
		TargetStepID:     h.TargetStepID,
		CreatedAt:        h.CreatedAt,
		UpdatedAt:        h.UpdatedAt,
	}
}

func (f createHotspotFields) toInput() (ports.CreateHotspotInput, error) {
	in := ports.CreateHotspotInput{
		Color:            f.Color,
		TooltipText:      f.TooltipText,
		TooltipPlacement: f.TooltipPlacement,
		TargetStepID:     f.TargetStepID,
	}

	var err error
	if in.X, err = parseWireFloat("x", f.X); err != nil {
		return ports.CreateHotspotInput{}, err
	}
	if in.Y, err = parseWireFloat("y", f.Y); err != nil {
		return ports.CreateHotspotInput{}, err
	}
	if in.Width, err = parseWireFloat("width", f.Width); err != nil {
		return ports.CreateHotspotInput{}, err
	}
	if in.Height, err = parseWireFloat("height", f.Height); err != nil {
		return ports.CreateHotspotInput{}, err
	}
	if f.BorderRadius != nil {
		radius, err := parseWireFloat("border_radius", *f.BorderRadius)
		if err != nil {
			return ports.CreateHotspotInput{}, err
		}
		in.BorderRadius = &radius
	}
	return in, nil
}

func (r createHotspotRequest) toInput() (ports.CreateHotspotInput, error) {
	in, err := r.createHotspotFields.toInput()
	if err != nil {
		return ports.CreateHotspotInput{}, err
	}
	in.StepID = r.StepID
	return in, nil
}

func (r updateHotspotRequest) toInput() (ports.UpdateHotspotInput, error) {
	in := ports.UpdateHotspotInput{
		Color:            r.Color,
		TooltipText:      r.TooltipText,
		TooltipPlacement: r.TooltipPlacement,
		TargetStepID:     r.TargetStepID,
	}

	parse := func(field string, raw *string, dst **float64) error {
		if raw == nil {
			return nil
		}
		v, err := parseWireFloat(field, *raw)
		if err != nil {
			return err
		}
		*dst = &v
		return nil
	}
	if err := parse("x", r.X, &in.X); err != nil {
		return ports.UpdateHotspotInput{}, err
	}
	if err := parse("y", r.Y, &in.Y); err != nil {
		return ports.UpdateHotspotInput{}, err
	}
	if err := parse("width", r.Width, &in.Width); err != nil {
		return ports.UpdateHotspotInput{}, err
	}
	if err := parse("height", r.Height, &in.Height); err != nil {
		return ports.UpdateHotspotInput{}, err
	}
	if err := parse("border_radius", r.BorderRadius, &in.BorderRadius); err != nil {
		return ports.UpdateHotspotInput{}, err
	}
	return in, nil
}
