package domain

import "time"

// Tooltip placements accepted by the editor.
const (
	TooltipTop    = "top"
	TooltipBottom = "bottom"
	TooltipLeft   = "left"
	TooltipRight  = "right"
)

// Hotspot is a clickable rectangle on a step's image. Geometry is expressed
// as percentages of the image (0–100), so it survives any rendered size.
// TargetStepID, when set, must point at a step of the same demo.
type Hotspot struct {
	ID               string    `json:"id" db:"id"`
	StepID           string    `json:"step_id" db:"step_id"`
	X                float64   `json:"x" db:"x"`
	Y                float64   `json:"y" db:"y"`
	Width            float64   `json:"width" db:"width"`
	Height           float64   `json:"height" db:"height"`
	Color            string    `json:"color" db:"color"`
	BorderRadius     float64   `json:"border_radius" db:"border_radius"`
	TooltipText      *string   `json:"tooltip_text,omitempty" db:"tooltip_text"`
	TooltipPlacement *string   `json:"tooltip_placement,omitempty" db:"tooltip_placement"`
	TargetStepID     *string   `json:"target_step_id,omitempty" db:"target_step_id"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}
