package ports

import (
	"context"

	"github.com/stepwise/stepwise-api/internal/core/domain"
)

// CreateHotspotInput carries the fields for a new hotspot. Geometry is in
// percentages of the step image. BorderRadius defaults to 0 when nil.
type CreateHotspotInput struct {
	StepID           string
	X                float64
	Y                float64
	Width            float64
	Height           float64
	Color            string
	BorderRadius     *float64
	TooltipText      *string
	TooltipPlacement *string
	TargetStepID     *string
}

// UpdateHotspotInput is a partial update; nil fields are left untouched.
// A non-nil TargetStepID is re-validated against the hotspot's demo.
type UpdateHotspotInput struct {
	X                *float64
	Y                *float64
	Width            *float64
	Height           *float64
	Color            *string
	BorderRadius     *float64
	TooltipText      *string
	TooltipPlacement *string
	TargetStepID     *string
}

// HotspotService exposes all hotspot operations. Mutations are owner-only via
// the step's demo.
type HotspotService interface {
	Create(ctx context.Context, callerID string, in CreateHotspotInput) (*domain.Hotspot, error)
	ListByStep(ctx context.Context, stepID string) ([]*domain.Hotspot, error)
	Get(ctx context.Context, id string) (*domain.Hotspot, error)
	Update(ctx context.Context, id, callerID string, in UpdateHotspotInput) (*domain.Hotspot, error)
	Delete(ctx context.Context, id, callerID string) error
	DeleteAllForStep(ctx context.Context, stepID, callerID string) (int64, error)
}
