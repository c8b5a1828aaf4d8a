package ports

import (
	"context"

	"github.com/stepwise/stepwise-api/internal/core/domain"
)

// CreateStepInput carries the fields for a new step.
type CreateStepInput struct {
	Title       string
	Description *string
	ImageURL    string
	Position    int
}

// UpdateStepInput is a partial update; nil fields are left untouched.
type UpdateStepInput struct {
	Title       *string
	Description *string
	ImageURL    *string
	Position    *int
}

// StepWithHotspotsInput is the combined create: one step plus its hotspots.
type StepWithHotspotsInput struct {
	Step     CreateStepInput
	Hotspots []CreateHotspotInput
}

// StepWithHotspotsResult reports what the combined create actually persisted.
// The step is committed unconditionally; Hotspots holds only the ones that
// made it, individual failures having been logged and skipped.
type StepWithHotspotsResult struct {
	Step     *domain.Step      `json:"step"`
	Hotspots []*domain.Hotspot `json:"hotspots"`
}

// StepService exposes all step operations. Mutations are owner-only: the
// caller must own the demo the step belongs to.
type StepService interface {
	Create(ctx context.Context, demoID, callerID string, in CreateStepInput) (*domain.Step, error)
	CreateWithHotspots(ctx context.Context, demoID, callerID string, in StepWithHotspotsInput) (*StepWithHotspotsResult, error)
	ListByDemo(ctx context.Context, demoID, callerID string) ([]*domain.Step, error)
	// Get looks a step up by id with no authorization check; it backs the
	// existence checks that precede authorization elsewhere.
	Get(ctx context.Context, stepID string) (*domain.Step, error)
	Update(ctx context.Context, stepID, callerID string, in UpdateStepInput) (*domain.Step, error)
	Delete(ctx context.Context, stepID, callerID string) error
	Reorder(ctx context.Context, demoID, callerID string, orderedIDs []string) ([]*domain.Step, error)
}
