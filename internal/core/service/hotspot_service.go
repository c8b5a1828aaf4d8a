package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stepwise/stepwise-api/internal/core/domain"
	"github.com/stepwise/stepwise-api/internal/core/ports"
)

// HotspotService implements all hotspot operations. Mutations require the
// caller to own the demo the parent step belongs to.
type HotspotService struct {
	demos    ports.DemoRepository
	steps    ports.StepRepository
	hotspots ports.HotspotRepository
	logger   zerolog.Logger
}

func NewHotspotService(
	demos ports.DemoRepository,
	steps ports.StepRepository,
	hotspots ports.HotspotRepository,
	logger zerolog.Logger,
) *HotspotService {
	return &HotspotService{demos: demos, steps: steps, hotspots: hotspots, logger: logger}
}

func (s *HotspotService) Create(ctx context.Context, callerID string, in ports.CreateHotspotInput) (*domain.Hotspot, error) {
	step, err := s.ownedStep(ctx, in.StepID, callerID)
	if err != nil {
		return nil, err
	}
	if err := validateGeometry(in.X, in.Y, in.Width, in.Height); err != nil {
		return nil, err
	}
	if in.Color == "" {
		return nil, fmt.Errorf("%w: color is required", domain.ErrValidation)
	}
	if in.TargetStepID != nil {
		if err := validateTarget(ctx, s.steps, step.DemoID, *in.TargetStepID); err != nil {
			return nil, err
		}
	}

	radius := 0.0
	if in.BorderRadius != nil {
		radius = *in.BorderRadius
	}

	now := time.Now().UTC()
	hotspot := &domain.Hotspot{
		ID:               uuid.NewString(),
		StepID:           step.ID,
		X:                in.X,
		Y:                in.Y,
		Width:            in.Width,
		Height:           in.Height,
		Color:            in.Color,
		BorderRadius:     radius,
		TooltipText:      in.TooltipText,
		TooltipPlacement: in.TooltipPlacement,
		TargetStepID:     in.TargetStepID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.hotspots.Create(ctx, hotspot); err != nil {
		s.logger.Error().Err(err).Str("step_id", step.ID).Msg("failed to create hotspot")
		return nil, err
	}
	return hotspot, nil
}

// ListByStep returns every hotspot of the step, unordered.
func (s *HotspotService) ListByStep(ctx context.Context, stepID string) ([]*domain.Hotspot, error) {
	if _, err := s.steps.FindByID(ctx, stepID); err != nil {
		return nil, err
	}
	return s.hotspots.ListByStep(ctx, stepID)
}

func (s *HotspotService) Get(ctx context.Context, id string) (*domain.Hotspot, error) {
	return s.hotspots.FindByID(ctx, id)
}

func (s *HotspotService) Update(ctx context.Context, id, callerID string, in ports.UpdateHotspotInput) (*domain.Hotspot, error) {
	if in.X == nil && in.Y == nil && in.Width == nil && in.Height == nil &&
		in.Color == nil && in.BorderRadius == nil && in.TooltipText == nil &&
		in.TooltipPlacement == nil && in.TargetStepID == nil {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrValidation)
	}

	hotspot, err := s.hotspots.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	step, err := s.ownedStep(ctx, hotspot.StepID, callerID)
	if err != nil {
		return nil, err
	}

	if in.X != nil {
		hotspot.X = *in.X
	}
	if in.Y != nil {
		hotspot.Y = *in.Y
	}
	if in.Width != nil {
		hotspot.Width = *in.Width
	}
	if in.Height != nil {
		hotspot.Height = *in.Height
	}
	if err := validateGeometry(hotspot.X, hotspot.Y, hotspot.Width, hotspot.Height); err != nil {
		return nil, err
	}
	if in.Color != nil {
		if *in.Color == "" {
			return nil, fmt.Errorf("%w: color cannot be empty", domain.ErrValidation)
		}
		hotspot.Color = *in.Color
	}
	if in.BorderRadius != nil {
		hotspot.BorderRadius = *in.BorderRadius
	}
	if in.TooltipText != nil {
		hotspot.TooltipText = in.TooltipText
	}
	if in.TooltipPlacement != nil {
		hotspot.TooltipPlacement = in.TooltipPlacement
	}
	if in.TargetStepID != nil {
		if *in.TargetStepID == "" {
			hotspot.TargetStepID = nil
		} else {
			if err := validateTarget(ctx, s.steps, step.DemoID, *in.TargetStepID); err != nil {
				return nil, err
			}
			hotspot.TargetStepID = in.TargetStepID
		}
	}
	hotspot.UpdatedAt = time.Now().UTC()

	if err := s.hotspots.Update(ctx, hotspot); err != nil {
		return nil, err
	}
	return hotspot, nil
}

func (s *HotspotService) Delete(ctx context.Context, id, callerID string) error {
	hotspot, err := s.hotspots.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.ownedStep(ctx, hotspot.StepID, callerID); err != nil {
		return err
	}
	return s.hotspots.Delete(ctx, id)
}

// DeleteAllForStep removes every hotspot of the step and reports how many
// rows the delete itself touched.
func (s *HotspotService) DeleteAllForStep(ctx context.Context, stepID, callerID string) (int64, error) {
	if _, err := s.ownedStep(ctx, stepID, callerID); err != nil {
		return 0, err
	}

	deleted, err := s.hotspots.DeleteByStep(ctx, stepID)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Str("step_id", stepID).Int64("deleted", deleted).Msg("hotspots cleared")
	return deleted, nil
}

// ownedStep loads a step and verifies the caller owns its demo.
func (s *HotspotService) ownedStep(ctx context.Context, stepID, callerID string) (*domain.Step, error) {
	step, err := s.steps.FindByID(ctx, stepID)
	if err != nil {
		return nil, err
	}
	demo, err := s.demos.FindByID(ctx, step.DemoID)
	if err != nil {
		return nil, err
	}
	if demo.UserID != callerID {
		if !demo.IsPublic {
			return nil, domain.ErrStepNotFound
		}
		return nil, domain.ErrForbidden
	}
	return step, nil
}

// validateGeometry checks that a hotspot rectangle stays within the image:
// origin in [0,100], positive extent, and the far edge not past 100.
func validateGeometry(x, y, width, height float64) error {
	if x < 0 || x > 100 || y < 0 || y > 100 {
		return fmt.Errorf("%w: x and y must be within 0-100", domain.ErrValidation)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width and height must be positive", domain.ErrValidation)
	}
	if x+width > 100 || y+height > 100 {
		return fmt.Errorf("%w: hotspot extends past the image edge", domain.ErrValidation)
	}
	return nil
}

// validateTarget checks that a navigation target exists and belongs to the
// same demo. Both failures read as the target being absent; confirming that
// a step exists in someone else's demo would leak existence.
func validateTarget(ctx context.Context, steps ports.StepRepository, demoID, targetStepID string) error {
	target, err := steps.FindByID(ctx, targetStepID)
	if err != nil {
		if errors.Is(err, domain.ErrStepNotFound) {
			return domain.ErrTargetStepNotFound
		}
		return err
	}
	if target.DemoID != demoID {
		return domain.ErrTargetStepNotFound
	}
	return nil
}
