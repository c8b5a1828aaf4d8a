package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stepwise/stepwise-api/internal/core/domain"
	"github.com/stepwise/stepwise-api/internal/core/ports"
)

// StepService implements all step operations. Every mutation requires the
// caller to own the parent demo.
type StepService struct {
	demos    ports.DemoRepository
	steps    ports.StepRepository
	hotspots ports.HotspotRepository
	storage  ports.ObjectStorage
	logger   zerolog.Logger
}

func NewStepService(
	demos ports.DemoRepository,
	steps ports.StepRepository,
	hotspots ports.HotspotRepository,
	storage ports.ObjectStorage,
	logger zerolog.Logger,
) *StepService {
	return &StepService{demos: demos, steps: steps, hotspots: hotspots, storage: storage, logger: logger}
}

func (s *StepService) Create(ctx context.Context, demoID, callerID string, in ports.CreateStepInput) (*domain.Step, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}

	if _, err := s.ownedDemo(ctx, demoID, callerID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	step := &domain.Step{
		ID:          uuid.NewString(),
		DemoID:      demoID,
		Title:       in.Title,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Position:    in.Position,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.steps.Create(ctx, step); err != nil {
		s.logger.Error().Err(err).Str("demo_id", demoID).Msg("failed to create step")
		return nil, err
	}
	return step, nil
}

// CreateWithHotspots creates one step, then each supplied hotspot on its own.
// The step commits unconditionally; a failing hotspot is logged and skipped,
// and the result carries only the hotspots that stuck.
func (s *StepService) CreateWithHotspots(ctx context.Context, demoID, callerID string, in ports.StepWithHotspotsInput) (*ports.StepWithHotspotsResult, error) {
	step, err := s.Create(ctx, demoID, callerID, in.Step)
	if err != nil {
		return nil, err
	}

	result := &ports.StepWithHotspotsResult{Step: step, Hotspots: make([]*domain.Hotspot, 0, len(in.Hotspots))}
	for i, hin := range in.Hotspots {
		hin.StepID = step.ID
		hotspot, err := s.createHotspot(ctx, step, hin)
		if err != nil {
			s.logger.Warn().Err(err).Str("step_id", step.ID).Int("index", i).Msg("hotspot skipped during combined create")
			continue
		}
		result.Hotspots = append(result.Hotspots, hotspot)
	}
	return result, nil
}

// createHotspot validates and persists a hotspot under an already-authorized
// step. Shared with HotspotService via the same rules: geometry in [0,100],
// color required, target step must belong to the same demo.
func (s *StepService) createHotspot(ctx context.Context, step *domain.Step, in ports.CreateHotspotInput) (*domain.Hotspot, error) {
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
		return nil, err
	}
	return hotspot, nil
}

// ListByDemo returns the demo's steps in display order. Reading follows demo
// visibility: public demos list for anyone, private ones only for the owner.
func (s *StepService) ListByDemo(ctx context.Context, demoID, callerID string) ([]*domain.Step, error) {
	demo, err := s.demos.FindByID(ctx, demoID)
	if err != nil {
		return nil, err
	}
	if !demo.VisibleTo(callerID) {
		return nil, domain.ErrDemoNotFound
	}
	return s.steps.ListByDemo(ctx, demoID)
}

// Get looks a step up by id without authorization; hotspot operations use it
// as an existence check before their own ownership verification.
func (s *StepService) Get(ctx context.Context, stepID string) (*domain.Step, error) {
	return s.steps.FindByID(ctx, stepID)
}

func (s *StepService) Update(ctx context.Context, stepID, callerID string, in ports.UpdateStepInput) (*domain.Step, error) {
	if in.Title == nil && in.Description == nil && in.ImageURL == nil && in.Position == nil {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrValidation)
	}

	step, err := s.ownedStep(ctx, stepID, callerID)
	if err != nil {
		return nil, err
	}

	oldImage := step.ImageURL
	if in.Title != nil {
		if *in.Title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrValidation)
		}
		step.Title = *in.Title
	}
	if in.Description != nil {
		step.Description = in.Description
	}
	if in.ImageURL != nil {
		step.ImageURL = *in.ImageURL
	}
	if in.Position != nil {
		step.Position = *in.Position
	}
	step.UpdatedAt = time.Now().UTC()

	if err := s.steps.Update(ctx, step); err != nil {
		return nil, err
	}

	if in.ImageURL != nil && oldImage != "" && oldImage != step.ImageURL {
		if err := s.storage.Delete(ctx, oldImage); err != nil {
			s.logger.Warn().Err(err).Str("url", oldImage).Msg("orphaned step image after replace")
		}
	}
	return step, nil
}

// Delete removes the step and its hotspots, then the stored image.
func (s *StepService) Delete(ctx context.Context, stepID, callerID string) error {
	step, err := s.ownedStep(ctx, stepID, callerID)
	if err != nil {
		return err
	}

	if err := s.steps.Delete(ctx, step.ID); err != nil {
		return err
	}

	if step.ImageURL != "" {
		if err := s.storage.Delete(ctx, step.ImageURL); err != nil {
			s.logger.Warn().Err(err).Str("step_id", step.ID).Str("url", step.ImageURL).Msg("orphaned step image")
		}
	}
	return nil
}

// Reorder rewrites the demo's step positions to match orderedIDs, atomically.
// The id set must be exactly the demo's current steps; anything else rejects
// the whole reorder so a stale editor cannot half-apply a drag.
func (s *StepService) Reorder(ctx context.Context, demoID, callerID string, orderedIDs []string) ([]*domain.Step, error) {
	if _, err := s.ownedDemo(ctx, demoID, callerID); err != nil {
		return nil, err
	}
	if len(orderedIDs) == 0 {
		return nil, fmt.Errorf("%w: step order is required", domain.ErrValidation)
	}

	if err := s.steps.Reorder(ctx, demoID, orderedIDs); err != nil {
		return nil, err
	}
	return s.steps.ListByDemo(ctx, demoID)
}

func (s *StepService) ownedDemo(ctx context.Context, demoID, callerID string) (*domain.Demo, error) {
	demo, err := s.demos.FindByID(ctx, demoID)
	if err != nil {
		return nil, err
	}
	if demo.UserID != callerID {
		if !demo.IsPublic {
			return nil, domain.ErrDemoNotFound
		}
		return nil, domain.ErrForbidden
	}
	return demo, nil
}

func (s *StepService) ownedStep(ctx context.Context, stepID, callerID string) (*domain.Step, error) {
	step, err := s.steps.FindByID(ctx, stepID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedDemo(ctx, step.DemoID, callerID); err != nil {
		return nil, err
	}
	return step, nil
}
