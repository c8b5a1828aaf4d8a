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

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// DemoCache abstracts the read-through cache for public demo lookups (Redis).
// Implementations must only ever hold public demos.
type DemoCache interface {
	Get(ctx context.Context, idOrSlug string) (*domain.Demo, bool)
	Set(ctx context.Context, d *domain.Demo)
	Invalidate(ctx context.Context, d *domain.Demo)
}

// DemoService implements all demo operations.
type DemoService struct {
	demos    ports.DemoRepository
	steps    ports.StepRepository
	hotspots ports.HotspotRepository
	storage  ports.ObjectStorage
	cache    DemoCache
	logger   zerolog.Logger
}

func NewDemoService(
	demos ports.DemoRepository,
	steps ports.StepRepository,
	hotspots ports.HotspotRepository,
	storage ports.ObjectStorage,
	cache DemoCache,
	logger zerolog.Logger,
) *DemoService {
	return &DemoService{
		demos:    demos,
		steps:    steps,
		hotspots: hotspots,
		storage:  storage,
		cache:    cache,
		logger:   logger,
	}
}

// Create inserts a new private demo with a freshly allocated slug. The probe
// and the insert race under concurrent creation, so a unique-violation from
// the store restarts allocation.
func (s *DemoService) Create(ctx context.Context, callerID string, in ports.CreateDemoInput) (*domain.Demo, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}

	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug, err := allocateSlug(ctx, s.demos, callerID, in.Title)
		if err != nil {
			return nil, err
		}

		now := time.Now().UTC()
		demo := &domain.Demo{
			ID:          uuid.NewString(),
			Title:       in.Title,
			Slug:        slug,
			Description: in.Description,
			UserID:      callerID,
			IsPublic:    false,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		err = s.demos.Create(ctx, demo)
		if errors.Is(err, domain.ErrSlugConflict) {
			s.logger.Warn().Str("slug", slug).Int("attempt", attempt+1).Msg("slug race lost, reallocating")
			continue
		}
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to create demo")
			return nil, err
		}

		s.logger.Info().Str("demo_id", demo.ID).Str("slug", slug).Str("user_id", callerID).Msg("demo created")
		return demo, nil
	}

	return nil, domain.ErrSlugConflict
}

// ListOwn returns a page of the caller's demos plus the filter-wide total.
func (s *DemoService) ListOwn(ctx context.Context, callerID string, filter ports.ListDemosFilter) ([]*domain.Demo, int64, error) {
	filter.OwnerID = callerID
	normalizeFilter(&filter)
	return s.demos.List(ctx, filter)
}

// ListPublic returns a page of public demos regardless of owner.
func (s *DemoService) ListPublic(ctx context.Context, filter ports.ListDemosFilter) ([]*domain.Demo, int64, error) {
	filter.OwnerID = ""
	public := true
	filter.IsPublic = &public
	normalizeFilter(&filter)
	return s.demos.List(ctx, filter)
}

// Get resolves a demo by id or slug. A private demo read by anyone but its
// owner reports ErrDemoNotFound, never ErrForbidden.
func (s *DemoService) Get(ctx context.Context, idOrSlug, callerID string) (*domain.Demo, error) {
	if s.cache != nil {
		if demo, ok := s.cache.Get(ctx, idOrSlug); ok {
			return demo, nil
		}
	}

	demo, err := s.demos.FindByIDOrSlug(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	if !demo.VisibleTo(callerID) {
		return nil, domain.ErrDemoNotFound
	}

	if s.cache != nil && demo.IsPublic {
		s.cache.Set(ctx, demo)
	}
	return demo, nil
}

func (s *DemoService) GetWithSteps(ctx context.Context, idOrSlug, callerID string) (*domain.DemoWithSteps, error) {
	demo, err := s.Get(ctx, idOrSlug, callerID)
	if err != nil {
		return nil, err
	}
	steps, err := s.steps.ListByDemo(ctx, demo.ID)
	if err != nil {
		return nil, err
	}
	return &domain.DemoWithSteps{Demo: *demo, Steps: steps}, nil
}

func (s *DemoService) GetWithStepsCount(ctx context.Context, idOrSlug, callerID string) (*domain.DemoWithStepsCount, error) {
	demo, err := s.Get(ctx, idOrSlug, callerID)
	if err != nil {
		return nil, err
	}
	count, err := s.steps.CountByDemo(ctx, demo.ID)
	if err != nil {
		return nil, err
	}
	return &domain.DemoWithStepsCount{Demo: *demo, StepsCount: count}, nil
}

// Update applies a partial update. Changing the title does not re-slug; the
// slug only moves when supplied explicitly, in which case it is re-normalized
// and checked for collision among the owner's slugs.
func (s *DemoService) Update(ctx context.Context, id, callerID string, in ports.UpdateDemoInput) (*domain.Demo, error) {
	if in.Title == nil && in.Description == nil && in.Slug == nil && in.IsPublic == nil {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrValidation)
	}

	demo, err := s.ownedDemo(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	prevSlug := demo.Slug

	if in.Title != nil {
		if *in.Title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrValidation)
		}
		demo.Title = *in.Title
	}
	if in.Description != nil {
		demo.Description = in.Description
	}
	if in.Slug != nil && slugify(*in.Slug) != demo.Slug {
		next := slugify(*in.Slug)
		taken, err := s.demos.ListSlugs(ctx, callerID, next)
		if err != nil {
			return nil, err
		}
		for _, t := range taken {
			if t == next {
				return nil, domain.ErrSlugConflict
			}
		}
		demo.Slug = next
	}
	if in.IsPublic != nil {
		demo.IsPublic = *in.IsPublic
	}
	demo.UpdatedAt = time.Now().UTC()

	if err := s.demos.Update(ctx, demo); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, demo)
		// A slug rename must also drop the key cached under the old slug.
		if prevSlug != demo.Slug {
			retired := *demo
			retired.Slug = prevSlug
			s.cache.Invalidate(ctx, &retired)
		}
	}
	return demo, nil
}

// Delete removes the demo along with its steps and hotspots, then cleans up
// the stored step images. Image cleanup is best-effort: the store commit is
// the source of truth and an unreachable object store never blocks it.
func (s *DemoService) Delete(ctx context.Context, id, callerID string) error {
	demo, err := s.ownedDemo(ctx, id, callerID)
	if err != nil {
		return err
	}

	steps, err := s.steps.ListByDemo(ctx, demo.ID)
	if err != nil {
		return err
	}

	if err := s.demos.Delete(ctx, demo.ID); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, demo)
	}

	for _, step := range steps {
		if step.ImageURL == "" {
			continue
		}
		if err := s.storage.Delete(ctx, step.ImageURL); err != nil {
			s.logger.Warn().Err(err).Str("step_id", step.ID).Str("url", step.ImageURL).Msg("orphaned step image")
		}
	}

	s.logger.Info().Str("demo_id", demo.ID).Int("steps", len(steps)).Msg("demo deleted")
	return nil
}

// ToggleVisibility flips IsPublic. Applying it twice restores the original
// state.
func (s *DemoService) ToggleVisibility(ctx context.Context, id, callerID string) (*domain.Demo, error) {
	demo, err := s.ownedDemo(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	demo.IsPublic = !demo.IsPublic
	demo.UpdatedAt = time.Now().UTC()

	if err := s.demos.Update(ctx, demo); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, demo)
	}
	return demo, nil
}

// Duplicate creates a fresh private copy of a demo the caller owns or that is
// public. The copy is shallow: steps and hotspots stay with the original,
// matching the original product behavior.
func (s *DemoService) Duplicate(ctx context.Context, id, callerID string) (*domain.Demo, error) {
	source, err := s.demos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !source.VisibleTo(callerID) {
		return nil, domain.ErrDemoNotFound
	}

	return s.Create(ctx, callerID, ports.CreateDemoInput{
		Title:       source.Title + " (Copy)",
		Description: source.Description,
	})
}

// ownedDemo loads a demo for mutation: unknown ids and private demos of other
// users read as not-found, visible demos owned by someone else as forbidden.
func (s *DemoService) ownedDemo(ctx context.Context, id, callerID string) (*domain.Demo, error) {
	demo, err := s.demos.FindByID(ctx, id)
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

func normalizeFilter(f *ports.ListDemosFilter) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = defaultPageLimit
	}
	if f.Limit > maxPageLimit {
		f.Limit = maxPageLimit
	}
	switch f.SortBy {
	case ports.SortByTitle, ports.SortByCreatedAt, ports.SortByUpdatedAt:
	default:
		f.SortBy = ports.SortByCreatedAt
	}
	if f.SortOrder != "asc" {
		f.SortOrder = "desc"
	}
}
