package ports

import (
	"context"

	"github.com/stepwise/stepwise-api/internal/core/domain"
)

// StepRepository defines persistence operations for steps.
type StepRepository interface {
	Create(ctx context.Context, s *domain.Step) error
	FindByID(ctx context.Context, id string) (*domain.Step, error)
	// ListByDemo returns the demo's steps ordered by position, creation time
	// breaking ties.
	ListByDemo(ctx context.Context, demoID string) ([]*domain.Step, error)
	CountByDemo(ctx context.Context, demoID string) (int64, error)
	Update(ctx context.Context, s *domain.Step) error
	// Delete removes the step and, via cascade, its hotspots.
	Delete(ctx context.Context, id string) error
	// Reorder rewrites positions to 1..n following orderedIDs, in a single
	// transaction. orderedIDs must be exactly the demo's current step set.
	Reorder(ctx context.Context, demoID string, orderedIDs []string) error
}
