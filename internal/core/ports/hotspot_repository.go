package ports

import (
	"context"

	"github.com/stepwise/stepwise-api/internal/core/domain"
)

// HotspotRepository defines persistence operations for hotspots.
type HotspotRepository interface {
	Create(ctx context.Context, h *domain.Hotspot) error
	FindByID(ctx context.Context, id string) (*domain.Hotspot, error)
	ListByStep(ctx context.Context, stepID string) ([]*domain.Hotspot, error)
	Update(ctx context.Context, h *domain.Hotspot) error
	Delete(ctx context.Context, id string) error
	// DeleteByStep removes every hotspot of the step and returns the exact
	// number deleted, taken from the delete itself rather than a prior read.
	DeleteByStep(ctx context.Context, stepID string) (int64, error)
}
