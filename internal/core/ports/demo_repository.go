package ports

import (
	"context"

	"github.com/stepwise/stepwise-api/internal/core/domain"
)

// Sort keys accepted by ListDemosFilter. Anything else falls back to creation
// time, newest first.
const (
	SortByTitle     = "title"
	SortByCreatedAt = "createdAt"
	SortByUpdatedAt = "updatedAt"
)

// ListDemosFilter carries all query parameters for listing demos.
type ListDemosFilter struct {
	OwnerID   string // non-empty = scoped to a single owner
	Search    string // optional: case-insensitive substring over title or description
	IsPublic  *bool  // optional visibility filter
	SortBy    string // title, createdAt, updatedAt
	SortOrder string // asc or desc
	Page      int    // 1-based
	Limit     int    // rows per page (capped at 100 by the service)
}

// DemoRepository defines persistence operations for demos.
type DemoRepository interface {
	// Create inserts a new demo. Returns domain.ErrSlugConflict when the
	// (user_id, slug) pair is already taken; the slug allocator retries on it.
	Create(ctx context.Context, d *domain.Demo) error
	FindByID(ctx context.Context, id string) (*domain.Demo, error)
	// FindByIDOrSlug resolves by exact id first, then by slug. Slugs are only
	// unique per owner, so a bare slug may match several demos; the oldest one
	// wins, mirroring the original resolution order.
	FindByIDOrSlug(ctx context.Context, idOrSlug string) (*domain.Demo, error)
	// ListSlugs returns every slug owned by userID that starts with prefix.
	ListSlugs(ctx context.Context, userID, prefix string) ([]string, error)
	// List returns a page of demos matching filter and the filter-wide total.
	List(ctx context.Context, filter ListDemosFilter) ([]*domain.Demo, int64, error)
	Update(ctx context.Context, d *domain.Demo) error
	// Delete removes the demo; dependent steps and hotspots go with it in the
	// same transaction via foreign-key cascade.
	Delete(ctx context.Context, id string) error
}
