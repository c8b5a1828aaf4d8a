package ports

import (
	"context"

	"github.com/stepwise/stepwise-api/internal/core/domain"
)

// CreateDemoInput carries the fields for a new demo. The slug is always
// derived from the title; IsPublic always starts false.
type CreateDemoInput struct {
	Title       string
	Description *string
}

// UpdateDemoInput is a partial update; nil fields are left untouched. An
// explicit Slug is re-normalized and checked for uniqueness before use.
type UpdateDemoInput struct {
	Title       *string
	Description *string
	Slug        *string
	IsPublic    *bool
}

// DemoService exposes all demo operations. callerID is the verified user from
// the credential; an empty callerID means an anonymous request and is only
// accepted by the read operations.
type DemoService interface {
	Create(ctx context.Context, callerID string, in CreateDemoInput) (*domain.Demo, error)
	ListOwn(ctx context.Context, callerID string, filter ListDemosFilter) ([]*domain.Demo, int64, error)
	ListPublic(ctx context.Context, filter ListDemosFilter) ([]*domain.Demo, int64, error)
	Get(ctx context.Context, idOrSlug, callerID string) (*domain.Demo, error)
	GetWithSteps(ctx context.Context, idOrSlug, callerID string) (*domain.DemoWithSteps, error)
	GetWithStepsCount(ctx context.Context, idOrSlug, callerID string) (*domain.DemoWithStepsCount, error)
	Update(ctx context.Context, id, callerID string, in UpdateDemoInput) (*domain.Demo, error)
	Delete(ctx context.Context, id, callerID string) error
	ToggleVisibility(ctx context.Context, id, callerID string) (*domain.Demo, error)
	Duplicate(ctx context.Context, id, callerID string) (*domain.Demo, error)
}
