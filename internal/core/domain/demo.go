package domain

import "time"

// Demo is the aggregate root: a shareable walkthrough made of ordered steps.
// Slug is unique per owner, not globally; two users may both own "product-tour".
type Demo struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Slug        string    `json:"slug" db:"slug"`
	Description *string   `json:"description,omitempty" db:"description"`
	UserID      string    `json:"user_id" db:"user_id"`
	IsPublic    bool      `json:"is_public" db:"is_public"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// VisibleTo reports whether viewerID may read the demo. Private demos are
// visible only to their owner; an empty viewerID means an anonymous request.
func (d *Demo) VisibleTo(viewerID string) bool {
	return d.IsPublic || (viewerID != "" && d.UserID == viewerID)
}

// DemoWithSteps bundles a demo with its steps ordered by position.
type DemoWithSteps struct {
	Demo
	Steps []*Step `json:"steps"`
}

// DemoWithStepsCount bundles a demo with an aggregate step count.
type DemoWithStepsCount struct {
	Demo
	StepsCount int64 `json:"steps_count"`
}
