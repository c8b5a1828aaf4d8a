package handler

// --- Request / Response types ---

type createDemoRequest struct {
	Title       string  `json:"title"       validate:"required,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

type updateDemoRequest struct {
	Title       *string `json:"title"       validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Slug        *string `json:"slug"        validate:"omitempty,min=1,max=200"`
	IsPublic    *bool   `json:"is_public"`
}

// listEnvelope is the shared page envelope for demo listings. Total is the
// filter-wide row count, independent of page and limit.
type listEnvelope[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// reorderStepsRequest lists every step of the demo in the desired order.
type reorderStepsRequest struct {
	StepIDs []string `json:"step_ids" validate:"required,min=1,dive,required"`
}
