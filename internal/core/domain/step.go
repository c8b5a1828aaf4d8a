package domain

import "time"

// Step is one screen of a demo. Position drives display order and is stored
// as an integer; uniqueness per demo is not enforced, ties break by CreatedAt.
type Step struct {
	ID          string    `json:"id" db:"id"`
	DemoID      string    `json:"demo_id" db:"demo_id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	Position    int       `json:"position" db:"position"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
