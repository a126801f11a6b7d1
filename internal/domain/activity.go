package domain

import "time"

// Activity is the top-level grouping for videos (an event or program).
// It exclusively owns its videos: deleting an activity cascades to them,
// which is why the delete path is gated behind an explicit confirmation.
// Class and Section place the activity in the catalog hierarchy; both are
// free-form names drawn from the Class/Section vocabulary tables.
type Activity struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" validate:"required,max=200"`
	Description string    `json:"description"`
	Class       string    `json:"class"`
	Section     string    `json:"section"`
	CreatedAt   time.Time `json:"created_at"`

	// VideoCount is denormalized on list reads to spare callers a query per row.
	VideoCount int `json:"video_count"`
}
