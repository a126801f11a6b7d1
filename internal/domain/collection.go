package domain

import "time"

// Collection is a curated, ordered-by-addition grouping of videos.
// Collections hold shared references: adding a video to a collection does
// not transfer ownership, and deleting a collection removes only the
// associations, never the videos themselves.
type Collection struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" validate:"required,max=200"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`

	// VideoCount is denormalized on list reads.
	VideoCount int `json:"video_count"`
}

// CollectionVideo is the many-to-many association between collections and videos.
type CollectionVideo struct {
	CollectionID int64     `json:"collection_id"`
	VideoID      int64     `json:"video_id"`
	AddedAt      time.Time `json:"added_at"`
}
