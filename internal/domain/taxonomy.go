package domain

import "time"

// Class is a predefined vocabulary entry for the first level of the
// activity hierarchy. Activities reference classes by name; deleting a
// class never touches the activities that used it.
type Class struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" validate:"required,max=100"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`

	ActivityCount int `json:"activity_count"`
}

// Section is the second level of the activity hierarchy, parallel to Class.
type Section struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" validate:"required,max=100"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`

	ActivityCount int `json:"activity_count"`
}

// Link is an external reference owned by an activity. Links follow the
// same cascade rule as videos: they exist only in relation to their
// activity and are removed with it.
type Link struct {
	ID          int64     `json:"id"`
	ActivityID  int64     `json:"activity_id" validate:"required,gt=0"`
	Title       string    `json:"title" validate:"required,max=300"`
	URL         string    `json:"url" validate:"required,url"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
