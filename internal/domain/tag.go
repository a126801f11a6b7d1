package domain

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Tag is a user-defined label applied to videos. Tags have an independent
// lifecycle: created on first use or explicitly, deleted explicitly.
// Deleting a tag removes its associations but never the tagged videos.
// Names are unique case-insensitively; the original casing is preserved
// for display and comparisons go through NormalizeTagName.
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required,max=100"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`

	// VideoCount is denormalized on list reads.
	VideoCount int `json:"video_count"`
}

var tagFolder = cases.Fold()

// NormalizeTagName returns the canonical comparison form of a tag name:
// trimmed and Unicode case-folded. "Dance" and "dance" normalize equal.
func NormalizeTagName(name string) string {
	return tagFolder.String(strings.TrimSpace(name))
}

// VideoTag is the many-to-many association between videos and tags.
type VideoTag struct {
	VideoID int64 `json:"video_id"`
	TagID   int64 `json:"tag_id"`
}
