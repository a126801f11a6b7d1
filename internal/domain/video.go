package domain

import "time"

// Video is a single catalogued media asset. A video may exist as a local
// file, a YouTube link, or both — but never neither. The availability
// booleans are derived state: they are recomputed from the nullable source
// fields on every write path and never set independently.
type Video struct {
	ID            int64      `json:"id"`
	ActivityID    int64      `json:"activity_id" validate:"required,gt=0"`
	Title         string     `json:"title" validate:"required,max=300"`
	FilePath      *string    `json:"file_path,omitempty"`
	YouTubeURL    *string    `json:"youtube_url,omitempty"`
	FileName      string     `json:"file_name"`
	FileSize      int64      `json:"file_size" validate:"gte=0"`
	Duration      float64    `json:"duration" validate:"gte=0"`
	Format        string     `json:"format"`
	Resolution    string     `json:"resolution"`
	VersionNumber int        `json:"version_number" validate:"omitempty,gte=1"`
	EventDate     *time.Time `json:"event_date,omitempty"`
	UploadDate    time.Time  `json:"upload_date"`
	Description   string     `json:"description"`
	ThumbnailPath *string    `json:"thumbnail_path,omitempty"`

	// Derived from FilePath / YouTubeURL. See RecomputeAvailability.
	HasLocalCopy   bool `json:"has_local_copy"`
	HasYouTubeLink bool `json:"has_youtube_link"`

	// Denormalized from the owning activity on reads.
	ActivityName    string `json:"activity_name,omitempty"`
	ActivityClass   string `json:"activity_class,omitempty"`
	ActivitySection string `json:"activity_section,omitempty"`
}

// RecomputeAvailability derives HasLocalCopy and HasYouTubeLink from the
// nullable source fields. Stored values are never trusted over this.
func (v *Video) RecomputeAvailability() {
	v.HasLocalCopy = v.FilePath != nil && *v.FilePath != ""
	v.HasYouTubeLink = v.YouTubeURL != nil && *v.YouTubeURL != ""
}

// HasSource reports whether at least one of the local file or the YouTube
// link is present. A video without either is invalid.
func (v *Video) HasSource() bool {
	return (v.FilePath != nil && *v.FilePath != "") ||
		(v.YouTubeURL != nil && *v.YouTubeURL != "")
}

// ChainKey identifies the version chain a video belongs to. Videos sharing
// an activity and title are successive revisions of the same logical asset.
// Version numbering within a chain is advisory: gaps and duplicates are
// tolerated, the highest number is current by convention.
type ChainKey struct {
	ActivityID int64
	Title      string
}

// Chain returns the version chain key for this video.
func (v *Video) Chain() ChainKey {
	return ChainKey{ActivityID: v.ActivityID, Title: v.Title}
}

// StoredPaths returns the relative paths the catalog holds for this video.
// The catalog never touches file bytes; on deletion these are handed to the
// file storage collaborator so it can remove the physical files.
func (v *Video) StoredPaths() []string {
	var paths []string
	if v.FilePath != nil && *v.FilePath != "" {
		paths = append(paths, *v.FilePath)
	}
	if v.ThumbnailPath != nil && *v.ThumbnailPath != "" {
		paths = append(paths, *v.ThumbnailPath)
	}
	return paths
}
