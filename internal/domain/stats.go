package domain

// FormatCount is the number of videos stored in one container format.
type FormatCount struct {
	Format string `json:"format"`
	Count  int64  `json:"count"`
}

// OverviewStats are the catalog-wide aggregates. LocalVideos and
// YouTubeVideos are non-exclusive counts: a video with both a local copy
// and a YouTube link is counted in each.
type OverviewStats struct {
	TotalVideos      int64         `json:"total_videos"`
	TotalActivities  int64         `json:"total_activities"`
	TotalTags        int64         `json:"total_tags"`
	TotalCollections int64         `json:"total_collections"`
	StorageBytes     int64         `json:"storage_bytes"`
	LocalVideos      int64         `json:"local_videos"`
	YouTubeVideos    int64         `json:"youtube_videos"`
	FormatCounts     []FormatCount `json:"format_counts"`
}

// StorageMB returns total local storage in megabytes, rounded to 2 places.
func (s *OverviewStats) StorageMB() float64 {
	mb := float64(s.StorageBytes) / (1024 * 1024)
	return float64(int64(mb*100+0.5)) / 100
}
