package sqlite

import (
	"context"
	"fmt"

	"github.com/vidcatapp/vidcat-core/internal/domain"
)

// OverviewStats computes the catalog-wide aggregates in two queries: one
// UNION ALL over the scalar metrics and one GROUP BY for per-format counts.
func (s *Store) OverviewStats(ctx context.Context) (*domain.OverviewStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT 'total_videos', COUNT(*) FROM videos
		UNION ALL
		SELECT 'total_activities', COUNT(*) FROM activities
		UNION ALL
		SELECT 'total_tags', COUNT(*) FROM tags
		UNION ALL
		SELECT 'total_collections', COUNT(*) FROM collections
		UNION ALL
		SELECT 'storage_bytes', COALESCE(SUM(file_size), 0) FROM videos WHERE has_local_copy = 1
		UNION ALL
		SELECT 'local_videos', COUNT(*) FROM videos WHERE has_local_copy = 1
		UNION ALL
		SELECT 'youtube_videos', COUNT(*) FROM videos WHERE has_youtube_link = 1`)
	if err != nil {
		return nil, fmt.Errorf("query overview stats: %w", err)
	}
	defer rows.Close()

	stats := &domain.OverviewStats{FormatCounts: []domain.FormatCount{}}
	for rows.Next() {
		var metric string
		var value int64
		if err := rows.Scan(&metric, &value); err != nil {
			return nil, err
		}
		switch metric {
		case "total_videos":
			stats.TotalVideos = value
		case "total_activities":
			stats.TotalActivities = value
		case "total_tags":
			stats.TotalTags = value
		case "total_collections":
			stats.TotalCollections = value
		case "storage_bytes":
			stats.StorageBytes = value
		case "local_videos":
			stats.LocalVideos = value
		case "youtube_videos":
			stats.YouTubeVideos = value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	formatRows, err := s.db.QueryContext(ctx, `
		SELECT format, COUNT(*) FROM videos
		WHERE format != ''
		GROUP BY format
		ORDER BY COUNT(*) DESC, format ASC`)
	if err != nil {
		return nil, fmt.Errorf("query format counts: %w", err)
	}
	defer formatRows.Close()

	for formatRows.Next() {
		var fc domain.FormatCount
		if err := formatRows.Scan(&fc.Format, &fc.Count); err != nil {
			return nil, err
		}
		stats.FormatCounts = append(stats.FormatCounts, fc)
	}
	if err := formatRows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
