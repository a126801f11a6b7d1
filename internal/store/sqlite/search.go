package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/vidcatapp/vidcat-core/internal/domain"
	"github.com/vidcatapp/vidcat-core/internal/store"
)

// SearchVideos runs the structured multi-criteria query. Predicates are
// conjoined and each rides its index; association predicates run as
// EXISTS/count subqueries against the composite-key association indexes so
// candidate sets intersect before rows hydrate.
func (s *Store) SearchVideos(ctx context.Context, f store.VideoFilter) ([]*domain.Video, error) {
	where, args := buildVideoWhere(f)

	query := `SELECT ` + videoColumns + videoJoin + where + orderClause(f.SortBy)
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	} else if f.Offset > 0 {
		// SQLite requires a LIMIT before OFFSET; -1 means unbounded.
		query += fmt.Sprintf(" LIMIT -1 OFFSET %d", f.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search videos: %w", err)
	}
	defer rows.Close()

	return collectVideos(rows)
}

// CountVideos returns the number of videos the filter matches, ignoring
// Limit/Offset. Shares the predicate builder with SearchVideos.
func (s *Store) CountVideos(ctx context.Context, f store.VideoFilter) (int64, error) {
	where, args := buildVideoWhere(f)

	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*)`+videoJoin+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count videos: %w", err)
	}
	return count, nil
}

// buildVideoWhere translates the filter into a WHERE clause and its args.
func buildVideoWhere(f store.VideoFilter) (string, []any) {
	var conds []string
	var args []any

	if text := strings.TrimSpace(f.Text); text != "" {
		pattern := "%" + text + "%"
		conds = append(conds, `(
			v.title LIKE ? OR v.description LIKE ? OR v.file_name LIKE ? OR a.name LIKE ?
			OR EXISTS (
				SELECT 1 FROM video_tags vt JOIN tags t ON t.id = vt.tag_id
				WHERE vt.video_id = v.id AND t.name LIKE ?
			))`)
		args = append(args, pattern, pattern, pattern, pattern, pattern)
	}

	if f.ActivityID != 0 {
		conds = append(conds, "v.activity_id = ?")
		args = append(args, f.ActivityID)
	}
	if f.Class != "" {
		conds = append(conds, "a.class = ?")
		args = append(args, f.Class)
	}
	if f.Section != "" {
		conds = append(conds, "a.section = ?")
		args = append(args, f.Section)
	}
	if f.Format != "" {
		conds = append(conds, "v.format = ?")
		args = append(args, f.Format)
	}
	if f.Resolution != "" {
		conds = append(conds, "v.resolution = ?")
		args = append(args, f.Resolution)
	}

	if f.UploadRange.From != nil {
		conds = append(conds, "v.upload_date >= ?")
		args = append(args, formatTime(*f.UploadRange.From))
	}
	if f.UploadRange.To != nil {
		conds = append(conds, "v.upload_date <= ?")
		args = append(args, formatTime(*f.UploadRange.To))
	}
	if f.EventRange.From != nil {
		conds = append(conds, "v.event_date >= ?")
		args = append(args, formatTime(*f.EventRange.From))
	}
	if f.EventRange.To != nil {
		conds = append(conds, "v.event_date <= ?")
		args = append(args, formatTime(*f.EventRange.To))
	}

	if f.SizeRange.Min > 0 {
		conds = append(conds, "v.file_size >= ?")
		args = append(args, f.SizeRange.Min)
	}
	if f.SizeRange.Max > 0 {
		conds = append(conds, "v.file_size <= ?")
		args = append(args, f.SizeRange.Max)
	}
	if f.DurationRange.Min > 0 {
		conds = append(conds, "v.duration >= ?")
		args = append(args, f.DurationRange.Min)
	}
	if f.DurationRange.Max > 0 {
		conds = append(conds, "v.duration <= ?")
		args = append(args, f.DurationRange.Max)
	}

	if f.MinVersion > 0 {
		conds = append(conds, "v.version_number >= ?")
		args = append(args, f.MinVersion)
	}

	if len(f.TagIDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(f.TagIDs)), ",")
		if f.MatchAllTags {
			// Every requested tag must be present on the video.
			conds = append(conds, fmt.Sprintf(`(
				SELECT COUNT(DISTINCT vt.tag_id) FROM video_tags vt
				WHERE vt.video_id = v.id AND vt.tag_id IN (%s)
			) = ?`, placeholders))
			for _, id := range f.TagIDs {
				args = append(args, id)
			}
			args = append(args, len(f.TagIDs))
		} else {
			conds = append(conds, fmt.Sprintf(`EXISTS (
				SELECT 1 FROM video_tags vt
				WHERE vt.video_id = v.id AND vt.tag_id IN (%s)
			)`, placeholders))
			for _, id := range f.TagIDs {
				args = append(args, id)
			}
		}
	}

	if f.CollectionID != 0 {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM collection_videos cv
			WHERE cv.video_id = v.id AND cv.collection_id = ?
		)`)
		args = append(args, f.CollectionID)
	}

	if f.HasLocalCopy != nil {
		conds = append(conds, "v.has_local_copy = ?")
		args = append(args, *f.HasLocalCopy)
	}
	if f.HasYouTubeLink != nil {
		conds = append(conds, "v.has_youtube_link = ?")
		args = append(args, *f.HasYouTubeLink)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderClause maps a sort key to ORDER BY. Every ordering ends with id
// ascending so equal-keyed results come back in a deterministic order.
func orderClause(key store.SortKey) string {
	switch key {
	case store.SortUploadDateAsc:
		return " ORDER BY v.upload_date ASC, v.id ASC"
	case store.SortTitleAsc:
		return " ORDER BY v.title ASC, v.id ASC"
	case store.SortFileSizeDesc:
		return " ORDER BY v.file_size DESC, v.id ASC"
	case store.SortDurationDesc:
		return " ORDER BY v.duration DESC, v.id ASC"
	case store.SortVersionDesc:
		return " ORDER BY v.version_number DESC, v.id ASC"
	default:
		return " ORDER BY v.upload_date DESC, v.id ASC"
	}
}

// Suggest returns autocomplete candidates: case-insensitive prefix matches
// over video titles, activity names, and tag names, merged and capped.
// Prefixes shorter than two characters return nothing.
func (s *Store) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if len(prefix) < 2 {
		return []string{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	pattern := prefix + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT title FROM videos WHERE title LIKE ? COLLATE NOCASE
		UNION
		SELECT DISTINCT name FROM activities WHERE name LIKE ? COLLATE NOCASE
		UNION
		SELECT DISTINCT name FROM tags WHERE name LIKE ? COLLATE NOCASE
		ORDER BY 1
		LIMIT ?`,
		pattern, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("query suggestions: %w", err)
	}
	defer rows.Close()

	suggestions := []string{}
	for rows.Next() {
		var sgn string
		if err := rows.Scan(&sgn); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, sgn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return suggestions, nil
}

// ListFormats returns the distinct non-empty formats in the catalog.
func (s *Store) ListFormats(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT format FROM videos WHERE format != '' ORDER BY format ASC`)
	if err != nil {
		return nil, fmt.Errorf("query formats: %w", err)
	}
	defer rows.Close()

	formats := []string{}
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return formats, nil
}
