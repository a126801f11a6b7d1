package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vidcatapp/vidcat-core/internal/domain"
	domainerrors "github.com/vidcatapp/vidcat-core/internal/errors"
)

// videoColumns is the ordered list of columns selected in video queries,
// including the denormalized activity fields. Must match scanVideo.
const videoColumns = `v.id, v.activity_id, v.title, v.file_path, v.youtube_url,
	v.file_name, v.file_size, v.duration, v.format, v.resolution,
	v.version_number, v.event_date, v.upload_date, v.description,
	v.thumbnail_path, v.has_local_copy, v.has_youtube_link,
	COALESCE(a.name, ''), COALESCE(a.class, ''), COALESCE(a.section, '')`

// videoJoin joins in the owning activity for the denormalized read fields.
const videoJoin = ` FROM videos v LEFT JOIN activities a ON v.activity_id = a.id`

// scanVideo scans a sql.Row (or sql.Rows via its Scan method) into a domain.Video.
func scanVideo(scanner interface{ Scan(dest ...any) error }) (*domain.Video, error) {
	var v domain.Video

	var (
		filePath   sql.NullString
		youtubeURL sql.NullString
		eventDate  sql.NullString
		uploadDate string
		thumbPath  sql.NullString
	)

	err := scanner.Scan(
		&v.ID,
		&v.ActivityID,
		&v.Title,
		&filePath,
		&youtubeURL,
		&v.FileName,
		&v.FileSize,
		&v.Duration,
		&v.Format,
		&v.Resolution,
		&v.VersionNumber,
		&eventDate,
		&uploadDate,
		&v.Description,
		&thumbPath,
		&v.HasLocalCopy,
		&v.HasYouTubeLink,
		&v.ActivityName,
		&v.ActivityClass,
		&v.ActivitySection,
	)
	if err != nil {
		return nil, err
	}

	v.FilePath = stringPtr(filePath)
	v.YouTubeURL = stringPtr(youtubeURL)
	v.ThumbnailPath = stringPtr(thumbPath)

	v.UploadDate, err = parseTime(uploadDate)
	if err != nil {
		return nil, err
	}
	v.EventDate, err = parseNullableTime(eventDate)
	if err != nil {
		return nil, err
	}

	return &v, nil
}

// CreateVideo inserts a new video and atomically applies its tag names,
// creating tags that don't exist yet. The store assigns ID and UploadDate
// and recomputes the availability booleans; a video with neither a local
// file nor a YouTube link is rejected with a Validation error.
func (s *Store) CreateVideo(ctx context.Context, v *domain.Video, tagNames []string) error {
	if !v.HasSource() {
		return domainerrors.Validation("video needs a local file path or a YouTube link")
	}

	release, err := s.acquireWriter()
	if err != nil {
		return err
	}
	defer release()

	v.UploadDate = time.Now().UTC()
	if v.VersionNumber < 1 {
		v.VersionNumber = 1
	}
	v.RecomputeAvailability()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO videos (
			activity_id, title, file_path, youtube_url, file_name,
			file_size, duration, format, resolution, version_number,
			event_date, upload_date, description, thumbnail_path,
			has_local_copy, has_youtube_link
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ActivityID,
		v.Title,
		nullableString(v.FilePath),
		nullableString(v.YouTubeURL),
		v.FileName,
		v.FileSize,
		v.Duration,
		v.Format,
		v.Resolution,
		v.VersionNumber,
		nullTimeString(v.EventDate),
		formatTime(v.UploadDate),
		v.Description,
		nullableString(v.ThumbnailPath),
		v.HasLocalCopy,
		v.HasYouTubeLink,
	)
	if err != nil {
		if isFKViolation(err) {
			return domainerrors.NotFoundf("activity %d not found", v.ActivityID)
		}
		return fmt.Errorf("insert video: %w", err)
	}

	v.ID, err = res.LastInsertId()
	if err != nil {
		return err
	}

	if err := applyTagNames(ctx, tx, v.ID, tagNames); err != nil {
		return err
	}

	return tx.Commit()
}

// GetVideo retrieves a video by ID. Returns NotFound if absent.
func (s *Store) GetVideo(ctx context.Context, id int64) (*domain.Video, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+videoColumns+videoJoin+` WHERE v.id = ?`, id)

	v, err := scanVideo(row)
	if err == sql.ErrNoRows {
		return nil, domainerrors.NotFoundf("video %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ListVideosByActivity returns an activity's videos, newest version first.
func (s *Store) ListVideosByActivity(ctx context.Context, activityID int64) ([]*domain.Video, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+videoColumns+videoJoin+`
		 WHERE v.activity_id = ?
		 ORDER BY v.version_number DESC, v.upload_date DESC, v.id ASC`, activityID)
	if err != nil {
		return nil, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	return collectVideos(rows)
}

// UpdateVideo updates a video's mutable fields. UploadDate is immutable and
// never written. The availability invariant is checked against the
// resulting state; the derived booleans are recomputed, never trusted.
func (s *Store) UpdateVideo(ctx context.Context, v *domain.Video) error {
	if !v.HasSource() {
		return domainerrors.Validation("video needs a local file path or a YouTube link")
	}

	release, err := s.acquireWriter()
	if err != nil {
		return err
	}
	defer release()

	v.RecomputeAvailability()

	res, err := s.db.ExecContext(ctx, `
		UPDATE videos SET
			activity_id = ?, title = ?, file_path = ?, youtube_url = ?,
			file_name = ?, file_size = ?, duration = ?, format = ?,
			resolution = ?, version_number = ?, event_date = ?,
			description = ?, thumbnail_path = ?,
			has_local_copy = ?, has_youtube_link = ?
		WHERE id = ?`,
		v.ActivityID,
		v.Title,
		nullableString(v.FilePath),
		nullableString(v.YouTubeURL),
		v.FileName,
		v.FileSize,
		v.Duration,
		v.Format,
		v.Resolution,
		v.VersionNumber,
		nullTimeString(v.EventDate),
		v.Description,
		nullableString(v.ThumbnailPath),
		v.HasLocalCopy,
		v.HasYouTubeLink,
		v.ID,
	)
	if err != nil {
		if isFKViolation(err) {
			return domainerrors.NotFoundf("activity %d not found", v.ActivityID)
		}
		return fmt.Errorf("update video: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domainerrors.NotFoundf("video %d not found", v.ID)
	}
	return nil
}

// DeleteVideo removes a video and all its tag and collection associations.
// The owning activity and any referenced tags/collections are untouched.
// Returns the stored paths for the file storage collaborator.
func (s *Store) DeleteVideo(ctx context.Context, id int64) ([]string, error) {
	release, err := s.acquireWriter()
	if err != nil {
		return nil, err
	}
	defer release()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	paths, err := collectVideoPaths(ctx, tx,
		`SELECT file_path, thumbnail_path FROM videos WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM videos WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("delete video: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, domainerrors.NotFoundf("video %d not found", id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.remover.RemoveFiles(paths)
	return paths, nil
}

// ListVersionChain returns the videos sharing an activity and title,
// ordered by version number ascending with upload date as tiebreak.
// Gaps and duplicate version numbers are tolerated.
func (s *Store) ListVersionChain(ctx context.Context, activityID int64, title string) ([]*domain.Video, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+videoColumns+videoJoin+`
		 WHERE v.activity_id = ? AND v.title = ?
		 ORDER BY v.version_number ASC, v.upload_date ASC, v.id ASC`,
		activityID, title)
	if err != nil {
		return nil, fmt.Errorf("query version chain: %w", err)
	}
	defer rows.Close()

	return collectVideos(rows)
}

// NextVersionNumber returns MAX(version_number)+1 within a chain, or 1 when
// the chain is empty.
func (s *Store) NextVersionNumber(ctx context.Context, activityID int64, title string) (int, error) {
	var maxVersion sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(version_number) FROM videos WHERE activity_id = ? AND title = ?`,
		activityID, title).Scan(&maxVersion)
	if err != nil {
		return 0, fmt.Errorf("query max version: %w", err)
	}
	if !maxVersion.Valid {
		return 1, nil
	}
	return int(maxVersion.Int64) + 1, nil
}

func collectVideos(rows *sql.Rows) ([]*domain.Video, error) {
	videos := []*domain.Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return videos, nil
}
