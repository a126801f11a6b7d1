package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vidcatapp/vidcat-core/internal/domain"
	domainerrors "github.com/vidcatapp/vidcat-core/internal/errors"
)

// collectionColumns is the ordered list of columns selected in collection
// queries. Must match the scan order in scanCollection.
const collectionColumns = `c.id, c.name, c.description, c.color, c.created_at`

// scanCollection scans a sql.Row (or sql.Rows) into a domain.Collection.
func scanCollection(scanner interface{ Scan(dest ...any) error }) (*domain.Collection, error) {
	var c domain.Collection
	var createdAt string

	err := scanner.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.Color,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// CreateCollection inserts a new collection.
// Returns an AlreadyExists error on duplicate name.
func (s *Store) CreateCollection(ctx context.Context, c *domain.Collection) error {
	release, err := s.acquireWriter()
	if err != nil {
		return err
	}
	defer release()

	c.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (name, description, color, created_at)
		VALUES (?, ?, ?, ?)`,
		c.Name,
		c.Description,
		c.Color,
		formatTime(c.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.AlreadyExistsf("collection %q already exists", c.Name)
		}
		return err
	}

	c.ID, err = res.LastInsertId()
	return err
}

// GetCollection retrieves a collection by ID, with its video count.
func (s *Store) GetCollection(ctx context.Context, id int64) (*domain.Collection, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+collectionColumns+`, COUNT(cv.video_id)
		 FROM collections c
		 LEFT JOIN collection_videos cv ON cv.collection_id = c.id
		 WHERE c.id = ?
		 GROUP BY c.id`, id)

	var c domain.Collection
	var createdAt string
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Color, &createdAt, &c.VideoCount)
	if err == sql.ErrNoRows {
		return nil, domainerrors.NotFoundf("collection %d not found", id)
	}
	if err != nil {
		return nil, err
	}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCollections returns all collections ordered by name, each with its
// video count.
func (s *Store) ListCollections(ctx context.Context) ([]*domain.Collection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+collectionColumns+`, COUNT(cv.video_id)
		 FROM collections c
		 LEFT JOIN collection_videos cv ON cv.collection_id = c.id
		 GROUP BY c.id
		 ORDER BY c.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query collections: %w", err)
	}
	defer rows.Close()

	collections := []*domain.Collection{}
	for rows.Next() {
		var c domain.Collection
		var createdAt string
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Color, &createdAt, &c.VideoCount); err != nil {
			return nil, err
		}
		c.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		collections = append(collections, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return collections, nil
}

// UpdateCollection updates a collection's name, description, and color.
func (s *Store) UpdateCollection(ctx context.Context, c *domain.Collection) error {
	release, err := s.acquireWriter()
	if err != nil {
		return err
	}
	defer release()

	res, err := s.db.ExecContext(ctx, `
		UPDATE collections SET name = ?, description = ?, color = ?
		WHERE id = ?`,
		c.Name, c.Description, c.Color, c.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.AlreadyExistsf("collection %q already exists", c.Name)
		}
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domainerrors.NotFoundf("collection %d not found", c.ID)
	}
	return nil
}

// DeleteCollection removes a collection and its associations only; the
// videos it referenced survive.
func (s *Store) DeleteCollection(ctx context.Context, id int64) error {
	release, err := s.acquireWriter()
	if err != nil {
		return err
	}
	defer release()

	res, err := s.db.ExecContext(ctx, `DELETE FROM collections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domainerrors.NotFoundf("collection %d not found", id)
	}
	return nil
}

// AddVideoToCollection adds a video to a collection. Re-adding is a no-op.
func (s *Store) AddVideoToCollection(ctx context.Context, collectionID, videoID int64) error {
	release, err := s.acquireWriter()
	if err != nil {
		return err
	}
	defer release()

	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO collection_videos (collection_id, video_id, added_at)
		 VALUES (?, ?, ?)`,
		collectionID, videoID, formatTime(time.Now().UTC()))
	if isFKViolation(err) {
		return domainerrors.NotFoundf("collection %d or video %d not found", collectionID, videoID)
	}
	return err
}

// RemoveVideoFromCollection removes the association. Removing a
// non-existent one is a no-op.
func (s *Store) RemoveVideoFromCollection(ctx context.Context, collectionID, videoID int64) error {
	release, err := s.acquireWriter()
	if err != nil {
		return err
	}
	defer release()

	_, err = s.db.ExecContext(ctx,
		`DELETE FROM collection_videos WHERE collection_id = ? AND video_id = ?`,
		collectionID, videoID)
	return err
}

// GetCollectionVideos returns the videos in a collection, most recently
// added first.
func (s *Store) GetCollectionVideos(ctx context.Context, collectionID int64) ([]*domain.Video, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+videoColumns+`
		 FROM videos v
		 LEFT JOIN activities a ON v.activity_id = a.id
		 JOIN collection_videos cv ON cv.video_id = v.id
		 WHERE cv.collection_id = ?
		 ORDER BY cv.added_at DESC, v.id ASC`, collectionID)
	if err != nil {
		return nil, fmt.Errorf("query collection videos: %w", err)
	}
	defer rows.Close()

	return collectVideos(rows)
}

// GetVideoCollections returns the collections containing a video, by name.
func (s *Store) GetVideoCollections(ctx context.Context, videoID int64) ([]*domain.Collection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+collectionColumns+`
		 FROM collections c
		 JOIN collection_videos cv ON cv.collection_id = c.id
		 WHERE cv.video_id = ?
		 ORDER BY c.name ASC`, videoID)
	if err != nil {
		return nil, fmt.Errorf("query video collections: %w", err)
	}
	defer rows.Close()

	collections := []*domain.Collection{}
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return collections, nil
}
