package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/vidcatapp/vidcat-core/internal/color"
	"github.com/vidcatapp/vidcat-core/internal/domain"
	domainerrors "github.com/vidcatapp/vidcat-core/internal/errors"
)

// tagColumns is the ordered list of columns selected in tag queries.
// Must match the scan order in scanTag.
const tagColumns = `t.id, t.name, t.color, t.created_at`

// scanTag scans a sql.Row (or sql.Rows via its Scan method) into a domain.Tag.
// VideoCount is left as 0; list queries scan it alongside.
func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag
	var createdAt string

	err := scanner.Scan(
		&t.ID,
		&t.Name,
		&t.Color,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateTag inserts a new tag. Names are unique case-insensitively:
// creating "Dance" when "dance" exists fails with AlreadyExists.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	release, err := s.acquireWriter()
	if err != nil {
		return err
	}
	defer release()

	t.Name = strings.TrimSpace(t.Name)
	t.CreatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (name, color, created_at)
		VALUES (?, ?, ?)`,
		t.Name,
		t.Color,
		formatTime(t.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.AlreadyExistsf("tag %q already exists", t.Name)
		}
		return err
	}

	t.ID, err = res.LastInsertId()
	return err
}

// GetTag retrieves a tag by its ID.
func (s *Store) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags t WHERE t.id = ?`, id)

	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, domainerrors.NotFoundf("tag %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTagByName retrieves a tag by name, case-insensitively.
func (s *Store) GetTagByName(ctx context.Context, name string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags t WHERE t.name = ? COLLATE NOCASE`,
		strings.TrimSpace(name))

	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, domainerrors.NotFoundf("tag %q not found", name)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTags returns all tags ordered by name, each with its video count.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+`, COUNT(vt.video_id)
		 FROM tags t
		 LEFT JOIN video_tags vt ON vt.tag_id = t.id
		 GROUP BY t.id
		 ORDER BY t.name COLLATE NOCASE ASC`)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		var t domain.Tag
		var createdAt string
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &createdAt, &t.VideoCount); err != nil {
			return nil, err
		}
		t.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		tags = append(tags, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tags, nil
}

// FindOrCreateTagByName finds an existing tag by name (case-insensitive) or
// creates a new one with a default color derived from the name.
// Returns (tag, created, error).
func (s *Store) FindOrCreateTagByName(ctx context.Context, name string) (*domain.Tag, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, domainerrors.Validation("tag name is empty")
	}

	existing, err := s.GetTagByName(ctx, name)
	if err == nil {
		return existing, false, nil
	}
	if !domainerrors.Is(err, domainerrors.ErrNotFound) {
		return nil, false, err
	}

	t := &domain.Tag{Name: name, Color: color.ForName(name)}
	if err := s.CreateTag(ctx, t); err != nil {
		if domainerrors.Is(err, domainerrors.ErrAlreadyExists) {
			// Race: another goroutine created it between lookup and insert.
			existing, err := s.GetTagByName(ctx, name)
			if err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	return t, true, nil
}

// DeleteTag removes a tag and all its video associations. The previously
// tagged videos are never deleted.
func (s *Store) DeleteTag(ctx context.Context, id int64) error {
	release, err := s.acquireWriter()
	if err != nil {
		return err
	}
	defer release()

	res, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domainerrors.NotFoundf("tag %d not found", id)
	}
	return nil
}

// AddTagToVideo associates a tag with a video. Re-adding an existing
// association is a no-op, not an error.
func (s *Store) AddTagToVideo(ctx context.Context, videoID, tagID int64) error {
	release, err := s.acquireWriter()
	if err != nil {
		return err
	}
	defer release()

	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO video_tags (video_id, tag_id) VALUES (?, ?)`,
		videoID, tagID)
	if isFKViolation(err) {
		return domainerrors.NotFoundf("video %d or tag %d not found", videoID, tagID)
	}
	return err
}

// RemoveTagFromVideo removes the association. Removing a non-existent one
// is a no-op.
func (s *Store) RemoveTagFromVideo(ctx context.Context, videoID, tagID int64) error {
	release, err := s.acquireWriter()
	if err != nil {
		return err
	}
	defer release()

	_, err = s.db.ExecContext(ctx,
		`DELETE FROM video_tags WHERE video_id = ? AND tag_id = ?`,
		videoID, tagID)
	return err
}

// ReplaceVideoTags replaces all tags for a video in a single transaction,
// creating missing tags on the way. Returns NotFound if the video is absent.
func (s *Store) ReplaceVideoTags(ctx context.Context, videoID int64, tagNames []string) error {
	release, err := s.acquireWriter()
	if err != nil {
		return err
	}
	defer release()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM videos WHERE id = ?`, videoID).Scan(&exists)
	if err == sql.ErrNoRows {
		return domainerrors.NotFoundf("video %d not found", videoID)
	}
	if err != nil {
		return fmt.Errorf("lookup video: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM video_tags WHERE video_id = ?`, videoID); err != nil {
		return fmt.Errorf("delete video_tags: %w", err)
	}

	if err := applyTagNames(ctx, tx, videoID, tagNames); err != nil {
		return err
	}

	return tx.Commit()
}

// GetVideoTags returns the tags associated with a video, ordered by name.
func (s *Store) GetVideoTags(ctx context.Context, videoID int64) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+`
		 FROM tags t
		 JOIN video_tags vt ON vt.tag_id = t.id
		 WHERE vt.video_id = ?
		 ORDER BY t.name COLLATE NOCASE ASC`, videoID)
	if err != nil {
		return nil, fmt.Errorf("query video_tags: %w", err)
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tags, nil
}

// applyTagNames find-or-creates each named tag inside q and associates it
// with the video. Blank names are skipped; duplicates (after folding)
// collapse to one association.
func applyTagNames(ctx context.Context, q dbtx, videoID int64, tagNames []string) error {
	seen := map[string]bool{}
	now := formatTime(time.Now().UTC())

	for _, name := range tagNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		folded := domain.NormalizeTagName(name)
		if seen[folded] {
			continue
		}
		seen[folded] = true

		var tagID int64
		err := q.QueryRowContext(ctx,
			`SELECT id FROM tags WHERE name = ? COLLATE NOCASE`, name).Scan(&tagID)
		if err == sql.ErrNoRows {
			res, err := q.ExecContext(ctx,
				`INSERT INTO tags (name, color, created_at) VALUES (?, ?, ?)`,
				name, color.ForName(name), now)
			if err != nil {
				return fmt.Errorf("insert tag %q: %w", name, err)
			}
			tagID, err = res.LastInsertId()
			if err != nil {
				return err
			}
		} else if err != nil {
			return fmt.Errorf("lookup tag %q: %w", name, err)
		}

		if _, err := q.ExecContext(ctx,
			`INSERT OR IGNORE INTO video_tags (video_id, tag_id) VALUES (?, ?)`,
			videoID, tagID); err != nil {
			return fmt.Errorf("insert video_tag: %w", err)
		}
	}

	return nil
}
