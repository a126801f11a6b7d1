package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vidcatapp/vidcat-core/internal/domain"
	domainerrors "github.com/vidcatapp/vidcat-core/internal/errors"
)

// activityColumns is the ordered list of columns selected in activity
// queries. Must match the scan order in scanActivity.
const activityColumns = `a.id, a.name, a.description, a.class, a.section, a.created_at`

// scanActivity scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.Activity. VideoCount is scanned separately by list queries.
func scanActivity(scanner interface{ Scan(dest ...any) error }) (*domain.Activity, error) {
	var a domain.Activity
	var createdAt string

	err := scanner.Scan(
		&a.ID,
		&a.Name,
		&a.Description,
		&a.Class,
		&a.Section,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	a.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &a, nil
}

// CreateActivity inserts a new activity and assigns its ID and CreatedAt.
// Returns an AlreadyExists error on duplicate name.
func (s *Store) CreateActivity(ctx context.Context, a *domain.Activity) error {
	release, err := s.acquireWriter()
	if err != nil {
		return err
	}
	defer release()

	a.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO activities (name, description, class, section, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		a.Name,
		a.Description,
		a.Class,
		a.Section,
		formatTime(a.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.AlreadyExistsf("activity %q already exists", a.Name)
		}
		return err
	}

	a.ID, err = res.LastInsertId()
	return err
}

// GetActivity retrieves an activity by ID, with its video count.
// Returns a NotFound error if the activity does not exist.
func (s *Store) GetActivity(ctx context.Context, id int64) (*domain.Activity, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+activityColumns+`, COUNT(v.id)
		 FROM activities a
		 LEFT JOIN videos v ON v.activity_id = a.id
		 WHERE a.id = ?
		 GROUP BY a.id`, id)

	a, err := scanActivityWithCount(row)
	if err == sql.ErrNoRows {
		return nil, domainerrors.NotFoundf("activity %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func scanActivityWithCount(scanner interface{ Scan(dest ...any) error }) (*domain.Activity, error) {
	var a domain.Activity
	var createdAt string

	err := scanner.Scan(
		&a.ID,
		&a.Name,
		&a.Description,
		&a.Class,
		&a.Section,
		&createdAt,
		&a.VideoCount,
	)
	if err != nil {
		return nil, err
	}

	a.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListActivities returns all activities ordered by name, each with its
// video count so callers don't issue a query per row.
func (s *Store) ListActivities(ctx context.Context) ([]*domain.Activity, error) {
	return s.listActivities(ctx, "", "")
}

// ListActivitiesFiltered returns activities restricted by class and/or
// section. Empty filters are ignored.
func (s *Store) ListActivitiesFiltered(ctx context.Context, class, section string) ([]*domain.Activity, error) {
	return s.listActivities(ctx, class, section)
}

func (s *Store) listActivities(ctx context.Context, class, section string) ([]*domain.Activity, error) {
	query := `SELECT ` + activityColumns + `, COUNT(v.id)
		FROM activities a
		LEFT JOIN videos v ON v.activity_id = a.id`

	var conds []string
	var args []any
	if class != "" {
		conds = append(conds, "a.class = ?")
		args = append(args, class)
	}
	if section != "" {
		conds = append(conds, "a.section = ?")
		args = append(args, section)
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " GROUP BY a.id ORDER BY a.name ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	activities := []*domain.Activity{}
	for rows.Next() {
		a, err := scanActivityWithCount(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return activities, nil
}

// UpdateActivity updates an activity's name, description, class, and section.
// Returns NotFound if the ID is absent, AlreadyExists on a name collision.
func (s *Store) UpdateActivity(ctx context.Context, a *domain.Activity) error {
	release, err := s.acquireWriter()
	if err != nil {
		return err
	}
	defer release()

	res, err := s.db.ExecContext(ctx, `
		UPDATE activities SET name = ?, description = ?, class = ?, section = ?
		WHERE id = ?`,
		a.Name, a.Description, a.Class, a.Section, a.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.AlreadyExistsf("activity %q already exists", a.Name)
		}
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domainerrors.NotFoundf("activity %d not found", a.ID)
	}
	return nil
}

// DeleteActivity removes an activity. Without cascade it fails with
// HasDependents when videos exist. With cascade the activity, its videos,
// its links, and all associations go in one transaction; the removed
// videos' stored paths are returned and handed to the file remover.
func (s *Store) DeleteActivity(ctx context.Context, id int64, cascade bool) ([]string, error) {
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

	var videoCount int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM videos WHERE activity_id = ?`, id).Scan(&videoCount)
	if err != nil {
		return nil, fmt.Errorf("count videos: %w", err)
	}

	if videoCount > 0 && !cascade {
		return nil, domainerrors.HasDependentsf(
			"activity %d has %d videos, re-issue with cascade to delete them", id, videoCount)
	}

	paths, err := collectVideoPaths(ctx, tx, `SELECT file_path, thumbnail_path FROM videos WHERE activity_id = ?`, id)
	if err != nil {
		return nil, err
	}

	// Foreign keys cascade from the activity row through videos, links,
	// and both association tables.
	res, err := tx.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("delete activity: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, domainerrors.NotFoundf("activity %d not found", id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.remover.RemoveFiles(paths)
	return paths, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// collectVideoPaths gathers the non-null file and thumbnail paths matched
// by query so they can be reported to the file storage collaborator.
func collectVideoPaths(ctx context.Context, q querier, query string, args ...any) ([]string, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("collect video paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var filePath, thumbPath sql.NullString
		if err := rows.Scan(&filePath, &thumbPath); err != nil {
			return nil, err
		}
		if filePath.Valid && filePath.String != "" {
			paths = append(paths, filePath.String)
		}
		if thumbPath.Valid && thumbPath.String != "" {
			paths = append(paths, thumbPath.String)
		}
	}
	return paths, rows.Err()
}
