package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/vidcatapp/vidcat-core/internal/domain"
	domainerrors "github.com/vidcatapp/vidcat-core/internal/errors"
)

// CreateLink inserts an external link owned by an activity.
func (s *Store) CreateLink(ctx context.Context, l *domain.Link) error {
	release, err := s.acquireWriter()
	if err != nil {
		return err
	}
	defer release()

	l.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO links (activity_id, title, url, description, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		l.ActivityID, l.Title, l.URL, l.Description, formatTime(l.CreatedAt),
	)
	if err != nil {
		if isFKViolation(err) {
			return domainerrors.NotFoundf("activity %d not found", l.ActivityID)
		}
		return fmt.Errorf("insert link: %w", err)
	}

	l.ID, err = res.LastInsertId()
	return err
}

// ListLinksByActivity returns an activity's links, newest first.
func (s *Store) ListLinksByActivity(ctx context.Context, activityID int64) ([]*domain.Link, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, activity_id, title, url, description, created_at
		FROM links
		WHERE activity_id = ?
		ORDER BY created_at DESC, id ASC`, activityID)
	if err != nil {
		return nil, fmt.Errorf("query links: %w", err)
	}
	defer rows.Close()

	links := []*domain.Link{}
	for rows.Next() {
		var l domain.Link
		var createdAt string
		if err := rows.Scan(&l.ID, &l.ActivityID, &l.Title, &l.URL, &l.Description, &createdAt); err != nil {
			return nil, err
		}
		l.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		links = append(links, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return links, nil
}

// DeleteLink removes a link.
func (s *Store) DeleteLink(ctx context.Context, id int64) error {
	release, err := s.acquireWriter()
	if err != nil {
		return err
	}
	defer release()

	res, err := s.db.ExecContext(ctx, `DELETE FROM links WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domainerrors.NotFoundf("link %d not found", id)
	}
	return nil
}
