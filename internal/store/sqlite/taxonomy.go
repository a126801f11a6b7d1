package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/vidcatapp/vidcat-core/internal/domain"
	domainerrors "github.com/vidcatapp/vidcat-core/internal/errors"
)

// Classes and sections are the predefined vocabulary for the activity
// hierarchy. Activities reference them by name, so deleting an entry
// never touches activities that used it.

// CreateClass inserts a new class.
func (s *Store) CreateClass(ctx context.Context, c *domain.Class) error {
	release, err := s.acquireWriter()
	if err != nil {
		return err
	}
	defer release()

	c.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO classes (name, description, color, created_at)
		VALUES (?, ?, ?, ?)`,
		c.Name, c.Description, c.Color, formatTime(c.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.AlreadyExistsf("class %q already exists", c.Name)
		}
		return err
	}

	c.ID, err = res.LastInsertId()
	return err
}

// ListClasses returns all classes ordered by name, each with a count of
// activities currently using it.
func (s *Store) ListClasses(ctx context.Context) ([]*domain.Class, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.description, c.color, c.created_at, COUNT(a.id)
		FROM classes c
		LEFT JOIN activities a ON a.class = c.name
		GROUP BY c.id
		ORDER BY c.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query classes: %w", err)
	}
	defer rows.Close()

	classes := []*domain.Class{}
	for rows.Next() {
		var c domain.Class
		var createdAt string
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Color, &createdAt, &c.ActivityCount); err != nil {
			return nil, err
		}
		c.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		classes = append(classes, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return classes, nil
}

// DeleteClass removes a class from the vocabulary.
func (s *Store) DeleteClass(ctx context.Context, id int64) error {
	release, err := s.acquireWriter()
	if err != nil {
		return err
	}
	defer release()

	res, err := s.db.ExecContext(ctx, `DELETE FROM classes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domainerrors.NotFoundf("class %d not found", id)
	}
	return nil
}

// CreateSection inserts a new section.
func (s *Store) CreateSection(ctx context.Context, sec *domain.Section) error {
	release, err := s.acquireWriter()
	if err != nil {
		return err
	}
	defer release()

	sec.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sections (name, description, color, created_at)
		VALUES (?, ?, ?, ?)`,
		sec.Name, sec.Description, sec.Color, formatTime(sec.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.AlreadyExistsf("section %q already exists", sec.Name)
		}
		return err
	}

	sec.ID, err = res.LastInsertId()
	return err
}

// ListSections returns all sections ordered by name, each with a count of
// activities currently using it.
func (s *Store) ListSections(ctx context.Context) ([]*domain.Section, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.name, s.description, s.color, s.created_at, COUNT(a.id)
		FROM sections s
		LEFT JOIN activities a ON a.section = s.name
		GROUP BY s.id
		ORDER BY s.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query sections: %w", err)
	}
	defer rows.Close()

	sections := []*domain.Section{}
	for rows.Next() {
		var sec domain.Section
		var createdAt string
		if err := rows.Scan(&sec.ID, &sec.Name, &sec.Description, &sec.Color, &createdAt, &sec.ActivityCount); err != nil {
			return nil, err
		}
		sec.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		sections = append(sections, &sec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sections, nil
}

// DeleteSection removes a section from the vocabulary.
func (s *Store) DeleteSection(ctx context.Context, id int64) error {
	release, err := s.acquireWriter()
	if err != nil {
		return err
	}
	defer release()

	res, err := s.db.ExecContext(ctx, `DELETE FROM sections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domainerrors.NotFoundf("section %d not found", id)
	}
	return nil
}
