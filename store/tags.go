package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jalexanderII/zero-todos/models"
)

const tagColumns = "tags.id, tags.name, tags.color, tags.created_at"

// referencedBy limits tags to those linked to at least one todo of the owner.
const referencedBy = `EXISTS (
	SELECT 1 FROM todo_tags tt JOIN todos ON todos.id = tt.todo_id
	WHERE tt.tag_id = tags.id AND todos.user_id = ?)`

// getOrCreateTag returns the tag named want.Name, creating it with want.Color
// when missing. An existing tag keeps its color. The unique constraint on
// name settles concurrent creators: the loser's insert does nothing and the
// select returns the winner's row.
func (s *Store) getOrCreateTag(ctx context.Context, tx *sqlx.Tx, want models.Tag) (models.Tag, error) {
	color := want.Color
	if color == "" {
		color = models.DefaultTagColor
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(
		"INSERT INTO tags (name, color, created_at) VALUES (?, ?, ?) ON CONFLICT (name) DO NOTHING"),
		want.Name, color, s.timestamp()); err != nil {
		return models.Tag{}, fmt.Errorf("creating tag %q: %w", want.Name, err)
	}

	var tag models.Tag
	if err := sqlx.GetContext(ctx, tx, &tag, tx.Rebind("SELECT "+tagColumns+" FROM tags WHERE name = ?"), want.Name); err != nil {
		return models.Tag{}, fmt.Errorf("resolving tag %q: %w", want.Name, err)
	}
	return tag, nil
}

// ListTags returns the distinct tags used by the owner's todos, by name.
func (s *Store) ListTags(ctx context.Context, ownerID int64) ([]models.Tag, error) {
	tags := []models.Tag{}
	if err := s.db.SelectContext(ctx, &tags, s.db.Rebind(
		"SELECT "+tagColumns+" FROM tags WHERE "+referencedBy+" ORDER BY tags.name"), ownerID); err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return tags, nil
}

func (s *Store) GetTag(ctx context.Context, ownerID, id int64) (*models.Tag, error) {
	return getTag(ctx, s.db, ownerID, id)
}

func getTag(ctx context.Context, q sqlx.ExtContext, ownerID, id int64) (*models.Tag, error) {
	var tag models.Tag
	err := sqlx.GetContext(ctx, q, &tag, q.Rebind(
		"SELECT "+tagColumns+" FROM tags WHERE tags.id = ? AND "+referencedBy), id, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting tag %d: %w", id, err)
	}
	return &tag, nil
}

// CreateTag adds a tag to the global dictionary. A taken name is ErrDuplicateTag.
func (s *Store) CreateTag(ctx context.Context, tag *models.Tag) error {
	tag.CreatedAt = s.timestamp()
	if tag.Color == "" {
		tag.Color = models.DefaultTagColor
	}

	err := s.db.QueryRowxContext(ctx, s.db.Rebind(
		"INSERT INTO tags (name, color, created_at) VALUES (?, ?, ?) RETURNING id"),
		tag.Name, tag.Color, tag.CreatedAt).Scan(&tag.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateTag
		}
		return fmt.Errorf("creating tag: %w", err)
	}
	return nil
}

// UpdateTag changes name and color of a tag referenced by the owner's todos.
func (s *Store) UpdateTag(ctx context.Context, ownerID, id int64, mutate func(*models.Tag)) (*models.Tag, error) {
	var saved *models.Tag

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		tag, err := getTag(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}
		mutate(tag)

		if _, err := tx.ExecContext(ctx, tx.Rebind("UPDATE tags SET name = ?, color = ? WHERE id = ?"),
			tag.Name, tag.Color, tag.ID); err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateTag
			}
			return fmt.Errorf("updating tag %d: %w", id, err)
		}
		saved = tag
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// DeleteTag removes a tag referenced by the owner's todos. Links cascade.
func (s *Store) DeleteTag(ctx context.Context, ownerID, id int64) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM tags WHERE tags.id = ? AND "+referencedBy), id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting tag %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountTags counts the whole dictionary.
func (s *Store) CountTags(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM tags")
	return n, err
}
