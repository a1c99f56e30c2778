package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jalexanderII/zero-todos/models"
)

// AddAttachment records an uploaded blob on the caller's todo. Todos of other
// users are ErrNotFound.
func (s *Store) AddAttachment(ctx context.Context, ownerID int64, att *models.Attachment) error {
	att.UploadedAt = s.timestamp()

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		var owned int
		if err := sqlx.GetContext(ctx, tx, &owned, tx.Rebind(
			"SELECT COUNT(*) FROM todos WHERE id = ? AND user_id = ?"), att.TodoID, ownerID); err != nil {
			return fmt.Errorf("checking todo %d: %w", att.TodoID, err)
		}
		if owned == 0 {
			return ErrNotFound
		}

		err := tx.QueryRowxContext(ctx, tx.Rebind(`
			INSERT INTO attachments (todo_id, file, name, size, content_type, uploaded_at)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id`),
			att.TodoID, att.File, att.Name, att.Size, att.ContentType, att.UploadedAt,
		).Scan(&att.ID)
		if err != nil {
			return fmt.Errorf("adding attachment to todo %d: %w", att.TodoID, err)
		}
		return nil
	})
}

// GetAttachment loads one attachment of the caller's todo.
func (s *Store) GetAttachment(ctx context.Context, ownerID, todoID, id int64) (*models.Attachment, error) {
	var att models.Attachment
	err := s.db.GetContext(ctx, &att, s.db.Rebind(`
		SELECT a.id, a.todo_id, a.file, a.name, a.size, a.content_type, a.uploaded_at
		FROM attachments a JOIN todos ON todos.id = a.todo_id
		WHERE a.id = ? AND a.todo_id = ? AND todos.user_id = ?`), id, todoID, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting attachment %d: %w", id, err)
	}
	return &att, nil
}
