package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/jalexanderII/zero-todos/models"
)

const todoColumns = `todos.id, todos.title, todos.description, todos.due_date, todos.priority,
	todos.status, todos.created_at, todos.updated_at, todos.completed_at, todos.user_id,
	users.username AS owner_username, users.email AS owner_email, users.phone_number AS owner_phone`

const todoFrom = " FROM todos JOIN users ON users.id = todos.user_id"

type todoRow struct {
	models.Todo
	OwnerUsername string `db:"owner_username"`
	OwnerEmail    string `db:"owner_email"`
	OwnerPhone    string `db:"owner_phone"`
}

func (r todoRow) toTodo() models.Todo {
	t := r.Todo
	t.Owner = models.User{
		ID:          t.UserID,
		Username:    r.OwnerUsername,
		Email:       r.OwnerEmail,
		PhoneNumber: r.OwnerPhone,
	}
	return t
}

// ListTodos returns one page of the caller's todos matching the filter.
func (s *Store) ListTodos(ctx context.Context, ownerID int64, filter models.TodoFilter) (*models.Page, error) {
	page := filter.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return nil, ErrInvalidPage
	}

	q := scopedTodoQuery(ownerID)
	q.apply(filter)

	var count int
	if err := s.db.GetContext(ctx, &count, s.db.Rebind("SELECT COUNT(*) FROM todos"+q.where()), q.args...); err != nil {
		return nil, fmt.Errorf("counting todos: %w", err)
	}

	offset := (page - 1) * models.PageSize
	if page > 1 && offset >= count {
		return nil, ErrInvalidPage
	}

	query := "SELECT " + todoColumns + todoFrom + q.where() + orderBy(filter.Ordering) +
		fmt.Sprintf(" LIMIT %d OFFSET %d", models.PageSize, offset)

	var rows []todoRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), q.args...); err != nil {
		return nil, fmt.Errorf("querying todos: %w", err)
	}

	todos := make([]models.Todo, len(rows))
	for i, r := range rows {
		todos[i] = r.toTodo()
	}
	if err := loadTags(ctx, s.db, todos); err != nil {
		return nil, err
	}

	return &models.Page{Count: count, Number: page, Results: todos}, nil
}

// GetTodo loads a single todo owned by ownerID. Todos of other users are
// reported as ErrNotFound.
func (s *Store) GetTodo(ctx context.Context, ownerID, id int64, withAttachments bool) (*models.Todo, error) {
	t, err := getTodo(ctx, s.db, ownerID, id)
	if err != nil {
		return nil, err
	}
	if withAttachments {
		if err := sqlx.SelectContext(ctx, s.db, &t.Attachments, s.db.Rebind(
			"SELECT id, todo_id, file, name, size, content_type, uploaded_at FROM attachments WHERE todo_id = ? ORDER BY id"),
			t.ID); err != nil {
			return nil, fmt.Errorf("loading attachments for todo %d: %w", t.ID, err)
		}
	}
	return t, nil
}

func getTodo(ctx context.Context, q sqlx.ExtContext, ownerID, id int64) (*models.Todo, error) {
	sq := scopedTodoQuery(ownerID)
	sq.add("todos.id = ?", id)

	var row todoRow
	if err := sqlx.GetContext(ctx, q, &row, q.Rebind("SELECT "+todoColumns+todoFrom+sq.where()), sq.args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting todo %d: %w", id, err)
	}

	todos := []models.Todo{row.toTodo()}
	if err := loadTags(ctx, q, todos); err != nil {
		return nil, err
	}
	return &todos[0], nil
}

// CreateTodo inserts the todo and resolves its tags in one transaction. The
// todo's UserID and Owner must already be set to the caller.
func (s *Store) CreateTodo(ctx context.Context, todo *models.Todo, tags []models.Tag) error {
	now := s.timestamp()
	todo.CreatedAt = now
	todo.EnforceCompletion(now)

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, tx.Rebind(`
			INSERT INTO todos (
				title, description, due_date, priority, status,
				created_at, updated_at, completed_at, user_id
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id`),
			todo.Title, todo.Description, utcPtr(todo.DueDate), int64(todo.Priority), string(todo.Status),
			todo.CreatedAt, todo.UpdatedAt, todo.CompletedAt, todo.UserID,
		).Scan(&todo.ID)
		if err != nil {
			return fmt.Errorf("creating todo: %w", err)
		}

		resolved, err := s.setTodoTags(ctx, tx, todo.ID, tags, false)
		if err != nil {
			return err
		}
		todo.Tags = resolved
		return nil
	})
}

// UpdateTodo loads the caller's todo, lets mutate change it, keeps
// completed_at in step with the status and saves it. When replaceTags is set the tag set is
// replaced by tags. It returns the saved todo and the status it had before.
func (s *Store) UpdateTodo(
	ctx context.Context,
	ownerID, id int64,
	mutate func(*models.Todo),
	tags []models.Tag,
	replaceTags bool,
) (*models.Todo, models.Status, error) {
	var (
		saved  *models.Todo
		before models.Status
	)

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		t, err := getTodo(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}
		before = t.Status

		mutate(t)
		t.EnforceCompletion(s.timestamp())

		res, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE todos SET
				title = ?, description = ?, due_date = ?, priority = ?, status = ?,
				updated_at = ?, completed_at = ?
			WHERE id = ? AND user_id = ?`),
			t.Title, t.Description, utcPtr(t.DueDate), int64(t.Priority), string(t.Status),
			t.UpdatedAt, t.CompletedAt,
			t.ID, ownerID,
		)
		if err != nil {
			return fmt.Errorf("updating todo %d: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}

		if replaceTags {
			resolved, err := s.setTodoTags(ctx, tx, t.ID, tags, true)
			if err != nil {
				return err
			}
			t.Tags = resolved
		}

		saved = t
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return saved, before, nil
}

// UpdateStatus is the status only update.
func (s *Store) UpdateStatus(ctx context.Context, ownerID, id int64, status models.Status) (*models.Todo, models.Status, error) {
	return s.UpdateTodo(ctx, ownerID, id, func(t *models.Todo) {
		t.Status = status
	}, nil, false)
}

// DeleteTodo removes the caller's todo; attachments and tag links cascade. The
// removed attachments are returned so their blobs can be cleaned up.
func (s *Store) DeleteTodo(ctx context.Context, ownerID, id int64) ([]models.Attachment, error) {
	var attachments []models.Attachment

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := sqlx.SelectContext(ctx, tx, &attachments, tx.Rebind(`
			SELECT a.id, a.todo_id, a.file, a.name, a.size, a.content_type, a.uploaded_at
			FROM attachments a JOIN todos ON todos.id = a.todo_id
			WHERE a.todo_id = ? AND todos.user_id = ?`), id, ownerID); err != nil {
			return fmt.Errorf("listing attachments of todo %d: %w", id, err)
		}

		res, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM todos WHERE id = ? AND user_id = ?"), id, ownerID)
		if err != nil {
			return fmt.Errorf("deleting todo %d: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

// CountTodos counts all todos of one owner.
func (s *Store) CountTodos(ctx context.Context, ownerID int64) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.db.Rebind("SELECT COUNT(*) FROM todos WHERE user_id = ?"), ownerID)
	return n, err
}

type tagLink struct {
	TodoID int64 `db:"todo_id"`
	models.Tag
}

// loadTags fills Tags on every todo with one query.
func loadTags(ctx context.Context, q sqlx.ExtContext, todos []models.Todo) error {
	if len(todos) == 0 {
		return nil
	}
	ids := make([]int64, len(todos))
	index := make(map[int64]int, len(todos))
	for i := range todos {
		ids[i] = todos[i].ID
		index[todos[i].ID] = i
		todos[i].Tags = []models.Tag{}
	}

	query, args, err := sqlx.In(`
		SELECT tt.todo_id, tags.id, tags.name, tags.color, tags.created_at
		FROM todo_tags tt JOIN tags ON tags.id = tt.tag_id
		WHERE tt.todo_id IN (?)
		ORDER BY tags.name`, ids)
	if err != nil {
		return fmt.Errorf("building tag query: %w", err)
	}

	var links []tagLink
	if err := sqlx.SelectContext(ctx, q, &links, q.Rebind(query), args...); err != nil {
		return fmt.Errorf("loading tags: %w", err)
	}
	for _, l := range links {
		i := index[l.TodoID]
		todos[i].Tags = append(todos[i].Tags, l.Tag)
	}
	return nil
}

// setTodoTags resolves every tag by name and links it to the todo. With clear
// set the existing links are removed first.
func (s *Store) setTodoTags(ctx context.Context, tx *sqlx.Tx, todoID int64, tags []models.Tag, clear bool) ([]models.Tag, error) {
	if clear {
		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM todo_tags WHERE todo_id = ?"), todoID); err != nil {
			return nil, fmt.Errorf("clearing tags of todo %d: %w", todoID, err)
		}
	}

	resolved := make([]models.Tag, 0, len(tags))
	seen := make(map[int64]bool, len(tags))
	for _, want := range tags {
		tag, err := s.getOrCreateTag(ctx, tx, want)
		if err != nil {
			return nil, err
		}
		if seen[tag.ID] {
			continue
		}
		seen[tag.ID] = true

		if _, err := tx.ExecContext(ctx, tx.Rebind(
			"INSERT INTO todo_tags (todo_id, tag_id) VALUES (?, ?) ON CONFLICT DO NOTHING"),
			todoID, tag.ID); err != nil {
			return nil, fmt.Errorf("tagging todo %d with %q: %w", todoID, tag.Name, err)
		}
		resolved = append(resolved, tag)
	}

	sort.Slice(resolved, func(i, j int) bool { return resolved[i].Name < resolved[j].Name })
	return resolved, nil
}
