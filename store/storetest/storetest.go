// Package storetest builds throwaway stores for tests.
package storetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jalexanderII/zero-todos/database"
	"github.com/jalexanderII/zero-todos/models"
	"github.com/jalexanderII/zero-todos/store"
)

// NewTestStore creates an in-memory SQLite store with all migrations applied.
// It is closed when the test completes.
func NewTestStore(t *testing.T) *store.Store {
	t.Helper()
	return open(t, database.DriverSQLite, ":memory:")
}

// NewFileStore creates a SQLite store in a file under the test's temp dir.
func NewFileStore(t *testing.T) *store.Store {
	t.Helper()
	return open(t, database.DriverSQLite, filepath.Join(t.TempDir(), "todos.db"))
}

// NewPostgresStore opens the database at dsn with all migrations applied.
func NewPostgresStore(t *testing.T, dsn string) *store.Store {
	t.Helper()
	return open(t, database.DriverPostgres, dsn)
}

func open(t *testing.T, driver, dsn string) *store.Store {
	t.Helper()

	db, err := database.OpenSQL(driver, dsn)
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}
	s := store.New(db)

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})
	return s
}

// NewUser records a user for subject and returns it with its id set.
func NewUser(t *testing.T, s *store.Store, subject string) *models.User {
	t.Helper()

	u := &models.User{
		Subject:  subject,
		Username: subject,
		Email:    subject + "@example.com",
	}
	if err := s.EnsureUser(context.Background(), u); err != nil {
		t.Fatalf("creating user %s: %v", subject, err)
	}
	return u
}

// NewTodo inserts a todo for owner with the given title and tag names.
func NewTodo(t *testing.T, s *store.Store, owner *models.User, title string, tags ...string) *models.Todo {
	t.Helper()

	todo := &models.Todo{
		Title:    title,
		Priority: models.PriorityMedium,
		Status:   models.StatusPending,
		UserID:   owner.ID,
		Owner:    *owner,
	}
	tagList := make([]models.Tag, 0, len(tags))
	for _, name := range tags {
		tagList = append(tagList, models.Tag{Name: name, Color: models.DefaultTagColor})
	}
	if err := s.CreateTodo(context.Background(), todo, tagList); err != nil {
		t.Fatalf("creating todo %q: %v", title, err)
	}
	return todo
}
