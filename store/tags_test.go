package store_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jalexanderII/zero-todos/models"
	"github.com/jalexanderII/zero-todos/store"
	"github.com/jalexanderII/zero-todos/store/storetest"
)

func TestListTags_ScopedToOwner(t *testing.T) {
	ctx := context.Background()
	s := storetest.NewTestStore(t)
	alice := storetest.NewUser(t, s, "alice")
	bob := storetest.NewUser(t, s, "bob")

	storetest.NewTodo(t, s, alice, "a1", "Work", "Home")
	storetest.NewTodo(t, s, alice, "a2", "Work")
	storetest.NewTodo(t, s, bob, "b1", "Garden")

	tags, err := s.ListTags(ctx, alice.ID)
	require.NoError(t, err)
	names := make([]string, 0, len(tags))
	for _, tg := range tags {
		names = append(names, tg.Name)
	}
	assert.Equal(t, []string{"Home", "Work"}, names)

	none := storetest.NewUser(t, s, "carol")
	tags, err = s.ListTags(ctx, none.ID)
	require.NoError(t, err)
	assert.NotNil(t, tags)
	assert.Empty(t, tags)
}

func TestTagCRUD(t *testing.T) {
	ctx := context.Background()
	s := storetest.NewTestStore(t)
	alice := storetest.NewUser(t, s, "alice")
	bob := storetest.NewUser(t, s, "bob")
	todo := storetest.NewTodo(t, s, alice, "a1", "Work")
	workID := todo.Tags[0].ID

	tag := &models.Tag{Name: "Urgent"}
	require.NoError(t, s.CreateTag(ctx, tag))
	assert.NotZero(t, tag.ID)
	assert.Equal(t, models.DefaultTagColor, tag.Color)

	err := s.CreateTag(ctx, &models.Tag{Name: "Work"})
	assert.ErrorIs(t, err, store.ErrDuplicateTag)

	got, err := s.GetTag(ctx, alice.ID, workID)
	require.NoError(t, err)
	assert.Equal(t, "Work", got.Name)

	_, err = s.GetTag(ctx, bob.ID, workID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	updated, err := s.UpdateTag(ctx, alice.ID, workID, func(tg *models.Tag) { tg.Color = "#123456" })
	require.NoError(t, err)
	assert.Equal(t, "#123456", updated.Color)

	_, err = s.UpdateTag(ctx, bob.ID, workID, func(tg *models.Tag) { tg.Name = "Stolen" })
	assert.ErrorIs(t, err, store.ErrNotFound)

	// link Urgent so alice can see it, then rename Work onto it
	_, _, err = s.UpdateTodo(ctx, alice.ID, todo.ID, func(*models.Todo) {},
		[]models.Tag{{Name: "Work"}, {Name: "Urgent"}}, true)
	require.NoError(t, err)
	_, err = s.UpdateTag(ctx, alice.ID, workID, func(tg *models.Tag) { tg.Name = "Urgent" })
	assert.ErrorIs(t, err, store.ErrDuplicateTag)

	assert.ErrorIs(t, s.DeleteTag(ctx, bob.ID, workID), store.ErrNotFound)
	require.NoError(t, s.DeleteTag(ctx, alice.ID, workID))

	reloaded, err := s.GetTodo(ctx, alice.ID, todo.ID, false)
	require.NoError(t, err)
	require.Len(t, reloaded.Tags, 1)
	assert.Equal(t, "Urgent", reloaded.Tags[0].Name)
}

// createConcurrently runs writers goroutines per user, each creating a todo
// tagged name, and returns the tag id every write resolved to.
func createConcurrently(t *testing.T, s *store.Store, users []*models.User, writers int, name string) []int64 {
	t.Helper()
	ctx := context.Background()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ids  []int64
		errs []error
	)
	for _, u := range users {
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(u *models.User, i int) {
				defer wg.Done()
				todo := &models.Todo{
					Title:    fmt.Sprintf("%s %d", u.Subject, i),
					Priority: models.PriorityMedium,
					Status:   models.StatusPending,
					UserID:   u.ID,
				}
				err := s.CreateTodo(ctx, todo, []models.Tag{{Name: name, Color: models.DefaultTagColor}})

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					errs = append(errs, err)
					return
				}
				if len(todo.Tags) == 1 {
					ids = append(ids, todo.Tags[0].ID)
				}
			}(u, i)
		}
	}
	wg.Wait()

	require.Empty(t, errs)
	require.Len(t, ids, len(users)*writers)
	return ids
}

func TestGetOrCreateTag_ConcurrentWritersShareOneRow(t *testing.T) {
	s := storetest.NewFileStore(t)
	var users []*models.User
	for i := 0; i < 8; i++ {
		users = append(users, storetest.NewUser(t, s, fmt.Sprintf("user-%d", i)))
	}

	ids := createConcurrently(t, s, users, 8, "Work")
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}

	n, err := s.CountTags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

// Runs against a real Postgres when DB_URL is set.
func TestGetOrCreateTag_ConcurrentWritersPostgres(t *testing.T) {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		t.Skip("DB_URL not set")
	}
	s := storetest.NewPostgresStore(t, dsn)

	run := time.Now().UnixNano()
	var users []*models.User
	for i := 0; i < 4; i++ {
		users = append(users, storetest.NewUser(t, s, fmt.Sprintf("concurrent-%d-%d", run, i)))
	}

	ids := createConcurrently(t, s, users, 16, fmt.Sprintf("work-%d", run))
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}
