package handlers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jalexanderII/zero-todos/models"
	"github.com/jalexanderII/zero-todos/store"
)

func parseQuery(t *testing.T, query string) (models.TodoFilter, error) {
	t.Helper()

	var (
		f   models.TodoFilter
		err error
	)
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		f, err = ParseTodoFilter(c)
		return c.SendStatus(fiber.StatusNoContent)
	})
	resp, testErr := app.Test(httptest.NewRequest("GET", "/?"+query, nil), -1)
	require.NoError(t, testErr)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	return f, err
}

func TestParseTodoFilter(t *testing.T) {
	f, err := parseQuery(t, "title=Report&priority__gt=1&priority__lt=4&status=Pending&tags=Work"+
		"&due_date__lt=2030-01-02&search=alpha,beta%20gamma&ordering=-priority,due_date&page=2")
	require.NoError(t, err)

	require.NotNil(t, f.Title)
	assert.Equal(t, "Report", *f.Title)
	assert.Equal(t, 1, *f.PriorityGT)
	assert.Equal(t, 4, *f.PriorityLT)
	assert.Nil(t, f.Priority)
	assert.Equal(t, "Pending", *f.Status)
	assert.Equal(t, "Work", *f.Tag)
	assert.True(t, f.DueDateLT.Equal(time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, f.Search)
	assert.Equal(t, []models.OrderField{{Field: "priority", Desc: true}, {Field: "due_date"}}, f.Ordering)
	assert.Equal(t, 2, f.Page)
}

func TestParseTodoFilter_Aliases(t *testing.T) {
	f, err := parseQuery(t, "title__icontains=rep&title__exact=Report&order_by=created_at")
	require.NoError(t, err)
	assert.Equal(t, "rep", *f.Title)
	assert.Equal(t, "Report", *f.TitleExact)
	assert.Equal(t, []models.OrderField{{Field: "created_at"}}, f.Ordering)

	f, err = parseQuery(t, "")
	require.NoError(t, err)
	assert.Equal(t, 1, f.Page)
	assert.Empty(t, f.Ordering)
	assert.Empty(t, f.Search)
}

func TestParseTodoFilter_Malformed(t *testing.T) {
	_, err := parseQuery(t, "priority=high&due_date__gt=soon")
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "priority")
	assert.Contains(t, verr.Fields, "due_date__gt")

	for _, page := range []string{"0", "-1", "x"} {
		_, err = parseQuery(t, "page="+page)
		assert.ErrorIs(t, err, store.ErrInvalidPage, page)
	}
}
